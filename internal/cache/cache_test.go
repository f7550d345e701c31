package cache

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListKeyNormalization(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	// Parameter order must not matter
	a, err := url.ParseQuery("completed=true&page=2")
	require.NoError(t, err)
	b, err := url.ParseQuery("page=2&completed=true")
	require.NoError(t, err)

	assert.Equal(t, ListKey(userID, a), ListKey(userID, b))

	// Unknown parameters must not fragment the key
	c, err := url.ParseQuery("page=2&completed=true&per_page=50")
	require.NoError(t, err)
	assert.Equal(t, ListKey(userID, a), ListKey(userID, c))

	// A differing known parameter must change the key
	d, err := url.ParseQuery("page=3&completed=true")
	require.NoError(t, err)
	assert.NotEqual(t, ListKey(userID, a), ListKey(userID, d))
}

func TestListKeyScopedToOwner(t *testing.T) {
	t.Parallel()

	query := url.Values{"page": []string{"1"}}

	keyA := ListKey(uuid.New(), query)
	keyB := ListKey(uuid.New(), query)

	assert.NotEqual(t, keyA, keyB, "two owners must never share a list key")
}

func TestGetSetRoundTrip(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	key := ItemKey(uuid.New(), uuid.New())

	_, hit := c.Get(key)
	assert.False(t, hit, "expected a miss before Set")

	payload := []byte(`{"requestStatus":true}`)
	c.Set(key, payload)

	got, hit := c.Get(key)
	require.True(t, hit)
	assert.Equal(t, payload, got)
}

func TestEntriesExpire(t *testing.T) {
	t.Parallel()

	c := New(20 * time.Millisecond)
	key := ItemKey(uuid.New(), uuid.New())
	c.Set(key, []byte("payload"))

	time.Sleep(50 * time.Millisecond)

	_, hit := c.Get(key)
	assert.False(t, hit, "expected entry to expire after TTL")
}

func TestInvalidateOwner(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	owner := uuid.New()
	other := uuid.New()

	listQuery := url.Values{"page": []string{"1"}}
	c.Set(ListKey(owner, listQuery), []byte("owner list"))
	c.Set(ItemKey(owner, uuid.New()), []byte("owner item"))
	c.Set(ListKey(other, listQuery), []byte("other list"))

	c.InvalidateOwner(owner)

	_, hit := c.Get(ListKey(owner, listQuery))
	assert.False(t, hit, "owner list entry should be invalidated")

	_, hit = c.Get(ListKey(other, listQuery))
	assert.True(t, hit, "another owner's entries must survive")
}
