package mocks

// MockPasswordVerifier implements auth.PasswordHasher and
// auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	// HashFn allows test cases to mock the Hash behavior
	HashFn func(password string) (string, error)

	// CompareFn allows test cases to mock the Compare behavior
	CompareFn func(hashedPassword, password string) error

	// Default values used when functions aren't explicitly defined
	Hashed     string
	HashErr    error
	CompareErr error
}

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordVerifier) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}

	if m.Hashed != "" {
		return m.Hashed, m.HashErr
	}

	return "hashed:" + password, m.HashErr
}

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}

	return m.CompareErr
}
