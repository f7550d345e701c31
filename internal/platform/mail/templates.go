package mail

import (
	"fmt"
	"html"
	"strings"
)

// Subjects of the two message kinds. Templates are French, matching the
// audience of the service.
const (
	VerificationSubject = "Verification de compte"
	ReminderSubject     = "Rappel: tâches bientôt dues"
)

// VerificationBody renders the account-verification email carrying the
// user's current verification token.
func VerificationBody(name, token string) string {
	return fmt.Sprintf(`
    <h2>Bonjour %s,</h2><br>
    <p>Votre compte a été créé, voici le code de verification de votre compte: <b>%s</b></p>
    Cordialement,<br>
`, html.EscapeString(name), html.EscapeString(token))
}

// ReminderBody renders the deadline-reminder email listing every due
// title for one owner.
func ReminderBody(name string, titles []string) string {
	var items strings.Builder
	for _, title := range titles {
		items.WriteString("<li>")
		items.WriteString(html.EscapeString(title))
		items.WriteString("</li>")
	}

	return fmt.Sprintf(`
    <h2>Bonjour %s,</h2><br>
    <p>Les tâches suivantes arrivent à échéance dans l'heure:</p>
    <ul>%s</ul>
    Cordialement,<br>
`, html.EscapeString(name), items.String())
}
