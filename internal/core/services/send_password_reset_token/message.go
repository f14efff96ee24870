package sendpasswordresettoken

import (
	"accounts/internal/core/domain/notifier"
	"accounts/internal/core/domain/user"
	"bytes"
	"html/template"
	"net/url"
)

const SUBJECT = "Password Reset Request"

var bodyTemplate = template.Must(template.New("password_reset").Parse(`<h2>Hello {{.Name}}</h2>
<p>Please use the url below to reset your password</p>
<p>This reset link is valid for only {{.Minutes}} minutes.</p>
<a href="{{.URL}}" clicktracking=off>{{.URL}}</a>
<p>Regards...</p>
<p>Accounts Team</p>
`))

// ResetURL points the user to the frontend page that redeems the token.
func ResetURL(frontendURL string, token user.PasswordResetToken) (string, error) {
	return url.JoinPath(frontendURL, "resetpassword", string(token))
}

func NewMessage(u user.User, token user.PasswordResetToken, config Config) (message notifier.Message, err error) {
	resetURL, err := ResetURL(config.FrontendURL, token)
	if err != nil {
		return message, err
	}
	var body bytes.Buffer
	err = bodyTemplate.Execute(&body, struct {
		Name    string
		URL     string
		Minutes int
	}{Name: u.Name, URL: resetURL, Minutes: int(config.TokenTTL.Minutes())})
	if err != nil {
		return message, err
	}
	return notifier.Message{
		Subject:  SUBJECT,
		HTMLBody: body.String(),
		To:       string(u.Email),
		From:     config.Sender,
	}, nil
}
