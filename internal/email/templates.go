package email

import "fmt"

// SendVerificationEmail delivers the account-activation link. The token is
// embedded in a frontend URL so the web app can post it back to
// /v1/auth/verify-email.
func (e *Email) SendVerificationEmail(recipientEmail, firstName, token string) error {
	name := firstName
	if name == "" {
		name = "there"
	}
	verificationURL := fmt.Sprintf("%s/verify-email?token=%s", e.frontendURL, token)

	body := fmt.Sprintf(`Hello %s,

Welcome to Paharnama! Please confirm your email address by opening the link below:

%s

The link is valid for 24 hours. If you did not create an account, please ignore this email.
`, name, verificationURL)

	return e.Send(recipientEmail, "Welcome to Paharnama! Please verify your email", body)
}

// SendWelcomeEmail is sent once, right after a successful verification.
func (e *Email) SendWelcomeEmail(recipientEmail, firstName string) error {
	name := firstName
	if name == "" {
		name = "there"
	}

	body := fmt.Sprintf(`Hello %s,

Your email is verified and your Paharnama account is ready. You can log in now and start exploring the mountains.
`, name)

	return e.Send(recipientEmail, "Welcome to Paharnama!", body)
}
