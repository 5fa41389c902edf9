package notification

import (
	"fmt"
	"log/slog"
	"net/smtp"
)

// EmailConfig holds SMTP settings plus the frontend base URL used to build
// verification links.
type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
	BaseURL  string
}

// EmailNotifier delivers verification links and reset codes over SMTP. Every
// send is dispatched on its own goroutine and failures are only logged, so a
// slow or failing mail server can never stall or fail the workflow that
// triggered the message.
type EmailNotifier struct {
	config EmailConfig
	logger *slog.Logger
}

// NewEmailNotifier creates a new SMTP notifier.
func NewEmailNotifier(config EmailConfig, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{config: config, logger: logger}
}

// VerificationIssued sends the set-password link for a fresh verification
// token.
func (n *EmailNotifier) VerificationIssued(email, token string) {
	link := fmt.Sprintf("%s/set-password/%s", n.config.BaseURL, token)
	subject := "Verify your email to set password"
	body := fmt.Sprintf(`<html><body>
		<h2>Welcome!</h2>
		<p>Please verify your email address to finish creating your account.</p>
		<p><a href="%s">Click here to verify and set your password</a></p>
		<p>Or copy this link to your browser: %s</p>
	</body></html>`, link, link)

	n.send(email, subject, body)
}

// ResetCodeIssued sends a password reset code.
func (n *EmailNotifier) ResetCodeIssued(email, code string) {
	subject := "Your OTP for password reset"
	body := fmt.Sprintf(`<html><body>
		<h2>Password Reset</h2>
		<p>Your one-time code is:</p>
		<p style="font-size: 24px; letter-spacing: 4px;"><strong>%s</strong></p>
		<p>This code expires in 5 minutes. If you did not request a password
		reset, you can ignore this email.</p>
	</body></html>`, code)

	n.send(email, subject, body)
}

func (n *EmailNotifier) send(to, subject, body string) {
	go func() {
		if err := n.sendEmail(to, subject, body); err != nil {
			n.logger.Error("failed to send email", "error", err, "to", to, "subject", subject)
			return
		}
		n.logger.Info("email sent", "to", to, "subject", subject)
	}()
}

func (n *EmailNotifier) sendEmail(to, subject, body string) error {
	from := n.config.From
	if n.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", n.config.FromName, n.config.From)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, subject, body)

	// Local dev servers like MailHog take unauthenticated mail.
	var auth smtp.Auth
	if n.config.User != "" {
		auth = smtp.PlainAuth("", n.config.User, n.config.Password, n.config.Host)
	}

	addr := fmt.Sprintf("%s:%d", n.config.Host, n.config.Port)
	return smtp.SendMail(addr, auth, n.config.From, []string{to}, []byte(msg))
}
