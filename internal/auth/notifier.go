package auth

import "log/slog"

// Notifier delivers messages to an account's email address. Delivery is
// best-effort and one-way: implementations log failures and never surface
// them to the workflow.
type Notifier interface {
	VerificationIssued(email, token string)
	ResetCodeIssued(email, code string)
}

// LogNotifier records would-be notifications in the log. It stands in for
// the SMTP notifier in development when no mail server is configured; the
// secrets are logged so the flows stay usable without one.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) VerificationIssued(email, token string) {
	n.Logger.Info("verification token issued (smtp not configured)", "email", email, "token", token)
}

func (n *LogNotifier) ResetCodeIssued(email, code string) {
	n.Logger.Info("reset code issued (smtp not configured)", "email", email, "code", code)
}
