// Package notification adapts account email delivery. Actual transport
// is owned by an external mail service; this adapter records what was
// handed off.
package notification

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier records outbound account emails through the structured
// logger. It stands in for the external mail gateway in deployments
// where none is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// SendInvite records a first-time account invitation
func (n *LogNotifier) SendInvite(ctx context.Context, email, fullName, username string) error {
	n.logger.Info("Account invitation dispatched",
		zap.String("email", email),
		zap.String("full_name", fullName),
		zap.String("username", username))
	return nil
}

// SendReset records a password reset notification
func (n *LogNotifier) SendReset(ctx context.Context, email, fullName string) error {
	n.logger.Info("Password reset notification dispatched",
		zap.String("email", email),
		zap.String("full_name", fullName))
	return nil
}
