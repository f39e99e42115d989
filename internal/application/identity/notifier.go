package identity

import "context"

// Notifier delivers account lifecycle emails. Delivery is best effort:
// apart from the first-time invitation, a failed send never reverses the
// state change that triggered it.
type Notifier interface {
	// SendInvite delivers the first-time account invitation.
	SendInvite(ctx context.Context, email, fullName, username string) error

	// SendReset tells a user their password has been reset.
	SendReset(ctx context.Context, email, fullName string) error
}
