package interfaces

import "context"

// NotificationService delivers verification codes over an outbound channel
// (email or SMS). Invoked by the HTTP layer with codes returned from the
// auth core; the core itself never performs delivery.
type NotificationService interface {
	SendCode(ctx context.Context, codeType, destination, code string) error
}
