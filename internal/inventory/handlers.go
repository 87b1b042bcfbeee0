package inventory

import "context"

// IntegrationHandler receives movements after they are committed.
type IntegrationHandler interface {
	HandleMovementPosted(ctx context.Context, evt MovementPostedEvent) error
}
