package inventory

import "time"

// MovementPostedEvent describes a committed movement. ItemFound is false when
// the item was missing and only the transaction was stored; Delta is still
// the movement's signed effect but Balance is then zero and meaningless.
type MovementPostedEvent struct {
	TransactionID string
	ItemID        string
	ItemName      string
	Direction     Direction
	Delta         int
	Balance       int
	ItemFound     bool
	PostedAt      time.Time
}
