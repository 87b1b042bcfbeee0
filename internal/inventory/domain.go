package inventory

import (
	"time"
)

// Direction enumerates supported stock movements.
type Direction string

const (
	// Inbound represents stock received into the facility.
	Inbound Direction = "INBOUND"
	// Outbound represents stock issued out of the facility.
	Outbound Direction = "OUTBOUND"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == Inbound || d == Outbound
}

// Transaction records one movement of an item. ItemName and Username are
// denormalized copies taken when the movement was recorded.
type Transaction struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"itemId"`
	ItemName  string    `json:"itemName"`
	Direction Direction `json:"type"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
}

// Actor identifies the user performing a movement.
type Actor struct {
	UserID      string
	DisplayName string
}

// RecordInput describes a new movement.
type RecordInput struct {
	ItemID    string    `json:"itemId" validate:"required"`
	Direction Direction `json:"type" validate:"required,oneof=INBOUND OUTBOUND"`
	Quantity  int       `json:"quantity" validate:"gt=0"`
	Actor     Actor     `json:"-"`
}

// ReviseInput corrects a stored movement. An empty Direction keeps the
// stored one.
type ReviseInput struct {
	TransactionID string    `json:"transactionId" validate:"required"`
	Quantity      int       `json:"quantity" validate:"gt=0"`
	Direction     Direction `json:"type" validate:"omitempty,oneof=INBOUND OUTBOUND"`
}
