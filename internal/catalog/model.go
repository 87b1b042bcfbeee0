package catalog

import (
	"time"
)

const (
	// DefaultCategory is assigned when an item is created without one.
	DefaultCategory = "General"
	// DefaultUnit is assigned when an item is created without a unit.
	DefaultUnit = "Unit"
)

// Item is a stocked medical supply. CurrentQuantity is maintained by the
// inventory ledger and never edited directly.
type Item struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	Unit            string    `json:"unit"`
	CurrentQuantity int       `json:"currentQuantity"`
	AddedAt         time.Time `json:"addedAt"`
}

// CreateItemInput carries the fields accepted when registering a new item.
type CreateItemInput struct {
	Code            string `json:"code" validate:"required"`
	Name            string `json:"name" validate:"required"`
	Category        string `json:"category"`
	Unit            string `json:"unit"`
	InitialQuantity int    `json:"initialQuantity" validate:"gte=0"`
}

// UpdateItemInput edits descriptive fields only.
type UpdateItemInput struct {
	Code     string `json:"code" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Category string `json:"category"`
	Unit     string `json:"unit"`
}
