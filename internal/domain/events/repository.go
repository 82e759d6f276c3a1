package events

import (
	"context"
	"time"
)

// Query narrows the events loaded from the store. Company matching is a
// case-insensitive substring, the rest are inclusive date bounds.
type Query struct {
	CompanyContains string
	From            *time.Time
	To              *time.Time
}

// Repository is the event-store access interface.
type Repository interface {
	// List returns events matching the query in (company, product, date)
	// order. Events with unparseable dates are returned with DateValid
	// false and never filtered out by date bounds.
	List(ctx context.Context, q Query) ([]Event, error)

	// Insert stores new real events.
	Insert(ctx context.Context, list []Event) (int, error)
}
