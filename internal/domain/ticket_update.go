package domain

import "time"

// TicketUpdate is an append-only audit entry on a ticket: a comment, an
// internal note or a record of a status change. A nil AuthorID marks a
// system-generated entry (for example the auto-assignment at creation).
// Entries are never mutated or deleted individually; they go away only
// when their ticket is deleted.
type TicketUpdate struct {
	ID             string
	TicketID       string
	AuthorID       *string
	Message        string
	IsStatusChange bool
	NewStatus      *TicketStatus
	IsInternalNote bool
	CreatedAt      time.Time
}
