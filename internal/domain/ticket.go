package domain

import "time"

// TicketStatus enumerates lifecycle states for reclamation tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusRejected   TicketStatus = "REJECTED"
)

// Valid reports whether the status belongs to the closed enumeration.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether the status has no outgoing transitions.
func (s TicketStatus) Terminal() bool {
	return s == TicketStatusResolved || s == TicketStatusRejected
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
)

// Valid reports whether the priority is a known value.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// ProblemType classifies what went wrong with the fuel card.
type ProblemType string

const (
	ProblemCardRejected   ProblemType = "CARD_REJECTED"
	ProblemCardBlocked    ProblemType = "CARD_BLOCKED"
	ProblemBalanceError   ProblemType = "BALANCE_ERROR"
	ProblemRechargeIssue  ProblemType = "RECHARGE_ISSUE"
	ProblemLimitIssue     ProblemType = "LIMIT_ISSUE"
	ProblemLostStolen     ProblemType = "LOST_STOLEN"
	ProblemPaymentRefused ProblemType = "PAYMENT_REFUSED"
	ProblemDoubleCharge   ProblemType = "DOUBLE_CHARGE"
	ProblemDamagedCard    ProblemType = "DAMAGED_CARD"
	ProblemDeliveryDelay  ProblemType = "DELIVERY_DELAY"
	ProblemStationIssue   ProblemType = "STATION_ISSUE"
	ProblemFraud          ProblemType = "FRAUD"
	ProblemOther          ProblemType = "OTHER"
)

// ProblemTypes lists every known problem type.
var ProblemTypes = []ProblemType{
	ProblemCardRejected,
	ProblemCardBlocked,
	ProblemBalanceError,
	ProblemRechargeIssue,
	ProblemLimitIssue,
	ProblemLostStolen,
	ProblemPaymentRefused,
	ProblemDoubleCharge,
	ProblemDamagedCard,
	ProblemDeliveryDelay,
	ProblemStationIssue,
	ProblemFraud,
	ProblemOther,
}

// Valid reports whether the problem type is a known value.
func (p ProblemType) Valid() bool {
	for _, known := range ProblemTypes {
		if p == known {
			return true
		}
	}
	return false
}

// CardType enumerates the fuel-card products a reclamation can reference.
type CardType string

const (
	CardGoldValue    CardType = "GOLD_VAL"
	CardGoldVolume   CardType = "GOLD_VOL"
	CardCashPrepaid  CardType = "CASH_PRE"
	CardCashPostpaid CardType = "CASH_POST"
)

// ContactMethod is how the reporter prefers to be reached.
type ContactMethod string

const (
	ContactEmail ContactMethod = "EMAIL"
	ContactPhone ContactMethod = "PHONE"
)

// Valid reports whether the contact method is a known value.
func (c ContactMethod) Valid() bool {
	return c == ContactEmail || c == ContactPhone
}

// Ticket is the aggregate for a customer reclamation. AssignedTeam is set
// once at creation from the problem type and never changes afterwards.
type Ticket struct {
	ID                   string
	ReporterID           string
	ProblemType          ProblemType
	CardType             *CardType
	CardNumber           string
	StationID            *string
	Description          string
	IncidentAt           time.Time
	Status               TicketStatus
	Priority             TicketPriority
	AssignedTeam         Team
	AssignedSpecialistID *string
	ContactMethod        ContactMethod
	RequiresCallback     bool
	EstimatedResolution  *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Unclaimed reports whether no specialist owns the ticket yet.
func (t *Ticket) Unclaimed() bool {
	return t.AssignedSpecialistID == nil
}
