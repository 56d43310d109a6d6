// Package sla computes resolution deadlines from problem types. The
// deadline is estimated once when a ticket enters OPEN, stored on the
// ticket, and re-estimated only when a specialist takes charge.
package sla

import (
	"time"

	"github.com/fuelcard/reclamation-service/internal/domain"
)

const day = 24 * time.Hour

// DefaultDuration applies to problem types without an explicit entry.
const DefaultDuration = 2 * day

var resolutionTimes = map[domain.ProblemType]time.Duration{
	domain.ProblemCardRejected:   2 * day,
	domain.ProblemCardBlocked:    2 * day,
	domain.ProblemBalanceError:   1 * day,
	domain.ProblemRechargeIssue:  1 * day,
	domain.ProblemLimitIssue:     2 * day,
	domain.ProblemLostStolen:     3 * day,
	domain.ProblemPaymentRefused: 1 * day,
	domain.ProblemDoubleCharge:   4 * day,
	domain.ProblemDamagedCard:    2 * day,
	domain.ProblemDeliveryDelay:  3 * day,
	domain.ProblemStationIssue:   2 * day,
	domain.ProblemFraud:          5 * day,
	domain.ProblemOther:          2 * day,
}

// DurationFor returns the expected resolution duration for a problem type.
func DurationFor(problemType domain.ProblemType) time.Duration {
	if d, ok := resolutionTimes[problemType]; ok {
		return d
	}
	return DefaultDuration
}

// Estimate derives the resolution deadline from a start time.
func Estimate(start time.Time, problemType domain.ProblemType) time.Time {
	return start.Add(DurationFor(problemType))
}

// Progress returns the elapsed share of the resolution window as a
// percentage clamped to [0,100].
func Progress(now, deadline time.Time, duration time.Duration) int {
	if duration <= 0 {
		return 0
	}
	elapsed := now.Sub(deadline.Add(-duration))
	pct := int(elapsed * 100 / duration)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// IsOverdue reports whether an unresolved ticket has passed its deadline.
func IsOverdue(now, deadline time.Time, status domain.TicketStatus) bool {
	return status != domain.TicketStatusResolved && now.After(deadline)
}
