package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fuelcard/reclamation-service/internal/domain"
)

func TestDurationFor(t *testing.T) {
	tests := []struct {
		problemType domain.ProblemType
		days        int
	}{
		{domain.ProblemBalanceError, 1},
		{domain.ProblemRechargeIssue, 1},
		{domain.ProblemPaymentRefused, 1},
		{domain.ProblemCardRejected, 2},
		{domain.ProblemCardBlocked, 2},
		{domain.ProblemLimitIssue, 2},
		{domain.ProblemDamagedCard, 2},
		{domain.ProblemStationIssue, 2},
		{domain.ProblemOther, 2},
		{domain.ProblemLostStolen, 3},
		{domain.ProblemDeliveryDelay, 3},
		{domain.ProblemDoubleCharge, 4},
		{domain.ProblemFraud, 5},
	}
	for _, tc := range tests {
		t.Run(string(tc.problemType), func(t *testing.T) {
			assert.Equal(t, time.Duration(tc.days)*24*time.Hour, DurationFor(tc.problemType))
		})
	}
}

func TestDurationForUnknownUsesDefault(t *testing.T) {
	assert.Equal(t, DefaultDuration, DurationFor(domain.ProblemType("UNMAPPED")))
}

func TestEstimate(t *testing.T) {
	start := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	deadline := Estimate(start, domain.ProblemBalanceError)
	assert.Equal(t, start.Add(24*time.Hour), deadline)

	deadline = Estimate(start, domain.ProblemFraud)
	assert.Equal(t, start.Add(5*24*time.Hour), deadline)
}

func TestProgress(t *testing.T) {
	duration := 48 * time.Hour
	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	deadline := start.Add(duration)

	assert.Equal(t, 0, Progress(start, deadline, duration))
	assert.Equal(t, 25, Progress(start.Add(12*time.Hour), deadline, duration))
	assert.Equal(t, 50, Progress(start.Add(24*time.Hour), deadline, duration))
	assert.Equal(t, 100, Progress(deadline, deadline, duration))
}

func TestProgressClamps(t *testing.T) {
	duration := 24 * time.Hour
	deadline := time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, Progress(deadline.Add(-48*time.Hour), deadline, duration))
	assert.Equal(t, 100, Progress(deadline.Add(72*time.Hour), deadline, duration))
	assert.Equal(t, 0, Progress(deadline, deadline, 0))
}

func TestIsOverdue(t *testing.T) {
	deadline := time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC)

	assert.False(t, IsOverdue(deadline.Add(-time.Hour), deadline, domain.TicketStatusOpen))
	assert.True(t, IsOverdue(deadline.Add(time.Hour), deadline, domain.TicketStatusOpen))
	assert.True(t, IsOverdue(deadline.Add(time.Hour), deadline, domain.TicketStatusInProgress))
	assert.False(t, IsOverdue(deadline.Add(time.Hour), deadline, domain.TicketStatusResolved))
}
