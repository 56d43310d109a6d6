package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fuelcard/reclamation-service/internal/config"
	"github.com/fuelcard/reclamation-service/internal/events"
)

// NotificationService turns committed domain events into outbound
// notifications. It runs strictly after the state change: a failure here
// is logged and never surfaces to the caller.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	n.dispatcher.Subscribe(events.EventTicketClaimed, n.handleTicketClaimed)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketUpdateAdded, n.handleTicketUpdateAdded)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketCreated", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

// handleTicketAssigned emails the selected specialist a link to the
// newly routed reclamation.
func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		n.logger.Warn("TicketAssigned with unexpected payload", zap.String("ticket_id", event.TicketID))
		return nil
	}
	n.logger.Info("TicketAssigned",
		zap.String("ticket_id", event.TicketID),
		zap.String("specialist_id", payload.SpecialistID),
		zap.String("team", string(payload.Team)))
	n.sendEmailNotificationStub(ctx, event, payload.SpecialistEmail,
		fmt.Sprintf("A new reclamation has been assigned to you: %s", n.ticketLink(event.TicketID)))
	return nil
}

// handleTicketClaimed tells the reporter who took charge and when to
// expect a resolution.
func (n *NotificationService) handleTicketClaimed(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketClaimed", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketStatusChanged", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketUpdateAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketUpdateAddedPayload)
	if ok && payload.IsInternalNote {
		// internal notes stay internal
		return nil
	}
	n.logger.Info("TicketUpdateAdded", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) ticketLink(ticketID string) string {
	base := strings.TrimRight(n.cfg.BaseURL, "/")
	if base == "" {
		return ticketID
	}
	return fmt.Sprintf("%s/reclamations/%s", base, ticketID)
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event, to, body string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || strings.TrimSpace(to) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)),
		zap.String("body", body))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}
