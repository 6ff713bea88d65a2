package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/transitx/marketplace/internal/domain"
	"github.com/transitx/marketplace/internal/repository"
	"github.com/transitx/marketplace/pkg/events"
	"github.com/transitx/marketplace/pkg/logger"
)

type TicketService interface {
	Create(ctx context.Context, sub *domain.TicketSubmission) (*domain.Ticket, error)
	ListApproved(ctx context.Context) ([]domain.Ticket, error)
	GetApprovedByID(ctx context.Context, id primitive.ObjectID) (*domain.Ticket, error)
	ListForVendor(ctx context.Context, email, principal string) ([]domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	Approve(ctx context.Context, id primitive.ObjectID, principal string) error
	Reject(ctx context.Context, id primitive.ObjectID, principal string) error
}

type ticketService struct {
	ticketRepo repository.TicketRepository
	eventBus   events.Publisher
}

func NewTicketService(ticketRepo repository.TicketRepository, eventBus events.Publisher) TicketService {
	return &ticketService{
		ticketRepo: ticketRepo,
		eventBus:   eventBus,
	}
}

func (s *ticketService) Create(ctx context.Context, sub *domain.TicketSubmission) (*domain.Ticket, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	// Moderation state is server-owned: every submission starts pending no
	// matter what the client sent.
	ticket := &domain.Ticket{
		SellerEmail:        sub.SellerEmail,
		SellerName:         sub.SellerName,
		Title:              sub.Title,
		Description:        sub.Description,
		TransportType:      sub.TransportType,
		FromLocation:       sub.FromLocation,
		ToLocation:         sub.ToLocation,
		Price:              sub.Price,
		Quantity:           sub.Quantity,
		Departure:          sub.Departure,
		VerificationStatus: domain.TicketPending,
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.ticketRepo.Insert(ctx, ticket); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "ticket submitted",
		"ticket_id", ticket.ID.Hex(),
		"seller", ticket.SellerEmail,
		"quantity", ticket.Quantity,
	)

	event := events.TicketSubmittedEvent{
		TicketID:    ticket.ID.Hex(),
		SellerEmail: ticket.SellerEmail,
		Title:       ticket.Title,
		Quantity:    ticket.Quantity,
		Departure:   ticket.Departure,
		SubmittedAt: ticket.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.TicketSubmitted, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish ticket submitted event", "error", err, "ticket_id", ticket.ID.Hex())
	}

	return ticket, nil
}

func (s *ticketService) ListApproved(ctx context.Context) ([]domain.Ticket, error) {
	return s.ticketRepo.ListByStatus(ctx, domain.TicketApproved)
}

func (s *ticketService) GetApprovedByID(ctx context.Context, id primitive.ObjectID) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.FindApprovedByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, domain.ErrTicketNotFound
	}
	return ticket, nil
}

func (s *ticketService) ListForVendor(ctx context.Context, email, principal string) ([]domain.Ticket, error) {
	if !strings.EqualFold(email, principal) {
		return nil, domain.ErrForbidden
	}
	return s.ticketRepo.ListBySeller(ctx, email)
}

func (s *ticketService) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	return s.ticketRepo.ListAll(ctx)
}

func (s *ticketService) Approve(ctx context.Context, id primitive.ObjectID, principal string) error {
	return s.moderate(ctx, id, domain.TicketApproved, events.TicketApproved, principal)
}

func (s *ticketService) Reject(ctx context.Context, id primitive.ObjectID, principal string) error {
	return s.moderate(ctx, id, domain.TicketRejected, events.TicketRejected, principal)
}

func (s *ticketService) moderate(ctx context.Context, id primitive.ObjectID, to domain.VerificationStatus, subject, principal string) error {
	transitioned, err := s.ticketRepo.TransitionStatus(ctx, id, to)
	if err != nil {
		return err
	}
	if !transitioned {
		ticket, err := s.ticketRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if ticket == nil {
			return domain.ErrTicketNotFound
		}
		// Exists but is no longer pending: terminal states are one-way.
		return fmt.Errorf("%w: ticket is already %s", domain.ErrAlreadyModerated, ticket.VerificationStatus)
	}

	logger.InfoContext(ctx, "ticket moderated",
		"ticket_id", id.Hex(),
		"status", string(to),
		"moderated_by", principal,
	)

	event := events.TicketModeratedEvent{
		TicketID:    id.Hex(),
		Status:      string(to),
		ModeratedBy: principal,
	}
	if err := s.eventBus.Publish(ctx, subject, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish ticket moderated event", "error", err, "ticket_id", id.Hex())
	}

	return nil
}
