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

type BookingService interface {
	Create(ctx context.Context, req *domain.BookingRequest, principal string) (*domain.Booking, error)
	ListByUser(ctx context.Context, email, principal string) ([]domain.Booking, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	ticketRepo  repository.TicketRepository
	eventBus    events.Publisher
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	ticketRepo repository.TicketRepository,
	eventBus events.Publisher,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		ticketRepo:  ticketRepo,
		eventBus:    eventBus,
	}
}

func (s *bookingService) Create(ctx context.Context, req *domain.BookingRequest, principal string) (*domain.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// A caller can only book in their own name.
	if !strings.EqualFold(req.UserEmail, principal) {
		return nil, domain.ErrForbidden
	}

	ticketID, err := primitive.ObjectIDFromHex(req.TicketID)
	if err != nil {
		return nil, fmt.Errorf("%w: ticket_id is not a valid id", domain.ErrValidation)
	}

	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, domain.ErrTicketNotFound
	}

	now := time.Now().UTC()
	if !ticket.Bookable(now) {
		return nil, domain.ErrDeparturePassed
	}

	if req.BookingQuantity < domain.MinBookingQuantity {
		return nil, domain.ErrQuantityTooLow
	}
	if req.BookingQuantity > ticket.Quantity {
		return nil, domain.ErrQuantityExceeded
	}

	// Reserve stock with a conditional decrement so concurrent bookings
	// against the same ticket cannot oversell.
	reserved, err := s.ticketRepo.ReserveQuantity(ctx, ticketID, req.BookingQuantity)
	if err != nil {
		return nil, err
	}
	if !reserved {
		return nil, domain.ErrQuantityExceeded
	}

	// Snapshot ticket fields so later edits don't rewrite booking history.
	booking := &domain.Booking{
		UserEmail:       req.UserEmail,
		TicketID:        ticketID,
		TicketTitle:     ticket.Title,
		BookingQuantity: req.BookingQuantity,
		UnitPrice:       ticket.Price,
		TotalPrice:      ticket.Price * float64(req.BookingQuantity),
		Status:          domain.BookingPending,
		SellerEmail:     ticket.SellerEmail,
		DepartureTime:   ticket.Departure,
		CreatedAt:       now,
	}

	if err := s.bookingRepo.Insert(ctx, booking); err != nil {
		if restoreErr := s.ticketRepo.RestoreQuantity(ctx, ticketID, req.BookingQuantity); restoreErr != nil {
			logger.ErrorContext(ctx, "Failed to restore reserved quantity",
				"error", restoreErr,
				"ticket_id", ticketID.Hex(),
				"quantity", req.BookingQuantity,
			)
		}
		return nil, err
	}

	logger.InfoContext(ctx, "booking created",
		"booking_id", booking.ID.Hex(),
		"ticket_id", ticketID.Hex(),
		"user", booking.UserEmail,
		"quantity", booking.BookingQuantity,
	)

	event := events.BookingCreatedEvent{
		BookingID:       booking.ID.Hex(),
		TicketID:        ticketID.Hex(),
		UserEmail:       booking.UserEmail,
		SellerEmail:     booking.SellerEmail,
		BookingQuantity: booking.BookingQuantity,
		TotalPrice:      booking.TotalPrice,
		DepartureTime:   booking.DepartureTime,
		CreatedAt:       booking.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.BookingCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking created event", "error", err, "booking_id", booking.ID.Hex())
	}

	return booking, nil
}

func (s *bookingService) ListByUser(ctx context.Context, email, principal string) ([]domain.Booking, error) {
	if !strings.EqualFold(email, principal) {
		return nil, domain.ErrForbidden
	}
	return s.bookingRepo.ListByUser(ctx, email)
}
