package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/transitx/marketplace/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Event subjects
const (
	TicketSubmitted = "ticket.submitted"
	TicketApproved  = "ticket.approved"
	TicketRejected  = "ticket.rejected"
	BookingCreated  = "booking.created"
	UserLoggedIn    = "user.logged_in"
)

// Event payloads
type TicketSubmittedEvent struct {
	TicketID    string    `json:"ticket_id"`
	SellerEmail string    `json:"seller_email"`
	Title       string    `json:"title"`
	Quantity    int       `json:"quantity"`
	Departure   time.Time `json:"departure"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type TicketModeratedEvent struct {
	TicketID    string `json:"ticket_id"`
	Status      string `json:"status"`
	ModeratedBy string `json:"moderated_by"`
}

type BookingCreatedEvent struct {
	BookingID       string    `json:"booking_id"`
	TicketID        string    `json:"ticket_id"`
	UserEmail       string    `json:"user_email"`
	SellerEmail     string    `json:"seller_email"`
	BookingQuantity int       `json:"booking_quantity"`
	TotalPrice      float64   `json:"total_price"`
	DepartureTime   time.Time `json:"departure_time"`
	CreatedAt       time.Time `json:"created_at"`
}

type UserLoggedInEvent struct {
	Email      string    `json:"email"`
	FirstLogin bool      `json:"first_login"`
	LoggedInAt time.Time `json:"logged_in_at"`
}
