package domain

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

// MinBookingQuantity is the smallest quantity a single booking may reserve.
const MinBookingQuantity = 1

type Booking struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserEmail       string             `bson:"user_email" json:"user_email"`
	TicketID        primitive.ObjectID `bson:"ticket_id" json:"ticket_id"`
	TicketTitle     string             `bson:"ticket_title" json:"ticket_title"`
	BookingQuantity int                `bson:"booking_quantity" json:"booking_quantity"`
	UnitPrice       float64            `bson:"unit_price" json:"unit_price"`
	TotalPrice      float64            `bson:"total_price" json:"total_price"`
	Status          BookingStatus      `bson:"status" json:"status"`
	SellerEmail     string             `bson:"seller_email" json:"seller_email"`
	DepartureTime   time.Time          `bson:"departure_time" json:"departure_time"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}

// IsOwner checks if the given email owns this booking
func (b *Booking) IsOwner(email string) bool {
	return strings.EqualFold(b.UserEmail, email)
}

type BookingRequest struct {
	TicketID        string `json:"ticket_id"`
	UserEmail       string `json:"user_email"`
	BookingQuantity int    `json:"booking_quantity"`
}

func (r *BookingRequest) Validate() error {
	if strings.TrimSpace(r.TicketID) == "" {
		return fmt.Errorf("%w: ticket_id is required", ErrValidation)
	}
	if strings.TrimSpace(r.UserEmail) == "" {
		return fmt.Errorf("%w: user_email is required", ErrValidation)
	}
	return nil
}
