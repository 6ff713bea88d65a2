package domain

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VerificationStatus string

const (
	TicketPending  VerificationStatus = "pending"
	TicketApproved VerificationStatus = "approved"
	TicketRejected VerificationStatus = "rejected"
)

func ParseVerificationStatus(s string) (VerificationStatus, bool) {
	switch VerificationStatus(s) {
	case TicketPending, TicketApproved, TicketRejected:
		return VerificationStatus(s), true
	default:
		return "", false
	}
}

type Ticket struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SellerEmail        string             `bson:"seller_email" json:"seller_email"`
	SellerName         string             `bson:"seller_name" json:"seller_name"`
	Title              string             `bson:"title" json:"title"`
	Description        string             `bson:"description" json:"description"`
	TransportType      string             `bson:"transport_type" json:"transport_type"`
	FromLocation       string             `bson:"from_location" json:"from_location"`
	ToLocation         string             `bson:"to_location" json:"to_location"`
	Price              float64            `bson:"price" json:"price"`
	Quantity           int                `bson:"quantity" json:"quantity"`
	Departure          time.Time          `bson:"departure" json:"departure"`
	VerificationStatus VerificationStatus `bson:"verification_status" json:"verification_status"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
}

// IsSeller checks if the given email owns this ticket
func (t *Ticket) IsSeller(email string) bool {
	return strings.EqualFold(t.SellerEmail, email)
}

// Bookable reports whether the ticket can still be booked at the given instant.
func (t *Ticket) Bookable(now time.Time) bool {
	return t.Departure.After(now)
}

type TicketSubmission struct {
	SellerEmail   string    `json:"seller_email"`
	SellerName    string    `json:"seller_name"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	TransportType string    `json:"transport_type"`
	FromLocation  string    `json:"from_location"`
	ToLocation    string    `json:"to_location"`
	Price         float64   `json:"price"`
	Quantity      int       `json:"quantity"`
	Departure     time.Time `json:"departure"`
}

func (r *TicketSubmission) Validate() error {
	if strings.TrimSpace(r.SellerEmail) == "" {
		return fmt.Errorf("%w: seller_email is required", ErrValidation)
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if r.Price <= 0 {
		return fmt.Errorf("%w: price must be greater than zero", ErrValidation)
	}
	if r.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	if r.Departure.IsZero() {
		return fmt.Errorf("%w: departure is required", ErrValidation)
	}
	return nil
}
