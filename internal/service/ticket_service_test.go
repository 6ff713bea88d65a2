package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/transitx/marketplace/internal/domain"
	"github.com/transitx/marketplace/internal/service"
)

func validSubmission() *domain.TicketSubmission {
	return &domain.TicketSubmission{
		SellerEmail:   "vendor@example.com",
		SellerName:    "Vendor",
		Title:         "Bangkok to Chiang Mai",
		TransportType: "bus",
		FromLocation:  "Bangkok",
		ToLocation:    "Chiang Mai",
		Price:         18.00,
		Quantity:      10,
		Departure:     time.Now().Add(72 * time.Hour),
	}
}

func TestCreateTicketForcesPending(t *testing.T) {
	ticketRepo := newMockTicketRepo()
	svc := service.NewTicketService(ticketRepo, &mockPublisher{})

	ticket, err := svc.Create(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if ticket.VerificationStatus != domain.TicketPending {
		t.Errorf("status = %q, want %q", ticket.VerificationStatus, domain.TicketPending)
	}
	if ticket.ID.IsZero() {
		t.Error("expected ticket to get an inserted ID")
	}
}

func TestCreateTicketValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.TicketSubmission)
	}{
		{"missing seller email", func(s *domain.TicketSubmission) { s.SellerEmail = " " }},
		{"missing title", func(s *domain.TicketSubmission) { s.Title = "" }},
		{"zero price", func(s *domain.TicketSubmission) { s.Price = 0 }},
		{"negative price", func(s *domain.TicketSubmission) { s.Price = -5 }},
		{"zero quantity", func(s *domain.TicketSubmission) { s.Quantity = 0 }},
		{"missing departure", func(s *domain.TicketSubmission) { s.Departure = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := service.NewTicketService(newMockTicketRepo(), &mockPublisher{})

			sub := validSubmission()
			tt.mutate(sub)

			if _, err := svc.Create(context.Background(), sub); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestListApprovedFiltersStatus(t *testing.T) {
	ticketRepo := newMockTicketRepo()
	svc := service.NewTicketService(ticketRepo, &mockPublisher{})

	ticketRepo.add(&domain.Ticket{Title: "a", VerificationStatus: domain.TicketApproved})
	ticketRepo.add(&domain.Ticket{Title: "b", VerificationStatus: domain.TicketPending})
	ticketRepo.add(&domain.Ticket{Title: "c", VerificationStatus: domain.TicketRejected})

	tickets, err := svc.ListApproved(context.Background())
	if err != nil {
		t.Fatalf("ListApproved() error = %v", err)
	}
	if len(tickets) != 1 {
		t.Fatalf("got %d tickets, want 1", len(tickets))
	}
	if tickets[0].VerificationStatus != domain.TicketApproved {
		t.Errorf("status = %q, want approved", tickets[0].VerificationStatus)
	}
}

func TestGetApprovedByIDHidesUnapproved(t *testing.T) {
	ticketRepo := newMockTicketRepo()
	svc := service.NewTicketService(ticketRepo, &mockPublisher{})

	pendingID := ticketRepo.add(&domain.Ticket{Title: "pending", VerificationStatus: domain.TicketPending})
	rejectedID := ticketRepo.add(&domain.Ticket{Title: "rejected", VerificationStatus: domain.TicketRejected})
	approvedID := ticketRepo.add(&domain.Ticket{Title: "approved", VerificationStatus: domain.TicketApproved})

	if _, err := svc.GetApprovedByID(context.Background(), pendingID); !errors.Is(err, domain.ErrTicketNotFound) {
		t.Errorf("pending ticket: error = %v, want ErrTicketNotFound", err)
	}
	if _, err := svc.GetApprovedByID(context.Background(), rejectedID); !errors.Is(err, domain.ErrTicketNotFound) {
		t.Errorf("rejected ticket: error = %v, want ErrTicketNotFound", err)
	}
	if _, err := svc.GetApprovedByID(context.Background(), primitive.NewObjectID()); !errors.Is(err, domain.ErrTicketNotFound) {
		t.Errorf("absent ticket: error = %v, want ErrTicketNotFound", err)
	}

	ticket, err := svc.GetApprovedByID(context.Background(), approvedID)
	if err != nil {
		t.Fatalf("approved ticket: error = %v", err)
	}
	if ticket.Title != "approved" {
		t.Errorf("title = %q", ticket.Title)
	}
}

func TestListForVendorRequiresOwnEmail(t *testing.T) {
	ticketRepo := newMockTicketRepo()
	svc := service.NewTicketService(ticketRepo, &mockPublisher{})

	ticketRepo.add(&domain.Ticket{SellerEmail: "vendor@example.com", VerificationStatus: domain.TicketPending})
	ticketRepo.add(&domain.Ticket{SellerEmail: "vendor@example.com", VerificationStatus: domain.TicketRejected})
	ticketRepo.add(&domain.Ticket{SellerEmail: "other@example.com", VerificationStatus: domain.TicketApproved})

	if _, err := svc.ListForVendor(context.Background(), "vendor@example.com", "other@example.com"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("error = %v, want ErrForbidden", err)
	}

	tickets, err := svc.ListForVendor(context.Background(), "vendor@example.com", "Vendor@Example.com")
	if err != nil {
		t.Fatalf("ListForVendor() error = %v", err)
	}
	// Vendors see their own tickets in every moderation state.
	if len(tickets) != 2 {
		t.Fatalf("got %d tickets, want 2", len(tickets))
	}
}

func TestModerationTransitions(t *testing.T) {
	ticketRepo := newMockTicketRepo()
	bus := &mockPublisher{}
	svc := service.NewTicketService(ticketRepo, bus)

	id := ticketRepo.add(&domain.Ticket{Title: "t", VerificationStatus: domain.TicketPending})

	if err := svc.Approve(context.Background(), id, "admin@example.com"); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if got := ticketRepo.tickets[id].VerificationStatus; got != domain.TicketApproved {
		t.Fatalf("status = %q, want approved", got)
	}

	// Terminal states are one-way: moderating again conflicts.
	if err := svc.Reject(context.Background(), id, "admin@example.com"); !errors.Is(err, domain.ErrAlreadyModerated) {
		t.Fatalf("error = %v, want ErrAlreadyModerated", err)
	}
	if err := svc.Approve(context.Background(), id, "admin@example.com"); !errors.Is(err, domain.ErrAlreadyModerated) {
		t.Fatalf("error = %v, want ErrAlreadyModerated", err)
	}

	if err := svc.Approve(context.Background(), primitive.NewObjectID(), "admin@example.com"); !errors.Is(err, domain.ErrTicketNotFound) {
		t.Fatalf("error = %v, want ErrTicketNotFound", err)
	}
}

func TestRejectPendingTicket(t *testing.T) {
	ticketRepo := newMockTicketRepo()
	svc := service.NewTicketService(ticketRepo, &mockPublisher{})

	id := ticketRepo.add(&domain.Ticket{Title: "t", VerificationStatus: domain.TicketPending})

	if err := svc.Reject(context.Background(), id, "admin@example.com"); err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if got := ticketRepo.tickets[id].VerificationStatus; got != domain.TicketRejected {
		t.Fatalf("status = %q, want rejected", got)
	}
}
