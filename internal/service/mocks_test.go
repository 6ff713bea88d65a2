package service_test

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/transitx/marketplace/internal/domain"
)

// ---------- Mocks ----------

type mockPublisher struct {
	published []string
	err       error
}

func (m *mockPublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	m.published = append(m.published, subject)
	return m.err
}

func (m *mockPublisher) Close() error { return nil }

type mockUserRepo struct {
	users     map[string]*domain.User
	findErr   error
	insertErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	user, ok := m.users[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

func (m *mockUserRepo) Insert(_ context.Context, user *domain.User) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	user.ID = primitive.NewObjectID()
	cp := *user
	m.users[strings.ToLower(user.Email)] = &cp
	return nil
}

func (m *mockUserRepo) TouchLastLogin(_ context.Context, email string, at time.Time) error {
	if user, ok := m.users[strings.ToLower(email)]; ok {
		user.LastLoggedIn = at
	}
	return nil
}

type mockTicketRepo struct {
	tickets   map[primitive.ObjectID]*domain.Ticket
	insertErr error
}

func newMockTicketRepo() *mockTicketRepo {
	return &mockTicketRepo{tickets: make(map[primitive.ObjectID]*domain.Ticket)}
}

func (m *mockTicketRepo) add(ticket *domain.Ticket) primitive.ObjectID {
	if ticket.ID.IsZero() {
		ticket.ID = primitive.NewObjectID()
	}
	m.tickets[ticket.ID] = ticket
	return ticket.ID
}

func (m *mockTicketRepo) Insert(_ context.Context, ticket *domain.Ticket) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.add(ticket)
	return nil
}

func (m *mockTicketRepo) FindByID(_ context.Context, id primitive.ObjectID) (*domain.Ticket, error) {
	ticket, ok := m.tickets[id]
	if !ok {
		return nil, nil
	}
	cp := *ticket
	return &cp, nil
}

func (m *mockTicketRepo) FindApprovedByID(_ context.Context, id primitive.ObjectID) (*domain.Ticket, error) {
	ticket, ok := m.tickets[id]
	if !ok || ticket.VerificationStatus != domain.TicketApproved {
		return nil, nil
	}
	cp := *ticket
	return &cp, nil
}

func (m *mockTicketRepo) ListByStatus(_ context.Context, status domain.VerificationStatus) ([]domain.Ticket, error) {
	out := make([]domain.Ticket, 0)
	for _, t := range m.tickets {
		if t.VerificationStatus == status {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *mockTicketRepo) ListBySeller(_ context.Context, email string) ([]domain.Ticket, error) {
	out := make([]domain.Ticket, 0)
	for _, t := range m.tickets {
		if strings.EqualFold(t.SellerEmail, email) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *mockTicketRepo) ListAll(_ context.Context) ([]domain.Ticket, error) {
	out := make([]domain.Ticket, 0)
	for _, t := range m.tickets {
		out = append(out, *t)
	}
	return out, nil
}

func (m *mockTicketRepo) TransitionStatus(_ context.Context, id primitive.ObjectID, to domain.VerificationStatus) (bool, error) {
	ticket, ok := m.tickets[id]
	if !ok || ticket.VerificationStatus != domain.TicketPending {
		return false, nil
	}
	ticket.VerificationStatus = to
	return true, nil
}

func (m *mockTicketRepo) ReserveQuantity(_ context.Context, id primitive.ObjectID, qty int) (bool, error) {
	ticket, ok := m.tickets[id]
	if !ok || ticket.Quantity < qty {
		return false, nil
	}
	ticket.Quantity -= qty
	return true, nil
}

func (m *mockTicketRepo) RestoreQuantity(_ context.Context, id primitive.ObjectID, qty int) error {
	if ticket, ok := m.tickets[id]; ok {
		ticket.Quantity += qty
	}
	return nil
}

type mockBookingRepo struct {
	bookings  []*domain.Booking
	insertErr error
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{}
}

func (m *mockBookingRepo) Insert(_ context.Context, booking *domain.Booking) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	booking.ID = primitive.NewObjectID()
	cp := *booking
	m.bookings = append(m.bookings, &cp)
	return nil
}

func (m *mockBookingRepo) ListByUser(_ context.Context, email string) ([]domain.Booking, error) {
	out := make([]domain.Booking, 0)
	for _, b := range m.bookings {
		if strings.EqualFold(b.UserEmail, email) {
			out = append(out, *b)
		}
	}
	return out, nil
}
