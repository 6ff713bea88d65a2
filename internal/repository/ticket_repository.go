package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/transitx/marketplace/internal/domain"
	"github.com/transitx/marketplace/pkg/database"
)

type TicketRepository interface {
	Insert(ctx context.Context, ticket *domain.Ticket) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Ticket, error)
	FindApprovedByID(ctx context.Context, id primitive.ObjectID) (*domain.Ticket, error)
	ListByStatus(ctx context.Context, status domain.VerificationStatus) ([]domain.Ticket, error)
	ListBySeller(ctx context.Context, email string) ([]domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	// TransitionStatus flips a pending ticket to the given terminal status.
	// Returns false when the ticket is not currently pending.
	TransitionStatus(ctx context.Context, id primitive.ObjectID, to domain.VerificationStatus) (bool, error)
	// ReserveQuantity decrements remaining quantity by qty only if at least
	// qty tickets remain. Returns false when the reservation lost the race.
	ReserveQuantity(ctx context.Context, id primitive.ObjectID, qty int) (bool, error)
	RestoreQuantity(ctx context.Context, id primitive.ObjectID, qty int) error
}

type ticketRepository struct {
	coll *mongo.Collection
}

func NewTicketRepository(db *mongo.Database) TicketRepository {
	return &ticketRepository{coll: db.Collection(database.TicketsCollection)}
}

func (r *ticketRepository) Insert(ctx context.Context, ticket *domain.Ticket) error {
	ticket.SellerEmail = normalizeEmail(ticket.SellerEmail)
	res, err := r.coll.InsertOne(ctx, ticket)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		ticket.ID = oid
	}
	return nil
}

func (r *ticketRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Ticket, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ticketRepository) FindApprovedByID(ctx context.Context, id primitive.ObjectID) (*domain.Ticket, error) {
	// The status condition is part of the filter so pending/rejected tickets
	// are indistinguishable from absent ones.
	return r.findOne(ctx, bson.M{"_id": id, "verification_status": domain.TicketApproved})
}

func (r *ticketRepository) findOne(ctx context.Context, filter bson.M) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := r.coll.FindOne(ctx, filter).Decode(&ticket)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	return &ticket, nil
}

func (r *ticketRepository) ListByStatus(ctx context.Context, status domain.VerificationStatus) ([]domain.Ticket, error) {
	return r.list(ctx, bson.M{"verification_status": status})
}

func (r *ticketRepository) ListBySeller(ctx context.Context, email string) ([]domain.Ticket, error) {
	return r.list(ctx, bson.M{"seller_email": normalizeEmail(email)})
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	return r.list(ctx, bson.M{})
}

func (r *ticketRepository) list(ctx context.Context, filter bson.M) ([]domain.Ticket, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer cur.Close(ctx)

	tickets := make([]domain.Ticket, 0)
	if err := cur.All(ctx, &tickets); err != nil {
		return nil, fmt.Errorf("decode tickets: %w", err)
	}
	return tickets, nil
}

func (r *ticketRepository) TransitionStatus(ctx context.Context, id primitive.ObjectID, to domain.VerificationStatus) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "verification_status": domain.TicketPending},
		bson.M{"$set": bson.M{"verification_status": to}},
	)
	if err != nil {
		return false, fmt.Errorf("transition ticket status: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *ticketRepository) ReserveQuantity(ctx context.Context, id primitive.ObjectID, qty int) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "quantity": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"quantity": -qty}},
	)
	if err != nil {
		return false, fmt.Errorf("reserve ticket quantity: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *ticketRepository) RestoreQuantity(ctx context.Context, id primitive.ObjectID, qty int) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"quantity": qty}},
	)
	if err != nil {
		return fmt.Errorf("restore ticket quantity: %w", err)
	}
	return nil
}
