package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/transitx/marketplace/internal/domain"
	"github.com/transitx/marketplace/pkg/database"
)

type BookingRepository interface {
	Insert(ctx context.Context, booking *domain.Booking) error
	ListByUser(ctx context.Context, email string) ([]domain.Booking, error)
}

type bookingRepository struct {
	coll *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) BookingRepository {
	return &bookingRepository{coll: db.Collection(database.BookingsCollection)}
}

func (r *bookingRepository) Insert(ctx context.Context, booking *domain.Booking) error {
	booking.UserEmail = normalizeEmail(booking.UserEmail)
	res, err := r.coll.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid
	}
	return nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, email string) ([]domain.Booking, error) {
	cur, err := r.coll.Find(ctx,
		bson.M{"user_email": normalizeEmail(email)},
		options.Find().SetSort(bson.M{"created_at": -1}),
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer cur.Close(ctx)

	bookings := make([]domain.Booking, 0)
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return bookings, nil
}
