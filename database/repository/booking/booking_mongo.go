package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"museumchat/database"
	"museumchat/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	bookings     *mongo.Collection
	transactions *mongo.Collection
	museumInfo   *mongo.Collection
}

// NewMongoBookingRepo creates a BookingRepository backed by the museum
// database.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database("museum")
	repo := &MongoBookingRepo{
		bookings:     db.Collection("bookings"),
		transactions: db.Collection("transactions"),
		museumInfo:   db.Collection("museum_info"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes enforces booking reference uniqueness. References are
// time-seeded and only best-effort unique; a duplicate insert surfaces as
// a save error rather than being silently retried.
func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	_, err := r.bookings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "booking_ref", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) SaveBooking(booking models.Booking) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}
	if _, err := r.bookings.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to save booking %s: %w", booking.BookingRef, err)
	}
	return nil
}

func (r *MongoBookingRepo) GetBooking(ref string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.bookings.FindOne(ctx, bson.M{"booking_ref": ref}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", ref, err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) SaveTransaction(tx models.Transaction) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	if _, err := r.transactions.InsertOne(ctx, tx); err != nil {
		return fmt.Errorf("failed to save transaction for %s: %w", tx.BookingRef, err)
	}
	return nil
}

func (r *MongoBookingRepo) GetMuseumInfo() (*models.MuseumInfo, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var info models.MuseumInfo
	if err := r.museumInfo.FindOne(ctx, bson.M{}).Decode(&info); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch museum info: %w", err)
	}
	return &info, nil
}
