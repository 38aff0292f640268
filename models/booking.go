package models

import "time"

// Booking is the persisted record of a paid booking.
type Booking struct {
	BookingInfo `bson:",inline" json:",inline"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// Transaction records the payment event attached to a booking.
type Transaction struct {
	ID         string    `bson:"id" json:"id"`
	BookingRef string    `bson:"booking_ref" json:"booking_ref"`
	Amount     int       `bson:"amount" json:"amount"`
	Status     string    `bson:"status" json:"status"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// MuseumInfo is the visitor information card served on request.
type MuseumInfo struct {
	Name     string `bson:"name" json:"name"`
	About    string `bson:"about" json:"about"`
	Hours    string `bson:"hours" json:"hours"`
	Location string `bson:"location" json:"location"`
	Phone    string `bson:"phone" json:"phone"`
	Email    string `bson:"email" json:"email"`
}
