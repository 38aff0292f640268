package bookingRepo

import "museumchat/models"

// BookingRepository defines data access for bookings, transactions and the
// museum information card.
type BookingRepository interface {
	SaveBooking(booking models.Booking) error
	GetBooking(ref string) (*models.Booking, error)
	SaveTransaction(tx models.Transaction) error
	GetMuseumInfo() (*models.MuseumInfo, error)
}
