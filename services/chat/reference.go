package chat

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateBookingRef builds a human-facing booking reference: "MSM", the
// current date as YYYYMMDD, and three digits from a time-seeded PRNG.
// Uniqueness is best-effort only; the bookings collection carries a unique
// index on booking_ref and logs collisions rather than retrying.
func GenerateBookingRef(now time.Time) string {
	r := rand.New(rand.NewSource(now.UnixNano()))
	return fmt.Sprintf("MSM%s%03d", now.Format("20060102"), r.Intn(1000))
}
