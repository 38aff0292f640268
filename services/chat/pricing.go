package chat

import (
	"fmt"
	"strings"

	"museumchat/models"
)

// PriceTable holds the per-category ticket prices in the primary currency
// unit (rupees).
type PriceTable struct {
	Adult   int
	Student int
	Child   int
}

// DefaultPrices mirrors the museum's published rates: children enter free.
var DefaultPrices = PriceTable{Adult: 500, Student: 250, Child: 0}

// Quote computes the ticket total for the given counts.
func (p PriceTable) Quote(info models.BookingInfo) int {
	return info.AdultTickets*p.Adult + info.StudentTickets*p.Student + info.ChildTickets*p.Child
}

// Summary renders the confirmation summary from the booking info alone.
func (p PriceTable) Summary(info models.BookingInfo) string {
	var b strings.Builder
	b.WriteString("Booking Summary:\n")
	fmt.Fprintf(&b, "Name: %s\n", info.Name)
	fmt.Fprintf(&b, "Email: %s\n", info.Email)
	fmt.Fprintf(&b, "Phone: %s\n", info.Phone)
	fmt.Fprintf(&b, "Visit Date: %s\n", info.VisitDate)
	fmt.Fprintf(&b, "Adult Tickets: %d x Rs.%d\n", info.AdultTickets, p.Adult)
	fmt.Fprintf(&b, "Student Tickets: %d x Rs.%d\n", info.StudentTickets, p.Student)
	if p.Child == 0 {
		fmt.Fprintf(&b, "Child Tickets: %d (Free)\n", info.ChildTickets)
	} else {
		fmt.Fprintf(&b, "Child Tickets: %d x Rs.%d\n", info.ChildTickets, p.Child)
	}
	fmt.Fprintf(&b, "\nTotal Amount: Rs.%d\n", p.Quote(info))
	b.WriteString("\nWould you like to confirm this booking?")
	return b.String()
}
