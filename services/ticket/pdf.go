package ticket

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"museumchat/models"

	"github.com/phpdave11/gofpdf"
)

// Prices used for the printed breakdown. They mirror the booking engine's
// defaults; the ticket only itemizes categories that were actually booked.
type Prices struct {
	Adult   int
	Student int
	Child   int
}

// Generator renders entry tickets as PDF documents keyed by booking
// reference.
type Generator struct {
	MuseumName string
	Prices     Prices
}

// Build renders the PDF for one completed booking.
func (g Generator) Build(data models.TicketData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Header
	pdf.SetTextColor(74, 56, 41)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 14, g.MuseumName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "ENTRY TICKET", "", 1, "C", false, 0, "")

	pdf.SetDrawColor(196, 163, 133)
	pdf.SetLineWidth(0.8)
	y := pdf.GetY() + 4
	pdf.Line(40, y, 170, y)
	pdf.SetY(y + 8)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "BOOKING DETAILS", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	details := []string{
		fmt.Sprintf("Booking Reference: %s", data.BookingRef),
		fmt.Sprintf("Visit Date: %s", data.VisitDate),
		fmt.Sprintf("Name: %s", data.Name),
		fmt.Sprintf("Email: %s", data.Email),
		fmt.Sprintf("Phone: %s", data.Phone),
	}
	for _, line := range details {
		pdf.CellFormat(0, 7, line, "", 1, "L", false, 0, "")
	}

	counts, breakdown := g.itemize(data)

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "TICKET DETAILS", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	for _, line := range counts {
		pdf.CellFormat(0, 7, line, "", 1, "L", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "PRICE BREAKDOWN", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	for _, line := range breakdown {
		pdf.CellFormat(0, 7, line, "", 1, "L", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total Amount: Rs.%d", data.TotalAmount), "", 1, "L", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "IMPORTANT INSTRUCTIONS", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	instructions := []string{
		"- Please arrive 15 minutes before your scheduled visit time",
		"- Present this ticket at the entrance (digital or printed)",
		"- Photography is allowed without flash",
		"- No food and beverages allowed inside",
		"- Please maintain silence in the museum premises",
	}
	for _, line := range instructions {
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}

	pdf.SetY(-20)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 8, fmt.Sprintf("Thank you for visiting the %s", g.MuseumName), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render ticket PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// itemize lists only the categories that were booked. Child tickets ride
// along with adult tickets and are marked free.
func (g Generator) itemize(data models.TicketData) (counts, breakdown []string) {
	if data.AdultTickets > 0 {
		counts = append(counts, fmt.Sprintf("Adult Tickets: %d", data.AdultTickets))
		breakdown = append(breakdown, fmt.Sprintf("Adult: %d x Rs.%d = Rs.%d",
			data.AdultTickets, g.Prices.Adult, data.AdultTickets*g.Prices.Adult))
	}
	if data.StudentTickets > 0 {
		counts = append(counts, fmt.Sprintf("Student Tickets: %d", data.StudentTickets))
		breakdown = append(breakdown, fmt.Sprintf("Student: %d x Rs.%d = Rs.%d",
			data.StudentTickets, g.Prices.Student, data.StudentTickets*g.Prices.Student))
	}
	if data.ChildTickets > 0 && data.AdultTickets > 0 {
		counts = append(counts, fmt.Sprintf("Child Tickets: %d (Free)", data.ChildTickets))
	}
	return counts, breakdown
}

// WriteFile renders the ticket into dir and returns the file path.
func (g Generator) WriteFile(dir string, data models.TicketData) (string, error) {
	b, err := g.Build(data)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create tickets dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("museum-ticket-%s.pdf", data.BookingRef))
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("failed to write ticket PDF: %w", err)
	}
	return path, nil
}
