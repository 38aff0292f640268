package ticket

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"museumchat/models"
)

var testData = models.TicketData{
	BookingRef:     "MSM20240522042",
	Name:           "Jane Doe",
	Email:          "jane@x.com",
	Phone:          "9876543210",
	VisitDate:      "22/05/2024",
	AdultTickets:   2,
	StudentTickets: 1,
	ChildTickets:   1,
	TotalAmount:    1250,
}

func testGenerator() Generator {
	return Generator{
		MuseumName: "National Museum",
		Prices:     Prices{Adult: 500, Student: 250, Child: 0},
	}
}

func TestBuildProducesPDF(t *testing.T) {
	b, err := testGenerator().Build(testData)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header")
	}
	if len(b) < 500 {
		t.Errorf("suspiciously small PDF: %d bytes", len(b))
	}
}

func TestItemizeSkipsUnbookedCategories(t *testing.T) {
	g := testGenerator()

	counts, breakdown := g.itemize(testData)
	if len(counts) != 3 || len(breakdown) != 2 {
		t.Errorf("full booking: %d count lines, %d breakdown lines, want 3 and 2", len(counts), len(breakdown))
	}

	studentsOnly := models.TicketData{StudentTickets: 2, ChildTickets: 1}
	counts, breakdown = g.itemize(studentsOnly)
	// Child tickets without an adult are not listed.
	if len(counts) != 1 || len(breakdown) != 1 {
		t.Errorf("students only: %d count lines, %d breakdown lines, want 1 and 1", len(counts), len(breakdown))
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path, err := testGenerator().WriteFile(dir, testData)
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	want := filepath.Join(dir, "museum-ticket-MSM20240522042.pdf")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written ticket: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Errorf("written file is not a PDF")
	}
}
