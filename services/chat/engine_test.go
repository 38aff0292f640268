package chat

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"museumchat/models"
)

var testClock = func() time.Time {
	return time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
}

func newTestEngine() *DefaultConversationEngine {
	return &DefaultConversationEngine{
		Cfg: DefaultConfig("National Museum"),
		Now: testClock,
	}
}

// fakeStore records saves and can be told to fail them.
type fakeStore struct {
	bookings     []models.Booking
	transactions []models.Transaction
	failBooking  bool
}

func (s *fakeStore) SaveBooking(b models.Booking) error {
	if s.failBooking {
		return errors.New("mongo unavailable")
	}
	s.bookings = append(s.bookings, b)
	return nil
}

func (s *fakeStore) SaveTransaction(tx models.Transaction) error {
	s.transactions = append(s.transactions, tx)
	return nil
}

func (s *fakeStore) GetMuseumInfo() (*models.MuseumInfo, error) {
	return nil, nil
}

func respond(t *testing.T, e *DefaultConversationEngine, session models.Session, message, wantStep string) (models.Session, models.ChatResponse) {
	t.Helper()
	next, reply := e.Respond(context.Background(), message, session)
	if next.Step != wantStep {
		t.Fatalf("after %q: step = %q, want %q (reply: %s)", message, next.Step, wantStep, reply.Response)
	}
	if reply.State != wantStep {
		t.Fatalf("after %q: reply state = %q, want %q", message, reply.State, wantStep)
	}
	return next, reply
}

func TestHappyPathToConfirmation(t *testing.T) {
	e := newTestEngine()
	session := models.NewSession()

	session, _ = respond(t, e, session, "hello", models.StepInitialOptions)
	session, _ = respond(t, e, session, "book", models.StepAskingName)
	session, _ = respond(t, e, session, "Jane Doe", models.StepAskingEmail)
	session, _ = respond(t, e, session, "jane@x.com", models.StepAskingPhone)
	session, reply := respond(t, e, session, "9876543210", models.StepAskingVisitDate)
	if !reply.ShowDatePicker {
		t.Error("expected date picker after a valid phone number")
	}
	session, _ = respond(t, e, session, "22 may", models.StepAskingAdultTickets)
	session, _ = respond(t, e, session, "2", models.StepAskingStudentTickets)
	session, _ = respond(t, e, session, "1", models.StepAskingChildTickets)
	session, reply = respond(t, e, session, "0", models.StepConfirmBooking)

	info := session.BookingInfo
	if info.Name != "Jane Doe" || info.Email != "jane@x.com" || info.Phone != "9876543210" {
		t.Errorf("contact details wrong: %+v", info)
	}
	if info.VisitDate != "22/05/2024" {
		t.Errorf("visit date = %q, want 22/05/2024", info.VisitDate)
	}
	if info.TotalAmount != 1250 {
		t.Errorf("total = %d, want 1250", info.TotalAmount)
	}
	if !reply.ShowConfirmationButtons {
		t.Error("expected confirmation buttons at the summary")
	}
	if reply.BookingInfo == nil || reply.BookingInfo.TotalAmount != 1250 {
		t.Error("summary reply should carry the booking info")
	}
}

func TestNamingPhraseStripped(t *testing.T) {
	e := newTestEngine()
	session := models.Session{Step: models.StepAskingName}
	session, _ = respond(t, e, session, "My name is Jane Doe", models.StepAskingEmail)
	if session.BookingInfo.Name != "Jane Doe" {
		t.Errorf("name = %q, want Jane Doe", session.BookingInfo.Name)
	}
}

func TestAsideQuestionDoesNotAdvance(t *testing.T) {
	e := newTestEngine()
	session := models.Session{Step: models.StepAskingName}
	next, reply := e.Respond(context.Background(), "what time do you open on weekends?", session)
	if next.Step != models.StepAskingName {
		t.Fatalf("aside advanced the step to %q", next.Step)
	}
	if next.BookingInfo.Name != "" {
		t.Errorf("aside was stored as a name: %q", next.BookingInfo.Name)
	}
	if reply.Response == "" {
		t.Error("aside got an empty reply")
	}
}

func TestInvalidEmailReprompts(t *testing.T) {
	e := newTestEngine()
	session := models.Session{Step: models.StepAskingEmail}
	session, reply := respond(t, e, session, "not-an-email", models.StepAskingEmail)
	if session.BookingInfo.Email != "" {
		t.Errorf("invalid email was stored: %q", session.BookingInfo.Email)
	}
	if !strings.Contains(reply.Response, "valid email") {
		t.Errorf("unexpected re-prompt: %s", reply.Response)
	}
	session, _ = respond(t, e, session, "my email is jane@x.com", models.StepAskingPhone)
	if session.BookingInfo.Email != "jane@x.com" {
		t.Errorf("email = %q, want jane@x.com", session.BookingInfo.Email)
	}
}

func TestPhoneNormalizedToDigits(t *testing.T) {
	e := newTestEngine()
	session := models.Session{Step: models.StepAskingPhone}
	session, _ = respond(t, e, session, "my phone number is 98765-43210", models.StepAskingVisitDate)
	if session.BookingInfo.Phone != "9876543210" {
		t.Errorf("phone = %q, want digits only", session.BookingInfo.Phone)
	}
}

func TestAdultOnlyShortcut(t *testing.T) {
	e := newTestEngine()
	session := models.Session{Step: models.StepAskingAdultTickets}
	session, _ = respond(t, e, session, "2 adult tickets", models.StepConfirmBooking)
	info := session.BookingInfo
	if info.AdultTickets != 2 || info.StudentTickets != 0 || info.ChildTickets != 0 {
		t.Errorf("counts = %d/%d/%d, want 2/0/0", info.AdultTickets, info.StudentTickets, info.ChildTickets)
	}
	if info.TotalAmount != 1000 {
		t.Errorf("total = %d, want 1000", info.TotalAmount)
	}
}

func TestAtLeastOneTicketRequired(t *testing.T) {
	e := newTestEngine()
	session := models.Session{Step: models.StepAskingAdultTickets}
	session, _ = respond(t, e, session, "0", models.StepAskingStudentTickets)
	session, reply := respond(t, e, session, "0", models.StepInitialOptions)
	if !reply.ShowInitialButtons {
		t.Error("expected the initial buttons after a zero-ticket booking")
	}
}

func TestNegativeTicketCountReprompts(t *testing.T) {
	e := newTestEngine()
	session := models.Session{Step: models.StepAskingAdultTickets}
	respond(t, e, session, "-1", models.StepAskingAdultTickets)
}

func TestCancelLeadsToCancellationMenu(t *testing.T) {
	e := newTestEngine()
	session := models.Session{Step: models.StepConfirmBooking}
	session.BookingInfo.Name = "Jane"
	session, reply := respond(t, e, session, "cancel", models.StepAfterCancellation)
	if len(reply.Options) != 2 {
		t.Fatalf("expected start_new and edit_info options, got %+v", reply.Options)
	}
	session, _ = respond(t, e, session, "start_new", models.StepInitialOptions)
	if session.BookingInfo.Name != "" {
		t.Errorf("start_new kept old booking info: %+v", session.BookingInfo)
	}
}

func TestCancelToGreetingVariant(t *testing.T) {
	e := newTestEngine()
	e.Cfg.CancelToGreeting = true
	session := models.Session{Step: models.StepConfirmBooking}
	session.BookingInfo.Name = "Jane"
	session, _ = respond(t, e, session, "cancel", models.StepGreeting)
	if session.BookingInfo.Name != "" {
		t.Errorf("cancel kept old booking info: %+v", session.BookingInfo)
	}
}

func TestChangeRequestKeepsStep(t *testing.T) {
	e := newTestEngine()
	session := models.Session{Step: models.StepAskingEmail}
	session.BookingInfo.Name = "Alice"
	session, reply := respond(t, e, session, "change my name to Bob", models.StepAskingEmail)
	if session.BookingInfo.Name != "Bob" {
		t.Errorf("name = %q, want Bob", session.BookingInfo.Name)
	}
	if !strings.Contains(reply.Response, "updated your name to Bob") {
		t.Errorf("unexpected acknowledgement: %s", reply.Response)
	}
	// The flow resumes where it left off.
	session, _ = respond(t, e, session, "bob@x.com", models.StepAskingPhone)
	if session.BookingInfo.Name != "Bob" || session.BookingInfo.Email != "bob@x.com" {
		t.Errorf("progress lost after a change request: %+v", session.BookingInfo)
	}
}

func TestChangeVisitDateNormalized(t *testing.T) {
	e := newTestEngine()
	session := models.Session{Step: models.StepAskingAdultTickets}
	session.BookingInfo.VisitDate = "22/05/2024"
	session, _ = respond(t, e, session, "change my visit date to 3rd june", models.StepAskingAdultTickets)
	if session.BookingInfo.VisitDate != "03/06/2024" {
		t.Errorf("visit date = %q, want 03/06/2024", session.BookingInfo.VisitDate)
	}
}

func TestPaymentCompletion(t *testing.T) {
	e := newTestEngine()
	store := &fakeStore{}
	e.Store = store
	session := models.Session{Step: models.StepConfirmBooking}
	session.BookingInfo = models.BookingInfo{
		Name: "Jane Doe", Email: "jane@x.com", Phone: "9876543210",
		VisitDate: "22/05/2024", AdultTickets: 2, StudentTickets: 1, TotalAmount: 1250,
	}

	session, reply := respond(t, e, session, "confirm", models.StepPayment)
	if !reply.ShowPayment {
		t.Error("expected the payment prompt after confirm")
	}

	session, reply = respond(t, e, session, "payment_completed", models.StepBookingCompleted)
	if !session.ConversationEnded || !reply.ConversationEnded {
		t.Error("completed booking should end the conversation")
	}
	info := session.BookingInfo
	if info.Status != "paid" {
		t.Errorf("status = %q, want paid", info.Status)
	}
	if !strings.HasPrefix(info.BookingRef, "MSM20240501") || len(info.BookingRef) != 14 {
		t.Errorf("booking ref = %q, want MSM20240501 plus three digits", info.BookingRef)
	}
	if info.PaymentDate != testClock().Format(time.RFC3339) {
		t.Errorf("payment date = %q", info.PaymentDate)
	}
	if reply.TicketData == nil || reply.TicketData.BookingRef != info.BookingRef {
		t.Error("reply should carry ticket data for download")
	}
	if !reply.ShowDownload {
		t.Error("expected the download flag on completion")
	}
	if len(store.bookings) != 1 || len(store.transactions) != 1 {
		t.Errorf("saved %d bookings and %d transactions, want 1 and 1",
			len(store.bookings), len(store.transactions))
	}
	if store.transactions[0].Amount != 1250 || store.transactions[0].BookingRef != info.BookingRef {
		t.Errorf("transaction wrong: %+v", store.transactions[0])
	}
}

func TestPaymentSaveFailureStillCompletes(t *testing.T) {
	e := newTestEngine()
	e.Store = &fakeStore{failBooking: true}
	session := models.Session{Step: models.StepPayment}
	session.BookingInfo = models.BookingInfo{Name: "Jane", TotalAmount: 500, AdultTickets: 1}

	session, reply := respond(t, e, session, "payment_completed", models.StepBookingCompleted)
	if session.BookingInfo.Status != "paid" {
		t.Error("save failure must not block the user-visible completion")
	}
	if reply.TicketData == nil {
		t.Error("ticket data should still be issued on a save failure")
	}
	if got := e.SaveFailures(); got != 1 {
		t.Errorf("SaveFailures() = %d, want 1", got)
	}
}

func TestPaymentLocksChangeRequests(t *testing.T) {
	e := newTestEngine()
	session := models.Session{Step: models.StepPayment}
	session.BookingInfo.Name = "Jane"
	session, reply := respond(t, e, session, "change my name to Bob", models.StepPayment)
	if session.BookingInfo.Name != "Jane" {
		t.Errorf("change applied during payment: %q", session.BookingInfo.Name)
	}
	if !strings.Contains(reply.Response, "locked") {
		t.Errorf("unexpected refusal text: %s", reply.Response)
	}
}

func TestPaymentSentinelIsOrdinaryTextElsewhere(t *testing.T) {
	e := newTestEngine()
	session := models.Session{Step: models.StepAskingName}
	session, _ = respond(t, e, session, "payment_completed", models.StepAskingEmail)
	if session.BookingInfo.Status == "paid" {
		t.Error("sentinel outside the payment step marked the booking paid")
	}
	if session.BookingInfo.Name != "payment_completed" {
		t.Errorf("sentinel should be treated as ordinary input, got name %q", session.BookingInfo.Name)
	}
}

func TestEndedSessionIsImmutable(t *testing.T) {
	e := newTestEngine()
	session := models.Session{
		ID:                "s1",
		Step:              models.StepBookingCompleted,
		ConversationEnded: true,
	}
	session.BookingInfo = models.BookingInfo{Name: "Jane", Status: "paid", BookingRef: "MSM20240501042"}

	for _, message := range []string{"change my name to Eve", "payment_completed", "book"} {
		next, reply := e.Respond(context.Background(), message, session)
		if !reflect.DeepEqual(next, session) {
			t.Errorf("after %q the ended session changed: %+v", message, next)
		}
		if len(reply.Options) != 1 || reply.Options[0].Value != "start_new" {
			t.Errorf("ended reply should offer start_new only, got %+v", reply.Options)
		}
	}

	next, _ := e.Respond(context.Background(), "start_new", session)
	if next.Step != models.StepInitialOptions {
		t.Fatalf("start_new should revive the session, got step %q", next.Step)
	}
	if next.BookingInfo.Status != "" || next.ID != "s1" {
		t.Errorf("start_new should clear booking info but keep the id: %+v", next)
	}
}

func TestInfoThenEnd(t *testing.T) {
	e := newTestEngine()
	session := models.Session{Step: models.StepInitialOptions}
	session, reply := respond(t, e, session, "info", models.StepAfterInfo)
	if !strings.Contains(reply.Response, "Opening Hours") {
		t.Errorf("info reply missing museum details: %s", reply.Response)
	}
	session, _ = respond(t, e, session, "end", models.StepEnded)
	if !session.ConversationEnded {
		t.Error("end should mark the conversation as ended")
	}
}

func TestUnknownStepFallback(t *testing.T) {
	e := newTestEngine()
	session := models.Session{Step: "legacy_step"}
	next, reply := e.Respond(context.Background(), "hello", session)
	if next.Step != "legacy_step" {
		t.Fatalf("fallback changed the step to %q", next.Step)
	}
	if len(reply.Options) != 1 || reply.Options[0].Value != "start_new" {
		t.Errorf("fallback should offer start_new, got %+v", reply.Options)
	}
	next, _ = e.Respond(context.Background(), "start_new", session)
	if next.Step != models.StepInitialOptions {
		t.Errorf("start_new from an unknown step should reset, got %q", next.Step)
	}
}

func TestEmptyStepTreatedAsGreeting(t *testing.T) {
	e := newTestEngine()
	respond(t, e, models.Session{}, "hi", models.StepInitialOptions)
}

func TestInitialOptionsRepromptOnFreeText(t *testing.T) {
	e := newTestEngine()
	session := models.Session{Step: models.StepInitialOptions}
	_, reply := respond(t, e, session, "something else entirely", models.StepInitialOptions)
	if len(reply.Options) != 2 {
		t.Errorf("expected both options on re-prompt, got %+v", reply.Options)
	}
}
