package chat

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"museumchat/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	initialOptions = []models.Option{
		{Text: "Museum Information", Value: "info"},
		{Text: "Book Tickets", Value: "book"},
	}
	afterInfoOptions = []models.Option{
		{Text: "Book Tickets", Value: "book"},
		{Text: "No, thanks", Value: "end"},
	}
	afterCancellationOptions = []models.Option{
		{Text: "Start New Chat", Value: "start_new"},
		{Text: "Edit Booking Info", Value: "edit_info"},
	}
	startNewOptions = []models.Option{
		{Text: "Start New Chat", Value: "start_new"},
	}
)

func (e *DefaultConversationEngine) welcomeText() string {
	return fmt.Sprintf("Welcome to the %s! How may I assist you today?", e.Cfg.MuseumName)
}

func (e *DefaultConversationEngine) handleGreeting(session models.Session) (models.Session, models.ChatResponse) {
	// The greeting always moves on, whatever the message said.
	session.Step = models.StepInitialOptions
	return session, models.ChatResponse{
		Response: e.welcomeText(),
		State:    models.StepInitialOptions,
		Options:  initialOptions,
	}
}

func (e *DefaultConversationEngine) handleInitialOptions(lower string, session models.Session) (models.Session, models.ChatResponse) {
	switch lower {
	case "info":
		session.Step = models.StepAfterInfo
		return session, models.ChatResponse{
			Response: e.museumInfoText(),
			State:    models.StepAfterInfo,
			Options:  afterInfoOptions,
		}
	case "book":
		session.Step = models.StepAskingName
		return session, models.ChatResponse{
			Response: "Great! Let's start your booking. Please provide your name.",
			State:    models.StepAskingName,
		}
	default:
		// Safe default: re-offer the choices instead of failing the turn.
		return session, models.ChatResponse{
			Response: "I can help you with museum information or ticket booking. Please choose an option to continue.",
			State:    models.StepInitialOptions,
			Options:  initialOptions,
		}
	}
}

func (e *DefaultConversationEngine) museumInfoText() string {
	if e.Store != nil {
		if mi, err := e.Store.GetMuseumInfo(); err == nil && mi != nil {
			return fmt.Sprintf(
				"Welcome to the %s!\n\nAbout:\n%s\n\nOpening Hours:\n%s\n\nLocation:\n%s\n\nContact:\nPhone: %s\nEmail: %s\n\nWould you like to book tickets now?",
				mi.Name, mi.About, mi.Hours, mi.Location, mi.Phone, mi.Email,
			)
		}
	}
	return fmt.Sprintf(
		"Welcome to the %s!\n\nAbout:\nThe museum houses over 200,000 works of art spanning 5,000 years of cultural heritage.\n\nOpening Hours:\nTuesday to Sunday: 10:00 AM - 6:00 PM\nClosed on Mondays and National Holidays\n\nLocation:\nJanpath, New Delhi, India\n\nContact:\nPhone: +91-11-23019272\nEmail: info@nationalmuseum.in\n\nWould you like to book tickets now?",
		e.Cfg.MuseumName,
	)
}

func (e *DefaultConversationEngine) handleAfterInfo(lower string, session models.Session) (models.Session, models.ChatResponse) {
	switch lower {
	case "book":
		session.Step = models.StepAskingName
		return session, models.ChatResponse{
			Response: "Great! Let's start your booking. Please provide your name.",
			State:    models.StepAskingName,
		}
	case "end":
		session.Step = models.StepEnded
		session.ConversationEnded = true
		return session, models.ChatResponse{
			Response:          "Thank you for your interest in the museum! Feel free to start a new chat if you'd like to book tickets later.",
			State:             models.StepEnded,
			Options:           startNewOptions,
			ConversationEnded: true,
		}
	default:
		return session, models.ChatResponse{
			Response: "Please choose an option to continue.",
			State:    models.StepAfterInfo,
			Options:  afterInfoOptions,
		}
	}
}

var namingPhrases = []string{"my name is ", "i am ", "i'm ", "call me ", "this is "}

func isNamingStatement(lower string) bool {
	for _, phrase := range namingPhrases {
		if strings.HasPrefix(lower, phrase) || strings.Contains(lower, "name is ") {
			return true
		}
	}
	return false
}

func (e *DefaultConversationEngine) handleAskingName(ctx context.Context, raw, lower string, session models.Session) (models.Session, models.ChatResponse) {
	// A long free-text question here is treated as an aside: answer it and
	// stay on this step.
	if len(strings.Fields(raw)) > 3 && !isNamingStatement(lower) {
		return session, models.ChatResponse{
			Response: e.phrase(ctx, session, raw),
			State:    models.StepAskingName,
		}
	}
	session.BookingInfo.Name = stripLeadingPhrase(raw, namingPhrases...)
	session.Step = models.StepAskingEmail
	return session, models.ChatResponse{
		Response: "Thank you! Please provide your email address.",
		State:    models.StepAskingEmail,
	}
}

func (e *DefaultConversationEngine) handleAskingEmail(raw string, session models.Session) (models.Session, models.ChatResponse) {
	candidate := stripLeadingPhrase(raw, "my email address is ", "my email is ", "email is ")
	if !ValidEmail(candidate) {
		return session, models.ChatResponse{
			Response: "Please enter a valid email address (e.g., example@domain.com)",
			State:    models.StepAskingEmail,
		}
	}
	session.BookingInfo.Email = candidate
	session.Step = models.StepAskingPhone
	return session, models.ChatResponse{
		Response: "Great! Now, please share your phone number.",
		State:    models.StepAskingPhone,
	}
}

func (e *DefaultConversationEngine) handleAskingPhone(raw string, session models.Session) (models.Session, models.ChatResponse) {
	candidate := stripLeadingPhrase(raw, "my phone number is ", "my phone is ", "phone is ")
	if !ValidPhone(candidate, e.Cfg.MinPhoneDigits, e.Cfg.ExactPhoneDigits) {
		return session, models.ChatResponse{
			Response: fmt.Sprintf("Please enter a valid %d-digit phone number (e.g., 9876543210)", e.Cfg.MinPhoneDigits),
			State:    models.StepAskingPhone,
		}
	}
	session.BookingInfo.Phone = digitsOf(candidate)
	session.Step = models.StepAskingVisitDate
	return session, models.ChatResponse{
		Response:       "Please select your preferred visit date. You can also type it (e.g., 22nd May).",
		State:          models.StepAskingVisitDate,
		ShowDatePicker: true,
	}
}

func (e *DefaultConversationEngine) handleAskingVisitDate(raw string, session models.Session, now time.Time) (models.Session, models.ChatResponse) {
	// Normalization failure is non-fatal: an unrecognized date is stored
	// as typed.
	session.BookingInfo.VisitDate = NormalizeDate(raw, now)
	session.Step = models.StepAskingAdultTickets
	return session, models.ChatResponse{
		Response: fmt.Sprintf("How many adult tickets would you like? (Price: Rs.%d per ticket)", e.Cfg.Prices.Adult),
		State:    models.StepAskingAdultTickets,
	}
}

func (e *DefaultConversationEngine) handleAskingAdultTickets(lower string, session models.Session) (models.Session, models.ChatResponse) {
	n, ok := firstInt(lower)
	if !ok || n < 0 {
		return session, models.ChatResponse{
			Response: "Please enter a valid number (0 or more) for adult tickets.",
			State:    models.StepAskingAdultTickets,
		}
	}
	session.BookingInfo.AdultTickets = n

	// "2 adult tickets" with no mention of the other categories books
	// adults only and jumps straight to confirmation.
	if strings.Contains(lower, "adult") && !strings.Contains(lower, "student") && !strings.Contains(lower, "child") {
		session.BookingInfo.StudentTickets = 0
		session.BookingInfo.ChildTickets = 0
		return e.toConfirmation(session)
	}

	response := fmt.Sprintf("How many student tickets would you like? (Price: Rs.%d per ticket)", e.Cfg.Prices.Student)
	if n == 0 {
		response += "\nNote: At least one adult or student ticket is required."
	}
	session.Step = models.StepAskingStudentTickets
	return session, models.ChatResponse{
		Response: response,
		State:    models.StepAskingStudentTickets,
	}
}

func (e *DefaultConversationEngine) handleAskingStudentTickets(lower string, session models.Session) (models.Session, models.ChatResponse) {
	n, ok := firstInt(lower)
	if !ok {
		n = 0
	}
	if n < 0 {
		return session, models.ChatResponse{
			Response: "Please enter a valid number (0 or more) for student tickets.",
			State:    models.StepAskingStudentTickets,
		}
	}
	if session.BookingInfo.AdultTickets == 0 && n == 0 {
		session.Step = models.StepInitialOptions
		return session, models.ChatResponse{
			Response:           "You need to book at least one adult or student ticket to proceed. Would you like to start a new booking?",
			State:              models.StepInitialOptions,
			Options:            initialOptions,
			ShowInitialButtons: true,
		}
	}
	session.BookingInfo.StudentTickets = n
	session.Step = models.StepAskingChildTickets
	return session, models.ChatResponse{
		Response: "How many children's tickets? (Age below 12, Free entry)",
		State:    models.StepAskingChildTickets,
	}
}

func (e *DefaultConversationEngine) handleAskingChildTickets(lower string, session models.Session) (models.Session, models.ChatResponse) {
	n, ok := firstInt(lower)
	if !ok {
		n = 0
	}
	if n < 0 {
		return session, models.ChatResponse{
			Response: "Please enter a valid number (0 or more) for children's tickets.",
			State:    models.StepAskingChildTickets,
		}
	}
	session.BookingInfo.ChildTickets = n
	return e.toConfirmation(session)
}

// toConfirmation computes the total and presents the summary.
func (e *DefaultConversationEngine) toConfirmation(session models.Session) (models.Session, models.ChatResponse) {
	session.BookingInfo.TotalAmount = e.Cfg.Prices.Quote(session.BookingInfo)
	session.Step = models.StepConfirmBooking
	info := session.BookingInfo
	return session, models.ChatResponse{
		Response:                e.Cfg.Prices.Summary(info),
		State:                   models.StepConfirmBooking,
		BookingInfo:             &info,
		ShowConfirmationButtons: true,
	}
}

var (
	confirmWords = map[string]bool{"confirm": true, "yes": true, "y": true, "proceed": true, "ok": true, "okay": true, "sure": true}
	cancelWords  = map[string]bool{"cancel": true, "no": true, "n": true, "stop": true}
)

func (e *DefaultConversationEngine) handleConfirmBooking(ctx context.Context, lower string, session models.Session) (models.Session, models.ChatResponse) {
	switch {
	case confirmWords[lower]:
		session.Step = models.StepPayment
		return session, models.ChatResponse{
			Response:    "Great! Your booking is confirmed. Please proceed with the payment.",
			State:       models.StepPayment,
			ShowPayment: true,
		}
	case cancelWords[lower]:
		if e.Cfg.CancelToGreeting {
			e.reset(ctx, &session)
			return session, models.ChatResponse{
				Response: "Booking cancelled. How else can I help you today?",
				State:    models.StepGreeting,
			}
		}
		session.Step = models.StepAfterCancellation
		return session, models.ChatResponse{
			Response: "Booking cancelled. What would you like to do?",
			State:    models.StepAfterCancellation,
			Options:  afterCancellationOptions,
		}
	default:
		return session, models.ChatResponse{
			Response:                "Please select either 'confirm' or 'cancel' to proceed.",
			State:                   models.StepConfirmBooking,
			ShowConfirmationButtons: true,
		}
	}
}

func (e *DefaultConversationEngine) handleAfterCancellation(ctx context.Context, lower string, session models.Session) (models.Session, models.ChatResponse) {
	switch lower {
	case "start_new":
		e.reset(ctx, &session)
		session.Step = models.StepInitialOptions
		return session, models.ChatResponse{
			Response: e.welcomeText(),
			State:    models.StepInitialOptions,
			Options:  initialOptions,
		}
	case "edit_info":
		session.Step = models.StepAskingAdultTickets
		return session, models.ChatResponse{
			Response: "Let's start over with the number of tickets. How many adult tickets would you like?",
			State:    models.StepAskingAdultTickets,
		}
	default:
		return session, models.ChatResponse{
			Response: "Please select an option to proceed.",
			State:    models.StepAfterCancellation,
			Options:  afterCancellationOptions,
		}
	}
}

// handlePayment accepts only the payment_completed sentinel. Change
// requests are refused here: the booking is locked once payment starts.
func (e *DefaultConversationEngine) handlePayment(ctx context.Context, raw, lower string, session models.Session, now time.Time) (models.Session, models.ChatResponse) {
	if lower != "payment_completed" {
		if _, ok := DetectChange(raw, now); ok {
			return session, models.ChatResponse{
				Response:    "Your booking details are locked once payment has started and can no longer be edited.",
				State:       models.StepPayment,
				ShowPayment: true,
			}
		}
		return session, models.ChatResponse{
			Response:    "Please complete the payment to receive your tickets.",
			State:       models.StepPayment,
			ShowPayment: true,
		}
	}

	info := &session.BookingInfo
	if info.BookingRef == "" {
		info.BookingRef = GenerateBookingRef(now)
	}
	info.Status = "paid"
	info.PaymentDate = now.Format(time.RFC3339)

	// Persistence is best-effort: the booking is still reported complete
	// to the user when the save fails, but the failure is observable.
	if e.Store != nil {
		if err := e.Store.SaveBooking(models.Booking{BookingInfo: *info, CreatedAt: now}); err != nil {
			atomic.AddUint64(&e.saveFailures, 1)
			e.logger().Warn("failed to save booking",
				zap.String("booking_ref", info.BookingRef), zap.Error(err))
		}
		tx := models.Transaction{
			ID:         uuid.New().String(),
			BookingRef: info.BookingRef,
			Amount:     info.TotalAmount,
			Status:     "paid",
			CreatedAt:  now,
		}
		if err := e.Store.SaveTransaction(tx); err != nil {
			e.logger().Warn("failed to save transaction",
				zap.String("booking_ref", info.BookingRef), zap.Error(err))
		}
	}

	ticket := models.TicketDataFrom(*info)
	if e.Tickets != nil {
		if err := e.Tickets.EnqueueTicket(ctx, ticket); err != nil {
			e.logger().Warn("failed to enqueue ticket generation",
				zap.String("booking_ref", ticket.BookingRef), zap.Error(err))
		}
	}

	session.Step = models.StepBookingCompleted
	session.ConversationEnded = true
	return session, models.ChatResponse{
		Response:          e.paymentCompletedText(ticket),
		State:             models.StepBookingCompleted,
		TicketData:        &ticket,
		ShowDownload:      true,
		ConversationEnded: true,
	}
}

func (e *DefaultConversationEngine) paymentCompletedText(t models.TicketData) string {
	var b strings.Builder
	b.WriteString("Payment completed successfully!\n\n")
	fmt.Fprintf(&b, "Booking Reference: %s\n", t.BookingRef)
	fmt.Fprintf(&b, "Name: %s\n", t.Name)
	fmt.Fprintf(&b, "Email: %s\n", t.Email)
	fmt.Fprintf(&b, "Phone: %s\n", t.Phone)
	fmt.Fprintf(&b, "Visit Date: %s\n\n", t.VisitDate)
	fmt.Fprintf(&b, "Adult Tickets: %d\n", t.AdultTickets)
	fmt.Fprintf(&b, "Student Tickets: %d\n", t.StudentTickets)
	fmt.Fprintf(&b, "Child Tickets: %d\n", t.ChildTickets)
	fmt.Fprintf(&b, "Total Amount: Rs.%d\n\n", t.TotalAmount)
	b.WriteString("Thank you for booking with us! You can download your ticket below.")
	return b.String()
}

func (e *DefaultConversationEngine) handleEnded(ctx context.Context, lower string, session models.Session) (models.Session, models.ChatResponse) {
	if lower == "start_new" {
		e.reset(ctx, &session)
		session.Step = models.StepInitialOptions
		return session, models.ChatResponse{
			Response: e.welcomeText(),
			State:    models.StepInitialOptions,
			Options:  initialOptions,
		}
	}
	return session, models.ChatResponse{
		Response: "Our conversation has ended. Click 'Start New Chat' to begin a new conversation.",
		State:    models.StepEnded,
		Options:  startNewOptions,
	}
}

// handleUnknownStep covers step values with no handler, e.g. a stale
// session produced by an older build. The turn never faults.
func (e *DefaultConversationEngine) handleUnknownStep(ctx context.Context, lower string, session models.Session) (models.Session, models.ChatResponse) {
	if lower == "start_new" {
		e.reset(ctx, &session)
		session.Step = models.StepInitialOptions
		return session, models.ChatResponse{
			Response: e.welcomeText(),
			State:    models.StepInitialOptions,
			Options:  initialOptions,
		}
	}
	return session, models.ChatResponse{
		Response: "I apologize, but I'm not sure how to help with that. Would you like to start a new conversation?",
		State:    session.Step,
		Options:  startNewOptions,
	}
}

// phrase asks the AI collaborator for conversational wording, degrading to
// canned text when it is unavailable.
func (e *DefaultConversationEngine) phrase(ctx context.Context, session models.Session, prompt string) string {
	if e.Phraser != nil {
		reply, err := e.Phraser.Phrase(ctx, prompt, session)
		if err == nil && strings.TrimSpace(reply) != "" {
			return reply
		}
		if err != nil {
			e.logger().Warn("phraser unavailable, using canned reply", zap.Error(err))
		}
	}
	return "Happy to help with that once your booking is done. For now, could you please tell me your name?"
}
