package chat

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"museumchat/models"

	"go.uber.org/zap"
)

// ConversationEngine decides, for one user turn, the next step, the fields
// written into the booking record, and the structured reply. It holds no
// per-session state: the session is passed in and returned.
type ConversationEngine interface {
	Respond(ctx context.Context, message string, session models.Session) (models.Session, models.ChatResponse)
}

// Phraser generates conversational wording for replies that are not
// otherwise mandated. The engine stays fully functional with canned text
// when no phraser is configured or the call fails.
type Phraser interface {
	Phrase(ctx context.Context, prompt string, session models.Session) (string, error)
}

// HistoryStore is the chat-history side channel kept for the phraser. It
// is cleared whenever a session is reset.
type HistoryStore interface {
	Clear(ctx context.Context, sessionID string) error
}

// TicketQueue hands a completed booking off to ticket issuance.
type TicketQueue interface {
	EnqueueTicket(ctx context.Context, data models.TicketData) error
}

// BookingStore is the persistence collaborator. Save failures never block
// the user-visible flow; they are logged and counted instead.
type BookingStore interface {
	SaveBooking(booking models.Booking) error
	SaveTransaction(tx models.Transaction) error
	GetMuseumInfo() (*models.MuseumInfo, error)
}

// Config carries the tunable behavior of the engine.
type Config struct {
	MuseumName       string
	Prices           PriceTable
	MinPhoneDigits   int
	ExactPhoneDigits bool
	CancelToGreeting bool
}

// DefaultConfig returns the configuration used by the live service.
func DefaultConfig(museumName string) Config {
	return Config{
		MuseumName:       museumName,
		Prices:           DefaultPrices,
		MinPhoneDigits:   10,
		ExactPhoneDigits: true,
	}
}

// DefaultConversationEngine implements ConversationEngine. All
// collaborators are optional; a zero-dependency engine answers every turn
// with canned text and skips persistence.
type DefaultConversationEngine struct {
	Cfg     Config
	Store   BookingStore
	Phraser Phraser
	History HistoryStore
	Tickets TicketQueue
	Logger  *zap.Logger
	// Now is the clock used for booking references, payment timestamps and
	// date normalization defaults. Nil means time.Now.
	Now func() time.Time

	saveFailures uint64
}

// SaveFailures reports how many best-effort booking saves have failed
// since startup. Exposed so the health endpoint can surface the known
// persistence inconsistency as a metric.
func (e *DefaultConversationEngine) SaveFailures() uint64 {
	return atomic.LoadUint64(&e.saveFailures)
}

func (e *DefaultConversationEngine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *DefaultConversationEngine) logger() *zap.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return zap.NewNop()
}

// Respond processes one user turn. Every recoverable condition resolves to
// a reply: validation failures re-prompt, collaborator failures degrade to
// canned text, unknown steps fall back to offering a fresh start.
func (e *DefaultConversationEngine) Respond(ctx context.Context, message string, session models.Session) (models.Session, models.ChatResponse) {
	raw := strings.TrimSpace(message)
	lower := strings.ToLower(raw)
	now := e.now()

	if session.Step == "" {
		session.Step = models.StepGreeting
	}

	// A finished conversation accepts only start_new.
	if session.ConversationEnded || session.Step == models.StepEnded || session.Step == models.StepBookingCompleted {
		return e.handleEnded(ctx, lower, session)
	}

	// Payment is the edit cutoff: its own handler decides how to refuse
	// change requests.
	if session.Step == models.StepPayment {
		return e.handlePayment(ctx, raw, lower, session, now)
	}

	// Before payment, a recognized correction takes priority over the
	// current step's handler and does not advance the flow.
	if req, ok := DetectChange(raw, now); ok {
		return e.applyChange(session, req)
	}

	switch session.Step {
	case models.StepGreeting:
		return e.handleGreeting(session)
	case models.StepInitialOptions:
		return e.handleInitialOptions(lower, session)
	case models.StepAfterInfo:
		return e.handleAfterInfo(lower, session)
	case models.StepAskingName:
		return e.handleAskingName(ctx, raw, lower, session)
	case models.StepAskingEmail:
		return e.handleAskingEmail(raw, session)
	case models.StepAskingPhone:
		return e.handleAskingPhone(raw, session)
	case models.StepAskingVisitDate:
		return e.handleAskingVisitDate(raw, session, now)
	case models.StepAskingAdultTickets:
		return e.handleAskingAdultTickets(lower, session)
	case models.StepAskingStudentTickets:
		return e.handleAskingStudentTickets(lower, session)
	case models.StepAskingChildTickets:
		return e.handleAskingChildTickets(lower, session)
	case models.StepConfirmBooking:
		return e.handleConfirmBooking(ctx, lower, session)
	case models.StepAfterCancellation:
		return e.handleAfterCancellation(ctx, lower, session)
	default:
		return e.handleUnknownStep(ctx, lower, session)
	}
}

// applyChange overwrites the corrected field and keeps the step unchanged.
func (e *DefaultConversationEngine) applyChange(session models.Session, req ChangeRequest) (models.Session, models.ChatResponse) {
	var label string
	switch req.Field {
	case FieldName:
		session.BookingInfo.Name = req.Value
		label = "name"
	case FieldEmail:
		session.BookingInfo.Email = req.Value
		label = "email"
	case FieldPhone:
		session.BookingInfo.Phone = req.Value
		label = "phone number"
	case FieldVisitDate:
		session.BookingInfo.VisitDate = req.Value
		label = "visit date"
	}
	return session, models.ChatResponse{
		Response: "Sure, I have updated your " + label + " to " + req.Value + ". Let's continue where we left off.",
		State:    session.Step,
	}
}

// reset clears the session and its chat-history side channel.
func (e *DefaultConversationEngine) reset(ctx context.Context, session *models.Session) {
	session.Reset()
	if e.History != nil && session.ID != "" {
		if err := e.History.Clear(ctx, session.ID); err != nil {
			e.logger().Warn("failed to clear chat history", zap.String("session", session.ID), zap.Error(err))
		}
	}
}

var integerPattern = regexp.MustCompile(`-?\d+`)

// firstInt extracts the first integer in the message.
func firstInt(s string) (int, bool) {
	m := integerPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// stripLeadingPhrase removes the first matching phrase prefix,
// case-insensitively.
func stripLeadingPhrase(s string, phrases ...string) string {
	lower := strings.ToLower(s)
	for _, phrase := range phrases {
		if strings.HasPrefix(lower, phrase) {
			return strings.TrimSpace(s[len(phrase):])
		}
	}
	return strings.TrimSpace(s)
}
