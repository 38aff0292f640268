package models

// Conversation steps. The step stored in a Session always names one of
// these; the engine resolves anything else to a safe fallback reply.
const (
	StepGreeting             = "greeting"
	StepInitialOptions       = "initial_options"
	StepAfterInfo            = "after_info"
	StepAskingName           = "asking_name"
	StepAskingEmail          = "asking_email"
	StepAskingPhone          = "asking_phone"
	StepAskingVisitDate      = "asking_visit_date"
	StepAskingAdultTickets   = "asking_adult_tickets"
	StepAskingStudentTickets = "asking_student_tickets"
	StepAskingChildTickets   = "asking_child_tickets"
	StepConfirmBooking       = "confirm_booking"
	StepAfterCancellation    = "after_cancellation"
	StepPayment              = "payment"
	StepBookingCompleted     = "booking_completed"
	StepEnded                = "ended"
)

// Session is the per-conversation record of state-machine position and
// accumulated booking fields. It travels with the conversation: the HTTP
// layer sends it back to the client on every turn and receives it with the
// next message. The engine holds no session state of its own.
type Session struct {
	ID                string      `json:"id,omitempty"`
	Step              string      `json:"step"`
	BookingInfo       BookingInfo `json:"booking_info"`
	ConversationEnded bool        `json:"conversation_ended"`
}

// NewSession returns a session positioned at the greeting step.
func NewSession() Session {
	return Session{Step: StepGreeting}
}

// Reset reinitializes the session in place, preserving only its ID.
func (s *Session) Reset() {
	*s = Session{ID: s.ID, Step: StepGreeting}
}

// BookingInfo accumulates the booking fields collected during a
// conversation. Field tags match the wire format the frontend and the
// bookings collection both use.
type BookingInfo struct {
	Name           string `bson:"name" json:"name,omitempty"`
	Email          string `bson:"email" json:"email,omitempty"`
	Phone          string `bson:"phone" json:"phone,omitempty"`
	VisitDate      string `bson:"visit_date" json:"visit_date,omitempty"`
	AdultTickets   int    `bson:"adult_tickets" json:"adult_tickets"`
	StudentTickets int    `bson:"student_tickets" json:"student_tickets"`
	ChildTickets   int    `bson:"child_tickets" json:"child_tickets"`
	TotalAmount    int    `bson:"total_amount" json:"total_amount"`
	BookingRef     string `bson:"booking_ref" json:"booking_ref,omitempty"`
	Status         string `bson:"status" json:"status,omitempty"`
	PaymentDate    string `bson:"payment_date" json:"payment_date,omitempty"`
}
