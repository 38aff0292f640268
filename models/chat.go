package models

// Option is a quick-reply choice offered alongside a bot message.
type Option struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// ChatResponse is the structured reply produced for a single turn.
type ChatResponse struct {
	Response string   `json:"response"`
	State    string   `json:"state"`
	Options  []Option `json:"options,omitempty"`

	BookingInfo *BookingInfo `json:"booking_info,omitempty"`
	TicketData  *TicketData  `json:"ticket_data,omitempty"`

	ShowPayment             bool `json:"show_payment,omitempty"`
	ShowDatePicker          bool `json:"show_date_picker,omitempty"`
	ShowConfirmationButtons bool `json:"show_confirmation_buttons,omitempty"`
	ShowDownload            bool `json:"show_download,omitempty"`
	ShowInitialButtons      bool `json:"show_initial_buttons,omitempty"`
	ConversationEnded       bool `json:"conversation_ended,omitempty"`
}

// TicketData is the slice of a completed booking handed to the ticket
// renderer, keyed by booking reference.
type TicketData struct {
	BookingRef     string `json:"booking_ref"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	VisitDate      string `json:"visit_date"`
	AdultTickets   int    `json:"adult_tickets"`
	StudentTickets int    `json:"student_tickets"`
	ChildTickets   int    `json:"child_tickets"`
	TotalAmount    int    `json:"total_amount"`
}

// TicketDataFrom extracts ticket data from a paid booking.
func TicketDataFrom(info BookingInfo) TicketData {
	return TicketData{
		BookingRef:     info.BookingRef,
		Name:           info.Name,
		Email:          info.Email,
		Phone:          info.Phone,
		VisitDate:      info.VisitDate,
		AdultTickets:   info.AdultTickets,
		StudentTickets: info.StudentTickets,
		ChildTickets:   info.ChildTickets,
		TotalAmount:    info.TotalAmount,
	}
}
