package handlers

import (
	"fmt"
	"net/http"
	"strings"

	bookingRepo "museumchat/database/repository/booking"
	"museumchat/models"
	"museumchat/services/ticket"
	"museumchat/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TicketHandler renders entry tickets as downloadable PDFs.
type TicketHandler struct {
	Generator ticket.Generator
	Repo      bookingRepo.BookingRepository
	Logger    *zap.Logger
}

func NewTicketHandler(gen ticket.Generator, repo bookingRepo.BookingRepository, logger *zap.Logger) *TicketHandler {
	return &TicketHandler{Generator: gen, Repo: repo, Logger: logger}
}

// GenerateTicket renders a PDF from the ticket data the client received at
// payment completion and returns it as an attachment.
func (h *TicketHandler) GenerateTicket(c *gin.Context) {
	var data models.TicketData
	if err := c.ShouldBindJSON(&data); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid ticket data", err.Error())
		return
	}
	if data.BookingRef == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid ticket data", "booking_ref is required")
		return
	}

	pdfBytes, err := h.Generator.Build(data)
	if err != nil {
		h.Logger.Error("failed to generate ticket", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to generate ticket", err.Error())
		return
	}

	filename := fmt.Sprintf("museum-ticket-%s.pdf", data.BookingRef)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// GetTicket looks a booking up by reference and serves its ticket inline.
func (h *TicketHandler) GetTicket(c *gin.Context) {
	// The frontend links to /tickets/<ref>.pdf.
	ref := strings.TrimSuffix(c.Param("ref"), ".pdf")
	booking, err := h.Repo.GetBooking(ref)
	if err != nil {
		h.Logger.Error("failed to fetch booking", zap.String("booking_ref", ref), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch booking", err.Error())
		return
	}
	if booking == nil {
		utils.JSONError(c, http.StatusNotFound, "Booking not found", ref)
		return
	}

	pdfBytes, err := h.Generator.Build(models.TicketDataFrom(booking.BookingInfo))
	if err != nil {
		h.Logger.Error("failed to generate ticket", zap.String("booking_ref", ref), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to generate ticket", err.Error())
		return
	}
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
