package handlers

import (
	"net/http"

	"museumchat/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// PaymentIntentRequest asks for a payment intent covering the booking
// total. Amount is in rupees; Stripe wants paise.
type PaymentIntentRequest struct {
	Amount     int64  `json:"amount" binding:"required"`
	BookingRef string `json:"booking_ref"`
}

// PaymentHandler creates Stripe payment intents for the frontend payment
// step. The chat engine only signals show_payment; collecting the payment
// stays outside the conversation core.
type PaymentHandler struct {
	Logger *zap.Logger
}

func NewPaymentHandler(logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Logger: logger}
}

func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	var req PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid payment request", err.Error())
		return
	}
	if req.Amount <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid payment request", "amount must be positive")
		return
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount * 100),
		Currency: stripe.String(string(stripe.CurrencyINR)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if req.BookingRef != "" {
		params.AddMetadata("booking_ref", req.BookingRef)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		h.Logger.Error("failed to create payment intent", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create payment intent", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"client_secret": pi.ClientSecret})
}
