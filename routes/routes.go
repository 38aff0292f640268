package routes

import (
	"net/http"
	"time"

	"museumchat/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers the router needs.
type HandlerBundle struct {
	Chat    *handlers.ChatHandler
	Ticket  *handlers.TicketHandler
	Payment *handlers.PaymentHandler

	// SaveFailures reports the best-effort persistence failure counter for
	// the health endpoint.
	SaveFailures func() uint64
}

// RegisterChatRoutes registers the conversational booking endpoint.
func RegisterChatRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api")
	{
		api.POST("/chat", hb.Chat.HandleChat)
	}
}

// RegisterTicketRoutes registers ticket generation and download endpoints.
func RegisterTicketRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.POST("/generate-ticket", hb.Ticket.GenerateTicket)
	r.GET("/tickets/:ref", hb.Ticket.GetTicket)
}

// RegisterPaymentRoutes registers the payment-intent endpoint.
func RegisterPaymentRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/payment")
	{
		api.POST("/intent", hb.Payment.CreatePaymentIntent)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *HandlerBundle) {
	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok"}
		if hb.SaveFailures != nil {
			status["booking_save_failures"] = hb.SaveFailures()
		}
		c.JSON(http.StatusOK, status)
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterChatRoutes(r, hb)
	RegisterTicketRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
