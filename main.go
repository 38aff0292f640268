package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"museumchat/config"
	"museumchat/database"
	bookingRepo "museumchat/database/repository/booking"
	"museumchat/handlers"
	"museumchat/middleware"
	"museumchat/routes"
	"museumchat/services/chat"
	ai "museumchat/services/intelligence"
	"museumchat/services/tasks"
	"museumchat/services/ticket"
	"museumchat/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitChatCache()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	repo := bookingRepo.NewMongoBookingRepo()

	// Chat-history store and the optional AI phraser. The engine keeps
	// working with canned text when no Gemini key is configured.
	ctxStore := ai.NewRedisContextStore(utils.GetChatCacheClient(), 30*time.Minute)
	var phraser chat.Phraser
	if key := config.AppConfig.GeminiAPIKey; key != "" {
		p, err := ai.NewGeminiPhraser(key, config.AppConfig.MuseumName, ctxStore)
		if err != nil {
			logger.Warn("gemini phraser unavailable, falling back to canned replies", zap.Error(err))
		} else {
			phraser = p
		}
	}

	// Ticket issuance: enqueue on payment completion, render in a worker.
	ticketGen := ticket.Generator{
		MuseumName: config.AppConfig.MuseumName,
		Prices: ticket.Prices{
			Adult:   config.AppConfig.PriceAdult,
			Student: config.AppConfig.PriceStudent,
			Child:   config.AppConfig.PriceChild,
		},
	}
	redisOpt := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}
	taskClient := tasks.NewClient(redisOpt)
	defer taskClient.Close()
	worker := tasks.InitTicketWorker(redisOpt, ticketGen, config.AppConfig.TicketsDir, logger)

	// The conversation engine.
	engine := &chat.DefaultConversationEngine{
		Cfg: chat.Config{
			MuseumName: config.AppConfig.MuseumName,
			Prices: chat.PriceTable{
				Adult:   config.AppConfig.PriceAdult,
				Student: config.AppConfig.PriceStudent,
				Child:   config.AppConfig.PriceChild,
			},
			MinPhoneDigits:   config.AppConfig.MinPhoneDigits,
			ExactPhoneDigits: config.AppConfig.ExactPhoneDigits,
			CancelToGreeting: config.AppConfig.CancelToGreeting,
		},
		Store:   repo,
		Phraser: phraser,
		History: ctxStore,
		Tickets: taskClient,
		Logger:  logger,
	}

	// Assemble the handler bundle and register routes.
	handlerBundle := &routes.HandlerBundle{
		Chat:         handlers.NewChatHandler(engine, logger),
		Ticket:       handlers.NewTicketHandler(ticketGen, repo, logger),
		Payment:      handlers.NewPaymentHandler(logger),
		SaveFailures: engine.SaveFailures,
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
