package handlers

import (
	"net/http"

	"museumchat/models"
	"museumchat/services/chat"
	"museumchat/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatRequest is one user turn. The session travels with the conversation:
// the client sends back the session it received on the previous turn. A
// missing session starts a fresh conversation.
type ChatRequest struct {
	Message string          `json:"message" binding:"required"`
	Session *models.Session `json:"session"`
}

// ChatReply carries the updated session alongside the structured reply.
type ChatReply struct {
	Session models.Session `json:"session"`
	models.ChatResponse
}

// ChatHandler serves the conversational booking endpoint.
type ChatHandler struct {
	Engine chat.ConversationEngine
	Logger *zap.Logger
}

func NewChatHandler(engine chat.ConversationEngine, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{Engine: engine, Logger: logger}
}

// HandleChat processes a single turn. Turns against the same session must
// be serialized by the client; the engine mutates nothing shared between
// sessions.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "No message provided", err.Error())
		return
	}

	session := models.NewSession()
	if req.Session != nil {
		session = *req.Session
	}
	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	newSession, reply := h.Engine.Respond(c.Request.Context(), req.Message, session)
	h.Logger.Debug("chat turn",
		zap.String("session", newSession.ID),
		zap.String("from", session.Step),
		zap.String("to", newSession.Step))

	c.JSON(http.StatusOK, ChatReply{Session: newSession, ChatResponse: reply})
}
