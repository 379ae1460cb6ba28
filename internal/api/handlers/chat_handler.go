package handlers

import (
	"fincompare/internal/dto"
	"fincompare/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// Send godoc
// @Summary Send a message to the financial assistant
// @Description Forwards the message to the assistant with the caller's context and conversation history
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Chat message"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/chat [post]
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.chatService.Send(c.Context(), userID, &req)
	if err != nil {
		if err == service.ErrEmptyMessage {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Message is required",
			})
		}
		h.logger.Error("Chat request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Chat request failed",
		})
	}

	return c.JSON(resp)
}

// History godoc
// @Summary Get conversation history
// @Tags chat
// @Produce json
// @Param session_id query string false "Session ID (all sessions when omitted)"
// @Param limit query int false "Maximum number of messages"
// @Success 200 {array} dto.ChatMessageResponse
// @Security BearerAuth
// @Router /api/v1/chat/history [get]
func (h *ChatHandler) History(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	history, err := h.chatService.History(c.Context(), userID, c.Query("session_id"), c.QueryInt("limit", 0))
	if err != nil {
		h.logger.Error("Failed to load chat history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load chat history",
		})
	}

	return c.JSON(history)
}

// ClearHistory godoc
// @Summary Clear conversation history
// @Tags chat
// @Produce json
// @Param session_id query string false "Session ID (all sessions when omitted)"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/chat/history [delete]
func (h *ChatHandler) ClearHistory(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	if err := h.chatService.ClearHistory(c.Context(), userID, c.Query("session_id")); err != nil {
		h.logger.Error("Failed to clear chat history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to clear chat history",
		})
	}

	return c.JSON(fiber.Map{"message": "History cleared"})
}

// Suggestions godoc
// @Summary Personalized example queries
// @Tags chat
// @Produce json
// @Success 200 {object} dto.SuggestionsResponse
// @Security BearerAuth
// @Router /api/v1/chat/suggestions [get]
func (h *ChatHandler) Suggestions(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	resp, err := h.chatService.Suggestions(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to build suggestions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build suggestions",
		})
	}

	return c.JSON(resp)
}

// Welcome godoc
// @Summary Personalized welcome message
// @Tags chat
// @Produce json
// @Success 200 {object} dto.WelcomeResponse
// @Security BearerAuth
// @Router /api/v1/chat/welcome [get]
func (h *ChatHandler) Welcome(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	resp, err := h.chatService.Welcome(c.Context(), userID)
	if err != nil {
		if err == service.ErrUserNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		h.logger.Error("Failed to build welcome message", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build welcome message",
		})
	}

	return c.JSON(resp)
}
