package handler

import (
	"errors"
	"net/http"

	"domli-search/internal/model"
	"domli-search/internal/repository"
	"domli-search/internal/service"

	"github.com/gin-gonic/gin"
)

// Canned prompts the client shows as quick-start buttons.
var suggestions = []string{
	"Покажи мне однокомнатные квартиры до 5 млн рублей",
	"Найди квартиры в центре Краснодара",
	"Что есть из готового жилья?",
	"Найди квартиры от 3 до 7 миллионов",
	"Какие есть новостройки в котловане?",
	"Что есть в районе ЗИП?",
	"Покажи двухкомнатные квартиры",
	"Есть ли студии до 4 миллионов?",
	"Покажи пентхаусы",
	"Какие таунхаусы есть в продаже?",
}

// Direct filter search returns at most this many rows.
const directSearchLimit = 10

// ChatHandler handles conversational HTTP requests
type ChatHandler struct {
	chatService   *service.ChatService
	searchService *service.SearchService
	sessions      service.SessionStore
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService, searchService *service.SearchService,
	sessions service.SessionStore) *ChatHandler {
	return &ChatHandler{
		chatService:   chatService,
		searchService: searchService,
		sessions:      sessions,
	}
}

// Message handles POST /api/v1/chat/message
func (h *ChatHandler) Message(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.chatService.HandleMessage(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, repository.ErrCorpusUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Property database is unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Chat failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// History handles GET /api/v1/chat/history/:sessionID
func (h *ChatHandler) History(c *gin.Context) {
	sessionID := c.Param("sessionID")

	history := h.sessions.Get(sessionID)
	if history == nil {
		history = []model.ChatMessage{}
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"history":    history,
	})
}

// ClearHistory handles DELETE /api/v1/chat/history/:sessionID
func (h *ChatHandler) ClearHistory(c *gin.Context) {
	sessionID := c.Param("sessionID")
	h.sessions.Delete(sessionID)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": sessionID,
	})
}

// Search handles POST /api/v1/chat/search - filter search without the
// conversational layer.
func (h *ChatHandler) Search(c *gin.Context) {
	var filters model.FilterSet
	if err := c.ShouldBindJSON(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.searchService.Search(c.Request.Context(), filters)
	if err != nil {
		if errors.Is(err, repository.ErrCorpusUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Property database is unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed: " + err.Error()})
		return
	}

	if len(result.Properties) > directSearchLimit {
		result.Properties = result.Properties[:directSearchLimit]
		result.Total = len(result.Properties)
	}

	c.JSON(http.StatusOK, result)
}

// Suggestions handles GET /api/v1/chat/suggestions
func (h *ChatHandler) Suggestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// Health handles GET /api/v1/chat/health
func (h *ChatHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"active_sessions": h.sessions.Len(),
	})
}
