package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"domli-search/internal/model"
	"domli-search/internal/repository"
	"domli-search/internal/service"

	"github.com/gin-gonic/gin"
)

type stubCorpus struct {
	properties []model.Property
	err        error
}

func (s *stubCorpus) ReadAll(ctx context.Context) ([]model.Property, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.properties, nil
}

func intPtr(n int) *int             { return &n }
func float64Ptr(v float64) *float64 { return &v }

func testRouter(corpus repository.CorpusSource) *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := service.NewMemorySessionStore(2*time.Hour, 10)
	searchService := service.NewSearchService(corpus, service.NewGeoResolver(), service.NewStatusClassifier())
	chatService := service.NewChatService(
		searchService,
		service.NewIntentParser(),
		service.NewComposer(3),
		nil,
		sessions,
		logger,
		5,
		time.Second,
	)

	chatHandler := NewChatHandler(chatService, searchService, sessions)
	propertiesHandler := NewPropertiesHandler(searchService)

	router := gin.New()
	apiV1 := router.Group("/api/v1")
	chat := apiV1.Group("/chat")
	chat.POST("/message", chatHandler.Message)
	chat.GET("/history/:sessionID", chatHandler.History)
	chat.DELETE("/history/:sessionID", chatHandler.ClearHistory)
	chat.POST("/search", chatHandler.Search)
	chat.GET("/suggestions", chatHandler.Suggestions)
	chat.GET("/health", chatHandler.Health)
	properties := apiV1.Group("/properties")
	properties.GET("/map-data", propertiesHandler.MapData)
	properties.GET("/recommendations", propertiesHandler.Recommendations)
	properties.GET("/filters/options", propertiesHandler.FilterOptions)
	properties.GET("/:id", propertiesHandler.GetByID)
	return router
}

func handlerCorpus() *stubCorpus {
	year := 2020
	return &stubCorpus{properties: []model.Property{
		{ID: 1, DeveloperName: "DOGMA", ProjectName: "DOGMA PARK", PropertyType: "1-комн. квартира",
			RoomsCount: intPtr(1), AreaSqm: float64Ptr(38.5), PriceTotal: float64Ptr(4_200_000),
			CompletionYear: &year, Address: "ул. Марины Цветаевой"},
		{ID: 2, DeveloperName: "ССК", ProjectName: "Сегодня", PropertyType: "студия",
			RoomsCount: intPtr(0), AreaSqm: float64Ptr(24.0), PriceTotal: float64Ptr(3_100_000),
			CompletionYear: &year, Address: "ул. Ветеранов"},
	}}
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestChatHandler_Message(t *testing.T) {
	router := testRouter(handlerCorpus())

	w := doRequest(router, "POST", "/api/v1/chat/message",
		`{"message": "однокомнатные квартиры до 5 млн"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp model.ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("response has no session id")
	}
	if len(resp.Properties) != 1 || resp.Properties[0].ID != 1 {
		t.Errorf("unexpected properties: %+v", resp.Properties)
	}
	if len(resp.History) != 2 {
		t.Errorf("expected 2 history messages, got %d", len(resp.History))
	}
}

func TestChatHandler_MessageRequiresBody(t *testing.T) {
	router := testRouter(handlerCorpus())

	w := doRequest(router, "POST", "/api/v1/chat/message", `{"session_id": "s1"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestChatHandler_MessageCorpusUnavailable(t *testing.T) {
	router := testRouter(&stubCorpus{err: repository.ErrCorpusUnavailable})

	w := doRequest(router, "POST", "/api/v1/chat/message", `{"message": "квартиры"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestChatHandler_HistoryLifecycle(t *testing.T) {
	router := testRouter(handlerCorpus())

	w := doRequest(router, "POST", "/api/v1/chat/message",
		`{"message": "студии", "session_id": "s1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	w = doRequest(router, "GET", "/api/v1/chat/history/s1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got struct {
		History []model.ChatMessage `json:"history"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal history: %v", err)
	}
	if len(got.History) != 2 {
		t.Errorf("expected 2 history messages, got %d", len(got.History))
	}

	w = doRequest(router, "DELETE", "/api/v1/chat/history/s1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	w = doRequest(router, "GET", "/api/v1/chat/history/s1", "")
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal history: %v", err)
	}
	if len(got.History) != 0 {
		t.Errorf("history survived delete: %v", got.History)
	}
}

func TestChatHandler_DirectSearch(t *testing.T) {
	router := testRouter(handlerCorpus())

	w := doRequest(router, "POST", "/api/v1/chat/search", `{"rooms": "studio"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result model.SearchResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if !result.Exact || result.Total != 1 || result.Properties[0].ID != 2 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestChatHandler_DirectSearchCapsResults(t *testing.T) {
	year := 2020
	corpus := &stubCorpus{}
	for i := 1; i <= 14; i++ {
		corpus.properties = append(corpus.properties, model.Property{
			ID: i, DeveloperName: "DOGMA", ProjectName: "DOGMA PARK", PropertyType: "1-комн. квартира",
			RoomsCount: intPtr(1), AreaSqm: float64Ptr(38.5), PriceTotal: float64Ptr(4_200_000),
			CompletionYear: &year, Address: "ул. Марины Цветаевой",
		})
	}
	router := testRouter(corpus)

	w := doRequest(router, "POST", "/api/v1/chat/search", `{}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result model.SearchResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if len(result.Properties) != 10 || result.Total != 10 {
		t.Errorf("expected 10 capped results, got %d (total %d)", len(result.Properties), result.Total)
	}
	// The cap keeps the head of the corpus-ordered result
	if result.Properties[0].ID != 1 || result.Properties[9].ID != 10 {
		t.Errorf("unexpected cap window: %d..%d", result.Properties[0].ID, result.Properties[9].ID)
	}
}

func TestChatHandler_Suggestions(t *testing.T) {
	router := testRouter(handlerCorpus())

	w := doRequest(router, "GET", "/api/v1/chat/suggestions", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal suggestions: %v", err)
	}
	if len(got.Suggestions) == 0 {
		t.Error("no suggestions returned")
	}
}
