package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"gwi.com/calorie-chat/internal/core"
	"gwi.com/calorie-chat/internal/food"
	"gwi.com/calorie-chat/internal/ledger"
	"gwi.com/calorie-chat/internal/lookup"
)

type APIHandler struct {
	chatService *core.ChatService
	searcher    lookup.Searcher
	extractor   food.Extractor
	ledger      *ledger.Ledger
}

func NewAPIHandler(cs *core.ChatService, searcher lookup.Searcher, extractor food.Extractor, l *ledger.Ledger) *APIHandler {
	return &APIHandler{
		chatService: cs,
		searcher:    searcher,
		extractor:   extractor,
		ledger:      l,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func (h *APIHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, h.chatService.CreateSession())
}

func (h *APIHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.chatService.GetSession(sessionID)
	if err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Error getting session %s: %v", sessionID, err)
		http.Error(w, "Failed to get session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

type PostMessageRequest struct {
	Content string `json:"content"`
}

func (h *APIHandler) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	reply, err := h.chatService.PostMessage(r.Context(), sessionID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrSessionNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, core.ErrEmptyMessage):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Printf("Error posting message to session %s: %v", sessionID, err)
			http.Error(w, "Failed to post message", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

type SearchResponse struct {
	Query string      `json:"query"`
	Items []food.Item `json:"items"`
}

func (h *APIHandler) SearchFoodsHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		http.Error(w, "Query parameter q is required", http.StatusBadRequest)
		return
	}

	items, err := h.searcher.Search(r.Context(), query)
	if err != nil {
		var noResults *lookup.NoResultsError
		if errors.As(err, &noResults) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Error searching foods for %q: %v", query, err)
		http.Error(w, "Failed to search foods", http.StatusBadGateway)
		return
	}
	if items == nil {
		items = []food.Item{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Query: query, Items: items})
}

type ExtractRequest struct {
	Text string `json:"text"`
}

func (h *APIHandler) ExtractFoodsHandler(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	items, err := h.extractor.Extract(r.Context(), req.Text)
	if err != nil {
		log.Printf("Error extracting foods: %v", err)
		http.Error(w, "Failed to extract foods", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []food.Item{}
	}
	writeJSON(w, http.StatusOK, map[string][]food.Item{"items": items})
}

type ComposeRequest struct {
	Foods []food.Item `json:"foods"`
	Goal  *int        `json:"goal,omitempty"`
}

func (h *APIHandler) ComposeHandler(w http.ResponseWriter, r *http.Request) {
	var req ComposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := validateItems(req.Foods); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"text":          food.Compose(req.Foods, req.Goal),
		"totalCalories": food.TotalCalories(req.Foods),
		"suggestion":    food.HealthyAlternative(req.Foods),
	})
}

func (h *APIHandler) GetLedgerHandler(w http.ResponseWriter, r *http.Request) {
	records, err := h.ledger.All(r.Context())
	if err != nil {
		log.Printf("Error loading ledger: %v", err)
		http.Error(w, "Failed to load ledger", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *APIHandler) GetTodayHandler(w http.ResponseWriter, r *http.Request) {
	total, err := h.ledger.Today(r.Context())
	if err != nil {
		log.Printf("Error loading today's calories: %v", err)
		http.Error(w, "Failed to load today's calories", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"totalCalories": total})
}

type AppendEntriesRequest struct {
	Foods []food.Item `json:"foods"`
}

func (h *APIHandler) AppendEntriesHandler(w http.ResponseWriter, r *http.Request) {
	var req AppendEntriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Foods) == 0 {
		http.Error(w, "At least one food item is required", http.StatusBadRequest)
		return
	}
	if err := validateItems(req.Foods); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.ledger.Append(r.Context(), req.Foods); err != nil {
		log.Printf("Error appending %d foods: %v", len(req.Foods), err)
		http.Error(w, "Failed to save foods", http.StatusInternalServerError)
		return
	}
	h.GetTodayHandler(w, r)
}

func (h *APIHandler) GetGoalHandler(w http.ResponseWriter, r *http.Request) {
	goal, err := h.ledger.Goal(r.Context())
	if err != nil {
		log.Printf("Error loading goal: %v", err)
		http.Error(w, "Failed to load goal", http.StatusInternalServerError)
		return
	}
	if goal == nil {
		http.Error(w, "No daily goal set", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (h *APIHandler) SaveGoalHandler(w http.ResponseWriter, r *http.Request) {
	var req ledger.UserGoal
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.ledger.SaveGoal(r.Context(), req.DailyCalorieTarget); err != nil {
		if errors.Is(err, ledger.ErrInvalidGoal) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error saving goal: %v", err)
		http.Error(w, "Failed to save goal", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *APIHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	d, err := h.ledger.Dashboard(r.Context())
	if err != nil {
		log.Printf("Error building dashboard: %v", err)
		http.Error(w, "Failed to build dashboard", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

var errInvalidItem = errors.New("each food needs a name, non-negative calories and a positive quantity")

func validateItems(items []food.Item) error {
	for _, item := range items {
		if strings.TrimSpace(item.Name) == "" || item.Calories < 0 || item.Quantity <= 0 {
			return errInvalidItem
		}
	}
	return nil
}
