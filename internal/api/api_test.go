package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gwi.com/calorie-chat/internal/core"
	"gwi.com/calorie-chat/internal/food"
	"gwi.com/calorie-chat/internal/ledger"
	"gwi.com/calorie-chat/internal/lookup"
	"gwi.com/calorie-chat/internal/store"
)

type stubSearcher struct {
	items []food.Item
	err   error
}

func (s stubSearcher) Search(context.Context, string) ([]food.Item, error) {
	return s.items, s.err
}

func newTestRouter(t *testing.T, searcher lookup.Searcher) http.Handler {
	t.Helper()
	l := ledger.New(ledger.NewKVRepository(store.NewMemoryStore()))
	extractor := food.NewKeywordExtractor(nil)
	chat := core.NewChatService(searcher, extractor, l, time.Second)
	return NewRouter(NewAPIHandler(chat, lookup.FallbackSearcher{Primary: searcher}, extractor, l))
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t, stubSearcher{}), http.MethodGet, "/api/health/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestChatFlow(t *testing.T) {
	router := newTestRouter(t, stubSearcher{err: &lookup.LookupError{Message: "offline"}})

	rec := do(t, router, http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decode[core.Session](t, rec)
	require.Len(t, session.Messages, 1)

	rec = do(t, router, http.MethodPost, "/api/sessions/"+session.ID+"/messages", `{"content":"3 tacos"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	reply := decode[core.Reply](t, rec)
	assert.Equal(t, []food.Item{{Name: "taco", Calories: 210, Quantity: 3}}, reply.Items)
	assert.Contains(t, reply.Message.Content, "Total calories: 630")

	rec = do(t, router, http.MethodGet, "/api/sessions/"+session.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[core.Session](t, rec).Messages, 3)

	rec = do(t, router, http.MethodGet, "/api/ledger/today", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalCalories":630}`, rec.Body.String())
}

func TestChatErrors(t *testing.T) {
	router := newTestRouter(t, stubSearcher{})

	rec := do(t, router, http.MethodGet, "/api/sessions/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/sessions/nope/messages", `{"content":"apple"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	session := decode[core.Session](t, do(t, router, http.MethodPost, "/api/sessions", ""))
	rec = do(t, router, http.MethodPost, "/api/sessions/"+session.ID+"/messages", `{"content":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/sessions/"+session.ID+"/messages", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchFoods(t *testing.T) {
	t.Run("remote results", func(t *testing.T) {
		router := newTestRouter(t, stubSearcher{items: []food.Item{{Name: "Kiwi", Calories: 42, Quantity: 1, Unit: "serving"}}})
		rec := do(t, router, http.MethodGet, "/api/foods/search?q=kiwi", "")
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[SearchResponse](t, rec)
		assert.Equal(t, "kiwi", resp.Query)
		assert.Equal(t, "Kiwi", resp.Items[0].Name)
	})

	t.Run("fallback table when remote fails", func(t *testing.T) {
		router := newTestRouter(t, stubSearcher{err: &lookup.LookupError{Message: "offline"}})
		rec := do(t, router, http.MethodGet, "/api/foods/search?q=boiled+egg", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Egg, whole, cooked", decode[SearchResponse](t, rec).Items[0].Name)

		rec = do(t, router, http.MethodGet, "/api/foods/search?q=quinoa", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"query":"quinoa","items":[]}`, rec.Body.String())
	})

	t.Run("no results is not found", func(t *testing.T) {
		router := newTestRouter(t, stubSearcher{err: &lookup.NoResultsError{Query: "egg nog"}})
		rec := do(t, router, http.MethodGet, "/api/foods/search?q=egg+nog", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unexpected failure is bad gateway", func(t *testing.T) {
		router := newTestRouter(t, stubSearcher{err: errors.New("boom")})
		rec := do(t, router, http.MethodGet, "/api/foods/search?q=egg", "")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("missing query", func(t *testing.T) {
		rec := do(t, newTestRouter(t, stubSearcher{}), http.MethodGet, "/api/foods/search", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestExtractFoods(t *testing.T) {
	router := newTestRouter(t, stubSearcher{})

	rec := do(t, router, http.MethodPost, "/api/foods/extract", `{"text":"2 apples"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[{"name":"apple","calories":80,"quantity":2}]}`, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/foods/extract", `{"text":"nothing here"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
}

func TestCompose(t *testing.T) {
	router := newTestRouter(t, stubSearcher{})

	rec := do(t, router, http.MethodPost, "/api/compose",
		`{"foods":[{"name":"pizza","calories":285,"quantity":2}],"goal":500}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[map[string]any](t, rec)
	assert.Contains(t, resp["text"], "You've exceeded your daily goal of 500 by 70 calories.")
	assert.EqualValues(t, 570, resp["totalCalories"])
	assert.Contains(t, resp["suggestion"], "cauliflower crust")

	rec = do(t, router, http.MethodPost, "/api/compose", `{"foods":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, food.NoFoodMessage, decode[map[string]any](t, rec)["text"])

	rec = do(t, router, http.MethodPost, "/api/compose", `{"foods":[{"name":"x","calories":1,"quantity":0}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLedgerAndGoal(t *testing.T) {
	router := newTestRouter(t, stubSearcher{})

	rec := do(t, router, http.MethodGet, "/api/goal", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPut, "/api/goal", `{"dailyCalorieTarget":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPut, "/api/goal", `{"dailyCalorieTarget":1500}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/goal", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"dailyCalorieTarget":1500}`, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/ledger/entries", `{"foods":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/ledger/entries",
		`{"foods":[{"name":"salad","calories":100,"quantity":1},{"name":"juice","calories":110,"quantity":2}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalCalories":320}`, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/ledger", "")
	require.Equal(t, http.StatusOK, rec.Code)
	records := decode[ledger.Records](t, rec)
	require.Len(t, records, 1)
	rec2 := records[ledger.DateKey(time.Now())]
	assert.Len(t, rec2.Foods, 2)
	assert.Equal(t, 320, rec2.TotalCalories)

	rec = do(t, router, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[ledger.Dashboard](t, rec)
	assert.Equal(t, 320, d.TodayCalories)
	assert.Equal(t, 21, d.GoalPercent)
	assert.Equal(t, 1180, d.Remaining)
	assert.Len(t, d.Week, 7)
}
