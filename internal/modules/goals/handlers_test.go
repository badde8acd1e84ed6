package goals

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/wealthlens/wealthlens/internal/database"
	"github.com/wealthlens/wealthlens/internal/domain"
	"github.com/wealthlens/wealthlens/internal/events"
	"github.com/wealthlens/wealthlens/internal/identity"
)

func setupHandler(t *testing.T) http.Handler {
	router, _ := setupHandlerWithEvents(t)
	return router
}

func setupHandlerWithEvents(t *testing.T) (http.Handler, *events.Manager) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(database.Schema)
	require.NoError(t, err)

	eventBus := events.NewManager(10, zerolog.Nop())
	handler := NewHandler(NewRepository(db, zerolog.Nop()), eventBus, zerolog.Nop())

	router := chi.NewRouter()
	router.Use(identity.Middleware)
	router.Route("/api/goals", handler.Routes)

	return router, eventBus
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestHandleCreateAndGet(t *testing.T) {
	router := setupHandler(t)

	rec := doJSON(t, router, http.MethodPost, "/api/goals/", UpsertRequest{
		GoalType:            "early_retirement",
		TargetAmount:        500000,
		TargetDate:          "2045-06-30",
		MonthlyContribution: 1500,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Goal
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, domain.GoalActive, created.Status)
	assert.Equal(t, int64(identity.DefaultUserID), created.UserID)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/goals/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.Goal
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, 500000.0, got.TargetAmount)
	assert.Equal(t, "2045-06-30", got.TargetDate.Format("2006-01-02"))
}

func TestHandleCreate_Validation(t *testing.T) {
	router := setupHandler(t)

	cases := []struct {
		name  string
		req   UpsertRequest
		field string
	}{
		{"missing type", UpsertRequest{TargetAmount: 100, TargetDate: "2030-01-01"}, "goal_type"},
		{"zero target", UpsertRequest{GoalType: "house", TargetAmount: 0, TargetDate: "2030-01-01"}, "target_amount"},
		{"bad date", UpsertRequest{GoalType: "house", TargetAmount: 100, TargetDate: "soon"}, "target_date"},
		{"negative monthly", UpsertRequest{GoalType: "house", TargetAmount: 100, TargetDate: "2030-01-01", MonthlyContribution: -5}, "monthly_contribution"},
		{"bad status", UpsertRequest{GoalType: "house", TargetAmount: 100, TargetDate: "2030-01-01", Status: "done"}, "status"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/goals/", tc.req)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tc.field, body["field"])
		})
	}
}

func TestHandleUpdate_NotFound(t *testing.T) {
	router := setupHandler(t)

	rec := doJSON(t, router, http.MethodPut, "/api/goals/42", UpsertRequest{
		GoalType:     "house",
		TargetAmount: 100,
		TargetDate:   "2030-01-01",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleDelete(t *testing.T) {
	router := setupHandler(t)

	rec := doJSON(t, router, http.MethodPost, "/api/goals/", UpsertRequest{
		GoalType:     "vacation",
		TargetAmount: 3000,
		TargetDate:   "2027-07-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Goal
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/goals/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/goals/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserScoping(t *testing.T) {
	router := setupHandler(t)

	rec := doJSON(t, router, http.MethodPost, "/api/goals/", UpsertRequest{
		GoalType:     "house",
		TargetAmount: 100000,
		TargetDate:   "2035-01-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Another user sees an empty list.
	req := httptest.NewRequest(http.MethodGet, "/api/goals/", nil)
	req.Header.Set("X-User-ID", "7")
	other := httptest.NewRecorder()
	router.ServeHTTP(other, req)

	require.Equal(t, http.StatusOK, other.Code)
	var list []domain.Goal
	require.NoError(t, json.NewDecoder(other.Body).Decode(&list))
	assert.Empty(t, list)
}

func TestHandler_EmitsGoalEvents(t *testing.T) {
	router, eventBus := setupHandlerWithEvents(t)

	rec := doJSON(t, router, http.MethodPost, "/api/goals/", UpsertRequest{
		GoalType:     "car",
		TargetAmount: 20000,
		TargetDate:   "2030-06-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Goal
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	rec = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/goals/%d", created.ID), UpsertRequest{
		GoalType:     "car",
		TargetAmount: 25000,
		TargetDate:   "2030-06-01",
		Status:       "paused",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/goals/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	recent := eventBus.Recent()
	require.Len(t, recent, 3)
	// Newest first.
	assert.Equal(t, events.GoalDeleted, recent[0].Type)
	assert.Equal(t, events.GoalUpdated, recent[1].Type)
	assert.Equal(t, events.GoalCreated, recent[2].Type)
	assert.Equal(t, created.ID, recent[2].Data["goal_id"])
}
