package splitwise

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitsage/splitsage/internal/common"
)

func newServerClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{}, nil)
	require.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestCurrentUser(t *testing.T) {
	client := newServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get_current_user", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user": {"id": 42, "first_name": "Sam", "email": "sam@example.com"}}`))
	}))

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "Sam", user.FirstName)
}

func TestCurrentUserUnauthorized(t *testing.T) {
	client := newServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "Invalid API request"}`, http.StatusUnauthorized)
	}))

	_, err := client.CurrentUser(context.Background())
	require.ErrorIs(t, err, common.ErrSplitwiseConnection)
}

const expensesBody = `{"expenses": [
	{
		"id": 1001,
		"description": "Costco",
		"details": "weekly run",
		"cost": "120.00",
		"currency_code": "USD",
		"date": "2026-02-03T08:15:00Z",
		"deleted_at": "",
		"payment": false,
		"group_id": 7,
		"category": {"name": "Groceries"},
		"users": [
			{"user_id": 42, "owed_share": "60.00"},
			{"user_id": 43, "owed_share": "60.00"}
		]
	},
	{
		"id": 1002,
		"description": "Settle up",
		"cost": "60.00",
		"currency_code": "USD",
		"date": "2026-02-04T00:00:00Z",
		"payment": true,
		"users": [{"user_id": 42, "owed_share": "60.00"}]
	},
	{
		"id": 1003,
		"description": "Deleted dinner",
		"cost": "80.00",
		"currency_code": "USD",
		"date": "2026-02-05T00:00:00Z",
		"deleted_at": "2026-02-06T00:00:00Z",
		"users": [{"user_id": 42, "owed_share": "40.00"}]
	},
	{
		"id": 1004,
		"description": "Paid by me only",
		"cost": "30.00",
		"currency_code": "USD",
		"date": "2026-02-07T00:00:00Z",
		"users": [{"user_id": 42, "owed_share": "0.00"}]
	},
	{
		"id": 1005,
		"description": "Dinner with Alex",
		"cost": "90.00",
		"currency_code": "USD",
		"date": "2026-02-08T19:30:00Z",
		"group_id": 0,
		"users": [{"user_id": 42, "owed_share": "45.00"}]
	}
]}`

func feedHandler(t *testing.T) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/get_current_user", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user": {"id": 42}}`))
	})
	mux.HandleFunc("/get_groups", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"groups": [{"id": 7, "name": "Roommates"}]}`))
	})
	mux.HandleFunc("/get_expenses", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(expensesBody))
	})
	return mux
}

func TestFetchExpensesNormalization(t *testing.T) {
	client := newServerClient(t, feedHandler(t))

	expenses, err := client.FetchExpenses(context.Background(), FetchOptions{})
	require.NoError(t, err)

	// Payment, deleted and zero-share records are dropped.
	require.Len(t, expenses, 2)

	costco := expenses[0]
	assert.Equal(t, "sw_1001", costco.ID)
	assert.Equal(t, "Costco", costco.Description)
	assert.InDelta(t, 60.0, costco.Amount, 1e-9)
	assert.Equal(t, "USD", costco.Currency)
	assert.Equal(t, "Roommates", costco.GroupName)
	assert.Equal(t, "weekly run", costco.Notes)
	assert.Equal(t, "Groceries", costco.RawCategory)
	assert.Equal(t, "2026-02-03", costco.Date.Format("2006-01-02"))
	assert.False(t, costco.Categorized())

	dinner := expenses[1]
	assert.Equal(t, "sw_1005", dinner.ID)
	assert.Equal(t, "Friend", dinner.GroupName)
	assert.InDelta(t, 45.0, dinner.Amount, 1e-9)
}

func TestFetchExpensesWindowParams(t *testing.T) {
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("/get_current_user", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user": {"id": 42}}`))
	})
	mux.HandleFunc("/get_groups", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"groups": []}`))
	})
	mux.HandleFunc("/get_expenses", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"expenses": []}`))
	})

	client := newServerClient(t, mux)
	after := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := client.FetchExpenses(context.Background(), FetchOptions{DatedAfter: after, Limit: 100})
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "dated_after=2026-01-01T00%3A00%3A00Z")
	assert.Contains(t, gotQuery, "limit=100")
}

func TestNormalizeNegativeShare(t *testing.T) {
	raw := rawExpense{
		ID:           2001,
		Description:  "Refund",
		CurrencyCode: "USD",
		Date:         "2026-03-01T00:00:00Z",
	}
	raw.Users = []struct {
		OwedShare string `json:"owed_share"`
		UserID    int64  `json:"user_id"`
	}{{OwedShare: "-25.00", UserID: 42}}

	exp, ok := normalize(raw, 42, nil)
	require.True(t, ok)
	assert.InDelta(t, 25.0, exp.Amount, 1e-9, "shares are stored as absolute values")
}

func TestNormalizeUserAbsent(t *testing.T) {
	raw := rawExpense{ID: 2002, Description: "Not mine", Date: "2026-03-01T00:00:00Z"}
	_, ok := normalize(raw, 42, nil)
	assert.False(t, ok)
}
