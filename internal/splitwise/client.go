// Package splitwise implements the expense feed client. It speaks the
// Splitwise v3.0 REST API and normalizes raw shared expenses into records
// holding only the current user's owed share.
package splitwise

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/splitsage/splitsage/internal/common"
	"github.com/splitsage/splitsage/internal/model"
)

const defaultBaseURL = "https://secure.splitwise.com/api/v3.0"

// Config holds configuration for the feed client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client fetches and normalizes expenses from the Splitwise API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

// NewClient creates a feed client. A missing API key is fatal; there is no
// degraded mode for the feed.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: splitwise API key is required", common.ErrMissingConfig)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.APIKey,
		logger:     logger,
	}, nil
}

// User is the authenticated Splitwise account.
type User struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	ID        int64  `json:"id"`
}

// CurrentUser returns the account the API key belongs to. Also serves as the
// connectivity check before a sync.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.get(ctx, "/get_current_user", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Group is a Splitwise expense group.
type Group struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

// Groups returns the user's expense groups.
func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	var resp struct {
		Groups []Group `json:"groups"`
	}
	if err := c.get(ctx, "/get_groups", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Groups, nil
}

// FetchOptions bounds an expense fetch. Zero values mean unbounded.
type FetchOptions struct {
	DatedAfter  time.Time
	DatedBefore time.Time
	Limit       int
}

// rawExpense is the wire shape of one Splitwise expense. Monetary fields
// arrive as strings.
type rawExpense struct {
	Description  string `json:"description"`
	Details      string `json:"details"`
	Cost         string `json:"cost"`
	CurrencyCode string `json:"currency_code"`
	Date         string `json:"date"`
	DeletedAt    string `json:"deleted_at"`
	Category     struct {
		Name string `json:"name"`
	} `json:"category"`
	Users []struct {
		OwedShare string `json:"owed_share"`
		UserID    int64  `json:"user_id"`
	} `json:"users"`
	ID      int64 `json:"id"`
	GroupID int64 `json:"group_id"`
	Payment bool  `json:"payment"`
}

// FetchExpenses pulls raw expenses in the given window and normalizes them
// for the authenticated user. Payments, deleted entries and records where
// the user owes nothing are dropped.
func (c *Client) FetchExpenses(ctx context.Context, opts FetchOptions) ([]model.Expense, error) {
	user, err := c.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := c.Groups(ctx)
	if err != nil {
		return nil, err
	}
	groupNames := make(map[int64]string, len(groups))
	for _, g := range groups {
		groupNames[g.ID] = g.Name
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(opts.Limit))
	if !opts.DatedAfter.IsZero() {
		params.Set("dated_after", opts.DatedAfter.Format(time.RFC3339))
	}
	if !opts.DatedBefore.IsZero() {
		params.Set("dated_before", opts.DatedBefore.Format(time.RFC3339))
	}

	var resp struct {
		Expenses []rawExpense `json:"expenses"`
	}
	if err := c.get(ctx, "/get_expenses", params, &resp); err != nil {
		return nil, err
	}

	expenses := make([]model.Expense, 0, len(resp.Expenses))
	skipped := 0
	for _, raw := range resp.Expenses {
		exp, ok := normalize(raw, user.ID, groupNames)
		if !ok {
			skipped++
			continue
		}
		expenses = append(expenses, exp)
	}

	c.logger.Info("fetched expenses from feed",
		"fetched", len(resp.Expenses),
		"kept", len(expenses),
		"skipped", skipped)

	return expenses, nil
}

// normalize converts one raw expense into a stored record. It returns false
// for records the pipeline never ingests: payments, deleted entries and
// expenses where the user's owed share is missing or not positive.
func normalize(raw rawExpense, userID int64, groupNames map[int64]string) (model.Expense, bool) {
	if raw.Payment || raw.DeletedAt != "" {
		return model.Expense{}, false
	}

	var owed float64
	found := false
	for _, u := range raw.Users {
		if u.UserID == userID {
			parsed, err := strconv.ParseFloat(u.OwedShare, 64)
			if err == nil {
				owed = math.Abs(parsed)
				found = true
			}
			break
		}
	}
	if !found || owed <= 0 {
		return model.Expense{}, false
	}

	date, err := parseFeedDate(raw.Date)
	if err != nil {
		return model.Expense{}, false
	}

	groupName := "Friend"
	if raw.GroupID != 0 {
		if name, ok := groupNames[raw.GroupID]; ok {
			groupName = name
		}
	}

	return model.Expense{
		ID:          fmt.Sprintf("sw_%d", raw.ID),
		Date:        date,
		Description: strings.TrimSpace(raw.Description),
		Amount:      owed,
		Currency:    raw.CurrencyCode,
		GroupName:   groupName,
		Notes:       raw.Details,
		RawCategory: raw.Category.Name,
	}, true
}

// parseFeedDate keeps only the calendar day of the feed's RFC 3339 timestamp.
func parseFeedDate(s string) (time.Time, error) {
	if idx := strings.Index(s, "T"); idx != -1 {
		s = s[:idx]
	}
	return time.Parse("2006-01-02", s)
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrSplitwiseConnection, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d: %s",
			common.ErrSplitwiseConnection, path, resp.StatusCode, truncate(string(body), 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
