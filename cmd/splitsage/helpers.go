package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/splitsage/splitsage/internal/llm"
	"github.com/splitsage/splitsage/internal/splitwise"
	"github.com/splitsage/splitsage/internal/storage"
)

// initStorage opens the database and brings the schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/splitsage/splitsage.db"
	}
	dbPath = expandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// expandPath expands a leading tilde and environment variables.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}

// configValue reads a viper key, falling back to a bare environment
// variable. Keys like API secrets usually arrive via .env files.
func configValue(viperKey, envVar string) string {
	if v := viper.GetString(viperKey); v != "" {
		return v
	}
	return os.Getenv(envVar)
}

// newFeedClient builds the Splitwise client from configuration.
func newFeedClient() (*splitwise.Client, error) {
	return splitwise.NewClient(splitwise.Config{
		APIKey:  configValue("splitwise.api_key", "SPLITWISE_API_KEY"),
		BaseURL: viper.GetString("splitwise.base_url"),
		Timeout: viper.GetDuration("splitwise.timeout"),
	}, slog.Default())
}

// newOracleClient builds the categorization oracle from configuration.
func newOracleClient() (llm.Client, error) {
	provider := viper.GetString("oracle.provider")
	if provider == "" {
		provider = "openai"
	}

	apiKey := configValue("oracle.api_key", "OPENAI_API_KEY")
	if provider == "anthropic" && viper.GetString("oracle.api_key") == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	return llm.NewClient(llm.Config{
		Provider:    provider,
		APIKey:      apiKey,
		Model:       viper.GetString("oracle.model"),
		Temperature: viper.GetFloat64("oracle.temperature"),
		MaxTokens:   viper.GetInt("oracle.max_tokens"),
		Timeout:     viper.GetDuration("oracle.timeout"),
	})
}

// parseMonthFlag validates a YYYY-MM flag value.
func parseMonthFlag(value string) (string, error) {
	if _, err := time.Parse("2006-01", value); err != nil {
		return "", fmt.Errorf("invalid month %q, expected YYYY-MM", value)
	}
	return value, nil
}
