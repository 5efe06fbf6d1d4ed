package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/splitsage/splitsage/internal/common"
	"github.com/splitsage/splitsage/internal/model"
)

const dateLayout = "2006-01-02"

// UpsertExpenses writes expense records by id, replacing any existing row.
// Classification fields carry whatever the record holds; a re-synced record
// arrives unclassified and is picked up again by the next categorize run.
func (s *SQLiteStorage) UpsertExpenses(ctx context.Context, expenses []model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExpenses(expenses); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO expenses (
			id, date, description, amount, currency, group_name,
			notes, raw_category, ai_category, ai_confidence, ai_reason, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, exp := range expenses {
		_, err = stmt.ExecContext(ctx,
			exp.ID,
			exp.Date.Format(dateLayout),
			exp.Description,
			exp.Amount,
			exp.Currency,
			nullString(exp.GroupName),
			nullString(exp.Notes),
			nullString(exp.RawCategory),
			nullString(string(exp.Category)),
			nullFloat(exp.Confidence, exp.Category != ""),
			nullString(exp.Reason),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert expense %s: %w", exp.ID, err)
		}
	}

	return tx.Commit()
}

// UpdateClassification writes a decision onto an expense record by id.
func (s *SQLiteStorage) UpdateClassification(ctx context.Context, id string, d model.Decision) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := validateDecision(&d); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE expenses
		SET ai_category = ?, ai_confidence = ?, ai_reason = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, string(d.Category), d.Confidence, d.Reason, id)
	if err != nil {
		return fmt.Errorf("failed to update classification for %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
	}

	return nil
}

// GetAllExpenses returns every expense record, most recent first.
func (s *SQLiteStorage) GetAllExpenses(ctx context.Context) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryExpenses(ctx, `SELECT `+expenseColumns+` FROM expenses ORDER BY date DESC, id`)
}

// GetUncategorized returns expense records with no classification yet.
func (s *SQLiteStorage) GetUncategorized(ctx context.Context) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryExpenses(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE ai_category IS NULL ORDER BY date, id`)
}

// GetExpensesByMonth returns the records whose date falls in the YYYY-MM
// scope, in date order.
func (s *SQLiteStorage) GetExpensesByMonth(ctx context.Context, month string) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateMonth(month); err != nil {
		return nil, err
	}
	return s.queryExpenses(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE substr(date, 1, 7) = ? ORDER BY date, id`, month)
}

// GetMonthlyStats returns grouped per-month counts and totals, most recent
// month first. Months holding multiple currencies produce one row each.
func (s *SQLiteStorage) GetMonthlyStats(ctx context.Context) ([]model.MonthlyStat, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			substr(date, 1, 7) AS month,
			COUNT(*) AS transaction_count,
			SUM(amount) AS total_amount,
			currency
		FROM expenses
		GROUP BY month, currency
		ORDER BY month DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []model.MonthlyStat
	for rows.Next() {
		var stat model.MonthlyStat
		if err := rows.Scan(&stat.Month, &stat.TransactionCount, &stat.TotalAmount, &stat.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan monthly stat: %w", err)
		}
		stats = append(stats, stat)
	}

	return stats, rows.Err()
}

// CountExpenses returns the total number of expense records.
func (s *SQLiteStorage) CountExpenses(ctx context.Context) (int, error) {
	return s.countWhere(ctx, "")
}

// CountUncategorized returns the number of records with no classification.
func (s *SQLiteStorage) CountUncategorized(ctx context.Context) (int, error) {
	return s.countWhere(ctx, "WHERE ai_category IS NULL")
}

func (s *SQLiteStorage) countWhere(ctx context.Context, where string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM expenses "+where).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count expenses: %w", err)
	}
	return count, nil
}

const expenseColumns = `id, date, description, amount, currency, group_name, notes, raw_category, ai_category, ai_confidence, ai_reason`

func (s *SQLiteStorage) queryExpenses(ctx context.Context, query string, args ...any) ([]model.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var expenses []model.Expense
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, exp)
	}

	return expenses, rows.Err()
}

func scanExpense(rows *sql.Rows) (model.Expense, error) {
	var (
		exp        model.Expense
		date       string
		group      sql.NullString
		notes      sql.NullString
		rawCat     sql.NullString
		category   sql.NullString
		confidence sql.NullFloat64
		reason     sql.NullString
	)

	err := rows.Scan(
		&exp.ID, &date, &exp.Description, &exp.Amount, &exp.Currency,
		&group, &notes, &rawCat, &category, &confidence, &reason,
	)
	if err != nil {
		return model.Expense{}, fmt.Errorf("failed to scan expense: %w", err)
	}

	exp.Date, err = parseStoredDate(date)
	if err != nil {
		return model.Expense{}, fmt.Errorf("expense %s: %w", exp.ID, err)
	}

	exp.GroupName = group.String
	exp.Notes = notes.String
	exp.RawCategory = rawCat.String
	if category.Valid {
		exp.Category = model.Category(category.String)
	}
	exp.Confidence = confidence.Float64
	exp.Reason = reason.String

	return exp, nil
}

// parseStoredDate accepts the canonical YYYY-MM-DD form plus the RFC3339
// datetimes older rows may carry.
func parseStoredDate(s string) (time.Time, error) {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse stored date %q: %w", s, err)
	}
	return t, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullFloat(f float64, valid bool) any {
	if !valid {
		return nil
	}
	return f
}
