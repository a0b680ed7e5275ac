// Package storage persists categorization runs in SQLite so past runs and
// their cost/accuracy counters can be inspected later.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/spendlens/spendlens/internal/model"
)

// Store implements run persistence on SQLite.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Run is one persisted categorization run: the immutable transaction list,
// one result per transaction, and the summary counters.
type Run struct {
	CreatedAt    time.Time
	ID           string
	Transactions []model.Transaction
	Results      []model.CategorizationResult
	Stats        model.RunStats
}

// Open creates a new SQLite store at the given path.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath is required")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Migrate creates the schema if it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			total INTEGER NOT NULL,
			by_rule INTEGER NOT NULL,
			by_inference INTEGER NOT NULL,
			by_fallback INTEGER NOT NULL,
			batches_issued INTEGER NOT NULL,
			batches_failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			run_id TEXT NOT NULL REFERENCES runs(id),
			id TEXT NOT NULL,
			date TIMESTAMP NOT NULL,
			name TEXT NOT NULL,
			amount REAL NOT NULL,
			balance REAL,
			hash TEXT NOT NULL,
			PRIMARY KEY (run_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			run_id TEXT NOT NULL REFERENCES runs(id),
			transaction_id TEXT NOT NULL,
			category TEXT NOT NULL,
			confidence REAL NOT NULL,
			source TEXT NOT NULL,
			rationale TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (run_id, transaction_id)
		)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// SaveRun persists a completed run atomically.
func (s *Store) SaveRun(ctx context.Context, run *Run) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("run with ID is required")
	}
	if len(run.Results) != len(run.Transactions) {
		return fmt.Errorf("run has %d results for %d transactions", len(run.Results), len(run.Transactions))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, total, by_rule, by_inference, by_fallback, batches_issued, batches_failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, createdAt,
		run.Stats.Total, run.Stats.ByRule, run.Stats.ByInference, run.Stats.ByFallback,
		run.Stats.BatchesIssued, run.Stats.BatchesFailed,
	); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	for _, txn := range run.Transactions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (run_id, id, date, name, amount, balance, hash)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, txn.ID, txn.Date, txn.Name, txn.Amount, txn.Balance, txn.Hash,
		); err != nil {
			return fmt.Errorf("failed to save transaction %s: %w", txn.ID, err)
		}
	}

	for _, result := range run.Results {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO results (run_id, transaction_id, category, confidence, source, rationale)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, result.TransactionID, string(result.Category), result.Confidence,
			string(result.Source), result.Rationale,
		); err != nil {
			return fmt.Errorf("failed to save result for %s: %w", result.TransactionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	return nil
}

// GetRun loads one run with its transactions and results in ingestion order.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	run := &Run{ID: id}

	err := s.db.QueryRowContext(ctx,
		`SELECT created_at, total, by_rule, by_inference, by_fallback, batches_issued, batches_failed
		 FROM runs WHERE id = ?`, id,
	).Scan(&run.CreatedAt, &run.Stats.Total, &run.Stats.ByRule, &run.Stats.ByInference,
		&run.Stats.ByFallback, &run.Stats.BatchesIssued, &run.Stats.BatchesFailed)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, name, amount, balance, hash FROM transactions
		 WHERE run_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var txn model.Transaction
		var balance sql.NullFloat64
		if err := rows.Scan(&txn.ID, &txn.Date, &txn.Name, &txn.Amount, &balance, &txn.Hash); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if balance.Valid {
			txn.Balance = &balance.Float64
		}
		run.Transactions = append(run.Transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	resultRows, err := s.db.QueryContext(ctx,
		`SELECT transaction_id, category, confidence, source, rationale FROM results
		 WHERE run_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	defer func() { _ = resultRows.Close() }()

	for resultRows.Next() {
		var result model.CategorizationResult
		var category, source string
		if err := resultRows.Scan(&result.TransactionID, &category, &result.Confidence, &source, &result.Rationale); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		result.Category = model.CategoryLabel(category)
		result.Source = model.ResultSource(source)
		run.Results = append(run.Results, result)
	}
	if err := resultRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}

	return run, nil
}

// ListRuns returns summaries of all persisted runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, total, by_rule, by_inference, by_fallback, batches_issued, batches_failed
		 FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.Stats.Total, &run.Stats.ByRule,
			&run.Stats.ByInference, &run.Stats.ByFallback,
			&run.Stats.BatchesIssued, &run.Stats.BatchesFailed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
