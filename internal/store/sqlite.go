// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"tradejournal/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Accounts table
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		initial_balance REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'Active',
		type TEXT NOT NULL DEFAULT 'Live',
		phase TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Trades table. Copy-trades replicated across accounts reuse the same
	-- trade id, so identity is (account_id, id).
	CREATE TABLE IF NOT EXISTS trades (
		account_id TEXT NOT NULL,
		id TEXT NOT NULL,
		group_id TEXT,
		instrument TEXT NOT NULL,
		direction TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		date DATE,
		pnl REAL NOT NULL DEFAULT 0,
		risk_amount REAL NOT NULL DEFAULT 0,
		execution_status TEXT,
		is_valid INTEGER,
		is_master INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (account_id, id),
		FOREIGN KEY (account_id) REFERENCES accounts(id)
	);

	-- Notes table
	CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		trade_id TEXT,
		date DATE NOT NULL,
		content TEXT NOT NULL,
		tags TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Create indexes for performance
	CREATE INDEX IF NOT EXISTS idx_trades_account ON trades(account_id);
	CREATE INDEX IF NOT EXISTS idx_trades_group ON trades(group_id);
	CREATE INDEX IF NOT EXISTS idx_trades_instrument ON trades(instrument);
	CREATE INDEX IF NOT EXISTS idx_trades_timestamp ON trades(timestamp);
	CREATE INDEX IF NOT EXISTS idx_notes_trade ON notes(trade_id);
	CREATE INDEX IF NOT EXISTS idx_notes_date ON notes(date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Accounts Methods
// ============================================================================

// SaveAccount saves an account to the database.
func (s *SQLiteStore) SaveAccount(ctx context.Context, account *models.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO accounts (id, name, initial_balance, status, type, phase)
		VALUES (?, ?, ?, ?, ?, ?)
	`, account.ID, account.Name, account.InitialBalance, string(account.Status), string(account.Type), account.Phase)
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

// GetAccount retrieves an account by ID.
func (s *SQLiteStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	var a models.Account
	var status, accType string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, initial_balance, status, type, phase FROM accounts WHERE id = ?
	`, id).Scan(&a.ID, &a.Name, &a.InitialBalance, &status, &accType, &a.Phase)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %s: not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	a.Status = models.AccountStatus(status)
	a.Type = models.AccountType(accType)
	return &a, nil
}

// GetAccounts retrieves accounts from the database.
func (s *SQLiteStore) GetAccounts(ctx context.Context, filter AccountFilter) ([]models.Account, error) {
	query := "SELECT id, name, initial_balance, status, type, phase FROM accounts WHERE 1=1"
	args := []interface{}{}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, filter.Type)
	}

	query += " ORDER BY name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		var status, accType string
		if err := rows.Scan(&a.ID, &a.Name, &a.InitialBalance, &status, &accType, &a.Phase); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		a.Status = models.AccountStatus(status)
		a.Type = models.AccountType(accType)
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

// ============================================================================
// Trades Methods
// ============================================================================

// SaveTrade saves a trade to the database.
func (s *SQLiteStore) SaveTrade(ctx context.Context, trade *models.Trade) error {
	isMaster := 0
	if trade.IsMaster {
		isMaster = 1
	}
	var isValid interface{}
	if trade.IsValid != nil {
		if *trade.IsValid {
			isValid = 1
		} else {
			isValid = 0
		}
	}
	var date interface{}
	if !trade.Date.IsZero() {
		date = trade.Date
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO trades (account_id, id, group_id, instrument, direction, timestamp, date, pnl, risk_amount, execution_status, is_valid, is_master)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, trade.AccountID, trade.ID, trade.GroupID, trade.Instrument, string(trade.Direction), trade.Timestamp, date, trade.PnL, trade.RiskAmount, string(trade.ExecutionStatus), isValid, isMaster)
	if err != nil {
		return fmt.Errorf("failed to save trade: %w", err)
	}
	return nil
}

// SaveTrades saves a batch of trades in one transaction.
func (s *SQLiteStore) SaveTrades(ctx context.Context, trades []models.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO trades (account_id, id, group_id, instrument, direction, timestamp, date, pnl, risk_amount, execution_status, is_valid, is_master)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := range trades {
		t := &trades[i]
		isMaster := 0
		if t.IsMaster {
			isMaster = 1
		}
		var isValid interface{}
		if t.IsValid != nil {
			if *t.IsValid {
				isValid = 1
			} else {
				isValid = 0
			}
		}
		var date interface{}
		if !t.Date.IsZero() {
			date = t.Date
		}
		_, err := stmt.ExecContext(ctx, t.AccountID, t.ID, t.GroupID, t.Instrument, string(t.Direction), t.Timestamp, date, t.PnL, t.RiskAmount, string(t.ExecutionStatus), isValid, isMaster)
		if err != nil {
			return fmt.Errorf("failed to insert trade: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetTrades retrieves trades from the database.
func (s *SQLiteStore) GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error) {
	query := "SELECT account_id, id, group_id, instrument, direction, timestamp, date, pnl, risk_amount, execution_status, is_valid, is_master FROM trades WHERE 1=1"
	args := []interface{}{}

	if filter.AccountID != "" {
		query += " AND account_id = ?"
		args = append(args, filter.AccountID)
	}
	if filter.Instrument != "" {
		query += " AND instrument = ?"
		args = append(args, filter.Instrument)
	}
	if filter.Direction != "" {
		query += " AND direction = ?"
		args = append(args, filter.Direction)
	}
	if filter.Status != "" {
		query += " AND execution_status = ?"
		args = append(args, filter.Status)
	}
	if !filter.StartDate.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND timestamp <= ?"
		args = append(args, filter.EndDate)
	}

	query += " ORDER BY timestamp ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		var groupID, direction, execStatus sql.NullString
		var date sql.NullTime
		var isValid sql.NullInt64
		var isMaster int

		if err := rows.Scan(&t.AccountID, &t.ID, &groupID, &t.Instrument, &direction, &t.Timestamp, &date, &t.PnL, &t.RiskAmount, &execStatus, &isValid, &isMaster); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}

		t.GroupID = groupID.String
		t.Direction = models.Direction(direction.String)
		t.ExecutionStatus = models.ExecutionStatus(execStatus.String)
		if date.Valid {
			t.Date = date.Time
		}
		if isValid.Valid {
			v := isValid.Int64 == 1
			t.IsValid = &v
		}
		t.IsMaster = isMaster == 1
		trades = append(trades, t)
	}

	return trades, rows.Err()
}

// DeleteTrade removes a trade record.
func (s *SQLiteStore) DeleteTrade(ctx context.Context, accountID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trades WHERE account_id = ? AND id = ?`, accountID, id)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("trade %s/%s: not found", accountID, id)
	}
	return nil
}

// ============================================================================
// Notes Methods
// ============================================================================

// SaveNote saves a note to the database.
func (s *SQLiteStore) SaveNote(ctx context.Context, note *models.Note) error {
	tags, _ := json.Marshal(note.Tags)
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO notes (id, trade_id, date, content, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, note.ID, note.TradeID, note.Date, note.Content, string(tags), note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}
	return nil
}

// GetNotes retrieves notes from the database.
func (s *SQLiteStore) GetNotes(ctx context.Context, filter NoteFilter) ([]models.Note, error) {
	query := "SELECT id, trade_id, date, content, tags, created_at, updated_at FROM notes WHERE 1=1"
	args := []interface{}{}

	if filter.TradeID != "" {
		query += " AND trade_id = ?"
		args = append(args, filter.TradeID)
	}
	if !filter.StartDate.IsZero() {
		query += " AND date >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND date <= ?"
		args = append(args, filter.EndDate)
	}

	query += " ORDER BY date DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var n models.Note
		var tagsJSON string
		if err := rows.Scan(&n.ID, &n.TradeID, &n.Date, &n.Content, &tagsJSON, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		json.Unmarshal([]byte(tagsJSON), &n.Tags)
		notes = append(notes, n)
	}

	return notes, rows.Err()
}
