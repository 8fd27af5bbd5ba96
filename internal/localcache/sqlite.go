package localcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/sculptbody/cierre-backend/constants"
	"github.com/sculptbody/cierre-backend/internal/entity"
)

const createSlotTable = `
CREATE TABLE IF NOT EXISTS demo_cache (
	slot    TEXT PRIMARY KEY,
	payload TEXT NOT NULL
)`

// SQLiteStore is the durable Store implementation: a single-file sqlite
// database with one slot row, standing in for the browser localStorage the
// dashboard originally used.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open demo cache: %w", err)
	}
	if _, err := db.Exec(createSlotTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init demo cache: %w", err)
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Read(ctx context.Context) ([]entity.SalesReport, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM demo_cache WHERE slot = ?`, constants.DemoCacheSlot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return []entity.SalesReport{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read demo cache: %w", err)
	}

	var reports []entity.SalesReport
	if err := json.Unmarshal([]byte(payload), &reports); err != nil {
		return nil, fmt.Errorf("decode demo cache: %w", err)
	}
	return reports, nil
}

func (s *SQLiteStore) Write(ctx context.Context, reports []entity.SalesReport) error {
	if reports == nil {
		reports = []entity.SalesReport{}
	}
	payload, err := json.Marshal(reports)
	if err != nil {
		return fmt.Errorf("encode demo cache: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO demo_cache (slot, payload) VALUES (?, ?)
		 ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload`,
		constants.DemoCacheSlot, string(payload))
	if err != nil {
		return fmt.Errorf("write demo cache: %w", err)
	}
	s.logger.Debug("localcache.write", "slot", constants.DemoCacheSlot, "reports", len(reports))
	return nil
}
