// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records submitted predictions so past picks can be
// reviewed, exported, or restored into the picker.
//
// The log lives in SQLite by default (history.db under the data
// directory). A shared Postgres database can be used instead by setting
// the driver to "postgres" and supplying a DSN.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/goalcast/pkg/types"
)

const (
	// DriverSQLite is the default driver.
	DriverSQLite = "sqlite3"

	// DriverPostgres stores history in Postgres through lib/pq.
	DriverPostgres = "postgres"

	dbFile = "history.db"
)

// Entry is one submitted prediction.
type Entry struct {
	ID            int64     `json:"id" yaml:"id"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	TeamAID       string    `json:"team_a_id" yaml:"team_a_id"`
	TeamAName     string    `json:"team_a_name,omitempty" yaml:"team_a_name,omitempty"`
	TeamBID       string    `json:"team_b_id" yaml:"team_b_id"`
	TeamBName     string    `json:"team_b_name,omitempty" yaml:"team_b_name,omitempty"`
	GoalThreshold string    `json:"goal_threshold,omitempty" yaml:"goal_threshold,omitempty"`
	NeutralVenue  bool      `json:"is_neutral_venue" yaml:"is_neutral_venue"`

	// Outcome is a one-line result: the most likely score, or the error
	// the service returned.
	Outcome string `json:"outcome,omitempty" yaml:"outcome,omitempty"`
}

// EntryFor builds an Entry from a submitted request and its outcome.
func EntryFor(req types.PredictionRequest, outcome string) Entry {
	return Entry{
		TeamAID:       req.TeamAID,
		TeamAName:     req.TeamAName,
		TeamBID:       req.TeamBID,
		TeamBName:     req.TeamBName,
		GoalThreshold: req.GoalThreshold,
		NeutralVenue:  req.NeutralVenue,
		Outcome:       outcome,
	}
}

// Outcome condenses a submission result to one line: the error, the most
// likely score, or the first line of a text summary.
func Outcome(res types.PredictionResult, err error) string {
	switch {
	case err != nil:
		return "error: " + err.Error()
	case res.MostLikelyScore != "":
		return res.MostLikelyScore
	}
	line, _, _ := strings.Cut(strings.TrimSpace(res.Summary), "\n")
	return line
}

// Request converts the entry back to a submission.
func (e Entry) Request() types.PredictionRequest {
	return types.PredictionRequest{
		TeamAID:       e.TeamAID,
		TeamAName:     e.TeamAName,
		TeamBID:       e.TeamBID,
		TeamBName:     e.TeamBName,
		GoalThreshold: e.GoalThreshold,
		NeutralVenue:  e.NeutralVenue,
	}
}

// Store is the submission log.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the configured database and creates the schema if it
// does not exist.
func Open(ctx context.Context, cfg types.HistoryConfig) (*Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverSQLite
	}

	var dsn string
	switch driver {
	case DriverSQLite:
		dsn = cfg.DSN
		if dsn == "" {
			dir := cfg.Dir
			if dir == "" {
				dir = "."
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating history directory: %w", err)
			}
			dsn = filepath.Join(dir, dbFile) + "?_journal_mode=WAL"
		}
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("history.dsn is required for the postgres driver")
		}
		dsn = cfg.DSN
	default:
		return nil, fmt.Errorf("unsupported history driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{db: db, driver: driver}
	if err := s.createSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema(ctx context.Context) error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.driver == DriverPostgres {
		idColumn = "id BIGSERIAL PRIMARY KEY"
	}
	statements := []string{
		`CREATE TABLE IF NOT EXISTS predictions (
			` + idColumn + `,
			created_at TEXT NOT NULL,
			team_a_id TEXT NOT NULL,
			team_a_name TEXT NOT NULL DEFAULT '',
			team_b_id TEXT NOT NULL,
			team_b_name TEXT NOT NULL DEFAULT '',
			goal_threshold TEXT NOT NULL DEFAULT '',
			neutral_venue INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $1, $2, ... for Postgres.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Record appends e and returns its ID. A zero CreatedAt is set to now.
func (s *Store) Record(ctx context.Context, e Entry) (int64, error) {
	if strings.TrimSpace(e.TeamAID) == "" || strings.TrimSpace(e.TeamBID) == "" {
		return 0, errors.New("history entry needs both team ids")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	neutral := 0
	if e.NeutralVenue {
		neutral = 1
	}

	var id int64
	err := s.db.QueryRowContext(ctx, s.rebind(
		`INSERT INTO predictions
			(created_at, team_a_id, team_a_name, team_b_id, team_b_name, goal_threshold, neutral_venue, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		e.CreatedAt.UTC().Format(time.RFC3339Nano),
		e.TeamAID, e.TeamAName, e.TeamBID, e.TeamBName,
		e.GoalThreshold, neutral, e.Outcome,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("recording prediction: %w", err)
	}
	return id, nil
}

// Recent returns up to limit entries, newest first. A limit of zero or
// less returns every entry.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, created_at, team_a_id, team_a_name, team_b_id, team_b_name,
			goal_threshold, neutral_venue, outcome
		FROM predictions ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			created string
			neutral int
		)
		if err := rows.Scan(&e.ID, &created, &e.TeamAID, &e.TeamAName, &e.TeamBID, &e.TeamBName,
			&e.GoalThreshold, &neutral, &e.Outcome); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("history row %d: bad timestamp %q: %w", e.ID, created, err)
		}
		e.NeutralVenue = neutral != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Last returns the most recent entry. The boolean is false when the log
// is empty.
func (s *Store) Last(ctx context.Context) (Entry, bool, error) {
	entries, err := s.Recent(ctx, 1)
	if err != nil || len(entries) == 0 {
		return Entry{}, false, err
	}
	return entries[0], true, nil
}

// ExportYAML writes the whole log to w, oldest first.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	entries, err := s.Recent(ctx, 0)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if entries == nil {
		entries = []Entry{}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}
