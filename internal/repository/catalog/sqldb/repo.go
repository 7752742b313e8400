// Package sqldb keeps the catalog in a SQL table, one row per entry with an
// explicit position column so catalog order survives the round trip.
// Postgres (lib/pq) and SQLite (modernc.org/sqlite) are supported.
package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/kailas-cloud/coursesearch/internal/domain/course"
)

// Dialect names.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

var tableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,62}$`)

// Repo implements the catalog source and writer over database/sql.
type Repo struct {
	db      *sql.DB
	dialect string
	table   string
}

// Open connects to the database and ensures the catalog table exists.
// For sqlite, dsn is a file path.
func Open(ctx context.Context, dialect, dsn, table string) (*Repo, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	var (
		conn *sql.DB
		err  error
	)
	switch dialect {
	case Postgres:
		conn, err = sql.Open("postgres", dsn)
	case SQLite:
		// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
		conn, err = sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", dsn))
		if err == nil {
			conn.SetMaxOpenConns(1)
		}
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	conn.SetConnMaxLifetime(5 * time.Minute)

	r := &Repo{db: conn, dialect: dialect, table: table}
	if err := r.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := r.migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) migrate(ctx context.Context) error {
	creditsType := "DOUBLE PRECISION"
	if r.dialect == SQLite {
		creditsType = "REAL"
	}
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	position      INTEGER PRIMARY KEY,
	title         TEXT NOT NULL,
	description   TEXT NOT NULL,
	code          TEXT NOT NULL,
	hub_units     TEXT NOT NULL,
	prerequisites TEXT,
	credits       %s
)`, r.table, creditsType)
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create table %s: %w", r.table, err)
	}
	return nil
}

// placeholders returns n bind parameters in the dialect's style.
func (r *Repo) placeholders(n int) string {
	ps := make([]string, n)
	for i := range ps {
		if r.dialect == Postgres {
			ps[i] = fmt.Sprintf("$%d", i+1)
		} else {
			ps[i] = "?"
		}
	}
	return strings.Join(ps, ", ")
}

// Load reads every row in position order.
func (r *Repo) Load(ctx context.Context) ([]course.Record, error) {
	q := fmt.Sprintf(`SELECT title, description, code, hub_units, prerequisites, credits
FROM %s ORDER BY position`, r.table)
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var out []course.Record
	for rows.Next() {
		var (
			rec     course.Record
			hubJSON string
			prereq  sql.NullString
			credits sql.NullFloat64
		)
		if err := rows.Scan(&rec.Title, &rec.Description, &rec.Code, &hubJSON, &prereq, &credits); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		if err := json.Unmarshal([]byte(hubJSON), &rec.HubUnits); err != nil {
			return nil, fmt.Errorf("decode hub_units for %q: %w", rec.Title, err)
		}
		rec.Prerequisites = prereq.String
		if credits.Valid {
			v := credits.Float64
			rec.Credits = &v
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog: %w", err)
	}
	return out, nil
}

// Replace swaps the table contents in one transaction.
func (r *Repo) Replace(ctx context.Context, entries []course.Entry) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", r.table)); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (position, title, description, code, hub_units, prerequisites, credits) VALUES (%s)`,
		r.table, r.placeholders(7)))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		rec := course.ToRecord(e)
		hubJSON, mErr := json.Marshal(rec.HubUnits)
		if mErr != nil {
			err = fmt.Errorf("encode hub_units for %q: %w", rec.Title, mErr)
			return err
		}
		var prereq sql.NullString
		if rec.Prerequisites != "" {
			prereq = sql.NullString{String: rec.Prerequisites, Valid: true}
		}
		var credits sql.NullFloat64
		if rec.Credits != nil {
			credits = sql.NullFloat64{Float64: *rec.Credits, Valid: true}
		}
		if _, err = stmt.ExecContext(ctx, i, rec.Title, rec.Description, rec.Code, string(hubJSON), prereq, credits); err != nil {
			return fmt.Errorf("insert %q: %w", rec.Title, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping db: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (r *Repo) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
