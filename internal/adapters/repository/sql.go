package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/okian/gradeparse/internal/domain/model"
	"github.com/okian/gradeparse/pkg/metrics"
)

// Driver names a supported SQL backend.
type Driver string

// Supported drivers. DriverMemory selects MemoryStore in NewStore.
const (
	DriverMemory   Driver = "memory"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

const (
	defaultSQLiteDSN   = "file:gradeparse.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
	defaultPostgresDSN = "postgres://localhost:5432/gradeparse?sslmode=disable"
)

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS courses (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  credit REAL NOT NULL,
  score REAL NOT NULL,
  planned INTEGER NOT NULL DEFAULT 0
);`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS courses (
  seq BIGSERIAL PRIMARY KEY,
  id TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  credit DOUBLE PRECISION NOT NULL,
  score DOUBLE PRECISION NOT NULL,
  planned BOOLEAN NOT NULL DEFAULT FALSE
);`

// SQLStore persists courses through database/sql.
type SQLStore struct {
	db              *sql.DB
	driver          Driver
	maxOpenConns    int
	connMaxLifetime time.Duration
}

// NewStore opens the store for driver. DriverMemory ignores dsn.
func NewStore(ctx context.Context, driver Driver, dsn string, opts ...Option) (Store, error) {
	if driver == DriverMemory || driver == "" {
		return NewMemoryStore(), nil
	}
	return Open(ctx, driver, dsn, opts...)
}

// Open connects to the database and ensures the schema exists. An empty dsn
// selects a local default.
func Open(ctx context.Context, driver Driver, dsn string, opts ...Option) (*SQLStore, error) {
	var drvName, schema string
	switch driver {
	case DriverSQLite:
		drvName, schema = "sqlite", schemaSQLite
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
	case DriverPostgres:
		drvName, schema = "pgx", schemaPostgres
		if dsn == "" {
			dsn = defaultPostgresDSN
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}

	s := &SQLStore{driver: driver}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	} else if s.maxOpenConns > 0 {
		db.SetMaxOpenConns(s.maxOpenConns)
	}
	if s.connMaxLifetime > 0 {
		db.SetConnMaxLifetime(s.connMaxLifetime)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	s.db = db
	return s, nil
}

func (s *SQLStore) Add(ctx context.Context, courses ...model.Course) error {
	defer observe("add", time.Now())
	if len(courses) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range courses {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO courses (id, name, credit, score, planned) VALUES ($1,$2,$3,$4,$5)`,
			c.ID, c.Name, c.Credit, c.Score, c.Planned)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
			}
			return fmt.Errorf("insert course: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.refreshGauge(ctx)
	return nil
}

func (s *SQLStore) List(ctx context.Context, f Filter) ([]model.Course, error) {
	defer observe("list", time.Now())

	var (
		rows *sql.Rows
		err  error
	)
	if f.Planned == nil {
		rows, err = s.db.QueryContext(ctx, `SELECT id, name, credit, score, planned FROM courses ORDER BY seq`)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT id, name, credit, score, planned FROM courses WHERE planned=$1 ORDER BY seq`, *f.Planned)
	}
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	out := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Credit, &c.Score, &c.Planned); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return out, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (model.Course, error) {
	var c model.Course
	err := s.db.QueryRowContext(ctx, `SELECT id, name, credit, score, planned FROM courses WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.Credit, &c.Score, &c.Planned)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Course{}, ErrNotFound
	}
	if err != nil {
		return model.Course{}, fmt.Errorf("get course: %w", err)
	}
	return c, nil
}

func (s *SQLStore) SetPlanned(ctx context.Context, id string, planned bool) (model.Course, error) {
	defer observe("set_planned", time.Now())
	res, err := s.db.ExecContext(ctx, `UPDATE courses SET planned=$1 WHERE id=$2`, planned, id)
	if err != nil {
		return model.Course{}, fmt.Errorf("update course: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Course{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	defer observe("delete", time.Now())
	res, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	s.refreshGauge(ctx)
	return nil
}

func (s *SQLStore) Clear(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM courses`)
	if err != nil {
		return 0, fmt.Errorf("clear courses: %w", err)
	}
	n, _ := res.RowsAffected()
	metrics.UpdateStoredCourses(0)
	return int(n), nil
}

func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count courses: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) refreshGauge(ctx context.Context) {
	if n, err := s.Count(ctx); err == nil {
		metrics.UpdateStoredCourses(n)
	}
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe.Code == "23505"
	}
	return false
}
