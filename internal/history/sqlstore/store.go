// Package sqlstore persists the run history in a SQL database.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/askiada/go-ssdt-lifecycle/internal/history"
)

// ErrUnknownDriver is returned for a driver without a known placeholder style.
var ErrUnknownDriver = errors.New("unknown sql driver")

var _ history.Store = (*Store)(nil)

// Store implements history.Store with database/sql. The driver must be registered by the caller.
type Store struct {
	db          *sql.DB
	numbered    bool
	runsTable   string
	stagesTable string
}

// New returns a store using the default table names.
func New(db *sql.DB, driver string) (*Store, error) {
	return NewWithConfig(db, driver, DefaultTableConfig())
}

// NewWithConfig returns a store using custom table names.
// driver is one of sqlite3, postgres or mysql.
func NewWithConfig(db *sql.DB, driver string, config TableConfig) (*Store, error) {
	s := &Store{
		db:          db,
		runsTable:   config.RunsTable,
		stagesTable: config.StagesTable,
	}

	switch driver {
	case "postgres", "pgx":
		s.numbered = true
	case "sqlite3", "mysql":
	default:
		return nil, errors.Wrap(ErrUnknownDriver, driver)
	}

	return s, nil
}

// Open opens the database and creates the history tables.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s database", driver)
	}

	s, err := New(db, driver)
	if err != nil {
		db.Close()

		return nil, err
	}

	err = s.Migrate(ctx)
	if err != nil {
		db.Close()

		return nil, err
	}

	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the history tables when they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	config := TableConfig{RunsTable: s.runsTable, StagesTable: s.stagesTable}
	for _, stmt := range statements(MigrationUp(config)) {
		_, err := s.db.ExecContext(ctx, stmt)
		if err != nil {
			return errors.Wrap(err, "failed to migrate history tables")
		}
	}

	return nil
}

// rebind rewrites ? placeholders for drivers using numbered ones.
func (s *Store) rebind(query string) string {
	if !s.numbered {
		return query
	}

	var (
		b strings.Builder
		n int
	)

	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)

			continue
		}

		n++
		b.WriteString("$" + strconv.Itoa(n))
	}

	return b.String()
}

func (s *Store) CreateRun(ctx context.Context, run history.Run) error {
	query := s.rebind(fmt.Sprintf(`
		INSERT INTO %s (id, kind, project, version, result, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.runsTable))

	_, err := s.db.ExecContext(ctx, query, run.ID.String(), run.Kind, run.Project, run.Version, run.Result, run.StartedAt.UnixNano())
	if err != nil {
		return errors.Wrap(err, "failed to create run")
	}

	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) exists(ctx context.Context, q queryRower, runID uuid.UUID) error {
	query := s.rebind(fmt.Sprintf(`SELECT id FROM %s WHERE id = ?`, s.runsTable))

	var id string

	err := q.QueryRowContext(ctx, query, runID.String()).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return history.ErrRunNotFound
	}

	if err != nil {
		return errors.Wrap(err, "failed to get run")
	}

	return nil
}

func (s *Store) AddStage(ctx context.Context, runID uuid.UUID, stage history.Stage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	err = s.exists(ctx, tx, runID)
	if err != nil {
		return err
	}

	var position int

	query := s.rebind(fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE run_id = ?`, s.stagesTable))

	err = tx.QueryRowContext(ctx, query, runID.String()).Scan(&position)
	if err != nil {
		return errors.Wrap(err, "failed to count stages")
	}

	query = s.rebind(fmt.Sprintf(`
		INSERT INTO %s (run_id, stage_position, from_stage, to_stage, elapsed_ns)
		VALUES (?, ?, ?, ?, ?)
	`, s.stagesTable))

	_, err = tx.ExecContext(ctx, query, runID.String(), position+1, stage.From, stage.To, int64(stage.Elapsed))
	if err != nil {
		return errors.Wrap(err, "failed to add stage")
	}

	return errors.Wrap(tx.Commit(), "failed to commit stage")
}

func (s *Store) FinishRun(ctx context.Context, runID uuid.UUID, version, result string, elapsed time.Duration) error {
	query := s.rebind(fmt.Sprintf(`
		UPDATE %s SET version = ?, result = ?, elapsed_ns = ?
		WHERE id = ?
	`, s.runsTable))

	res, err := s.db.ExecContext(ctx, query, version, result, int64(elapsed), runID.String())
	if err != nil {
		return errors.Wrap(err, "failed to finish run")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to finish run")
	}

	if n == 0 {
		// mysql reports 0 when the values are unchanged.
		return s.exists(ctx, s.db, runID)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (history.Run, error) {
	var (
		run       history.Run
		id        string
		startedAt int64
		elapsed   sql.NullInt64
	)

	err := row.Scan(&id, &run.Kind, &run.Project, &run.Version, &run.Result, &startedAt, &elapsed)
	if err != nil {
		return history.Run{}, err
	}

	run.ID, err = uuid.Parse(id)
	if err != nil {
		return history.Run{}, errors.Wrapf(err, "invalid run id %q", id)
	}

	run.StartedAt = time.Unix(0, startedAt)
	run.Finished = elapsed.Valid
	run.Elapsed = time.Duration(elapsed.Int64)

	return run, nil
}

func (s *Store) GetRun(ctx context.Context, runID uuid.UUID) (history.Run, error) {
	query := s.rebind(fmt.Sprintf(`
		SELECT id, kind, project, version, result, started_at, elapsed_ns
		FROM %s
		WHERE id = ?
	`, s.runsTable))

	run, err := scanRun(s.db.QueryRowContext(ctx, query, runID.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return history.Run{}, history.ErrRunNotFound
	}

	if err != nil {
		return history.Run{}, errors.Wrap(err, "failed to get run")
	}

	query = s.rebind(fmt.Sprintf(`
		SELECT stage_position, from_stage, to_stage, elapsed_ns
		FROM %s
		WHERE run_id = ?
		ORDER BY stage_position
	`, s.stagesTable))

	rows, err := s.db.QueryContext(ctx, query, runID.String())
	if err != nil {
		return history.Run{}, errors.Wrap(err, "failed to get stages")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			stage   history.Stage
			elapsed int64
		)

		err = rows.Scan(&stage.Position, &stage.From, &stage.To, &elapsed)
		if err != nil {
			return history.Run{}, errors.Wrap(err, "failed to scan stage")
		}

		stage.Elapsed = time.Duration(elapsed)
		run.Stages = append(run.Stages, stage)
	}

	return run, errors.Wrap(rows.Err(), "failed to iterate stages")
}

func (s *Store) ListRuns(ctx context.Context, limit int) ([]history.Run, error) {
	query := fmt.Sprintf(`
		SELECT id, kind, project, version, result, started_at, elapsed_ns
		FROM %s
		ORDER BY started_at DESC
	`, s.runsTable)

	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list runs")
	}
	defer rows.Close()

	runs := []history.Run{}

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan run")
		}

		runs = append(runs, run)
	}

	return runs, errors.Wrap(rows.Err(), "failed to iterate runs")
}
