// Package sqlrecord stores records in SQLite and evaluates search plans as SQL.
package sqlrecord

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/kailas-cloud/recordbook/internal/domain"
	domrec "github.com/kailas-cloud/recordbook/internal/domain/record"
	"github.com/kailas-cloud/recordbook/internal/domain/search/query"
)

//go:embed schema.sql
var schema string

// driverName is go-sqlite3 with a Unicode-aware fold(text) function; the
// built-in lower() only folds ASCII.
const driverName = "sqlite3_recordbook"

var registerOnce sync.Once

func registerDriver() {
	registerOnce.Do(func() {
		sql.Register(driverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(c *sqlite3.SQLiteConn) error {
				return c.RegisterFunc("fold", strings.ToLower, true)
			},
		})
	})
}

// Repo implements the record repository contracts on SQLite.
type Repo struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for an ephemeral database.
func Open(path string) (*Repo, error) {
	registerDriver()
	conn, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Repo{db: conn}, nil
}

// Ping checks the database connection.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite: %w", err)
	}
	return nil
}

// Close closes the database.
func (r *Repo) Close() error {
	return r.db.Close()
}

// CreateCitizen inserts a citizen and returns it with the assigned ID.
func (r *Repo) CreateCitizen(ctx context.Context, c domrec.Citizen) (domrec.Citizen, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO citizens (name, age, address, government_id) VALUES (?, ?, ?, ?)",
		c.Name(), c.Age(), c.Address(), c.GovernmentID(),
	)
	if err != nil {
		return domrec.Citizen{}, fmt.Errorf("insert citizen: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domrec.Citizen{}, fmt.Errorf("citizen id: %w", err)
	}
	return c.WithID(id), nil
}

// GetCitizen returns a citizen by ID.
func (r *Repo) GetCitizen(ctx context.Context, id int64) (domrec.Citizen, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, age, address, government_id FROM citizens WHERE id = ?", id)
	c, err := scanCitizen(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domrec.Citizen{}, fmt.Errorf("citizen %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domrec.Citizen{}, fmt.Errorf("get citizen: %w", err)
	}
	return c, nil
}

// FindCitizens returns citizens matching the plan ordered by ID.
func (r *Repo) FindCitizens(ctx context.Context, plan query.Plan) ([]domrec.Citizen, error) {
	where, args, err := whereClause(plan)
	if err != nil {
		return nil, fmt.Errorf("compile citizen query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, age, address, government_id FROM citizens"+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("find citizens: %w", err)
	}
	defer rows.Close()

	var out []domrec.Citizen
	for rows.Next() {
		c, err := scanCitizen(rows)
		if err != nil {
			return nil, fmt.Errorf("scan citizen: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateCriminal inserts a criminal and returns it with the assigned ID.
func (r *Repo) CreateCriminal(ctx context.Context, c domrec.Criminal) (domrec.Criminal, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO criminals (name, crime, date_arrested, government_id) VALUES (?, ?, ?, ?)",
		c.Name(), c.Crime(), domrec.FormatDate(c.DateArrested()), c.GovernmentID(),
	)
	if err != nil {
		return domrec.Criminal{}, fmt.Errorf("insert criminal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domrec.Criminal{}, fmt.Errorf("criminal id: %w", err)
	}
	return c.WithID(id), nil
}

// GetCriminal returns a criminal by ID.
func (r *Repo) GetCriminal(ctx context.Context, id int64) (domrec.Criminal, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, crime, date_arrested, government_id FROM criminals WHERE id = ?", id)
	c, err := scanCriminal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domrec.Criminal{}, fmt.Errorf("criminal %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domrec.Criminal{}, fmt.Errorf("get criminal: %w", err)
	}
	return c, nil
}

// FindCriminals returns criminals matching the plan ordered by ID.
func (r *Repo) FindCriminals(ctx context.Context, plan query.Plan) ([]domrec.Criminal, error) {
	where, args, err := whereClause(plan)
	if err != nil {
		return nil, fmt.Errorf("compile criminal query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, crime, date_arrested, government_id FROM criminals"+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("find criminals: %w", err)
	}
	defer rows.Close()

	var out []domrec.Criminal
	for rows.Next() {
		c, err := scanCriminal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan criminal: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateReport inserts a report and returns it with the assigned ID.
func (r *Repo) CreateReport(ctx context.Context, rep domrec.Report) (domrec.Report, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO reports (date_time, officer_name, location, involved_persons, description)
		 VALUES (?, ?, ?, ?, ?)`,
		rep.DateTime().UTC().Format(time.RFC3339), rep.OfficerName(), rep.Location(),
		rep.InvolvedPersons(), rep.Description(),
	)
	if err != nil {
		return domrec.Report{}, fmt.Errorf("insert report: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domrec.Report{}, fmt.Errorf("report id: %w", err)
	}
	return rep.WithID(id), nil
}

// ListReports returns all reports ordered by ID.
func (r *Repo) ListReports(ctx context.Context) ([]domrec.Report, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date_time, officer_name, location, involved_persons, description
		 FROM reports ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []domrec.Report
	for rows.Next() {
		var (
			id                                  int64
			at, officer, loc, involved, details string
		)
		if err := rows.Scan(&id, &at, &officer, &loc, &involved, &details); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return nil, fmt.Errorf("report %d: invalid date_time %q: %w", id, at, err)
		}
		out = append(out, domrec.ReconstructReport(id, t, officer, loc, involved, details))
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCitizen(s scanner) (domrec.Citizen, error) {
	var (
		id                   int64
		age                  int
		name, address, govID string
	)
	if err := s.Scan(&id, &name, &age, &address, &govID); err != nil {
		return domrec.Citizen{}, err
	}
	return domrec.ReconstructCitizen(id, name, age, address, govID), nil
}

func scanCriminal(s scanner) (domrec.Criminal, error) {
	var (
		id                           int64
		name, crime, arrested, govID string
	)
	if err := s.Scan(&id, &name, &crime, &arrested, &govID); err != nil {
		return domrec.Criminal{}, err
	}
	d, err := time.Parse(domrec.DateLayout, arrested)
	if err != nil {
		return domrec.Criminal{}, fmt.Errorf("invalid date_arrested %q: %w", arrested, err)
	}
	return domrec.ReconstructCriminal(id, name, crime, d, govID), nil
}
