package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/fsmtools/fsmstrip/internal/config"
	"github.com/fsmtools/fsmstrip/internal/model"
)

// ModelDB provides SQLite-based access to one model file.
//
// Design decision: the parametric model is stored in a single SQLite file
// rather than a bespoke binary format. SQLite gives us typed columns,
// range queries that map directly onto the dataset filter, and a stable
// on-disk format the upstream computation can write from any language.
type ModelDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// path is the model file path, kept for error messages.
	path string
}

// Options configures ModelDB behavior.
type Options struct {
	// CreateIfNotExists creates the model file and its schema if the file
	// doesn't exist. Report generation opens files read-only; fixture
	// builders and repackaging tools set this.
	CreateIfNotExists bool
}

// Open opens a model file at the specified path.
// Without CreateIfNotExists, a missing file is an error: silently creating
// an empty database here would turn a mistyped path into a confusing
// "no rows matched" result much later.
func Open(path string, opts Options) (*ModelDB, error) {
	var dsn string
	if opts.CreateIfNotExists {
		dsn = path + "?mode=rwc"
	} else {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("model file not found at %s", path)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check model file: %w", err)
		}
		dsn = path + "?mode=ro"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}

	// SQLite only supports one writer; the reader path does not benefit
	// from more connections either, a report is one sequential query.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	mdb := &ModelDB{db: db, path: path}

	if opts.CreateIfNotExists {
		if err := mdb.createTables(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create model schema: %w", err)
		}
	}
	return mdb, nil
}

// Close closes the database connection.
func (mdb *ModelDB) Close() error {
	return mdb.db.Close()
}

// Path returns the model file path.
func (mdb *ModelDB) Path() string { return mdb.path }

// createTables creates the model schema if it doesn't exist.
func (mdb *ModelDB) createTables() error {
	schema := `
	-- One row per (strip length, base thickness) pair of the parametric model
	CREATE TABLE IF NOT EXISTS modal_composites (
		a REAL NOT NULL,
		t_b REAL NOT NULL,
		omega REAL NOT NULL,
		omega_approx REAL NOT NULL,
		sigma_cr REAL NOT NULL,
		sigma_cr_approx REAL NOT NULL,
		m_dominant INTEGER NOT NULL,
		omega_rel_err REAL NOT NULL,
		sigma_cr_rel_err REAL NOT NULL,
		UNIQUE(a, t_b)
	);

	CREATE INDEX IF NOT EXISTS idx_composites_t_b ON modal_composites(t_b);

	-- Unit and description of every modal_composites column
	CREATE TABLE IF NOT EXISTS column_metadata (
		name TEXT PRIMARY KEY,
		unit TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT ''
	);
	`

	_, err := mdb.db.ExecContext(context.Background(), schema)
	return err
}

// LoadModalComposites queries the rows matching the filter, ordered by
// ascending strip length, together with the column metadata.
//
// An empty result is a valid, non-error return; deciding what to do with
// it belongs to the caller. The filter is applied as given: the
// point-to-range widening fallback is the resolver's concern, not ours.
func (mdb *ModelDB) LoadModalComposites(ctx context.Context, filter config.Filter) (model.ModalComposites, model.ColumnMeta, error) {
	var (
		conds []string
		args  []any
	)
	if filter.TBFix != nil {
		conds = append(conds, "t_b = ?")
		args = append(args, *filter.TBFix)
	}
	if filter.TBMin != nil {
		conds = append(conds, "t_b >= ?")
		args = append(args, *filter.TBMin)
	}
	if filter.TBMax != nil {
		conds = append(conds, "t_b <= ?")
		args = append(args, *filter.TBMax)
	}
	if filter.AMin != nil {
		conds = append(conds, "a >= ?")
		args = append(args, *filter.AMin)
	}
	if filter.AMax != nil {
		conds = append(conds, "a <= ?")
		args = append(args, *filter.AMax)
	}

	query := `
	SELECT a, t_b, omega, omega_approx, sigma_cr, sigma_cr_approx,
	       m_dominant, omega_rel_err, sigma_cr_rel_err
	FROM modal_composites`
	if len(conds) > 0 {
		query += "\n\tWHERE " + strings.Join(conds, " AND ")
	}
	query += "\n\tORDER BY a ASC"

	rows, err := mdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return model.ModalComposites{}, nil, fmt.Errorf("failed to query modal composites from %s: %w", mdb.path, err)
	}
	defer rows.Close()

	var dataset model.ModalComposites
	for rows.Next() {
		var r model.Composite
		if err := rows.Scan(
			&r.A, &r.TB, &r.Omega, &r.OmegaApprox,
			&r.SigmaCr, &r.SigmaCrApprox,
			&r.MDominant, &r.OmegaRelErr, &r.SigmaCrRelErr,
		); err != nil {
			return model.ModalComposites{}, nil, fmt.Errorf("failed to scan modal composite row: %w", err)
		}
		dataset.Rows = append(dataset.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return model.ModalComposites{}, nil, fmt.Errorf("failed to read modal composites: %w", err)
	}

	if err := dataset.Validate(); err != nil {
		return model.ModalComposites{}, nil, fmt.Errorf("model file %s holds an inconsistent dataset: %w", mdb.path, err)
	}

	meta, err := mdb.loadColumnMeta(ctx)
	if err != nil {
		return model.ModalComposites{}, nil, err
	}
	return dataset, meta, nil
}

// loadColumnMeta reads the column_metadata table.
func (mdb *ModelDB) loadColumnMeta(ctx context.Context) (model.ColumnMeta, error) {
	rows, err := mdb.db.QueryContext(ctx, "SELECT name, unit, description FROM column_metadata")
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata from %s: %w", mdb.path, err)
	}
	defer rows.Close()

	meta := model.ColumnMeta{}
	for rows.Next() {
		var (
			name string
			info model.ColumnInfo
		)
		if err := rows.Scan(&name, &info.Unit, &info.Description); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata row: %w", err)
		}
		meta[name] = info
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read column metadata: %w", err)
	}
	return meta, nil
}

// InsertComposites stores rows into the model file. Existing rows with the
// same (a, t_b) key are replaced.
func (mdb *ModelDB) InsertComposites(ctx context.Context, rows []model.Composite) error {
	tx, err := mdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO modal_composites
		(a, t_b, omega, omega_approx, sigma_cr, sigma_cr_approx,
		 m_dominant, omega_rel_err, sigma_cr_rel_err)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(a, t_b) DO UPDATE SET
		omega = excluded.omega,
		omega_approx = excluded.omega_approx,
		sigma_cr = excluded.sigma_cr,
		sigma_cr_approx = excluded.sigma_cr_approx,
		m_dominant = excluded.m_dominant,
		omega_rel_err = excluded.omega_rel_err,
		sigma_cr_rel_err = excluded.sigma_cr_rel_err
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			r.A, r.TB, r.Omega, r.OmegaApprox,
			r.SigmaCr, r.SigmaCrApprox,
			r.MDominant, r.OmegaRelErr, r.SigmaCrRelErr,
		); err != nil {
			return fmt.Errorf("failed to insert modal composite row: %w", err)
		}
	}
	return tx.Commit()
}

// SetColumnMeta stores column metadata, replacing existing entries.
func (mdb *ModelDB) SetColumnMeta(ctx context.Context, meta model.ColumnMeta) error {
	tx, err := mdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO column_metadata (name, unit, description)
	VALUES (?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
		unit = excluded.unit,
		description = excluded.description
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare metadata insert: %w", err)
	}
	defer stmt.Close()

	for name, info := range meta {
		if _, err := stmt.ExecContext(ctx, name, info.Unit, info.Description); err != nil {
			return fmt.Errorf("failed to insert column metadata for %q: %w", name, err)
		}
	}
	return tx.Commit()
}
