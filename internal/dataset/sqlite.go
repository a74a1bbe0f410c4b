package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS baseline (
	identifier     TEXT PRIMARY KEY,
	gender         TEXT NOT NULL,
	race           TEXT NOT NULL,
	age_group      TEXT NOT NULL,
	edu            TEXT NOT NULL,
	income_bracket TEXT NOT NULL,
	state          TEXT NOT NULL,
	fb_usage       REAL NOT NULL,
	vax_percpt     INTEGER NOT NULL,
	treatment      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS endline (
	identifier     TEXT PRIMARY KEY REFERENCES baseline(identifier),
	gender         TEXT NOT NULL,
	race           TEXT NOT NULL,
	age_group      TEXT NOT NULL,
	edu            TEXT NOT NULL,
	income_bracket TEXT NOT NULL,
	state          TEXT NOT NULL,
	fb_usage       REAL NOT NULL,
	vax_percpt     INTEGER NOT NULL,
	treatment      TEXT NOT NULL,
	ad_awareness   TEXT NOT NULL,
	new_vax_percpt INTEGER NOT NULL
);
`

// SQLitePath returns the database path inside an output directory.
func SQLitePath(dir string) string {
	return filepath.Join(dir, SQLiteFile)
}

// WriteSQLite materializes both tables into a single database at path. The
// endline table carries a foreign key to baseline, so referential integrity
// is enforced by the engine as well as by CheckIntegrity.
func WriteSQLite(ctx context.Context, path string, ds *Dataset) error {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1) // SQLite works best with a single writer

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	baseStmt, err := tx.PrepareContext(ctx, `INSERT INTO baseline
		(identifier, gender, race, age_group, edu, income_bracket, state, fb_usage, vax_percpt, treatment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing baseline insert: %w", err)
	}
	defer baseStmt.Close()
	for _, r := range ds.Baseline {
		if _, err := baseStmt.ExecContext(ctx,
			r.Identifier, r.Gender, r.Race, r.AgeGroup, r.Education, r.Income,
			r.State, r.FBUsage, r.VaxPercpt, r.Treatment); err != nil {
			return fmt.Errorf("inserting baseline row %s: %w", r.Identifier, err)
		}
	}

	endStmt, err := tx.PrepareContext(ctx, `INSERT INTO endline
		(identifier, gender, race, age_group, edu, income_bracket, state, fb_usage, vax_percpt, treatment, ad_awareness, new_vax_percpt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing endline insert: %w", err)
	}
	defer endStmt.Close()
	for _, r := range ds.Endline {
		if _, err := endStmt.ExecContext(ctx,
			r.Identifier, r.Gender, r.Race, r.AgeGroup, r.Education, r.Income,
			r.State, r.FBUsage, r.VaxPercpt, r.Treatment, r.AdAwareness, r.NewVaxPercpt); err != nil {
			return fmt.Errorf("inserting endline row %s: %w", r.Identifier, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// ReadSQLite loads both tables from a database written by WriteSQLite,
// preserving insertion order.
func ReadSQLite(ctx context.Context, path string) (*Dataset, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ds := &Dataset{}

	rows, err := db.QueryContext(ctx, `SELECT identifier, gender, race, age_group, edu,
		income_bracket, state, fb_usage, vax_percpt, treatment FROM baseline ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying baseline: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r BaselineRow
		if err := rows.Scan(&r.Identifier, &r.Gender, &r.Race, &r.AgeGroup, &r.Education,
			&r.Income, &r.State, &r.FBUsage, &r.VaxPercpt, &r.Treatment); err != nil {
			return nil, fmt.Errorf("scanning baseline row: %w", err)
		}
		ds.Baseline = append(ds.Baseline, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating baseline: %w", err)
	}

	endRows, err := db.QueryContext(ctx, `SELECT identifier, gender, race, age_group, edu,
		income_bracket, state, fb_usage, vax_percpt, treatment, ad_awareness, new_vax_percpt
		FROM endline ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying endline: %w", err)
	}
	defer endRows.Close()
	for endRows.Next() {
		var r EndlineRow
		if err := endRows.Scan(&r.Identifier, &r.Gender, &r.Race, &r.AgeGroup, &r.Education,
			&r.Income, &r.State, &r.FBUsage, &r.VaxPercpt, &r.Treatment,
			&r.AdAwareness, &r.NewVaxPercpt); err != nil {
			return nil, fmt.Errorf("scanning endline row: %w", err)
		}
		ds.Endline = append(ds.Endline, r)
	}
	if err := endRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating endline: %w", err)
	}

	return ds, nil
}
