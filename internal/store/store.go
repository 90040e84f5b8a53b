// Package store handles SQLite persistence of dataset snapshots.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/pyqdash/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNoImports is returned when no snapshot has been imported yet.
var ErrNoImports = errors.New("no dataset imported")

// Store wraps SQLite access for imported datasets.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Import describes one immutable dataset snapshot.
type Import struct {
	ID         string
	Source     string
	ImportedAt time.Time
	Chapters   int
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS imports (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			imported_at TEXT NOT NULL,
			chapters INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS chapters (
			import_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			subject TEXT NOT NULL,
			name TEXT NOT NULL,
			class TEXT NOT NULL,
			unit TEXT NOT NULL,
			solved INTEGER NOT NULL,
			status TEXT NOT NULL,
			weak INTEGER NOT NULL,
			PRIMARY KEY (import_id, position)
		);`,
		`CREATE TABLE IF NOT EXISTS chapter_year_counts (
			import_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			year TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (import_id, position, year)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_imports_imported_at ON imports(imported_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ImportDataset stores chapters as a new snapshot, preserving their order.
func (s *Store) ImportDataset(ctx context.Context, source string, chapters []model.Chapter) (imp Import, err error) {
	imp = Import{
		ID:         uuid.NewString(),
		Source:     source,
		ImportedAt: s.now().UTC(),
		Chapters:   len(chapters),
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Import{}, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO imports (id, source, imported_at, chapters) VALUES (?, ?, ?, ?)`,
		imp.ID, imp.Source, imp.ImportedAt.Format(time.RFC3339Nano), imp.Chapters,
	); err != nil {
		return Import{}, err
	}

	chapterStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chapters (import_id, position, subject, name, class, unit, solved, status, weak)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Import{}, err
	}
	defer closeStmt(chapterStmt)
	countStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chapter_year_counts (import_id, position, year, count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return Import{}, err
	}
	defer closeStmt(countStmt)

	for pos, ch := range chapters {
		if _, err = chapterStmt.ExecContext(ctx, imp.ID, pos, string(ch.Subject), ch.Name, ch.Class, ch.Unit, ch.Solved, string(ch.Status), ch.Weak); err != nil {
			return Import{}, err
		}
		for year, count := range ch.YearCounts {
			if _, err = countStmt.ExecContext(ctx, imp.ID, pos, year, count); err != nil {
				return Import{}, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return Import{}, err
	}
	return imp, nil
}

// ListImports returns all snapshots, newest first.
func (s *Store) ListImports(ctx context.Context) ([]Import, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, imported_at, chapters FROM imports ORDER BY imported_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var out []Import
	for rows.Next() {
		imp, err := scanImport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, imp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LatestImport returns the most recent snapshot or ErrNoImports.
func (s *Store) LatestImport(ctx context.Context) (Import, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, imported_at, chapters FROM imports ORDER BY imported_at DESC, rowid DESC LIMIT 1`)
	imp, err := scanImport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Import{}, ErrNoImports
	}
	return imp, err
}

// LoadChapters returns a snapshot's chapters in their original order.
func (s *Store) LoadChapters(ctx context.Context, importID string) ([]model.Chapter, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, subject, name, class, unit, solved, status, weak
		 FROM chapters WHERE import_id = ? ORDER BY position ASC`, importID)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var chapters []model.Chapter
	for rows.Next() {
		var (
			pos     int
			subject string
			status  string
			ch      model.Chapter
		)
		if err := rows.Scan(&pos, &subject, &ch.Name, &ch.Class, &ch.Unit, &ch.Solved, &status, &ch.Weak); err != nil {
			return nil, err
		}
		if pos != len(chapters) {
			return nil, fmt.Errorf("snapshot %s: missing chapter at position %d", importID, len(chapters))
		}
		ch.Subject = model.Subject(subject)
		ch.Status = model.Status(status)
		ch.YearCounts = map[string]int{}
		chapters = append(chapters, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.loadYearCounts(ctx, importID, chapters); err != nil {
		return nil, err
	}
	return chapters, nil
}

func (s *Store) loadYearCounts(ctx context.Context, importID string, chapters []model.Chapter) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, year, count FROM chapter_year_counts WHERE import_id = ?`, importID)
	if err != nil {
		return err
	}
	defer closeRows(rows)

	for rows.Next() {
		var (
			pos   int
			year  string
			count int
		)
		if err := rows.Scan(&pos, &year, &count); err != nil {
			return err
		}
		if pos < 0 || pos >= len(chapters) {
			return fmt.Errorf("snapshot %s: year count for unknown position %d", importID, pos)
		}
		chapters[pos].YearCounts[year] = count
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImport(row rowScanner) (Import, error) {
	var imp Import
	var importedAt string
	if err := row.Scan(&imp.ID, &imp.Source, &importedAt, &imp.Chapters); err != nil {
		return Import{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, importedAt)
	if err != nil {
		return Import{}, err
	}
	imp.ImportedAt = parsed
	return imp, nil
}

func closeRows(rows *sql.Rows) {
	if cerr := rows.Close(); cerr != nil {
		// Best-effort rows close.
		_ = cerr
	}
}

func closeStmt(stmt *sql.Stmt) {
	if cerr := stmt.Close(); cerr != nil {
		// Best-effort statement close.
		_ = cerr
	}
}
