// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists canonical books and their provenance in SQLite.
// It owns the reconciliation transaction: read-or-create by normalized ISBN
// runs inside an immediate transaction, and a lost create race is recovered
// by re-reading the row the winner wrote.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/pdiddy/bookdex/internal/textutil"
	"github.com/pdiddy/bookdex/pkg/types"
)

const dbFile = "bookdex.db"

// Store manages the book database.
type Store struct {
	db      *sql.DB
	dataDir string
}

// Open opens or creates the database at cfg.DataDir/bookdex.db and creates
// the schema if it does not exist. Transactions take the write lock
// immediately so concurrent reconciliations serialize at begin time.
func Open(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: cfg.DataDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DataDir returns the base data directory backing this store.
func (s *Store) DataDir() string {
	return s.dataDir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS books (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL DEFAULT '',
			authors TEXT,
			publisher TEXT,
			pub_year INTEGER,
			isbn TEXT UNIQUE,
			edition TEXT,
			pages INTEGER,
			summary TEXT,
			author_bio TEXT,
			language TEXT,
			cover_path TEXT,
			catalog_number TEXT,
			category TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_books_title ON books(title)`,
		`CREATE TABLE IF NOT EXISTS provenance (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			book_id INTEGER NOT NULL REFERENCES books(id) ON DELETE CASCADE,
			site TEXT NOT NULL,
			url TEXT,
			extracted TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_provenance_book_id ON provenance(book_id)`,
		`CREATE INDEX IF NOT EXISTS idx_provenance_site ON provenance(site)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

const bookColumns = `id, title, authors, publisher, pub_year, isbn, edition,
	pages, summary, author_bio, language, cover_path, catalog_number,
	category, created_at, updated_at`

// Reconcile merges a detail record into the canonical table. A record with a
// normalized ISBN locates an existing book by that key and applies the
// non-empty-overwrites policy field by field; no match, or a record without
// an ISBN, creates a new book. The created return value reports whether a
// new row was inserted.
func (s *Store) Reconcile(ctx context.Context, d *types.DetailRecord) (id int64, created bool, err error) {
	isbn := textutil.NormalizeISBN(d.ISBN)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if isbn != "" {
		existing, lookErr := scanBook(tx.QueryRowContext(ctx,
			`SELECT `+bookColumns+` FROM books WHERE isbn = ?`, isbn))
		if lookErr != nil && !errors.Is(lookErr, sql.ErrNoRows) {
			return 0, false, fmt.Errorf("looking up ISBN %s: %w", isbn, lookErr)
		}
		if lookErr == nil {
			mergeDetail(existing, d)
			if upErr := updateBook(ctx, tx, existing); upErr != nil {
				return 0, false, fmt.Errorf("updating book %d: %w", existing.ID, upErr)
			}
			if err = tx.Commit(); err != nil {
				return 0, false, fmt.Errorf("committing: %w", err)
			}
			return existing.ID, false, nil
		}
	}

	id, insErr := insertBook(ctx, tx, d, isbn)
	if insErr != nil {
		tx.Rollback()
		// Someone else created the same ISBN first: re-read and return
		// the winner's row. The uniqueness constraint is the last line
		// of defense against the create race.
		if isUniqueViolation(insErr) && isbn != "" {
			winner, readErr := s.GetBookByISBN(ctx, isbn)
			if readErr != nil {
				return 0, false, fmt.Errorf("re-reading after unique conflict on %s: %w", isbn, readErr)
			}
			if winner != nil {
				return winner.ID, false, nil
			}
		}
		return 0, false, fmt.Errorf("inserting book: %w", insErr)
	}

	if err = tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("committing: %w", err)
	}
	return id, true, nil
}

// mergeDetail applies the overwrite policy: a non-empty incoming value wins
// over the stored one, an empty incoming value never clears anything.
func mergeDetail(b *types.Book, d *types.DetailRecord) {
	if t := strings.TrimSpace(d.Title); t != "" {
		b.Title = t
	}
	if len(d.Authors) > 0 {
		b.Authors = d.Authors
	}
	if d.Publisher != "" {
		b.Publisher = d.Publisher
	}
	if d.PubYear != 0 {
		b.PubYear = d.PubYear
	}
	if d.Edition != "" {
		b.Edition = d.Edition
	}
	if d.Pages != 0 {
		b.Pages = d.Pages
	}
	if sum := strings.TrimSpace(d.Summary); sum != "" {
		b.Summary = sum
	}
	if bio := strings.TrimSpace(d.AuthorBio); bio != "" {
		b.AuthorBio = bio
	}
	if d.Language != "" {
		b.Language = d.Language
	}
	if d.CatalogNumber != "" {
		b.CatalogNumber = d.CatalogNumber
	}
}

func insertBook(ctx context.Context, tx *sql.Tx, d *types.DetailRecord, isbn string) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO books (title, authors, publisher, pub_year, isbn, edition,
			pages, summary, author_bio, language, catalog_number,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(d.Title),
		joinAuthors(d.Authors),
		nullIfEmpty(d.Publisher),
		nullIfZero(d.PubYear),
		nullIfEmpty(isbn),
		nullIfEmpty(d.Edition),
		nullIfZero(d.Pages),
		nullIfEmpty(strings.TrimSpace(d.Summary)),
		nullIfEmpty(strings.TrimSpace(d.AuthorBio)),
		nullIfEmpty(d.Language),
		nullIfEmpty(d.CatalogNumber),
		now, now,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func updateBook(ctx context.Context, tx *sql.Tx, b *types.Book) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := tx.ExecContext(ctx,
		`UPDATE books SET title = ?, authors = ?, publisher = ?, pub_year = ?,
			edition = ?, pages = ?, summary = ?, author_bio = ?,
			language = ?, catalog_number = ?, updated_at = ?
		WHERE id = ?`,
		b.Title,
		joinAuthors(b.Authors),
		nullIfEmpty(b.Publisher),
		nullIfZero(b.PubYear),
		nullIfEmpty(b.Edition),
		nullIfZero(b.Pages),
		nullIfEmpty(b.Summary),
		nullIfEmpty(b.AuthorBio),
		nullIfEmpty(b.Language),
		nullIfEmpty(b.CatalogNumber),
		now, b.ID,
	)
	return err
}

// GetBook returns the book with the given id, or nil when absent.
func (s *Store) GetBook(ctx context.Context, id int64) (*types.Book, error) {
	b, err := scanBook(s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

// GetBookByISBN returns the book with the given normalized ISBN, or nil.
func (s *Store) GetBookByISBN(ctx context.Context, isbn string) (*types.Book, error) {
	b, err := scanBook(s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE isbn = ?`, textutil.NormalizeISBN(isbn)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

// ListBooks returns all books ordered by id.
func (s *Store) ListBooks(ctx context.Context) ([]types.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	defer rows.Close()

	var out []types.Book
	for rows.Next() {
		b, err := scanBookRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// DeleteBook removes a book; provenance rows cascade. It reports whether a
// row was deleted.
func (s *Store) DeleteBook(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting book %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SetCoverPath records a cover path for a book. The path must be relative to
// the data directory.
func (s *Store) SetCoverPath(ctx context.Context, id int64, path string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE books SET cover_path = ?, updated_at = ? WHERE id = ?`,
		path, time.Now().UTC().Format(time.RFC3339), id)
	return err
}

// SetCategory records the classification code for a book.
func (s *Store) SetCategory(ctx context.Context, id int64, code string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE books SET category = ?, updated_at = ? WHERE id = ?`,
		code, time.Now().UTC().Format(time.RFC3339), id)
	return err
}

// AddProvenance appends one provider contribution for a book.
func (s *Store) AddProvenance(ctx context.Context, e *types.ProvenanceEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO provenance (book_id, site, url, extracted, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.BookID, e.Site, nullIfEmpty(e.URL), nullIfEmpty(e.Extracted),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("adding provenance for book %d: %w", e.BookID, err)
	}
	return nil
}

// ListProvenance returns a book's provenance entries in insertion order.
func (s *Store) ListProvenance(ctx context.Context, bookID int64) ([]types.ProvenanceEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, book_id, site, url, extracted, created_at
		FROM provenance WHERE book_id = ? ORDER BY id`, bookID)
	if err != nil {
		return nil, fmt.Errorf("listing provenance: %w", err)
	}
	defer rows.Close()

	var out []types.ProvenanceEntry
	for rows.Next() {
		var (
			e         types.ProvenanceEntry
			url, ext  sql.NullString
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.BookID, &e.Site, &url, &ext, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning provenance: %w", err)
		}
		e.URL = url.String
		e.Extracted = ext.String
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row *sql.Row) (*types.Book, error) {
	return scanBookRows(row)
}

func scanBookRows(row rowScanner) (*types.Book, error) {
	var (
		b                    types.Book
		authors, publisher   sql.NullString
		isbn, edition        sql.NullString
		summary, bio, lang   sql.NullString
		cover, catalog, cat  sql.NullString
		pubYear, pages       sql.NullInt64
		createdAt, updatedAt string
	)
	err := row.Scan(&b.ID, &b.Title, &authors, &publisher, &pubYear, &isbn,
		&edition, &pages, &summary, &bio, &lang, &cover, &catalog, &cat,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	b.Authors = splitAuthors(authors.String)
	b.Publisher = publisher.String
	b.PubYear = int(pubYear.Int64)
	b.ISBN = isbn.String
	b.Edition = edition.String
	b.Pages = int(pages.Int64)
	b.Summary = summary.String
	b.AuthorBio = bio.String
	b.Language = lang.String
	b.CoverPath = cover.String
	b.CatalogNumber = catalog.String
	b.Category = cat.String
	b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	b.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &b, nil
}

func joinAuthors(authors []string) string {
	return strings.Join(authors, ",")
}

func splitAuthors(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullIfZero(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
