package caravansite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = sql.ErrNoRows

// Store is a document store backed by a single SQLite database. Documents
// are independent JSON bodies grouped into named collections; there is no
// foreign-key enforcement and no transaction spans more than one document.
type Store struct {
	db *sql.DB
}

// Document is a raw document as returned by the store. Data holds the
// JSON body with arbitrary fields; CreatedAt and UpdatedAt are the
// store's native timestamps for the row itself.
type Document struct {
	ID        string
	Data      map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Collection is a handle to a named bucket of documents.
type Collection struct {
	store *Store
	name  string
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent read/write access, set a busy timeout
	// so writers wait instead of returning SQLITE_BUSY immediately.
	// synchronous=NORMAL is safe with WAL and avoids an fsync per transaction.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    id TEXT NOT NULL,
    body TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection);
`)
	return err
}

// Collection returns a handle to the named collection. Collections need no
// declaration; an empty collection simply has no rows.
func (s *Store) Collection(name string) *Collection {
	return &Collection{store: s, name: name}
}

// Add writes doc as a new document with a generated ID and returns the ID.
func (s *Store) Add(ctx context.Context, collection string, doc map[string]any) (string, error) {
	return s.Collection(collection).Add(ctx, doc)
}

// Add writes doc as a new document and returns its generated ID.
func (c *Collection) Add(ctx context.Context, doc map[string]any) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("caravansite: encode document: %w", err)
	}
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = c.store.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		c.name, id, string(body), now, now)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Get returns a single document by ID. Returns ErrNotFound if absent.
func (c *Collection) Get(ctx context.Context, id string) (Document, error) {
	row := c.store.db.QueryRowContext(ctx,
		`SELECT body, created_at, updated_at FROM documents WHERE collection = ? AND id = ?`,
		c.name, id)
	return scanDocument(row, id)
}

// All returns every document in the collection in insertion order.
func (c *Collection) All(ctx context.Context) ([]Document, error) {
	rows, err := c.store.db.QueryContext(ctx,
		`SELECT id, body, created_at, updated_at FROM documents WHERE collection = ? ORDER BY created_at`,
		c.name)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}

var fieldNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// AllOrderBy returns every document ordered by a top-level JSON field.
// The field name must be a plain identifier; anything else is rejected.
func (c *Collection) AllOrderBy(ctx context.Context, field string, ascending bool) ([]Document, error) {
	if !fieldNamePattern.MatchString(field) {
		return nil, fmt.Errorf("caravansite: invalid order-by field %q", field)
	}
	dir := "ASC"
	if !ascending {
		dir = "DESC"
	}
	query := fmt.Sprintf(
		`SELECT id, body, created_at, updated_at FROM documents WHERE collection = ? ORDER BY json_extract(body, '$.%s') %s`,
		field, dir)
	rows, err := c.store.db.QueryContext(ctx, query, c.name)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}

// Set replaces the document's body entirely. There are no partial patch
// semantics: callers send the full record. Returns ErrNotFound if absent.
func (c *Collection) Set(ctx context.Context, id string, doc map[string]any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("caravansite: encode document: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := c.store.db.ExecContext(ctx,
		`UPDATE documents SET body = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		string(body), now, c.name, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document by ID. Deleting a missing document is not an error.
func (c *Collection) Delete(ctx context.Context, id string) error {
	_, err := c.store.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, c.name, id)
	return err
}

func scanDocument(row *sql.Row, id string) (Document, error) {
	var body, createdAt, updatedAt string
	if err := row.Scan(&body, &createdAt, &updatedAt); err != nil {
		return Document{}, err
	}
	return buildDocument(id, body, createdAt, updatedAt)
}

func collectDocuments(rows *sql.Rows) ([]Document, error) {
	defer rows.Close()
	var docs []Document
	for rows.Next() {
		var id, body, createdAt, updatedAt string
		if err := rows.Scan(&id, &body, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		doc, err := buildDocument(id, body, createdAt, updatedAt)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func buildDocument(id, body, createdAt, updatedAt string) (Document, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return Document{}, fmt.Errorf("caravansite: decode document %s: %w", id, err)
	}
	doc := Document{ID: id, Data: data}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		doc.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		doc.UpdatedAt = t
	}
	return doc, nil
}
