package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/draftpost/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/draftpost/internal/core/domain"
	"github.com/custodia-labs/draftpost/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.draftpost/data/drafts.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".draftpost", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "drafts.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SiteStore returns a SiteStore interface backed by this store.
func (s *Store) SiteStore() driven.SiteStore {
	return &siteStore{store: s}
}

// DraftStore returns a DraftStore interface backed by this store.
func (s *Store) DraftStore() driven.DraftStore {
	return &draftStore{store: s}
}

// SchedulerStore returns a SchedulerStore interface backed by this store.
func (s *Store) SchedulerStore() driven.SchedulerStore {
	return &schedulerStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Site Store ====================

// siteStore implements driven.SiteStore.
type siteStore struct {
	store *Store
}

var _ driven.SiteStore = (*siteStore)(nil)

// Save stores or updates a site. A site without an ID is given one.
func (s *siteStore) Save(ctx context.Context, site domain.Site) error {
	if site.ID == "" {
		site.ID = uuid.New().String()
	}
	if site.CreatedAt.IsZero() {
		site.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sites (id, name, url, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			url = excluded.url
	`, site.ID, site.Name, nullString(site.URL), site.CreatedAt.UnixNano())

	if err != nil {
		return fmt.Errorf("saving site: %w", err)
	}
	return nil
}

// Get retrieves a site by ID.
func (s *siteStore) Get(ctx context.Context, id string) (*domain.Site, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, url, created_at FROM sites WHERE id = ?
	`, id)

	site, err := scanSite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return site, nil
}

// Delete removes a site and, through the foreign key, its documents.
func (s *siteStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sites WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting site: %w", err)
	}
	return nil
}

// List returns all sites, oldest first.
func (s *siteStore) List(ctx context.Context) ([]domain.Site, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, url, created_at FROM sites ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sites: %w", err)
	}
	defer rows.Close()

	var sites []domain.Site //nolint:prealloc // size unknown from query
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, *site)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sites: %w", err)
	}

	return sites, nil
}

// ==================== Draft Store ====================

// draftStore implements driven.DraftStore.
type draftStore struct {
	store *Store
}

var _ driven.DraftStore = (*draftStore)(nil)

const documentColumns = `id, site_id, remote_id, title, content, status, local_changes, modified_at, revision`

// SaveDocument stores or updates a document. A document without an ID is
// given one; the ID and the new revision are written back to doc.
func (s *draftStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.SiteID == "" {
		return domain.ErrInvalidInput
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.ModifiedAt.IsZero() {
		doc.ModifiedAt = time.Now().UTC()
	}
	if doc.Status == "" {
		doc.Status = domain.StatusDraft
	}

	err := s.store.db.QueryRowContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(id) DO UPDATE SET
			site_id = excluded.site_id,
			remote_id = excluded.remote_id,
			title = excluded.title,
			content = excluded.content,
			status = excluded.status,
			local_changes = excluded.local_changes,
			modified_at = excluded.modified_at,
			revision = documents.revision + 1
		RETURNING revision
	`, doc.ID, doc.SiteID, nullString(doc.RemoteID), doc.Title, doc.Content,
		string(doc.Status), boolToInt(doc.LocalChanges), doc.ModifiedAt.UnixNano()).Scan(&doc.Revision)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *draftStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteDocument removes a document.
func (s *draftStore) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// ListDocuments returns the documents of a site, oldest edit first.
func (s *draftStore) ListDocuments(ctx context.Context, siteID string) ([]domain.Document, error) {
	return s.query(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE site_id = ?
		ORDER BY modified_at, id
	`, siteID)
}

// LocalDrafts returns the site's documents with unsynced edits, oldest edit first.
func (s *draftStore) LocalDrafts(ctx context.Context, site domain.Site) ([]domain.Document, error) {
	return s.query(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE site_id = ? AND local_changes = 1
		ORDER BY modified_at, id
	`, site.ID)
}

// MarkSynced records the remote ID and clears the local-changes flag unless
// the document was saved again after revision. An empty remoteID leaves the
// stored one untouched.
func (s *draftStore) MarkSynced(ctx context.Context, id, remoteID string, revision int64) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE documents
		SET local_changes = CASE WHEN ? = 0 OR revision = ? THEN 0 ELSE local_changes END,
			remote_id = COALESCE(?, remote_id)
		WHERE id = ?
	`, revision, revision, nullString(remoteID), id)
	if err != nil {
		return fmt.Errorf("marking document synced: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking document synced: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *draftStore) query(ctx context.Context, query string, args ...any) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// ==================== Helper Functions ====================

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanSite scans a site. sql.ErrNoRows is returned unwrapped.
func scanSite(row scanner) (*domain.Site, error) {
	var site domain.Site
	var url sql.NullString
	var createdAt int64

	if err := row.Scan(&site.ID, &site.Name, &url, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning site: %w", err)
	}

	site.URL = url.String
	site.CreatedAt = time.Unix(0, createdAt).UTC()
	return &site, nil
}

// scanDocument scans a document. sql.ErrNoRows is returned unwrapped.
func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	var remoteID sql.NullString
	var status string
	var localChanges int
	var modifiedAt int64

	if err := row.Scan(&doc.ID, &doc.SiteID, &remoteID, &doc.Title, &doc.Content,
		&status, &localChanges, &modifiedAt, &doc.Revision); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.RemoteID = remoteID.String
	doc.Status = domain.DocumentStatus(status)
	doc.LocalChanges = localChanges == 1
	doc.ModifiedAt = time.Unix(0, modifiedAt).UTC()
	return &doc, nil
}
