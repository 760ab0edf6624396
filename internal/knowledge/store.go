// Package knowledge provides SQLite-backed storage for per-technology
// best practices and tooling notes used to enrich generated prompts.
package knowledge

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// NoteKind distinguishes the two classes of stored notes.
type NoteKind string

const (
	// KindBestPractice marks a recommendation for using a technology.
	KindBestPractice NoteKind = "best_practice"
	// KindTool marks a tool or library suggestion for a technology.
	KindTool NoteKind = "tool"
)

// Note is a single piece of knowledge about a technology.
type Note struct {
	ID         string
	Technology string
	Kind       NoteKind
	Text       string
	CreatedAt  time.Time
}

// Store provides SQLite-backed storage for technology notes.
// It satisfies the generator's knowledge source interface.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// GlobalDBPath returns the path to the global promptforge knowledge database.
func GlobalDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "promptforge", "knowledge.db")
}

// NewStore opens the knowledge database at the given path, creating the
// schema and parent directories if they don't exist. A fresh database is
// seeded with built-in notes.
func NewStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for concurrent reads
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	store := &Store{
		db:     conn,
		dbPath: dbPath,
	}

	if err := store.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	if err := store.seedIfEmpty(); err != nil {
		conn.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS technology_notes (
			id TEXT PRIMARY KEY,
			technology TEXT NOT NULL,
			kind TEXT NOT NULL,
			note TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			UNIQUE (technology, kind, note)
		);
		CREATE INDEX IF NOT EXISTS idx_notes_tech_kind ON technology_notes(technology, kind);
	`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// seedIfEmpty populates a freshly created database with built-in notes.
func (s *Store) seedIfEmpty() error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM technology_notes").Scan(&count); err != nil {
		return fmt.Errorf("count notes: %w", err)
	}
	if count > 0 {
		return nil
	}

	for tech, notes := range seedNotes {
		for _, text := range notes.practices {
			if err := s.Add(tech, KindBestPractice, text); err != nil {
				return err
			}
		}
		for _, text := range notes.tools {
			if err := s.Add(tech, KindTool, text); err != nil {
				return err
			}
		}
	}
	return nil
}

// Add stores a note for a technology. Duplicate notes are ignored.
func (s *Store) Add(technology string, kind NoteKind, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO technology_notes (id, technology, kind, note, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.New().String(), technology, string(kind), text, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// BestPractices returns the best practice notes for a technology.
// Technologies with no stored notes yield an empty slice, not an error.
func (s *Store) BestPractices(technology string) ([]string, error) {
	return s.notesByKind(technology, KindBestPractice)
}

// Tools returns the tooling notes for a technology.
func (s *Store) Tools(technology string) ([]string, error) {
	return s.notesByKind(technology, KindTool)
}

func (s *Store) notesByKind(technology string, kind NoteKind) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT note FROM technology_notes
		WHERE technology = ? AND kind = ?
		ORDER BY created_at, note
	`, technology, string(kind))
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, text)
	}
	return notes, rows.Err()
}

// Technologies lists every technology with at least one stored note.
func (s *Store) Technologies() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT DISTINCT technology FROM technology_notes ORDER BY technology")
	if err != nil {
		return nil, fmt.Errorf("query technologies: %w", err)
	}
	defer rows.Close()

	var techs []string
	for rows.Next() {
		var tech string
		if err := rows.Scan(&tech); err != nil {
			return nil, fmt.Errorf("scan technology: %w", err)
		}
		techs = append(techs, tech)
	}
	return techs, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Path returns the path to the database file.
func (s *Store) Path() string {
	return s.dbPath
}
