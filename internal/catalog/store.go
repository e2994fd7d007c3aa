package catalog

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// Schema creates the catalog tables if they don't exist. Title uniqueness
// and the (name, birth_year, death_year) author triple are enforced here,
// matching the dedup logic in Save.
const Schema = `
CREATE TABLE IF NOT EXISTS books (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL UNIQUE,
	html_link TEXT,
	download_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS persons (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	birth_year INTEGER NOT NULL DEFAULT 0,
	death_year INTEGER NOT NULL DEFAULT 0,
	UNIQUE(name, birth_year, death_year)
);

CREATE TABLE IF NOT EXISTS book_author (
	book_id INTEGER NOT NULL REFERENCES books(id),
	person_id INTEGER NOT NULL REFERENCES persons(id),
	PRIMARY KEY (book_id, person_id)
);

CREATE TABLE IF NOT EXISTS book_language (
	book_id INTEGER NOT NULL REFERENCES books(id),
	language_code TEXT NOT NULL,
	PRIMARY KEY (book_id, language_code)
);
`

// Store is the SQLite-backed catalog. It owns dedup and upsert logic for
// saves and exposes the read queries used by the listing commands.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens (or creates) the catalog database at dbPath and ensures the
// schema exists.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to connect to database: %w", err), closeErr)
	}

	if _, err := db.Exec(Schema); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to create schema: %w", err), closeErr)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save persists a book inside a single transaction:
//
//  1. If an existing book compares equal under Book identity (title,
//     authors, languages), the call is a silent no-op.
//  2. Each candidate author is resolved against persons by exact
//     (name, birth_year, death_year).
//  3. The saved author set is the resolved subset only. Authors with no
//     existing match are dropped, not inserted as new rows.
//  4. The (possibly author-reduced) book is inserted with its languages
//     and author links.
//
// Step 3 mirrors the long-standing behavior of the catalog and can leave a
// book with an empty author set. See DESIGN.md before changing it.
func (s *Store) Save(book Book) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// Rollback is a no-op after a successful commit
		_ = tx.Rollback()
	}()

	existing, err := loadBooks(tx, "SELECT id, title, html_link, download_count FROM books ORDER BY id")
	if err != nil {
		return err
	}
	candidateKey := book.IdentityKey()
	for _, b := range existing {
		if b.IdentityKey() == candidateKey {
			return nil
		}
	}

	resolved := make([]Person, 0, len(book.Authors))
	for _, author := range book.Authors {
		var id int64
		err := tx.QueryRow(
			"SELECT id FROM persons WHERE name = ? AND birth_year = ? AND death_year = ?",
			author.Name, author.BirthYear, author.DeathYear,
		).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to look up author: %w", err)
		}
		author.ID = id
		resolved = append(resolved, author)
	}
	book.Authors = resolved

	result, err := tx.Exec(
		"INSERT INTO books (title, html_link, download_count) VALUES (?, ?, ?)",
		book.Title, book.HTMLLink, book.DownloadCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}
	bookID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get book id: %w", err)
	}

	for _, code := range book.Languages {
		if _, err := tx.Exec(
			"INSERT INTO book_language (book_id, language_code) VALUES (?, ?)",
			bookID, code,
		); err != nil {
			return fmt.Errorf("failed to insert language: %w", err)
		}
	}

	for _, author := range book.Authors {
		if _, err := tx.Exec(
			"INSERT INTO book_author (book_id, person_id) VALUES (?, ?)",
			bookID, author.ID,
		); err != nil {
			return fmt.Errorf("failed to link author: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit save: %w", err)
	}

	return nil
}

// AddPerson inserts an author row directly. The ingestion flow never calls
// this; it exists so a catalog can be seeded with known authors for Save to
// resolve against.
func (s *Store) AddPerson(person Person) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO persons (name, birth_year, death_year) VALUES (?, ?, ?)",
		person.Name, person.BirthYear, person.DeathYear,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert person: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get person id: %w", err)
	}
	return id, nil
}

// AllBooks returns every persisted book with its authors and languages.
func (s *Store) AllBooks() ([]Book, error) {
	return loadBooks(s.db, "SELECT id, title, html_link, download_count FROM books ORDER BY id")
}

// BooksByLanguage returns books whose language set contains code exactly.
// The code must be exactly two characters; anything else is rejected before
// the store is queried.
func (s *Store) BooksByLanguage(code string) ([]Book, error) {
	if len(code) != 2 {
		return nil, fmt.Errorf("language code must be exactly two characters, got %q", code)
	}
	return loadBooks(s.db, `
		SELECT b.id, b.title, b.html_link, b.download_count
		FROM books b
		JOIN book_language bl ON bl.book_id = b.id
		WHERE bl.language_code = ?
		ORDER BY b.id`, code)
}

// AllPersons returns every persisted author with their book titles.
func (s *Store) AllPersons() ([]Person, error) {
	return s.loadPersons("SELECT id, name, birth_year, death_year FROM persons ORDER BY id")
}

// PersonsAliveInYear returns authors where birth_year <= year <= death_year,
// inclusive at both ends. Authors with an unknown (0) death year are never
// reported alive in a positive year; this is a documented limitation of the
// 0-as-unknown convention.
func (s *Store) PersonsAliveInYear(year int) ([]Person, error) {
	return s.loadPersons(
		"SELECT id, name, birth_year, death_year FROM persons WHERE birth_year <= ? AND death_year >= ? ORDER BY id",
		year, year)
}

// queryer lets the loaders run against either the pool or a transaction.
type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func loadBooks(q queryer, query string, args ...any) ([]Book, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var books []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.HTMLLink, &b.DownloadCount); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read books: %w", err)
	}

	for i := range books {
		if books[i].Languages, err = loadLanguages(q, books[i].ID); err != nil {
			return nil, err
		}
		if books[i].Authors, err = loadAuthors(q, books[i].ID); err != nil {
			return nil, err
		}
	}

	return books, nil
}

func loadLanguages(q queryer, bookID int64) ([]string, error) {
	rows, err := q.Query(
		"SELECT language_code FROM book_language WHERE book_id = ? ORDER BY language_code", bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to query languages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan language: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func loadAuthors(q queryer, bookID int64) ([]Person, error) {
	rows, err := q.Query(`
		SELECT p.id, p.name, p.birth_year, p.death_year
		FROM persons p
		JOIN book_author ba ON ba.person_id = p.id
		WHERE ba.book_id = ?
		ORDER BY p.id`, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var authors []Person
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.ID, &p.Name, &p.BirthYear, &p.DeathYear); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, p)
	}
	return authors, rows.Err()
}

func (s *Store) loadPersons(query string, args ...any) ([]Person, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query persons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var persons []Person
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.ID, &p.Name, &p.BirthYear, &p.DeathYear); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read persons: %w", err)
	}

	for i := range persons {
		if persons[i].Books, err = s.loadBookTitles(persons[i].ID); err != nil {
			return nil, err
		}
	}

	return persons, nil
}

func (s *Store) loadBookTitles(personID int64) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT b.title
		FROM books b
		JOIN book_author ba ON ba.book_id = b.id
		WHERE ba.person_id = ?
		ORDER BY b.id`, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to query book titles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("failed to scan title: %w", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}
