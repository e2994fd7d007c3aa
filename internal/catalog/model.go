// Package catalog holds the persisted domain model and the SQLite store
// behind the personal book catalog.
package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Person is a persisted author. Uniqueness is the full
// (name, birth year, death year) triple; a year of 0 means the API supplied
// no value. Books is the read-only inverse side of the book/author
// relationship, filled by store reads.
type Person struct {
	ID        int64
	Name      string
	BirthYear int
	DeathYear int
	Books     []string
}

// Book is a persisted book. Title is unique across the store. Authors is a
// many-to-many relationship to Person; Languages is a code set scoped to
// the book.
type Book struct {
	ID            int64
	Title         string
	Authors       []Person
	Languages     []string
	HTMLLink      string
	DownloadCount int
}

// IdentityKey returns the book's identity for dedup purposes: title, author
// triples and language codes only. Link, download count and generated IDs
// are excluded. Author and language sets are unordered, so both are sorted.
func (b Book) IdentityKey() string {
	authors := make([]string, len(b.Authors))
	for i, a := range b.Authors {
		authors[i] = fmt.Sprintf("%s|%d|%d", a.Name, a.BirthYear, a.DeathYear)
	}
	sort.Strings(authors)

	languages := append([]string(nil), b.Languages...)
	sort.Strings(languages)

	return b.Title + "\x1f" + strings.Join(authors, "\x1e") + "\x1f" + strings.Join(languages, "\x1e")
}

// AuthorNames returns the author names joined with "; ".
func (b Book) AuthorNames() string {
	names := make([]string, len(b.Authors))
	for i, a := range b.Authors {
		names[i] = a.Name
	}
	return strings.Join(names, "; ")
}

// String renders the listing block for a persisted book.
func (b Book) String() string {
	return fmt.Sprintf(`------------------BOOK------------------
 Title: %s
 Author: %s
 Language: %s
 HTML link: %s
 Downloads: %d
----------------------------------------
`, b.Title, b.AuthorNames(), strings.Join(b.Languages, "; "), b.HTMLLink, b.DownloadCount)
}

// String renders the listing block for a persisted author.
func (p Person) String() string {
	return fmt.Sprintf(`------------------AUTHOR----------------
 Name: %s
 Born: %d
 Died: %d
 Books: %s
----------------------------------------
`, p.Name, p.BirthYear, p.DeathYear, strings.Join(p.Books, "; "))
}
