// Package gutendex talks to the Gutendex book catalog API and decodes its
// responses into wire-level records.
package gutendex

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// FallbackLink is stored when a book publishes no "text/html" format.
// A missing link never blocks a save.
const FallbackLink = "hola"

// HTMLLink is the single link extracted from the Gutendex formats map.
// The map is keyed by MIME type; only the "text/html" entry is kept.
type HTMLLink string

// UnmarshalJSON decodes the full formats object and keeps the "text/html"
// value, falling back to FallbackLink when that key is absent.
func (l *HTMLLink) UnmarshalJSON(data []byte) error {
	var formats map[string]string
	if err := json.Unmarshal(data, &formats); err != nil {
		return fmt.Errorf("formats is not a string map: %w", err)
	}

	if link, ok := formats["text/html"]; ok {
		*l = HTMLLink(link)
		return nil
	}
	*l = FallbackLink
	return nil
}

// PersonRecord is a wire-level author. Gutendex reports unknown years as
// null, which decodes to 0; treat 0 as "no value supplied", not year zero.
type PersonRecord struct {
	Name      string `json:"name"`
	BirthYear int    `json:"birth_year"`
	DeathYear int    `json:"death_year"`
}

// BookRecord is a wire-level book decoded from one element of the Gutendex
// results array. Unknown JSON fields are ignored.
type BookRecord struct {
	Title         string         `json:"title"`
	Authors       []PersonRecord `json:"authors"`
	Languages     []string       `json:"languages"`
	HTMLLink      HTMLLink       `json:"formats"`
	DownloadCount int            `json:"download_count"`
}

// Key returns the record's identity: title, authors and languages only.
// Link and download count are excluded so that two fetches of the same book
// compare equal even when the remote download count moved in between.
// Authors and languages are unordered sets, so both are sorted first.
func (b BookRecord) Key() string {
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
// A single author renders with no separator at all.
func (b BookRecord) AuthorNames() string {
	names := make([]string, len(b.Authors))
	for i, a := range b.Authors {
		names[i] = a.Name
	}
	return strings.Join(names, "; ")
}

// LanguageCodes returns the language codes joined with "; ".
func (b BookRecord) LanguageCodes() string {
	return strings.Join(b.Languages, "; ")
}

// String renders the detail block shown after a book is selected or listed.
func (b BookRecord) String() string {
	return fmt.Sprintf(`------------------BOOK------------------
 Title: %s
 Author: %s
 Language: %s
 HTML link: %s
 Downloads: %d
----------------------------------------
`, b.Title, b.AuthorNames(), b.LanguageCodes(), string(b.HTMLLink), b.DownloadCount)
}
