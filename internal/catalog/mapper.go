package catalog

import "github.com/lepinkainen/literalura/internal/gutendex"

// Conversion between wire-level records and persisted entities is
// field-for-field and never mutates the source. Validation and dedup happen
// in the store, not here.

// ToEntity converts a decoded book record into an unsaved Book.
func ToEntity(record gutendex.BookRecord) Book {
	authors := make([]Person, len(record.Authors))
	for i, a := range record.Authors {
		authors[i] = PersonToEntity(a)
	}
	return Book{
		Title:         record.Title,
		Authors:       authors,
		Languages:     append([]string(nil), record.Languages...),
		HTMLLink:      string(record.HTMLLink),
		DownloadCount: record.DownloadCount,
	}
}

// ToRecord converts a persisted Book back into a wire-level record.
func ToRecord(book Book) gutendex.BookRecord {
	authors := make([]gutendex.PersonRecord, len(book.Authors))
	for i, a := range book.Authors {
		authors[i] = PersonToRecord(a)
	}
	return gutendex.BookRecord{
		Title:         book.Title,
		Authors:       authors,
		Languages:     append([]string(nil), book.Languages...),
		HTMLLink:      gutendex.HTMLLink(book.HTMLLink),
		DownloadCount: book.DownloadCount,
	}
}

// PersonToEntity converts a decoded author record into an unsaved Person.
func PersonToEntity(record gutendex.PersonRecord) Person {
	return Person{
		Name:      record.Name,
		BirthYear: record.BirthYear,
		DeathYear: record.DeathYear,
	}
}

// PersonToRecord converts a persisted Person back into a wire-level record.
func PersonToRecord(person Person) gutendex.PersonRecord {
	return gutendex.PersonRecord{
		Name:      person.Name,
		BirthYear: person.BirthYear,
		DeathYear: person.DeathYear,
	}
}
