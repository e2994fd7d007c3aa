package catalog

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestBookIdentityKeyIgnoresVolatileFields(t *testing.T) {
	base := Book{
		ID:            1,
		Title:         "Divina Commedia",
		Authors:       []Person{{ID: 5, Name: "Dante Alighieri", BirthYear: 1265, DeathYear: 1321}},
		Languages:     []string{"it"},
		HTMLLink:      "https://example.org/a",
		DownloadCount: 100,
	}
	other := Book{
		ID:            99,
		Title:         "Divina Commedia",
		Authors:       []Person{{Name: "Dante Alighieri", BirthYear: 1265, DeathYear: 1321}},
		Languages:     []string{"it"},
		HTMLLink:      "https://example.org/b",
		DownloadCount: 9999,
	}

	assert.Equal(t, base.IdentityKey(), other.IdentityKey())
}

func TestBookIdentityKeyIsOrderInsensitive(t *testing.T) {
	a := Book{
		Title: "Anthology",
		Authors: []Person{
			{Name: "First, Author", BirthYear: 1800, DeathYear: 1870},
			{Name: "Second, Author", BirthYear: 1810, DeathYear: 1880},
		},
		Languages: []string{"en", "fr"},
	}
	b := Book{
		Title: "Anthology",
		Authors: []Person{
			{Name: "Second, Author", BirthYear: 1810, DeathYear: 1880},
			{Name: "First, Author", BirthYear: 1800, DeathYear: 1870},
		},
		Languages: []string{"fr", "en"},
	}

	assert.Equal(t, a.IdentityKey(), b.IdentityKey())
}

func TestBookString(t *testing.T) {
	book := Book{
		Title:         "Divina Commedia",
		Authors:       []Person{{Name: "Dante Alighieri"}},
		Languages:     []string{"it"},
		HTMLLink:      "https://example.org/commedia",
		DownloadCount: 1234,
	}

	out := book.String()
	assert.True(t, strings.Contains(out, "Title: Divina Commedia"))
	assert.True(t, strings.Contains(out, "Author: Dante Alighieri"))
	assert.True(t, strings.Contains(out, "Language: it"))
	assert.True(t, strings.Contains(out, "Downloads: 1234"))
}

func TestPersonString(t *testing.T) {
	person := Person{
		Name:      "Dante Alighieri",
		BirthYear: 1265,
		DeathYear: 1321,
		Books:     []string{"Divina Commedia", "La Vita Nuova"},
	}

	out := person.String()
	assert.True(t, strings.Contains(out, "Name: Dante Alighieri"))
	assert.True(t, strings.Contains(out, "Born: 1265"))
	assert.True(t, strings.Contains(out, "Died: 1321"))
	assert.True(t, strings.Contains(out, "Books: Divina Commedia; La Vita Nuova"))
}
