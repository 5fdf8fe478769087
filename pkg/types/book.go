// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Book is the canonical persisted record for one title, reconciled from one
// or more external sources. A book with an ISBN is unique by normalized ISBN;
// books without an ISBN are never merged by title similarity, so two editions
// that share a title stay distinct rows.
type Book struct {
	// ID is the internal store identifier.
	ID int64 `json:"id" yaml:"id"`

	// Title is the canonical title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the authors in first-seen order, role suffixes stripped.
	Authors []string `json:"authors" yaml:"authors"`

	// Publisher is the publisher name, empty when no source supplied one.
	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`

	// PubYear is the publication year, zero when unknown.
	PubYear int `json:"pub_year,omitempty" yaml:"pub_year,omitempty"`

	// ISBN is the normalized ISBN-10/13 business key. Empty means the book
	// was ingested without one and is keyed by ID only.
	ISBN string `json:"isbn,omitempty" yaml:"isbn,omitempty"`

	// Edition is the edition statement as reported by a source.
	Edition string `json:"edition,omitempty" yaml:"edition,omitempty"`

	// Pages is the page count, zero when unknown.
	Pages int `json:"pages,omitempty" yaml:"pages,omitempty"`

	// Summary is the book description.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// AuthorBio is the author biography text.
	AuthorBio string `json:"author_bio,omitempty" yaml:"author_bio,omitempty"`

	// Language is the text language (e.g. "zh", "en").
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	// CoverPath is the cover image path relative to the data directory
	// (e.g. "covers/ab12cd.jpg"). Never absolute, so the data directory
	// can move without breaking records.
	CoverPath string `json:"cover_path,omitempty" yaml:"cover_path,omitempty"`

	// CatalogNumber is the authoritative classification number when a
	// source supplied one (e.g. "TP391.1").
	CatalogNumber string `json:"catalog_number,omitempty" yaml:"catalog_number,omitempty"`

	// Category is the assigned subject-classification code. Filled by the
	// classifier on first resolution when no source supplied one.
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// ProvenanceEntry records one successful provider contribution to a book.
// Entries are append-only and deleted only by cascade when the book is deleted.
type ProvenanceEntry struct {
	ID     int64 `json:"id" yaml:"id"`
	BookID int64 `json:"book_id" yaml:"book_id"`

	// Site identifies the contributing provider (e.g. "openlibrary").
	Site string `json:"site" yaml:"site"`

	// URL is the source detail page or API URL.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Extracted is the raw detail record the provider returned, serialized
	// as JSON at ingest time.
	Extracted string `json:"extracted,omitempty" yaml:"extracted,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
