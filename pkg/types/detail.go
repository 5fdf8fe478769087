// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SearchCandidate is a lightweight hit returned by a provider's search
// operation. It exists only to locate a DetailRecord: either URL points at a
// detail page the provider can resolve, or ISBN allows a direct lookup.
type SearchCandidate struct {
	Title   string   `json:"title" yaml:"title"`
	Authors []string `json:"authors" yaml:"authors"`
	URL     string   `json:"url,omitempty" yaml:"url,omitempty"`
	ISBN    string   `json:"isbn,omitempty" yaml:"isbn,omitempty"`
}

// DetailRecord is the full structured view of one book as reported by one
// external source. Sources are incomplete and inconsistent: every field
// except Title, Authors, and Site may be empty, and an empty field means the
// source did not report a value, never an intentional blank.
type DetailRecord struct {
	Title   string   `json:"title" yaml:"title"`
	Authors []string `json:"authors" yaml:"authors"`

	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	PubYear   int    `json:"pub_year,omitempty" yaml:"pub_year,omitempty"`
	ISBN      string `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	Edition   string `json:"edition,omitempty" yaml:"edition,omitempty"`
	Pages     int    `json:"pages,omitempty" yaml:"pages,omitempty"`

	Summary   string `json:"summary,omitempty" yaml:"summary,omitempty"`
	AuthorBio string `json:"author_bio,omitempty" yaml:"author_bio,omitempty"`
	Language  string `json:"language,omitempty" yaml:"language,omitempty"`

	// CoverURL is the source's cover image URL, fetched separately by the
	// cover store.
	CoverURL string `json:"cover_url,omitempty" yaml:"cover_url,omitempty"`

	// CatalogNumber is the classification number printed in the source
	// record (e.g. a CIP "TP391.1"), when available.
	CatalogNumber string `json:"catalog_number,omitempty" yaml:"catalog_number,omitempty"`

	// Site identifies the provider that produced this record.
	Site string `json:"site" yaml:"site"`

	// SourceURL is the page or API URL this record was extracted from.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`
}
