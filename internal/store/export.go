// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// ExportEntry is one book with its provenance, shaped for export files.
type ExportEntry struct {
	ID            int64              `json:"id" yaml:"id"`
	Title         string             `json:"title" yaml:"title"`
	Authors       []string           `json:"authors" yaml:"authors"`
	Publisher     string             `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	PubYear       int                `json:"pub_year,omitempty" yaml:"pub_year,omitempty"`
	ISBN          string             `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	Edition       string             `json:"edition,omitempty" yaml:"edition,omitempty"`
	Pages         int                `json:"pages,omitempty" yaml:"pages,omitempty"`
	Summary       string             `json:"summary,omitempty" yaml:"summary,omitempty"`
	AuthorBio     string             `json:"author_bio,omitempty" yaml:"author_bio,omitempty"`
	Language      string             `json:"language,omitempty" yaml:"language,omitempty"`
	CoverPath     string             `json:"cover_path,omitempty" yaml:"cover_path,omitempty"`
	CatalogNumber string             `json:"catalog_number,omitempty" yaml:"catalog_number,omitempty"`
	Category      string             `json:"category,omitempty" yaml:"category,omitempty"`
	Sources       []ExportProvenance `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// ExportProvenance records which site contributed to a book.
type ExportProvenance struct {
	Site string `json:"site" yaml:"site"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

// ExportYAML writes the full catalog to path as YAML.
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the full catalog to path as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, path string) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	books, err := s.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(books))
	for i, b := range books {
		entries[i] = ExportEntry{
			ID:            b.ID,
			Title:         b.Title,
			Authors:       b.Authors,
			Publisher:     b.Publisher,
			PubYear:       b.PubYear,
			ISBN:          b.ISBN,
			Edition:       b.Edition,
			Pages:         b.Pages,
			Summary:       b.Summary,
			AuthorBio:     b.AuthorBio,
			Language:      b.Language,
			CoverPath:     b.CoverPath,
			CatalogNumber: b.CatalogNumber,
			Category:      b.Category,
		}
		prov, err := s.ListProvenance(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		for _, p := range prov {
			entries[i].Sources = append(entries[i].Sources,
				ExportProvenance{Site: p.Site, URL: p.URL})
		}
	}
	return entries, nil
}
