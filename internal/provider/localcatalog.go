// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bookdex/internal/textutil"
	"github.com/pdiddy/bookdex/pkg/types"
)

// catalogEntry is one record in the offline catalog file.
type catalogEntry struct {
	Title         string   `yaml:"title"`
	Authors       []string `yaml:"authors"`
	Publisher     string   `yaml:"publisher,omitempty"`
	PubYear       int      `yaml:"pub_year,omitempty"`
	ISBN          string   `yaml:"isbn,omitempty"`
	Edition       string   `yaml:"edition,omitempty"`
	Pages         int      `yaml:"pages,omitempty"`
	Summary       string   `yaml:"summary,omitempty"`
	AuthorBio     string   `yaml:"author_bio,omitempty"`
	Language      string   `yaml:"language,omitempty"`
	CoverURL      string   `yaml:"cover_url,omitempty"`
	CatalogNumber string   `yaml:"catalog_number,omitempty"`
}

// LocalCatalog serves an offline YAML catalog file. It is meant to sit first
// in the provider order for air-gapped deployments and tests. Lookup is by
// exact normalized title first, then by substring containment either way.
type LocalCatalog struct {
	Path string
}

// NewLocalCatalog builds a provider over the catalog file at path. A missing
// or unreadable file is an expected state: every lookup simply misses.
func NewLocalCatalog(path string) *LocalCatalog {
	return &LocalCatalog{Path: path}
}

// Site returns the provenance identifier.
func (p *LocalCatalog) Site() string { return "localcatalog" }

// Search returns at most one candidate: the best title match in the catalog.
func (p *LocalCatalog) Search(_ context.Context, query string) ([]types.SearchCandidate, error) {
	entries, err := p.load()
	if err != nil || len(entries) == 0 {
		return nil, err
	}

	hit := bestMatch(entries, query)
	if hit == nil {
		return nil, nil
	}

	key := hit.ISBN
	if key == "" {
		key = hit.Title
	}
	return []types.SearchCandidate{{
		Title:   hit.Title,
		Authors: hit.Authors,
		URL:     "local://" + key,
		ISBN:    hit.ISBN,
	}}, nil
}

// GetByISBN matches on normalized ISBN.
func (p *LocalCatalog) GetByISBN(_ context.Context, isbn string) (*types.DetailRecord, error) {
	entries, err := p.load()
	if err != nil {
		return nil, err
	}
	want := textutil.NormalizeISBN(isbn)
	for i := range entries {
		if entries[i].ISBN != "" && textutil.NormalizeISBN(entries[i].ISBN) == want {
			return p.toDetail(&entries[i]), nil
		}
	}
	return nil, nil
}

// GetDetail resolves the local:// key produced by Search.
func (p *LocalCatalog) GetDetail(_ context.Context, url string) (*types.DetailRecord, error) {
	key := strings.TrimPrefix(url, "local://")
	entries, err := p.load()
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].ISBN == key || entries[i].Title == key {
			return p.toDetail(&entries[i]), nil
		}
	}
	return nil, nil
}

func (p *LocalCatalog) load() ([]catalogEntry, error) {
	if p.Path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(p.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading catalog %s: %w", p.Path, err)
	}

	var entries []catalogEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", p.Path, err)
	}
	return entries, nil
}

// bestMatch finds an exact normalized-title hit, then falls back to
// substring containment in either direction.
func bestMatch(entries []catalogEntry, query string) *catalogEntry {
	qn := normalizeKey(query)
	if qn == "" {
		return nil
	}

	for i := range entries {
		if normalizeKey(entries[i].Title) == qn {
			return &entries[i]
		}
	}
	for i := range entries {
		tn := normalizeKey(entries[i].Title)
		if tn == "" {
			continue
		}
		if strings.Contains(tn, qn) || strings.Contains(qn, tn) {
			return &entries[i]
		}
	}
	return nil
}

func normalizeKey(s string) string {
	return strings.ToLower(textutil.Clean(s))
}

func (p *LocalCatalog) toDetail(e *catalogEntry) *types.DetailRecord {
	key := e.ISBN
	if key == "" {
		key = e.Title
	}
	return &types.DetailRecord{
		Title:         e.Title,
		Authors:       e.Authors,
		Publisher:     e.Publisher,
		PubYear:       e.PubYear,
		ISBN:          e.ISBN,
		Edition:       e.Edition,
		Pages:         e.Pages,
		Summary:       e.Summary,
		AuthorBio:     e.AuthorBio,
		Language:      e.Language,
		CoverURL:      e.CoverURL,
		CatalogNumber: e.CatalogNumber,
		Site:          p.Site(),
		SourceURL:     "local://" + key,
	}
}
