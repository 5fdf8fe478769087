// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider defines the source-provider contract and the concrete
// providers that resolve book queries against external catalogs. Capability
// is static: every provider implements all three operations and returns
// empty/nil for the ones it does not support. Transport and parse failures
// come back as error values the pipeline logs and treats as "no result";
// only registry misconfiguration is fatal, and only at startup.
package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/bookdex/pkg/types"
)

// Provider resolves book queries against one external source.
type Provider interface {
	// Site returns the provider's stable identifier, used in provenance.
	Site() string

	// Search returns lightweight candidates for a free-text query. A nil
	// slice means no match or unsupported capability.
	Search(ctx context.Context, query string) ([]types.SearchCandidate, error)

	// GetByISBN looks a book up directly by ISBN. Nil means miss or
	// unsupported capability.
	GetByISBN(ctx context.Context, isbn string) (*types.DetailRecord, error)

	// GetDetail resolves a search candidate's URL into a full record. Nil
	// means parse failure or unsupported capability.
	GetDetail(ctx context.Context, url string) (*types.DetailRecord, error)
}

// Registry builds the enabled providers in configured priority order. An
// unknown provider name is a configuration error and fails startup; this is
// the one place in the resolution path where an error is fatal.
func Registry(cfg types.ProviderConfig) ([]Provider, error) {
	client := &http.Client{Timeout: cfg.Timeout}

	var out []Provider
	for _, name := range cfg.Order {
		switch name {
		case "localcatalog":
			out = append(out, NewLocalCatalog(cfg.CatalogPath))
		case "openlibrary":
			out = append(out, &OpenLibrary{Client: client, UserAgent: cfg.UserAgent, MaxResults: cfg.MaxResults})
		case "googlebooks":
			out = append(out, &GoogleBooks{Client: client, UserAgent: cfg.UserAgent, APIKey: cfg.GoogleBooksAPIKey, MaxResults: cfg.MaxResults})
		default:
			return nil, fmt.Errorf("unknown provider %q in provider order", name)
		}
	}
	return out, nil
}
