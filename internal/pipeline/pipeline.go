// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline ties the splitter, providers, store, covers and
// classifier together into a single resolution unit of work. One call to
// Resolve tries each provider in priority order until a detail record is
// accepted, then reconciles it into the canonical table.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/bookdex/internal/classify"
	"github.com/pdiddy/bookdex/internal/covers"
	"github.com/pdiddy/bookdex/internal/provider"
	"github.com/pdiddy/bookdex/internal/splitter"
	"github.com/pdiddy/bookdex/internal/store"
	"github.com/pdiddy/bookdex/internal/textutil"
	"github.com/pdiddy/bookdex/pkg/types"
)

// Resolver resolves free-text queries into canonical book records.
type Resolver struct {
	Providers  []provider.Provider
	Store      *store.Store
	Splitter   *splitter.Splitter
	Classifier *classify.Classifier
	Covers     *covers.Fetcher

	// FastTimeout bounds search and probe calls; Timeout bounds detail
	// lookups. Zero means no per-call deadline.
	FastTimeout time.Duration
	Timeout     time.Duration
}

// withBudget derives a per-call deadline context, or passes ctx through when
// no budget is configured.
func withBudget(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// Resolve runs the full resolution for one query and returns the id of the
// reconciled book. found is false when no provider yielded an accepted
// detail, which is a normal outcome and not an error. Progress and
// per-provider failures are written to w.
func (r *Resolver) Resolve(ctx context.Context, query string, w io.Writer) (id int64, found bool, err error) {
	title, authors := r.Splitter.Split(ctx, query)
	isbn := textutil.FindISBN(query)

	candidates := searchCandidates(title, authors, query)
	if isbn != "" {
		fmt.Fprintf(w, "query: %q (title=%q, isbn=%s)\n", query, title, isbn)
	} else {
		fmt.Fprintf(w, "query: %q (title=%q, authors=%v)\n", query, title, authors)
	}

	var detail *types.DetailRecord
	for _, p := range r.Providers {
		d := r.tryProvider(ctx, p, isbn, candidates, w)
		if d == nil {
			continue
		}
		// Cross-source consistency: a detail whose ISBN disagrees with
		// the one derived from the query is rejected, not fatal.
		if isbn != "" && d.ISBN != "" && textutil.NormalizeISBN(d.ISBN) != isbn {
			fmt.Fprintf(w, "rejected: %s returned ISBN %s, expected %s\n",
				p.Site(), textutil.NormalizeISBN(d.ISBN), isbn)
			continue
		}
		if d.ISBN == "" && isbn != "" {
			d.ISBN = isbn
		}
		detail = d
		break
	}
	if detail == nil {
		fmt.Fprintf(w, "not found: %q\n", query)
		return 0, false, nil
	}

	id, created, err := r.Store.Reconcile(ctx, detail)
	if err != nil {
		return 0, false, fmt.Errorf("reconciling %q: %w", detail.Title, err)
	}
	if created {
		fmt.Fprintf(w, "created: book %d (%s via %s)\n", id, detail.Title, detail.Site)
	} else {
		fmt.Fprintf(w, "updated: book %d (%s via %s)\n", id, detail.Title, detail.Site)
	}

	if err := r.finish(ctx, id, detail, w); err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// finish runs the post-reconciliation steps: cover download into the data
// directory, classification when the category is still empty, and a
// provenance entry for the chosen provider.
func (r *Resolver) finish(ctx context.Context, id int64, detail *types.DetailRecord, w io.Writer) error {
	book, err := r.Store.GetBook(ctx, id)
	if err != nil {
		return fmt.Errorf("reading book %d: %w", id, err)
	}
	if book == nil {
		return fmt.Errorf("book %d vanished after reconcile", id)
	}

	if r.Covers != nil && detail.CoverURL != "" && book.CoverPath == "" {
		rel, err := r.Covers.Fetch(ctx, detail.CoverURL)
		if err != nil {
			fmt.Fprintf(w, "cover failed: %v\n", err)
		} else if rel != "" {
			if err := r.Store.SetCoverPath(ctx, id, rel); err != nil {
				return fmt.Errorf("recording cover for book %d: %w", id, err)
			}
		}
	}

	if book.Category == "" {
		c := r.Classifier.Classify(ctx, book.Title, book.Authors, book.Summary, book.CatalogNumber)
		if c.Code != "" {
			fmt.Fprintf(w, "classified: %s (%s, %.2f via %s)\n", c.Code, c.Label, c.Confidence, c.Source)
			if err := r.Store.SetCategory(ctx, id, c.Code); err != nil {
				return fmt.Errorf("recording category for book %d: %w", id, err)
			}
		}
	}

	raw, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("serializing provenance: %w", err)
	}
	if err := r.Store.AddProvenance(ctx, &types.ProvenanceEntry{
		BookID:    id,
		Site:      detail.Site,
		URL:       detail.SourceURL,
		Extracted: string(raw),
	}); err != nil {
		return err
	}
	return nil
}

// tryProvider attempts one provider: direct ISBN lookup first when an ISBN
// is known, then each search candidate in order. Provider errors are logged
// and collapse to "no result from this provider".
func (r *Resolver) tryProvider(ctx context.Context, p provider.Provider, isbn string, candidates []string, w io.Writer) *types.DetailRecord {
	if isbn != "" {
		lookCtx, cancel := withBudget(ctx, r.Timeout)
		d, err := p.GetByISBN(lookCtx, isbn)
		cancel()
		if err != nil {
			fmt.Fprintf(w, "provider %s: isbn lookup failed: %v\n", p.Site(), err)
			return nil
		}
		if d != nil {
			return d
		}
	}

	for _, q := range candidates {
		searchCtx, cancel := withBudget(ctx, r.FastTimeout)
		results, err := p.Search(searchCtx, q)
		cancel()
		if err != nil {
			fmt.Fprintf(w, "provider %s: search failed: %v\n", p.Site(), err)
			return nil
		}
		for _, cand := range results {
			d := r.resolveCandidate(ctx, p, cand, w)
			if d != nil {
				return d
			}
		}
	}
	return nil
}

func (r *Resolver) resolveCandidate(ctx context.Context, p provider.Provider, cand types.SearchCandidate, w io.Writer) *types.DetailRecord {
	detailCtx, cancel := withBudget(ctx, r.Timeout)
	defer cancel()

	if cand.URL != "" {
		d, err := p.GetDetail(detailCtx, cand.URL)
		if err != nil {
			fmt.Fprintf(w, "provider %s: detail failed: %v\n", p.Site(), err)
		} else if d != nil {
			return d
		}
	}
	if cand.ISBN != "" {
		d, err := p.GetByISBN(detailCtx, cand.ISBN)
		if err != nil {
			fmt.Fprintf(w, "provider %s: isbn lookup failed: %v\n", p.Site(), err)
		} else if d != nil {
			return d
		}
	}
	return nil
}

// searchCandidates builds the ordered list of search strings: the split
// title, then title plus first author, then the raw query as a last resort.
func searchCandidates(title string, authors []string, raw string) []string {
	var out []string
	seen := map[string]bool{}
	add := func(s string) {
		s = textutil.Normalize(s)
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	add(title)
	if title != "" && len(authors) > 0 {
		add(title + " " + authors[0])
	}
	add(raw)
	return out
}
