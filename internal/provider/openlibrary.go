// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"github.com/pdiddy/bookdex/internal/httputil"
	"github.com/pdiddy/bookdex/pkg/types"
)

// openLibraryBase is the Open Library API root. Declared as a var so tests
// can substitute an httptest server.
var openLibraryBase = "https://openlibrary.org"

// openLibraryCoversBase serves cover images by cover ID.
var openLibraryCoversBase = "https://covers.openlibrary.org"

// yearPattern pulls a four-digit year out of free-form publish dates.
var yearPattern = regexp.MustCompile(`(19|20)\d{2}`)

const defaultMaxResults = 5

// OpenLibrary queries the Open Library JSON API. It supports search and
// direct ISBN lookup; detail resolution goes through GetByISBN via the
// candidate's ISBN, so GetDetail is unsupported.
type OpenLibrary struct {
	Client     *http.Client
	UserAgent  string
	MaxResults int
}

// Site returns the provenance identifier.
func (p *OpenLibrary) Site() string { return "openlibrary" }

// Search queries search.json by title.
func (p *OpenLibrary) Search(ctx context.Context, query string) ([]types.SearchCandidate, error) {
	max := p.MaxResults
	if max <= 0 {
		max = defaultMaxResults
	}

	reqURL := openLibraryBase + "/search.json?" + url.Values{"title": {query}}.Encode()
	var body struct {
		Docs []struct {
			Title      string   `json:"title"`
			AuthorName []string `json:"author_name"`
			Key        string   `json:"key"`
			ISBN       []string `json:"isbn"`
		} `json:"docs"`
	}
	if err := p.getJSON(ctx, reqURL, &body); err != nil {
		return nil, err
	}

	var out []types.SearchCandidate
	for _, d := range body.Docs {
		if len(out) >= max {
			break
		}
		c := types.SearchCandidate{
			Title:   d.Title,
			Authors: d.AuthorName,
			URL:     openLibraryBase + d.Key,
		}
		if len(d.ISBN) > 0 {
			c.ISBN = d.ISBN[0]
		}
		out = append(out, c)
	}
	return out, nil
}

// GetByISBN fetches /isbn/<isbn>.json. A non-200 answer is a miss, not an
// error, matching the API's behavior for unknown ISBNs.
func (p *OpenLibrary) GetByISBN(ctx context.Context, isbn string) (*types.DetailRecord, error) {
	reqURL := fmt.Sprintf("%s/isbn/%s.json", openLibraryBase, isbn)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Open Library ISBN lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var body struct {
		Title         string   `json:"title"`
		NumberOfPages int      `json:"number_of_pages"`
		Publishers    []string `json:"publishers"`
		PublishDate   string   `json:"publish_date"`
		Covers        []int64  `json:"covers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing Open Library response: %w", err)
	}

	d := &types.DetailRecord{
		Title:     body.Title,
		ISBN:      isbn,
		Pages:     body.NumberOfPages,
		Site:      p.Site(),
		SourceURL: reqURL,
	}
	if len(body.Publishers) > 0 {
		d.Publisher = body.Publishers[0]
	}
	if m := yearPattern.FindString(body.PublishDate); m != "" {
		d.PubYear, _ = strconv.Atoi(m)
	}
	if len(body.Covers) > 0 {
		d.CoverURL = fmt.Sprintf("%s/b/id/%d-L.jpg", openLibraryCoversBase, body.Covers[0])
	}
	return d, nil
}

// GetDetail is unsupported; candidates carry an ISBN for direct lookup.
func (p *OpenLibrary) GetDetail(_ context.Context, _ string) (*types.DetailRecord, error) {
	return nil, nil
}

func (p *OpenLibrary) getJSON(ctx context.Context, reqURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, 0)
	if err != nil {
		return fmt.Errorf("Open Library request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Open Library returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing Open Library response: %w", err)
	}
	return nil
}
