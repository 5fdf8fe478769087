// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/bookdex/internal/httputil"
	"github.com/pdiddy/bookdex/pkg/types"
)

// googleBooksBase is the Google Books volumes endpoint. A var so tests can
// substitute an httptest server.
var googleBooksBase = "https://www.googleapis.com/books/v1/volumes"

// GoogleBooks queries the Google Books volumes API. All three capabilities
// are supported: search, ISBN lookup (a q=isbn: query), and detail
// resolution via a volume's selfLink.
type GoogleBooks struct {
	Client     *http.Client
	UserAgent  string
	APIKey     string
	MaxResults int
}

// Site returns the provenance identifier.
func (p *GoogleBooks) Site() string { return "googlebooks" }

type googleVolume struct {
	SelfLink   string `json:"selfLink"`
	VolumeInfo struct {
		Title               string   `json:"title"`
		Authors             []string `json:"authors"`
		Publisher           string   `json:"publisher"`
		PublishedDate       string   `json:"publishedDate"`
		PageCount           int      `json:"pageCount"`
		Description         string   `json:"description"`
		Language            string   `json:"language"`
		IndustryIdentifiers []struct {
			Type       string `json:"type"`
			Identifier string `json:"identifier"`
		} `json:"industryIdentifiers"`
		ImageLinks struct {
			Thumbnail      string `json:"thumbnail"`
			SmallThumbnail string `json:"smallThumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

type googleVolumeList struct {
	Items []googleVolume `json:"items"`
}

// Search queries the volumes API with printType=books.
func (p *GoogleBooks) Search(ctx context.Context, query string) ([]types.SearchCandidate, error) {
	max := p.MaxResults
	if max <= 0 {
		max = defaultMaxResults
	}

	params := url.Values{
		"q":          {query},
		"maxResults": {strconv.Itoa(max)},
		"printType":  {"books"},
	}
	if p.APIKey != "" {
		params.Set("key", p.APIKey)
	}

	var list googleVolumeList
	if err := p.getJSON(ctx, googleBooksBase+"?"+params.Encode(), &list); err != nil {
		return nil, err
	}

	var out []types.SearchCandidate
	for _, item := range list.Items {
		vi := item.VolumeInfo
		out = append(out, types.SearchCandidate{
			Title:   vi.Title,
			Authors: vi.Authors,
			URL:     item.SelfLink,
			ISBN:    pickISBN(item),
		})
	}
	return out, nil
}

// GetByISBN runs a q=isbn: query and converts the first volume.
func (p *GoogleBooks) GetByISBN(ctx context.Context, isbn string) (*types.DetailRecord, error) {
	params := url.Values{"q": {"isbn:" + isbn}, "maxResults": {"1"}}
	if p.APIKey != "" {
		params.Set("key", p.APIKey)
	}

	var list googleVolumeList
	if err := p.getJSON(ctx, googleBooksBase+"?"+params.Encode(), &list); err != nil {
		return nil, err
	}
	if len(list.Items) == 0 {
		return nil, nil
	}
	return p.toDetail(list.Items[0]), nil
}

// GetDetail fetches a volume's selfLink.
func (p *GoogleBooks) GetDetail(ctx context.Context, volumeURL string) (*types.DetailRecord, error) {
	var item googleVolume
	if err := p.getJSON(ctx, volumeURL, &item); err != nil {
		return nil, err
	}
	if item.VolumeInfo.Title == "" {
		return nil, nil
	}
	return p.toDetail(item), nil
}

func (p *GoogleBooks) toDetail(item googleVolume) *types.DetailRecord {
	vi := item.VolumeInfo

	d := &types.DetailRecord{
		Title:     vi.Title,
		Authors:   vi.Authors,
		Publisher: vi.Publisher,
		Pages:     vi.PageCount,
		Summary:   vi.Description,
		Language:  vi.Language,
		ISBN:      pickISBN(item),
		Site:      p.Site(),
		SourceURL: item.SelfLink,
	}
	if len(vi.PublishedDate) >= 4 {
		if year, err := strconv.Atoi(vi.PublishedDate[:4]); err == nil {
			d.PubYear = year
		}
	}
	if vi.ImageLinks.Thumbnail != "" {
		d.CoverURL = vi.ImageLinks.Thumbnail
	} else {
		d.CoverURL = vi.ImageLinks.SmallThumbnail
	}
	return d
}

// pickISBN prefers ISBN_13 over ISBN_10 from the volume's identifiers.
func pickISBN(item googleVolume) string {
	var isbn10 string
	for _, id := range item.VolumeInfo.IndustryIdentifiers {
		switch id.Type {
		case "ISBN_13":
			return id.Identifier
		case "ISBN_10":
			isbn10 = id.Identifier
		}
	}
	return isbn10
}

func (p *GoogleBooks) getJSON(ctx context.Context, reqURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, 0)
	if err != nil {
		return fmt.Errorf("Google Books request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Google Books returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing Google Books response: %w", err)
	}
	return nil
}
