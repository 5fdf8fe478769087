// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bookdex/pkg/types"
)

func TestRegistryBuildsConfiguredOrder(t *testing.T) {
	provs, err := Registry(types.ProviderConfig{
		Order:       []string{"localcatalog", "openlibrary", "googlebooks"},
		CatalogPath: "catalog.yaml",
	})
	require.NoError(t, err)
	require.Len(t, provs, 3)
	assert.Equal(t, "localcatalog", provs[0].Site())
	assert.Equal(t, "openlibrary", provs[1].Site())
	assert.Equal(t, "googlebooks", provs[2].Site())
}

func TestRegistryRejectsUnknownProvider(t *testing.T) {
	_, err := Registry(types.ProviderConfig{Order: []string{"douban"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "douban")
}

// --- Open Library ---

func TestOpenLibrarySearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "the histories", r.URL.Query().Get("title"))
		w.Write([]byte(`{"docs":[
			{"title":"The Histories","author_name":["Herodotus"],"key":"/works/OL1W","isbn":["9780140449082"]},
			{"title":"The Histories, abridged","author_name":["Herodotus"],"key":"/works/OL2W"}
		]}`))
	}))
	defer ts.Close()

	old := openLibraryBase
	openLibraryBase = ts.URL
	defer func() { openLibraryBase = old }()

	p := &OpenLibrary{Client: ts.Client(), MaxResults: 5}
	got, err := p.Search(context.Background(), "the histories")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "The Histories", got[0].Title)
	assert.Equal(t, []string{"Herodotus"}, got[0].Authors)
	assert.Equal(t, "9780140449082", got[0].ISBN)
	assert.Equal(t, ts.URL+"/works/OL1W", got[0].URL)
	assert.Empty(t, got[1].ISBN)
}

func TestOpenLibraryGetByISBN(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/isbn/9780140449082.json", r.URL.Path)
		w.Write([]byte(`{"title":"The Histories","number_of_pages":716,
			"publishers":["Penguin Classics"],"publish_date":"Feb 27, 2003","covers":[12345]}`))
	}))
	defer ts.Close()

	old := openLibraryBase
	openLibraryBase = ts.URL
	defer func() { openLibraryBase = old }()

	p := &OpenLibrary{Client: ts.Client()}
	got, err := p.GetByISBN(context.Background(), "9780140449082")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "The Histories", got.Title)
	assert.Equal(t, "Penguin Classics", got.Publisher)
	assert.Equal(t, 2003, got.PubYear)
	assert.Equal(t, 716, got.Pages)
	assert.Equal(t, "9780140449082", got.ISBN)
	assert.Contains(t, got.CoverURL, "12345-L.jpg")
	assert.Equal(t, "openlibrary", got.Site)
}

func TestOpenLibraryGetByISBNMiss(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	old := openLibraryBase
	openLibraryBase = ts.URL
	defer func() { openLibraryBase = old }()

	p := &OpenLibrary{Client: ts.Client()}
	got, err := p.GetByISBN(context.Background(), "9780000000000")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOpenLibraryGetDetailUnsupported(t *testing.T) {
	p := &OpenLibrary{}
	got, err := p.GetDetail(context.Background(), "https://openlibrary.org/works/OL1W")
	require.NoError(t, err)
	assert.Nil(t, got)
}

// --- Google Books ---

const googleVolumeJSON = `{
	"selfLink": "SELF",
	"volumeInfo": {
		"title": "深度学习",
		"authors": ["Ian Goodfellow", "Yoshua Bengio"],
		"publisher": "人民邮电出版社",
		"publishedDate": "2017-08-01",
		"pageCount": 500,
		"description": "深度学习教材",
		"language": "zh",
		"industryIdentifiers": [
			{"type": "ISBN_10", "identifier": "7115461473"},
			{"type": "ISBN_13", "identifier": "9787115461476"}
		],
		"imageLinks": {"thumbnail": "http://img/t.jpg", "smallThumbnail": "http://img/s.jpg"}
	}
}`

func TestGoogleBooksGetByISBN(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "isbn:9787115461476", r.URL.Query().Get("q"))
		w.Write([]byte(`{"items":[` + googleVolumeJSON + `]}`))
	}))
	defer ts.Close()

	old := googleBooksBase
	googleBooksBase = ts.URL
	defer func() { googleBooksBase = old }()

	p := &GoogleBooks{Client: ts.Client()}
	got, err := p.GetByISBN(context.Background(), "9787115461476")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "深度学习", got.Title)
	assert.Equal(t, "9787115461476", got.ISBN) // ISBN_13 preferred
	assert.Equal(t, 2017, got.PubYear)
	assert.Equal(t, "http://img/t.jpg", got.CoverURL)
	assert.Equal(t, "googlebooks", got.Site)
}

func TestGoogleBooksSearchEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	old := googleBooksBase
	googleBooksBase = ts.URL
	defer func() { googleBooksBase = old }()

	p := &GoogleBooks{Client: ts.Client()}
	got, err := p.Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGoogleBooksGetDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(googleVolumeJSON))
	}))
	defer ts.Close()

	p := &GoogleBooks{Client: ts.Client()}
	got, err := p.GetDetail(context.Background(), ts.URL+"/books/v1/volumes/x")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "深度学习", got.Title)
	assert.Equal(t, []string{"Ian Goodfellow", "Yoshua Bengio"}, got.Authors)
}

// --- Local catalog ---

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `
- title: 明朝那些事儿
  authors: [当年明月]
  publisher: 中国海关出版社
  pub_year: 2009
  isbn: "9787801656087"
  catalog_number: K248.09
- title: 时间简史
  authors: [霍金]
  language: 中文
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLocalCatalogSearchExact(t *testing.T) {
	p := NewLocalCatalog(writeCatalog(t))

	got, err := p.Search(context.Background(), "明朝那些事儿")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "9787801656087", got[0].ISBN)
	assert.Equal(t, "local://9787801656087", got[0].URL)
}

func TestLocalCatalogSearchSubstring(t *testing.T) {
	p := NewLocalCatalog(writeCatalog(t))

	got, err := p.Search(context.Background(), "时间简史（插图本）")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "时间简史", got[0].Title)
}

func TestLocalCatalogGetByISBNNormalizes(t *testing.T) {
	p := NewLocalCatalog(writeCatalog(t))

	got, err := p.GetByISBN(context.Background(), "978-7-80165-608-7")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "明朝那些事儿", got.Title)
	assert.Equal(t, "K248.09", got.CatalogNumber)
}

func TestLocalCatalogGetDetail(t *testing.T) {
	p := NewLocalCatalog(writeCatalog(t))

	got, err := p.GetDetail(context.Background(), "local://时间简史")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"霍金"}, got.Authors)
}

func TestLocalCatalogMissingFile(t *testing.T) {
	p := NewLocalCatalog(filepath.Join(t.TempDir(), "absent.yaml"))

	got, err := p.Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.Nil(t, got)
}
