// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the request timeout for detail and cover fetches.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// FastTimeout is the shorter budget for search and probe calls.
	FastTimeout time.Duration `json:"fast_timeout" yaml:"fast_timeout"`

	// UserAgent is the User-Agent header sent with requests
	// (e.g. "bookdex/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// StoreConfig holds settings for the book store.
type StoreConfig struct {
	// DataDir is the base data directory. The SQLite database lives at
	// DataDir/bookdex.db and cover images under DataDir/covers/.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// ProviderConfig holds settings for the source-provider registry.
type ProviderConfig struct {
	HTTPConfig `yaml:",inline"`

	// Order lists enabled providers in priority order. Known names:
	// "localcatalog", "openlibrary", "googlebooks". An unknown name is a
	// configuration error at startup.
	Order []string `json:"order" yaml:"order"`

	// CatalogPath is the YAML file backing the localcatalog provider.
	CatalogPath string `json:"catalog_path,omitempty" yaml:"catalog_path,omitempty"`

	// GoogleBooksAPIKey is an optional API key for higher quotas.
	GoogleBooksAPIKey string `json:"google_books_api_key,omitempty" yaml:"google_books_api_key,omitempty"`

	// MaxResults caps the candidates returned per search call (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ClassifierConfig holds settings for the subject classifier.
type ClassifierConfig struct {
	// EnableModel turns the external-model stage on. Off by default; the
	// catalog-number parse and keyword fallback need no network access.
	EnableModel bool `json:"enable_model" yaml:"enable_model"`

	// Endpoint is an OpenAI-compatible chat-completions URL.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// Model is the model identifier sent to the endpoint.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// APIKey authenticates against the endpoint. A missing key while
	// EnableModel is set means "not configured", not an error.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Timeout is the per-request budget for model calls.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// ExtractorConfig holds settings for the optional entity-extraction backend
// used by the title/author splitter.
type ExtractorConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoints lists candidate NER service URLs in priority order. The
	// splitter settles on the first one that answers, once per process.
	// An empty list means no backend, which is a normal state.
	Endpoints []string `json:"endpoints,omitempty" yaml:"endpoints,omitempty"`
}

// WatchConfig holds settings for the drop-directory watcher.
type WatchConfig struct {
	// Dir is the directory to watch. Each newly created file's name stem
	// is resolved as a query.
	Dir string `json:"dir" yaml:"dir"`
}
