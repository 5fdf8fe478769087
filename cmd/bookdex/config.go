// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bookdex/internal/classify"
	"github.com/pdiddy/bookdex/internal/covers"
	"github.com/pdiddy/bookdex/internal/pipeline"
	"github.com/pdiddy/bookdex/internal/provider"
	"github.com/pdiddy/bookdex/internal/splitter"
	"github.com/pdiddy/bookdex/internal/store"
	"github.com/pdiddy/bookdex/pkg/types"
)

const (
	defaultTimeout     = 20 * time.Second
	defaultFastTimeout = 8 * time.Second
	defaultUserAgent   = "bookdex/0.1"
	defaultDataDir     = "data"
)

var defaultProviderOrder = []string{"localcatalog", "openlibrary", "googlebooks"}

// dataDir resolves the data directory from flag, config file, then default.
func dataDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		return dir
	}
	if dir := viper.GetString("data_dir"); dir != "" {
		return dir
	}
	return defaultDataDir
}

func httpConfig() types.HTTPConfig {
	cfg := types.HTTPConfig{
		Timeout:     viper.GetDuration("http.timeout"),
		FastTimeout: viper.GetDuration("http.fast_timeout"),
		UserAgent:   viper.GetString("http.user_agent"),
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.FastTimeout == 0 {
		cfg.FastTimeout = defaultFastTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return cfg
}

func providerConfig() types.ProviderConfig {
	cfg := types.ProviderConfig{
		HTTPConfig:        httpConfig(),
		Order:             viper.GetStringSlice("providers.order"),
		CatalogPath:       viper.GetString("providers.catalog_path"),
		GoogleBooksAPIKey: secretDefault("google-books-api-key", viper.GetString("providers.google_books_api_key")),
		MaxResults:        viper.GetInt("providers.max_results"),
	}
	if len(cfg.Order) == 0 {
		cfg.Order = defaultProviderOrder
	}
	if cfg.CatalogPath == "" {
		cfg.CatalogPath = "catalog.yaml"
	}
	return cfg
}

func classifierConfig() types.ClassifierConfig {
	cfg := types.ClassifierConfig{
		EnableModel: viper.GetBool("classifier.enable_model"),
		Endpoint:    viper.GetString("classifier.endpoint"),
		Model:       viper.GetString("classifier.model"),
		APIKey:      secretDefault("openai-api-key", viper.GetString("classifier.api_key")),
		Timeout:     viper.GetDuration("classifier.timeout"),
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return cfg
}

func extractorConfig() types.ExtractorConfig {
	cfg := types.ExtractorConfig{
		HTTPConfig: httpConfig(),
		Endpoints:  viper.GetStringSlice("extractor.endpoints"),
	}
	if len(cfg.Endpoints) == 0 {
		if ep := secretDefault("ner-endpoint", ""); ep != "" {
			cfg.Endpoints = []string{ep}
		}
	}
	return cfg
}

// newResolver assembles the full pipeline from configuration. The caller
// owns the returned store and must Close it.
func newResolver(cmd *cobra.Command) (*pipeline.Resolver, *store.Store, error) {
	s, err := store.Open(types.StoreConfig{DataDir: dataDir(cmd)})
	if err != nil {
		return nil, nil, err
	}

	providers, err := provider.Registry(providerConfig())
	if err != nil {
		s.Close()
		return nil, nil, err
	}

	httpCfg := httpConfig()
	r := &pipeline.Resolver{
		Providers:  providers,
		Store:      s,
		Splitter:   splitter.New(splitter.NewFromConfig(extractorConfig())),
		Classifier: &classify.Classifier{Model: classify.NewModelClient(classifierConfig())},
		Covers: covers.New(&http.Client{Timeout: httpCfg.Timeout},
			httpCfg.UserAgent, s.DataDir()),
		FastTimeout: httpCfg.FastTimeout,
		Timeout:     httpCfg.Timeout,
	}
	return r, s, nil
}
