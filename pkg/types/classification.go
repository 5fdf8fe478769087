// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ClassificationSource identifies which stage of the classifier chain
// produced a decision.
type ClassificationSource string

const (
	// ClassifiedByCatalog means an authoritative catalog number was parsed.
	ClassifiedByCatalog ClassificationSource = "catalog_number"

	// ClassifiedByModel means the optional external model produced the code.
	ClassifiedByModel ClassificationSource = "external_model"

	// ClassifiedByRule means the deterministic keyword-scoring fallback.
	ClassifiedByRule ClassificationSource = "rule"
)

// Classification is the classifier's ranked decision for one book. It is
// never persisted standalone; the code is folded into Book.Category.
type Classification struct {
	// Code is the subject-classification code (e.g. "T", "TP391.1").
	Code string `json:"code" yaml:"code"`

	// Label is the human-readable name of the code's top-level category.
	Label string `json:"label" yaml:"label"`

	// Confidence is in [0,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Source records which stage decided.
	Source ClassificationSource `json:"source" yaml:"source"`
}
