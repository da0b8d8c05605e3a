package domain

import "time"

// Material is a canonical catalog entry that scraped product names resolve to
type Material struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"` // free text, e.g. "cement"
}

// MaterialAlias maps a normalized scraped name to a catalog material
type MaterialAlias struct {
	ID              string    `json:"id,omitempty"`
	AliasName       string    `json:"aliasName"`
	MaterialCode    string    `json:"materialCode"`
	ConfidenceScore *float64  `json:"confidenceScore,omitempty"` // nil when the row carries no score
	CreatedAt       time.Time `json:"createdAt,omitempty"`
}

// Confidence returns the stored score, defaulting to 1.0 when unset
func (a *MaterialAlias) Confidence() float64 {
	if a == nil || a.ConfidenceScore == nil {
		return 1.0
	}
	return *a.ConfidenceScore
}

// CategoryCement is the only category that receives brand/grade scoring
const CategoryCement = "cement"
