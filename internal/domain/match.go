package domain

// MatchMethod identifies which branch of the match pipeline produced a result
type MatchMethod string

const (
	MethodAliasExact     MatchMethod = "alias_exact"
	MethodFuzzyAutoAlias MatchMethod = "fuzzy_auto_alias"
	MethodFuzzySuggested MatchMethod = "fuzzy_suggested"
	MethodFuzzyLow       MatchMethod = "fuzzy_low"
	MethodNoMatch        MatchMethod = "no_match"
	MethodNone           MatchMethod = "none" // catalog was empty
)

// RequiresReview reports whether results produced by this method need a human decision
func (m MatchMethod) RequiresReview() bool {
	return m != MethodAliasExact && m != MethodFuzzyAutoAlias
}

// MatchResult is the outcome of matching one scraped product name
type MatchResult struct {
	MaterialCode   string      `json:"materialCode,omitempty"` // empty means no material
	Confidence     float64     `json:"confidence"`             // 0-1
	Method         MatchMethod `json:"method"`
	NeedsReview    bool        `json:"needsReview"`
	ExtractedBrand string      `json:"extractedBrand,omitempty"`
	ExtractedGrade string      `json:"extractedGrade,omitempty"`
	Warning        string      `json:"warning,omitempty"` // non-fatal problems, e.g. alias write failure
}

// BatchItem is one scraped product submitted for batch matching
type BatchItem struct {
	Name  string   `json:"name" binding:"required"`
	Price *float64 `json:"price,omitempty"`
}

// BatchMatchResult decorates a MatchResult with the input it was computed for
type BatchMatchResult struct {
	MatchResult
	OriginalName string   `json:"originalName"`
	Price        *float64 `json:"price,omitempty"`
	Error        string   `json:"error,omitempty"`
}
