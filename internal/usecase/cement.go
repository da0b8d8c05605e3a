package usecase

import (
	"regexp"
	"strings"
)

// cementGradeRegex matches strength grades like "32.5N", "42.5R", "22.5" or "42N"
var cementGradeRegex = regexp.MustCompile(`\b(\d{2})(?:\.(\d))?([NnRr])?\b`)

// DefaultCementBrands are the manufacturers recognized when no list is configured
var DefaultCementBrands = []string{
	"ppc", "afrisam", "lafarge", "sephaku", "dangote", "natal portland", "holcim", "mamba",
}

// CementInfo holds brand and grade tokens found in a product name.
// Empty fields mean the token was not present.
type CementInfo struct {
	Brand string
	Grade string // digits plus optional class letter, e.g. "325N"
}

// CementExtractor finds known cement brands and strength grades in product text
type CementExtractor struct {
	brands []string
}

// NewCementExtractor creates an extractor for the given brand list, falling back to DefaultCementBrands
func NewCementExtractor(brands []string) *CementExtractor {
	normalized := make([]string, 0, len(brands))
	for _, brand := range brands {
		if b := Normalize(brand); b != "" {
			normalized = append(normalized, b)
		}
	}
	if len(normalized) == 0 {
		normalized = append(normalized, DefaultCementBrands...)
	}

	return &CementExtractor{brands: normalized}
}

// Extract scans raw product text. Brands are matched as whole words against
// the normalized text in configured order; the grade comes from the raw text
// so the decimal point is still visible to the pattern.
func (e *CementExtractor) Extract(raw string) CementInfo {
	var info CementInfo

	padded := " " + Normalize(raw) + " "
	for _, brand := range e.brands {
		if strings.Contains(padded, " "+brand+" ") {
			info.Brand = brand
			break
		}
	}

	info.Grade = extractGrade(raw)

	return info
}

// extractGrade picks the first token carrying a decimal digit or class letter,
// so "10 x PPC 32.5N" yields 325N. A bare two-digit token is used only when
// nothing more specific is present.
func extractGrade(raw string) string {
	var fallback string
	for _, m := range cementGradeRegex.FindAllStringSubmatch(raw, -1) {
		grade := m[1] + m[2] + strings.ToUpper(m[3])
		if m[2] != "" || m[3] != "" {
			return grade
		}
		if fallback == "" {
			fallback = grade
		}
	}
	return fallback
}
