// Package catalog provides helpers around the technology catalog
// snapshot taken when a voting event is first opened.
package catalog

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/ahrav/go-radar/internal/domain"
	"github.com/ahrav/go-radar/internal/ports"
)

var _ ports.CatalogAuditor = (*NameAuditor)(nil)

// NameAuditor flags catalog entries whose names are nearly identical,
// which usually means the same technology was entered twice and would
// split its votes across two aggregation buckets.
type NameAuditor struct {
	// threshold is the normalized similarity in [0,1] above which a
	// pair counts as a near-duplicate. Exact matches after case folding
	// are always reported.
	threshold float64
}

// NewNameAuditor creates an auditor with the given similarity
// threshold. Thresholds outside (0,1] are rejected.
func NewNameAuditor(threshold float64) (*NameAuditor, error) {
	if threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("similarity threshold must be in (0,1], got %f", threshold)
	}
	return &NameAuditor{threshold: threshold}, nil
}

// Audit implements ports.CatalogAuditor. It compares every pair of
// technology names after trimming and Unicode case folding and returns
// one warning per pair whose similarity reaches the threshold.
func (a *NameAuditor) Audit(technologies []domain.Technology) []ports.NameWarning {
	folder := cases.Fold()

	prepared := make([]string, len(technologies))
	for i, tech := range technologies {
		prepared[i] = folder.String(strings.TrimSpace(tech.Name))
	}

	var warnings []ports.NameWarning
	for i := range technologies {
		for j := i + 1; j < len(technologies); j++ {
			similarity := similarity(prepared[i], prepared[j])
			if similarity >= a.threshold {
				warnings = append(warnings, ports.NameWarning{
					Name:       technologies[i].Name,
					Other:      technologies[j].Name,
					Similarity: similarity,
				})
			}
		}
	}
	return warnings
}

// similarity converts Levenshtein distance into a normalized score:
// 1.0 for identical strings, approaching 0.0 as edits accumulate.
// The levenshtein library correctly handles multi-byte UTF-8 characters.
func similarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	if len(s1) == 0 || len(s2) == 0 {
		return 0.0
	}

	distance := levenshtein.ComputeDistance(s1, s2)
	longest := len([]rune(s1))
	if l := len([]rune(s2)); l > longest {
		longest = l
	}
	return 1.0 - float64(distance)/float64(longest)
}
