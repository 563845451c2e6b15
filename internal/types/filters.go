package types

import (
	"fmt"
	"strings"
)

// ScoreFilter selects reports by overall score band.
type ScoreFilter string

// Score filter bands
const (
	ScoreAll    ScoreFilter = "all"
	ScoreHigh   ScoreFilter = "high"   // overall_score >= 80
	ScoreMedium ScoreFilter = "medium" // 50 <= overall_score < 80
	ScoreLow    ScoreFilter = "low"    // overall_score < 50
)

// SortBy selects the ordering of a report listing.
type SortBy string

// Sort orders
const (
	SortNewest    SortBy = "newest"
	SortOldest    SortBy = "oldest"
	SortScoreDesc SortBy = "score_desc"
	SortScoreAsc  SortBy = "score_asc"
)

// Listing limits
const (
	DefaultReportLimit = 20
	MaxReportLimit     = 100
)

// ReportFilters enumerates every filter recognised by the report listing.
type ReportFilters struct {
	Search      string      `json:"search,omitempty"`
	ScoreFilter ScoreFilter `json:"score_filter,omitempty"`
	SortBy      SortBy      `json:"sort_by,omitempty"`
	Limit       int         `json:"limit,omitempty"`
	Offset      int         `json:"offset,omitempty"`
}

// ScoreRange returns the inclusive lower bound and exclusive upper bound of the band.
// ok is false for ScoreAll.
func (f ScoreFilter) ScoreRange() (lower, upper int, ok bool) {
	switch f {
	case ScoreHigh:
		return 80, 101, true
	case ScoreMedium:
		return 50, 80, true
	case ScoreLow:
		return 0, 50, true
	default:
		return 0, 0, false
	}
}

// Normalize fills defaults and rejects values outside the recognised set.
func (f ReportFilters) Normalize() (ReportFilters, error) {
	f.Search = strings.TrimSpace(f.Search)

	switch f.ScoreFilter {
	case "":
		f.ScoreFilter = ScoreAll
	case ScoreAll, ScoreHigh, ScoreMedium, ScoreLow:
	default:
		return f, fmt.Errorf("unknown score filter %q", f.ScoreFilter)
	}

	switch f.SortBy {
	case "":
		f.SortBy = SortNewest
	case SortNewest, SortOldest, SortScoreDesc, SortScoreAsc:
	default:
		return f, fmt.Errorf("unknown sort order %q", f.SortBy)
	}

	if f.Limit <= 0 {
		f.Limit = DefaultReportLimit
	}
	if f.Limit > MaxReportLimit {
		f.Limit = MaxReportLimit
	}
	if f.Offset < 0 {
		return f, fmt.Errorf("offset must be non-negative, got %d", f.Offset)
	}
	return f, nil
}
