package attemptlog

import (
	"sort"
	"strings"

	"github.com/balenascatcher/bilge-simulasyon/internal/model"
)

// Stats summarizes attempts for the instructor panel.
func Stats(attempts []model.Attempt, assignment string) model.PanelStats {
	stats := model.PanelStats{Assignment: assignment}
	for _, a := range attempts {
		stats.Total++
		if a.Success {
			stats.Succeeded++
		}
	}
	if stats.Total > 0 {
		stats.SuccessRate = 100 * float64(stats.Succeeded) / float64(stats.Total)
	}
	return stats
}

// ErrorCounts builds the "most common mistakes per field" report.
// Item mismatches ("Kalem 2: GTİP hatalı.") are folded across items by
// dropping the Kalem prefix, so the report counts per field, not per
// field-per-item. Ties are broken by field name for a stable order.
func ErrorCounts(attempts []model.Attempt) []model.FieldErrorCount {
	counts := make(map[string]int)
	for _, a := range attempts {
		for _, e := range a.Errors {
			counts[foldItemPrefix(e)]++
		}
	}

	result := make([]model.FieldErrorCount, 0, len(counts))
	for field, count := range counts {
		result = append(result, model.FieldErrorCount{Field: field, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Field < result[j].Field
	})
	return result
}

func foldItemPrefix(message string) string {
	if !strings.Contains(message, "Kalem") {
		return message
	}
	if _, rest, found := strings.Cut(message, ":"); found {
		return strings.TrimSpace(rest)
	}
	return message
}
