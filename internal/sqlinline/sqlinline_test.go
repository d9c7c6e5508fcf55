package sqlinline

import (
	"regexp"
	"strings"
	"testing"
)

var markerLine = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// Every statement must open with a unique marker so the runner can log it
// without leaking query text.
func TestQueriesCarryUniqueMarkers(t *testing.T) {
	queries := map[string]string{
		"QSelectProfileByID":         QSelectProfileByID,
		"QSelectTokenBalance":        QSelectTokenBalance,
		"QUpdateProfile":             QUpdateProfile,
		"QProfileStats":              QProfileStats,
		"QChargeAndRecordGeneration": QChargeAndRecordGeneration,
		"QInsertGeneration":          QInsertGeneration,
		"QListGenerations":           QListGenerations,
		"QSetGenerationFavorite":     QSetGenerationFavorite,
		"QDeleteGeneration":          QDeleteGeneration,
	}

	seen := make(map[string]string)
	for name, query := range queries {
		lines := strings.Split(strings.TrimSpace(query), "\n")
		first := strings.TrimSpace(lines[0])
		if !markerLine.MatchString(first) {
			t.Errorf("%s: first line %q is not a valid marker", name, first)
			continue
		}
		marker := strings.TrimPrefix(first, "--sql ")
		if other, dup := seen[marker]; dup {
			t.Errorf("%s: marker %s already used by %s", name, marker, other)
		}
		seen[marker] = name
	}
}

func TestChargeStatementIsConditional(t *testing.T) {
	if !strings.Contains(QChargeAndRecordGeneration, "tokens_used + $3::int <= tokens_total") {
		t.Fatal("charge statement must gate on the remaining allowance")
	}
	if !strings.Contains(QInsertGeneration, "'completed'") || !strings.Contains(QChargeAndRecordGeneration, "'completed'") {
		t.Fatal("generation rows are only ever persisted as completed")
	}
}
