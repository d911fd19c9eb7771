package scoring

import (
	"testing"
	"time"
)

func TestEqualSplitByDistinctCompetency(t *testing.T) {
	now := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	evals := []LinkedEvaluation{{
		StudentID:    "s1",
		NumericValue: 8,
		Links:        []CompetencyLink{{CompetenciaID: "A"}, {CompetenciaID: "B"}},
		At:           now,
	}}

	got := ComputeCompetencyScores(evals, now)["s1"]
	for _, id := range []string{"A", "B"} {
		s := got[id]
		if !approx(s.Average, 8) || !approx(s.WeightTotal, 0.5) {
			t.Fatalf("%s: unexpected score %+v", id, s.AggregationResult)
		}
		if contribution := s.Average * s.WeightTotal; !approx(contribution, 4) {
			t.Fatalf("%s: contribution %v, want 4", id, contribution)
		}
	}
}

func TestRepeatedLinksDoNotMultiplyWeight(t *testing.T) {
	evals := []LinkedEvaluation{
		{
			StudentID:    "s1",
			NumericValue: 10,
			// three sub-competency links into A, one into B
			Links: []CompetencyLink{{CompetenciaID: "A"}, {CompetenciaID: "A"}, {CompetenciaID: "A"}, {CompetenciaID: "B"}},
		},
		{StudentID: "s1", NumericValue: 0, Links: []CompetencyLink{{CompetenciaID: "A", Weight: 1}}},
	}
	a := ComputeCompetencyScores(evals, t0)["s1"]["A"]
	// entries (10, 0.5) and (0, 1)
	if !approx(a.Average, 10.0/3.0) || !approx(a.WeightTotal, 1.5) || a.Count != 2 {
		t.Fatalf("unexpected A: %+v", a.AggregationResult)
	}
}

func TestPositiveLinkWeightsNormalize(t *testing.T) {
	evals := []LinkedEvaluation{
		{StudentID: "s1", NumericValue: 6, Links: []CompetencyLink{{CompetenciaID: "A", Weight: 3}, {CompetenciaID: "B", Weight: 1}, {CompetenciaID: "C", Weight: 0}}},
		{StudentID: "s1", NumericValue: 2, Links: []CompetencyLink{{CompetenciaID: "A", Weight: 1}}},
	}
	got := ComputeCompetencyScores(evals, t0)["s1"]
	// A: (6*0.75 + 2*1) / 1.75
	if !approx(got["A"].Average, 6.5/1.75) {
		t.Fatalf("unexpected A average %v", got["A"].Average)
	}
	if !approx(got["B"].WeightTotal, 0.25) {
		t.Fatalf("unexpected B weight %v", got["B"].WeightTotal)
	}
	if _, ok := got["C"]; ok {
		t.Fatalf("zero-weight link must not produce an entry")
	}
}

func TestLinkedValueClampedAndEmptyLinksIgnored(t *testing.T) {
	evals := []LinkedEvaluation{
		{StudentID: "s1", NumericValue: 14, Links: []CompetencyLink{{CompetenciaID: "A"}}},
		{StudentID: "s1", NumericValue: 5},
		{StudentID: "s2", NumericValue: 5, Links: []CompetencyLink{{CompetenciaID: "  "}}},
	}
	got := ComputeCompetencyScores(evals, t0)
	if a := got["s1"]["A"]; a.Average != 10 || a.Count != 1 {
		t.Fatalf("unexpected A: %+v", a)
	}
	if _, ok := got["s2"]; ok {
		t.Fatalf("blank competency ids must not create rows")
	}
}

func TestLatestValueIsChronological(t *testing.T) {
	evals := []LinkedEvaluation{
		{StudentID: "s1", NumericValue: 9, Links: []CompetencyLink{{CompetenciaID: "A"}}, At: t0.Add(48 * time.Hour)},
		{StudentID: "s1", NumericValue: 3, Links: []CompetencyLink{{CompetenciaID: "A"}}, At: t0},
	}
	a := ComputeCompetencyScores(evals, t0)["s1"]["A"]
	if a.LatestValue != 9 || a.LatestAt == nil || !a.LatestAt.Equal(t0.Add(48*time.Hour)) {
		t.Fatalf("unexpected latest: value=%v at=%v", a.LatestValue, a.LatestAt)
	}
	if !approx(a.Average, 6) {
		t.Fatalf("average must stay the weighted mean, got %v", a.Average)
	}
}

func TestCompetencyTrend(t *testing.T) {
	now := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)
	prev := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	link := []CompetencyLink{{CompetenciaID: "A"}}

	cases := []struct {
		name    string
		current float64
		want    Trend
	}{
		{"up", 6.0, TrendUp},
		{"stable", 5.1, TrendStable},
		{"down", 4.0, TrendDown},
	}
	for _, tc := range cases {
		evals := []LinkedEvaluation{
			{StudentID: "s1", NumericValue: 5.0, Links: link, At: prev},
			{StudentID: "s1", NumericValue: tc.current, Links: link, At: now.Add(-24 * time.Hour)},
		}
		if got := ComputeCompetencyScores(evals, now)["s1"]["A"].Trend; got != tc.want {
			t.Fatalf("%s: trend = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestTrendStableWithoutPreviousQuarter(t *testing.T) {
	now := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)
	evals := []LinkedEvaluation{
		// two quarters back does not count as previous
		{StudentID: "s1", NumericValue: 1, Links: []CompetencyLink{{CompetenciaID: "A"}}, At: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)},
		{StudentID: "s1", NumericValue: 9, Links: []CompetencyLink{{CompetenciaID: "A"}}, At: now},
	}
	if got := ComputeCompetencyScores(evals, now)["s1"]["A"].Trend; got != TrendStable {
		t.Fatalf("expected STABLE, got %s", got)
	}
}

func TestTrendAcrossYearBoundary(t *testing.T) {
	now := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	evals := []LinkedEvaluation{
		{StudentID: "s1", NumericValue: 7, Links: []CompetencyLink{{CompetenciaID: "A"}}, At: time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)},
		{StudentID: "s1", NumericValue: 5, Links: []CompetencyLink{{CompetenciaID: "A"}}, At: now},
	}
	if got := ComputeCompetencyScores(evals, now)["s1"]["A"].Trend; got != TrendDown {
		t.Fatalf("expected DOWN, got %s", got)
	}
}

func TestFinalScore(t *testing.T) {
	scores := map[string]CompetencyScore{
		"A": {AggregationResult: AggregationResult{Average: 8, Count: 2}},
		"B": {AggregationResult: AggregationResult{Average: 4, Count: 1}},
	}

	weighted := []Competency{{ID: "A", Weight: fptr(75)}, {ID: "B", Weight: fptr(25)}, {ID: "C", Weight: fptr(50)}}
	if got := FinalScore(scores, weighted); !approx(got, 7) {
		t.Fatalf("weighted final score = %v, want 7", got)
	}

	zero := []Competency{{ID: "A", Weight: fptr(0)}, {ID: "B", Weight: fptr(0)}}
	if got := FinalScore(scores, zero); !approx(got, 6) {
		t.Fatalf("zero-weight fallback = %v, want 6", got)
	}

	if got := FinalScore(scores, []Competency{{ID: "A"}, {ID: "B"}}); !approx(got, 6) {
		t.Fatalf("unweighted final score = %v, want 6", got)
	}

	partial := []Competency{{ID: "A", Weight: fptr(50)}, {ID: "B"}}
	if got := FinalScore(scores, partial); !approx(got, 8) {
		t.Fatalf("competency without a weight must not count once weights are configured, got %v", got)
	}

	if got := FinalScore(nil, weighted); got != 0 {
		t.Fatalf("expected 0 without evaluated competencies, got %v", got)
	}
}

func TestFinalScores(t *testing.T) {
	table := CompetencyTable{
		"s1": {"A": {AggregationResult: AggregationResult{Average: 5, Count: 1}}},
		"s2": {"A": {AggregationResult: AggregationResult{Average: 9, Count: 3}}},
	}
	got := FinalScores(table, nil)
	if got["s1"] != 5 || got["s2"] != 9 {
		t.Fatalf("unexpected final scores: %v", got)
	}
}
