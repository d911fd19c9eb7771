package ingest

import (
	"testing"
	"time"

	"edu_eval_backend/internal/scoring"
)

func testScales(t *testing.T) Scales {
	t.Helper()
	task, err := scoring.NewGradeScale(scoring.LinearAnchors)
	if err != nil {
		t.Fatalf("task scale: %v", err)
	}
	situation, err := scoring.NewGradeScale(scoring.CenteredAnchors)
	if err != nil {
		t.Fatalf("situation scale: %v", err)
	}
	return Scales{Task: task, Situation: situation}
}

func TestParseCriterionEvaluationsCoercion(t *testing.T) {
	raw := []byte(`{"evaluations": [
		{"studentId": 12, "criterionId": "CR-1", "score": "3.5", "weight": null, "at": "2025-10-01T08:00:00Z"},
		{"studentId": "s2", "criterionId": "CR-2", "score": "n/a", "weight": "2", "at": 1759305600000},
		{"studentId": "s3", "criterionId": "CR-3", "score": 1, "at": {"seconds": 1759305600, "nanoseconds": 0}}
	]}`)

	evs, err := ParseCriterionEvaluations(raw, "evaluations")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(evs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(evs))
	}
	if evs[0].StudentID != "12" || evs[0].Score != 3.5 || evs[0].Weight != nil {
		t.Fatalf("unexpected first record: %+v", evs[0])
	}
	if !evs[0].At.Equal(time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected timestamp %v", evs[0].At)
	}
	if evs[1].Score != 0 || evs[1].Weight == nil || *evs[1].Weight != 2 {
		t.Fatalf("unexpected second record: %+v", evs[1])
	}
	if !evs[1].At.Equal(evs[2].At) || evs[2].At.IsZero() {
		t.Fatalf("epoch millis and store timestamps disagree: %v %v", evs[1].At, evs[2].At)
	}
}

func TestParseCriteria(t *testing.T) {
	raw := []byte(`[
		{"id": "CR-1", "course": "6", "descriptorCodes": ["cd1.1", "CD1.2"], "weight": 2},
		{"id": "CR-2", "curso": 5, "descriptors": "STEM1, STEM2"},
		{"course": 6}
	]`)
	cs, err := ParseCriteria(raw, "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(cs) != 2 {
		t.Fatalf("records without id must be skipped, got %d", len(cs))
	}
	if cs[0].Course != 6 || len(cs[0].DescriptorCodes) != 2 || *cs[0].Weight != 2 {
		t.Fatalf("unexpected criterion: %+v", cs[0])
	}
	if cs[1].Course != 5 || cs[1].DescriptorCodes[1] != "STEM2" || cs[1].Weight != nil {
		t.Fatalf("unexpected criterion: %+v", cs[1])
	}
}

func TestParseLinkedEvaluationsDerivesValueFromRating(t *testing.T) {
	raw := []byte(`[
		{"studentId": "s1", "taskId": "t1", "rating": "green", "links": [{"competenciaId": "CCL", "weight": 1}]},
		{"studentId": "s1", "situationId": "sa1", "rating": "GREEN", "links": [{"competencyId": "STEM"}]},
		{"studentId": "s1", "taskId": "t2", "kind": "task", "rating": "RED", "numericValue": "6.5", "links": []}
	]`)
	evs, err := ParseLinkedEvaluations(raw, "", testScales(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if evs[0].Kind != scoring.KindTask || evs[0].NumericValue != 7.5 || evs[0].TargetID != "t1" {
		t.Fatalf("unexpected task record: %+v", evs[0])
	}
	if evs[1].Kind != scoring.KindSituation || evs[1].Links[0].CompetenciaID != "STEM" || evs[1].Links[0].Weight != 0 {
		t.Fatalf("unexpected situation record: %+v", evs[1])
	}
	if evs[2].NumericValue != 6.5 || evs[2].Rating != scoring.GradeRed {
		t.Fatalf("explicit numericValue must win over rating: %+v", evs[2])
	}
}

func TestParseLinkedEvaluationsSituationScale(t *testing.T) {
	raw := []byte(`{"studentId": "s1", "kind": "situation", "rating": "red"}`)
	evs, err := ParseLinkedEvaluations(raw, "", testScales(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(evs) != 1 || evs[0].NumericValue != 3.5 {
		t.Fatalf("expected centered RED anchor, got %+v", evs)
	}
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	if _, err := ParseAreaEvaluations([]byte(`{"broken"`), ""); err != ErrInvalidPayload {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestParseExportStudentsAndAreas(t *testing.T) {
	students, err := ParseExportStudents([]byte(`[{"id": 1, "nia": "123", "nombre": "Uxía", "apellidos": "Castro", "curso": "6A", "numeroLista": "4"}]`), "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s := students[0]; s.ID != "1" || s.GivenName != "Uxía" || s.ListNumber != 4 {
		t.Fatalf("unexpected student: %+v", s)
	}

	areas, err := ParseAreaEvaluations([]byte(`{"items": [{"studentId": "1", "materia": "Matemáticas", "nota": "3"}]}`), "items")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if areas[0].Area != "Matemáticas" || areas[0].Score != 3 {
		t.Fatalf("unexpected area evaluation: %+v", areas[0])
	}
}

func TestParseCompetencies(t *testing.T) {
	cs, err := ParseCompetencies([]byte(`[{"id": "CCL", "weight": 30}, {"code": "STEM"}]`), "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(cs) != 2 || *cs[0].Weight != 30 || cs[1].Weight != nil {
		t.Fatalf("unexpected competencies: %+v", cs)
	}
}

func TestParseCohortWeights(t *testing.T) {
	raw := []byte(`{"cohortWeights": {"course6": "0.8"}}`)
	w, err := ParseCohortWeights(raw, "cohortWeights", scoring.DefaultCohortWeights)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if w.Course5 != 0.4 || w.Course6 != 0.8 {
		t.Fatalf("unexpected weights %+v", w)
	}

	w, err = ParseCohortWeights([]byte(`{}`), "cohortWeights", scoring.DefaultCohortWeights)
	if err != nil || w != scoring.DefaultCohortWeights {
		t.Fatalf("missing object should keep defaults, got %+v (%v)", w, err)
	}

	if _, err := ParseCohortWeights([]byte(`{`), "cohortWeights", scoring.DefaultCohortWeights); err != ErrInvalidPayload {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}
