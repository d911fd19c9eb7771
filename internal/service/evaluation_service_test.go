package service

import (
	"context"
	"edu_eval_backend/internal/util"
	"errors"
	"testing"
	"time"
)

func newEvaluationService(t *testing.T) (*EvaluationService, *fakeEvaluations) {
	t.Helper()
	scoringSvc := newScoringService(t)
	students, curriculum, evaluations := fixture()
	s := NewEvaluationService(evaluations, students, curriculum, scoringSvc)
	s.now = func() time.Time { return day }
	return s, evaluations
}

func TestRecordCriterionEvaluation(t *testing.T) {
	s, store := newEvaluationService(t)
	ctx := context.Background()
	before := len(store.criterion)

	ev, err := s.RecordCriterionEvaluation(ctx, 7, CriterionEvaluationRequest{StudentID: 11, CriterionID: 2, Score: 3.5})
	if err != nil {
		t.Fatalf("RecordCriterionEvaluation: %v", err)
	}
	if ev.TeacherID != 7 || !ev.EvaluatedAt.Equal(day) || len(store.criterion) != before+1 {
		t.Fatalf("unexpected stored evaluation %+v", ev)
	}

	cases := []struct {
		name string
		req  CriterionEvaluationRequest
		want error
	}{
		{"score above range", CriterionEvaluationRequest{StudentID: 11, CriterionID: 2, Score: 4.5}, util.ErrScoreOutOfRange},
		{"negative score", CriterionEvaluationRequest{StudentID: 11, CriterionID: 2, Score: -1}, util.ErrScoreOutOfRange},
		{"unknown student", CriterionEvaluationRequest{StudentID: 99, CriterionID: 2, Score: 2}, util.ErrStudentNotFound},
		{"unknown criterion", CriterionEvaluationRequest{StudentID: 11, CriterionID: 99, Score: 2}, util.ErrCriterionNotFound},
	}
	for _, tc := range cases {
		if _, err := s.RecordCriterionEvaluation(ctx, 7, tc.req); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestRecordLinkedEvaluationDerivesValueFromRating(t *testing.T) {
	s, _ := newEvaluationService(t)
	ctx := context.Background()
	links := []LinkRequest{{CompetencyCode: " CCL "}, {CompetencyCode: "STEM", SubCompetencyCode: "STEM2"}}

	situation, err := s.RecordLinkedEvaluation(ctx, 7, LinkedEvaluationRequest{
		StudentID: 10, Kind: "Situation", TargetID: "sa-1", Rating: "blue", Links: links,
	})
	if err != nil {
		t.Fatalf("situation: %v", err)
	}
	if situation.NumericValue != 9.5 || situation.Rating != "BLUE" || situation.Kind != "situation" {
		t.Fatalf("unexpected situation evaluation %+v", situation)
	}
	if situation.Links[0].CompetencyCode != "CCL" || situation.Links[1].SubCompetencyCode != "STEM2" {
		t.Fatalf("unexpected links %+v", situation.Links)
	}

	task, err := s.RecordLinkedEvaluation(ctx, 7, LinkedEvaluationRequest{
		StudentID: 10, Kind: "task", TargetID: "t-1", Rating: "BLUE", Links: links,
	})
	if err != nil {
		t.Fatalf("task: %v", err)
	}
	if task.NumericValue != 10 {
		t.Fatalf("task BLUE = %v, want 10", task.NumericValue)
	}

	explicit, err := s.RecordLinkedEvaluation(ctx, 7, LinkedEvaluationRequest{
		StudentID: 10, Kind: "task", TargetID: "t-2", Rating: "RED", NumericValue: fptr(4), Links: links,
	})
	if err != nil {
		t.Fatalf("explicit: %v", err)
	}
	if explicit.NumericValue != 4 {
		t.Fatalf("explicit numeric value overridden: %v", explicit.NumericValue)
	}
}

func TestRecordLinkedEvaluationValidation(t *testing.T) {
	s, store := newEvaluationService(t)
	ctx := context.Background()
	links := []LinkRequest{{CompetencyCode: "CCL"}}
	before := len(store.linked)

	cases := []struct {
		name string
		req  LinkedEvaluationRequest
		want error
	}{
		{"kind", LinkedEvaluationRequest{StudentID: 10, Kind: "quiz", TargetID: "x", Rating: "RED", Links: links}, util.ErrInvalidKind},
		{"rating", LinkedEvaluationRequest{StudentID: 10, Kind: "task", TargetID: "x", Rating: "PURPLE", Links: links}, util.ErrInvalidRating},
		{"no value", LinkedEvaluationRequest{StudentID: 10, Kind: "task", TargetID: "x", Links: links}, util.ErrInvalidRating},
		{"value range", LinkedEvaluationRequest{StudentID: 10, Kind: "task", TargetID: "x", NumericValue: fptr(11), Links: links}, util.ErrValueOutOfRange},
		{"blank links", LinkedEvaluationRequest{StudentID: 10, Kind: "task", TargetID: "x", Rating: "RED", Links: []LinkRequest{{CompetencyCode: "  "}}}, util.ErrNoCompetencyLinks},
		{"student", LinkedEvaluationRequest{StudentID: 99, Kind: "task", TargetID: "x", Rating: "RED", Links: links}, util.ErrStudentNotFound},
	}
	for _, tc := range cases {
		if _, err := s.RecordLinkedEvaluation(ctx, 7, tc.req); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
	if len(store.linked) != before {
		t.Fatalf("rejected evaluations were stored")
	}
}
