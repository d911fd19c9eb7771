package service

import (
	"context"
	"edu_eval_backend/internal/config"
	"edu_eval_backend/internal/model"
	"math"
	"time"

	"gorm.io/gorm"
)

func fptr(v float64) *float64 { return &v }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

type fakeStudents struct {
	students []model.Student
}

func (f *fakeStudents) FindByID(id uint) (*model.Student, error) {
	for i := range f.students {
		if f.students[i].ID == id {
			s := f.students[i]
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStudents) ListByGroup(group string) ([]model.Student, error) {
	var out []model.Student
	for _, s := range f.students {
		if s.GroupCode == group {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeCurriculum struct {
	criteria     []model.Criterion
	competencies []model.Competency
}

func (f *fakeCurriculum) ListCriteria() ([]model.Criterion, error) { return f.criteria, nil }

func (f *fakeCurriculum) FindCriterionByID(id uint) (*model.Criterion, error) {
	for i := range f.criteria {
		if f.criteria[i].ID == id {
			c := f.criteria[i]
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCurriculum) ListCompetencies() ([]model.Competency, error) { return f.competencies, nil }

type fakeEvaluations struct {
	criterion []model.CriterionEvaluation
	linked    []model.LinkedEvaluation
}

func contains(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (f *fakeEvaluations) ListCriterionEvaluations(ids []uint) ([]model.CriterionEvaluation, error) {
	var out []model.CriterionEvaluation
	for _, e := range f.criterion {
		if contains(ids, e.StudentID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEvaluations) ListLinkedEvaluations(ids []uint) ([]model.LinkedEvaluation, error) {
	var out []model.LinkedEvaluation
	for _, e := range f.linked {
		if contains(ids, e.StudentID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEvaluations) CreateCriterionEvaluation(e *model.CriterionEvaluation) error {
	e.ID = uint(len(f.criterion) + 1)
	f.criterion = append(f.criterion, *e)
	return nil
}

func (f *fakeEvaluations) CreateLinkedEvaluation(e *model.LinkedEvaluation) error {
	e.ID = uint(len(f.linked) + 1)
	f.linked = append(f.linked, *e)
	return nil
}

type fakeUploader struct {
	objects map[string][]byte
}

func (f *fakeUploader) UploadBytes(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[filename] = data
	return "/uploads/" + filename, nil
}

type fakeExports struct {
	records []model.XadeExport
}

func (f *fakeExports) Create(e *model.XadeExport) error {
	f.records = append(f.records, *e)
	return nil
}

func (f *fakeExports) ListByGroup(group string, page, limit int) ([]model.XadeExport, int64, error) {
	var out []model.XadeExport
	for _, r := range f.records {
		if r.GroupCode == group {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

var day = time.Date(2025, 11, 10, 9, 0, 0, 0, time.UTC)

func student(id uint, group, given, surname string, list int) model.Student {
	s := model.Student{NIA: "NIA" + idKey(id), GivenName: given, Surname: surname, GroupCode: group, Course: 6, ListNumber: list}
	s.ID = id
	return s
}

func criterion(id uint, course int, area string, codes ...string) model.Criterion {
	c := model.Criterion{Course: course, Area: area}
	c.ID = id
	for _, code := range codes {
		c.Descriptors = append(c.Descriptors, model.CriterionDescriptor{CriterionID: id, Code: code})
	}
	return c
}

func competency(code string, weight *float64) model.Competency {
	return model.Competency{Code: code, Name: code, Weight: weight}
}

func defaultScoringConfig() config.ScoringConfig {
	return config.ScoringConfig{
		CohortWeights:    config.CohortWeightsConfig{Course5: 0.4, Course6: 0.6},
		TaskAnchors:      "linear",
		SituationAnchors: "centered",
	}
}

// fixture: group 6A has two students; only Ana carries descriptor evidence.
func fixture() (*fakeStudents, *fakeCurriculum, *fakeEvaluations) {
	students := &fakeStudents{students: []model.Student{
		student(10, "6A", "Ana", "Pérez", 2),
		student(11, "6A", "Luis", "Gómez", 1),
		student(20, "6B", "Eva", "Rey", 1),
	}}
	curriculum := &fakeCurriculum{
		criteria: []model.Criterion{
			criterion(1, 5, "Matemáticas", "CCL1"),
			criterion(2, 6, "Lengua Castellana y Literatura", "ccl1 ", "STEM2"),
			criterion(3, 6, "Proyecto de Centro"),
		},
		competencies: []model.Competency{
			competency("CCL", fptr(60)),
			competency("STEM", fptr(40)),
		},
	}
	evaluations := &fakeEvaluations{
		criterion: []model.CriterionEvaluation{
			{StudentID: 10, CriterionID: 1, Score: 2, EvaluatedAt: day},
			{StudentID: 10, CriterionID: 2, Score: 4, EvaluatedAt: day.Add(time.Hour)},
			{StudentID: 11, CriterionID: 3, Score: 3, EvaluatedAt: day},
			{StudentID: 20, CriterionID: 2, Score: 1, EvaluatedAt: day},
		},
		linked: []model.LinkedEvaluation{
			{StudentID: 10, Kind: "task", NumericValue: 8, EvaluatedAt: day, Links: []model.EvaluationLink{
				{CompetencyCode: "CCL"}, {CompetencyCode: "STEM"},
			}},
			{StudentID: 10, Kind: "situation", NumericValue: 6, EvaluatedAt: day.AddDate(0, -3, 0), Links: []model.EvaluationLink{
				{CompetencyCode: "CCL", Weight: 1},
			}},
		},
	}
	return students, curriculum, evaluations
}
