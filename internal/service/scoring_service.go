package service

import (
	"context"
	"edu_eval_backend/internal/config"
	"edu_eval_backend/internal/ingest"
	"edu_eval_backend/internal/model"
	"edu_eval_backend/internal/scoring"
	"edu_eval_backend/internal/util"
	"edu_eval_backend/pkg/logger"
	"edu_eval_backend/pkg/monitoring"
	"edu_eval_backend/pkg/tracing"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type StudentSource interface {
	FindByID(id uint) (*model.Student, error)
	ListByGroup(group string) ([]model.Student, error)
}

type CurriculumSource interface {
	ListCriteria() ([]model.Criterion, error)
	FindCriterionByID(id uint) (*model.Criterion, error)
	ListCompetencies() ([]model.Competency, error)
}

type EvaluationSource interface {
	ListCriterionEvaluations(studentIDs []uint) ([]model.CriterionEvaluation, error)
	ListLinkedEvaluations(studentIDs []uint) ([]model.LinkedEvaluation, error)
}

// ScoringSettings 可热更新的评分参数
type ScoringSettings struct {
	CohortWeights scoring.CohortWeights
	Scales        ingest.Scales
}

func NewScoringSettings(cfg config.ScoringConfig) (*ScoringSettings, error) {
	task, err := scaleByName(cfg.TaskAnchors)
	if err != nil {
		return nil, errors.Wrap(err, "task anchors")
	}
	situation, err := scaleByName(cfg.SituationAnchors)
	if err != nil {
		return nil, errors.Wrap(err, "situation anchors")
	}
	return &ScoringSettings{
		CohortWeights: scoring.CohortWeights{
			Course5: cfg.CohortWeights.Course5,
			Course6: cfg.CohortWeights.Course6,
		},
		Scales: ingest.Scales{Task: task, Situation: situation},
	}, nil
}

func scaleByName(name string) (scoring.GradeScale, error) {
	anchors, ok := scoring.AnchorsByName(name)
	if !ok {
		return scoring.GradeScale{}, util.ErrUnknownAnchorTable
	}
	return scoring.NewGradeScale(anchors)
}

// CompetencyReport 能力得分表及每个学生的最终分
type CompetencyReport struct {
	Scores      scoring.CompetencyTable `json:"scores"`
	FinalScores map[string]float64      `json:"finalScores"`
}

type StudentSummary struct {
	Student      model.Student                        `json:"student"`
	Descriptors  map[string]scoring.AggregationResult `json:"descriptors"`
	Evolutive    map[string]scoring.AggregationResult `json:"evolutive"`
	Competencies map[string]scoring.CompetencyScore   `json:"competencies"`
	FinalScore   float64                              `json:"finalScore"`
	FinalGrade   scoring.GradeKey                     `json:"finalGrade"`
}

type ScoringService struct {
	students    StudentSource
	curriculum  CurriculumSource
	evaluations EvaluationSource
	cache       *ResultCache
	settings    atomic.Pointer[ScoringSettings]
	now         func() time.Time
}

func NewScoringService(
	students StudentSource,
	curriculum CurriculumSource,
	evaluations EvaluationSource,
	cache *ResultCache,
	settings *ScoringSettings,
) *ScoringService {
	s := &ScoringService{
		students:    students,
		curriculum:  curriculum,
		evaluations: evaluations,
		cache:       cache,
		now:         time.Now,
	}
	s.settings.Store(settings)
	return s
}

func (s *ScoringService) Settings() *ScoringSettings {
	return s.settings.Load()
}

// ApplyConfig swaps the settings; an invalid config keeps the current ones.
func (s *ScoringService) ApplyConfig(cfg config.ScoringConfig) error {
	next, err := NewScoringSettings(cfg)
	if err != nil {
		return err
	}
	s.settings.Store(next)
	logger.Log.Info("Scoring settings updated",
		zap.Float64("course5", next.CohortWeights.Course5),
		zap.Float64("course6", next.CohortWeights.Course6),
		zap.String("task_anchors", cfg.TaskAnchors),
		zap.String("situation_anchors", cfg.SituationAnchors),
	)
	return nil
}

func (s *ScoringService) loadGroup(group string) ([]model.Student, error) {
	students, err := s.students.ListByGroup(group)
	if err != nil {
		return nil, errors.Wrapf(err, "list students of %s", group)
	}
	if len(students) == 0 {
		return nil, util.ErrGroupEmpty
	}
	return students, nil
}

func (s *ScoringService) descriptorTable(ctx context.Context, evals []scoring.CriterionEvaluation, criteria []scoring.Criterion, evolutive bool) scoring.ScoreTable {
	op := "descriptors"
	weights := s.Settings().CohortWeights
	if evolutive {
		op = "descriptors_evolutive"
	}

	key := Fingerprint(evals, criteria, evolutive, weights)
	var cached scoring.ScoreTable
	if s.cache.Get(ctx, op, key, &cached) {
		return cached
	}

	start := time.Now()
	index := scoring.IndexCriteria(criteria)
	var table scoring.ScoreTable
	if evolutive {
		table = scoring.ComputeDoScoresEvolutive(evals, index, weights)
	} else {
		table = scoring.ComputeDoScores(evals, index)
	}
	monitoring.ObserveScoring(op, len(evals), start)

	s.cache.Set(ctx, op, key, table)
	return table
}

func (s *ScoringService) competencyReport(ctx context.Context, evals []scoring.LinkedEvaluation, competencies []scoring.Competency, now time.Time) *CompetencyReport {
	const op = "competencies"

	// 趋势只依赖当前季度
	key := Fingerprint(evals, competencies, scoring.QuarterKey(now))
	var cached CompetencyReport
	if s.cache.Get(ctx, op, key, &cached) {
		return &cached
	}

	start := time.Now()
	table := scoring.ComputeCompetencyScores(evals, now)
	report := &CompetencyReport{
		Scores:      table,
		FinalScores: scoring.FinalScores(table, competencies),
	}
	monitoring.ObserveScoring(op, len(evals), start)

	s.cache.Set(ctx, op, key, report)
	return report
}

// DescriptorScores 计算班级每个学生每个 DO 描述符的平均分
func (s *ScoringService) DescriptorScores(ctx context.Context, group string, evolutive bool) (scoring.ScoreTable, error) {
	ctx, span := tracing.StartSpan(ctx, "ScoringService.DescriptorScores", group)
	defer span.End()

	students, err := s.loadGroup(group)
	if err != nil {
		return nil, err
	}
	criteria, err := s.curriculum.ListCriteria()
	if err != nil {
		return nil, errors.Wrap(err, "list criteria")
	}
	evals, err := s.evaluations.ListCriterionEvaluations(studentIDs(students))
	if err != nil {
		return nil, errors.Wrap(err, "list criterion evaluations")
	}

	return s.descriptorTable(ctx, toCriterionEvaluations(evals), toCriteria(criteria), evolutive), nil
}

// CompetencyScores 计算班级能力得分、趋势与最终分
func (s *ScoringService) CompetencyScores(ctx context.Context, group string) (*CompetencyReport, error) {
	ctx, span := tracing.StartSpan(ctx, "ScoringService.CompetencyScores", group)
	defer span.End()

	students, err := s.loadGroup(group)
	if err != nil {
		return nil, err
	}
	competencies, err := s.curriculum.ListCompetencies()
	if err != nil {
		return nil, errors.Wrap(err, "list competencies")
	}
	evals, err := s.evaluations.ListLinkedEvaluations(studentIDs(students))
	if err != nil {
		return nil, errors.Wrap(err, "list linked evaluations")
	}

	return s.competencyReport(ctx, toLinkedEvaluations(evals), toCompetencies(competencies), s.now()), nil
}

func (s *ScoringService) StudentSummary(ctx context.Context, studentID uint) (*StudentSummary, error) {
	student, err := s.students.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, errors.Wrap(err, "find student")
	}

	ctx, span := tracing.StartSpan(ctx, "ScoringService.StudentSummary", student.GroupCode)
	defer span.End()

	criteria, err := s.curriculum.ListCriteria()
	if err != nil {
		return nil, errors.Wrap(err, "list criteria")
	}
	competencies, err := s.curriculum.ListCompetencies()
	if err != nil {
		return nil, errors.Wrap(err, "list competencies")
	}
	ids := []uint{student.ID}
	criterionEvals, err := s.evaluations.ListCriterionEvaluations(ids)
	if err != nil {
		return nil, errors.Wrap(err, "list criterion evaluations")
	}
	linkedEvals, err := s.evaluations.ListLinkedEvaluations(ids)
	if err != nil {
		return nil, errors.Wrap(err, "list linked evaluations")
	}

	evals := toCriterionEvaluations(criterionEvals)
	engineCriteria := toCriteria(criteria)
	key := student.Key()

	report := s.competencyReport(ctx, toLinkedEvaluations(linkedEvals), toCompetencies(competencies), s.now())
	final := report.FinalScores[key]

	summary := &StudentSummary{
		Student:      *student,
		Descriptors:  s.descriptorTable(ctx, evals, engineCriteria, false)[key],
		Evolutive:    s.descriptorTable(ctx, evals, engineCriteria, true)[key],
		Competencies: report.Scores[key],
		FinalScore:   final,
	}
	if len(summary.Competencies) > 0 {
		summary.FinalGrade = s.Settings().Scales.Task.Classify(final)
	}
	return summary, nil
}

// ComputeDescriptorPayload scores a self-contained payload of the form
// {"criteria": [...], "evaluations": [...], "cohortWeights": {...}}.
func (s *ScoringService) ComputeDescriptorPayload(ctx context.Context, raw []byte, evolutive bool) (scoring.ScoreTable, error) {
	_, span := tracing.StartSpan(ctx, "ScoringService.ComputeDescriptorPayload", "")
	defer span.End()

	criteria, err := ingest.ParseCriteria(raw, "criteria")
	if err != nil {
		return nil, err
	}
	evals, err := ingest.ParseCriterionEvaluations(raw, "evaluations")
	if err != nil {
		return nil, err
	}
	weights, err := ingest.ParseCohortWeights(raw, "cohortWeights", s.Settings().CohortWeights)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	index := scoring.IndexCriteria(criteria)
	if evolutive {
		table := scoring.ComputeDoScoresEvolutive(evals, index, weights)
		monitoring.ObserveScoring("descriptors_evolutive", len(evals), start)
		return table, nil
	}
	table := scoring.ComputeDoScores(evals, index)
	monitoring.ObserveScoring("descriptors", len(evals), start)
	return table, nil
}

// ComputeCompetencyPayload scores {"evaluations": [...], "competencies": [...],
// "now": ts}. Without "now" the server clock is used.
func (s *ScoringService) ComputeCompetencyPayload(ctx context.Context, raw []byte) (*CompetencyReport, error) {
	ctx, span := tracing.StartSpan(ctx, "ScoringService.ComputeCompetencyPayload", "")
	defer span.End()

	evals, err := ingest.ParseLinkedEvaluations(raw, "evaluations", s.Settings().Scales)
	if err != nil {
		return nil, err
	}
	competencies, err := ingest.ParseCompetencies(raw, "competencies")
	if err != nil {
		return nil, err
	}

	now := ingest.Timestamp(gjson.GetBytes(raw, "now"))
	if now.IsZero() {
		now = s.now()
	}
	return s.competencyReport(ctx, evals, competencies, now), nil
}
