package service

import (
	"context"
	"edu_eval_backend/internal/model"
	"edu_eval_backend/internal/scoring"
	"edu_eval_backend/internal/util"
	"edu_eval_backend/pkg/logger"
	"edu_eval_backend/pkg/tracing"
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EvaluationStore interface {
	CreateCriterionEvaluation(e *model.CriterionEvaluation) error
	CreateLinkedEvaluation(e *model.LinkedEvaluation) error
}

// SettingsSource 提供当前评分参数
type SettingsSource interface {
	Settings() *ScoringSettings
}

// CriterionEvaluationRequest 评价标准评分
// swagger:model CriterionEvaluationRequest
type CriterionEvaluationRequest struct {
	StudentID   uint       `json:"studentId" binding:"required"`
	CriterionID uint       `json:"criterionId" binding:"required"`
	Score       float64    `json:"score"`
	Weight      *float64   `json:"weight,omitempty"`
	Comment     string     `json:"comment"`
	EvaluatedAt *time.Time `json:"evaluatedAt,omitempty"`
}

type LinkRequest struct {
	CompetencyCode    string  `json:"competencyCode" binding:"required"`
	SubCompetencyCode string  `json:"subCompetencyCode"`
	Weight            float64 `json:"weight"`
}

// LinkedEvaluationRequest 任务/情境评价；未给出 numericValue 时按评级锚点换算
// swagger:model LinkedEvaluationRequest
type LinkedEvaluationRequest struct {
	StudentID    uint          `json:"studentId" binding:"required"`
	Kind         string        `json:"kind" binding:"required"`
	TargetID     string        `json:"targetId" binding:"required,max=64"`
	Rating       string        `json:"rating"`
	NumericValue *float64      `json:"numericValue,omitempty"`
	Links        []LinkRequest `json:"links" binding:"required,dive"`
	EvaluatedAt  *time.Time    `json:"evaluatedAt,omitempty"`
}

type EvaluationService struct {
	store      EvaluationStore
	students   StudentSource
	curriculum CurriculumSource
	settings   SettingsSource
	now        func() time.Time
}

func NewEvaluationService(store EvaluationStore, students StudentSource, curriculum CurriculumSource, settings SettingsSource) *EvaluationService {
	return &EvaluationService{
		store:      store,
		students:   students,
		curriculum: curriculum,
		settings:   settings,
		now:        time.Now,
	}
}

func (s *EvaluationService) findStudent(id uint) (*model.Student, error) {
	student, err := s.students.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, errors.Wrap(err, "find student")
	}
	return student, nil
}

func (s *EvaluationService) evaluatedAt(at *time.Time) time.Time {
	if at == nil || at.IsZero() {
		return s.now()
	}
	return *at
}

func (s *EvaluationService) RecordCriterionEvaluation(ctx context.Context, teacherID uint, req CriterionEvaluationRequest) (*model.CriterionEvaluation, error) {
	if math.IsNaN(req.Score) || req.Score < scoring.CriterionScoreMin || req.Score > scoring.CriterionScoreMax {
		return nil, util.ErrScoreOutOfRange
	}

	student, err := s.findStudent(req.StudentID)
	if err != nil {
		return nil, err
	}
	_, span := tracing.StartSpan(ctx, "EvaluationService.RecordCriterionEvaluation", student.GroupCode)
	defer span.End()

	if _, err := s.curriculum.FindCriterionByID(req.CriterionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCriterionNotFound
		}
		return nil, errors.Wrap(err, "find criterion")
	}

	ev := &model.CriterionEvaluation{
		StudentID:   student.ID,
		CriterionID: req.CriterionID,
		Score:       req.Score,
		Weight:      req.Weight,
		Comment:     req.Comment,
		TeacherID:   teacherID,
		EvaluatedAt: s.evaluatedAt(req.EvaluatedAt),
	}
	if err := s.store.CreateCriterionEvaluation(ev); err != nil {
		return nil, errors.Wrap(err, "create criterion evaluation")
	}
	return ev, nil
}

// RecordLinkedEvaluation 记录任务/情境评价及其能力关联
func (s *EvaluationService) RecordLinkedEvaluation(ctx context.Context, teacherID uint, req LinkedEvaluationRequest) (*model.LinkedEvaluation, error) {
	kind := scoring.EvaluationKind(strings.ToLower(strings.TrimSpace(req.Kind)))
	if kind != scoring.KindTask && kind != scoring.KindSituation {
		return nil, util.ErrInvalidKind
	}

	var rating scoring.GradeKey
	if req.Rating != "" {
		r, ok := scoring.ParseGradeKey(req.Rating)
		if !ok {
			return nil, util.ErrInvalidRating
		}
		rating = r
	}

	var value float64
	switch {
	case req.NumericValue != nil:
		value = *req.NumericValue
		if math.IsNaN(value) || value < scoring.LinkedValueMin || value > scoring.LinkedValueMax {
			return nil, util.ErrValueOutOfRange
		}
	case rating != "":
		scales := s.settings.Settings().Scales
		value = scales.For(kind).ValueOf(rating)
	default:
		return nil, util.ErrInvalidRating
	}

	links := make([]model.EvaluationLink, 0, len(req.Links))
	for _, l := range req.Links {
		code := strings.TrimSpace(l.CompetencyCode)
		if code == "" {
			continue
		}
		links = append(links, model.EvaluationLink{
			CompetencyCode:    code,
			SubCompetencyCode: strings.TrimSpace(l.SubCompetencyCode),
			Weight:            l.Weight,
		})
	}
	if len(links) == 0 {
		return nil, util.ErrNoCompetencyLinks
	}

	student, err := s.findStudent(req.StudentID)
	if err != nil {
		return nil, err
	}
	_, span := tracing.StartSpan(ctx, "EvaluationService.RecordLinkedEvaluation", student.GroupCode)
	defer span.End()

	ev := &model.LinkedEvaluation{
		StudentID:    student.ID,
		Kind:         string(kind),
		TargetID:     req.TargetID,
		Rating:       string(rating),
		NumericValue: value,
		TeacherID:    teacherID,
		EvaluatedAt:  s.evaluatedAt(req.EvaluatedAt),
		Links:        links,
	}
	if err := s.store.CreateLinkedEvaluation(ev); err != nil {
		return nil, errors.Wrap(err, "create linked evaluation")
	}

	logger.Log.Debug("Linked evaluation recorded",
		zap.Uint("student", student.ID),
		zap.String("kind", ev.Kind),
		zap.Int("links", len(links)),
	)
	return ev, nil
}
