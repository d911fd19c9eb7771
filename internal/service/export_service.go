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
	"fmt"
	"os"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Uploader interface {
	UploadBytes(ctx context.Context, filename string, data []byte, contentType string) (string, error)
}

type ExportRecorder interface {
	Create(e *model.XadeExport) error
	ListByGroup(group string, page, limit int) ([]model.XadeExport, int64, error)
}

// ExportReport 一次班级导出的结果
type ExportReport struct {
	ID            string   `json:"id"`
	GroupCode     string   `json:"groupCode"`
	ObjectKey     string   `json:"objectKey"`
	URL           string   `json:"url"`
	Rows          int      `json:"rows"`
	UnmappedAreas []string `json:"unmappedAreas"`
}

const unmappedSeparator = "\n"

type ExportService struct {
	students    StudentSource
	curriculum  CurriculumSource
	evaluations EvaluationSource
	uploader    Uploader
	recorder    ExportRecorder
	transcoder  atomic.Pointer[scoring.Transcoder]
	prefix      atomic.Pointer[string]
	now         func() time.Time
}

func NewExportService(
	students StudentSource,
	curriculum CurriculumSource,
	evaluations EvaluationSource,
	uploader Uploader,
	recorder ExportRecorder,
	cfg config.ExportConfig,
) (*ExportService, error) {
	s := &ExportService{
		students:    students,
		curriculum:  curriculum,
		evaluations: evaluations,
		uploader:    uploader,
		recorder:    recorder,
		now:         time.Now,
	}
	if err := s.ApplyConfig(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// NewTranscoderFromConfig builds the transcoder from the delimiter and the
// optional YAML column catalog.
func NewTranscoderFromConfig(cfg config.ExportConfig) (*scoring.Transcoder, error) {
	delimiter := scoring.DefaultExportDelimiter
	if r := []rune(cfg.Delimiter); len(r) == 1 {
		delimiter = r[0]
	}

	var columns []scoring.Column
	if cfg.ColumnsFile != "" {
		f, err := os.Open(cfg.ColumnsFile)
		if err != nil {
			return nil, errors.Wrap(err, "open export columns")
		}
		defer f.Close()
		columns, err = scoring.LoadColumns(f)
		if err != nil {
			return nil, errors.Wrapf(err, "parse export columns %s", cfg.ColumnsFile)
		}
	}
	return scoring.NewTranscoder(columns, delimiter), nil
}

func (s *ExportService) ApplyConfig(cfg config.ExportConfig) error {
	t, err := NewTranscoderFromConfig(cfg)
	if err != nil {
		return err
	}
	prefix := strings.Trim(cfg.Prefix, "/")
	s.transcoder.Store(t)
	s.prefix.Store(&prefix)
	return nil
}

func (s *ExportService) Transcoder() *scoring.Transcoder {
	return s.transcoder.Load()
}

func (s *ExportService) objectKey(group, id string) string {
	name := fmt.Sprintf("%s-%s-%s.csv", group, s.now().Format("20060102"), id[:8])
	return path.Join(*s.prefix.Load(), group, name)
}

func reportUnmapped(group string, areas []string) {
	if len(areas) == 0 {
		return
	}
	monitoring.UnmappedExportAreas.Add(float64(len(areas)))
	logger.Log.Warn("XADE export left areas unmapped",
		zap.String("group", group),
		zap.Strings("areas", areas),
	)
}

// ExportGroup 生成班级 XADE 表并上传
func (s *ExportService) ExportGroup(ctx context.Context, group string, creatorID uint) (*ExportReport, error) {
	ctx, span := tracing.StartSpan(ctx, "ExportService.ExportGroup", group)
	defer span.End()

	students, err := s.students.ListByGroup(group)
	if err != nil {
		return nil, errors.Wrapf(err, "list students of %s", group)
	}
	if len(students) == 0 {
		return nil, util.ErrGroupEmpty
	}
	criteria, err := s.curriculum.ListCriteria()
	if err != nil {
		return nil, errors.Wrap(err, "list criteria")
	}
	evals, err := s.evaluations.ListCriterionEvaluations(studentIDs(students))
	if err != nil {
		return nil, errors.Wrap(err, "list criterion evaluations")
	}

	start := time.Now()
	result, err := s.Transcoder().Export(toExportStudents(students), toAreaEvaluations(evals, criteria))
	if err != nil {
		return nil, errors.Wrap(err, "render xade table")
	}
	monitoring.ObserveScoring("xade_export", len(evals), start)
	reportUnmapped(group, result.UnmappedAreas)

	id := model.GenerateUUID()
	key := s.objectKey(group, id)
	url, err := s.uploader.UploadBytes(ctx, key, []byte(result.Table), util.MimeCSV)
	if err != nil {
		return nil, errors.Wrap(err, "upload export")
	}

	record := &model.XadeExport{
		UUIDBase:      model.UUIDBase{ID: id},
		GroupCode:     group,
		ObjectKey:     key,
		URL:           url,
		Rows:          len(result.Rows),
		UnmappedAreas: strings.Join(result.UnmappedAreas, unmappedSeparator),
		CreatorID:     creatorID,
	}
	if err := s.recorder.Create(record); err != nil {
		return nil, errors.Wrap(err, "record export")
	}

	logger.Log.Info("XADE export created",
		zap.String("group", group),
		zap.String("object", key),
		zap.Int("rows", record.Rows),
	)
	return &ExportReport{
		ID:            record.ID,
		GroupCode:     group,
		ObjectKey:     key,
		URL:           url,
		Rows:          record.Rows,
		UnmappedAreas: result.UnmappedAreas,
	}, nil
}

// ComputePayload renders {"students": [...], "evaluations": [...]} without
// touching storage.
func (s *ExportService) ComputePayload(ctx context.Context, raw []byte) (scoring.ExportResult, error) {
	_, span := tracing.StartSpan(ctx, "ExportService.ComputePayload", "")
	defer span.End()

	students, err := ingest.ParseExportStudents(raw, "students")
	if err != nil {
		return scoring.ExportResult{}, err
	}
	evals, err := ingest.ParseAreaEvaluations(raw, "evaluations")
	if err != nil {
		return scoring.ExportResult{}, err
	}

	start := time.Now()
	result, err := s.Transcoder().Export(students, evals)
	if err != nil {
		return scoring.ExportResult{}, errors.Wrap(err, "render xade table")
	}
	monitoring.ObserveScoring("xade_export", len(evals), start)
	reportUnmapped("", result.UnmappedAreas)
	return result, nil
}

// History 班级导出记录（分页）
func (s *ExportService) History(group string, page, limit int) ([]ExportReport, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	records, total, err := s.recorder.ListByGroup(group, page, limit)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list exports")
	}
	out := make([]ExportReport, 0, len(records))
	for _, r := range records {
		areas := []string{}
		if r.UnmappedAreas != "" {
			areas = strings.Split(r.UnmappedAreas, unmappedSeparator)
		}
		out = append(out, ExportReport{
			ID:            r.ID,
			GroupCode:     r.GroupCode,
			ObjectKey:     r.ObjectKey,
			URL:           r.URL,
			Rows:          r.Rows,
			UnmappedAreas: areas,
		})
	}
	return out, total, nil
}
