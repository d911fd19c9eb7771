package service

import (
	"edu_eval_backend/internal/model"
	"edu_eval_backend/internal/scoring"
	"strconv"
)

func idKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func studentIDs(students []model.Student) []uint {
	ids := make([]uint, len(students))
	for i, s := range students {
		ids[i] = s.ID
	}
	return ids
}

func toCriteria(cs []model.Criterion) []scoring.Criterion {
	out := make([]scoring.Criterion, 0, len(cs))
	for _, c := range cs {
		codes := make([]string, 0, len(c.Descriptors))
		for _, d := range c.Descriptors {
			codes = append(codes, d.Code)
		}
		out = append(out, scoring.Criterion{
			ID:              c.Key(),
			Course:          c.Course,
			DescriptorCodes: codes,
			Weight:          c.Weight,
		})
	}
	return out
}

func toCriterionEvaluations(es []model.CriterionEvaluation) []scoring.CriterionEvaluation {
	out := make([]scoring.CriterionEvaluation, 0, len(es))
	for _, e := range es {
		out = append(out, scoring.CriterionEvaluation{
			StudentID:   idKey(e.StudentID),
			CriterionID: idKey(e.CriterionID),
			Score:       e.Score,
			Weight:      e.Weight,
			At:          e.EvaluatedAt,
		})
	}
	return out
}

func toLinkedEvaluations(es []model.LinkedEvaluation) []scoring.LinkedEvaluation {
	out := make([]scoring.LinkedEvaluation, 0, len(es))
	for _, e := range es {
		links := make([]scoring.CompetencyLink, 0, len(e.Links))
		for _, l := range e.Links {
			links = append(links, scoring.CompetencyLink{CompetenciaID: l.CompetencyCode, Weight: l.Weight})
		}
		out = append(out, scoring.LinkedEvaluation{
			StudentID:    idKey(e.StudentID),
			TargetID:     e.TargetID,
			Kind:         scoring.EvaluationKind(e.Kind),
			Rating:       scoring.GradeKey(e.Rating),
			NumericValue: e.NumericValue,
			Links:        links,
			At:           e.EvaluatedAt,
		})
	}
	return out
}

func toCompetencies(cs []model.Competency) []scoring.Competency {
	out := make([]scoring.Competency, 0, len(cs))
	for _, c := range cs {
		out = append(out, scoring.Competency{ID: c.Code, Weight: c.Weight})
	}
	return out
}

func toExportStudents(ss []model.Student) []scoring.ExportStudent {
	out := make([]scoring.ExportStudent, 0, len(ss))
	for _, s := range ss {
		out = append(out, scoring.ExportStudent{
			ID:         s.Key(),
			NIA:        s.NIA,
			GivenName:  s.GivenName,
			Surname:    s.Surname,
			Course:     strconv.Itoa(s.Course),
			ListNumber: s.ListNumber,
		})
	}
	return out
}

// toAreaEvaluations tags each criterion score with its curriculum area. The
// subject stands in when a criterion has no area; evaluations of unknown
// criteria are dropped.
func toAreaEvaluations(es []model.CriterionEvaluation, criteria []model.Criterion) []scoring.AreaEvaluation {
	areas := make(map[uint]string, len(criteria))
	for _, c := range criteria {
		area := c.Area
		if area == "" {
			area = c.Subject
		}
		areas[c.ID] = area
	}

	out := make([]scoring.AreaEvaluation, 0, len(es))
	for _, e := range es {
		area, ok := areas[e.CriterionID]
		if !ok {
			continue
		}
		out = append(out, scoring.AreaEvaluation{
			StudentID: idKey(e.StudentID),
			Area:      area,
			Score:     e.Score,
		})
	}
	return out
}
