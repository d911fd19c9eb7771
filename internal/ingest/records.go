package ingest

import (
	"strings"

	"edu_eval_backend/internal/scoring"

	"github.com/tidwall/gjson"
)

// Scales carries the anchor tables used to derive numeric values from ratings.
type Scales struct {
	Task      scoring.GradeScale
	Situation scoring.GradeScale
}

func (s Scales) For(kind scoring.EvaluationKind) scoring.GradeScale {
	if kind == scoring.KindSituation {
		return s.Situation
	}
	return s.Task
}

func ParseCriteria(raw []byte, path string) ([]scoring.Criterion, error) {
	rs, err := records(raw, path)
	if err != nil {
		return nil, err
	}
	out := make([]scoring.Criterion, 0, len(rs))
	for _, r := range rs {
		id := Text(first(r, "id", "criterionId", "code"))
		if id == "" {
			continue
		}
		out = append(out, scoring.Criterion{
			ID:              id,
			Course:          int(Number(first(r, "course", "curso"))),
			DescriptorCodes: Strings(first(r, "descriptorCodes", "descriptors", "doCodes")),
			Weight:          OptionalNumber(first(r, "weight", "peso")),
		})
	}
	return out, nil
}

func ParseCriterionEvaluations(raw []byte, path string) ([]scoring.CriterionEvaluation, error) {
	rs, err := records(raw, path)
	if err != nil {
		return nil, err
	}
	out := make([]scoring.CriterionEvaluation, 0, len(rs))
	for _, r := range rs {
		out = append(out, scoring.CriterionEvaluation{
			StudentID:   Text(first(r, "studentId", "alumnoId")),
			CriterionID: Text(first(r, "criterionId", "criterioId")),
			Score:       Number(first(r, "score", "nota")),
			Weight:      OptionalNumber(first(r, "weight", "peso")),
			At:          Timestamp(first(r, "at", "timestamp", "createdAt", "fecha")),
		})
	}
	return out, nil
}

func parseKind(r gjson.Result) scoring.EvaluationKind {
	switch strings.ToLower(Text(first(r, "kind", "type"))) {
	case "situation", "situacion":
		return scoring.KindSituation
	case "task", "tarea":
		return scoring.KindTask
	}
	if r.Get("situationId").Exists() {
		return scoring.KindSituation
	}
	return scoring.KindTask
}

// ParseLinkedEvaluations reads task / situation evaluations. A record without
// a usable numericValue takes the anchor of its rating on the kind's scale.
func ParseLinkedEvaluations(raw []byte, path string, scales Scales) ([]scoring.LinkedEvaluation, error) {
	rs, err := records(raw, path)
	if err != nil {
		return nil, err
	}
	out := make([]scoring.LinkedEvaluation, 0, len(rs))
	for _, r := range rs {
		kind := parseKind(r)
		rating, _ := scoring.ParseGradeKey(Text(first(r, "rating", "grade")))

		value := 0.0
		if v := OptionalNumber(first(r, "numericValue", "value")); v != nil {
			value = *v
		} else if rating != "" {
			value = scales.For(kind).ValueOf(rating)
		}

		var links []scoring.CompetencyLink
		for _, l := range first(r, "links", "competencias").Array() {
			links = append(links, scoring.CompetencyLink{
				CompetenciaID: Text(first(l, "competenciaId", "competencyId", "id")),
				Weight:        Number(first(l, "weight", "peso")),
			})
		}

		out = append(out, scoring.LinkedEvaluation{
			StudentID:    Text(first(r, "studentId", "alumnoId")),
			TargetID:     Text(first(r, "targetId", "taskId", "situationId")),
			Kind:         kind,
			Rating:       rating,
			NumericValue: value,
			Links:        links,
			At:           Timestamp(first(r, "timestamp", "at", "createdAt", "fecha")),
		})
	}
	return out, nil
}

func ParseCompetencies(raw []byte, path string) ([]scoring.Competency, error) {
	rs, err := records(raw, path)
	if err != nil {
		return nil, err
	}
	out := make([]scoring.Competency, 0, len(rs))
	for _, r := range rs {
		id := Text(first(r, "id", "code"))
		if id == "" {
			continue
		}
		out = append(out, scoring.Competency{ID: id, Weight: OptionalNumber(first(r, "weight", "peso"))})
	}
	return out, nil
}

func ParseAreaEvaluations(raw []byte, path string) ([]scoring.AreaEvaluation, error) {
	rs, err := records(raw, path)
	if err != nil {
		return nil, err
	}
	out := make([]scoring.AreaEvaluation, 0, len(rs))
	for _, r := range rs {
		out = append(out, scoring.AreaEvaluation{
			StudentID: Text(first(r, "studentId", "alumnoId")),
			Area:      Text(first(r, "area", "subject", "materia")),
			Score:     Number(first(r, "score", "nota")),
		})
	}
	return out, nil
}

func ParseExportStudents(raw []byte, path string) ([]scoring.ExportStudent, error) {
	rs, err := records(raw, path)
	if err != nil {
		return nil, err
	}
	out := make([]scoring.ExportStudent, 0, len(rs))
	for _, r := range rs {
		out = append(out, scoring.ExportStudent{
			ID:         Text(first(r, "id", "studentId")),
			NIA:        Text(first(r, "nia", "NIA")),
			GivenName:  Text(first(r, "givenName", "nombre", "firstName")),
			Surname:    Text(first(r, "surname", "apellidos", "lastName")),
			Course:     Text(first(r, "course", "curso")),
			ListNumber: int(Number(first(r, "listNumber", "numeroLista"))),
		})
	}
	return out, nil
}

// ParseCohortWeights reads {course5, course6}; missing fields keep the
// fallback values.
func ParseCohortWeights(raw []byte, path string, fallback scoring.CohortWeights) (scoring.CohortWeights, error) {
	if !gjson.ValidBytes(raw) {
		return fallback, ErrInvalidPayload
	}
	r := gjson.GetBytes(raw, path)
	if !r.IsObject() {
		return fallback, nil
	}
	w := fallback
	if v := OptionalNumber(first(r, "course5", "curso5", "5")); v != nil {
		w.Course5 = *v
	}
	if v := OptionalNumber(first(r, "course6", "curso6", "6")); v != nil {
		w.Course6 = *v
	}
	return w, nil
}
