package scoring

import (
	"math"
	"strings"
	"time"
)

// EvaluationKind 关联评价来源：任务 / 情境
type EvaluationKind string

const (
	KindTask      EvaluationKind = "task"
	KindSituation EvaluationKind = "situation"
)

// CompetencyLink ties an evaluation to one competency.
type CompetencyLink struct {
	CompetenciaID string  `json:"competenciaId"`
	Weight        float64 `json:"weight"`
}

// LinkedEvaluation is a task or situation judgment fanning out to
// competencies through weighted links.
type LinkedEvaluation struct {
	StudentID    string           `json:"studentId"`
	TargetID     string           `json:"targetId"`
	Kind         EvaluationKind   `json:"kind"`
	Rating       GradeKey         `json:"rating"`
	NumericValue float64          `json:"numericValue"`
	Links        []CompetencyLink `json:"links"`
	At           time.Time        `json:"at"`
}

// Competency carries an optional weight expressed as a percentage (0-100).
type Competency struct {
	ID     string   `json:"id"`
	Weight *float64 `json:"weight,omitempty"`
}

// CompetencyScore 单个能力的聚合结果
type CompetencyScore struct {
	AggregationResult
	LatestValue float64 `json:"latestValue"`
	Trend       Trend   `json:"trend"`
}

// CompetencyTable is keyed by student id, then competency id.
type CompetencyTable map[string]map[string]CompetencyScore

type linkShare struct {
	id    string
	share float64
}

// distributeLinks returns each distinct competency's share of one evaluation.
// Shares sum to 1. With no positive weight, the evaluation is split equally
// across distinct ids, never across raw links.
func distributeLinks(links []CompetencyLink) []linkShare {
	total := 0.0
	for _, l := range links {
		if strings.TrimSpace(l.CompetenciaID) == "" {
			continue
		}
		if positive(l.Weight) && !math.IsInf(l.Weight, 1) {
			total += l.Weight
		}
	}

	order := make([]string, 0, len(links))
	shares := make(map[string]float64, len(links))
	touch := func(id string) {
		if _, ok := shares[id]; !ok {
			order = append(order, id)
			shares[id] = 0
		}
	}

	if total > 0 {
		for _, l := range links {
			id := strings.TrimSpace(l.CompetenciaID)
			if id == "" || !positive(l.Weight) || math.IsInf(l.Weight, 1) {
				continue
			}
			touch(id)
			shares[id] += l.Weight / total
		}
	} else {
		// pass 1: distinct ids
		for _, l := range links {
			if id := strings.TrimSpace(l.CompetenciaID); id != "" {
				touch(id)
			}
		}
		// pass 2: equal split
		for _, id := range order {
			shares[id] = 1 / float64(len(order))
		}
	}

	out := make([]linkShare, 0, len(order))
	for _, id := range order {
		out = append(out, linkShare{id: id, share: shares[id]})
	}
	return out
}

// competencyAcc tracks one (student, competency) pair.
type competencyAcc struct {
	accumulator
	latestValue float64
	latestSet   bool
	quarters    map[string]*accumulator
}

func (c *competencyAcc) record(value, share float64, at time.Time) {
	if !c.latestSet || !at.Before(c.latest) {
		c.latestValue = value
		c.latestSet = true
	}
	c.add(value, share, at)
	if at.IsZero() {
		return
	}
	key := QuarterKey(at)
	q, ok := c.quarters[key]
	if !ok {
		q = &accumulator{}
		c.quarters[key] = q
	}
	q.add(value, share, at)
}

func (c *competencyAcc) trend(now time.Time) Trend {
	cur := QuarterKey(now)
	return detectTrend(c.quarters[cur], c.quarters[PreviousQuarterKey(cur)])
}

// ComputeCompetencyScores rolls task and situation evaluations up to
// per-student competency averages. now selects the current quarter used for
// the trend.
func ComputeCompetencyScores(evals []LinkedEvaluation, now time.Time) CompetencyTable {
	accs := make(map[string]map[string]*competencyAcc)
	for _, ev := range evals {
		value := clamp(ev.NumericValue, LinkedValueMin, LinkedValueMax)
		for _, ls := range distributeLinks(ev.Links) {
			row, ok := accs[ev.StudentID]
			if !ok {
				row = make(map[string]*competencyAcc)
				accs[ev.StudentID] = row
			}
			acc, ok := row[ls.id]
			if !ok {
				acc = &competencyAcc{quarters: make(map[string]*accumulator)}
				row[ls.id] = acc
			}
			acc.record(value, ls.share, ev.At)
		}
	}

	out := make(CompetencyTable, len(accs))
	for student, row := range accs {
		res := make(map[string]CompetencyScore, len(row))
		for id, acc := range row {
			res[id] = CompetencyScore{
				AggregationResult: acc.result(),
				LatestValue:       acc.latestValue,
				Trend:             acc.trend(now),
			}
		}
		out[student] = res
	}
	return out
}

// FinalScore combines a student's competency averages. Competency weights are
// percentages; when none is configured, or the configured weights of the
// evaluated competencies total 0, every evaluated competency counts equally.
// Once any competency carries a weight, a competency without one weighs 0 and
// does not move the score.
func FinalScore(scores map[string]CompetencyScore, competencies []Competency) float64 {
	weights := make(map[string]float64, len(competencies))
	anyWeight := false
	for _, c := range competencies {
		if c.Weight == nil || math.IsNaN(*c.Weight) || math.IsInf(*c.Weight, 0) {
			continue
		}
		anyWeight = true
		if *c.Weight > 0 {
			weights[c.ID] = *c.Weight / 100
		}
	}

	var values []float64
	var sumWeighted, sumWeight float64
	for id, s := range scores {
		if s.Count == 0 {
			continue
		}
		values = append(values, s.Average)
		if w, ok := weights[id]; ok {
			sumWeighted += s.Average * w
			sumWeight += w
		}
	}

	if anyWeight && sumWeight > 0 {
		return sumWeighted / sumWeight
	}
	return Average(values)
}

// FinalScores applies FinalScore to every student in the table.
func FinalScores(table CompetencyTable, competencies []Competency) map[string]float64 {
	out := make(map[string]float64, len(table))
	for student, scores := range table {
		out[student] = FinalScore(scores, competencies)
	}
	return out
}
