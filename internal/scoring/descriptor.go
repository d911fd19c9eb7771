package scoring

import (
	"math"
	"strings"
	"time"
)

// CriterionEvaluation 针对单个评价标准的一次评分（0-4）
type CriterionEvaluation struct {
	StudentID   string    `json:"studentId"`
	CriterionID string    `json:"criterionId"`
	Score       float64   `json:"score"`
	Weight      *float64  `json:"weight,omitempty"`
	At          time.Time `json:"at"`
}

// Criterion belongs to one course (5 or 6) and fans out to descriptor codes.
type Criterion struct {
	ID              string   `json:"id"`
	Course          int      `json:"course"`
	DescriptorCodes []string `json:"descriptorCodes"`
	Weight          *float64 `json:"weight,omitempty"`
}

type CriterionIndex map[string]Criterion

func IndexCriteria(criteria []Criterion) CriterionIndex {
	idx := make(CriterionIndex, len(criteria))
	for _, c := range criteria {
		idx[c.ID] = c
	}
	return idx
}

// CohortWeights 两个年级证据的信任权重
type CohortWeights struct {
	Course5 float64 `json:"course5" mapstructure:"course5"`
	Course6 float64 `json:"course6" mapstructure:"course6"`
}

var DefaultCohortWeights = CohortWeights{Course5: 0.4, Course6: 0.6}

// NormalizeDescriptorCode trims and upper-cases a DO code.
func NormalizeDescriptorCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// resolveWeight picks evaluation weight, then criterion weight, then 1.
func resolveWeight(ev CriterionEvaluation, c Criterion) float64 {
	if ev.Weight != nil {
		return *ev.Weight
	}
	if c.Weight != nil {
		return *c.Weight
	}
	return 1
}

// criterionContribution is one filtered evaluation ready for fan-out.
type criterionContribution struct {
	studentID string
	course    int
	codes     []string
	score     float64
	weight    float64
	at        time.Time
}

func contributions(evals []CriterionEvaluation, index CriterionIndex) []criterionContribution {
	out := make([]criterionContribution, 0, len(evals))
	for _, ev := range evals {
		c, ok := index[ev.CriterionID]
		if !ok {
			continue
		}
		w := resolveWeight(ev, c)
		if !positive(w) || math.IsInf(w, 1) {
			continue
		}
		codes := descriptorCodes(c)
		if len(codes) == 0 {
			continue
		}
		out = append(out, criterionContribution{
			studentID: ev.StudentID,
			course:    c.Course,
			codes:     codes,
			score:     clamp(ev.Score, CriterionScoreMin, CriterionScoreMax),
			weight:    w,
			at:        ev.At,
		})
	}
	return out
}

func descriptorCodes(c Criterion) []string {
	seen := make(map[string]bool, len(c.DescriptorCodes))
	codes := make([]string, 0, len(c.DescriptorCodes))
	for _, raw := range c.DescriptorCodes {
		code := NormalizeDescriptorCode(raw)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes
}

type accTable map[string]map[string]*accumulator

func (t accTable) get(studentID, code string) *accumulator {
	row, ok := t[studentID]
	if !ok {
		row = make(map[string]*accumulator)
		t[studentID] = row
	}
	acc, ok := row[code]
	if !ok {
		acc = &accumulator{}
		row[code] = acc
	}
	return acc
}

func (t accTable) lookup(studentID, code string) *accumulator {
	if row, ok := t[studentID]; ok {
		return row[code]
	}
	return nil
}

// ComputeDoScores rolls criterion evaluations up to per-student descriptor
// averages. Evaluations whose criterion is missing from index, or whose
// resolved weight is not positive, are dropped.
func ComputeDoScores(evals []CriterionEvaluation, index CriterionIndex) ScoreTable {
	accs := make(accTable)
	for _, c := range contributions(evals, index) {
		for _, code := range c.codes {
			accs.get(c.studentID, code).add(c.score, c.weight, c.at)
		}
	}

	out := make(ScoreTable, len(accs))
	for student, row := range accs {
		res := make(map[string]AggregationResult, len(row))
		for code, acc := range row {
			res[code] = acc.result()
		}
		out[student] = res
	}
	return out
}

// ComputeDoScoresEvolutive accumulates course 5 and course 6 evidence
// separately and blends the two averages with the cohort weights.
func ComputeDoScoresEvolutive(evals []CriterionEvaluation, index CriterionIndex, weights CohortWeights) ScoreTable {
	acc5 := make(accTable)
	acc6 := make(accTable)
	for _, c := range contributions(evals, index) {
		var target accTable
		switch c.course {
		case 5:
			target = acc5
		case 6:
			target = acc6
		default:
			continue
		}
		for _, code := range c.codes {
			target.get(c.studentID, code).add(c.score, c.weight, c.at)
		}
	}

	s5, s6, pool := cohortShares(weights)

	out := make(ScoreTable)
	visit := func(student, code string) {
		if _, done := out.Get(student, code); done {
			return
		}
		r := blend(acc5.lookup(student, code), acc6.lookup(student, code), s5, s6, pool)
		row, ok := out[student]
		if !ok {
			row = make(map[string]AggregationResult)
			out[student] = row
		}
		row[code] = r
	}
	for student, row := range acc5 {
		for code := range row {
			visit(student, code)
		}
	}
	for student, row := range acc6 {
		for code := range row {
			visit(student, code)
		}
	}
	return out
}

// cohortShares turns configured cohort weights into blend shares. NaN counts
// as 0. When the configured pair sums to 0, or nothing positive is left once
// negative weights are dropped, pool reports that raw sums should be pooled.
// A single +Inf weight gives that course the whole blend.
func cohortShares(w CohortWeights) (s5, s6 float64, pool bool) {
	w5, w6 := w.Course5, w.Course6
	if math.IsNaN(w5) {
		w5 = 0
	}
	if math.IsNaN(w6) {
		w6 = 0
	}

	inf5, inf6 := math.IsInf(w5, 1), math.IsInf(w6, 1)
	switch {
	case inf5 && inf6:
		return 0, 0, true
	case inf5:
		return 1, 0, false
	case inf6:
		return 0, 1, false
	}

	if w5+w6 == 0 {
		return 0, 0, true
	}
	w5, w6 = math.Max(w5, 0), math.Max(w6, 0)
	if w5+w6 == 0 {
		return 0, 0, true
	}
	return w5 / (w5 + w6), w6 / (w5 + w6), false
}

func blend(a5, a6 *accumulator, s5, s6 float64, pool bool) AggregationResult {
	var sw5, sw6, svw5, svw6 float64
	var n int
	var latest time.Time
	if a5 != nil {
		sw5, svw5, n = a5.sumWeight, a5.sumWeighted, n+a5.count
		latest = a5.latest
	}
	if a6 != nil {
		sw6, svw6, n = a6.sumWeight, a6.sumWeighted, n+a6.count
		if a6.latest.After(latest) {
			latest = a6.latest
		}
	}

	var avg float64
	switch {
	case sw5 > 0 && sw6 > 0:
		if pool {
			// degenerate cohort config: pool the raw sums
			avg = (svw5 + svw6) / (sw5 + sw6)
		} else {
			avg = a5.mean()*s5 + a6.mean()*s6
		}
	case sw5 > 0:
		avg = a5.mean()
	case sw6 > 0:
		avg = a6.mean()
	}

	return AggregationResult{
		Average:     avg,
		WeightTotal: sw5 + sw6,
		Count:       n,
		LatestAt:    latestPtr(latest),
	}
}
