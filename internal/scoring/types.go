// Package scoring turns raw evaluation records into descriptor, competency
// and subject-area scores.
//
// Everything here is a pure function over caller-supplied slices: no I/O, no
// package state, no error path for malformed data. Invalid records are
// dropped from the aggregate they would have fed and degenerate weight
// configurations fall back to a documented substitute computation.
// Memoization belongs to the caller.
package scoring

import (
	"math"
	"time"
)

const (
	CriterionScoreMin = 0.0
	CriterionScoreMax = 4.0
	LinkedValueMin    = 0.0
	LinkedValueMax    = 10.0
)

// AggregationResult 聚合输出（描述符 / 能力 通用）
type AggregationResult struct {
	Average     float64    `json:"average"`
	WeightTotal float64    `json:"weightTotal"`
	Count       int        `json:"count"`
	LatestAt    *time.Time `json:"latestAt"`
}

// ScoreTable is keyed by student id, then descriptor code.
type ScoreTable map[string]map[string]AggregationResult

func (t ScoreTable) Get(studentID, code string) (AggregationResult, bool) {
	row, ok := t[studentID]
	if !ok {
		return AggregationResult{}, false
	}
	r, ok := row[code]
	return r, ok
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func positive(w float64) bool {
	return !math.IsNaN(w) && w > 0
}

// accumulator 加权累加器
type accumulator struct {
	sumWeighted float64
	sumWeight   float64
	count       int
	latest      time.Time
}

func (a *accumulator) add(value, weight float64, at time.Time) {
	a.sumWeighted += value * weight
	a.sumWeight += weight
	a.count++
	if at.After(a.latest) {
		a.latest = at
	}
}

func (a *accumulator) mean() float64 {
	if a == nil || a.sumWeight == 0 {
		return 0
	}
	return a.sumWeighted / a.sumWeight
}

func latestPtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	out := t
	return &out
}

func (a *accumulator) result() AggregationResult {
	return AggregationResult{
		Average:     a.mean(),
		WeightTotal: a.sumWeight,
		Count:       a.count,
		LatestAt:    latestPtr(a.latest),
	}
}
