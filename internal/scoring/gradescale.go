package scoring

import (
	"errors"
	"math"
	"strings"
)

// GradeKey 四级定性评价符号（低 -> 高）
type GradeKey string

const (
	GradeRed    GradeKey = "RED"
	GradeYellow GradeKey = "YELLOW"
	GradeGreen  GradeKey = "GREEN"
	GradeBlue   GradeKey = "BLUE"
)

// GradeKeys lists the vocabulary in ascending order.
var GradeKeys = []GradeKey{GradeRed, GradeYellow, GradeGreen, GradeBlue}

// ParseGradeKey normalizes a raw rating. Unknown input yields "" and false.
func ParseGradeKey(s string) (GradeKey, bool) {
	k := GradeKey(strings.ToUpper(strings.TrimSpace(s)))
	switch k {
	case GradeRed, GradeYellow, GradeGreen, GradeBlue:
		return k, true
	}
	return "", false
}

var ErrAnchorsNotAscending = errors.New("grade anchors must be finite and strictly ascending")

// AnchorTable 各符号对应的数值锚点
type AnchorTable struct {
	Red    float64 `json:"red" mapstructure:"red" yaml:"red"`
	Yellow float64 `json:"yellow" mapstructure:"yellow" yaml:"yellow"`
	Green  float64 `json:"green" mapstructure:"green" yaml:"green"`
	Blue   float64 `json:"blue" mapstructure:"blue" yaml:"blue"`
}

// The two anchor tables in use today. Tasks and situations disagree on the
// numeric meaning of the same symbols; callers pick one explicitly.
var (
	LinearAnchors   = AnchorTable{Red: 2.5, Yellow: 5.0, Green: 7.5, Blue: 10.0}
	CenteredAnchors = AnchorTable{Red: 3.5, Yellow: 5.5, Green: 7.5, Blue: 9.5}
)

// AnchorsByName resolves a configured table name ("linear" / "centered").
func AnchorsByName(name string) (AnchorTable, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linear":
		return LinearAnchors, true
	case "centered":
		return CenteredAnchors, true
	}
	return AnchorTable{}, false
}

func (a AnchorTable) values() [4]float64 {
	return [4]float64{a.Red, a.Yellow, a.Green, a.Blue}
}

// GradeScale maps grade keys to numbers and back using one anchor table.
type GradeScale struct {
	anchors AnchorTable
}

func NewGradeScale(anchors AnchorTable) (GradeScale, error) {
	v := anchors.values()
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return GradeScale{}, ErrAnchorsNotAscending
		}
		if i > 0 && x <= v[i-1] {
			return GradeScale{}, ErrAnchorsNotAscending
		}
	}
	return GradeScale{anchors: anchors}, nil
}

func (s GradeScale) Anchors() AnchorTable {
	return s.anchors
}

// ValueOf returns the anchor for key, 0 for an unknown key.
func (s GradeScale) ValueOf(key GradeKey) float64 {
	switch key {
	case GradeRed:
		return s.anchors.Red
	case GradeYellow:
		return s.anchors.Yellow
	case GradeGreen:
		return s.anchors.Green
	case GradeBlue:
		return s.anchors.Blue
	}
	return 0
}

// Classify uses the midpoints between adjacent anchors as breakpoints; a
// value sitting exactly on a midpoint goes to the upper symbol.
func (s GradeScale) Classify(value float64) GradeKey {
	if math.IsNaN(value) {
		return GradeRed
	}
	a := s.anchors
	switch {
	case value >= (a.Green+a.Blue)/2:
		return GradeBlue
	case value >= (a.Yellow+a.Green)/2:
		return GradeGreen
	case value >= (a.Red+a.Yellow)/2:
		return GradeYellow
	default:
		return GradeRed
	}
}

// Average is the unweighted mean, 0 for an empty slice.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
