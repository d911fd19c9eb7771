package util

import "errors"

var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrCriterionNotFound  = errors.New("criterion not found")
	ErrGroupEmpty         = errors.New("group has no students")
	ErrInvalidRating      = errors.New("rating must be one of RED, YELLOW, GREEN, BLUE")
	ErrInvalidKind        = errors.New("kind must be task or situation")
	ErrNoCompetencyLinks  = errors.New("evaluation must link at least one competency")
	ErrUnknownAnchorTable = errors.New("unknown anchor table, expected linear or centered")
	ErrScoreOutOfRange    = errors.New("score must be between 0 and 4")
	ErrValueOutOfRange    = errors.New("numeric value must be between 0 and 10")
)
