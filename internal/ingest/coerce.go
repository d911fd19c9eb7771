// Package ingest converts loosely shaped evaluation records (store exports,
// import payloads) into the typed values the scoring engine works on. All
// coercion happens here, once.
package ingest

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

var ErrInvalidPayload = errors.New("payload is not valid JSON")

// records selects the record list at path; an empty path means the document
// root. A single object is treated as a one-element list.
func records(raw []byte, path string) ([]gjson.Result, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidPayload
	}
	var r gjson.Result
	if path == "" {
		r = gjson.ParseBytes(raw)
	} else {
		r = gjson.GetBytes(raw, path)
	}
	switch {
	case r.IsArray():
		return r.Array(), nil
	case r.IsObject():
		return []gjson.Result{r}, nil
	}
	return nil, nil
}

// first returns the first existing field among names.
func first(r gjson.Result, names ...string) gjson.Result {
	for _, n := range names {
		if v := r.Get(n); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

// Number coerces numbers and numeric strings; everything else is 0.
func Number(r gjson.Result) float64 {
	switch r.Type {
	case gjson.Number:
		return r.Num
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0
		}
		return f
	case gjson.True:
		return 1
	}
	return 0
}

// OptionalNumber is nil when the field is absent, null or not numeric.
func OptionalNumber(r gjson.Result) *float64 {
	switch r.Type {
	case gjson.Number:
		v := r.Num
		return &v
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return nil
		}
		return &f
	}
	return nil
}

// Text returns strings as-is (trimmed) and numeric ids in decimal form.
func Text(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return strings.TrimSpace(r.Str)
	case gjson.Number:
		return r.Raw
	}
	return ""
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

// Timestamp accepts RFC3339 / date strings, epoch milliseconds and
// {seconds, nanoseconds} store timestamps. Unparseable input is the zero time.
func Timestamp(r gjson.Result) time.Time {
	switch r.Type {
	case gjson.Number:
		return time.UnixMilli(r.Int()).UTC()
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC()
		}
	case gjson.JSON:
		sec := first(r, "seconds", "_seconds")
		if !sec.Exists() {
			return time.Time{}
		}
		nsec := first(r, "nanoseconds", "_nanoseconds")
		return time.Unix(sec.Int(), nsec.Int()).UTC()
	}
	return time.Time{}
}

// Strings reads an array of strings or a comma separated string.
func Strings(r gjson.Result) []string {
	var out []string
	if r.IsArray() {
		for _, v := range r.Array() {
			if s := Text(v); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	for _, s := range strings.Split(Text(r), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
