package scoring

import (
	"bytes"
	"encoding/csv"
	"io"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// XadeCode XADE 导出使用的五级成绩代码
type XadeCode string

const (
	XadeIN XadeCode = "IN" // insuficiente
	XadeSU XadeCode = "SU" // suficiente
	XadeBI XadeCode = "BI" // ben
	XadeNT XadeCode = "NT" // notable
	XadeSB XadeCode = "SB" // sobresaliente
)

const DefaultExportDelimiter = ';'

// Transcode maps a 0-4 average onto the XADE code set.
func Transcode(avg float64) XadeCode {
	switch {
	case math.IsNaN(avg), avg <= 0, avg < 2.0:
		return XadeIN
	case avg < 2.5:
		return XadeSU
	case avg < 3.0:
		return XadeBI
	case avg < 3.6:
		return XadeNT
	default:
		return XadeSB
	}
}

// Column is one subject-area column of the export.
type Column struct {
	Key      string   `yaml:"key" json:"key"`
	Header   string   `yaml:"header" json:"header"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// DefaultColumns in export order.
var DefaultColumns = []Column{
	{Key: "LCL", Header: "Lengua Castellana y Literatura", Keywords: []string{"lengua castellana", "castellano", "lingua castela", "lengua", "lingua"}},
	{Key: "LGL", Header: "Lingua Galega e Literatura", Keywords: []string{"lingua galega", "galego", "gallego", "gallega"}},
	{Key: "LEX", Header: "Lengua Extranjera", Keywords: []string{"lengua extranjera", "lingua estranxeira", "ingles", "english", "frances"}},
	{Key: "MAT", Header: "Matematicas", Keywords: []string{"matematic"}},
	{Key: "CN", Header: "Ciencias de la Naturaleza", Keywords: []string{"ciencias de la naturaleza", "ciencias naturales", "naturales", "natureza", "medio natural"}},
	{Key: "CS", Header: "Ciencias Sociales", Keywords: []string{"ciencias sociales", "sociales", "sociais", "medio social"}},
	{Key: "EA", Header: "Educacion Artistica", Keywords: []string{"educacion artistica", "artistica", "plastica", "musica", "arte"}},
	{Key: "EF", Header: "Educacion Fisica", Keywords: []string{"educacion fisica"}},
	{Key: "VSC", Header: "Valores Sociales y Civicos", Keywords: []string{"valores sociales y civicos", "valores", "civicos", "civicas", "etica", "relixion", "religion"}},
}

// LoadColumns reads a YAML column catalog:
//
//	columns:
//	  - key: MAT
//	    header: Matematicas
//	    keywords: [matematic]
func LoadColumns(r io.Reader) ([]Column, error) {
	var doc struct {
		Columns []Column `yaml:"columns"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	out := make([]Column, 0, len(doc.Columns))
	for _, c := range doc.Columns {
		if strings.TrimSpace(c.Key) == "" {
			continue
		}
		if c.Header == "" {
			c.Header = c.Key
		}
		out = append(out, c)
	}
	return out, nil
}

// FoldText lower-cases s and strips combining marks ("Educación" -> "educacion").
func FoldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// ExportStudent 学生名册行
type ExportStudent struct {
	ID         string `json:"id"`
	NIA        string `json:"nia"`
	GivenName  string `json:"givenName"`
	Surname    string `json:"surname"`
	Course     string `json:"course"`
	ListNumber int    `json:"listNumber"`
}

func (s ExportStudent) displayName() string {
	switch {
	case s.Surname == "":
		return s.GivenName
	case s.GivenName == "":
		return s.Surname
	}
	return s.Surname + ", " + s.GivenName
}

// listRank sorts students without a list number after everyone else.
func (s ExportStudent) listRank() int {
	if s.ListNumber <= 0 {
		return math.MaxInt
	}
	return s.ListNumber
}

// AreaEvaluation is a raw 0-4 score tagged with a free-text curriculum area.
type AreaEvaluation struct {
	StudentID string  `json:"studentId"`
	Area      string  `json:"area"`
	Score     float64 `json:"score"`
}

// ExportCell is one (student, column) value; Code is empty without evidence.
type ExportCell struct {
	Column  string   `json:"column"`
	Average float64  `json:"average"`
	Count   int      `json:"count"`
	Code    XadeCode `json:"code"`
}

type ExportRow struct {
	Student ExportStudent `json:"student"`
	Cells   []ExportCell  `json:"cells"`
}

type ExportResult struct {
	Table         string      `json:"table"`
	Rows          []ExportRow `json:"rows"`
	UnmappedAreas []string    `json:"unmappedAreas"`
}

type foldedColumn struct {
	Column
	folded []string
}

// Transcoder resolves areas to columns and renders the export table.
type Transcoder struct {
	columns   []foldedColumn
	delimiter rune
}

func NewTranscoder(columns []Column, delimiter rune) *Transcoder {
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	if !validDelimiter(delimiter) {
		delimiter = DefaultExportDelimiter
	}
	t := &Transcoder{delimiter: delimiter}
	for _, c := range columns {
		fc := foldedColumn{Column: c}
		for _, k := range c.Keywords {
			if f := FoldText(k); f != "" {
				fc.folded = append(fc.folded, f)
			}
		}
		t.columns = append(t.columns, fc)
	}
	return t
}

// validDelimiter mirrors the runes encoding/csv refuses as a separator.
func validDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

func (t *Transcoder) Columns() []Column {
	out := make([]Column, len(t.columns))
	for i, c := range t.columns {
		out[i] = c.Column
	}
	return out
}

// ResolveArea finds the column for a free-text area. The longest matching
// keyword wins; ties go to the earlier column.
func (t *Transcoder) ResolveArea(area string) (Column, bool) {
	idx := t.resolveIndex(area)
	if idx < 0 {
		return Column{}, false
	}
	return t.columns[idx].Column, true
}

func (t *Transcoder) resolveIndex(area string) int {
	folded := FoldText(area)
	if folded == "" {
		return -1
	}
	best, bestLen := -1, 0
	for i, c := range t.columns {
		for _, k := range c.folded {
			if len(k) > bestLen && strings.Contains(folded, k) {
				best, bestLen = i, len(k)
			}
		}
	}
	return best
}

// Export averages each student's scores per column and renders the table.
// Unmapped areas are excluded and reported, never fatal; the error only
// comes from the table writer.
func (t *Transcoder) Export(students []ExportStudent, evals []AreaEvaluation) (ExportResult, error) {
	roster := make(map[string]bool, len(students))
	for _, s := range students {
		roster[s.ID] = true
	}

	type cellAcc struct {
		sum   float64
		count int
	}
	cells := make(map[string][]cellAcc, len(students))
	resolved := make(map[string]int)
	var unmapped []string
	seenUnmapped := make(map[string]bool)

	for _, ev := range evals {
		idx, ok := resolved[ev.Area]
		if !ok {
			idx = t.resolveIndex(ev.Area)
			resolved[ev.Area] = idx
		}
		if idx < 0 {
			name := strings.TrimSpace(ev.Area)
			if name != "" && !seenUnmapped[name] {
				seenUnmapped[name] = true
				unmapped = append(unmapped, name)
			}
			continue
		}
		if !roster[ev.StudentID] {
			continue
		}
		row, ok := cells[ev.StudentID]
		if !ok {
			row = make([]cellAcc, len(t.columns))
			cells[ev.StudentID] = row
		}
		row[idx].sum += clamp(ev.Score, CriterionScoreMin, CriterionScoreMax)
		row[idx].count++
	}

	ordered := make([]ExportStudent, len(students))
	copy(ordered, students)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if ra, rb := a.listRank(), b.listRank(); ra != rb {
			return ra < rb
		}
		if a.Surname != b.Surname {
			return a.Surname < b.Surname
		}
		return a.GivenName < b.GivenName
	})

	rows := make([]ExportRow, 0, len(ordered))
	for _, s := range ordered {
		row := ExportRow{Student: s, Cells: make([]ExportCell, len(t.columns))}
		accs := cells[s.ID]
		for i, c := range t.columns {
			cell := ExportCell{Column: c.Key}
			if accs != nil && accs[i].count > 0 {
				cell.Count = accs[i].count
				cell.Average = accs[i].sum / float64(accs[i].count)
				cell.Code = Transcode(cell.Average)
			}
			row.Cells[i] = cell
		}
		rows = append(rows, row)
	}

	if unmapped == nil {
		unmapped = []string{}
	}
	var buf bytes.Buffer
	if err := t.WriteTable(&buf, rows); err != nil {
		return ExportResult{}, err
	}
	return ExportResult{
		Table:         buf.String(),
		Rows:          rows,
		UnmappedAreas: unmapped,
	}, nil
}

// WriteTable writes the header and one record per row, quoting fields as
// encoding/csv does.
func (t *Transcoder) WriteTable(out io.Writer, rows []ExportRow) error {
	w := csv.NewWriter(out)
	w.Comma = t.delimiter

	header := []string{"NIA", "Alumno", "Curso"}
	for _, c := range t.columns {
		header = append(header, c.Key)
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{r.Student.NIA, r.Student.displayName(), r.Student.Course}
		for _, c := range r.Cells {
			record = append(record, string(c.Code))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
