package scoring

import (
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
)

func TestTranscodeBreakpoints(t *testing.T) {
	cases := []struct {
		avg  float64
		want XadeCode
	}{
		{-1, XadeIN},
		{0, XadeIN},
		{1.9, XadeIN},
		{2.0, XadeSU},
		{2.4, XadeSU},
		{2.5, XadeBI},
		{2.9, XadeBI},
		{3.0, XadeNT},
		{3.5, XadeNT},
		{3.6, XadeSB},
		{4, XadeSB},
	}
	for _, tc := range cases {
		if got := Transcode(tc.avg); got != tc.want {
			t.Fatalf("transcode(%v) = %s, want %s", tc.avg, got, tc.want)
		}
	}
}

func TestResolveArea(t *testing.T) {
	tr := NewTranscoder(nil, 0)
	cases := map[string]string{
		"Matemáticas":                    "MAT",
		"LENGUA CASTELLANA Y LITERATURA": "LCL",
		"Lengua Extranjera: Inglés":      "LEX",
		"Educación Física":               "EF",
		"Educación Artística (Música)":   "EA",
		"Ciencias de la Naturaleza":      "CN",
		"ciencias sociales":              "CS",
		"Valores Sociales y Cívicos":     "VSC",
		"Lingua Galega e Literatura":     "LGL",
		"Lengua Gallega":                 "LGL",
		"Lingua Castelá e Literatura":    "LCL",
	}
	for area, want := range cases {
		c, ok := tr.ResolveArea(area)
		if !ok || c.Key != want {
			t.Fatalf("%q resolved to %q (%v), want %s", area, c.Key, ok, want)
		}
	}
	for _, area := range []string{"Robótica", "Física y Química"} {
		if c, ok := tr.ResolveArea(area); ok {
			t.Fatalf("expected %q to stay unmapped, got %s", area, c.Key)
		}
	}
}

func TestFoldText(t *testing.T) {
	if got := FoldText("  Educación FÍSICA "); got != "educacion fisica" {
		t.Fatalf("unexpected fold: %q", got)
	}
}

func TestExportTable(t *testing.T) {
	tr := NewTranscoder([]Column{
		{Key: "MAT", Keywords: []string{"matematic"}},
		{Key: "EF", Keywords: []string{"fisica"}},
	}, 0)
	students := []ExportStudent{
		{ID: "2", NIA: "N2", GivenName: "Brais", Surname: "Otero", Course: "6A", ListNumber: 2},
		{ID: "3", NIA: "N3", GivenName: "Ana", Surname: "Álvarez; Pérez", Course: "6A"},
		{ID: "1", NIA: "N1", GivenName: "Uxía", Surname: "Castro", Course: "6A", ListNumber: 1},
	}
	evals := []AreaEvaluation{
		{StudentID: "1", Area: "Matemáticas", Score: 3},
		{StudentID: "1", Area: "matematicas", Score: 4},
		{StudentID: "2", Area: "Matemáticas", Score: 1.9},
		{StudentID: "2", Area: "Robótica", Score: 4},
		{StudentID: "3", Area: "Educación Física", Score: 2.4},
		{StudentID: "3", Area: "Robótica", Score: 1},
		{StudentID: "99", Area: "Matemáticas", Score: 4},
	}

	res, err := tr.Export(students, evals)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	want := strings.Join([]string{
		"NIA;Alumno;Curso;MAT;EF",
		"N1;Castro, Uxía;6A;NT;",
		"N2;Otero, Brais;6A;IN;",
		`N3;"Álvarez; Pérez, Ana";6A;;SU`,
	}, "\n") + "\n"
	if res.Table != want {
		t.Fatalf("table mismatch:\n%s\nwant:\n%s", res.Table, want)
	}
	if !reflect.DeepEqual(res.UnmappedAreas, []string{"Robótica"}) {
		t.Fatalf("unexpected unmapped areas: %v", res.UnmappedAreas)
	}
	if c := res.Rows[0].Cells[0]; c.Count != 2 || !approx(c.Average, 3.5) {
		t.Fatalf("unexpected cell: %+v", c)
	}
}

func TestExportNoEvidenceIsEmptyCell(t *testing.T) {
	tr := NewTranscoder(nil, ',')
	res, err := tr.Export([]ExportStudent{{ID: "1", NIA: "N1", Surname: "Rey", GivenName: "Iago", ListNumber: 1}}, nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(res.Table), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", res.Table)
	}
	if lines[0] != "NIA,Alumno,Curso,LCL,LGL,LEX,MAT,CN,CS,EA,EF,VSC" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != `N1,"Rey, Iago",,,,,,,,,,` {
		t.Fatalf("unexpected row %q", lines[1])
	}
	for _, c := range res.Rows[0].Cells {
		if c.Code != "" {
			t.Fatalf("column %s without evidence must be empty, got %s", c.Column, c.Code)
		}
	}
	if res.UnmappedAreas == nil || len(res.UnmappedAreas) != 0 {
		t.Fatalf("expected empty unmapped list, got %v", res.UnmappedAreas)
	}
}

func TestExportOrderingTieBreak(t *testing.T) {
	tr := NewTranscoder(nil, 0)
	res, err := tr.Export([]ExportStudent{
		{ID: "a", Surname: "Vila", GivenName: "Xoán", ListNumber: 3},
		{ID: "b", Surname: "Vila", GivenName: "Antía", ListNumber: 3},
		{ID: "c", Surname: "Abal", GivenName: "Noa", ListNumber: 3},
	}, nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var got []string
	for _, r := range res.Rows {
		got = append(got, r.Student.ID)
	}
	if !reflect.DeepEqual(got, []string{"c", "b", "a"}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestLoadColumns(t *testing.T) {
	doc := `
columns:
  - key: MAT
    header: Matemáticas
    keywords: [matematic, cálculo]
  - key: ""
  - key: ROB
    keywords: [robotica]
`
	cols, err := LoadColumns(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cols) != 2 || cols[1].Header != "ROB" {
		t.Fatalf("unexpected columns: %+v", cols)
	}
	tr := NewTranscoder(cols, 0)
	if c, ok := tr.ResolveArea("Robótica educativa"); !ok || c.Key != "ROB" {
		t.Fatalf("custom column not resolved: %+v %v", c, ok)
	}
	if c, ok := tr.ResolveArea("Cálculo mental"); !ok || c.Key != "MAT" {
		t.Fatalf("diacritic keyword not folded: %+v %v", c, ok)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteTableReportsWriterError(t *testing.T) {
	tr := NewTranscoder(nil, 0)
	rows := []ExportRow{{Student: ExportStudent{ID: "1", NIA: "N1"}, Cells: make([]ExportCell, len(tr.Columns()))}}
	if err := tr.WriteTable(failingWriter{}, rows); err == nil || err.Error() != "disk full" {
		t.Fatalf("expected writer error, got %v", err)
	}
}

func TestDefaultColumnsMatchShippedCatalog(t *testing.T) {
	f, err := os.Open("../../configs/xade_columns.yaml")
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	defer f.Close()
	cols, err := LoadColumns(f)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if !reflect.DeepEqual(cols, DefaultColumns) {
		t.Fatalf("configs/xade_columns.yaml and DefaultColumns differ:\n%+v\n%+v", cols, DefaultColumns)
	}
}
