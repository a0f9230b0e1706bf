package importer

import "testing"

func TestWriteTemplate_RoundTripsThroughReader(t *testing.T) {
	data, err := WriteTemplate()
	if err != nil {
		t.Fatalf("WriteTemplate() error = %v", err)
	}

	sheets, err := ReadWorkbook(data)
	if err != nil {
		t.Fatalf("template does not decode: %v", err)
	}
	if len(sheets) != 1 {
		t.Fatalf("template has %d sheets, want 1", len(sheets))
	}
	if len(sheets[0].Rows) != 1 {
		t.Fatalf("template has %d data rows, want 1 sample row", len(sheets[0].Rows))
	}

	// The sample row must survive the importer's own skip rule, or the
	// template would teach users a format the pipeline rejects.
	rec, ok := NormalizeRow(sheets[0].Rows[0])
	if !ok {
		t.Fatal("template sample row is skipped by the normalizer")
	}

	if rec.CourseCode != "TI2043" || rec.CourseName != "Pemrograman Web" {
		t.Errorf("sample course = %q / %q, want TI2043 / Pemrograman Web", rec.CourseCode, rec.CourseName)
	}
	if rec.Day == nil || *rec.Day != "Senin" {
		t.Errorf("sample day = %v, want Senin", deref(rec.Day))
	}
	if rec.Room == nil || *rec.Room != "GK 2.04" {
		t.Errorf("sample room = %v, want GK 2.04", deref(rec.Room))
	}
}

func TestWriteTemplate_ExactHeaders(t *testing.T) {
	data, err := WriteTemplate()
	if err != nil {
		t.Fatalf("WriteTemplate() error = %v", err)
	}

	sheets, err := ReadWorkbook(data)
	if err != nil {
		t.Fatalf("template does not decode: %v", err)
	}

	row := sheets[0].Rows[0]
	for _, col := range TemplateColumns {
		if _, ok := row.Get(col); !ok {
			t.Errorf("template missing header %q (leading spaces are significant)", col)
		}
	}
}
