package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/facultydesk/schedimport/internal/importer"
)

type fakeDB struct {
	table   pgx.Identifier
	columns []string
	rows    [][]any
	err     error
}

func (f *fakeDB) CopyFrom(_ context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.table = table
	f.columns = columns
	for src.Next() {
		values, err := src.Values()
		if err != nil {
			return int64(len(f.rows)), err
		}
		f.rows = append(f.rows, values)
	}
	return int64(len(f.rows)), nil
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestBulkInsertSchedules_ColumnMapping(t *testing.T) {
	db := &fakeDB{}
	s := New(db)

	batch := importer.ImportBatch{
		{
			StudyProgram: "Teknik Informatika",
			CourseCode:   "TI2043",
			CourseName:   "Pemrograman Web",
			Semester:     intPtr(3),
			Curriculum:   strPtr("2023"),
			AcademicYear: intPtr(2024),
			SessionType:  importer.SessionTheory,
			ClassLabel:   strPtr("TI-2A"),
			Lecturer:     strPtr("Budi Santoso"),
			Day:          strPtr("Senin"),
			StartTime:    strPtr("09:20:00"),
			EndTime:      strPtr("11:00:00"),
			Room:         strPtr("GK 2.04"),
			StudentCount: 40,
		},
		{
			// A sparse record: optional fields stay nil through to the copy.
			CourseCode:   "TI2044",
			CourseName:   "Basis Data",
			SessionType:  importer.SessionPractical,
			StudentCount: 0,
		},
	}

	inserted, err := s.BulkInsertSchedules(context.Background(), batch)
	if err != nil {
		t.Fatalf("BulkInsertSchedules() error = %v", err)
	}
	if inserted != 2 {
		t.Errorf("inserted = %d, want 2", inserted)
	}

	if !reflect.DeepEqual(db.table, pgx.Identifier{"schedules"}) {
		t.Errorf("table = %v, want schedules", db.table)
	}
	if !reflect.DeepEqual(db.columns, scheduleColumns) {
		t.Errorf("columns = %v, want %v", db.columns, scheduleColumns)
	}

	if len(db.rows) != 2 {
		t.Fatalf("captured %d rows, want 2", len(db.rows))
	}

	first := db.rows[0]
	if len(first) != len(scheduleColumns) {
		t.Fatalf("row has %d values, want %d", len(first), len(scheduleColumns))
	}
	if first[1] != "TI2043" || first[2] != "Pemrograman Web" {
		t.Errorf("course values = %v / %v, want TI2043 / Pemrograman Web", first[1], first[2])
	}
	if first[6] != string(importer.SessionTheory) {
		t.Errorf("type value = %v, want %q", first[6], importer.SessionTheory)
	}

	second := db.rows[1]
	for _, idx := range []int{3, 4, 5, 7, 8, 9, 10, 11, 12} {
		v := reflect.ValueOf(second[idx])
		if v.Kind() != reflect.Ptr || !v.IsNil() {
			t.Errorf("sparse row column %q = %v, want nil pointer", scheduleColumns[idx], second[idx])
		}
	}
}

func TestBulkInsertSchedules_ErrorWrapsBackend(t *testing.T) {
	backend := errors.New(`duplicate key value violates unique constraint "schedules_pkey"`)
	s := New(&fakeDB{err: backend})

	_, err := s.BulkInsertSchedules(context.Background(), importer.ImportBatch{{CourseCode: "X"}})
	if !errors.Is(err, backend) {
		t.Fatalf("error = %v, want wrapped backend error", err)
	}
}
