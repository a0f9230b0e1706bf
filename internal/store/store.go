// Package store persists committed import batches to PostgreSQL.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/facultydesk/schedimport/internal/importer"
)

// scheduleColumns is the schedules table's column order for the bulk
// insert. It mirrors NormalizedSchedule's JSON field names.
var scheduleColumns = []string{
	"subject_study",
	"course_code",
	"course_name",
	"semester",
	"kurikulum",
	"academics_year",
	"type",
	"class",
	"lecturer",
	"day",
	"start_time",
	"end_time",
	"room",
	"amount",
}

// DB is the subset of pgxpool.Pool the store needs.
type DB interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Store writes schedule data to PostgreSQL.
type Store struct {
	db DB
}

// New creates a Store on top of a pgx pool or transaction.
func New(db DB) *Store {
	return &Store{db: db}
}

// BulkInsertSchedules inserts the whole batch in one COPY, field-for-field
// from the normalized records. Errors come back unwrapped from pgx so the
// importer can surface constraint messages verbatim.
func (s *Store) BulkInsertSchedules(ctx context.Context, batch importer.ImportBatch) (int64, error) {
	rows := make([][]any, len(batch))
	for i, rec := range batch {
		rows[i] = []any{
			rec.StudyProgram,
			rec.CourseCode,
			rec.CourseName,
			rec.Semester,
			rec.Curriculum,
			rec.AcademicYear,
			string(rec.SessionType),
			rec.ClassLabel,
			rec.Lecturer,
			rec.Day,
			rec.StartTime,
			rec.EndTime,
			rec.Room,
			rec.StudentCount,
		}
	}

	inserted, err := s.db.CopyFrom(ctx, pgx.Identifier{"schedules"}, scheduleColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy schedules: %w", err)
	}
	return inserted, nil
}
