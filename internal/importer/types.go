// Package importer implements the lecture-schedule spreadsheet import
// pipeline: decoding an uploaded workbook, normalizing its rows, holding
// the result in a paginated preview session, and committing the accepted
// batch to the schedule store in one bulk insert.
//
// The package has no UI dependencies and can be driven by any frontend.
package importer

// Column headers as they appear in the exported workbook. Every header
// except the first carries one leading space; lookups are by exact match
// and must preserve that whitespace.
const (
	ColRowNumber    = "No."
	ColStudyProgram = " Prodi"
	ColCourse       = " Kode / Nama"
	ColSemester     = " Semester MK"
	ColCurriculum   = " Kurikulum"
	ColAcademicYear = " TA"
	ColTerm         = " Semester"
	ColSessionType  = " Jenis"
	ColClassLabel   = " Rombel"
	ColClassCredits = " Sks Rombel"
	ColLecturer     = " Pengampu"
	ColScheduleText = " Jadwal hari"
	ColRoom         = " Ruang"
	ColStudentCount = " Jml MHS"
)

// TemplateColumns lists the expected headers in workbook order.
var TemplateColumns = []string{
	ColRowNumber,
	ColStudyProgram,
	ColCourse,
	ColSemester,
	ColCurriculum,
	ColAcademicYear,
	ColTerm,
	ColSessionType,
	ColClassLabel,
	ColClassCredits,
	ColLecturer,
	ColScheduleText,
	ColRoom,
	ColStudentCount,
}

// RawRow is one worksheet row keyed by exact header text. A missing key
// means the cell (or the whole column) was absent; an empty string means
// the cell existed but held no value.
type RawRow map[string]string

// Get returns the cell value for a header and whether the cell was present.
func (r RawRow) Get(header string) (string, bool) {
	v, ok := r[header]
	return v, ok
}

// Worksheet is one sheet of a decoded workbook, rows in file order.
type Worksheet struct {
	Name string
	Rows []RawRow
}

// SessionType classifies a scheduled session.
type SessionType string

const (
	SessionTheory    SessionType = "theory"
	SessionPractical SessionType = "practical"
)

// NormalizedSchedule is the cleaned record produced per accepted raw row.
// JSON field names match the schedule store's row shape, so the preview
// payload and the bulk-insert payload share one encoding.
//
// Day, StartTime and EndTime are parsed atomically from the composite
// schedule-text cell: either all three are set or all three are nil.
type NormalizedSchedule struct {
	StudyProgram string      `json:"subject_study"`
	CourseCode   string      `json:"course_code"`
	CourseName   string      `json:"course_name"`
	Semester     *int        `json:"semester"`
	Curriculum   *string     `json:"kurikulum"`
	AcademicYear *int        `json:"academics_year"`
	SessionType  SessionType `json:"type"`
	ClassLabel   *string     `json:"class"`
	Lecturer     *string     `json:"lecturer"`
	Day          *string     `json:"day"`
	StartTime    *string     `json:"start_time"`
	EndTime      *string     `json:"end_time"`
	Room         *string     `json:"room"`
	StudentCount int         `json:"amount"`

	// ScheduleAmbiguous marks rows whose schedule-text cell was present
	// but did not match the expected pattern. Such rows still enter the
	// batch with nil day/times; the count feeds the preview warning.
	ScheduleAmbiguous bool `json:"-"`
}

// ImportBatch is the full ordered result of one upload: every normalized
// record across all worksheets, in sheet order then in-sheet row order.
type ImportBatch []NormalizedSchedule
