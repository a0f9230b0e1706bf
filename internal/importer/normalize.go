package importer

import (
	"regexp"
	"strconv"
	"strings"
)

// normalize.go maps one RawRow to a NormalizedSchedule.
//
// The rules mirror the workbook convention of the faculty's academic
// system export: several columns pack multiple attributes into one cell
// (code + name, day + time range, room + capacity annotation) and need
// to be pulled apart here. Malformed cells degrade to nil/zero values
// rather than failing the row; only a missing course identifier drops
// the row entirely.

var (
	// " - D4" (or any casing, any surrounding spaces) trailing a program name.
	programSuffixRe = regexp.MustCompile(`(?i)\s*-\s*d4\s*$`)

	// Time range inside the schedule-text cell, after lowercasing:
	// "pukul:09:20:00 - 11:00:00".
	timeRangeRe = regexp.MustCompile(`pukul:\s*(\d{2}:\d{2}:\d{2})\s*-\s*(\d{2}:\d{2}:\d{2})`)

	// Day token inside the schedule-text cell: "hari:senin".
	dayTokenRe = regexp.MustCompile(`hari:\s*([a-z]+)`)
)

// NormalizeRow converts a raw spreadsheet row into a NormalizedSchedule.
// ok is false when the course identifier cell (" Kode / Nama") is empty or
// absent; callers drop such rows silently.
//
// NormalizeRow is a pure function: the same RawRow always yields the same
// record.
func NormalizeRow(row RawRow) (rec NormalizedSchedule, ok bool) {
	course, present := row.Get(ColCourse)
	if !present || strings.TrimSpace(course) == "" {
		return NormalizedSchedule{}, false
	}

	rec.CourseCode, rec.CourseName = splitCourse(course)
	rec.StudyProgram = cleanStudyProgram(row[ColStudyProgram])
	rec.Semester = intOrNil(row, ColSemester)
	rec.Curriculum = stringOrNil(row, ColCurriculum)
	rec.AcademicYear = parseAcademicYear(row, ColAcademicYear)
	rec.SessionType = parseSessionType(row[ColSessionType])
	rec.ClassLabel = stringOrNil(row, ColClassLabel)
	rec.Lecturer = stringOrNil(row, ColLecturer)
	rec.Room = cleanRoom(row)
	rec.StudentCount = intOrZero(row[ColStudentCount])

	if text, present := row.Get(ColScheduleText); present {
		day, start, end, matched := ParseScheduleText(text)
		rec.Day, rec.StartTime, rec.EndTime = day, start, end
		rec.ScheduleAmbiguous = !matched && strings.TrimSpace(text) != ""
	}

	return rec, true
}

// cleanStudyProgram strips the trailing diploma marker from a program name:
// "Teknologi Rekayasa Perangkat Lunak - D4" -> "Teknologi Rekayasa Perangkat Lunak".
func cleanStudyProgram(s string) string {
	return strings.TrimSpace(programSuffixRe.ReplaceAllString(s, ""))
}

// splitCourse splits a combined "CODE - Name" cell on the literal " - "
// delimiter. The name may itself contain " - ", so everything after the
// first delimiter is rejoined.
func splitCourse(s string) (code, name string) {
	parts := strings.Split(s, " - ")
	code = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		name = strings.TrimSpace(strings.Join(parts[1:], " - "))
	}
	return code, name
}

// parseAcademicYear reads the first slash-delimited segment of an academic
// year cell ("2024/2025" -> 2024). Unparseable cells yield nil.
func parseAcademicYear(row RawRow, header string) *int {
	v, present := row.Get(header)
	if !present {
		return nil
	}
	first, _, _ := strings.Cut(v, "/")
	n, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return nil
	}
	return &n
}

// parseSessionType derives theory/practical from the class-type cell.
// Anything containing "prak" (Praktikum, praktik, ...) is practical;
// everything else, including an absent cell, is theory.
func parseSessionType(s string) SessionType {
	if strings.Contains(strings.ToLower(s), "prak") {
		return SessionPractical
	}
	return SessionTheory
}

// ParseScheduleText extracts day, start time and end time from a composite
// schedule cell such as "pukul:09:20:00 - 11:00:00 hari:Senin". Matching is
// case-insensitive; the returned day is re-capitalized (first letter upper,
// remainder lower) regardless of source casing.
//
// Extraction is all-or-nothing: unless both the time pair and the day token
// match, all three results are nil and matched is false. A partial result
// is never returned.
func ParseScheduleText(text string) (day, start, end *string, matched bool) {
	lower := strings.ToLower(text)

	tm := timeRangeRe.FindStringSubmatch(lower)
	dm := dayTokenRe.FindStringSubmatch(lower)
	if tm == nil || dm == nil {
		return nil, nil, nil, false
	}

	d := capitalize(dm[1])
	s, e := tm[1], tm[2]
	return &d, &s, &e, true
}

// cleanRoom keeps the room code and drops the trailing annotation:
// "GK 2.04, G.KULIAH I, size:50" -> "GK 2.04". An absent cell yields nil;
// a present but empty cell yields "".
func cleanRoom(row RawRow) *string {
	v, present := row.Get(ColRoom)
	if !present {
		return nil
	}
	room, _, _ := strings.Cut(v, ",")
	room = strings.TrimSpace(room)
	return &room
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// stringOrNil passes a cell through untouched, mapping absence and empty
// to nil.
func stringOrNil(row RawRow, header string) *string {
	v, present := row.Get(header)
	if !present || v == "" {
		return nil
	}
	return &v
}

// intOrNil coerces a cell to an integer, mapping absence and unparseable
// values to nil.
func intOrNil(row RawRow, header string) *int {
	v, present := row.Get(header)
	if !present {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return nil
	}
	return &n
}

// intOrZero coerces a cell to an integer, defaulting to 0.
func intOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
