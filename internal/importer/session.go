package importer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultPageSize is the preview page size when the config does not set one.
const DefaultPageSize = 10

// sessionRetention is how long a finished session stays resolvable, so the
// UI can still fetch the final state after the commit response.
var sessionRetention = 5 * time.Minute

// State is the lifecycle state of an import session.
//
//	Idle -> Parsing -> Preview -> Committing -> Done
//
// Parsing failures and empty results fall back to Idle (no session is
// kept); a failed commit returns to Preview with the batch intact.
type State string

const (
	StateIdle       State = "idle"
	StateParsing    State = "parsing"
	StatePreview    State = "preview"
	StateCommitting State = "committing"
	StateDone       State = "done"
)

// ScheduleWriter persists one import batch in a single bulk call.
// Implemented by the Postgres store; tests substitute a fake.
type ScheduleWriter interface {
	BulkInsertSchedules(ctx context.Context, batch ImportBatch) (int64, error)
}

// Summary reports what one upload produced, for the preview header and
// the aggregate ambiguity warning banner.
type Summary struct {
	TotalRecords       int `json:"totalRecords"`
	SkippedRows        int `json:"skippedRows"`
	AmbiguousSchedules int `json:"ambiguousSchedules"`
	Worksheets         int `json:"worksheets"`
}

// Page is one preview page of the batch.
type Page struct {
	Number     int                  `json:"page"`
	TotalPages int                  `json:"totalPages"`
	PageSize   int                  `json:"pageSize"`
	Records    []NormalizedSchedule `json:"records"`
}

// Session holds the state of one in-progress import: the batch, the
// lifecycle state, and the commit outcome. Each upload gets a fresh
// session; nothing is shared between sessions.
type Session struct {
	ID       string
	FileName string

	mu       sync.Mutex
	state    State
	batch    ImportBatch
	summary  Summary
	inserted int64
}

// Service owns the import sessions and runs the pipeline. The map guard
// only protects session lookup across requests; each session is used by
// one import flow at a time.
type Service struct {
	writer   ScheduleWriter
	pageSize int

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService creates an import service backed by the given writer.
func NewService(writer ScheduleWriter, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{
		writer:   writer,
		pageSize: pageSize,
		sessions: make(map[string]*Session),
	}
}

// Start runs the synchronous half of the pipeline: decode the workbook,
// normalize every row of every worksheet in order, and open a preview
// session over the result.
//
// Decode failures return a *DecodeError; a file where no row survives the
// skip rule returns ErrNothingReadable. In both cases no session is kept,
// matching the modal's fall-back-to-Idle behavior.
func (s *Service) Start(ctx context.Context, fileName string, data []byte) (*Session, error) {
	sheets, err := ReadWorkbook(data)
	if err != nil {
		return nil, err
	}

	var batch ImportBatch
	var summary Summary
	summary.Worksheets = len(sheets)

	for _, sheet := range sheets {
		for _, row := range sheet.Rows {
			rec, ok := NormalizeRow(row)
			if !ok {
				summary.SkippedRows++
				continue
			}
			if rec.ScheduleAmbiguous {
				summary.AmbiguousSchedules++
			}
			batch = append(batch, rec)
		}
	}

	if len(batch) == 0 {
		return nil, ErrNothingReadable
	}
	summary.TotalRecords = len(batch)

	session := &Session{
		ID:       uuid.New().String(),
		FileName: fileName,
		state:    StatePreview,
		batch:    batch,
		summary:  summary,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	slog.InfoContext(ctx, "import session opened",
		"session_id", session.ID,
		"file", fileName,
		"worksheets", summary.Worksheets,
		"records", summary.TotalRecords,
		"skipped", summary.SkippedRows,
		"ambiguous", summary.AmbiguousSchedules,
	)

	return session, nil
}

// Get returns a session by ID.
func (s *Service) Get(id string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Commit bulk-inserts the session's full batch through the writer.
// Pagination is a display concern only; the whole batch goes in one call.
//
// On failure the batch is retained and the session returns to Preview so
// the user can retry without re-uploading. On success the batch is cleared
// and the session is removed after a short retention window.
func (s *Service) Commit(ctx context.Context, id string) (int64, error) {
	session, err := s.Get(id)
	if err != nil {
		return 0, err
	}

	session.mu.Lock()
	if session.state != StatePreview {
		session.mu.Unlock()
		return 0, ErrNotInPreview
	}
	session.state = StateCommitting
	batch := session.batch
	session.mu.Unlock()

	inserted, err := s.writer.BulkInsertSchedules(ctx, batch)
	if err != nil {
		session.mu.Lock()
		session.state = StatePreview
		session.mu.Unlock()

		slog.ErrorContext(ctx, "import commit failed",
			"session_id", id,
			"records", len(batch),
			"error", err,
		)
		return 0, &PersistenceError{Err: err}
	}

	session.mu.Lock()
	session.state = StateDone
	session.batch = nil
	session.inserted = inserted
	session.mu.Unlock()

	s.cleanup(id, sessionRetention)

	slog.InfoContext(ctx, "import committed",
		"session_id", id,
		"inserted", inserted,
	)
	return inserted, nil
}

// Reset discards a session's batch, returning the flow to Idle. The next
// upload starts a fresh session.
func (s *Service) Reset(id string) error {
	session, err := s.Get(id)
	if err != nil {
		return err
	}

	session.mu.Lock()
	if session.state != StatePreview {
		session.mu.Unlock()
		return ErrNotInPreview
	}
	session.state = StateIdle
	session.batch = nil
	session.mu.Unlock()

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	return nil
}

// PageSize returns the configured preview page size.
func (s *Service) PageSize() int {
	return s.pageSize
}

// cleanup drops a session from tracking after a delay.
func (s *Service) cleanup(id string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
	})
}

// State returns the session's lifecycle state.
func (sess *Session) State() State {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state
}

// Summary returns the session's import summary.
func (sess *Session) Summary() Summary {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.summary
}

// Inserted returns how many rows the commit wrote (0 before Done).
func (sess *Session) Inserted() int64 {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.inserted
}

// Batch returns the session's batch. The slice is shared, not copied;
// callers must not mutate it.
func (sess *Session) Batch() ImportBatch {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.batch
}

// Page returns one preview page. Page numbers are clamped to the valid
// range, so "previous" on page 1 and "next" on the last page both stay
// put rather than erroring.
func (sess *Session) Page(number, pageSize int) Page {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	totalPages := (len(sess.batch) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	start := (number - 1) * pageSize
	end := start + pageSize
	if start > len(sess.batch) {
		start = len(sess.batch)
	}
	if end > len(sess.batch) {
		end = len(sess.batch)
	}

	return Page{
		Number:     number,
		TotalPages: totalPages,
		PageSize:   pageSize,
		Records:    sess.batch[start:end],
	}
}
