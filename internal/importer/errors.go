package importer

import (
	"errors"
	"fmt"
	"strings"
)

// DecodeError wraps a failure to parse uploaded bytes as a spreadsheet
// container. The original decoder error is retained for logging; users
// see a generic message via MapError.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode workbook: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps a bulk-insert failure from the schedule store.
// The batch is retained by the session so the user can retry without
// re-uploading.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist import batch: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ErrNothingReadable signals that decoding succeeded but no row survived
// the skip rule across all worksheets. Distinct from DecodeError so the
// UI can tell "broken file" from "wrong headers".
var ErrNothingReadable = errors.New("no readable schedule rows")

// ErrSessionNotFound signals an unknown or expired import session.
var ErrSessionNotFound = errors.New("import session not found")

// ErrNotInPreview signals an operation that requires the session to hold
// an uncommitted batch (commit and reset both do).
var ErrNotInPreview = errors.New("import session is not in preview")

// UserMessage is a user-facing rendering of a pipeline error. The code is
// stable and short so users can quote it when asking for help.
type UserMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

// MapError converts a pipeline or store error into a UserMessage.
// Store errors keep their backend text where it is likely meaningful
// (constraint violations); transport-level noise gets a generic fallback.
func MapError(err error) UserMessage {
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return UserMessage{
			Code:    "FILE001",
			Message: "The file could not be read as a spreadsheet.",
			Action:  "Upload an .xlsx or .xls file exported from the academic system.",
		}
	}

	if errors.Is(err, ErrNothingReadable) {
		return UserMessage{
			Code:    "FILE002",
			Message: "No schedule rows could be read from the file.",
			Action:  "Check that the column headers match the template exactly.",
		}
	}

	if errors.Is(err, ErrSessionNotFound) {
		return UserMessage{
			Code:    "IMP001",
			Message: "The import session has expired or does not exist.",
			Action:  "Upload the file again to start a new import.",
		}
	}

	if errors.Is(err, ErrNotInPreview) {
		return UserMessage{
			Code:    "IMP002",
			Message: "This import has already been committed or discarded.",
			Action:  "Upload the file again to start a new import.",
		}
	}

	var persistErr *PersistenceError
	if errors.As(err, &persistErr) {
		return mapStoreError(persistErr.Err)
	}

	return UserMessage{
		Code:    "GEN001",
		Message: "Something went wrong while importing.",
		Action:  "Please try again.",
	}
}

// mapStoreError classifies backend failures by message pattern, the same
// way support tickets tend to arrive: constraint text is worth showing,
// connection noise is not.
func mapStoreError(err error) UserMessage {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "unique constraint"):
		return UserMessage{
			Code:    "DB001",
			Message: "Some schedules already exist in the database.",
			Action:  "Remove the duplicate rows from the file and retry.",
		}
	case strings.Contains(msg, "foreign key"):
		return UserMessage{
			Code:    "DB002",
			Message: "A schedule references data that does not exist yet.",
			Action:  "Make sure study programs and rooms are registered first.",
		}
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "connection reset"):
		return UserMessage{
			Code:    "DB003",
			Message: "The database is unreachable.",
			Action:  "Your preview is kept; retry the commit in a moment.",
		}
	case strings.Contains(msg, "context deadline exceeded"), strings.Contains(msg, "timeout"):
		return UserMessage{
			Code:    "DB004",
			Message: "The bulk insert timed out.",
			Action:  "Your preview is kept; retry the commit in a moment.",
		}
	default:
		// Surface the backend message verbatim when we have one.
		return UserMessage{
			Code:    "DB000",
			Message: err.Error(),
			Action:  "Your preview is kept; fix the data or retry.",
		}
	}
}
