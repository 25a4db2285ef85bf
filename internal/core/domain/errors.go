package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrSegmentNotFound  = errors.New("segment not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrTemporary        = errors.New("temporary failure")

	// ErrInvalidTransition signals a programming error: the caller asked for a
	// segment state change the state machine does not allow.
	ErrInvalidTransition = errors.New("invalid segment transition")

	ErrTMUnavailable          = errors.New("translation memory unavailable")
	ErrTranslationUnavailable = errors.New("translation unavailable")
	ErrIncompleteSegments     = errors.New("incomplete segments")
	ErrAnalysisUnavailable    = errors.New("analysis unavailable")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// TransitionError describes a rejected state change. It matches
// ErrInvalidTransition with errors.Is.
type TransitionError struct {
	SegmentID string
	From      TranslationStatus
	Action    string
	Reason    string
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("segment %s: cannot %s from %s", e.SegmentID, e.Action, e.From)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// IncompleteSegmentsError lists the segments that block draft generation.
type IncompleteSegmentsError struct {
	SegmentIDs []string
}

func (e *IncompleteSegmentsError) Error() string {
	return fmt.Sprintf("%d segment(s) not completed: %v", len(e.SegmentIDs), e.SegmentIDs)
}

func (e *IncompleteSegmentsError) Is(target error) bool {
	return target == ErrIncompleteSegments
}
