package intent

import (
	"time"

	"github.com/google/uuid"
)

// Source identifies which input surface proposed a candidate path.
type Source int

const (
	SourceLaunchArgument Source = iota
	SourceNativeBridge
	SourceDragDrop
)

// String returns the log token for the source
func (s Source) String() string {
	switch s {
	case SourceLaunchArgument:
		return "launch_argument"
	case SourceNativeBridge:
		return "native_bridge"
	case SourceDragDrop:
		return "drag_drop"
	default:
		return "unknown"
	}
}

// Candidate is a screened path proposal from one of the input surfaces.
// Candidates are ephemeral: a producer builds one and hands it straight
// to the dispatcher.
type Candidate struct {
	Path       string
	Source     Source
	ObservedAt time.Time
}

// NewCandidate stamps a candidate with the observation time
func NewCandidate(path string, source Source) Candidate {
	return Candidate{
		Path:       path,
		Source:     source,
		ObservedAt: time.Now(),
	}
}

// OpenRequest is the dispatcher's held open intent. At most one exists at
// a time; a newer candidate replaces it. The ID correlates the accept and
// deliver log lines for one request.
type OpenRequest struct {
	ID         string
	Path       string
	Source     Source
	AcceptedAt time.Time
}

func newOpenRequest(c Candidate) *OpenRequest {
	return &OpenRequest{
		ID:         uuid.NewString(),
		Path:       c.Path,
		Source:     c.Source,
		AcceptedAt: time.Now(),
	}
}
