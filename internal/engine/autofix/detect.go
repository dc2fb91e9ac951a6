package autofix

import (
	"bytes"

	"go.trai.ch/lockmend/internal/core/domain"
	"go.trai.ch/lockmend/internal/core/ports"
)

// Status describes the state of the lockfile before any fix is attempted.
type Status int

const (
	// StatusNoProject means no project root was found.
	StatusNoProject Status = iota
	// StatusMissing means the project has no lockfile.
	StatusMissing
	// StatusClean means the lockfile exists and carries no conflict marker.
	StatusClean
	// StatusConflicted means the lockfile carries at least one conflict marker.
	StatusConflicted
)

// String returns a short description of the status.
func (s Status) String() string {
	switch s {
	case StatusNoProject:
		return "no project"
	case StatusMissing:
		return "no lockfile"
	case StatusClean:
		return "clean"
	case StatusConflicted:
		return "conflicted"
	default:
		return "unknown"
	}
}

// HasConflict reports whether content contains a merge conflict start marker.
// Only the opening marker is looked for; the closing and separator markers may be absent.
func HasConflict(content []byte) bool {
	return bytes.Contains(content, []byte(domain.ConflictMarker))
}

// detect reads the lockfile and classifies it. Content is only returned for conflicted lockfiles.
func detect(fs ports.FileSystem, req Request) (Status, []byte, error) {
	if req.ProjectRoot == "" {
		return StatusNoProject, nil, nil
	}

	path := req.lockfilePath()
	exists, err := fs.Exists(path)
	if err != nil {
		return 0, nil, err
	}
	if !exists {
		return StatusMissing, nil, nil
	}

	content, err := fs.ReadFile(path)
	if err != nil {
		return 0, nil, err
	}
	if !HasConflict(content) {
		return StatusClean, nil, nil
	}
	return StatusConflicted, content, nil
}
