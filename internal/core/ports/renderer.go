package ports

import "time"

// Renderer presents pipeline progress to the user.
//
//go:generate go run go.uber.org/mock/mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// OnStageStart is called when a pipeline stage begins.
	// spanID: unique identifier for this stage
	// parentID: spanID of the enclosing stage (empty if root)
	OnStageStart(spanID, parentID, name string, startTime time.Time)

	// OnStageComplete is called when a stage finishes, with its error if it failed.
	OnStageComplete(spanID string, endTime time.Time, err error)

	// Flush writes any buffered output.
	Flush() error
}
