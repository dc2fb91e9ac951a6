package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lockmend/internal/core/ports"
)

// TracerNodeID is the unique identifier for the default tracer Graft node.
// The default records nothing; progress output installs an OTelTracer per run.
const TracerNodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Tracer, error) {
			return NewNoOpTracer(), nil
		},
	})
}
