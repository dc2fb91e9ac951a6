package autofix

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lockmend/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/lockmend/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/lockmend/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/lockmend/internal/adapters/syml"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/lockmend/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/lockmend/internal/core/ports"
)

// NodeID is the unique identifier for the fixer Graft node.
const NodeID graft.ID = "engine.autofix"

func init() {
	graft.Register(graft.Node[*Fixer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			syml.NodeID,
			fs.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Fixer, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}

			codec, err := graft.Dep[ports.LockfileCodec](ctx)
			if err != nil {
				return nil, err
			}

			fileSystem, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return NewFixer(runner, codec, fileSystem, log, tracer), nil
		},
	})
}
