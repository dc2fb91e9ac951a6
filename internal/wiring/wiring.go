// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/lockmend/internal/adapters/config"
	_ "go.trai.ch/lockmend/internal/adapters/fs"
	_ "go.trai.ch/lockmend/internal/adapters/logger"
	_ "go.trai.ch/lockmend/internal/adapters/shell"
	_ "go.trai.ch/lockmend/internal/adapters/syml"
	_ "go.trai.ch/lockmend/internal/adapters/telemetry"
	_ "go.trai.ch/lockmend/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/lockmend/internal/app"
	_ "go.trai.ch/lockmend/internal/engine/autofix"
)
