package ports

import "go.trai.ch/lockmend/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load walks up from cwd to find the project and returns its configuration.
	// A missing project is not an error: the returned config has an empty ProjectRoot.
	Load(cwd string) (domain.Config, error)
}
