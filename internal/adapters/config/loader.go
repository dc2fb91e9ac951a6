// Package config provides the project configuration loader.
package config

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/lockmend/internal/core/domain"
	"go.trai.ch/lockmend/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader on top of .yarnrc.yml and the environment.
type Loader struct {
	Logger ports.Logger
	// Getenv is swapped in tests.
	Getenv func(string) string
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, Getenv: os.Getenv}
}

// Load finds the project containing cwd and resolves its configuration.
// Settings are layered: defaults, then the project .yarnrc.yml, then the environment.
func (l *Loader) Load(cwd string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	abs, err := filepath.Abs(cwd)
	if err != nil {
		return cfg, zerr.With(zerr.Wrap(err, "failed to resolve working directory"), "cwd", cwd)
	}

	root, err := l.findProjectRoot(abs)
	if err != nil {
		return cfg, err
	}
	if root == "" {
		l.Logger.Debug("no project found above " + abs)
		return cfg, nil
	}
	cfg.ProjectRoot = root

	rc, err := readYarnrc(root)
	if err != nil {
		return cfg, err
	}
	applyYarnrc(&cfg, rc)

	if err := l.applyEnvironment(&cfg); err != nil {
		return cfg, err
	}

	l.Logger.Debug("project root: " + cfg.ProjectRoot + ", lockfile: " + cfg.LockfileFilename)
	return cfg, nil
}

// findProjectRoot returns the first directory holding the lockfile or,
// failing that, the first directory holding a manifest. Empty means no project.
func (l *Loader) findProjectRoot(cwd string) (string, error) {
	currentDir := cwd
	var manifestCandidate string

	for {
		name, err := l.lockfileNameIn(currentDir)
		if err != nil {
			return "", err
		}
		if exists(filepath.Join(currentDir, name)) {
			return currentDir, nil
		}

		if manifestCandidate == "" && exists(filepath.Join(currentDir, domain.ManifestFileName)) {
			manifestCandidate = currentDir
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return manifestCandidate, nil
}

// lockfileNameIn returns the lockfile name that applies if dir is the project root.
func (l *Loader) lockfileNameIn(dir string) (string, error) {
	if name := l.Getenv(EnvLockfileFilename); name != "" {
		return name, nil
	}
	rc, err := readYarnrc(dir)
	if err != nil {
		return "", err
	}
	if rc != nil && rc.LockfileFilename != "" {
		return rc.LockfileFilename, nil
	}
	return domain.DefaultLockfileName, nil
}

func (l *Loader) applyEnvironment(cfg *domain.Config) error {
	if v := l.Getenv(EnvLockfileFilename); v != "" {
		cfg.LockfileFilename = v
	}
	if v := l.Getenv(EnvDefaultProtocol); v != "" {
		cfg.DefaultProtocol = v
	}
	if v := l.Getenv(EnvEnableImmutableInstalls); v != "" {
		b, err := parseBool(v)
		if err != nil {
			return zerr.With(zerr.With(domain.ErrInvalidConfigValue, "name", EnvEnableImmutableInstalls), "value", v)
		}
		cfg.EnableImmutableInstalls = b
	}
	return nil
}

func applyYarnrc(cfg *domain.Config, rc *Yarnrc) {
	if rc == nil {
		return
	}
	if rc.LockfileFilename != "" {
		cfg.LockfileFilename = rc.LockfileFilename
	}
	if rc.DefaultProtocol != "" {
		cfg.DefaultProtocol = rc.DefaultProtocol
	}
	if rc.EnableImmutableInstalls != nil {
		cfg.EnableImmutableInstalls = *rc.EnableImmutableInstalls
	}
	if rc.GitBinary != "" {
		cfg.GitBinary = rc.GitBinary
	}
}

// readYarnrc returns nil when dir has no .yarnrc.yml.
func readYarnrc(dir string) (*Yarnrc, error) {
	path := filepath.Join(dir, domain.RCFileName)

	// #nosec G304 -- path is built from the discovered project directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var rc Yarnrc
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}
	return &rc, nil
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return strconv.ParseBool(v)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
