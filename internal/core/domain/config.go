package domain

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	protocolRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
	tagRegex      = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
)

// Config is the resolved project configuration.
type Config struct {
	// ProjectRoot is empty when no project was found.
	ProjectRoot             string
	LockfileFilename        string
	DefaultProtocol         string
	EnableImmutableInstalls bool
	GitBinary               string
}

// DefaultConfig returns the configuration used when no setting overrides it.
func DefaultConfig() Config {
	return Config{
		LockfileFilename: DefaultLockfileName,
		DefaultProtocol:  DefaultProtocol,
		GitBinary:        DefaultGitBinary,
	}
}

// HasProject reports whether a project root was found.
func (c Config) HasProject() bool {
	return c.ProjectRoot != ""
}

// LockfilePath returns the absolute path of the project lockfile.
func (c Config) LockfilePath() string {
	return filepath.Join(c.ProjectRoot, c.LockfileFilename)
}

// NormalizeDependency prefixes the default protocol to ranges that have none,
// as long as they are semver ranges or dist-tags. Anything else is returned as is.
func (c Config) NormalizeDependency(d Descriptor) Descriptor {
	r := d.Range
	if r == "" || protocolRegex.MatchString(r) {
		return d
	}

	if isSemverRange(r) || isTag(r) {
		d.Range = c.DefaultProtocol + r
	}
	return d
}

func isSemverRange(r string) bool {
	_, err := semver.NewConstraint(r)
	return err == nil
}

func isTag(r string) bool {
	return tagRegex.MatchString(r) && !strings.HasPrefix(strings.ToLower(r), "v")
}
