package config

// Yarnrc represents the subset of the .yarnrc.yml settings used by lockmend.
type Yarnrc struct {
	LockfileFilename        string `yaml:"lockfileFilename"`
	DefaultProtocol         string `yaml:"defaultProtocol"`
	EnableImmutableInstalls *bool  `yaml:"enableImmutableInstalls"`
	GitBinary               string `yaml:"gitBinary"`
}

// Environment variables overriding the file settings.
const (
	EnvLockfileFilename        = "YARN_LOCKFILE_FILENAME"
	EnvDefaultProtocol         = "YARN_DEFAULT_PROTOCOL"
	EnvEnableImmutableInstalls = "YARN_ENABLE_IMMUTABLE_INSTALLS"
)
