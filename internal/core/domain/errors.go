package domain

import "go.trai.ch/zerr"

// MessageName is the stable code attached to reportable errors under the "code" key.
type MessageName string

const (
	// MessageAutomergeImmutable reports a conflict found during an immutable install.
	MessageAutomergeImmutable MessageName = "AUTOMERGE_IMMUTABLE"
	// MessageAutomergeGitError reports a failed version control query.
	MessageAutomergeGitError MessageName = "AUTOMERGE_GIT_ERROR"
	// MessageAutomergeFailedToParse reports a variant that is not valid structured text.
	MessageAutomergeFailedToParse MessageName = "AUTOMERGE_FAILED_TO_PARSE"
	// MessageAutomergeNoVariants reports that no variant carried metadata.
	MessageAutomergeNoVariants MessageName = "AUTOMERGE_NO_VARIANTS"
)

var (
	// ErrImmutableConflict is returned when the lockfile has a conflict but must not be modified.
	ErrImmutableConflict = zerr.New("Cannot autofix a lockfile when running an immutable install")

	// ErrVcsResolution is returned when no candidate commit pair could be resolved.
	ErrVcsResolution = zerr.New("Git returned an error when trying to find the commits pertaining to the conflict")

	// ErrVcsBlobFetch is returned when the lockfile content of a resolved commit cannot be read.
	ErrVcsBlobFetch = zerr.New("Git returned an error when trying to access the lockfile content")

	// ErrLockfileParse is returned when a variant of the conflicting lockfile cannot be parsed.
	ErrLockfileParse = zerr.New("A variant of the conflicting lockfile failed to parse")

	// ErrNoMergeableVariants is returned when every variant lacks a metadata entry.
	ErrNoMergeableVariants = zerr.New("none of the conflicting lockfile variants can be merged")

	// ErrInvalidDescriptor is returned when a string cannot be parsed as a descriptor.
	ErrInvalidDescriptor = zerr.New("invalid descriptor")

	// ErrLockfileReadFailed is returned when the lockfile cannot be read.
	ErrLockfileReadFailed = zerr.New("failed to read lockfile")

	// ErrLockfileSerializeFailed is returned when the merged document cannot be serialized.
	ErrLockfileSerializeFailed = zerr.New("failed to serialize merged lockfile")

	// ErrLockfileWriteFailed is returned when the merged lockfile cannot be written.
	ErrLockfileWriteFailed = zerr.New("failed to write lockfile")

	// ErrCommandStartFailed is returned when an external program cannot be started.
	ErrCommandStartFailed = zerr.New("failed to start command")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfigValue is returned when an environment override holds an invalid value.
	ErrInvalidConfigValue = zerr.New("invalid configuration value")

	// ErrNoProjectRoot is returned by commands that cannot work without a project.
	ErrNoProjectRoot = zerr.New("no project found in the current directory or its parents")

	// ErrWatchFailed is returned when the lockfile cannot be watched.
	ErrWatchFailed = zerr.New("failed to watch lockfile")
)
