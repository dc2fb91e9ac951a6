package domain

const (
	// MetadataKey is the reserved top-level key holding the lockfile metadata.
	MetadataKey = "__metadata"

	// ConflictMarker is the text version control inserts at the start of a conflicting region.
	ConflictMarker = "<<<<<<<"

	// NormalizationThreshold is the first lockfile version whose keys are already normalized.
	// Variants below it carry bare descriptors such as "lodash@1.0.0".
	NormalizationThreshold = 7

	// ChecksumSeparator separates the originating cache key from the checksum.
	ChecksumSeparator = "/"

	// MergedCacheKey is the cache key written to a merged lockfile.
	MergedCacheKey = "merged"

	// DefaultLockfileName is the lockfile name used when the project does not configure one.
	DefaultLockfileName = "yarn.lock"

	// DefaultProtocol is the protocol implied by a bare semver range.
	DefaultProtocol = "npm:"

	// DefaultGitBinary is the version control program queried for conflict variants.
	DefaultGitBinary = "git"

	// RCFileName is the name of the project configuration file.
	RCFileName = ".yarnrc.yml"

	// ManifestFileName marks a project root when no lockfile exists yet.
	ManifestFileName = "package.json"

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)
