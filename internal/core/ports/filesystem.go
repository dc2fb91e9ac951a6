package ports

// ChangeOptions controls how FileSystem.ChangeFile writes content.
type ChangeOptions struct {
	// AutomaticNewlines rewrites line endings to match the file being replaced.
	AutomaticNewlines bool
}

// FileSystem abstracts the file operations used on the lockfile.
//
//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// Exists reports whether path exists.
	Exists(path string) (bool, error)

	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)

	// ChangeFile replaces the content of path in a single step.
	// Readers observe either the old or the new content, never a mix.
	// It reports whether the file was rewritten; identical content is left alone.
	ChangeFile(path string, content []byte, opts ChangeOptions) (bool, error)
}
