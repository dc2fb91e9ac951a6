package ports

import "go.trai.ch/lockmend/internal/core/domain"

// LockfileCodec converts between lockfile text and documents.
//
//go:generate go run go.uber.org/mock/mockgen -source=codec.go -destination=mocks/mock_codec.go -package=mocks
type LockfileCodec interface {
	// Parse reads structured text into a document.
	// Top-level values that are not records are returned as malformed values, not errors.
	Parse(content []byte) (*domain.Document, error)

	// Serialize renders a document as structured text.
	Serialize(doc *domain.Document) ([]byte, error)
}
