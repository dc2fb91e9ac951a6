package autofix

import "go.trai.ch/lockmend/internal/core/domain"

// removeMalformed deletes every top-level value that is not a record.
// A malformed value that won a collision takes the key down with it.
func removeMalformed(doc *domain.Document) []string {
	var removed []string
	for key, value := range doc.All() {
		if value.Kind() == domain.KindMalformed {
			doc.Delete(key)
			removed = append(removed, key)
		}
	}
	return removed
}
