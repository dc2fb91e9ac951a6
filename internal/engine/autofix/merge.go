package autofix

import (
	"reflect"
	"strconv"

	"go.trai.ch/lockmend/internal/core/domain"
)

// Collision is a key that more than one variant defines with different values.
// The last variant listed in Commits won.
type Collision struct {
	Key     string
	Commits []string
}

// MergeReport summarizes a merge.
type MergeReport struct {
	// Commits are the variants that took part in the merge, in order.
	Commits []string
	// Dropped are the variants discarded for lacking metadata.
	Dropped []string
	// Renamed counts the keys rewritten into their canonical form.
	Renamed    int
	Collisions []Collision
	// Removed lists the keys discarded because their value was not a record.
	Removed []string
}

// selectVariants keeps the variants that carry a metadata record.
func selectVariants(variants []domain.Variant) (kept []domain.Variant, dropped []string) {
	for _, v := range variants {
		if _, ok := v.Document.Metadata(); ok {
			kept = append(kept, v)
		} else {
			dropped = append(dropped, v.Commit)
		}
	}
	return kept, dropped
}

// mergeVariants unions the variants in order. On key collision the later variant wins,
// while the key keeps the position of its first occurrence.
func mergeVariants(variants []domain.Variant) (*domain.Document, []Collision) {
	merged := domain.NewDocument()
	owners := make(map[string][]string)
	var collided []string

	for _, variant := range variants {
		for key, value := range variant.Document.All() {
			if prev, exists := merged.Get(key); exists && key != domain.MetadataKey {
				if !sameValue(prev, value) {
					if len(owners[key]) == 1 {
						collided = append(collided, key)
					}
					owners[key] = append(owners[key], variant.Commit)
				}
			} else {
				owners[key] = []string{variant.Commit}
			}
			merged.Set(key, value)
		}
	}

	collisions := make([]Collision, 0, len(collided))
	for _, key := range collided {
		collisions = append(collisions, Collision{Key: key, Commits: owners[key]})
	}
	return merged, collisions
}

func sameValue(a, b domain.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case domain.KindEntry:
		return reflect.DeepEqual(a.Entry().Fields, b.Entry().Fields)
	case domain.KindMetadata:
		return reflect.DeepEqual(a.Metadata(), b.Metadata())
	default:
		return a.Scalar() == b.Scalar()
	}
}

// reconcileMetadata sets the merged version to the lowest variant version, so the
// package manager refreshes whatever metadata the merge lost, and marks the cache key.
// Other metadata fields come from the last variant.
func reconcileMetadata(merged *domain.Document, variants []domain.Variant) {
	lowest := 0
	for i, v := range variants {
		md, _ := v.Document.Metadata()
		n := md.VersionNumber()
		if i == 0 || n < lowest {
			lowest = n
		}
	}

	md, ok := merged.Metadata()
	if !ok {
		md = &domain.Metadata{}
	} else {
		md = md.Clone()
	}
	md.Version = strconv.Itoa(lowest)
	md.CacheKey = domain.MergedCacheKey
	merged.Set(domain.MetadataKey, domain.MetadataValue(md))
}
