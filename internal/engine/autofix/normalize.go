package autofix

import (
	"strconv"
	"strings"

	"go.trai.ch/lockmend/internal/core/domain"
)

// needsKeyNormalization reports whether the variant predates normalized keys.
// A missing or non-numeric version is left alone.
func needsKeyNormalization(m *domain.Metadata) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(m.Version), 64)
	if err != nil {
		return false
	}
	return v < domain.NormalizationThreshold
}

// normalizeKeys rewrites every entry key into its canonical descriptor list.
// A renamed entry moves to the end of the document. It returns the number of renamed keys.
func normalizeKeys(doc *domain.Document, normalize domain.DescriptorNormalizer) int {
	renamed := 0
	for _, key := range doc.Keys() {
		if key == domain.MetadataKey {
			continue
		}

		newKey := normalizeKey(key, normalize)
		if newKey == key {
			continue
		}

		v, ok := doc.Get(key)
		if !ok {
			continue
		}
		doc.Set(newKey, v)
		doc.Delete(key)
		renamed++
	}
	return renamed
}

// normalizeKey normalizes each descriptor of a comma-separated key.
// A list is normalized part by part, not parsed as one descriptor whose range would
// swallow the commas, so every alias of a legacy multi-range entry gains the protocol.
// Parts that do not parse as descriptors are kept verbatim.
func normalizeKey(key string, normalize domain.DescriptorNormalizer) string {
	parts := domain.SplitDescriptorList(key)
	if len(parts) == 0 {
		return key
	}

	for i, part := range parts {
		d, err := domain.ParseDescriptor(part, true)
		if err != nil {
			continue
		}
		parts[i] = normalize(d).String()
	}
	return domain.JoinDescriptorList(parts)
}

// namespaceChecksums prefixes every bare checksum with the cache key of its variant,
// so that checksums computed under different cache keys stay distinguishable.
// Checksums that already carry a separator are left as they are.
func namespaceChecksums(doc *domain.Document, cacheKey string) {
	for _, v := range doc.All() {
		if v.Kind() != domain.KindEntry {
			continue
		}

		entry := v.Entry()
		checksum, ok := entry.Checksum()
		if !ok || strings.Contains(checksum, domain.ChecksumSeparator) {
			continue
		}
		entry.SetChecksum(cacheKey + domain.ChecksumSeparator + checksum)
	}
}
