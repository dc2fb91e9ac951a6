package domain

import (
	"regexp"
	"strings"

	"go.trai.ch/zerr"
)

var (
	strictDescriptorRegex = regexp.MustCompile(`^(?:@([^/]+?)/)?([^@/]+?)(?:@(.+))$`)
	looseDescriptorRegex  = regexp.MustCompile(`^(?:@([^/]+?)/)?([^@/]+?)(?:@(.+))?$`)
)

// Descriptor identifies a dependency request: a package name plus the range it was asked for.
type Descriptor struct {
	Scope string
	Name  string
	Range string
}

// DescriptorNormalizer maps a descriptor to its canonical form.
type DescriptorNormalizer func(Descriptor) Descriptor

// ParseDescriptor parses strings such as "lodash@^1.0.0" or "@types/node@npm:20.1.0".
// In strict mode the range is mandatory; otherwise a missing range becomes "unknown".
func ParseDescriptor(s string, strict bool) (Descriptor, error) {
	re := looseDescriptorRegex
	if strict {
		re = strictDescriptorRegex
	}

	m := re.FindStringSubmatch(s)
	if m == nil {
		return Descriptor{}, zerr.With(ErrInvalidDescriptor, "descriptor", s)
	}

	d := Descriptor{Scope: m[1], Name: m[2], Range: m[3]}
	if d.Range == "" {
		d.Range = "unknown"
	}
	return d, nil
}

// Ident returns the package identity, including the scope.
func (d Descriptor) Ident() string {
	if d.Scope != "" {
		return "@" + d.Scope + "/" + d.Name
	}
	return d.Name
}

// String returns the canonical textual form of the descriptor.
func (d Descriptor) String() string {
	return d.Ident() + "@" + d.Range
}

// SplitDescriptorList splits a lockfile key listing several descriptors ("a@^1, a@^1.2").
func SplitDescriptorList(key string) []string {
	parts := strings.Split(key, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinDescriptorList is the inverse of SplitDescriptorList.
func JoinDescriptorList(descriptors []string) string {
	return strings.Join(descriptors, ", ")
}
