package domain

import (
	"iter"
	"maps"
	"slices"
	"strings"
)

// Fields is the content of a structured record.
// Values are strings, []any, or nested Fields.
type Fields map[string]any

// Clone returns a deep copy of the fields.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = cloneAny(v)
	}
	return out
}

func cloneAny(v any) any {
	switch t := v.(type) {
	case Fields:
		return t.Clone()
	case map[string]any:
		return Fields(t).Clone()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneAny(item)
		}
		return out
	default:
		return t
	}
}

// Kind tags the shape of a top-level lockfile value.
type Kind int

const (
	// KindMalformed is a plain scalar where a record was expected.
	// The codec produces it for legacy entries it could not read as records.
	KindMalformed Kind = iota
	// KindMetadata is the reserved metadata record.
	KindMetadata
	// KindEntry is a package record.
	KindEntry
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindMetadata:
		return "metadata"
	case KindEntry:
		return "entry"
	default:
		return "malformed"
	}
}

// Value is a top-level lockfile value: exactly one of Metadata, Entry or a malformed scalar.
type Value struct {
	kind     Kind
	metadata *Metadata
	entry    *Entry
	scalar   string
}

// MetadataValue wraps a metadata record.
func MetadataValue(m *Metadata) Value {
	return Value{kind: KindMetadata, metadata: m}
}

// EntryValue wraps a package record.
func EntryValue(e *Entry) Value {
	return Value{kind: KindEntry, entry: e}
}

// MalformedValue wraps a scalar produced in place of a record.
func MalformedValue(s string) Value {
	return Value{kind: KindMalformed, scalar: s}
}

// Kind returns the tag of the value.
func (v Value) Kind() Kind { return v.kind }

// Metadata returns the metadata record, or nil if the value is not one.
func (v Value) Metadata() *Metadata { return v.metadata }

// Entry returns the package record, or nil if the value is not one.
func (v Value) Entry() *Entry { return v.entry }

// Scalar returns the raw text of a malformed value.
func (v Value) Scalar() string { return v.scalar }

// Clone returns a deep copy of the value.
func (v Value) Clone() Value {
	switch v.kind {
	case KindMetadata:
		return MetadataValue(v.metadata.Clone())
	case KindEntry:
		return EntryValue(v.entry.Clone())
	default:
		return v
	}
}

// Metadata is the reserved record carrying the lockfile format version and cache key.
type Metadata struct {
	// Version is kept as text: it is an integer in fresh lockfiles and a string once merged.
	Version  string
	CacheKey string
	// Extra holds every other metadata field, untouched.
	Extra Fields
}

// VersionNumber parses the leading digits of Version. Missing or unparseable versions are 0.
func (m *Metadata) VersionNumber() int {
	if m == nil {
		return 0
	}
	s := strings.TrimSpace(m.Version)
	n := 0
	for i, r := range s {
		if r < '0' || r > '9' {
			if i == 0 {
				return 0
			}
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// Clone returns a deep copy of the metadata.
func (m *Metadata) Clone() *Metadata {
	if m == nil {
		return nil
	}
	return &Metadata{
		Version:  m.Version,
		CacheKey: m.CacheKey,
		Extra:    m.Extra.Clone(),
	}
}

// ChecksumField is the record field holding the integrity checksum.
const ChecksumField = "checksum"

// Entry is a package record. Records in the wild carry a checksum; workspace records do not.
type Entry struct {
	Fields Fields
}

// NewEntry creates an Entry from its fields.
func NewEntry(fields Fields) *Entry {
	if fields == nil {
		fields = Fields{}
	}
	return &Entry{Fields: fields}
}

// Checksum returns the checksum field when it is present and textual.
func (e *Entry) Checksum() (string, bool) {
	if e == nil {
		return "", false
	}
	s, ok := e.Fields[ChecksumField].(string)
	return s, ok
}

// SetChecksum replaces the checksum field.
func (e *Entry) SetChecksum(checksum string) {
	if e.Fields == nil {
		e.Fields = Fields{}
	}
	e.Fields[ChecksumField] = checksum
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	return &Entry{Fields: e.Fields.Clone()}
}

// Document is a parsed lockfile: an insertion-ordered mapping from keys to values.
type Document struct {
	keys   []string
	values map[string]Value
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{values: make(map[string]Value)}
}

// Len returns the number of top-level keys.
func (d *Document) Len() int { return len(d.keys) }

// Get returns the value stored under key.
func (d *Document) Get(key string) (Value, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Set stores a value. Replacing an existing key keeps its original position.
func (d *Document) Set(key string, v Value) {
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

// Delete removes key from the document.
func (d *Document) Delete(key string) {
	if _, exists := d.values[key]; !exists {
		return
	}
	delete(d.values, key)
	if i := slices.Index(d.keys, key); i >= 0 {
		d.keys = slices.Delete(d.keys, i, i+1)
	}
}

// Keys returns the keys in insertion order.
func (d *Document) Keys() []string {
	return slices.Clone(d.keys)
}

// SortedKeys returns the metadata key first, then every other key in lexical order.
func (d *Document) SortedKeys() []string {
	keys := slices.Sorted(maps.Keys(d.values))
	if i := slices.Index(keys, MetadataKey); i > 0 {
		keys = slices.Delete(keys, i, i+1)
		keys = slices.Insert(keys, 0, MetadataKey)
	}
	return keys
}

// All iterates over the document in insertion order.
func (d *Document) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range slices.Clone(d.keys) {
			v, ok := d.values[k]
			if !ok {
				continue
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

// Metadata returns the metadata record, if the document has a well-formed one.
func (d *Document) Metadata() (*Metadata, bool) {
	v, ok := d.values[MetadataKey]
	if !ok || v.Kind() != KindMetadata || v.Metadata() == nil {
		return nil, false
	}
	return v.Metadata(), true
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{
		keys:   slices.Clone(d.keys),
		values: make(map[string]Value, len(d.values)),
	}
	for k, v := range d.values {
		out.values[k] = v.Clone()
	}
	return out
}

// Variant is one version of the lockfile as it existed in a given commit.
type Variant struct {
	Commit   string
	Document *Document
}
