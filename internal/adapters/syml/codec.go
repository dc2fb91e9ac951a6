// Package syml implements the lockfile codec on top of YAML.
package syml

import (
	"bytes"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/lockmend/internal/core/domain"
	"go.trai.ch/lockmend/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.LockfileCodec = (*Codec)(nil)

// legacyHeaderRegex matches the comment banner of lockfiles written by the v1 client.
var legacyHeaderRegex = regexp.MustCompile(`(?i)^(#.*\r?\n)*?#\s+yarn\s+lockfile\s+v1\r?\n`)

// fieldPriority lists the record fields written before the alphabetical remainder.
var fieldPriority = []string{
	"version",
	"cacheKey",
	"resolution",
	"dependencies",
	"peerDependencies",
	"dependenciesMeta",
	"peerDependenciesMeta",
	"binaries",
}

const (
	strTag  = "!!str"
	nullTag = "!!null"
)

// Codec implements ports.LockfileCodec.
type Codec struct{}

// NewCodec creates a new Codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Parse reads a lockfile. Scalars keep their raw text whatever their tag,
// so custom tags never make a document unreadable.
func (c *Codec) Parse(content []byte) (*domain.Document, error) {
	if legacyHeaderRegex.Match(content) {
		return parseLegacy(content)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return nil, zerr.Wrap(err, "invalid structured text")
	}

	doc := domain.NewDocument()
	if root.Kind == 0 || len(root.Content) == 0 {
		return doc, nil
	}

	top := deref(root.Content[0])
	switch {
	case top.Kind == yaml.MappingNode:
	case top.Kind == yaml.ScalarNode && top.ShortTag() == nullTag:
		return doc, nil
	default:
		return nil, zerr.With(zerr.New("expected an indexed object at the top level"), "line", top.Line)
	}

	for i := 0; i+1 < len(top.Content); i += 2 {
		key := deref(top.Content[i]).Value
		doc.Set(key, toValue(key, deref(top.Content[i+1])))
	}

	return doc, nil
}

// Serialize renders a document with the metadata first, the remaining keys sorted,
// and a blank line between top-level records.
func (c *Codec) Serialize(doc *domain.Document) ([]byte, error) {
	chunks := make([][]byte, 0, doc.Len())

	for _, key := range doc.SortedKeys() {
		v, _ := doc.Get(key)

		mapping := &yaml.Node{Kind: yaml.MappingNode}
		mapping.Content = append(mapping.Content, scalarNode(key), valueNode(v))

		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(mapping); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to encode record"), "key", key)
		}
		if err := enc.Close(); err != nil {
			return nil, zerr.Wrap(err, "failed to encode record")
		}
		chunks = append(chunks, buf.Bytes())
	}

	return bytes.Join(chunks, []byte("\n")), nil
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func toValue(key string, n *yaml.Node) domain.Value {
	if n.Kind != yaml.MappingNode {
		return domain.MalformedValue(n.Value)
	}

	fields := toFields(n)
	if key != domain.MetadataKey {
		return domain.EntryValue(domain.NewEntry(fields))
	}

	m := &domain.Metadata{}
	if v, ok := fields["version"].(string); ok {
		m.Version = v
	}
	if v, ok := fields["cacheKey"].(string); ok {
		m.CacheKey = v
	}
	delete(fields, "version")
	delete(fields, "cacheKey")
	if len(fields) > 0 {
		m.Extra = fields
	}
	return domain.MetadataValue(m)
}

func toFields(n *yaml.Node) domain.Fields {
	fields := make(domain.Fields, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		fields[deref(n.Content[i]).Value] = toAny(deref(n.Content[i+1]))
	}
	return fields
}

func toAny(n *yaml.Node) any {
	switch n.Kind {
	case yaml.MappingNode:
		return toFields(n)
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			items = append(items, toAny(deref(item)))
		}
		return items
	default:
		if n.ShortTag() == nullTag {
			return nil
		}
		return n.Value
	}
}

func valueNode(v domain.Value) *yaml.Node {
	switch v.Kind() {
	case domain.KindMetadata:
		m := v.Metadata()
		fields := m.Extra.Clone()
		if fields == nil {
			fields = domain.Fields{}
		}
		fields["version"] = m.Version
		fields["cacheKey"] = m.CacheKey
		return fieldsNode(fields)
	case domain.KindEntry:
		return fieldsNode(v.Entry().Fields)
	default:
		return scalarNode(v.Scalar())
	}
}

func fieldsNode(fields domain.Fields) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range sortFieldKeys(fields) {
		n.Content = append(n.Content, scalarNode(k), anyNode(fields[k]))
	}
	return n
}

func anyNode(v any) *yaml.Node {
	switch t := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: nullTag, Value: "null"}
	case domain.Fields:
		return fieldsNode(t)
	case map[string]any:
		return fieldsNode(t)
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range t {
			n.Content = append(n.Content, anyNode(item))
		}
		return n
	case string:
		return scalarNode(t)
	default:
		return &yaml.Node{Kind: yaml.ScalarNode}
	}
}

// scalarNode emits plain text when possible. Text that would read back as null is
// quoted so that it survives a round trip as a string.
func scalarNode(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Value: s}
	if readsAsNull(s) {
		n.Tag = strTag
	}
	return n
}

func readsAsNull(s string) bool {
	switch s {
	case "", "~", "null", "Null", "NULL":
		return true
	default:
		return false
	}
}

func sortFieldKeys(fields domain.Fields) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		pa, pb := priority(a), priority(b)
		if pa != pb {
			return pa - pb
		}
		return strings.Compare(a, b)
	})
	return keys
}

func priority(key string) int {
	if i := slices.Index(fieldPriority, key); i >= 0 {
		return i
	}
	return len(fieldPriority)
}
