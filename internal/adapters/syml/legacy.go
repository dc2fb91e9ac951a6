package syml

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"go.trai.ch/lockmend/internal/core/domain"
	"go.trai.ch/zerr"
)

// legacyFrame is an open block of the indentation-based v1 format.
type legacyFrame struct {
	indent int
	fields domain.Fields
}

// parseLegacy reads the v1 lockfile format:
//
//	"foo@^1.0.0", foo@^1.1.0:
//	  version "1.1.0"
//	  dependencies:
//	    bar "^2.0.0"
//
// Each descriptor of a comma-separated key gets its own copy of the record.
// The result never carries metadata.
func parseLegacy(content []byte) (*domain.Document, error) {
	top := domain.Fields{}
	var order []string
	stack := []legacyFrame{{indent: -1, fields: top}}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimRight(scanner.Text(), "\r")
		text := strings.TrimSpace(raw)
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		indent := len(raw) - len(strings.TrimLeft(raw, " "))
		for len(stack) > 1 && indent <= stack[len(stack)-1].indent {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].fields

		if keys, ok := strings.CutSuffix(text, ":"); ok {
			child := domain.Fields{}
			for _, key := range splitLegacyKeys(keys) {
				parent[key] = child
				if len(stack) == 1 {
					order = append(order, key)
				}
			}
			stack = append(stack, legacyFrame{indent: indent, fields: child})
			continue
		}

		key, value, err := splitLegacyPair(text)
		if err != nil {
			return nil, zerr.With(err, "line", lineNo)
		}
		parent[key] = value
		if len(stack) == 1 {
			order = append(order, key)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to read legacy lockfile")
	}

	doc := domain.NewDocument()
	for _, key := range order {
		switch v := top[key].(type) {
		case domain.Fields:
			doc.Set(key, domain.EntryValue(domain.NewEntry(v.Clone())))
		case string:
			doc.Set(key, domain.MalformedValue(v))
		}
	}
	return doc, nil
}

func splitLegacyKeys(s string) []string {
	parts := strings.Split(s, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		keys = append(keys, unquote(p))
	}
	return keys
}

func splitLegacyPair(text string) (string, string, error) {
	var key, rest string
	if strings.HasPrefix(text, `"`) {
		end := closingQuote(text)
		if end < 0 {
			return "", "", zerr.New("unterminated string")
		}
		key, rest = unquote(text[:end+1]), text[end+1:]
	} else {
		var found bool
		key, rest, found = strings.Cut(text, " ")
		if !found {
			return "", "", zerr.With(zerr.New("expected a value"), "key", key)
		}
	}

	rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), ":"))
	return key, unquote(rest), nil
}

// closingQuote returns the index of the quote ending the string opened at s[0].
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
		return s[1 : len(s)-1]
	}
	return s
}
