// Package detector picks the log format from the environment.
package detector

import (
	"os"

	"golang.org/x/term"
)

// LogFormat is the way log records are rendered.
type LogFormat int

const (
	// FormatPretty renders colored lines for an interactive terminal.
	FormatPretty LogFormat = iota
	// FormatPlain renders basic ANSI colors for CI logs and pipes.
	FormatPlain
	// FormatJSON renders one JSON object per record.
	FormatJSON
)

// String returns the flag value selecting the format.
func (f LogFormat) String() string {
	switch f {
	case FormatPlain:
		return "plain"
	case FormatJSON:
		return "json"
	default:
		return "pretty"
	}
}

// DetectEnvironment returns FormatPretty when stderr is a terminal outside CI,
// and FormatPlain otherwise.
func DetectEnvironment() LogFormat {
	return detect(term.IsTerminal(int(os.Stderr.Fd())), os.Getenv("CI"))
}

func detect(isTTY bool, ci string) LogFormat {
	if !isTTY || ci == "true" || ci == "1" {
		return FormatPlain
	}
	return FormatPretty
}

// ResolveFormat applies the --log-format flag to the detected format.
// Unknown values keep the detected format.
func ResolveFormat(autoDetected LogFormat, userFlag string) LogFormat {
	switch userFlag {
	case "pretty":
		return FormatPretty
	case "plain", "ci":
		return FormatPlain
	case "json":
		return FormatJSON
	default:
		return autoDetected
	}
}
