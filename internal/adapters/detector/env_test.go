package detector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/lockmend/internal/adapters/detector"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		isTTY bool
		ci    string
		want  detector.LogFormat
	}{
		{name: "terminal outside CI", isTTY: true, want: detector.FormatPretty},
		{name: "terminal with CI=true", isTTY: true, ci: "true", want: detector.FormatPlain},
		{name: "terminal with CI=1", isTTY: true, ci: "1", want: detector.FormatPlain},
		{name: "terminal with CI=false", isTTY: true, ci: "false", want: detector.FormatPretty},
		{name: "pipe", isTTY: false, want: detector.FormatPlain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.Detect(tt.isTTY, tt.ci))
		})
	}
}

func TestDetectEnvironment_CI(t *testing.T) {
	t.Setenv("CI", "true")
	assert.Equal(t, detector.FormatPlain, detector.DetectEnvironment())
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name     string
		detected detector.LogFormat
		flag     string
		want     detector.LogFormat
	}{
		{name: "auto keeps detection", detected: detector.FormatPlain, flag: "auto", want: detector.FormatPlain},
		{name: "empty keeps detection", detected: detector.FormatPretty, flag: "", want: detector.FormatPretty},
		{name: "pretty overrides", detected: detector.FormatPlain, flag: "pretty", want: detector.FormatPretty},
		{name: "json overrides", detected: detector.FormatPretty, flag: "json", want: detector.FormatJSON},
		{name: "ci alias", detected: detector.FormatPretty, flag: "ci", want: detector.FormatPlain},
		{name: "unknown keeps detection", detected: detector.FormatPretty, flag: "xml", want: detector.FormatPretty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.ResolveFormat(tt.detected, tt.flag))
		})
	}
}

func TestLogFormat_String(t *testing.T) {
	assert.Equal(t, "pretty", detector.FormatPretty.String())
	assert.Equal(t, "plain", detector.FormatPlain.String())
	assert.Equal(t, "json", detector.FormatJSON.String())
}
