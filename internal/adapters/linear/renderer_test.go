package linear_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lockmend/internal/adapters/linear"
	"go.trai.ch/lockmend/internal/ui/output"
)

func TestRenderer_StageLifecycle(t *testing.T) {
	var buf bytes.Buffer
	r := linear.NewRenderer(&buf, output.ColorProfileAscii)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.OnStageStart("root", "", "autofix", start)
	r.OnStageStart("s1", "root", "retrieve", start)
	r.OnStageComplete("s1", start.Add(42*time.Millisecond), nil)
	r.OnStageStart("s2", "root", "merge", start.Add(42*time.Millisecond))
	r.OnStageComplete("s2", start.Add(45*time.Millisecond), errors.New("no mergeable variants"))
	r.OnStageComplete("root", start.Add(100*time.Millisecond), nil)

	assert.Empty(t, buf.String(), "output is buffered until Flush")
	require.NoError(t, r.Flush())

	g := goldie.New(t)
	g.Assert(t, "stage_lifecycle", buf.Bytes())
}

func TestRenderer_UnknownSpan(t *testing.T) {
	var buf bytes.Buffer
	r := linear.NewRenderer(&buf, output.ColorProfileAscii)

	r.OnStageComplete("missing", time.Now(), nil)
	require.NoError(t, r.Flush())
	assert.Empty(t, buf.String())
}
