// Package linear provides a line-oriented stage renderer for --progress output.
package linear

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/lockmend/internal/core/ports"
	"go.trai.ch/lockmend/internal/ui/output"
	"go.trai.ch/lockmend/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer by printing one line when a stage starts
// and one when it completes, prefixed with the stage path.
type Renderer struct {
	mu     sync.Mutex
	w      *bufio.Writer
	output *termenv.Output
	stages map[string]*stageState // spanID -> stage state
}

type stageState struct {
	path      string
	startTime time.Time
}

// NewRenderer creates a Renderer writing to w, stderr when nil.
func NewRenderer(w io.Writer, profileFn func() termenv.Profile) *Renderer {
	if w == nil {
		w = os.Stderr
	}
	if profileFn == nil {
		profileFn = output.ColorProfileANSI
	}

	buffered := bufio.NewWriter(w)
	return &Renderer{
		w:      buffered,
		output: output.NewWithProfile(buffered, profileFn),
		stages: make(map[string]*stageState),
	}
}

// OnStageStart prints a start line. Nested stages are shown as parent/child.
func (r *Renderer) OnStageStart(spanID, parentID, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	path := name
	if parent, ok := r.stages[parentID]; ok {
		path = parent.path + "/" + name
	}
	r.stages[spanID] = &stageState{path: path, startTime: startTime}

	prefix := r.output.String(fmt.Sprintf("[%s]", path)).Faint().String()
	_, _ = fmt.Fprintf(r.w, "%s started\n", prefix)
}

// OnStageComplete prints the outcome and duration of a stage.
func (r *Renderer) OnStageComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stage, ok := r.stages[spanID]
	if !ok {
		return
	}
	delete(r.stages, spanID)

	duration := endTime.Sub(stage.startTime).Round(time.Millisecond)
	prefix := fmt.Sprintf("[%s]", stage.path)

	if err != nil {
		symbol := r.output.String(style.Cross).Foreground(r.output.Color(string(style.Red))).String()
		_, _ = fmt.Fprintf(r.w, "%s %s failed after %v: %v\n", prefix, symbol, duration, err)
		return
	}

	symbol := r.output.String(style.Check).Foreground(r.output.Color(string(style.Green))).String()
	_, _ = fmt.Fprintf(r.w, "%s %s done in %v\n", prefix, symbol, duration)
}

// Flush writes buffered lines to the underlying writer.
func (r *Renderer) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.w.Flush()
}
