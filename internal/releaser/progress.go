package releaser

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ProgressReporter receives publish step updates.
type ProgressReporter interface {
	Start(tag string, totalSteps int)
	Step(name string)
	StepDone(name string)
	Error(name string, err error)
	Complete()
}

// Progress tracks and reports publish progress.
type Progress struct {
	mu         sync.Mutex
	writer     io.Writer
	enabled    bool
	startTime  time.Time
	tag        string
	totalSteps int
	current    int
	errors     int
}

// ProgressConfig configures progress reporting.
type ProgressConfig struct {
	// Writer is where progress is written. Default is os.Stderr.
	Writer io.Writer

	// Enabled controls whether progress is reported.
	Enabled bool
}

// NewProgress creates a new progress reporter.
func NewProgress(cfg ProgressConfig) *Progress {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}
	return &Progress{
		writer:  cfg.Writer,
		enabled: cfg.Enabled,
	}
}

// Start begins tracking progress for publishing a tag.
func (p *Progress) Start(tag string, totalSteps int) {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.tag = tag
	p.totalSteps = totalSteps
	p.current = 0
	p.errors = 0

	fmt.Fprintf(p.writer, "Publishing %s (%d steps)...\n", tag, totalSteps)
}

// Step reports that a step has started.
func (p *Progress) Step(name string) {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current++
	fmt.Fprintf(p.writer, "  [%d/%d] %s", p.current, p.totalSteps, name)
}

// StepDone reports that the current step succeeded.
func (p *Progress) StepDone(_ string) {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.writer, " ok")
}

// Error marks the current step as failed. The error itself is printed once,
// by whoever handles it.
func (p *Progress) Error(_ string, _ error) {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.errors++
	fmt.Fprintln(p.writer, " failed")
}

// Complete finishes progress tracking and prints a summary.
func (p *Progress) Complete() {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.startTime).Round(time.Millisecond)

	if p.errors > 0 {
		fmt.Fprintf(p.writer, "Publishing %s stopped after %d of %d steps (%s)\n",
			p.tag, p.current, p.totalSteps, elapsed)
		return
	}
	fmt.Fprintf(p.writer, "Published %s in %s\n", p.tag, elapsed)
}

type nopProgress struct{}

func (nopProgress) Start(string, int)   {}
func (nopProgress) Step(string)         {}
func (nopProgress) StepDone(string)     {}
func (nopProgress) Error(string, error) {}
func (nopProgress) Complete()           {}
