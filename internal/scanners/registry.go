package scanners

import (
	"context"
	"runtime"
	"sync"

	"github.com/1cbyc/view0x/internal/model"
)

// Meta describes a detector for listing commands.
type Meta struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Severity model.Severity `json:"severity"`
	Category model.Category `json:"category"`
}

// Detector is one heuristic check over a unit's raw text. Detectors are
// collaborators of the lifecycle engine: they produce raw issues and know
// nothing about caching or suppression.
type Detector interface {
	Meta() Meta
	Analyze(ctx context.Context, unit, content string) ([]model.Issue, error)
}

type Registry struct{ detectors []Detector }

func NewRegistry() *Registry { return &Registry{} }

func (r *Registry) Register(d Detector) { r.detectors = append(r.detectors, d) }

func (r *Registry) RegisterBuiltin() {
	r.Register(&gasChecks{})
	r.Register(&qualityChecks{})
}

func (r *Registry) Detectors() []Detector { return r.detectors }

// Run executes all detectors concurrently and collects their issues. A
// failing detector contributes nothing rather than failing the run.
func (r *Registry) Run(ctx context.Context, unit, content string) []model.Issue {
	cpu := runtime.NumCPU()
	if cpu < 2 {
		cpu = 2
	}
	ch := make(chan []model.Issue, len(r.detectors))
	sem := make(chan struct{}, cpu)
	var wg sync.WaitGroup
	for _, d := range r.detectors {
		d := d
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			issues, err := d.Analyze(ctx, unit, content)
			if err != nil {
				ch <- nil
				return
			}
			ch <- issues
		}()
	}
	wg.Wait()
	close(ch)
	var out []model.Issue
	for issues := range ch {
		out = append(out, issues...)
	}
	return out
}
