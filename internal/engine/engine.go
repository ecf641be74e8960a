package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/1cbyc/view0x/internal/cache"
	"github.com/1cbyc/view0x/internal/config"
	"github.com/1cbyc/view0x/internal/deps"
	"github.com/1cbyc/view0x/internal/diff"
	"github.com/1cbyc/view0x/internal/fp"
	"github.com/1cbyc/view0x/internal/model"
	"github.com/1cbyc/view0x/internal/util"
)

// Request is one analysis of one unit. Content is the current revision;
// PriorContent, when present, enables incremental merging against the cached
// report of that prior revision. Findings carry the raw issues produced by
// the external scanner collaborators. Units supplies sibling units for
// import-graph resolution.
type Request struct {
	Unit         string
	Content      string
	PriorContent string
	Units        map[string]string
	Findings     []model.Issue
	Tools        []string
}

// Engine drives the result lifecycle: fingerprint, cache lookup, changeset,
// dependency analysis, merge, suppression, cache store. It performs no
// scanning itself.
type Engine struct {
	cfg   config.Config
	store cache.Store
	fps   *fp.Engine
	log   hclog.Logger
}

func New(cfg config.Config, store cache.Store, fps *fp.Engine, log hclog.Logger) *Engine {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	if store == nil {
		store = cache.NewMemory(time.Duration(cfg.CacheTTLHours) * time.Hour)
	}
	if fps == nil {
		fps = fp.New(fp.Options{
			LocationTolerance:   cfg.LocationTolerance,
			MinVerifiedReports:  cfg.MinVerifiedReports,
			ConfidenceThreshold: cfg.ConfidenceThreshold,
		}, log)
	}
	return &Engine{cfg: cfg, store: store, fps: fps, log: log.Named("engine")}
}

// FalsePositives exposes the learning store for report/verify/export flows.
func (e *Engine) FalsePositives() *fp.Engine { return e.fps }

// Analyze produces one consolidated report for the request and refreshes the
// cache entry for the unit's current fingerprint.
func (e *Engine) Analyze(ctx context.Context, req Request) (*model.Report, error) {
	fingerprint := util.Fingerprint(req.Content)

	if cached, ok, err := e.store.Get(ctx, fingerprint); err != nil {
		e.log.Warn("cache lookup failed, analyzing from scratch", "unit", req.Unit, "error", err)
	} else if ok {
		e.log.Debug("cache hit", "unit", req.Unit, "fingerprint", fingerprint)
		out := *cached
		out.Metadata.CacheHit = true
		return &out, nil
	}

	report := e.freshReport(req, fingerprint)

	if req.PriorContent != "" {
		report = e.mergeWithPrior(ctx, req, report)
	}

	report.Vulnerabilities = e.fps.Filter(report.Vulnerabilities, fingerprint)
	report.GasOptimizations = e.fps.Filter(report.GasOptimizations, fingerprint)
	report.CodeQuality = e.fps.Filter(report.CodeQuality, fingerprint)
	report.Recount()

	if err := e.store.Put(ctx, fingerprint, report); err != nil {
		e.log.Warn("cache store failed", "unit", req.Unit, "error", err)
	}
	if err := e.store.Expire(ctx, time.Now()); err != nil {
		e.log.Warn("cache expiry failed", "error", err)
	}

	e.log.Info("analysis complete", "unit", req.Unit,
		"issues", report.Summary.TotalIssues, "incremental", report.Metadata.Incremental)
	return report, nil
}

// freshReport folds the scanner findings and the structural dependency
// analysis into one non-incremental report.
func (e *Engine) freshReport(req Request, fingerprint string) *model.Report {
	report := &model.Report{
		Metadata: model.Metadata{
			Unit:        req.Unit,
			Fingerprint: fingerprint,
			ToolsUsed:   req.Tools,
			Timestamp:   time.Now().UTC(),
		},
	}

	addIssue := func(issue model.Issue) {
		if issue.ID == "" {
			issue.ID = uuid.NewString()
		}
		switch issue.Category {
		case model.CategoryGasOptimization:
			report.GasOptimizations = append(report.GasOptimizations, issue)
		case model.CategoryCodeQuality:
			report.CodeQuality = append(report.CodeQuality, issue)
		default:
			issue.Category = model.CategoryVulnerability
			report.Vulnerabilities = append(report.Vulnerabilities, issue)
		}
	}

	for _, issue := range req.Findings {
		addIssue(issue)
	}

	opts := deps.Options{DeepChainThreshold: e.cfg.DeepChainThreshold}
	structural := deps.Analyze(req.Content, opts)
	report.DependencyGraph = structural.InheritanceGraph
	report.Cycles = structural.Cycles
	report.TopologicalOrder = structural.TopologicalOrder
	for _, issue := range structural.Issues {
		// With sibling units in play, parent resolution belongs to the
		// whole-set pass below; a parent may live in another unit.
		if len(req.Units) > 0 && issue.Type == "missing_parent_contract" {
			continue
		}
		addIssue(issue)
	}

	if len(req.Units) > 0 {
		units := make(map[string]string, len(req.Units)+1)
		for name, content := range req.Units {
			units[name] = content
		}
		if req.Unit != "" {
			units[req.Unit] = req.Content
		}
		for _, issue := range deps.AnalyzeUnits(units, opts).Issues {
			addIssue(issue)
		}
	}

	report.Recount()
	return report
}

// mergeWithPrior attempts the incremental path. The merge only happens when
// the edit touched less than the configured fraction of the unit and a
// cached report for the prior revision is still available; otherwise the
// fresh report stands alone, annotated with the changeset stats.
func (e *Engine) mergeWithPrior(ctx context.Context, req Request, fresh *model.Report) *model.Report {
	cs := diff.Compute(req.PriorContent, req.Content)
	stats := cs.Stats()
	fresh.Metadata.ChangeSet = &stats

	if ratio := diff.Ratio(cs, req.PriorContent, req.Content); ratio >= e.cfg.MaxChangeRatio {
		e.log.Debug("change ratio too high for incremental merge", "unit", req.Unit, "ratio", ratio)
		return fresh
	}

	priorFingerprint := util.Fingerprint(req.PriorContent)
	cached, ok, err := e.store.Get(ctx, priorFingerprint)
	if err != nil {
		e.log.Warn("prior report lookup failed", "unit", req.Unit, "error", err)
		return fresh
	}
	if !ok {
		e.log.Debug("no cached report for prior revision", "unit", req.Unit)
		return fresh
	}

	return Merge(cached, fresh, cs, e.cfg.ProximityWindow)
}
