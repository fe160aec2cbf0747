package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"hotindex/internal/collector"
	"hotindex/internal/domain/analysis"
	"hotindex/internal/domain/weights"
	"hotindex/internal/insight"
	"hotindex/internal/scoring"
)

// WeightSource loads the active weight configuration, creating the
// default when none exists.
type WeightSource interface {
	GetActive(ctx context.Context) (weights.WeightConfiguration, error)
}

// RecordStore persists analysis records.
type RecordStore interface {
	Save(ctx context.Context, record *analysis.AnalysisRecord) error
	AttachRefs(ctx context.Context, id, insightRef, reportRef string) error
}

// InsightGenerator is the external narrative-insight collaborator.
type InsightGenerator interface {
	GenerateInsights(ctx context.Context, record analysis.AnalysisRecord) (analysis.InsightResult, error)
}

// ReportRenderer is the external report collaborator.
type ReportRenderer interface {
	RenderReport(ctx context.Context, record analysis.AnalysisRecord, insight analysis.InsightResult) (analysis.ReportInfo, error)
}

// Request is one batch analysis invocation.
type Request struct {
	Keywords []string
	Start    time.Time
	End      time.Time
}

// Config contains pipeline configuration.
type Config struct {
	EventsTopic string
}

// Pipeline orchestrates one analysis run per keyword: concurrent
// collector fan-out, scoring, persistence, then the insight and report
// collaborators.
type Pipeline struct {
	collectors collector.Set
	weightSrc  WeightSource
	records    RecordStore
	insight    InsightGenerator
	reports    ReportRenderer
	eventBus   *nats.Conn
	config     Config
	logger     *zap.Logger
	now        func() time.Time
}

// New creates a pipeline. eventBus may be nil when no message bus is
// configured; events are then skipped.
func New(
	collectors collector.Set,
	weightSrc WeightSource,
	records RecordStore,
	insight InsightGenerator,
	reports ReportRenderer,
	eventBus *nats.Conn,
	config Config,
	logger *zap.Logger,
) *Pipeline {
	if config.EventsTopic == "" {
		config.EventsTopic = "analysis"
	}
	return &Pipeline{
		collectors: collectors,
		weightSrc:  weightSrc,
		records:    records,
		insight:    insight,
		reports:    reports,
		eventBus:   eventBus,
		config:     config,
		logger:     logger,
		now:        time.Now,
	}
}

// Run validates the request, then processes keywords sequentially so
// outbound request volume stays bounded by one keyword's fan-out.
// Records persisted before an error remain persisted; they are returned
// alongside the error.
func (p *Pipeline) Run(ctx context.Context, req Request) ([]analysis.AnalysisRecord, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	cfg, err := p.weightSrc.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active weight configuration: %w", err)
	}

	completed := make([]analysis.AnalysisRecord, 0, len(req.Keywords))
	for _, keyword := range req.Keywords {
		record, err := p.runKeyword(ctx, keyword, req.Start, req.End, cfg)
		if err != nil {
			return completed, err
		}
		completed = append(completed, record)
		p.publishEvent("progress", record)
	}

	return completed, nil
}

func validate(req Request) error {
	if len(req.Keywords) == 0 {
		return &analysis.ValidationError{Field: "keywords", Message: "keyword list must not be empty"}
	}
	for _, kw := range req.Keywords {
		if strings.TrimSpace(kw) == "" {
			return &analysis.ValidationError{Field: "keywords", Message: "keyword must not be blank"}
		}
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return &analysis.ValidationError{Field: "dates", Message: "start and end dates are required"}
	}
	if !req.Start.Before(req.End) {
		return &analysis.ValidationError{Field: "dates", Message: "start date must be before end date"}
	}
	return nil
}

func (p *Pipeline) runKeyword(ctx context.Context, keyword string, start, end time.Time, cfg weights.WeightConfiguration) (analysis.AnalysisRecord, error) {
	began := p.now()

	sources, failed := p.collectAll(ctx, keyword, start, end)
	indices := scoring.Score(sources, cfg)

	record := analysis.AnalysisRecord{
		ID:               uuid.New().String(),
		Keyword:          keyword,
		Date:             began.Truncate(24 * time.Hour),
		AnalysisDate:     began,
		Sources:          sources,
		Metrics:          indices,
		WeightConfigID:   cfg.ID,
		DataQuality:      analysis.QualityForFailures(failed),
		ProcessingTimeMs: time.Since(began).Milliseconds(),
	}

	if err := p.records.Save(ctx, &record); err != nil {
		return analysis.AnalysisRecord{}, err
	}

	p.logger.Info("analysis record persisted",
		zap.String("keyword", keyword),
		zap.Int("overall", indices.Overall),
		zap.Int("failed_sources", failed),
		zap.String("data_quality", string(record.DataQuality)))

	p.attachCollaboratorOutput(ctx, &record)
	p.publishEvent("completed", record)

	return record, nil
}

// collectAll fans out to all six collectors concurrently and joins
// once every branch has settled. A failed branch contributes its
// zero-valued metrics and bumps the failure count; it never aborts the
// other five.
func (p *Pipeline) collectAll(ctx context.Context, keyword string, start, end time.Time) (analysis.SourceSet, int) {
	var (
		set    analysis.SourceSet
		mu     sync.Mutex
		wg     sync.WaitGroup
		failed int
	)

	run := func(source analysis.SourceName, fetch func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fetch(); err != nil {
				p.logger.Warn("collector failed, scoring source as zero",
					zap.String("source", string(source)),
					zap.String("keyword", keyword),
					zap.Error(err))
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}()
	}

	run(analysis.SourceNews, func() error {
		m, err := p.collectors.News.Collect(ctx, keyword, start, end)
		if err != nil {
			return err
		}
		mu.Lock()
		set.News = m
		mu.Unlock()
		return nil
	})
	run(analysis.SourceTrend, func() error {
		m, err := p.collectors.Trend.Collect(ctx, keyword, start, end)
		if err != nil {
			return err
		}
		mu.Lock()
		set.Trend = m
		mu.Unlock()
		return nil
	})
	run(analysis.SourceVideo, func() error {
		m, err := p.collectors.Video.Collect(ctx, keyword, start, end)
		if err != nil {
			return err
		}
		mu.Lock()
		set.Video = m
		mu.Unlock()
		return nil
	})
	run(analysis.SourceMicroblog, func() error {
		m, err := p.collectors.Microblog.Collect(ctx, keyword, start, end)
		if err != nil {
			return err
		}
		mu.Lock()
		set.Microblog = m
		mu.Unlock()
		return nil
	})
	run(analysis.SourcePhoto, func() error {
		m, err := p.collectors.Photo.Collect(ctx, keyword, start, end)
		if err != nil {
			return err
		}
		mu.Lock()
		set.Photo = m
		mu.Unlock()
		return nil
	})
	run(analysis.SourceShortVideo, func() error {
		m, err := p.collectors.ShortVideo.Collect(ctx, keyword, start, end)
		if err != nil {
			return err
		}
		mu.Lock()
		set.ShortVideo = m
		mu.Unlock()
		return nil
	})

	wg.Wait()
	return set, failed
}

// attachCollaboratorOutput runs the insight and report collaborators
// and attaches their references onto the persisted record. Collaborator
// failure degrades to the fallback insight; it never unwinds the scored
// record.
func (p *Pipeline) attachCollaboratorOutput(ctx context.Context, record *analysis.AnalysisRecord) {
	ins, err := p.insight.GenerateInsights(ctx, *record)
	if err != nil {
		p.logger.Warn("insight generation failed, using fallback",
			zap.String("keyword", record.Keyword),
			zap.Error(err))
		ins = insight.Fallback(*record)
	}
	insightRef := uuid.New().String()

	var reportRef string
	if p.reports != nil {
		report, err := p.reports.RenderReport(ctx, *record, ins)
		if err != nil {
			p.logger.Warn("report rendering failed",
				zap.String("keyword", record.Keyword),
				zap.Error(err))
		} else {
			reportRef = report.ID
		}
	}

	if err := p.records.AttachRefs(ctx, record.ID, insightRef, reportRef); err != nil {
		p.logger.Error("failed to attach collaborator refs",
			zap.String("record_id", record.ID),
			zap.Error(err))
		return
	}
	record.InsightRef = insightRef
	record.ReportRef = reportRef
}

type analysisEvent struct {
	Keyword     string           `json:"keyword"`
	RecordID    string           `json:"record_id"`
	Metrics     analysis.Indices `json:"metrics"`
	DataQuality string           `json:"data_quality"`
	Time        time.Time        `json:"time"`
}

func (p *Pipeline) publishEvent(kind string, record analysis.AnalysisRecord) {
	if p.eventBus == nil {
		return
	}

	data, err := json.Marshal(analysisEvent{
		Keyword:     record.Keyword,
		RecordID:    record.ID,
		Metrics:     record.Metrics,
		DataQuality: string(record.DataQuality),
		Time:        p.now(),
	})
	if err != nil {
		return
	}

	topic := fmt.Sprintf("%s.%s", p.config.EventsTopic, kind)
	if err := p.eventBus.Publish(topic, data); err != nil {
		p.logger.Warn("failed to publish analysis event",
			zap.String("topic", topic),
			zap.Error(err))
	}
}
