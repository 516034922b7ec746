package onet

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"careerpath/internal/config"
	"careerpath/internal/repository"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

const sampleTitlesPrefix = "Sample of reported job titles:"

var ErrNoDescription = errors.New("no description found")

type EnrichSummary struct {
	Attempted int `json:"attempted"`
	Enriched  int `json:"enriched"`
	Failed    int `json:"failed"`
}

type page struct {
	Description  string
	SampleTitles []string
}

// Enricher fills missing occupation descriptions from O*NET OnLine summary
// pages.
type Enricher struct {
	repo      repository.OnetEnrichmentRepository
	logger    *zap.Logger
	baseURL   string
	userAgent string
	workers   int
	rps       int
	descSel   string
	titlesSel string
	timeout   time.Duration
}

func NewEnricher(repo repository.OnetEnrichmentRepository, cfg config.OnetConfig, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		repo:      repo,
		logger:    logger,
		baseURL:   cfg.SummaryBaseURL,
		userAgent: cfg.UserAgent,
		workers:   cfg.Workers,
		rps:       cfg.RatePerSecond,
		descSel:   cfg.DescriptionSelector,
		titlesSel: cfg.TitlesSelector,
		timeout:   20 * time.Second,
	}
}

// Run crawls up to limit occupations lacking a description. A failing page is
// logged and counted without stopping the run.
func (e *Enricher) Run(ctx context.Context, limit int) (EnrichSummary, error) {
	pending, err := e.repo.PendingEnrichment(ctx, limit)
	if err != nil {
		return EnrichSummary{}, fmt.Errorf("list pending occupations: %w", err)
	}
	if len(pending) == 0 {
		return EnrichSummary{}, nil
	}

	base := e.newCollector()
	pool := NewWorkerPool(e.workers, len(pending))
	pool.SetRateLimit(e.rps)
	results := pool.Run(ctx)

	for _, occ := range pending {
		pool.Submit(ctx, Task{Key: occ.Code, Run: func(ctx context.Context) error {
			pg, err := e.fetch(ctx, base.Clone(), occ.Code)
			if err != nil {
				return err
			}
			return e.repo.UpdateEnrichment(ctx, occ.Code, pg.Description, pg.SampleTitles)
		}})
	}
	pool.Close()

	sum := EnrichSummary{}
	for r := range results {
		sum.Attempted++
		if r.Err != nil {
			sum.Failed++
			e.logger.Warn("onet enrichment failed", zap.String("code", r.Key), zap.Error(r.Err))
			continue
		}
		sum.Enriched++
	}
	e.logger.Info("onet enrichment finished",
		zap.Int("attempted", sum.Attempted),
		zap.Int("enriched", sum.Enriched),
		zap.Int("failed", sum.Failed),
	)
	return sum, ctx.Err()
}

func (e *Enricher) newCollector() *colly.Collector {
	opts := []colly.CollectorOption{}
	if host := hostFromURL(e.baseURL); host != "" {
		opts = append(opts, colly.AllowedDomains(host))
	}
	if ua := strings.TrimSpace(e.userAgent); ua != "" {
		opts = append(opts, colly.UserAgent(ua))
	}
	c := colly.NewCollector(opts...)
	c.SetRequestTimeout(e.timeout)
	return c
}

func (e *Enricher) summaryURL(code string) string {
	return strings.TrimRight(e.baseURL, "/") + "/" + url.PathEscape(code)
}

func (e *Enricher) fetch(ctx context.Context, c *colly.Collector, code string) (page, error) {
	var out page
	var reqErr error

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	c.OnHTML(e.descSel, func(el *colly.HTMLElement) {
		if out.Description == "" {
			out.Description = strings.Join(strings.Fields(el.Text), " ")
		}
	})

	c.OnHTML(e.titlesSel, func(el *colly.HTMLElement) {
		if len(out.SampleTitles) == 0 {
			out.SampleTitles = splitTitles(el.Text)
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		reqErr = fmt.Errorf("status %d: %w", r.StatusCode, err)
	})

	if err := ctx.Err(); err != nil {
		return page{}, err
	}
	if err := c.Visit(e.summaryURL(code)); err != nil {
		return page{}, err
	}
	c.Wait()
	if reqErr != nil {
		return page{}, reqErr
	}
	if out.Description == "" {
		return page{}, ErrNoDescription
	}
	return out, nil
}

func splitTitles(text string) []string {
	text = strings.TrimSpace(text)
	text = strings.TrimSpace(strings.TrimPrefix(text, sampleTitlesPrefix))
	out := make([]string, 0)
	for _, t := range strings.Split(text, ",") {
		t = strings.Join(strings.Fields(t), " ")
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func hostFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(u.Host); err == nil {
		return h
	}
	return u.Host
}
