package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"careerpath/internal/domain/assessment"
	"careerpath/internal/domain/career"
	"careerpath/internal/domain/matching"
	"careerpath/internal/domain/report"
	"careerpath/internal/infrastructure/cache"
	"careerpath/internal/repository"
	"careerpath/internal/search"
	"careerpath/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	careerListDefaultLimit = 20
	careerListMaxLimit     = 100
)

type ReportCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type ReportRecorder interface {
	ObserveReport(d time.Duration)
	CacheHit(cache string)
	CacheMiss(cache string)
}

type ReportNotifier interface {
	ReportReady(userID uuid.UUID, data ws.ReportReadyData)
}

type CareerListParams struct {
	Query  string
	Limit  int
	Offset int
}

type CareerList struct {
	Items  []career.Occupation
	Total  int
	Limit  int
	Offset int
}

// CareerDetail is an occupation plus, when the caller has a profile, how
// well they fit it.
type CareerDetail struct {
	Occupation career.Occupation
	Fit        *matching.Candidate
}

type CareerUsecase interface {
	GenerateReport(ctx context.Context, userID uuid.UUID, limit int) (report.Report, error)
	GetReport(ctx context.Context, userID uuid.UUID, limit int) (report.Report, error)
	ListCareers(ctx context.Context, params CareerListParams) (CareerList, error)
	GetCareer(ctx context.Context, userID uuid.UUID, code string) (CareerDetail, error)
}

type Career struct {
	attempts repository.AttemptRepository
	source   career.Source
	reports  repository.ReportRepository
	cache    ReportCache
	cacheTTL time.Duration
	metrics  ReportRecorder
	notifier ReportNotifier
	weights  matching.Weights
	topN     int
	logger   *zap.Logger
	now      func() time.Time
}

type CareerDeps struct {
	Attempts repository.AttemptRepository
	Source   career.Source
	Reports  repository.ReportRepository
	Cache    ReportCache
	CacheTTL time.Duration
	Metrics  ReportRecorder
	Notifier ReportNotifier
	Weights  matching.Weights

	// TopN is the report size used when the caller asks for none.
	TopN   int
	Logger *zap.Logger
}

func NewCareerUsecase(d CareerDeps) *Career {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Career{
		attempts: d.Attempts,
		source:   d.Source,
		reports:  d.Reports,
		cache:    d.Cache,
		cacheTTL: d.CacheTTL,
		metrics:  d.Metrics,
		notifier: d.Notifier,
		weights:  d.Weights.Normalized(),
		topN:     d.TopN,
		logger:   logger,
		now:      time.Now,
	}
}

func (u *Career) clampLimit(limit int) int {
	if limit <= 0 {
		limit = u.topN
	}
	return matching.ClampLimit(limit)
}

// GetReport serves the cached report for (user, limit) and generates a fresh
// one on a miss.
func (u *Career) GetReport(ctx context.Context, userID uuid.UUID, limit int) (report.Report, error) {
	if userID == uuid.Nil {
		return report.Report{}, ErrUnauthorized
	}
	limit = u.clampLimit(limit)

	if u.cache != nil {
		var rep report.Report
		ok, err := u.cache.GetJSON(ctx, cache.ReportKey(userID, limit), &rep)
		if err != nil {
			u.logger.Warn("report cache read failed", zap.String("user_id", userID.String()), zap.Error(err))
		}
		if ok {
			u.cacheHit()
			return rep, nil
		}
		u.cacheMiss()
	}

	return u.GenerateReport(ctx, userID, limit)
}

func (u *Career) GenerateReport(ctx context.Context, userID uuid.UUID, limit int) (report.Report, error) {
	if userID == uuid.Nil {
		return report.Report{}, ErrUnauthorized
	}
	limit = u.clampLimit(limit)
	start := time.Now()

	results, err := u.loadResults(ctx, userID)
	if err != nil {
		return report.Report{}, err
	}
	if _, ok := results[assessment.InstrumentRIASEC]; !ok {
		return report.Report{}, ErrInterestProfileMissing
	}

	occs, err := u.source.List(ctx)
	if err != nil {
		u.logger.Error("occupation load failed", zap.Error(err))
		return report.Report{}, ErrInternal
	}

	rep, err := report.Assemble(report.Input{
		UserID:     userID,
		Results:    results,
		Candidates: matching.Rank(report.Profile(results), occs, u.weights, limit),
		Weights:    u.weights,
		Now:        u.now(),
	})
	if err != nil {
		if errors.Is(err, report.ErrInterestProfileMissing) {
			return report.Report{}, ErrInterestProfileMissing
		}
		return report.Report{}, ErrInternal
	}

	rep.ID = uuid.New()
	if _, err := u.reports.Save(ctx, rep); err != nil {
		u.logger.Error("report save failed", zap.String("user_id", userID.String()), zap.Error(err))
		return report.Report{}, ErrInternal
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, cache.ReportKey(userID, limit), rep, u.cacheTTL); err != nil {
			u.logger.Warn("report cache write failed", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
	if u.metrics != nil {
		u.metrics.ObserveReport(time.Since(start))
	}
	if u.notifier != nil {
		data := ws.ReportReadyData{ReportID: rep.ID, HollandCode: rep.HollandCode}
		if len(rep.Careers) > 0 {
			data.TopCareer = rep.Careers[0].Occupation.Title
		}
		u.notifier.ReportReady(userID, data)
	}

	u.logger.Info("career report generated",
		zap.String("user_id", userID.String()),
		zap.String("report_id", rep.ID.String()),
		zap.Int("careers", len(rep.Careers)),
		zap.Duration("took", time.Since(start)),
	)
	return rep, nil
}

// loadResults fetches the latest completed scores of every instrument in
// parallel. Instruments without a completed attempt are left out.
func (u *Career) loadResults(ctx context.Context, userID uuid.UUID) (map[assessment.Instrument]report.Scores, error) {
	var mu sync.Mutex
	results := make(map[assessment.Instrument]report.Scores, len(assessment.Instruments))

	g, gctx := errgroup.WithContext(ctx)
	for _, inst := range assessment.Instruments {
		g.Go(func() error {
			at, scores, err := u.attempts.LatestCompleted(gctx, userID, inst)
			if err != nil {
				if errors.Is(err, repository.ErrAttemptNotFound) {
					return nil
				}
				return err
			}
			if len(scores) == 0 {
				return nil
			}
			mu.Lock()
			results[inst] = report.Scores{AttemptID: at.ID, Scores: scores}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		u.logger.Error("profile load failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, ErrInternal
	}
	return results, nil
}

func (u *Career) ListCareers(ctx context.Context, params CareerListParams) (CareerList, error) {
	limit := params.Limit
	if limit == 0 {
		limit = careerListDefaultLimit
	}
	if limit < 0 || limit > careerListMaxLimit || params.Offset < 0 {
		return CareerList{}, ErrInvalidInput
	}

	occs, err := u.source.List(ctx)
	if err != nil {
		u.logger.Error("occupation load failed", zap.Error(err))
		return CareerList{}, ErrInternal
	}

	matched := search.Occupations(occs, params.Query)
	out := CareerList{Total: len(matched), Limit: limit, Offset: params.Offset, Items: []career.Occupation{}}
	if params.Offset < len(matched) {
		end := min(params.Offset+limit, len(matched))
		out.Items = matched[params.Offset:end]
	}
	return out, nil
}

func (u *Career) GetCareer(ctx context.Context, userID uuid.UUID, code string) (CareerDetail, error) {
	occ, err := u.source.Get(ctx, code)
	if err != nil {
		if errors.Is(err, career.ErrNotFound) {
			return CareerDetail{}, ErrOccupationNotFound
		}
		return CareerDetail{}, ErrInternal
	}

	detail := CareerDetail{Occupation: occ}
	if userID == uuid.Nil {
		return detail, nil
	}

	results, err := u.loadResults(ctx, userID)
	if err != nil {
		return CareerDetail{}, err
	}
	if len(results) == 0 {
		return detail, nil
	}
	fit := matching.Score(report.Profile(results), occ, u.weights)
	detail.Fit = &fit
	return detail, nil
}

func (u *Career) cacheHit() {
	if u.metrics != nil {
		u.metrics.CacheHit("report")
	}
}

func (u *Career) cacheMiss() {
	if u.metrics != nil {
		u.metrics.CacheMiss("report")
	}
}
