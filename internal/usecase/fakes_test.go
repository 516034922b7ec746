package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"careerpath/internal/domain/assessment"
	"careerpath/internal/domain/career"
	"careerpath/internal/domain/report"
	"careerpath/internal/repository"
	"careerpath/internal/ws"

	"github.com/google/uuid"
)

type mockAssessmentRepo struct {
	items []assessment.Assessment
	err   error
}

func (m *mockAssessmentRepo) List(context.Context) ([]assessment.Assessment, error) {
	return m.items, m.err
}

func (m *mockAssessmentRepo) GetBySlug(_ context.Context, slug string) (assessment.Assessment, error) {
	if m.err != nil {
		return assessment.Assessment{}, m.err
	}
	for _, a := range m.items {
		if a.Slug == slug {
			return a, nil
		}
	}
	return assessment.Assessment{}, repository.ErrAssessmentNotFound
}

func (m *mockAssessmentRepo) GetByID(_ context.Context, id uuid.UUID) (assessment.Assessment, error) {
	for _, a := range m.items {
		if a.ID == id {
			return a, nil
		}
	}
	return assessment.Assessment{}, repository.ErrAssessmentNotFound
}

// newAssessment builds an assessment with one question per category.
func newAssessment(inst assessment.Instrument) assessment.Assessment {
	a := assessment.Assessment{ID: uuid.New(), Slug: string(inst), Instrument: inst, Title: string(inst)}
	for i, c := range inst.Categories() {
		a.Questions = append(a.Questions, assessment.Question{
			ID:           uuid.New(),
			AssessmentID: a.ID,
			Category:     c,
			Prompt:       "prompt " + c,
			Position:     i + 1,
		})
	}
	a.QuestionCount = len(a.Questions)
	return a
}

type mockAttemptRepo struct {
	mu          sync.Mutex
	assessments *mockAssessmentRepo
	attempts    map[uuid.UUID]assessment.Attempt
	responses   map[uuid.UUID][]assessment.Response
	scores      map[uuid.UUID][]assessment.CategoryScore
	createErr   error
	latestErr   error
	// hideOpenOnce makes the next FindOpen miss, as if another request
	// opened the attempt in between.
	hideOpenOnce bool
}

func newMockAttemptRepo(assessments *mockAssessmentRepo) *mockAttemptRepo {
	return &mockAttemptRepo{
		assessments: assessments,
		attempts:    map[uuid.UUID]assessment.Attempt{},
		responses:   map[uuid.UUID][]assessment.Response{},
		scores:      map[uuid.UUID][]assessment.CategoryScore{},
	}
}

func (m *mockAttemptRepo) FindOpen(_ context.Context, userID, assessmentID uuid.UUID) (assessment.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hideOpenOnce {
		m.hideOpenOnce = false
		return assessment.Attempt{}, repository.ErrAttemptNotFound
	}
	for _, at := range m.attempts {
		if at.UserID == userID && at.AssessmentID == assessmentID && !at.Completed() {
			return at, nil
		}
	}
	return assessment.Attempt{}, repository.ErrAttemptNotFound
}

func (m *mockAttemptRepo) Create(ctx context.Context, a assessment.Attempt) (assessment.Attempt, error) {
	if m.createErr != nil {
		return assessment.Attempt{}, m.createErr
	}
	if _, err := m.FindOpen(ctx, a.UserID, a.AssessmentID); err == nil {
		return assessment.Attempt{}, repository.ErrAttemptOpen
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.New()
	if def, err := m.assessments.GetByID(ctx, a.AssessmentID); err == nil {
		a.Instrument = def.Instrument
	}
	m.attempts[a.ID] = a
	return a, nil
}

func (m *mockAttemptRepo) Get(_ context.Context, id uuid.UUID) (assessment.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	at, ok := m.attempts[id]
	if !ok {
		return assessment.Attempt{}, repository.ErrAttemptNotFound
	}
	return at, nil
}

func (m *mockAttemptRepo) UpsertResponses(_ context.Context, attemptID uuid.UUID, responses []assessment.Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.attempts[attemptID].Completed() {
		return repository.ErrAttemptClosed
	}
	m.responses[attemptID] = append(m.responses[attemptID], responses...)
	return nil
}

func (m *mockAttemptRepo) Responses(_ context.Context, attemptID uuid.UUID) ([]assessment.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]assessment.Response(nil), m.responses[attemptID]...), nil
}

func (m *mockAttemptRepo) Complete(_ context.Context, attemptID uuid.UUID, scores []assessment.CategoryScore, completedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	at := m.attempts[attemptID]
	if at.Completed() {
		return repository.ErrAttemptClosed
	}
	at.CompletedAt = &completedAt
	m.attempts[attemptID] = at
	m.scores[attemptID] = scores
	return nil
}

func (m *mockAttemptRepo) Scores(_ context.Context, attemptID uuid.UUID) ([]assessment.CategoryScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scores[attemptID], nil
}

func (m *mockAttemptRepo) LatestCompleted(_ context.Context, userID uuid.UUID, inst assessment.Instrument) (assessment.Attempt, []assessment.CategoryScore, error) {
	if m.latestErr != nil {
		return assessment.Attempt{}, nil, m.latestErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var best assessment.Attempt
	for _, at := range m.attempts {
		if at.UserID != userID || at.Instrument != inst || !at.Completed() {
			continue
		}
		if best.CompletedAt == nil || at.CompletedAt.After(*best.CompletedAt) {
			best = at
		}
	}
	if best.ID == uuid.Nil {
		return assessment.Attempt{}, nil, repository.ErrAttemptNotFound
	}
	return best, m.scores[best.ID], nil
}

// seedCompleted stores a completed attempt with the given scores.
func (m *mockAttemptRepo) seedCompleted(userID uuid.UUID, inst assessment.Instrument, scores map[string]float64) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	at := assessment.Attempt{ID: uuid.New(), UserID: userID, Instrument: inst, StartedAt: now, CompletedAt: &now}
	m.attempts[at.ID] = at
	for _, c := range inst.Categories() {
		m.scores[at.ID] = append(m.scores[at.ID], assessment.CategoryScore{
			Category: c,
			Label:    assessment.CategoryLabel(c),
			Score:    scores[c],
			Answered: 1,
		})
	}
	return at.ID
}

type mockReportRepo struct {
	mu    sync.Mutex
	saved []report.Report
	err   error
}

func (m *mockReportRepo) Save(_ context.Context, rep report.Report) (uuid.UUID, error) {
	if m.err != nil {
		return uuid.Nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, rep)
	return rep.ID, nil
}

func (m *mockReportRepo) Latest(_ context.Context, userID uuid.UUID) (report.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.saved) - 1; i >= 0; i-- {
		if m.saved[i].UserID == userID {
			return m.saved[i], nil
		}
	}
	return report.Report{}, repository.ErrReportNotFound
}

type memCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	invalidated []uuid.UUID
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(_ context.Context, key string, v any, _ time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

// DeleteByPattern supports the trailing-wildcard patterns the code uses.
func (c *memCache) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *memCache) InvalidateReports(_ context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, userID)
	return nil
}

type mockRecorder struct {
	mu        sync.Mutex
	completed map[string]int
	reports   int
	hits      int
	misses    int
}

func newMockRecorder() *mockRecorder { return &mockRecorder{completed: map[string]int{}} }

func (r *mockRecorder) AttemptCompleted(inst string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed[inst]++
}

func (r *mockRecorder) ObserveReport(time.Duration) { r.reports++ }
func (r *mockRecorder) CacheHit(string)             { r.hits++ }
func (r *mockRecorder) CacheMiss(string)            { r.misses++ }

type mockNotifier struct {
	completed []ws.AssessmentCompletedData
	ready     []ws.ReportReadyData
}

func (n *mockNotifier) AssessmentCompleted(_ uuid.UUID, d ws.AssessmentCompletedData) {
	n.completed = append(n.completed, d)
}

func (n *mockNotifier) ReportReady(_ uuid.UUID, d ws.ReportReadyData) {
	n.ready = append(n.ready, d)
}

type staticSource struct {
	occs []career.Occupation
	err  error
}

func (s staticSource) List(context.Context) ([]career.Occupation, error) { return s.occs, s.err }

func (s staticSource) Get(_ context.Context, code string) (career.Occupation, error) {
	if s.err != nil {
		return career.Occupation{}, s.err
	}
	for _, o := range s.occs {
		if o.Code == code {
			return o, nil
		}
	}
	return career.Occupation{}, career.ErrNotFound
}
