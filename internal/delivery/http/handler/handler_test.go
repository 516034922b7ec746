package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"careerpath/internal/delivery/http/dto"
	"careerpath/internal/delivery/http/middleware"
	"careerpath/internal/domain/assessment"
	"careerpath/internal/domain/career"
	"careerpath/internal/domain/directory"
	"careerpath/internal/domain/report"
	"careerpath/internal/domain/user"
	"careerpath/internal/usecase"
	ucauth "careerpath/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// newTestApp mounts the error middleware and, when userID is not nil,
// injects the identity the auth middleware would set.
func newTestApp(userID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(zap.NewNop()).Middleware())
	app.Use(func(c fiber.Ctx) error {
		if userID != uuid.Nil {
			c.Locals(middleware.CtxUserIDKey, userID)
		}
		return c.Next()
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

type stubAssessments struct {
	items []assessment.Assessment
}

func (s *stubAssessments) ListAssessments(context.Context) ([]assessment.Assessment, error) {
	return s.items, nil
}

func (s *stubAssessments) GetAssessment(_ context.Context, slug string) (assessment.Assessment, error) {
	for _, a := range s.items {
		if a.Slug == slug {
			return a, nil
		}
	}
	return assessment.Assessment{}, usecase.ErrAssessmentNotFound
}

type stubAttempts struct {
	state     usecase.AttemptState
	startErr  error
	submitted []assessment.Response
	result    usecase.AttemptResult
	resultErr error
}

func (s *stubAttempts) StartAttempt(context.Context, uuid.UUID, string) (usecase.AttemptState, error) {
	return s.state, s.startErr
}

func (s *stubAttempts) SubmitResponses(_ context.Context, _, attemptID uuid.UUID, rs []assessment.Response) (usecase.SubmitProgress, error) {
	s.submitted = rs
	return usecase.SubmitProgress{AttemptID: attemptID, Answered: len(rs), Total: 6}, nil
}

func (s *stubAttempts) CompleteAttempt(context.Context, uuid.UUID, uuid.UUID) (usecase.AttemptResult, error) {
	return s.result, s.resultErr
}

func (s *stubAttempts) GetAttemptResult(context.Context, uuid.UUID, uuid.UUID) (usecase.AttemptResult, error) {
	return s.result, s.resultErr
}

type stubCareers struct {
	rep       report.Report
	reportErr error
	limit     int
	params    usecase.CareerListParams
	detail    usecase.CareerDetail
}

func (s *stubCareers) GenerateReport(ctx context.Context, userID uuid.UUID, limit int) (report.Report, error) {
	return s.GetReport(ctx, userID, limit)
}

func (s *stubCareers) GetReport(_ context.Context, _ uuid.UUID, limit int) (report.Report, error) {
	s.limit = limit
	return s.rep, s.reportErr
}

func (s *stubCareers) ListCareers(_ context.Context, p usecase.CareerListParams) (usecase.CareerList, error) {
	s.params = p
	return usecase.CareerList{Items: []career.Occupation{{Code: "15-1252.00", Title: "Software Developers"}}, Total: 1, Limit: 20}, nil
}

func (s *stubCareers) GetCareer(_ context.Context, _ uuid.UUID, code string) (usecase.CareerDetail, error) {
	if code != s.detail.Occupation.Code {
		return usecase.CareerDetail{}, usecase.ErrOccupationNotFound
	}
	return s.detail, nil
}

type stubDirectory struct {
	created directory.University
	known   map[uuid.UUID]bool
}

func (s *stubDirectory) ListUniversities(_ context.Context, p directory.ListParams) (directory.Page[directory.University], error) {
	if p.Sort == "bogus" {
		return directory.Page[directory.University]{}, usecase.ErrInvalidInput
	}
	return directory.Page[directory.University]{Items: []directory.University{{Name: "MIT"}}, Total: 1, Limit: 20}, nil
}

func (s *stubDirectory) CreateUniversity(_ context.Context, u directory.University) (directory.University, error) {
	u.ID = uuid.New()
	s.created = u
	return u, nil
}

func (s *stubDirectory) UpdateUniversity(_ context.Context, u directory.University) (directory.University, error) {
	if !s.known[u.ID] {
		return directory.University{}, usecase.ErrEntryNotFound
	}
	return u, nil
}

func (s *stubDirectory) DeleteUniversity(_ context.Context, id uuid.UUID) error {
	if !s.known[id] {
		return usecase.ErrEntryNotFound
	}
	return nil
}

func (s *stubDirectory) ListCompanies(context.Context, directory.ListParams) (directory.Page[directory.Company], error) {
	return directory.Page[directory.Company]{}, nil
}

func (s *stubDirectory) CreateCompany(_ context.Context, co directory.Company) (directory.Company, error) {
	if co.Name == "Acme" {
		return directory.Company{}, usecase.ErrDuplicateEntry
	}
	return co, nil
}

func (s *stubDirectory) UpdateCompany(_ context.Context, co directory.Company) (directory.Company, error) {
	return co, nil
}

func (s *stubDirectory) DeleteCompany(context.Context, uuid.UUID) error { return nil }

type stubAuth struct {
	registerErr error
	refreshed   string
}

func (s *stubAuth) Register(_ context.Context, in ucauth.RegisterInput) (user.User, usecase.TokenPair, error) {
	if s.registerErr != nil {
		return user.User{}, usecase.TokenPair{}, s.registerErr
	}
	return user.User{ID: uuid.New(), Email: in.Email, Name: in.Name}, usecase.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
}

func (s *stubAuth) Login(context.Context, ucauth.LoginInput) (user.User, usecase.TokenPair, error) {
	return user.User{}, usecase.TokenPair{}, ucauth.ErrInvalidCredentials
}

func (s *stubAuth) Refresh(_ context.Context, tok string) (usecase.TokenPair, error) {
	s.refreshed = tok
	return usecase.TokenPair{AccessToken: "a2", RefreshToken: "r2"}, nil
}

func riasecAssessment() assessment.Assessment {
	return assessment.Assessment{
		ID:            uuid.New(),
		Slug:          "riasec",
		Instrument:    assessment.InstrumentRIASEC,
		Title:         "Interest Profiler",
		QuestionCount: 1,
		Questions: []assessment.Question{
			{ID: uuid.New(), Category: "realistic", Prompt: "Build kitchen cabinets", ReverseScored: true, Position: 1},
		},
	}
}

func TestAssessmentHandler_ListAndGet(t *testing.T) {
	a := riasecAssessment()
	h := NewAssessmentHandler(&stubAssessments{items: []assessment.Assessment{a}}, &stubAttempts{})
	app := newTestApp(uuid.New())
	h.RegisterRoutes(app.Group("/assessments"))

	status, env := do(t, app, fiber.MethodGet, "/assessments", "")
	require.Equal(t, fiber.StatusOK, status)
	var list []dto.AssessmentSummary
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "riasec", list[0].Slug)

	status, env = do(t, app, fiber.MethodGet, "/assessments/riasec", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.NotContains(t, string(env.Data), "reverse", "scoring direction stays server-side")

	status, env = do(t, app, fiber.MethodGet, "/assessments/nope", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Assessment not found", env.Message)
}

func TestAssessmentHandler_StartAttempt(t *testing.T) {
	a := riasecAssessment()
	attempts := &stubAttempts{state: usecase.AttemptState{
		Attempt:    assessment.Attempt{ID: uuid.New(), AssessmentID: a.ID, StartedAt: time.Now()},
		Assessment: a,
	}}
	h := NewAssessmentHandler(&stubAssessments{items: []assessment.Assessment{a}}, attempts)
	app := newTestApp(uuid.New())
	h.RegisterRoutes(app.Group("/assessments"))

	status, _ := do(t, app, fiber.MethodPost, "/assessments/riasec/attempts", "")
	assert.Equal(t, fiber.StatusCreated, status)

	attempts.state.Resumed = true
	status, env := do(t, app, fiber.MethodPost, "/assessments/riasec/attempts", "")
	assert.Equal(t, fiber.StatusOK, status)
	var got dto.AttemptResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.True(t, got.Resumed)
}

func TestAssessmentHandler_StartAttemptRequiresUser(t *testing.T) {
	h := NewAssessmentHandler(&stubAssessments{}, &stubAttempts{})
	app := newTestApp(uuid.Nil)
	h.RegisterRoutes(app.Group("/assessments"))

	status, _ := do(t, app, fiber.MethodPost, "/assessments/riasec/attempts", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAttemptHandler_SubmitResponses(t *testing.T) {
	attempts := &stubAttempts{}
	h := NewAttemptHandler(attempts, dto.NewValidator())
	app := newTestApp(uuid.New())
	h.RegisterRoutes(app.Group("/attempts"))

	qid := uuid.New()
	attemptID := uuid.New()
	body := `{"responses":[{"question_id":"` + qid.String() + `","value":4}]}`

	status, env := do(t, app, fiber.MethodPut, "/attempts/"+attemptID.String()+"/responses", body)
	require.Equal(t, fiber.StatusOK, status)
	var prog dto.ProgressResponse
	require.NoError(t, json.Unmarshal(env.Data, &prog))
	assert.Equal(t, attemptID, prog.AttemptID)
	assert.Equal(t, 1, prog.Answered)
	require.Len(t, attempts.submitted, 1)
	assert.Equal(t, assessment.Response{QuestionID: qid, Value: 4}, attempts.submitted[0])
}

func TestAttemptHandler_SubmitValidation(t *testing.T) {
	h := NewAttemptHandler(&stubAttempts{}, dto.NewValidator())
	app := newTestApp(uuid.New())
	h.RegisterRoutes(app.Group("/attempts"))
	target := "/attempts/" + uuid.NewString() + "/responses"

	tests := []struct {
		name string
		path string
		body string
		msg  string
	}{
		{name: "value out of range", path: target, body: `{"responses":[{"question_id":"` + uuid.NewString() + `","value":6}]}`, msg: "Validation failed"},
		{name: "bad question id", path: target, body: `{"responses":[{"question_id":"x","value":3}]}`, msg: "Validation failed"},
		{name: "empty list", path: target, body: `{"responses":[]}`, msg: "Validation failed"},
		{name: "malformed json", path: target, body: `{"responses":`, msg: "Invalid request payload"},
		{name: "bad attempt id", path: "/attempts/nope/responses", body: `{"responses":[]}`, msg: "Invalid id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, app, fiber.MethodPut, tt.path, tt.body)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Equal(t, tt.msg, env.Message)
		})
	}
}

func TestAttemptHandler_CompleteErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{err: usecase.ErrAttemptIncomplete, status: fiber.StatusUnprocessableEntity},
		{err: usecase.ErrAttemptCompleted, status: fiber.StatusConflict},
		{err: usecase.ErrAttemptNotFound, status: fiber.StatusNotFound},
		{err: errors.New("db down"), status: fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			h := NewAttemptHandler(&stubAttempts{resultErr: tt.err}, dto.NewValidator())
			app := newTestApp(uuid.New())
			h.RegisterRoutes(app.Group("/attempts"))

			status, env := do(t, app, fiber.MethodPost, "/attempts/"+uuid.NewString()+"/complete", "")
			assert.Equal(t, tt.status, status)
			assert.NotContains(t, env.Message, "db down")
		})
	}
}

func TestAttemptHandler_Result(t *testing.T) {
	res := usecase.AttemptResult{
		AttemptID:   uuid.New(),
		Assessment:  "riasec",
		Instrument:  assessment.InstrumentRIASEC,
		HollandCode: "IAS",
		CompletedAt: time.Now().UTC(),
	}
	h := NewAttemptHandler(&stubAttempts{result: res}, dto.NewValidator())
	app := newTestApp(uuid.New())
	h.RegisterRoutes(app.Group("/attempts"))

	status, env := do(t, app, fiber.MethodGet, "/attempts/"+res.AttemptID.String()+"/result", "")
	require.Equal(t, fiber.StatusOK, status)
	var got dto.AttemptResultResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "IAS", got.HollandCode)
	assert.Equal(t, "riasec", got.Instrument)
}

func TestCareerHandler_Report(t *testing.T) {
	careers := &stubCareers{rep: report.Report{HollandCode: "IAS"}}
	h := NewCareerHandler(careers, dto.NewValidator())
	app := newTestApp(uuid.New())
	h.RegisterReportRoutes(app.Group("/me"))

	status, env := do(t, app, fiber.MethodGet, "/me/career-report?limit=5", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 5, careers.limit)
	assert.Contains(t, string(env.Data), `"holland_code":"IAS"`)

	status, _ = do(t, app, fiber.MethodGet, "/me/career-report?limit=51", "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	careers.reportErr = usecase.ErrInterestProfileMissing
	status, env = do(t, app, fiber.MethodGet, "/me/career-report", "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "Complete the interest assessment first", env.Message)
}

func TestCareerHandler_ListAndGet(t *testing.T) {
	careers := &stubCareers{detail: usecase.CareerDetail{Occupation: career.Occupation{Code: "15-1252.00", Title: "Software Developers"}}}
	h := NewCareerHandler(careers, dto.NewValidator())
	app := newTestApp(uuid.New())
	h.RegisterRoutes(app.Group("/careers"))

	status, env := do(t, app, fiber.MethodGet, "/careers?q=software&limit=10&offset=0", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, usecase.CareerListParams{Query: "software", Limit: 10}, careers.params)
	var list dto.CareerListResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 1, list.Total)

	status, _ = do(t, app, fiber.MethodGet, "/careers?offset=-1", "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = do(t, app, fiber.MethodGet, "/careers/15-1252.00", "")
	require.Equal(t, fiber.StatusOK, status)
	var detail dto.CareerDetailResponse
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "Software Developers", detail.Title)

	status, _ = do(t, app, fiber.MethodGet, "/careers/00-0000.00", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestDirectoryHandler(t *testing.T) {
	known := uuid.New()
	dir := &stubDirectory{known: map[uuid.UUID]bool{known: true}}
	h := NewDirectoryHandler(dir, dto.NewValidator())
	app := newTestApp(uuid.New())
	h.RegisterRoutes(app)
	h.RegisterAdminRoutes(app.Group("/admin"))

	status, env := do(t, app, fiber.MethodGet, "/universities?sort=world_rank", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(env.Data), "MIT")

	status, _ = do(t, app, fiber.MethodGet, "/universities?sort=bogus", "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, fiber.MethodPost, "/admin/universities", `{"name":"ETH Zurich","country":"CH","world_rank":7}`)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "ETH Zurich", dir.created.Name)
	require.NotNil(t, dir.created.WorldRank)
	assert.Equal(t, 7, *dir.created.WorldRank)

	status, _ = do(t, app, fiber.MethodPost, "/admin/universities", `{"name":"   "}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, fiber.MethodPut, "/admin/universities/"+uuid.NewString(), `{"name":"Gone"}`)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = do(t, app, fiber.MethodDelete, "/admin/universities/"+known.String(), "")
	assert.Equal(t, fiber.StatusOK, status)

	status, env = do(t, app, fiber.MethodPost, "/admin/companies", `{"name":"Acme"}`)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "Entry already exists", env.Message)
}

func TestAuthHandler(t *testing.T) {
	auth := &stubAuth{}
	h := NewAuthHandler(auth, dto.NewValidator())
	app := newTestApp(uuid.Nil)
	h.RegisterRoutes(app.Group("/auth"))

	status, env := do(t, app, fiber.MethodPost, "/auth/register", `{"email":"ada@example.com","name":"Ada","password":"correct-horse"}`)
	require.Equal(t, fiber.StatusCreated, status)
	var got dto.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "ada@example.com", got.User.Email)
	assert.Equal(t, "a", got.AccessToken)

	status, env = do(t, app, fiber.MethodPost, "/auth/register", `{"email":"nope","password":"short"}`)
	require.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(env.Data), "email")
	assert.Contains(t, string(env.Data), "password")

	auth.registerErr = ucauth.ErrEmailAlreadyRegistered
	status, _ = do(t, app, fiber.MethodPost, "/auth/register", `{"email":"ada@example.com","password":"correct-horse"}`)
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = do(t, app, fiber.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"wrong"}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = do(t, app, fiber.MethodPost, "/auth/refresh", `{"refresh_token":"tok"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "tok", auth.refreshed)

	status, _ = do(t, app, fiber.MethodPost, "/auth/refresh", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		checks []HealthCheck
		status int
	}{
		{name: "all up", checks: []HealthCheck{{Name: "postgres", Pinger: fakePinger{}, Critical: true}, {Name: "redis", Pinger: fakePinger{}}}, status: fiber.StatusOK},
		{name: "cache down", checks: []HealthCheck{{Name: "postgres", Pinger: fakePinger{}, Critical: true}, {Name: "redis", Pinger: fakePinger{err: errors.New("refused")}}}, status: fiber.StatusOK},
		{name: "db down", checks: []HealthCheck{{Name: "postgres", Pinger: fakePinger{err: errors.New("refused")}, Critical: true}}, status: fiber.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			NewHealthHandler(tt.checks...).RegisterRoutes(app)

			status, _ := do(t, app, fiber.MethodGet, "/health", "")
			assert.Equal(t, tt.status, status)
		})
	}
}
