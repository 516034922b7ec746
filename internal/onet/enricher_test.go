package onet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"careerpath/internal/config"
	"careerpath/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type enrichment struct {
	description string
	titles      []string
}

type fakeEnrichRepo struct {
	mu      sync.Mutex
	pending []repository.OnetOccupation
	updated map[string]enrichment
}

func (f *fakeEnrichRepo) PendingEnrichment(ctx context.Context, limit int) ([]repository.OnetOccupation, error) {
	if limit > 0 && limit < len(f.pending) {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeEnrichRepo) UpdateEnrichment(ctx context.Context, code, description string, titles []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updated == nil {
		f.updated = map[string]enrichment{}
	}
	f.updated[code] = enrichment{description: description, titles: titles}
	return nil
}

const summaryPage = `<html><body><div id="content">
<p>Research, design, and develop
   computer software.</p>
<p><b>Sample of reported job titles:</b> Application Developer, Software Engineer ,  Developer</p>
</div></body></html>`

func newSummaryServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch strings.TrimPrefix(r.URL.Path, "/summary/") {
		case "15-1252.00":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(summaryPage))
		case "27-1024.00":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body><div id="other"></div></body></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testOnetConfig(baseURL string) config.OnetConfig {
	return config.OnetConfig{
		SummaryBaseURL:      baseURL + "/summary/",
		Workers:             2,
		UserAgent:           "careerpath-test",
		DescriptionSelector: "#content > p:first-of-type",
		TitlesSelector:      "#content p:contains('Sample of reported job titles')",
	}
}

func TestEnricher_Run(t *testing.T) {
	srv := newSummaryServer(t)
	repo := &fakeEnrichRepo{pending: []repository.OnetOccupation{
		{Code: "15-1252.00", Title: "Software Developers"},
		{Code: "27-1024.00", Title: "Graphic Designers"},
		{Code: "99-9999.00", Title: "Missing"},
	}}
	core, logs := observer.New(zapcore.WarnLevel)

	sum, err := NewEnricher(repo, testOnetConfig(srv.URL), zap.New(core)).Run(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, EnrichSummary{Attempted: 3, Enriched: 1, Failed: 2}, sum)
	assert.Equal(t, 2, logs.FilterMessage("onet enrichment failed").Len())

	got := repo.updated["15-1252.00"]
	assert.Equal(t, "Research, design, and develop computer software.", got.description)
	assert.Equal(t, []string{"Application Developer", "Software Engineer", "Developer"}, got.titles)
	assert.NotContains(t, repo.updated, "27-1024.00")
}

func TestEnricher_NothingPending(t *testing.T) {
	sum, err := NewEnricher(&fakeEnrichRepo{}, testOnetConfig("http://127.0.0.1"), nil).Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, sum)
}

func TestSplitTitles(t *testing.T) {
	assert.Equal(t, []string{"A", "B C"}, splitTitles("Sample of reported job titles:  A,  B   C ,"))
	assert.Empty(t, splitTitles(""))
}

func TestHostFromURL(t *testing.T) {
	assert.Equal(t, "www.onetonline.org", hostFromURL("https://www.onetonline.org/link/summary/"))
	assert.Equal(t, "127.0.0.1", hostFromURL("http://127.0.0.1:8080/x"))
	assert.Equal(t, "", hostFromURL("::bad"))
}
