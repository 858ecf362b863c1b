package web_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ianmwanzi/portfolio/internal/content"
	mockcontact "github.com/ianmwanzi/portfolio/internal/contact/mock"
	mockmailer "github.com/ianmwanzi/portfolio/internal/mailer/mock"
	"github.com/ianmwanzi/portfolio/internal/metrics"
	"github.com/ianmwanzi/portfolio/internal/storage/sqlite"
	"github.com/ianmwanzi/portfolio/internal/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	srv     *web.Server
	store   *sqlite.Store
	mailer  *mockmailer.MockMailer
	sender  *mockcontact.MockSender
	content *content.Content
	metrics *metrics.Metrics
}

func testOptions() web.Options {
	return web.Options{
		Addr:          "127.0.0.1:0",
		MetricsPath:   "/metrics",
		AdminUsername: "admin",
		TrackingSalt:  "pepper",
	}
}

func newTestEnv(t *testing.T, opts web.Options) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)

	c, err := content.Default()
	require.NoError(t, err)

	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "web.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	env := &testEnv{
		store:   store,
		mailer:  mockmailer.NewMockMailer(ctrl),
		sender:  mockcontact.NewMockSender(ctrl),
		content: c,
		metrics: metrics.New(prometheus.NewRegistry()),
	}

	env.srv, err = web.New(web.Deps{
		Content: c,
		Storage: store,
		Mailer:  env.mailer,
		Metrics: env.metrics,
		Sender:  env.sender,
	}, opts)
	require.NoError(t, err)
	t.Cleanup(env.srv.Wait)

	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestNewRequiresDeps(t *testing.T) {
	_, err := web.New(web.Deps{}, testOptions())
	require.Error(t, err)
}

func TestNewLeavesGinModeAlone(t *testing.T) {
	opts := testOptions()
	opts.Environment = "production"
	newTestEnv(t, opts)

	require.Equal(t, gin.TestMode, gin.Mode())
}

func TestPagesRender(t *testing.T) {
	env := newTestEnv(t, testOptions())

	cases := map[string]string{
		"/":         "Featured Projects",
		"/about":    "Professional Experience",
		"/skills":   "Continuous Learning",
		"/projects": "Real Projects. Real Impact.",
		"/contact":  "Send Me a Message",
		"/privacy":  "Privacy Policy",
	}
	for path, marker := range cases {
		t.Run(path, func(t *testing.T) {
			rec := env.get(path)
			require.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			require.Contains(t, body, marker)
			require.Contains(t, body, env.content.Profile.Name)
			require.Contains(t, body, `data-lucide="github"`)
		})
	}
}

func TestNavigationMarksActivePage(t *testing.T) {
	env := newTestEnv(t, testOptions())

	body := env.get("/skills").Body.String()
	require.Contains(t, body, `<a href="/skills" class="nav-link active" aria-current="page">Skills</a>`)
	require.Contains(t, body, `<a href="/about" class="nav-link">About</a>`)
}

func TestHomeShowsFeaturedInOrder(t *testing.T) {
	env := newTestEnv(t, testOptions())

	body := env.get("/").Body.String()
	first := strings.Index(body, "E-Commerce Platform")
	second := strings.Index(body, "Weather Dashboard")
	require.Positive(t, first)
	require.Greater(t, second, first)
	require.NotContains(t, body, "Task Management App")
	require.Contains(t, body, `data-reveal data-reveal-delay="200"`)
}

func TestProjectsFilter(t *testing.T) {
	env := newTestEnv(t, testOptions())

	featured := env.get("/projects?filter=featured").Body.String()
	require.Contains(t, featured, "Weather Dashboard")
	require.NotContains(t, featured, "Portfolio Website")

	for _, q := range []string{"", "?filter=all", "?filter=mobile"} {
		all := env.get("/projects" + q).Body.String()
		for _, p := range env.content.Projects {
			require.Contains(t, all, p.Title, q)
		}
	}
}

func TestProjectsTechnologyOverflow(t *testing.T) {
	env := newTestEnv(t, testOptions())

	body := env.get("/projects").Body.String()
	// E-Commerce Platform lists five technologies.
	require.Contains(t, body, "+2 more")
}

func TestSkillsAverages(t *testing.T) {
	env := newTestEnv(t, testOptions())

	body := env.get("/skills").Body.String()
	for _, g := range content.GroupSkills(env.content.Skills) {
		require.Contains(t, body, g.Category.Title())
	}
	require.Contains(t, body, `<div class="summary-value">94%</div>`)
	require.Contains(t, body, `<div class="summary-value">83%</div>`)
}

func TestNotFound(t *testing.T) {
	env := newTestEnv(t, testOptions())

	rec := env.get("/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Return to Home")
}

func TestStaticAssets(t *testing.T) {
	env := newTestEnv(t, testOptions())

	for _, p := range env.content.Projects {
		rec := env.get(env.content.ImageURL(p))
		require.Equal(t, http.StatusOK, rec.Code, p.Image)
	}
	require.Equal(t, http.StatusOK, env.get(env.content.Profile.Resume).Code)
	require.Contains(t, env.get("/static/js/reveal.js").Body.String(), "IntersectionObserver")
}

// Blocks taller than the viewport never reach a fractional threshold, so the
// browser observer must fire on any intersection.
func TestRevealScriptFiresOnAnyIntersection(t *testing.T) {
	env := newTestEnv(t, testOptions())

	script := env.get("/static/js/reveal.js").Body.String()
	require.Contains(t, script, "{ threshold: 0 }")
	require.Contains(t, script, "entry.isIntersecting")
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t, testOptions())

	rec := env.get("/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	env.get("/")
	body, err := io.ReadAll(env.get("/metrics").Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `portfolio_page_views_total{page="home"} 1`)
}

func TestRequestIDHeader(t *testing.T) {
	env := newTestEnv(t, testOptions())

	require.NotEmpty(t, env.get("/").Header().Get("X-Request-Id"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc")
	require.Equal(t, "abc", env.do(req).Header().Get("X-Request-Id"))
}

func TestProjectsAPI(t *testing.T) {
	env := newTestEnv(t, testOptions())

	var featured []content.Project
	rec := env.get("/api/projects?filter=featured")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &featured))
	require.Len(t, featured, 2)
	require.Equal(t, 1, featured[0].ID)
	require.Equal(t, 3, featured[1].ID)

	var p content.Project
	rec = env.get("/api/projects/2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.Equal(t, "Task Management App", p.Title)

	require.Equal(t, http.StatusNotFound, env.get("/api/projects/99").Code)
	require.Equal(t, http.StatusBadRequest, env.get("/api/projects/x").Code)
}
