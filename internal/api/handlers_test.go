package api

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/news-impact-tracker/internal/export"
	"github.com/user/news-impact-tracker/internal/models"
	"github.com/user/news-impact-tracker/internal/tracker"
	"github.com/user/news-impact-tracker/pkg/config"
)

type fakePortfolio struct {
	result *models.AnalysisResult
	err    error

	assets []string
	days   int
}

func (f *fakePortfolio) AnalyzePortfolio(ctx context.Context, assets []string, maxArticlesPerAsset, timeFilterDays int) (*models.AnalysisResult, error) {
	f.assets = assets
	f.days = timeFilterDays
	return f.result, f.err
}

func (f *fakePortfolio) TestConnectivity(ctx context.Context) map[string]bool {
	return map[string]bool{tracker.StatusNewsScraping: true, tracker.StatusAIAnalysis: false, tracker.StatusAIReachable: false}
}

func newTestServer(p Portfolio) *Server {
	gin.SetMode(gin.TestMode)
	return NewServer(p, config.Default(), zerolog.Nop())
}

func sampleResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		Timestamp:      "2024-05-01T12:00:00Z",
		AssetsAnalyzed: []string{"AAPL"},
		NewsEntries: []models.NewsEntry{{
			Asset: "AAPL", Title: "Apple gains", Summary: "s", Source: "reuters.com", URL: "https://www.reuters.com/a",
			PublishedAt: "2024-05-01", Sentiment: models.SentimentPositive, ImpactTimeframe: models.TimeframeShort,
			ImpactMagnitude: models.MagnitudeHigh, ConfidenceScore: 0.8,
		}},
		PortfolioAnalysis: models.PortfolioAnalysis{TotalArticles: 1, OverallSentiment: models.OutlookBullish, RiskLevel: models.MagnitudeLow},
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&fakePortfolio{})

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newTestServer(&fakePortfolio{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestHandleConnectivity(t *testing.T) {
	s := newTestServer(&fakePortfolio{})

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/connectivity", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var status map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status["news_scraping"])
	assert.False(t, status["ai_analysis"])
}

func TestHandleSupportedAssets(t *testing.T) {
	s := newTestServer(&fakePortfolio{})

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/assets/supported", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"BTC-USD"`)
}

func TestHandleAnalyze(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		query    string
		result   *models.AnalysisResult
		err      error
		wantCode int
		check    func(t *testing.T, w *httptest.ResponseRecorder, p *fakePortfolio)
	}{
		{
			name:     "json result",
			body:     `{"assets": ["aapl"], "max_articles_per_asset": 3, "time_filter_days": 2}`,
			result:   sampleResult(),
			wantCode: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder, p *fakePortfolio) {
				assert.Equal(t, []string{"aapl"}, p.assets)
				assert.Equal(t, 2, p.days)
				assert.Contains(t, w.Body.String(), `"news_entries"`)
				assert.Contains(t, w.Body.String(), `"impact_timeframe":"Short-Term"`)
			},
		},
		{
			name:     "csv result",
			body:     `{"assets": ["AAPL"]}`,
			query:    "?format=csv",
			result:   sampleResult(),
			wantCode: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder, p *fakePortfolio) {
				assert.Equal(t, 1, p.days)
				assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
				records, err := csv.NewReader(w.Body).ReadAll()
				require.NoError(t, err)
				require.Len(t, records, 2)
				assert.Equal(t, export.CSVColumns, records[0])
			},
		},
		{
			name:     "invalid input",
			body:     `{"assets": []}`,
			err:      fmt.Errorf("%w: no assets provided", tracker.ErrInvalidInput),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed body",
			body:     `{"assets": `,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "pipeline failure",
			body:     `{"assets": ["AAPL"]}`,
			err:      fmt.Errorf("%w: %w", tracker.ErrAnalysisFailed, errors.New("boom")),
			wantCode: http.StatusInternalServerError,
			check: func(t *testing.T, w *httptest.ResponseRecorder, p *fakePortfolio) {
				assert.NotContains(t, w.Body.String(), "boom")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePortfolio{result: tt.result, err: tt.err}
			s := newTestServer(p)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze"+tt.query, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			s.Router().ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.check != nil {
				tt.check(t, w, p)
			}
		})
	}
}

func TestServer_Shutdown(t *testing.T) {
	tests := []struct {
		name  string
		serve bool
	}{
		{"while serving", true},
		{"before serving", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakePortfolio{})
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			require.NoError(t, err)

			if !tt.serve {
				require.NoError(t, s.Shutdown(context.Background()))
			}

			errCh := make(chan error, 1)
			go func() { errCh <- s.Serve(ln) }()

			if tt.serve {
				require.Eventually(t, func() bool {
					resp, err := http.Get("http://" + ln.Addr().String() + "/api/v1/health")
					if err != nil {
						return false
					}
					defer resp.Body.Close()
					_, _ = io.Copy(io.Discard, resp.Body)
					return resp.StatusCode == http.StatusOK
				}, 2*time.Second, 10*time.Millisecond)

				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				require.NoError(t, s.Shutdown(ctx))
			}

			select {
			case err := <-errCh:
				assert.NoError(t, err)
			case <-time.After(2 * time.Second):
				t.Fatal("server did not stop")
			}
		})
	}
}
