package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealerfeeds/internal/config"
	"dealerfeeds/internal/models"
	"dealerfeeds/internal/pipeline"
)

var fixedNow = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

type stubGenerator struct {
	report *pipeline.Report
	err    error
	calls  int
}

func (g *stubGenerator) Run(context.Context) (*pipeline.Report, error) {
	g.calls++
	return g.report, g.err
}

func testConfig() *config.Config {
	return &config.Config{
		Dealerships: []models.Dealership{
			{ID: "29312", Name: "Napleton Ford Columbus", Website: "https://ford.example.com", StoreCode: "001"},
			{ID: "40001", Name: "Genesis of Downtown Chicago", Website: "https://genesis.example.com", StoreCode: "002"},
		},
		Publish: config.PublishConfig{PublicBaseURL: "https://feeds.example.com/feeds"},
	}
}

func testReport() *pipeline.Report {
	return &pipeline.Report{
		RunID:         "run-1",
		Timestamp:     fixedNow,
		TotalVehicles: 3,
		Feeds: []pipeline.DealershipReport{{
			Dealership:   "Napleton Ford Columbus",
			DealerID:     "29312",
			VehicleCount: 3,
			Facebook:     &pipeline.FeedReport{File: "Napleton_Ford_Columbus_Facebook_AIA.xml", Entries: 3},
			Google:       &pipeline.FeedReport{File: "Napleton_Ford_Columbus_Google_VLA.xml", Entries: 2, Skipped: 1},
		}},
	}
}

func newServer(gen Generator, opts ...Option) http.Handler {
	return NewServer(testConfig(), gen, append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)...).Handler()
}

func serve(t *testing.T, h http.Handler, method, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))

	var body map[string]any
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}

	return rec, body
}

func TestGenerateFeeds_Success(t *testing.T) {
	gen := &stubGenerator{report: testReport()}

	rec, body := serve(t, newServer(gen), http.MethodGet, PathGenerateFeeds)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "run-1", body["run_id"])
	assert.InDelta(t, 3, body["total_vehicles"], 0)

	feeds := body["feeds_generated"].([]any)
	require.Len(t, feeds, 1)

	ford := feeds[0].(map[string]any)
	assert.Equal(t, "Napleton Ford Columbus", ford["dealership"])
	assert.Equal(t, "29312", ford["dealer_id"])
	assert.InDelta(t, 3, ford["vehicle_count"], 0)
	assert.InDelta(t, 1, ford["google"].(map[string]any)["skipped"], 0)
}

func TestGenerateFeeds_Failure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("failed to fetch inventory: no CSV files found")}

	rec, body := serve(t, newServer(gen), http.MethodGet, PathGenerateFeeds)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "failed to fetch inventory: no CSV files found", body["error"])
	assert.Equal(t, "2025-03-04T05:06:07Z", body["timestamp"])
}

func TestFeedURLs(t *testing.T) {
	rec, body := serve(t, newServer(&stubGenerator{}), http.MethodGet, PathFeedURLs)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	assert.InDelta(t, 2, body["total_dealerships"], 0)

	feeds := body["feeds"].(map[string]any)
	genesis := feeds["Genesis_of_Downtown_Chicago"].(map[string]any)
	assert.Equal(t, "https://feeds.example.com/feeds/Genesis_of_Downtown_Chicago_Facebook_AIA.xml", genesis["facebook"])
	assert.Equal(t, "https://feeds.example.com/feeds/Genesis_of_Downtown_Chicago_Google_VLA.xml", genesis["google"])
}

func TestHealth(t *testing.T) {
	rec, body := serve(t, newServer(&stubGenerator{}), http.MethodGet, PathHealth)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	assert.NotEmpty(t, body["message"])
	assert.Equal(t, "2025-03-04T05:06:07Z", body["timestamp"])
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	rec, _ := serve(t, newServer(&stubGenerator{}), http.MethodDelete, PathHealth)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec, _ = serve(t, newServer(&stubGenerator{}), http.MethodGet, "/api/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStaticFeeds(t *testing.T) {
	dir := t.TempDir()
	xml := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<listings></listings>\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Napleton_Ford_Columbus_Facebook_AIA.xml"), []byte(xml), 0o600))

	h := newServer(&stubGenerator{}, WithStaticFeeds(dir))

	rec, _ := serve(t, h, http.MethodGet, "/feeds/Napleton_Ford_Columbus_Facebook_AIA.xml")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xml, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "xml")

	rec, _ = serve(t, h, http.MethodGet, "/feeds/missing.xml")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = serve(t, newServer(&stubGenerator{}), http.MethodGet, "/feeds/Napleton_Ford_Columbus_Facebook_AIA.xml")
	assert.Equal(t, http.StatusNotFound, rec.Code, "static files are only served when enabled")
}

func TestLambdaHandler(t *testing.T) {
	gen := &stubGenerator{report: testReport()}
	handler := NewLambdaHandler(newServer(gen))

	req := events.APIGatewayV2HTTPRequest{
		RawPath:        PathGenerateFeeds,
		RawQueryString: "source=cron",
		Headers:        map[string]string{"accept": "application/json"},
	}
	req.RequestContext.HTTP.Method = http.MethodGet

	resp, err := handler(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, 1, gen.calls)

	var body GenerateResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "run-1", body.RunID)
}

func TestToHTTPRequest_KeepsEncodedPath(t *testing.T) {
	req := events.APIGatewayV2HTTPRequest{
		RawPath:        "/feeds/a%2Fb.xml",
		RawQueryString: "x=1",
	}

	httpReq, err := toHTTPRequest(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "/feeds/a/b.xml", httpReq.URL.Path)
	assert.Equal(t, "/feeds/a%2Fb.xml", httpReq.URL.EscapedPath())
	assert.Equal(t, "x=1", httpReq.URL.RawQuery)
	assert.Equal(t, http.MethodGet, httpReq.Method)

	req = events.APIGatewayV2HTTPRequest{}
	req.RequestContext.HTTP.Path = "/api/test"

	httpReq, err = toHTTPRequest(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "/api/test", httpReq.URL.Path)
}

func TestLambdaHandler_Errors(t *testing.T) {
	handler := NewLambdaHandler(newServer(&stubGenerator{err: errors.New("boom")}))

	req := events.APIGatewayV2HTTPRequest{RawPath: PathGenerateFeeds}

	resp, err := handler(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	req = events.APIGatewayV2HTTPRequest{RawPath: PathGenerateFeeds, Body: "%%%", IsBase64Encoded: true}

	_, err = handler(context.Background(), req)
	require.Error(t, err)
}
