package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nateso/toy-dash-application/internal/logger"
	"github.com/nateso/toy-dash-application/internal/model"
	"github.com/nateso/toy-dash-application/internal/service/content"
	"github.com/nateso/toy-dash-application/internal/store"
)

func addProject(ds *store.Dataset, id, topic string, skipTestimonial string) {
	ds.Projects = append(ds.Projects, model.Project{
		ID: id, Name: "Project " + id, Location: "Kampot", Country: "KHM", Topic: topic,
		FundingAmount: 1500000, StartDate: "2020-01-01", EndDate: "2022-12-31", Lat: 10.6, Lon: 104.2,
	})
	for _, img := range model.ProjectImageIDs(id) {
		ds.Images = append(ds.Images, model.ImageAsset{ID: img, ContentType: "image/png", Data: []byte("png-" + img)})
	}
	for n := 1; n <= model.TestimonialCount; n++ {
		tid := model.TestimonialID(id, n)
		if tid == skipTestimonial {
			continue
		}
		ds.Testimonials = append(ds.Testimonials, model.Testimonial{ID: tid, Text: "voice " + tid})
	}
	t0 := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	ds.Observations = append(ds.Observations,
		model.IndicatorObservation{ProjectID: id, Timestamp: t0, DisbursementValue: 10, Indicator1Value: 1, Indicator1Label: "Pupils", Indicator2Label: "Teachers"},
		model.IndicatorObservation{ProjectID: id, Timestamp: t0.AddDate(0, 1, 0), DisbursementValue: 15, Indicator1Value: 2, Indicator1Label: "Pupils", Indicator2Label: "Teachers"},
	)
}

func newTestRouter(t *testing.T, inline bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ds := &store.Dataset{CountryCode: "KHM"}
	addProject(ds, "P1", "education", "")
	addProject(ds, "P2", "clean_water", "")
	addProject(ds, "P7", "health", "P7_testimonial_02")
	ds.Regions = []model.Region{{
		ID: "KHM.1_1", SubnationalName: "Kampot", CountryCode: "KHM", MPIScore: 0.17, PovertyHeadcountRatio: 37.2,
		Geometry: model.Geometry{Type: "Polygon", Coordinates: []any{}},
	}}
	ms, err := store.NewMemoryStore(ds)
	require.NoError(t, err)

	cfg := content.DefaultConfig()
	cfg.InlineImages = inline
	h := NewHandler(Options{Store: ms, Content: cfg, Source: "test", Log: logger.Discard()})

	router := gin.New()
	h.RegisterRoutes(router.Group("/api"))
	return router
}

func do(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestGetStatus(t *testing.T) {
	w := do(t, newTestRouter(t, true), http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[StatusResponse](t, w)
	assert.True(t, resp.Initialized)
	assert.Equal(t, "KHM", resp.CountryCode)
	assert.Equal(t, 3, resp.Stats.Projects)
	assert.Equal(t, DemoNotice, resp.Notice)
	assert.Equal(t, []string{`P7: missing testimonial "P7_testimonial_02"`}, resp.Problems)
}

func TestGetOptions(t *testing.T) {
	w := do(t, newTestRouter(t, true), http.MethodGet, "/api/options", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[OptionsResponse](t, w)
	assert.Equal(t, model.DropdownOption{Label: "All countries", Value: "all"}, resp.Countries[0])
	assert.Contains(t, resp.Topics, model.DropdownOption{Label: "Clean Water", Value: "clean_water"})
	assert.Len(t, resp.PovertyIndicators, 3)
	assert.Equal(t, "disbursement", resp.ProgressMetrics[0].Value)
	require.Len(t, resp.Tabs, 4)
	assert.Equal(t, model.DropdownOption{Label: "Project description", Value: "description"}, resp.Tabs[0])
	assert.Equal(t, "Before-After story", resp.Tabs[1].Label)
	assert.Equal(t, "Testimonials", resp.Tabs[2].Label)
	assert.Equal(t, "Project Progress", resp.Tabs[3].Label)
	assert.Equal(t, model.DefaultViewState(), resp.Defaults)
}

func TestInteract_ProjectClick(t *testing.T) {
	router := newTestRouter(t, true)

	w := do(t, router, http.MethodPost, "/api/interact", InteractRequest{
		Event:  &model.Event{Points: []model.Point{{CustomData: []any{"P1", "Project P1", "Kampot", "1.5 Mio. USD", "2020-01-01", "2022-12-31"}}}},
		Inputs: model.UIInputs{ProgressMetric: "indicator_1"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[InteractResponse](t, w)
	assert.Equal(t, model.TabsPopulated, resp.ViewState.Tabs)
	assert.Equal(t, model.ContentPopulated, resp.Content.State)
	require.NotNil(t, resp.Content.Progress)
	assert.Equal(t, "Pupils", resp.Content.Progress.YLabel)
	assert.Equal(t, 3.0, resp.Content.Progress.Goal)
	assert.Len(t, resp.Content.Testimonials, 3)
	assert.Len(t, resp.Content.Map.Markers, 3)
}

func TestInteract_MetricChangeKeepsProject(t *testing.T) {
	router := newTestRouter(t, true)

	first := decode[InteractResponse](t, do(t, router, http.MethodPost, "/api/interact", InteractRequest{
		Event: &model.Event{Points: []model.Point{{CustomData: []any{"P2", "Project P2"}}}},
	}))
	require.Equal(t, model.TabsPopulated, first.ViewState.Tabs)

	w := do(t, router, http.MethodPost, "/api/interact", InteractRequest{
		ViewState: &first.ViewState,
		Inputs:    model.UIInputs{ProgressMetric: "indicator_1"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[InteractResponse](t, w)
	assert.Equal(t, model.Selection{Kind: model.SelectionProject, EntityID: "P2"}, resp.ViewState.Selection)
	assert.Equal(t, model.TabsPopulated, resp.ViewState.Tabs)
	assert.Equal(t, model.ContentPopulated, resp.Content.State)
	require.NotNil(t, resp.Content.Progress)
	assert.Equal(t, "Pupils", resp.Content.Progress.YLabel)
}

func TestInteract_RegionClickAndRoundTrip(t *testing.T) {
	router := newTestRouter(t, true)

	first := decode[InteractResponse](t, do(t, router, http.MethodPost, "/api/interact", InteractRequest{
		Inputs: model.UIInputs{Topics: []string{"education"}, PovertyIndicator: "mpi_region"},
	}))
	assert.Len(t, first.Content.Map.Markers, 1)
	require.NotNil(t, first.Content.Map.Choropleth)

	w := do(t, router, http.MethodPost, "/api/interact", InteractRequest{
		ViewState: &first.ViewState,
		Event:     &model.Event{Points: []model.Point{{CustomData: []any{"Kampot", 0.17, 37.2, "KHM"}}}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[InteractResponse](t, w)
	assert.Equal(t, model.SelectionRegion, resp.ViewState.Selection.Kind)
	assert.Equal(t, model.TabsPlaceholder, resp.ViewState.Tabs)
	assert.Equal(t, model.ContentPlaceholder, resp.Content.State)
	// 筛选沿用上一状态
	assert.Equal(t, []string{"education"}, resp.ViewState.Filters.Topics)
	assert.Len(t, resp.Content.Map.Markers, 1)
}

func TestInteract_UnavailableProject(t *testing.T) {
	w := do(t, newTestRouter(t, true), http.MethodPost, "/api/interact", InteractRequest{
		Event: &model.Event{Points: []model.Point{{CustomData: []any{"P7", "Project P7"}}}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[InteractResponse](t, w)
	assert.Equal(t, model.ContentUnavailable, resp.Content.State)
	assert.Contains(t, resp.Content.Error, "P7_testimonial_02")
	assert.Nil(t, resp.Content.Progress)
	assert.NotEmpty(t, resp.Content.Map.Markers)
}

func TestInteract_BadBody(t *testing.T) {
	router := newTestRouter(t, true)
	req := httptest.NewRequest(http.MethodPost, "/api/interact", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMap(t *testing.T) {
	w := do(t, newTestRouter(t, true), http.MethodGet, "/api/map?topic=health&topic=education&indicator=hr_poor", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Filters model.Filters   `json:"filters"`
		Map     model.MapLayers `json:"map"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"education", "health"}, resp.Filters.Topics)
	assert.Len(t, resp.Map.Markers, 2)
	require.NotNil(t, resp.Map.Choropleth)
	assert.Equal(t, "% Poor", resp.Map.Choropleth.Legend)
}

func TestGetRegions(t *testing.T) {
	w := do(t, newTestRouter(t, true), http.MethodGet, "/api/regions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"FeatureCollection"`)
	assert.Contains(t, w.Body.String(), `"subnational_region":"Kampot"`)
}

func TestGetImage(t *testing.T) {
	router := newTestRouter(t, false)

	w := do(t, router, http.MethodGet, "/api/images/P1_before", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "png-P1_before", w.Body.String())

	w = do(t, router, http.MethodGet, "/api/images/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProgress(t *testing.T) {
	router := newTestRouter(t, true)

	w := do(t, router, http.MethodGet, "/api/projects/P1/progress?metric=disbursement", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[ProgressResponse](t, w)
	assert.Equal(t, 25.0, resp.Series.Goal)
	assert.Equal(t, "Teachers", resp.Options[2].Label)

	w = do(t, router, http.MethodGet, "/api/projects/P404/progress", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportAndDownloadOnce(t *testing.T) {
	router := newTestRouter(t, true)

	w := do(t, router, http.MethodPost, "/api/projects/P1/progress/export?metric=indicator_1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[map[string]string](t, w)
	assert.Equal(t, "P1_indicator_1_progress.xlsx", resp["fileName"])

	w = do(t, router, http.MethodGet, resp["downloadUrl"], nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "P1_indicator_1_progress.xlsx")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = do(t, router, http.MethodGet, resp["downloadUrl"], nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExport_UnknownProject(t *testing.T) {
	w := do(t, newTestRouter(t, true), http.MethodPost, "/api/projects/P404/progress/export", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportStream(t *testing.T) {
	w := do(t, newTestRouter(t, true), http.MethodPost, "/api/projects/P2/progress/export/stream", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "data: "))
	assert.Contains(t, body, `"type":"start"`)
	assert.Contains(t, body, `"type":"done"`)
	assert.Contains(t, body, "/api/export/download/")
}
