package fixture

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"furnish/internal/catalog"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestRecommendRanksByQueryTerms(t *testing.T) {
	s := NewServer(Default())
	rec := serve(t, s, http.MethodPost, "/recommend", `{"query": "modern wooden chair", "top_n": 3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp catalog.RecommendationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "modern wooden chair", resp.Query)

	titles := make([]string, len(resp.Recommendations))
	for i, p := range resp.Recommendations {
		titles[i] = p.Title
	}
	want := []string{"Modern Wooden Dining Chair", "Mid-Century Accent Chair", "Wooden Nightstand With Drawer"}
	if diff := cmp.Diff(want, titles); diff != "" {
		t.Fatalf("ranking mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "$89.99", resp.Recommendations[0].Price.Display())
}

func TestRecommendDefaultsAndValidation(t *testing.T) {
	s := NewServer(Default())

	rec := serve(t, s, http.MethodPost, "/recommend", `{"query": "sofa"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp catalog.RecommendationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Recommendations, defaultTopN)
	assert.Equal(t, "Velvet Three Seat Sofa", resp.Recommendations[0].Title)

	rec = serve(t, s, http.MethodPost, "/recommend", `{"query": "sofa", "top_n": 50}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Recommendations, len(Default().Products))

	for _, body := range []string{`{"query": "  "}`, `{"query": "sofa", "top_n": 0}`, `not json`} {
		rec = serve(t, s, http.MethodPost, "/recommend", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, body)
	}
}

func TestAnalyticsSnapshot(t *testing.T) {
	s := NewServer(Default())
	rec := serve(t, s, http.MethodGet, "/analytics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap catalog.AnalyticsSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 6, snap.TotalProducts)
	assert.InDelta(t, 263.496, snap.AvgPrice, 1e-9)
	assert.Equal(t, []string{"Acme", "Zen", "Birch & Co", "Nordhaus"}, snap.TopBrands.Names())

	require.NotEmpty(t, snap.TopCategories)
	assert.Equal(t, "Living Room Furniture And Decor", snap.TopCategories[0].Name)
	assert.Equal(t, 3, snap.TopCategories[0].Value)
}

func TestAnalyticsEmptyCatalog(t *testing.T) {
	s := NewServer(&Data{})
	rec := serve(t, s, http.MethodGet, "/analytics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Analytics data not available")
}

func TestRoot(t *testing.T) {
	rec := serve(t, NewServer(nil), http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Backend Running")
}

func TestValueCountsTopN(t *testing.T) {
	got := valueCounts([]string{"a", "b", "b", "", "c", "d", "e", "f", "a", "b"}, 3)
	assert.Equal(t, catalog.Counts{{Name: "b", Value: 3}, {Name: "a", Value: 2}, {Name: "c", Value: 1}}, got)
}

func TestLoadFixtureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	src := `products:
  - title: Rattan Lounge Chair
    brand: Sol
    price: 120
    category: Outdoor
    image: https://images.example.com/rattan.jpg
    description: Hand woven.
  - title: Pine Shelf
    brand: Sol
    category: Storage
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	d, err := Load(path)
	require.NoError(t, err)
	require.Len(t, d.Products, 2)
	assert.Equal(t, "Rattan Lounge Chair", d.Products[0].Title)
	assert.Equal(t, "120", d.Products[0].Price.Display())
	assert.Equal(t, "Outdoor", d.Products[0].Category)
	assert.False(t, d.Products[1].Price.IsSet())

	snap, ok := d.Snapshot()
	require.True(t, ok)
	assert.Equal(t, 120.0, snap.AvgPrice)
	assert.Equal(t, catalog.Counts{{Name: "Sol", Value: 2}}, snap.TopBrands)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
