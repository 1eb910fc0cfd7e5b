package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"so101builder/internal/catalog"
	"so101builder/internal/comparison"
	"so101builder/internal/docs"
	"so101builder/internal/export"
	"so101builder/internal/logger"
	"so101builder/internal/pricing"
	"so101builder/internal/recommendation"
	"so101builder/internal/setup"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *catalog.MemoryRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()

	cat := catalog.NewMemoryRepository()
	setups := setup.NewService(setup.NewInMemoryRepository(), cat, 30*24*time.Hour, log)
	searcher := pricing.NewSearcher(nil, pricing.SearcherOptions{}, log)
	resolver := recommendation.NewResolver(nil, time.Second, log)

	r := New(Deps{
		Log:             log,
		CORSOrigins:     []string{"http://localhost:5173"},
		Catalog:         catalog.NewHandler(catalog.NewService(cat, log)),
		Setup:           setup.NewHandler(setups),
		Pricing:         pricing.NewHandler(pricing.NewService(cat, cat, setups, searcher, log)),
		Recommendations: recommendation.NewHandler(recommendation.NewService(setups, resolver, log)),
		Comparison:      comparison.NewHandler(comparison.NewService(cat)),
		Export:          export.NewHandler(export.NewService(cat, setups, nil, log)),
		Docs:            docs.NewHandler(docs.NewService(docs.NewMemoryRepository(), log)),
	})
	return r, cat
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestMalformedSetupID(t *testing.T) {
	r, _ := newTestRouter(t)

	if w := do(r, http.MethodGet, "/api/v1/wizard/abc/summary", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

// Walks a setup from the wizard through recommendations, pricing and export.
func TestWizardToShoppingList(t *testing.T) {
	r, cat := newTestRouter(t)
	motor := cat.AddComponent(catalog.Component{Name: "STS3215", Slug: "sts3215"})
	vendor := cat.AddVendor(catalog.Vendor{Name: "AliExpress", Slug: "aliexpress"})
	cat.AddOffer(catalog.Offer{ComponentID: motor.ID, VendorID: vendor.ID, Price: 13.89})

	w := do(r, http.MethodPost, "/api/v1/wizard/start", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var started struct {
		SetupID string `json:"setup_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))
	base := "/api/v1/wizard/" + started.SetupID

	steps := []string{
		`{"experience":"beginner"}`,
		`{"budget":500}`,
		`{"use_case":"learning"}`,
		`{"compute_platform":"cpu"}`,
		`{"camera_preference":"basic","arm_type":"dual"}`,
	}
	for i, data := range steps {
		w := do(r, http.MethodPut, base+"/step/"+string(rune('1'+i)), `{"step_data":`+data+`}`)
		if w.Code != http.StatusOK {
			t.Fatalf("step %d: expected status 200, got %d: %s", i+1, w.Code, w.Body.String())
		}
	}

	w = do(r, http.MethodPost, "/api/v1/recommendations/generate", `{"setup_id":"`+started.SetupID+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var rec struct {
		Source          string `json:"source"`
		Recommendations []any  `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "fallback", rec.Source)
	assert.Len(t, rec.Recommendations, 8)

	// before any explicit pick the shopping list mirrors the recommendations
	w = do(r, http.MethodPost, "/api/v1/export/shopping-list?setup_id="+started.SetupID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var list export.ShoppingList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, "TBD", list.Items[0].Vendor)

	w = do(r, http.MethodPut, base+"/components", `{"component_id":`+itoa(motor.ID)+`,"quantity":12}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/api/v1/pricing/setup/"+started.SetupID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var cost pricing.CostBreakdown
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cost))
	assert.InDelta(t, 166.68, cost.Total, 0.0001)

	w = do(r, http.MethodPost, "/api/v1/export/shopping-list?setup_id="+started.SetupID, "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.InDelta(t, cost.Subtotal, list.TotalCost, 0.0001)
	assert.Equal(t, 12, list.TotalItems)
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}
