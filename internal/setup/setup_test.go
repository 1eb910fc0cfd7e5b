package setup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"so101builder/internal/apperrors"
	"so101builder/internal/catalog"
	"so101builder/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSetup() *Setup {
	return &Setup{ID: "s1", Profile: Profile{ArmType: ArmSingle}, CurrentStep: 1, ArmType: ArmSingle}
}

func newService(t *testing.T) (*Service, *catalog.MemoryRepository) {
	t.Helper()
	cat := catalog.NewMemoryRepository()
	return NewService(NewInMemoryRepository(), cat, 30*24*time.Hour, logger.Nop()), cat
}

// --------------------------------------------------
// Wizard steps
// --------------------------------------------------

func TestApplyStep_RejectsOutOfRange(t *testing.T) {
	for _, step := range []int{0, 6, -1} {
		err := ApplyStep(newSetup(), step, map[string]any{"experience": "beginner"})
		assert.True(t, apperrors.IsValidation(err), "step %d", step)
	}
}

func TestApplyStep_AdvancesAndCompletes(t *testing.T) {
	s := newSetup()
	answers := []map[string]any{
		{"experience": "beginner"},
		{"budget": float64(500)},
		{"use_case": "learning"},
		{"compute_platform": "cuda"},
		{"camera_preference": "basic"},
	}
	for i, data := range answers {
		require.NoError(t, ApplyStep(s, i+1, data))
		assert.Equal(t, i+2, s.CurrentStep)
	}

	assert.True(t, s.WizardCompleted)
	assert.Equal(t, CompletedStep, s.CurrentStep)
	require.NotNil(t, s.Profile.Budget)
	assert.Equal(t, 500, *s.Profile.Budget)
	assert.Equal(t, "basic", s.Profile.Camera())
}

func TestApplyStep_GoingBackKeepsCurrentStep(t *testing.T) {
	s := newSetup()
	require.NoError(t, ApplyStep(s, 1, map[string]any{"experience": "beginner"}))
	require.NoError(t, ApplyStep(s, 2, map[string]any{"budget": 300}))
	require.NoError(t, ApplyStep(s, 3, map[string]any{"use_case": "research"}))
	assert.Equal(t, 4, s.CurrentStep)

	require.NoError(t, ApplyStep(s, 1, map[string]any{"experience": "advanced"}))
	assert.Equal(t, 4, s.CurrentStep)
	assert.Equal(t, "advanced", *s.Profile.Experience)
	assert.False(t, s.WizardCompleted)
}

func TestApplyStep_ArmTypeUpdatesSetup(t *testing.T) {
	s := newSetup()
	require.NoError(t, ApplyStep(s, 1, map[string]any{"experience": "beginner", "arm_type": "dual"}))
	assert.Equal(t, ArmDual, s.ArmType)
	assert.Equal(t, ArmDual, s.Profile.Arm())
}

func TestApplyStep_InvalidValuesLeaveSetupUntouched(t *testing.T) {
	cases := []map[string]any{
		{"budget": 150},
		{"budget": 2500},
		{"budget": 500.5},
		{"budget": "lots"},
		{"experience": "guru"},
		{"favourite_colour": "blue"},
		{"experience": "beginner", "use_case": "space"},
	}
	for _, data := range cases {
		s := newSetup()
		err := ApplyStep(s, 1, data)
		assert.True(t, apperrors.IsValidation(err), "%v", data)
		assert.Nil(t, s.Profile.Experience)
		assert.Equal(t, 1, s.CurrentStep)
	}
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func TestService_StartAndExpiry(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	st, err := svc.Start(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, st.ID)
	assert.Equal(t, 1, st.CurrentStep)
	require.NotNil(t, st.ExpiresAt)

	got, err := svc.Get(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, ArmSingle, got.ArmType)

	// jump past expiry
	svc.now = func() time.Time { return time.Now().Add(31 * 24 * time.Hour) }
	n, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = svc.Get(ctx, st.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestService_UpdateStepUnknownSetup(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.UpdateStep(context.Background(), "missing", 1, map[string]any{"experience": "beginner"})
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.UpdateStep(context.Background(), "missing", 7, nil)
	assert.True(t, apperrors.IsValidation(err))
}

func TestService_Selections(t *testing.T) {
	svc, cat := newService(t)
	ctx := context.Background()

	comp := cat.AddComponent(catalog.Component{Name: "Motor", Slug: "motor"})
	vendor := cat.AddVendor(catalog.Vendor{Name: "Amazon", Slug: "amazon"})

	st, err := svc.Start(ctx)
	require.NoError(t, err)

	got, err := svc.SetSelection(ctx, st.ID, SelectionRequest{ComponentID: comp.ID, Quantity: 6, SelectedVendorID: &vendor.ID})
	require.NoError(t, err)
	require.Len(t, got.Selections, 1)
	assert.Equal(t, 6, got.Selections[0].Quantity)

	// upsert replaces, not duplicates
	got, err = svc.SetSelection(ctx, st.ID, SelectionRequest{ComponentID: comp.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, got.Selections, 1)
	assert.Equal(t, 2, got.Selections[0].Quantity)
	assert.Nil(t, got.Selections[0].SelectedVendorID)

	_, err = svc.SetSelection(ctx, st.ID, SelectionRequest{ComponentID: 999, Quantity: 1})
	assert.True(t, apperrors.IsNotFound(err))

	bad := 999
	_, err = svc.SetSelection(ctx, st.ID, SelectionRequest{ComponentID: comp.ID, Quantity: 1, SelectedVendorID: &bad})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.SetSelection(ctx, st.ID, SelectionRequest{ComponentID: comp.ID, Quantity: -1})
	assert.True(t, apperrors.IsValidation(err))

	got, err = svc.RemoveSelection(ctx, st.ID, comp.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Selections)

	_, err = svc.RemoveSelection(ctx, st.ID, comp.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestService_DeleteDropsSelections(t *testing.T) {
	svc, cat := newService(t)
	ctx := context.Background()
	comp := cat.AddComponent(catalog.Component{Name: "Motor", Slug: "motor"})

	st, err := svc.Start(ctx)
	require.NoError(t, err)
	_, err = svc.SetSelection(ctx, st.ID, SelectionRequest{ComponentID: comp.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, st.ID))
	_, err = svc.Get(ctx, st.ID)
	assert.True(t, apperrors.IsNotFound(err))
	assert.True(t, apperrors.IsNotFound(svc.Delete(ctx, st.ID)))
}

func TestService_SaveRecommendationsKeepsSelections(t *testing.T) {
	svc, cat := newService(t)
	ctx := context.Background()
	comp := cat.AddComponent(catalog.Component{Name: "Motor", Slug: "motor"})

	st, err := svc.Start(ctx)
	require.NoError(t, err)
	_, err = svc.SetSelection(ctx, st.ID, SelectionRequest{ComponentID: comp.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.SaveRecommendations(ctx, st, &Recommendations{Summary: "x", Source: SourceFallback}))

	got, err := svc.Get(ctx, st.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Recommendations)
	assert.Equal(t, SourceFallback, got.Recommendations.Source)
	assert.Len(t, got.Selections, 1)
}

// --------------------------------------------------
// Handler
// --------------------------------------------------

func newRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.POST("/wizard/start", h.Start)
	r.PUT("/wizard/:setup_id/step/:step", h.UpdateStep)
	r.GET("/wizard/:setup_id/summary", h.Summary)
	r.DELETE("/wizard/:setup_id", h.Delete)
	return r
}

func TestHandler_WizardFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newService(t)
	r := newRouter(NewHandler(svc))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/wizard/start", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var started struct {
		SetupID     string `json:"setup_id"`
		CurrentStep int    `json:"current_step"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))
	assert.Equal(t, 1, started.CurrentStep)

	put := func(step string, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/wizard/"+started.SetupID+"/step/"+step, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w = put("2", `{"step_data":{"budget":800}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var summary Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 3, summary.CurrentStep)
	assert.Equal(t, 800, *summary.Profile.Budget)

	if w := put("6", `{"step_data":{"budget":800}}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if w := put("2", `{"step_data":{"budget":100}}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wizard/"+started.SetupID+"/summary", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/wizard/"+started.SetupID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wizard/"+started.SetupID+"/summary", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}
