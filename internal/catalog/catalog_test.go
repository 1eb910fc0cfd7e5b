package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"so101builder/internal/apperrors"
	"so101builder/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededRepo(t *testing.T) *MemoryRepository {
	t.Helper()
	repo := NewMemoryRepository()
	seed, err := DefaultSeed()
	require.NoError(t, err)
	_, err = ApplySeed(context.Background(), repo, seed, logger.Nop())
	require.NoError(t, err)
	return repo
}

func strPtr(s string) *string { return &s }

// --------------------------------------------------
// Offer helpers
// --------------------------------------------------

func TestCheapest_TieGoesToFirst(t *testing.T) {
	offers := []Offer{
		{ID: 1, VendorName: "A", Price: 10},
		{ID: 2, VendorName: "B", Price: 8},
		{ID: 3, VendorName: "C", Price: 8},
	}
	best := Cheapest(offers)
	require.NotNil(t, best)
	assert.Equal(t, 2, best.ID)
	assert.Nil(t, Cheapest(nil))
}

func TestUsableOffers_DropsDanglingVendor(t *testing.T) {
	out := UsableOffers([]Offer{{ID: 1, VendorName: "A"}, {ID: 2}})
	require.Len(t, out, 1)
	assert.Equal(t, 1, out[0].ID)
}

// --------------------------------------------------
// Seed
// --------------------------------------------------

func TestApplySeed_IsIdempotent(t *testing.T) {
	repo := seededRepo(t)
	seed, err := DefaultSeed()
	require.NoError(t, err)

	report, err := ApplySeed(context.Background(), repo, seed, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, 9, report.Components)

	ids, err := repo.ListComponentIDs(context.Background())
	require.NoError(t, err)
	assert.Len(t, ids, 9)
}

func TestDefaultSeed_ComponentOrder(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	comps, _, err := repo.ListComponents(ctx, ComponentFilter{PageSize: 100})
	require.NoError(t, err)
	require.Len(t, comps, 9)
	assert.Equal(t, "Feetech STS3215 (1/345 gear ratio)", comps[0].Name)
	assert.Equal(t, "Motors", comps[0].Category())
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func TestListComponents_FiltersAndPaginates(t *testing.T) {
	svc := NewService(seededRepo(t), logger.Nop())
	ctx := context.Background()

	list, err := svc.ListComponents(ctx, ListParams{Filter: ComponentFilter{CategorySlug: "motors", PageSize: 2}})
	require.NoError(t, err)
	assert.Equal(t, 4, list.Total)
	assert.Equal(t, 2, list.TotalPages)
	assert.Len(t, list.Items, 2)

	maxPrice := 20.0
	list, err = svc.ListComponents(ctx, ListParams{MaxPrice: &maxPrice})
	require.NoError(t, err)
	for _, item := range list.Items {
		require.NotNil(t, item.LowestPrice)
		assert.LessOrEqual(t, *item.LowestPrice, maxPrice)
	}

	_, err = svc.ListComponents(ctx, ListParams{Filter: ComponentFilter{PageSize: 101}})
	assert.True(t, apperrors.IsValidation(err))
}

func TestListComponents_ArmTypeMatchesBoth(t *testing.T) {
	svc := NewService(seededRepo(t), logger.Nop())

	list, err := svc.ListComponents(context.Background(), ListParams{Filter: ComponentFilter{ArmType: "follower"}})
	require.NoError(t, err)

	// one follower motor plus driver, power supply and cables tagged both
	assert.Equal(t, 4, list.Total)
}

func TestDefaults_EstimatedCost(t *testing.T) {
	svc := NewService(seededRepo(t), logger.Nop())
	ctx := context.Background()

	single, err := svc.Defaults(ctx, "single")
	require.NoError(t, err)
	assert.Equal(t, 4, single.TotalComponents)
	// 13.89*6 + 10.99 + 12.99 + 7.99*5
	assert.InDelta(t, 147.27, single.EstimatedCost, 0.001)

	dual, err := svc.Defaults(ctx, "dual")
	require.NoError(t, err)
	assert.Equal(t, 7, dual.TotalComponents)
	assert.Greater(t, dual.EstimatedCost, single.EstimatedCost)

	_, err = svc.Defaults(ctx, "triple")
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateComponent(t *testing.T) {
	repo := seededRepo(t)
	svc := NewService(repo, logger.Nop())
	ctx := context.Background()

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, cats)
	assert.Equal(t, "motors", cats[0].Slug)

	view, err := svc.CreateComponent(ctx, CreateComponentRequest{
		Name:       "Raspberry Pi 5",
		Slug:       "raspberry-pi-5",
		CategoryID: cats[len(cats)-1].ID,
		ArmType:    strPtr("both"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, view.QuantityPerArm)
	assert.Equal(t, "Compute", view.Category.Name)
	assert.Nil(t, view.LowestPrice)

	_, err = svc.CreateComponent(ctx, CreateComponentRequest{Name: "X", Slug: "x", CategoryID: 9999})
	assert.True(t, apperrors.IsValidation(err))
}

// --------------------------------------------------
// Handler
// --------------------------------------------------

func TestHandler_GetComponent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := seededRepo(t)
	h := NewHandler(NewService(repo, logger.Nop()))

	r := gin.New()
	r.GET("/components/:id", h.Get)

	ids, _ := repo.ListComponentIDs(context.Background())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/components/"+strconv.Itoa(ids[0]), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body ComponentView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.LowestPrice)
	assert.Equal(t, 13.89, *body.LowestPrice)
	assert.Len(t, body.Prices, 2)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/components/424242", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestHandler_CreateUnknownCategory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(seededRepo(t), logger.Nop()))

	r := gin.New()
	r.POST("/components", h.Create)

	req := httptest.NewRequest(http.MethodPost, "/components",
		strings.NewReader(`{"name":"X","slug":"x","category_id":9999}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}
