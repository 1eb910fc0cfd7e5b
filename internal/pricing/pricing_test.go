package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"so101builder/internal/catalog"
	"so101builder/internal/logger"
	"so101builder/internal/setup"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

type fakeProvider struct {
	name    string
	results []SearchResult
	err     error
	calls   int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Search(ctx context.Context, query string) ([]SearchResult, error) {
	f.calls++
	return f.results, f.err
}

type memCache struct {
	data map[string][]SearchResult
}

func (m *memCache) Get(_ context.Context, q string) ([]SearchResult, bool) {
	r, ok := m.data[q]
	return r, ok
}

func (m *memCache) Set(_ context.Context, q string, r []SearchResult, _ time.Duration) {
	m.data[q] = r
}

func newSearcher(retries int, cache Cache, providers ...Provider) *Searcher {
	s := NewSearcher(providers, SearcherOptions{Timeout: time.Second, Retries: retries, Cache: cache}, logger.Nop())
	s.backoff = 0
	return s
}

// --------------------------------------------------
// Selector and stats
// --------------------------------------------------

func TestSelect_CheapestWithoutPreference(t *testing.T) {
	offers := []catalog.Offer{
		{ID: 1, VendorID: 1, VendorName: "V1", Price: 10},
		{ID: 2, VendorID: 2, VendorName: "V2", Price: 8},
	}

	got := Select(offers, nil)
	require.NotNil(t, got)
	assert.Equal(t, "V2", got.VendorName)

	got = Select(offers, intPtr(1))
	require.NotNil(t, got)
	assert.Equal(t, 10.0, got.Price)

	// unknown preference falls back to cheapest
	got = Select(offers, intPtr(42))
	require.NotNil(t, got)
	assert.Equal(t, 8.0, got.Price)

	assert.Nil(t, Select(nil, intPtr(1)))
}

func TestComputeStats(t *testing.T) {
	empty := ComputeStats(nil)
	assert.Nil(t, empty.Lowest)
	assert.Nil(t, empty.Highest)
	assert.Nil(t, empty.Average)
	assert.Equal(t, 0, empty.Count)

	st := ComputeStats([]catalog.Offer{{Price: 10}, {Price: 8}, {Price: 9.99}})
	require.NotNil(t, st.Average)
	assert.Equal(t, 8.0, *st.Lowest)
	assert.Equal(t, 10.0, *st.Highest)
	assert.Equal(t, 9.33, *st.Average)
	assert.Equal(t, 9.99, *st.Median)
	assert.Equal(t, 3, st.Count)
}

// --------------------------------------------------
// Aggregation
// --------------------------------------------------

func TestAggregate_SubtotalAndCategories(t *testing.T) {
	motor := &catalog.Component{ID: 1, Name: "Motor", CategoryName: "motors"}
	psu := &catalog.Component{ID: 2, Name: "PSU", CategoryName: "power"}
	cable := &catalog.Component{ID: 3, Name: "Cable"}

	out := Aggregate(&setup.Setup{ID: "s"}, []Line{
		{Component: motor, Quantity: 2, Offers: []catalog.Offer{{VendorName: "B", Price: 10}}},
		{Component: psu, Quantity: 1, Offers: []catalog.Offer{{VendorName: "A", Price: 5}}},
		{Component: cable, Quantity: 3},
	})

	assert.Equal(t, 25.0, out.Subtotal)
	assert.Equal(t, out.Subtotal, out.Total)
	assert.Nil(t, out.EstimatedShipping)
	assert.Equal(t, map[string]float64{"motors": 20, "power": 5, "Other": 0}, out.CostByCategory)
	assert.Equal(t, []string{"A", "B"}, out.VendorsUsed)
	require.Len(t, out.Components, 3)
	assert.Nil(t, out.Components[2].VendorName)
	assert.Equal(t, "USD", out.Currency)
}

func TestAggregate_FallsBackToRecommendations(t *testing.T) {
	s := &setup.Setup{ID: "s", Recommendations: &setup.Recommendations{
		Components: []setup.RecommendationItem{
			{ComponentID: 1, ComponentName: "Motor", Category: "motors", Quantity: 6},
			{ComponentID: 5, ComponentName: "Driver", Category: "electronics", Quantity: 1},
		},
	}}

	out := Aggregate(s, nil)
	require.Len(t, out.Components, 2)
	assert.Equal(t, 6, out.Components[0].Quantity)
	assert.Zero(t, out.Components[0].TotalPrice)
	assert.Zero(t, out.Subtotal)
	assert.Empty(t, out.VendorsUsed)
}

// --------------------------------------------------
// Search
// --------------------------------------------------

func TestExtractPrice(t *testing.T) {
	cases := map[string]float64{
		"Now only $13.89 with free shipping": 13.89,
		"price: USD 24.50":                   24.50,
		"costs 19 dollars":                   19,
		"costs 7.25 usd total":               7.25,
	}
	for text, want := range cases {
		got, ok := extractPrice(text)
		require.True(t, ok, text)
		assert.Equal(t, want, got, text)
	}

	_, ok := extractPrice("no price here")
	assert.False(t, ok)
}

func TestParsePriceString(t *testing.T) {
	got, ok := parsePriceString("$1,299.99")
	require.True(t, ok)
	assert.Equal(t, 1299.99, got)

	_, ok = parsePriceString("call for price")
	assert.False(t, ok)
}

func TestBuildQuery(t *testing.T) {
	assert.Equal(t, "STS3215 buy price", BuildQuery("STS3215", ""))
	assert.Equal(t, "STS3215 buy price site:amazon.com", BuildQuery("STS3215", "Amazon"))
	assert.Equal(t, "STS3215 buy price", BuildQuery("STS3215", "ebay"))
}

func TestSearcher_RetriesThenFallsBack(t *testing.T) {
	tavily := &fakeProvider{name: "tavily", err: errors.New("connection reset")}
	seller := "Amazon"
	serp := &fakeProvider{name: "serpapi", results: []SearchResult{{Source: "serpapi", Price: 12, Seller: &seller}}}

	out := newSearcher(2, nil, tavily, serp).Search(context.Background(), "q")
	assert.Equal(t, 3, tavily.calls)
	assert.Equal(t, 1, serp.calls)
	require.Len(t, out.Results, 1)
	assert.Nil(t, out.Message)
}

func TestSearcher_NonRetryableStopsEarly(t *testing.T) {
	tavily := &fakeProvider{name: "tavily", err: &statusError{code: http.StatusUnauthorized}}

	out := newSearcher(2, nil, tavily).Search(context.Background(), "q")
	assert.Equal(t, 1, tavily.calls)
	assert.Empty(t, out.Results)
	require.NotNil(t, out.Message)
	assert.Contains(t, *out.Message, "tavily")
}

func TestSearcher_UsesCache(t *testing.T) {
	cache := &memCache{data: map[string][]SearchResult{}}
	p := &fakeProvider{name: "tavily", results: []SearchResult{{Price: 5}}}
	s := newSearcher(0, cache, p)

	s.Search(context.Background(), "q")
	out := s.Search(context.Background(), "q")
	assert.Equal(t, 1, p.calls)
	assert.Len(t, out.Results, 1)
}

func TestSearcher_NotConfigured(t *testing.T) {
	out := newSearcher(0, nil).Search(context.Background(), "q")
	assert.NotNil(t, out.Results)
	assert.Empty(t, out.Results)
	require.NotNil(t, out.Message)
}

func TestTavilyClient_ParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "basic", body["search_depth"])
		_, _ = w.Write([]byte(`{"results":[
			{"title":"STS3215 servo","url":"https://www.aliexpress.com/item/1","content":"Only $13.89"},
			{"title":"No price","url":"https://example.com","content":"n/a"}
		]}`))
	}))
	defer srv.Close()

	c := NewTavilyClient("key", time.Second)
	c.baseURL = srv.URL

	results, err := c.Search(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 13.89, results[0].Price)
	require.NotNil(t, results[0].Seller)
	assert.Equal(t, "AliExpress", *results[0].Seller)
}

func TestSerpAPIClient_ServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewSerpAPIClient("key", time.Second)
	c.baseURL = srv.URL

	_, err := c.Search(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, retryable(err))
}

// --------------------------------------------------
// Service
// --------------------------------------------------

type fixture struct {
	cat    *catalog.MemoryRepository
	setups *setup.InMemoryRepository
	motor  catalog.Component
	ali    catalog.Vendor
	shop   catalog.Vendor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{cat: catalog.NewMemoryRepository(), setups: setup.NewInMemoryRepository()}
	motors := f.cat.AddCategory(catalog.Category{Name: "Motors", Slug: "motors"})
	f.motor = f.cat.AddComponent(catalog.Component{Name: "STS3215", Slug: "sts3215", CategoryID: motors.ID})
	f.ali = f.cat.AddVendor(catalog.Vendor{Name: "AliExpress", Slug: "aliexpress"})
	f.shop = f.cat.AddVendor(catalog.Vendor{Name: "RobotShop", Slug: "robotshop"})
	f.cat.AddOffer(catalog.Offer{ComponentID: f.motor.ID, VendorID: f.ali.ID, Price: 13.89})
	f.cat.AddOffer(catalog.Offer{ComponentID: f.motor.ID, VendorID: f.shop.ID, Price: 18.50})
	return f
}

func (f *fixture) service(providers ...Provider) *Service {
	return NewService(f.cat, f.cat, f.setups, newSearcher(0, nil, providers...), logger.Nop())
}

func TestService_SetupCostHonoursPinnedVendor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	st := &setup.Setup{ID: "s1", Profile: setup.Profile{ArmType: setup.ArmSingle}, CurrentStep: 1}
	require.NoError(t, f.setups.Create(ctx, st))
	require.NoError(t, f.setups.UpsertSelection(ctx, "s1", setup.Selection{ComponentID: f.motor.ID, Quantity: 6, SelectedVendorID: &f.shop.ID}))
	// selection pointing at a component that no longer exists is skipped
	require.NoError(t, f.setups.UpsertSelection(ctx, "s1", setup.Selection{ComponentID: 9999, Quantity: 1}))

	out, err := f.service().SetupCost(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, out.Components, 1)
	assert.InDelta(t, 111.0, out.Subtotal, 0.0001)
	assert.Equal(t, []string{"RobotShop"}, out.VendorsUsed)
	assert.InDelta(t, 111.0, out.CostByCategory["Motors"], 0.0001)
}

func TestService_ComponentPricesDropsDanglingVendor(t *testing.T) {
	f := newFixture(t)
	f.cat.RemoveVendor(f.shop.ID)

	out, err := f.service().ComponentPrices(context.Background(), f.motor.ID)
	require.NoError(t, err)
	assert.Len(t, out.Prices, 1)
	assert.Equal(t, 13.89, *out.Lowest)
	assert.Equal(t, 13.89, *out.Highest)
}

func TestService_RefreshMatchesSellers(t *testing.T) {
	f := newFixture(t)
	seller := "aliexpress"
	p := &fakeProvider{name: "tavily", results: []SearchResult{{Price: 12.49, Seller: &seller}}}

	report, err := f.service(p).Refresh(context.Background(), f.motor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.PricesUpdated)
	assert.Equal(t, 13.89, report.Updates[0].OldPrice)

	offers, err := f.cat.GetOffers(context.Background(), f.motor.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.49, offers[0].Price)
	assert.Equal(t, 18.50, offers[1].Price)
}

func TestService_RefreshAllCountsFailures(t *testing.T) {
	f := newFixture(t)
	seller := "AliExpress"
	p := &fakeProvider{name: "tavily", results: []SearchResult{{Price: 12.49, Seller: &seller}}}

	summary, err := f.service(p).RefreshAll(context.Background(), []int{f.motor.ID, 9999}, 1)
	require.NoError(t, err)
	assert.Equal(t, RefreshSummary{Components: 2, PricesUpdated: 1, Failed: 1}, summary)
}

func TestService_RefreshAllStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service().RefreshAll(ctx, []int{f.motor.ID}, 4)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHandler_SearchNeverFails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	h := NewHandler(f.service(&fakeProvider{name: "tavily", err: errors.New("timeout")}))

	r := gin.New()
	r.POST("/pricing/search", h.Search)

	req := httptest.NewRequest(http.MethodPost, "/pricing/search", strings.NewReader(`{"component_name":"STS3215"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var body SearchOutcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Results)
	require.NotNil(t, body.Message)

	req = httptest.NewRequest(http.MethodPost, "/pricing/search", strings.NewReader(`{"component_name":""}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}
