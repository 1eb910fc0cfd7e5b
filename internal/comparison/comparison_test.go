package comparison

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"so101builder/internal/apperrors"
	"so101builder/internal/catalog"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func components() []*catalog.Component {
	return []*catalog.Component{
		{ID: 1, Name: "STS3215 1/345", CategoryName: "Motors", IsDefault: true, Specifications: map[string]any{
			"voltage": "12V", "gear_ratio": "1/345", "torque": 30.0,
		}},
		{ID: 2, Name: "STS3215 1/191", CategoryName: "Motors", Specifications: map[string]any{
			"voltage": "12V", "gear_ratio": "1/191", "stall_current": "2.7A",
		}},
	}
}

func TestCompare_RejectsBadCounts(t *testing.T) {
	for _, ids := range [][]int{{1}, {1, 2, 3, 4, 5, 6}, {1, 1}} {
		_, err := Compare(ids, nil, nil)
		assert.True(t, apperrors.IsValidation(err), "%v", ids)
	}
}

func TestCompare_ReportsMissingIDs(t *testing.T) {
	_, err := Compare([]int{1, 2, 7, 9}, components(), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, map[string]any{"missing_ids": []int{7, 9}}, apperrors.GetDetails(err))
}

func TestCompare_CommonAndDifferingSpecs(t *testing.T) {
	offers := map[int][]catalog.Offer{
		1: {{VendorName: "A", Price: 15}, {VendorName: "B", Price: 13.89}},
		2: {{VendorName: "A", Price: 13.89}},
	}

	res, err := Compare([]int{2, 1}, components(), offers)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Components[0].ID)
	assert.Equal(t, []string{"voltage"}, res.CommonSpecs)
	assert.ElementsMatch(t, []string{"gear_ratio", "stall_current", "torque"}, res.DifferingSpecs)

	// keys in first-seen order: component 2's sorted keys, then component 1's new ones
	var keys []string
	for _, s := range res.Specifications {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{"gear_ratio", "stall_current", "voltage", "torque"}, keys)
	assert.Equal(t, "Stall Current", res.Specifications[1].DisplayName)
	assert.Equal(t, "Operating Voltage", res.Specifications[2].DisplayName)
	assert.NotContains(t, res.Specifications[3].Values, 2)

	require.NotNil(t, res.RecommendedID)
	assert.Equal(t, 1, *res.RecommendedID)

	// both cost 13.89; the first in request order wins
	require.NotNil(t, res.BestValueID)
	assert.Equal(t, 2, *res.BestValueID)
	require.NotNil(t, res.Components[1].LowestPrice)
	assert.Equal(t, 13.89, *res.Components[1].LowestPrice)
}

func TestCompare_Unpriced(t *testing.T) {
	res, err := Compare([]int{1, 2}, components(), nil)
	require.NoError(t, err)
	assert.Nil(t, res.BestValueID)
	assert.Nil(t, res.PriceComparison[1])
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Frame Rate", DisplayName("frame_rate"))
	assert.Equal(t, "Max Payload Kg", DisplayName("max_payload_kg"))
	assert.Equal(t, "Fov", DisplayName("FOV"))
}

func TestHandler_Compare(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := catalog.NewMemoryRepository()
	a := repo.AddComponent(catalog.Component{Name: "A", Slug: "a", Specifications: map[string]any{"voltage": "12V"}})
	b := repo.AddComponent(catalog.Component{Name: "B", Slug: "b", Specifications: map[string]any{"voltage": "12V"}})
	h := NewHandler(NewService(repo))

	r := gin.New()
	r.POST("/comparison/compare", h.Compare)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/comparison/compare", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post(`{"component_ids":[` + strconv.Itoa(a.ID) + `,` + strconv.Itoa(b.ID) + `]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var res Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, []string{"voltage"}, res.CommonSpecs)
	assert.Equal(t, "Unknown", res.Components[0].CategoryName)

	if w := post(`{"component_ids":[1]}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if w := post(`{"component_ids":[` + strconv.Itoa(a.ID) + `,999]}`); w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}
