// Package integration exercises the HTTP API end to end against in-memory
// infrastructure.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pantrychef/v2/internal/application/matching"
	appshoppinglist "github.com/pantrychef/v2/internal/application/shoppinglist"
	"github.com/pantrychef/v2/internal/domain/recipe"
	"github.com/pantrychef/v2/internal/infrastructure/config"
	"github.com/pantrychef/v2/internal/infrastructure/http/handlers"
	"github.com/pantrychef/v2/internal/infrastructure/http/middleware"
	"github.com/pantrychef/v2/internal/infrastructure/http/server"
	"github.com/pantrychef/v2/internal/infrastructure/monitoring"
	"github.com/pantrychef/v2/internal/infrastructure/persistence/memory"
	"github.com/pantrychef/v2/pkg/healthcheck"
	"github.com/pantrychef/v2/pkg/logger"
	"github.com/pantrychef/v2/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// APITestSuite runs the JSON API against in-memory storage and a static
// recipe dataset.
type APITestSuite struct {
	suite.Suite
	metrics *monitoring.MetricsCollector
	ts      *httptest.Server
}

// SetupSuite creates the shared metrics collector once; Prometheus
// collectors register globally and must not be built per test.
func (suite *APITestSuite) SetupSuite() {
	suite.metrics = monitoring.NewMetricsCollector()
}

// SetupTest starts a fresh API server for every test
func (suite *APITestSuite) SetupTest() {
	cfg := &config.Config{
		App: config.AppConfig{
			Name:        "PantryChef",
			Version:     "test",
			Environment: "test",
		},
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: time.Second,
		},
		RateLimit: config.RateLimitConfig{Enable: false},
		Monitoring: config.MonitoringConfig{
			EnableMetrics:   false,
			HealthCheckPath: "/health",
			MetricsPath:     "/metrics",
		},
	}

	store := memory.NewKeyValueStore()
	recipes := &testutils.StaticRecipeSource{
		Recipes: []recipe.Recipe{
			testutils.NewRecipeBuilder().
				WithID("stir-fry").
				WithName("Stir Fry").
				WithIngredient("Rice", "2 cups", recipe.CategoryGrain).
				WithIngredient("Chicken", "1 lb", recipe.CategoryProtein).
				WithIngredient("Soy Sauce", "2 tbsp", recipe.CategoryOther).
				Build(),
			testutils.NewRecipeBuilder().
				WithID("toast").
				WithName("Toast").
				WithIngredient("Bread", "2 slices", recipe.CategoryGrain).
				Build(),
		},
	}

	log := logger.NewNop()
	matchingService := matching.NewService(recipes, store, log)
	listService := appshoppinglist.NewService(store, recipes, log)

	health := healthcheck.New(cfg.App.Version, log)
	health.RegisterFunc("storage", func(ctx context.Context) error {
		_, err := store.Get(ctx, "active_shopping_list")
		return err
	})

	api := handlers.NewAPI(matchingService, listService, recipes, health, suite.metrics, log)
	mw := middleware.New(cfg, log, suite.metrics)
	router := server.NewRouter(cfg, api, mw, suite.metrics)

	suite.ts = httptest.NewServer(router)
}

// TearDownTest stops the test server
func (suite *APITestSuite) TearDownTest() {
	suite.ts.Close()
}

// do issues a JSON request and returns the response with its decoded body
func (suite *APITestSuite) do(method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(suite.T(), err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, suite.ts.URL+path, reader)
	require.NoError(suite.T(), err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := suite.ts.Client().Do(req)
	require.NoError(suite.T(), err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(suite.T(), err)

	decoded := map[string]interface{}{}
	if len(raw) > 0 && resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(suite.T(), json.Unmarshal(raw, &decoded), "body: %s", raw)
	} else {
		decoded["raw"] = string(raw)
	}
	return resp, decoded
}

// TestHealth tests the health endpoint
func (suite *APITestSuite) TestHealth() {
	resp, body := suite.do(http.MethodGet, "/health", nil)

	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(suite.T(), "healthy", body["status"])
}

// TestPantryFlow tests saving a pantry and matching recipes against it
func (suite *APITestSuite) TestPantryFlow() {
	// Save the pantry.
	resp, _ := suite.do(http.MethodPut, "/api/v2/pantry", map[string]interface{}{
		"items": []string{"rice", "chicken"},
	})
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	// Read it back.
	resp, body := suite.do(http.MethodGet, "/api/v2/pantry", nil)
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.Len(suite.T(), body["items"], 2)

	// Match with the persisted pantry (empty query).
	resp, body = suite.do(http.MethodPost, "/api/v2/pantry/match", map[string]interface{}{})
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	matches, ok := body["matches"].([]interface{})
	require.True(suite.T(), ok)
	require.Len(suite.T(), matches, 2)

	best := matches[0].(map[string]interface{})
	assert.Equal(suite.T(), "stir-fry", best["recipe_id"])
	assert.Equal(suite.T(), float64(1), best["missing_count"])
	assert.Equal(suite.T(), float64(67), best["match_percent"])
}

// TestShoppingListFlow drives a full list lifecycle over HTTP
func (suite *APITestSuite) TestShoppingListFlow() {
	// Create a named list.
	resp, _ := suite.do(http.MethodPost, "/api/v2/shopping-lists", map[string]interface{}{"name": "Weekly"})
	require.Equal(suite.T(), http.StatusCreated, resp.StatusCode)

	// Seed the pantry, then add only the missing ingredients of a recipe.
	resp, _ = suite.do(http.MethodPut, "/api/v2/pantry", map[string]interface{}{
		"items": []string{"rice", "chicken"},
	})
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	resp, _ = suite.do(http.MethodPost, "/api/v2/shopping-lists/Weekly/recipes", map[string]interface{}{
		"recipe_ids":   []string{"stir-fry"},
		"only_missing": true,
	})
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	resp, body := suite.do(http.MethodGet, "/api/v2/shopping-lists/Weekly", nil)
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	items, ok := body["items"].([]interface{})
	require.True(suite.T(), ok)
	require.Len(suite.T(), items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(suite.T(), "Soy sauce", item["ingredient"])
	assert.Equal(suite.T(), false, item["checked"])

	// Check the item off.
	resp, _ = suite.do(http.MethodPatch, "/api/v2/shopping-lists/Weekly/items/soy%20sauce", map[string]interface{}{
		"checked": true,
	})
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	// Export as CSV.
	req, err := http.NewRequest(http.MethodGet, suite.ts.URL+"/api/v2/shopping-lists/Weekly/export.csv", nil)
	require.NoError(suite.T(), err)
	csvResp, err := suite.ts.Client().Do(req)
	require.NoError(suite.T(), err)
	defer csvResp.Body.Close()
	raw, err := io.ReadAll(csvResp.Body)
	require.NoError(suite.T(), err)

	require.Equal(suite.T(), http.StatusOK, csvResp.StatusCode)
	assert.Contains(suite.T(), csvResp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(suite.T(), string(raw), "ingredient,totalAmount,category,recipes,checked")
	assert.Contains(suite.T(), string(raw), "Soy sauce,2 tbsp,other,Stir Fry,true")

	// Remove the item.
	resp, _ = suite.do(http.MethodDelete, "/api/v2/shopping-lists/Weekly/items/soy%20sauce", nil)
	require.Equal(suite.T(), http.StatusNoContent, resp.StatusCode)

	resp, body = suite.do(http.MethodGet, "/api/v2/shopping-lists/Weekly", nil)
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.Len(suite.T(), body["items"], 0)
}

// TestListNamePercentEscaping checks that a list name containing a literal
// percent escape round-trips through the URL with exactly one decode
func (suite *APITestSuite) TestListNamePercentEscaping() {
	resp, _ := suite.do(http.MethodPost, "/api/v2/shopping-lists/a%2520b/items", map[string]interface{}{
		"items": []map[string]interface{}{{"ingredient": "Milk"}},
	})
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	resp, body := suite.do(http.MethodGet, "/api/v2/shopping-lists", nil)
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	lists, ok := body["lists"].(map[string]interface{})
	require.True(suite.T(), ok)
	assert.Contains(suite.T(), lists, "a%20b")
	assert.NotContains(suite.T(), lists, "a b")

	resp, body = suite.do(http.MethodGet, "/api/v2/shopping-lists/a%2520b", nil)
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.Len(suite.T(), body["items"], 1)
}

// TestActiveListFlow tests the active-list pointer endpoints
func (suite *APITestSuite) TestActiveListFlow() {
	// Defaults before anything is set.
	resp, body := suite.do(http.MethodGet, "/api/v2/active-list", nil)
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(suite.T(), "Default", body["name"])

	// Point at a new list.
	resp, _ = suite.do(http.MethodPost, "/api/v2/shopping-lists", map[string]interface{}{"name": "Party"})
	require.Equal(suite.T(), http.StatusCreated, resp.StatusCode)
	resp, _ = suite.do(http.MethodPut, "/api/v2/active-list", map[string]interface{}{"name": "Party"})
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	// Deleting the active list falls back to Default.
	resp, _ = suite.do(http.MethodDelete, "/api/v2/shopping-lists/Party", nil)
	require.Equal(suite.T(), http.StatusNoContent, resp.StatusCode)

	resp, body = suite.do(http.MethodGet, "/api/v2/active-list", nil)
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(suite.T(), "Default", body["name"])
}

// TestValidation tests request validation failures
func (suite *APITestSuite) TestValidation() {
	suite.Run("MissingListName_ShouldReturn400", func() {
		resp, body := suite.do(http.MethodPost, "/api/v2/shopping-lists", map[string]interface{}{})

		assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
		assert.NotNil(suite.T(), body["error"])
	})

	suite.Run("MalformedJSON_ShouldReturn400", func() {
		req, err := http.NewRequest(http.MethodPost, suite.ts.URL+"/api/v2/shopping-lists", bytes.NewReader([]byte("{broken")))
		require.NoError(suite.T(), err)
		req.Header.Set("Content-Type", "application/json")

		resp, err := suite.ts.Client().Do(req)
		require.NoError(suite.T(), err)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
	})

	suite.Run("ItemWithoutIngredient_ShouldReturn400", func() {
		resp, _ := suite.do(http.MethodPost, "/api/v2/shopping-lists/Weekly/items", map[string]interface{}{
			"items": []map[string]interface{}{{"totalAmount": "2 cups"}},
		})

		assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
	})
}

// TestRecipesEndpoint tests the dataset listing and single lookup
func (suite *APITestSuite) TestRecipesEndpoint() {
	suite.Run("List_ShouldReturnDataset", func() {
		resp, body := suite.do(http.MethodGet, "/api/v2/recipes", nil)

		require.Equal(suite.T(), http.StatusOK, resp.StatusCode)
		recipes, ok := body["recipes"].([]interface{})
		require.True(suite.T(), ok)
		assert.Len(suite.T(), recipes, 2)
	})

	suite.Run("KnownID_ShouldReturnRecipe", func() {
		resp, body := suite.do(http.MethodGet, "/api/v2/recipes/stir-fry", nil)

		require.Equal(suite.T(), http.StatusOK, resp.StatusCode)
		r, ok := body["recipe"].(map[string]interface{})
		require.True(suite.T(), ok)
		assert.Equal(suite.T(), "Stir Fry", r["name"])
	})

	suite.Run("UnknownID_ShouldReturn404", func() {
		resp, body := suite.do(http.MethodGet, "/api/v2/recipes/nope", nil)

		assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)
		assert.NotNil(suite.T(), body["error"])
	})
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
