// Package handlers implements the JSON API over the pantry matching and
// shopping list services.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/pantrychef/v2/internal/infrastructure/http/middleware"
	"github.com/pantrychef/v2/internal/infrastructure/monitoring"
	"github.com/pantrychef/v2/internal/ports/inbound"
	"github.com/pantrychef/v2/internal/ports/outbound"
	"github.com/pantrychef/v2/pkg/errors"
	"github.com/pantrychef/v2/pkg/healthcheck"
	"go.uber.org/zap"
)

// API bundles the services behind the HTTP surface
type API struct {
	matching inbound.MatchingService
	lists    inbound.ShoppingListService
	recipes  outbound.RecipeSource
	health   *healthcheck.HealthCheck
	metrics  *monitoring.MetricsCollector
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAPI creates the API handler set
func NewAPI(
	matching inbound.MatchingService,
	lists inbound.ShoppingListService,
	recipes outbound.RecipeSource,
	health *healthcheck.HealthCheck,
	metrics *monitoring.MetricsCollector,
	logger *zap.Logger,
) *API {
	return &API{
		matching: matching,
		lists:    lists,
		recipes:  recipes,
		health:   health,
		metrics:  metrics,
		validate: validator.New(),
		logger:   logger.Named("api"),
	}
}

// Request bodies

type matchRequest struct {
	PantryItems []string `json:"pantry_items"`
	MaxMissing  *int     `json:"max_missing" validate:"omitempty,gte=0"`
}

type pantryRequest struct {
	Items []string `json:"items" validate:"required"`
}

type createListRequest struct {
	Name string `json:"name" validate:"required"`
}

type renameListRequest struct {
	NewName string `json:"new_name" validate:"required"`
}

type addItemsRequest struct {
	Items []inbound.NewItemCommand `json:"items" validate:"required,min=1,dive"`
}

type addRecipesRequest struct {
	RecipeIDs   []string `json:"recipe_ids" validate:"required,min=1"`
	OnlyMissing bool     `json:"only_missing"`
}

type toggleItemRequest struct {
	Checked bool `json:"checked"`
}

type activeListRequest struct {
	Name string `json:"name" validate:"required"`
}

// Handlers

// ListRecipes returns the full recipe dataset
func (a *API) ListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := a.recipes.AllRecipes(r.Context())
	if err != nil {
		a.respondError(w, r, errors.NewDatasetError("load recipes", err))
		return
	}
	a.respondJSON(w, http.StatusOK, map[string]interface{}{"recipes": recipes})
}

// GetRecipe returns a single recipe by dataset ID
func (a *API) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	recipes, err := a.recipes.AllRecipes(r.Context())
	if err != nil {
		a.respondError(w, r, errors.NewDatasetError("load recipes", err))
		return
	}
	for i := range recipes {
		if recipes[i].ID == id {
			a.respondJSON(w, http.StatusOK, map[string]interface{}{"recipe": recipes[i]})
			return
		}
	}
	a.respondError(w, r, errors.NewRecipeNotFoundError(id))
}

// MatchPantry scores recipes against pantry items
func (a *API) MatchPantry(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if !a.decode(w, r, &req) {
		return
	}

	matches, err := a.matching.MatchByPantry(r.Context(), inbound.MatchQuery{
		PantryItems: req.PantryItems,
		MaxMissing:  req.MaxMissing,
	})
	if err != nil {
		a.respondError(w, r, err)
		return
	}

	a.metrics.IncMatchRequests()
	a.respondJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

// GetPantry returns the persisted pantry items
func (a *API) GetPantry(w http.ResponseWriter, r *http.Request) {
	items, err := a.matching.GetPantryItems(r.Context())
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respondJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// PutPantry replaces the persisted pantry items
func (a *API) PutPantry(w http.ResponseWriter, r *http.Request) {
	var req pantryRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.matching.SavePantryItems(r.Context(), req.Items); err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respondJSON(w, http.StatusOK, map[string]interface{}{"status": "saved"})
}

// GetAllLists returns every named shopping list
func (a *API) GetAllLists(w http.ResponseWriter, r *http.Request) {
	lists, err := a.lists.GetAllLists(r.Context())
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respondJSON(w, http.StatusOK, map[string]interface{}{"lists": lists})
}

// CreateList creates an empty named list
func (a *API) CreateList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.lists.CreateList(r.Context(), req.Name); err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respondJSON(w, http.StatusCreated, map[string]interface{}{"name": req.Name})
}

// GetList returns one named list ([] for unknown names)
func (a *API) GetList(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	items, err := a.lists.GetListByName(r.Context(), name)
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respondJSON(w, http.StatusOK, map[string]interface{}{"name": name, "items": items})
}

// DeleteList removes a named list
func (a *API) DeleteList(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := a.lists.DeleteList(r.Context(), name); err != nil {
		a.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RenameList moves a list's contents to a new name
func (a *API) RenameList(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req renameListRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.lists.RenameList(r.Context(), name, req.NewName); err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respondJSON(w, http.StatusOK, map[string]interface{}{"name": req.NewName})
}

// AddItems merges incoming items into a named list
func (a *API) AddItems(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req addItemsRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.lists.AddItemsToList(r.Context(), name, req.Items); err != nil {
		a.respondError(w, r, err)
		return
	}
	a.metrics.IncListMerges()
	a.respondJSON(w, http.StatusOK, map[string]interface{}{"status": "merged"})
}

// AddRecipes merges recipe ingredients into a named list
func (a *API) AddRecipes(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req addRecipesRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.lists.AddRecipesToList(r.Context(), name, req.RecipeIDs, req.OnlyMissing); err != nil {
		a.respondError(w, r, err)
		return
	}
	a.metrics.IncListMerges()
	a.respondJSON(w, http.StatusOK, map[string]interface{}{"status": "merged"})
}

// ToggleItem sets an item's checked state
func (a *API) ToggleItem(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ingredient := chi.URLParam(r, "ingredient")
	var req toggleItemRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.lists.ToggleItemChecked(r.Context(), name, ingredient, req.Checked); err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respondJSON(w, http.StatusOK, map[string]interface{}{"status": "updated"})
}

// RemoveItem deletes an item from a list
func (a *API) RemoveItem(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ingredient := chi.URLParam(r, "ingredient")
	if err := a.lists.RemoveItem(r.Context(), name, ingredient); err != nil {
		a.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportCSV streams a list as CSV
func (a *API) ExportCSV(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	out, err := a.lists.ExportCSV(r.Context(), name)
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	a.metrics.IncListExports()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="shopping-list.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

// GetActiveList returns the active-list pointer
func (a *API) GetActiveList(w http.ResponseWriter, r *http.Request) {
	name, err := a.lists.GetActiveListName(r.Context())
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respondJSON(w, http.StatusOK, map[string]interface{}{"name": name})
}

// PutActiveList updates the active-list pointer
func (a *API) PutActiveList(w http.ResponseWriter, r *http.Request) {
	var req activeListRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.lists.SetActiveListName(r.Context(), req.Name); err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respondJSON(w, http.StatusOK, map[string]interface{}{"name": req.Name})
}

// Health runs the registered dependency checks and reports the aggregate
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	result := a.health.Check(r.Context())

	status := http.StatusOK
	if result.Status == healthcheck.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	a.respondJSON(w, status, result)
}

// Helpers

// decode unmarshals and validates a JSON request body, writing a 400 on
// failure. Returns false when the handler should stop.
func (a *API) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		a.respondError(w, r, errors.NewBadRequestError("invalid JSON request body").WithCause(err))
		return false
	}
	if err := a.validate.Struct(dst); err != nil {
		a.respondError(w, r, errors.NewValidationError(err.Error()))
		return false
	}
	return true
}

func (a *API) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (a *API) respondError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.Wrap(err, "request failed")
	requestID := middleware.RequestIDFromContext(r.Context())

	if appErr.StatusCode() >= http.StatusInternalServerError {
		a.logger.Error("Request failed",
			zap.String("code", string(appErr.Code)),
			zap.String("request_id", requestID),
			zap.Error(appErr),
		)
	}

	a.respondJSON(w, appErr.StatusCode(), errors.ToErrorResponse(appErr, requestID))
}
