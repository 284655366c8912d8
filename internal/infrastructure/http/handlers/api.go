// Package handlers provides HTTP handlers for the REST API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/plateful/v1/internal/domain/mealplan"
	"github.com/plateful/v1/internal/domain/shopping"
	"github.com/plateful/v1/internal/ports/inbound"
	apperrors "github.com/plateful/v1/pkg/errors"
)

// APIHandlers handles REST API requests.
type APIHandlers struct {
	searchService   inbound.SearchService
	recipeService   inbound.RecipeService
	catalogService  inbound.CatalogService
	mealPlanService inbound.MealPlanService
	shoppingService inbound.ShoppingService
	logger          *zap.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(
	searchService inbound.SearchService,
	recipeService inbound.RecipeService,
	catalogService inbound.CatalogService,
	mealPlanService inbound.MealPlanService,
	shoppingService inbound.ShoppingService,
	logger *zap.Logger,
) *APIHandlers {
	return &APIHandlers{
		searchService:   searchService,
		recipeService:   recipeService,
		catalogService:  catalogService,
		mealPlanService: mealPlanService,
		shoppingService: shoppingService,
		logger:          logger,
	}
}

// APIResponse represents a standard API response.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// SearchIngredients handles GET /api/v1/ingredients/search?q=
func (h *APIHandlers) SearchIngredients(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	results, err := h.searchService.SearchAll(r.Context(), query)
	if err != nil {
		if errors.Is(err, inbound.ErrSearchSuperseded) {
			h.writeJSON(w, http.StatusConflict, APIResponse{
				Success: false,
				Error:   err.Error(),
			})
			return
		}
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: results})
}

// ListCatalog handles GET /api/v1/catalog
func (h *APIHandlers) ListCatalog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.catalogService.ListCatalog(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: entries})
}

// SaveCatalogIngredient handles POST /api/v1/catalog
func (h *APIHandlers) SaveCatalogIngredient(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.SaveCatalogIngredientCommand
	if !h.decodeBody(w, r, &cmd) {
		return
	}

	ing, err := h.catalogService.SaveIngredient(r.Context(), cmd)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, APIResponse{Success: true, Data: ing})
}

// DeleteCatalogIngredient handles DELETE /api/v1/catalog/{sourceID}
func (h *APIHandlers) DeleteCatalogIngredient(w http.ResponseWriter, r *http.Request) {
	sourceID := chi.URLParam(r, "sourceID")
	confirmed := r.URL.Query().Get("confirm") == "true"

	if err := h.catalogService.DeleteIngredient(r.Context(), sourceID, confirmed); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Ingredient deleted"})
}

// ImportCatalog handles POST /api/v1/catalog/import with a CSV body.
func (h *APIHandlers) ImportCatalog(w http.ResponseWriter, r *http.Request) {
	summary, err := h.catalogService.ImportCSV(r.Context(), r.Body)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: summary})
}

// ListRecipes handles GET /api/v1/recipes
func (h *APIHandlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipeService.ListRecipes(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: recipes})
}

// GetRecipe handles GET /api/v1/recipes/{id}
func (h *APIHandlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.uuidParam(w, r, "id")
	if !ok {
		return
	}
	dto, err := h.recipeService.GetRecipe(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: dto})
}

// CreateRecipe handles POST /api/v1/recipes
func (h *APIHandlers) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.CreateRecipeCommand
	if !h.decodeBody(w, r, &cmd) {
		return
	}
	dto, err := h.recipeService.CreateRecipe(r.Context(), cmd)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, APIResponse{Success: true, Data: dto})
}

// UpdateRecipe handles PUT /api/v1/recipes/{id}
func (h *APIHandlers) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.uuidParam(w, r, "id")
	if !ok {
		return
	}
	var cmd inbound.UpdateRecipeCommand
	if !h.decodeBody(w, r, &cmd) {
		return
	}
	cmd.RecipeID = id

	dto, err := h.recipeService.UpdateRecipe(r.Context(), cmd)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: dto})
}

// DeleteRecipe handles DELETE /api/v1/recipes/{id}
func (h *APIHandlers) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.uuidParam(w, r, "id")
	if !ok {
		return
	}
	confirmed := r.URL.Query().Get("confirm") == "true"

	if err := h.recipeService.DeleteRecipe(r.Context(), id, confirmed); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Recipe deleted"})
}

// WeekView handles GET /api/v1/plan?start=&end=
func (h *APIHandlers) WeekView(w http.ResponseWriter, r *http.Request) {
	week := mealplan.WeekRange{
		Start: r.URL.Query().Get("start"),
		End:   r.URL.Query().Get("end"),
	}
	view, err := h.mealPlanService.WeekView(r.Context(), week)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: view})
}

// AddPlanEntry handles POST /api/v1/plan/entries
func (h *APIHandlers) AddPlanEntry(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.AddPlanEntryCommand
	if !h.decodeBody(w, r, &cmd) {
		return
	}
	entry, err := h.mealPlanService.AddEntry(r.Context(), cmd)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, APIResponse{Success: true, Data: entry})
}

// DeletePlanEntry handles DELETE /api/v1/plan/entries/{id}
func (h *APIHandlers) DeletePlanEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.uuidParam(w, r, "id")
	if !ok {
		return
	}
	confirmed := r.URL.Query().Get("confirm") == "true"

	if err := h.mealPlanService.DeleteEntry(r.Context(), id, confirmed); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Plan entry deleted"})
}

// AddRecurringRule handles POST /api/v1/plan/rules
func (h *APIHandlers) AddRecurringRule(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.AddRecurringRuleCommand
	if !h.decodeBody(w, r, &cmd) {
		return
	}
	rule, err := h.mealPlanService.AddRecurringRule(r.Context(), cmd)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, APIResponse{Success: true, Data: rule})
}

// DeleteRecurringRule handles DELETE /api/v1/plan/rules/{id}
func (h *APIHandlers) DeleteRecurringRule(w http.ResponseWriter, r *http.Request) {
	id, ok := h.uuidParam(w, r, "id")
	if !ok {
		return
	}
	confirmed := r.URL.Query().Get("confirm") == "true"

	if err := h.mealPlanService.DeleteRecurringRule(r.Context(), id, confirmed); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Recurring rule deleted"})
}

// DeleteOccurrence handles DELETE /api/v1/plan/rules/{id}/occurrences?date=&slot=
func (h *APIHandlers) DeleteOccurrence(w http.ResponseWriter, r *http.Request) {
	id, ok := h.uuidParam(w, r, "id")
	if !ok {
		return
	}
	date := r.URL.Query().Get("date")
	slot := mealplan.Slot(r.URL.Query().Get("slot"))

	if err := h.mealPlanService.DeleteOccurrence(r.Context(), id, date, slot); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Occurrence removed"})
}

// DailyNutrition handles GET /api/v1/plan/nutrition?date=
func (h *APIHandlers) DailyNutrition(w http.ResponseWriter, r *http.Request) {
	summary, err := h.mealPlanService.DailyNutrition(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: summary})
}

// BuildWeekList handles GET /api/v1/shopping/build?start=&end=
func (h *APIHandlers) BuildWeekList(w http.ResponseWriter, r *http.Request) {
	week := mealplan.WeekRange{
		Start: r.URL.Query().Get("start"),
		End:   r.URL.Query().Get("end"),
	}
	items, err := h.shoppingService.BuildWeekList(r.Context(), week)
	if err != nil {
		if errors.Is(err, inbound.ErrEmptyWeek) {
			// A recoverable condition, not a failure.
			h.writeJSON(w, http.StatusOK, APIResponse{
				Success: true,
				Data:    []shopping.Item{},
				Message: "No ingredients planned in the selected week",
			})
			return
		}
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: items})
}

// ListShoppingLists handles GET /api/v1/shopping/lists
func (h *APIHandlers) ListShoppingLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.shoppingService.ListLists(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: lists})
}

// CreateShoppingList handles POST /api/v1/shopping/lists
func (h *APIHandlers) CreateShoppingList(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.CreateListCommand
	if !h.decodeBody(w, r, &cmd) {
		return
	}
	list, err := h.shoppingService.CreateList(r.Context(), cmd)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, APIResponse{Success: true, Data: list})
}

// GetShoppingList handles GET /api/v1/shopping/lists/{id}
func (h *APIHandlers) GetShoppingList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.uuidParam(w, r, "id")
	if !ok {
		return
	}
	list, err := h.shoppingService.GetList(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: list})
}

// DeleteShoppingList handles DELETE /api/v1/shopping/lists/{id}
func (h *APIHandlers) DeleteShoppingList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.uuidParam(w, r, "id")
	if !ok {
		return
	}
	confirmed := r.URL.Query().Get("confirm") == "true"

	if err := h.shoppingService.DeleteList(r.Context(), id, confirmed); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Shopping list deleted"})
}

// MergeIntoShoppingList handles POST /api/v1/shopping/lists/{id}/merge
func (h *APIHandlers) MergeIntoShoppingList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.uuidParam(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Items []shopping.Item `json:"items"`
	}
	if !h.decodeBody(w, r, &body) {
		return
	}
	list, err := h.shoppingService.MergeIntoList(r.Context(), id, body.Items)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: list})
}

// RemoveShoppingListItem handles DELETE /api/v1/shopping/lists/{id}/items/{itemID}
func (h *APIHandlers) RemoveShoppingListItem(w http.ResponseWriter, r *http.Request) {
	listID, ok := h.uuidParam(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := h.uuidParam(w, r, "itemID")
	if !ok {
		return
	}
	confirmed := r.URL.Query().Get("confirm") == "true"

	if err := h.shoppingService.RemoveItem(r.Context(), listID, itemID, confirmed); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Item removed"})
}

// HealthCheck handles GET /health
func (h *APIHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "v1.0.0",
		},
		Message: "Service is healthy",
	}
	h.writeJSON(w, http.StatusOK, response)
}

// decodeBody decodes a JSON request body, answering 400 on failure.
func (h *APIHandlers) decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		h.writeJSON(w, http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   "invalid JSON body",
		})
		return false
	}
	return true
}

// uuidParam parses a UUID path parameter, answering 400 on failure.
func (h *APIHandlers) uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   "invalid " + name + " parameter",
		})
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps application errors onto HTTP status codes.
func (h *APIHandlers) writeError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		h.writeJSON(w, appErr.StatusCode(), APIResponse{
			Success: false,
			Error:   appErr.Message,
		})
		return
	}

	h.logger.Error("unhandled error", zap.Error(err))
	h.writeJSON(w, http.StatusInternalServerError, APIResponse{
		Success: false,
		Error:   "internal server error",
	})
}

// writeJSON writes a JSON response.
func (h *APIHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}
