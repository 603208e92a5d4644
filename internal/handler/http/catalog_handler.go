package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/karan123216/Restaurant-Management-System/internal/catalog"
	"github.com/karan123216/Restaurant-Management-System/internal/identity"
	"github.com/karan123216/Restaurant-Management-System/internal/money"
)

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

type CreateItemRequest struct {
	Name        string      `json:"name" validate:"required,max=100"`
	Description string      `json:"description" validate:"max=2000"`
	Price       money.Money `json:"price" validate:"gte=0"`
	CategoryID  int64       `json:"category_id" validate:"required,gt=0"`
	Image       string      `json:"image" validate:"max=255"`
}

type CatalogHandler struct {
	service  catalog.Service
	validate *validator.Validate
}

func NewCatalogHandler(service catalog.Service) *CatalogHandler {
	return &CatalogHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *CatalogHandler) RegisterRoutes(router chi.Router) {
	router.Get("/menu", h.handleMenu)
	router.Get("/items/{id}", h.handleGetItem)

	router.Post("/admin/categories", h.handleCreateCategory)
	router.Delete("/admin/categories/{id}", h.handleDeleteCategory)
	router.Post("/admin/items", h.handleCreateItem)
	router.Delete("/admin/items/{id}", h.handleDeleteItem)
}

func (h *CatalogHandler) handleMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.service.ListMenu(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to load menu")
		return
	}

	respondWithJSON(w, http.StatusOK, menu)
}

func (h *CatalogHandler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to get item")
		return
	}

	respondWithJSON(w, http.StatusOK, item)
}

func (h *CatalogHandler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	category, err := h.service.CreateCategory(r.Context(), identity.FromContext(r.Context()), req.Name)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to create category")
		return
	}

	respondWithJSON(w, http.StatusCreated, category)
}

func (h *CatalogHandler) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	item, err := h.service.CreateItem(r.Context(), identity.FromContext(r.Context()), catalog.NewItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Image:       req.Image,
	})
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to create item")
		return
	}

	respondWithJSON(w, http.StatusCreated, item)
}

func (h *CatalogHandler) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	result, err := h.service.DeleteItem(r.Context(), identity.FromContext(r.Context()), id)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to delete item")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *CatalogHandler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	result, err := h.service.DeleteCategory(r.Context(), identity.FromContext(r.Context()), id)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to delete category")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
