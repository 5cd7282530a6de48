// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	perrors "github.com/storecore/catalog/internal/errors"
	"github.com/storecore/catalog/internal/service"
	"github.com/storecore/catalog/pkg/web"
)

type Handler struct {
	service  service.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the product API with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the catalog service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.Query)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Patch("/", h.Update)
			r.Delete("/", h.DeleteByID)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id.Hex())
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			h.logger.WarnContext(r.Context(), "Product not found", "ID", id.Hex())
			web.RespondError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id.Hex()))
			return
		}
		h.logger.ErrorContext(r.Context(), "Error retrieving product", "ID", id.Hex(), "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %s", id.Hex()))
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// Query retrieves products filtered by an optional price range.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	minPrice, ok := web.ParseOptionalFloat(r, w, h.logger, "min_price")
	if !ok {
		return
	}
	maxPrice, ok := web.ParseOptionalFloat(r, w, h.logger, "max_price")
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to query products", "query", r.URL.RawQuery)
	list, err := h.service.Query(r.Context(), minPrice, maxPrice)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var productCreateDto service.ProductCreateDto
	if err := json.NewDecoder(r.Body).Decode(&productCreateDto); err != nil {
		h.logger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to create product", "product", productCreateDto)
	if !h.validateStruct(w, r, productCreateDto) {
		return
	}

	newProduct, err := h.service.Create(r.Context(), productCreateDto)
	if err != nil {
		if errors.Is(err, perrors.ErrProductConflict) {
			h.logger.WarnContext(r.Context(), "Product name already taken", "Name", productCreateDto.Name)
			web.RespondError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("Product with name '%s' already exists", productCreateDto.Name))
			return
		}
		h.logger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to create product")
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", newProduct.ID, "Name", newProduct.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, newProduct)
}

// Update applies a partial update to an existing product.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to update product", "ID", id.Hex())
	var productUpdateDto service.ProductUpdateDto
	if err := json.NewDecoder(r.Body).Decode(&productUpdateDto); err != nil {
		h.logger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, productUpdateDto) {
		return
	}

	// Stamp the update time unless the client supplied one.
	if productUpdateDto.UpdatedAt == nil {
		now := time.Now().UTC()
		productUpdateDto.UpdatedAt = &now
	}

	updated, err := h.service.Update(r.Context(), id, productUpdateDto)
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			h.logger.WarnContext(r.Context(), "Product not found for update", "ID", id.Hex())
			web.RespondError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id.Hex()))
			return
		}
		if errors.Is(err, perrors.ErrProductConflict) && productUpdateDto.Name != nil {
			h.logger.WarnContext(r.Context(), "Product name already taken", "Name", *productUpdateDto.Name)
			web.RespondError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("Product with name '%s' already exists", *productUpdateDto.Name))
			return
		}
		h.logger.ErrorContext(r.Context(), "Error updating product", "ID", id.Hex(), "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Sprintf("Failed to update product with ID %s", id.Hex()))
		return
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to delete product", "ID", id.Hex())
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			h.logger.WarnContext(r.Context(), "Product not found for deletion", "ID", id.Hex())
			web.RespondError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id.Hex()))
			return
		}
		h.logger.ErrorContext(r.Context(), "Error deleting product", "ID", id.Hex(), "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Sprintf("Failed to delete product with ID %s", id.Hex()))
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id.Hex())
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// validateStruct validates the decoded request body and writes a field-level
// error response on failure. Returns true when the request may proceed.
func (h *Handler) validateStruct(w http.ResponseWriter, r *http.Request, dto any) bool {
	err := h.validate.Struct(dto)
	if err == nil {
		return true
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		// If the error is a validation error, we can extract field-specific errors.
		errorResponse := make(map[string]string)
		for _, fieldErr := range validationErrors {
			// fieldErr.Tag() returns "required", "max", etc.
			errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
		}
		h.logger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
		web.RespondJSON(w, h.logger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
		return false
	}
	h.logger.ErrorContext(r.Context(), "Error validating request body", "error", err)
	// If it's not a validation error, we can return a generic error.
	web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
	return false
}
