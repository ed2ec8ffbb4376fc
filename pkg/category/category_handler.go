package category

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pennywise/pennywise/internal/rest"
	"github.com/pennywise/pennywise/pkg/user"
	log "github.com/sirupsen/logrus"
)

type CategoryDTO struct {
	Id          int       `json:"id"`
	Name        string    `json:"name"`
	Type        Type      `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Handler struct {
	categoryService Service
}

func NewHandler(categoryService Service) *Handler {
	return &Handler{categoryService: categoryService}
}

// List godoc
// @Summary List the current user's categories
// @Tags Category
// @Produce json
// @Success 200 {array} CategoryDTO
// @Router /api/categories/ [get]
// @Security Bearer
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log.Trace("Listing categories")

	categories, err := h.categoryService.GetAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	dtos := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		dtos = append(dtos, CategoryToDTO(c))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// Get godoc
// @Summary Get a category
// @Tags Category
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} CategoryDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/categories/{id}/ [get]
// @Security Bearer
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(w, r)
	if !ok {
		return
	}
	c, err := h.categoryService.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, CategoryToDTO(c))
}

// Create godoc
// @Summary Create a category
// @Tags Category
// @Accept json
// @Produce json
// @Param category body CategoryDTO true "Category"
// @Success 201 {object} CategoryDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 409 {object} rest.ErrorResponse "Name already used"
// @Router /api/categories/ [post]
// @Security Bearer
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating category")

	var dto CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	created, err := h.categoryService.Create(r.Context(), DTOToCategory(dto))
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, CategoryToDTO(created))
}

// Update godoc
// @Summary Replace a category
// @Tags Category
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param category body CategoryDTO true "Category"
// @Success 200 {object} CategoryDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Failure 409 {object} rest.ErrorResponse "Name already used"
// @Router /api/categories/{id}/ [put]
// @Security Bearer
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(w, r)
	if !ok {
		return
	}
	log.Debugf("Updating category %d", id)

	var dto CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	c := DTOToCategory(dto)
	c.Id = id
	updated, err := h.categoryService.Update(r.Context(), c)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, CategoryToDTO(updated))
}

// Delete godoc
// @Summary Delete a category
// @Description A category still referenced by transactions or budgets cannot be deleted.
// @Tags Category
// @Param id path int true "Category ID"
// @Success 204 "No Content"
// @Failure 404 {object} rest.ErrorResponse
// @Failure 409 {object} rest.ErrorResponse "Category in use"
// @Router /api/categories/{id}/ [delete]
// @Security Bearer
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(w, r)
	if !ok {
		return
	}
	log.Debugf("Deleting category %d", id)

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathId(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid category id", "")
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCategoryInvalid):
		rest.WriteError(w, http.StatusBadRequest, "Invalid category", err.Error())
	case errors.Is(err, ErrCategoryNotFound):
		rest.WriteError(w, http.StatusNotFound, "Category not found", "")
	case errors.Is(err, ErrCategoryNameTaken):
		rest.WriteError(w, http.StatusConflict, "Category with this name already exists", "")
	case errors.Is(err, ErrCategoryInUse):
		rest.WriteError(w, http.StatusConflict, "Category is in use", "Delete or move its transactions and budgets first")
	case errors.Is(err, user.ErrUserNotFound):
		rest.WriteError(w, http.StatusUnauthorized, "Not authenticated", "")
	default:
		log.Errorf("category request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
	}
}

func CategoryToDTO(c Category) CategoryDTO {
	return CategoryDTO{
		Id:          c.Id,
		Name:        c.Name,
		Type:        c.Type,
		Description: c.Description,
		CreatedAt:   c.Created,
		UpdatedAt:   c.Updated,
	}
}

func DTOToCategory(dto CategoryDTO) Category {
	return Category{
		Id:          dto.Id,
		Name:        dto.Name,
		Type:        dto.Type,
		Description: dto.Description,
		Created:     dto.CreatedAt,
		Updated:     dto.UpdatedAt,
	}
}
