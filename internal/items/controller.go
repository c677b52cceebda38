package items

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"stash/internal/auth"
	"stash/internal/shared/utils/response"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

func (ctrl *Controller) CreateItem(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	item, err := ctrl.service.Create(c.Request.Context(), user, &req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to create item", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Item created successfully", item.ToResponse(), nil)
}

func (ctrl *Controller) ListItems(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid pagination parameters", nil, err.Error())
		return
	}
	if err := ctrl.validator.Struct(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	list, total, err := ctrl.service.ListByOwner(c.Request.Context(), user.ID, query)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list items", nil, nil)
		return
	}

	items := make([]ItemResponse, 0, len(list))
	for i := range list {
		items = append(items, list[i].ToResponse())
	}

	response.RespondJSON(c, "success", http.StatusOK, "Items retrieved successfully", response.Paginated{
		Items: items,
		Total: total,
		Skip:  query.Skip,
		Limit: query.Limit,
	}, nil)
}

func (ctrl *Controller) GetItem(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid item ID", nil, err.Error())
		return
	}

	item, err := ctrl.service.GetByID(c.Request.Context(), user, id)
	if err != nil {
		ctrl.respondItemError(c, err, "Failed to get item")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Item retrieved successfully", item.ToResponse(), nil)
}

func (ctrl *Controller) UpdateItem(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid item ID", nil, err.Error())
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	item, err := ctrl.service.Update(c.Request.Context(), user, id, &req)
	if err != nil {
		ctrl.respondItemError(c, err, "Failed to update item")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Item updated successfully", item.ToResponse(), nil)
}

func (ctrl *Controller) DeleteItem(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid item ID", nil, err.Error())
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), user, id); err != nil {
		ctrl.respondItemError(c, err, "Failed to delete item")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Item deleted successfully", nil, nil)
}

func (ctrl *Controller) respondItemError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrItemNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Item not found", nil, nil)
	case errors.Is(err, ErrNotItemOwner):
		response.RespondJSON(c, "error", http.StatusForbidden, "Not authorized to access this item", nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, fallback, nil, nil)
	}
}
