package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

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

func (ctrl *Controller) ListUsers(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid pagination parameters", nil, err.Error())
		return
	}
	if err := ctrl.validator.Struct(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	list, total, err := ctrl.service.List(c.Request.Context(), query)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list users", nil, nil)
		return
	}

	items := make([]UserResponse, 0, len(list))
	for i := range list {
		items = append(items, list[i].ToResponse())
	}

	response.RespondJSON(c, "success", http.StatusOK, "Users retrieved successfully", response.Paginated{
		Items: items,
		Total: total,
		Skip:  query.Skip,
		Limit: query.Limit,
	}, nil)
}

func (ctrl *Controller) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid user ID", nil, err.Error())
		return
	}

	user, err := ctrl.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "User not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to get user", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "User retrieved successfully", user.ToResponse(), nil)
}

func (ctrl *Controller) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid user ID", nil, err.Error())
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	user, err := ctrl.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "User not found", nil, nil)
		case errors.Is(err, ErrEmailTaken):
			response.RespondJSON(c, "error", http.StatusConflict, "User with this email already exists", nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to update user", nil, nil)
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "User updated successfully", user.ToResponse(), nil)
}

func (ctrl *Controller) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid user ID", nil, err.Error())
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "User not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to delete user", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "User deleted successfully", nil, nil)
}
