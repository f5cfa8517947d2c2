package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/hypersenta/backend/internal/services"
	"github.com/hypersenta/backend/pkg/errors"
	"github.com/hypersenta/backend/pkg/response"
)

// OrganizationHandler exposes organization CRUD endpoints.
type OrganizationHandler struct {
	svc   *services.OrganizationService
	users *services.UserService
}

func NewOrganizationHandler(svc *services.OrganizationService, users *services.UserService) *OrganizationHandler {
	return &OrganizationHandler{svc: svc, users: users}
}

type createOrganizationRequest struct {
	Name        string         `json:"name" validate:"required,min=2,max=128"`
	Description string         `json:"description" validate:"omitempty,max=512"`
	Settings    map[string]any `json:"settings"`
}

type updateOrganizationRequest struct {
	Name        *string         `json:"name" validate:"omitempty,min=2,max=128"`
	Description *string         `json:"description" validate:"omitempty,max=512"`
	Settings    *map[string]any `json:"settings"`
}

func settingsJSON(settings map[string]any) (datatypes.JSON, error) {
	if settings == nil {
		return nil, nil
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// GET /api/organizations
func (h *OrganizationHandler) List(c *gin.Context) {
	orgs, err := h.svc.ListForUser(requestContext(c), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, orgs)
}

// GET /api/organizations/:id
func (h *OrganizationHandler) Get(c *gin.Context) {
	org, err := h.svc.GetByUUID(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, org)
}

// POST /api/organizations
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req createOrganizationRequest
	if !bindAndValidate(c, &req) {
		return
	}

	settings, err := settingsJSON(req.Settings)
	if err != nil {
		response.Error(c, errors.NewBadRequest("settings must be a JSON object"))
		return
	}

	org, err := h.svc.Create(requestContext(c), currentUserID(c), services.CreateOrganizationInput{
		Name:        req.Name,
		Description: req.Description,
		Settings:    settings,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// Creating an organization makes it the user's current one.
	if err := h.users.SetLastUsedOrganization(requestContext(c), currentUserID(c), org.UUID, org.Name); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, org)
}

// PATCH /api/organizations/:id
func (h *OrganizationHandler) Update(c *gin.Context) {
	var req updateOrganizationRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if req.Name == nil && req.Description == nil && req.Settings == nil {
		response.Error(c, errors.NewBadRequest("no fields provided for update"))
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		response.Error(c, errors.NewBadRequest("name must not be empty"))
		return
	}

	input := services.UpdateOrganizationInput{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Settings != nil {
		settings, err := settingsJSON(*req.Settings)
		if err != nil {
			response.Error(c, errors.NewBadRequest("settings must be a JSON object"))
			return
		}
		input.Settings = settings
	}

	org, err := h.svc.Update(requestContext(c), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, org)
}

// DELETE /api/organizations/:id
func (h *OrganizationHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
