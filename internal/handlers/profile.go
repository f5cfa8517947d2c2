package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hypersenta/backend/internal/services"
	"github.com/hypersenta/backend/pkg/crypto"
	"github.com/hypersenta/backend/pkg/errors"
	"github.com/hypersenta/backend/pkg/response"
)

// ProfileHandler serves the authenticated user's own account.
type ProfileHandler struct {
	svc *services.UserService
}

func NewProfileHandler(svc *services.UserService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// GET /api/profile
func (h *ProfileHandler) Me(c *gin.Context) {
	user, err := h.svc.GetByUUID(requestContext(c), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

type updateProfileRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"first_name" validate:"omitempty,max=128"`
	LastName  *string `json:"last_name" validate:"omitempty,max=128"`
	Mobile    *string `json:"mobile" validate:"omitempty"`
}

// PATCH /api/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	var req updateProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if req.Email == nil && req.FirstName == nil && req.LastName == nil && req.Mobile == nil {
		response.Error(c, errors.NewBadRequest("no fields provided for update"))
		return
	}

	user, err := h.svc.Update(requestContext(c), currentUserID(c), services.UpdateUserInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Mobile:    req.Mobile,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

// POST /api/profile/password
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	ctx := requestContext(c)
	userID := currentUserID(c)

	user, err := h.svc.GetByUUID(ctx, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if !crypto.VerifyPassword(user.Password, req.CurrentPassword) {
		response.Error(c, errors.ErrInvalidCredentials)
		return
	}

	if err := h.svc.ChangePassword(ctx, userID, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"changed": true})
}

type lastOrganizationRequest struct {
	OrganizationID   string `json:"organization_id" validate:"required"`
	OrganizationName string `json:"organization_name" validate:"omitempty,max=128"`
}

// PUT /api/profile/last-organization
func (h *ProfileHandler) SetLastOrganization(c *gin.Context) {
	var req lastOrganizationRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.svc.SetLastUsedOrganization(requestContext(c), currentUserID(c), req.OrganizationID, req.OrganizationName); err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.svc.GetByUUID(requestContext(c), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}
