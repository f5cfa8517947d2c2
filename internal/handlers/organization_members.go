package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hypersenta/backend/internal/services"
	"github.com/hypersenta/backend/pkg/response"
)

// OrganizationMemberHandler exposes organization membership endpoints.
type OrganizationMemberHandler struct {
	svc *services.OrganizationService
}

func NewOrganizationMemberHandler(svc *services.OrganizationService) *OrganizationMemberHandler {
	return &OrganizationMemberHandler{svc: svc}
}

// GET /api/organizations/:id/members
func (h *OrganizationMemberHandler) List(c *gin.Context) {
	members, err := h.svc.ListMembers(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, members)
}

type addMemberRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"omitempty,oneof=member admin"`
}

// POST /api/organizations/:id/members
func (h *OrganizationMemberHandler) Add(c *gin.Context) {
	var req addMemberRequest
	if !bindAndValidate(c, &req) {
		return
	}

	member, err := h.svc.AddMember(requestContext(c), c.Param("id"), req.UserID, req.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, member)
}

type updateMemberRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=member admin"`
}

// PATCH /api/organizations/:id/members/:userId
func (h *OrganizationMemberHandler) UpdateRole(c *gin.Context) {
	var req updateMemberRoleRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.svc.UpdateMemberRole(requestContext(c), c.Param("id"), c.Param("userId"), req.Role); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"role": req.Role})
}

// DELETE /api/organizations/:id/members/:userId
func (h *OrganizationMemberHandler) Remove(c *gin.Context) {
	if err := h.svc.RemoveMember(requestContext(c), c.Param("id"), c.Param("userId")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": true})
}
