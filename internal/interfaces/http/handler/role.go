package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/retailcore/backend/internal/application/identity"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
)

// RoleHandler handles role administration API endpoints
type RoleHandler struct {
	BaseHandler
	roleService *identityapp.RoleService
}

// NewRoleHandler creates a new RoleHandler
func NewRoleHandler(roleService *identityapp.RoleService) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
	}
}

// Create godoc
// @ID           createRole
// @Summary      Create a custom role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        request body identityapp.CreateRoleRequest true "Role creation request"
// @Success      201 {object} dto.Response{data=identityapp.RoleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /identity/roles [post]
func (h *RoleHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	var req identityapp.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	role, err := h.roleService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, role)
}

// Update godoc
// @ID           updateRole
// @Summary      Update a role's details
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        id path string true "Role ID" format(uuid)
// @Param        request body identityapp.UpdateRoleRequest true "Role update request"
// @Success      200 {object} dto.Response{data=identityapp.RoleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /identity/roles/{id} [put]
func (h *RoleHandler) Update(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}

	var req identityapp.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	role, err := h.roleService.Update(c.Request.Context(), actor, roleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, role)
}

// SetCapabilities godoc
// @ID           setRoleCapabilities
// @Summary      Replace a role's capability set
// @Description  Users holding the role pick up the new capabilities on their next login
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        id path string true "Role ID" format(uuid)
// @Param        request body identityapp.SetCapabilitiesRequest true "Capability set"
// @Success      200 {object} dto.Response{data=identityapp.RoleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /identity/roles/{id}/capabilities [put]
func (h *RoleHandler) SetCapabilities(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}

	var req identityapp.SetCapabilitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	role, err := h.roleService.SetCapabilities(c.Request.Context(), actor, roleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, role)
}

// Delete godoc
// @ID           deleteRole
// @Summary      Delete a custom role
// @Description  System roles and roles still assigned to users cannot be deleted
// @Tags         roles
// @Produce      json
// @Param        id path string true "Role ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /identity/roles/{id} [delete]
func (h *RoleHandler) Delete(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}

	if err := h.roleService.Delete(c.Request.Context(), actor, roleID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Get godoc
// @ID           getRole
// @Summary      Get a role by ID
// @Tags         roles
// @Produce      json
// @Param        id path string true "Role ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.RoleResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /identity/roles/{id} [get]
func (h *RoleHandler) Get(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}

	role, err := h.roleService.Get(c.Request.Context(), roleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, role)
}

// List godoc
// @ID           listRoles
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Param        search query string false "Search in code and name"
// @Success      200 {object} dto.Response{data=[]identityapp.RoleResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /identity/roles [get]
func (h *RoleHandler) List(c *gin.Context) {
	var filter identityapp.RoleListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	roles, total, err := h.roleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, roles, total, filter.Page, filter.PageSize)
}
