package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/retailcore/backend/internal/application/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
)

// BranchHandler handles branch API endpoints
type BranchHandler struct {
	BaseHandler
	branchService *partnerapp.BranchService
}

// NewBranchHandler creates a new BranchHandler
func NewBranchHandler(branchService *partnerapp.BranchService) *BranchHandler {
	return &BranchHandler{
		branchService: branchService,
	}
}

// Create godoc
// @ID           createBranch
// @Summary      Create a branch
// @Tags         branches
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateBranchRequest true "Branch creation request"
// @Success      201 {object} dto.Response{data=partnerapp.BranchResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partner/branches [post]
func (h *BranchHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	var req partnerapp.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	branch, err := h.branchService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, branch)
}

// Update godoc
// @ID           updateBranch
// @Summary      Update a branch
// @Tags         branches
// @Accept       json
// @Produce      json
// @Param        id path string true "Branch ID" format(uuid)
// @Param        request body partnerapp.UpdateBranchRequest true "Branch update request"
// @Success      200 {object} dto.Response{data=partnerapp.BranchResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partner/branches/{id} [put]
func (h *BranchHandler) Update(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	branchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid branch ID")
		return
	}

	var req partnerapp.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	branch, err := h.branchService.Update(c.Request.Context(), actor, branchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, branch)
}

// AssignManager godoc
// @ID           assignBranchManager
// @Summary      Assign a branch manager
// @Tags         branches
// @Accept       json
// @Produce      json
// @Param        id path string true "Branch ID" format(uuid)
// @Param        request body partnerapp.AssignManagerRequest true "Manager assignment"
// @Success      200 {object} dto.Response{data=partnerapp.BranchResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partner/branches/{id}/manager [put]
func (h *BranchHandler) AssignManager(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	branchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid branch ID")
		return
	}

	var req partnerapp.AssignManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	branch, err := h.branchService.AssignManager(c.Request.Context(), actor, branchID, req.ManagerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, branch)
}

// Activate godoc
// @ID           activateBranch
// @Summary      Activate a branch
// @Tags         branches
// @Produce      json
// @Param        id path string true "Branch ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.BranchResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partner/branches/{id}/activate [post]
func (h *BranchHandler) Activate(c *gin.Context) {
	h.mutate(c, h.branchService.Activate)
}

// Deactivate godoc
// @ID           deactivateBranch
// @Summary      Deactivate a branch
// @Description  Deactivated branches reject new documents but keep their history
// @Tags         branches
// @Produce      json
// @Param        id path string true "Branch ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.BranchResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partner/branches/{id}/deactivate [post]
func (h *BranchHandler) Deactivate(c *gin.Context) {
	h.mutate(c, h.branchService.Deactivate)
}

// Get godoc
// @ID           getBranch
// @Summary      Get a branch by ID
// @Tags         branches
// @Produce      json
// @Param        id path string true "Branch ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.BranchResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partner/branches/{id} [get]
func (h *BranchHandler) Get(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid branch ID")
		return
	}

	branch, err := h.branchService.Get(c.Request.Context(), branchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, branch)
}

// List godoc
// @ID           listBranches
// @Summary      List branches
// @Tags         branches
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Param        search query string false "Search in code and name"
// @Param        active query bool false "Filter by active flag"
// @Success      200 {object} dto.Response{data=[]partnerapp.BranchResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /partner/branches [get]
func (h *BranchHandler) List(c *gin.Context) {
	var filter partnerapp.BranchListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	branches, total, err := h.branchService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, branches, total, filter.Page, filter.PageSize)
}

// mutate runs a single-ID branch state change
func (h *BranchHandler) mutate(c *gin.Context, fn func(context.Context, shared.Actor, uuid.UUID) (*partnerapp.BranchResponse, error)) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	branchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid branch ID")
		return
	}

	branch, err := fn(c.Request.Context(), actor, branchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, branch)
}
