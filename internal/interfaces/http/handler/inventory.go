package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/retailcore/backend/internal/application/inventory"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
)

// InventoryHandler handles inventory ledger and adjustment API endpoints
type InventoryHandler struct {
	BaseHandler
	ledgerService     *inventoryapp.LedgerService
	adjustmentService *inventoryapp.AdjustmentService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(ledgerService *inventoryapp.LedgerService, adjustmentService *inventoryapp.AdjustmentService) *InventoryHandler {
	return &InventoryHandler{
		ledgerService:     ledgerService,
		adjustmentService: adjustmentService,
	}
}

// GetRecord godoc
// @ID           getInventoryRecord
// @Summary      Get an inventory record
// @Description  Get the stock record of one product at one branch
// @Tags         inventory
// @Produce      json
// @Param        branch_id path string true "Branch ID" format(uuid)
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=inventoryapp.RecordResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/records/{branch_id}/{product_id} [get]
func (h *InventoryHandler) GetRecord(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	branchID, err := uuid.Parse(c.Param("branch_id"))
	if err != nil {
		h.BadRequest(c, "Invalid branch ID")
		return
	}
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	record, err := h.ledgerService.GetRecord(c.Request.Context(), actor, branchID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// ListRecords godoc
// @ID           listInventoryRecords
// @Summary      List inventory records
// @Description  List stock records with paging and optional filters
// @Tags         inventory
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Param        branch_id query string false "Filter by branch" format(uuid)
// @Param        product_id query string false "Filter by product" format(uuid)
// @Param        low_stock query bool false "Only records at or below their reorder point"
// @Success      200 {object} dto.Response{data=[]inventoryapp.RecordResponse,meta=dto.Meta}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/records [get]
func (h *InventoryHandler) ListRecords(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	var filter inventoryapp.RecordListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	records, total, err := h.ledgerService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, records, total, filter.Page, filter.PageSize)
}

// ListLowStock godoc
// @ID           listLowStockRecords
// @Summary      List low stock records
// @Description  List records at or below their reorder point for a branch
// @Tags         inventory
// @Produce      json
// @Param        branch_id path string true "Branch ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]inventoryapp.RecordResponse,meta=dto.Meta}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/low-stock/{branch_id} [get]
func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	branchID, err := uuid.Parse(c.Param("branch_id"))
	if err != nil {
		h.BadRequest(c, "Invalid branch ID")
		return
	}

	var filter inventoryapp.RecordListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	records, total, err := h.ledgerService.ListLowStock(c.Request.Context(), actor, branchID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, records, total, filter.Page, filter.PageSize)
}

// ListMovements godoc
// @ID           listStockMovements
// @Summary      List stock movements
// @Description  List the append-only movement trail with paging and optional filters
// @Tags         inventory
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Param        branch_id query string false "Filter by branch" format(uuid)
// @Param        product_id query string false "Filter by product" format(uuid)
// @Param        type query string false "Filter by movement type"
// @Param        reference query string false "Filter by document reference"
// @Success      200 {object} dto.Response{data=[]inventoryapp.MovementResponse,meta=dto.Meta}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	var filter inventoryapp.MovementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	movements, total, err := h.ledgerService.ListMovements(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// SetReorderPoint godoc
// @ID           setReorderPoint
// @Summary      Set a record's reorder point
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.SetReorderPointRequest true "Reorder point"
// @Success      200 {object} dto.Response{data=inventoryapp.RecordResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/records/reorder-point [put]
func (h *InventoryHandler) SetReorderPoint(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	var req inventoryapp.SetReorderPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	record, err := h.ledgerService.SetReorderPoint(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// SetBinLocation godoc
// @ID           setBinLocation
// @Summary      Set a record's bin location
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.SetBinLocationRequest true "Bin location"
// @Success      200 {object} dto.Response{data=inventoryapp.RecordResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/records/bin-location [put]
func (h *InventoryHandler) SetBinLocation(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	var req inventoryapp.SetBinLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	record, err := h.ledgerService.SetBinLocation(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// Adjust godoc
// @ID           adjustStock
// @Summary      Post a manual stock correction
// @Description  Increase or decrease on-hand stock with a mandatory reason; every adjustment is audited
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.AdjustRequest true "Adjustment request"
// @Success      201 {object} dto.Response{data=inventoryapp.AdjustmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	var req inventoryapp.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	adjustment, err := h.adjustmentService.Adjust(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, adjustment)
}

// AdjustmentHistory godoc
// @ID           listAdjustmentHistory
// @Summary      List the adjustment history
// @Tags         inventory
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Param        branch_id query string false "Filter by branch" format(uuid)
// @Param        product_id query string false "Filter by product" format(uuid)
// @Param        reason query string false "Filter by reason code"
// @Success      200 {object} dto.Response{data=[]inventoryapp.AdjustmentResponse,meta=dto.Meta}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/adjustments [get]
func (h *InventoryHandler) AdjustmentHistory(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	var filter inventoryapp.AdjustmentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	adjustments, total, err := h.adjustmentService.History(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, adjustments, total, filter.Page, filter.PageSize)
}
