package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	salesapp "github.com/retailcore/backend/internal/application/sales"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
)

// SaleHandler handles point-of-sale API endpoints
type SaleHandler struct {
	BaseHandler
	saleService *salesapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *salesapp.SaleService) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
	}
}

// Checkout godoc
// @ID           checkout
// @Summary      Ring up a sale
// @Description  Complete a checkout; stock is deducted atomically for all lines or the sale fails
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        request body salesapp.CheckoutRequest true "Checkout request"
// @Success      201 {object} dto.Response{data=salesapp.SaleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/checkout [post]
func (h *SaleHandler) Checkout(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	var req salesapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	sale, err := h.saleService.Checkout(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sale)
}

// Cancel godoc
// @ID           cancelSale
// @Summary      Cancel a sale
// @Description  Cancel a completed sale; sold quantities are returned to the branch ledger
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Param        request body salesapp.CancelSaleRequest true "Cancellation reason"
// @Success      200 {object} dto.Response{data=salesapp.SaleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	var req salesapp.CancelSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	sale, err := h.saleService.Cancel(c.Request.Context(), actor, saleID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// Get godoc
// @ID           getSale
// @Summary      Get a sale by ID
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {object} dto.Response{data=salesapp.SaleResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.Get(c.Request.Context(), actor, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// GetByNumber godoc
// @ID           getSaleByNumber
// @Summary      Get a sale by number
// @Tags         sales
// @Produce      json
// @Param        number path string true "Sale number"
// @Success      200 {object} dto.Response{data=salesapp.SaleResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/number/{number} [get]
func (h *SaleHandler) GetByNumber(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	sale, err := h.saleService.GetByNumber(c.Request.Context(), actor, c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// List godoc
// @ID           listSales
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Param        status query string false "Filter by status"
// @Param        branch_id query string false "Filter by branch" format(uuid)
// @Param        sold_by query string false "Filter by seller" format(uuid)
// @Param        payment_method query string false "Filter by payment method"
// @Param        from query string false "Sold-at lower bound" format(date-time)
// @Param        to query string false "Sold-at upper bound" format(date-time)
// @Success      200 {object} dto.Response{data=[]salesapp.SaleResponse,meta=dto.Meta}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	var filter salesapp.SaleListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	sales, total, err := h.saleService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, sales, total, filter.Page, filter.PageSize)
}

// DailySummary godoc
// @ID           getDailySummary
// @Summary      Get the daily sales summary
// @Description  Aggregate totals for one branch on one calendar day; defaults to today
// @Tags         sales
// @Produce      json
// @Param        branch_id path string true "Branch ID" format(uuid)
// @Param        date query string false "Calendar day (YYYY-MM-DD)" format(date)
// @Success      200 {object} dto.Response{data=sales.DailySummary}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/summary/{branch_id} [get]
func (h *SaleHandler) DailySummary(c *gin.Context) {
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

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		date, err = time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
	}

	summary, err := h.saleService.DailySummary(c.Request.Context(), actor, branchID, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// Receipt godoc
// @ID           getSaleReceipt
// @Summary      Download a sale receipt
// @Description  Render the receipt for a completed sale as a PDF document
// @Tags         sales
// @Produce      application/pdf
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	pdf, err := h.saleService.RenderReceipt(c.Request.Context(), actor, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="receipt-`+saleID.String()+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
