package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	transferapp "github.com/retailcore/backend/internal/application/transfer"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
)

// TransferHandler handles stock transfer API endpoints
type TransferHandler struct {
	BaseHandler
	transferService *transferapp.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transferService *transferapp.TransferService) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
	}
}

// Request godoc
// @ID           requestTransfer
// @Summary      Request a stock transfer
// @Description  Open a branch-to-branch transfer request
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        request body transferapp.RequestTransferRequest true "Transfer request"
// @Success      201 {object} dto.Response{data=transferapp.TransferResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transfers [post]
func (h *TransferHandler) Request(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	var req transferapp.RequestTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	transfer, err := h.transferService.Request(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, transfer)
}

// Approve godoc
// @ID           approveTransfer
// @Summary      Approve a transfer
// @Description  Approve a pending transfer, optionally trimming line quantities
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        id path string true "Transfer ID" format(uuid)
// @Param        request body transferapp.ApproveTransferRequest false "Optional line overrides"
// @Success      200 {object} dto.Response{data=transferapp.TransferResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transfers/{id}/approve [post]
func (h *TransferHandler) Approve(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	// Body is optional on approval
	var req transferapp.ApproveTransferRequest
	_ = c.ShouldBindJSON(&req)

	transfer, err := h.transferService.Approve(c.Request.Context(), actor, transferID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// Reject godoc
// @ID           rejectTransfer
// @Summary      Reject a transfer
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        id path string true "Transfer ID" format(uuid)
// @Param        request body transferapp.RejectTransferRequest true "Rejection reason"
// @Success      200 {object} dto.Response{data=transferapp.TransferResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transfers/{id}/reject [post]
func (h *TransferHandler) Reject(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	var req transferapp.RejectTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	transfer, err := h.transferService.Reject(c.Request.Context(), actor, transferID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// Cancel godoc
// @ID           cancelTransfer
// @Summary      Cancel a transfer
// @Description  Cancel a transfer that has not shipped yet
// @Tags         transfers
// @Produce      json
// @Param        id path string true "Transfer ID" format(uuid)
// @Success      200 {object} dto.Response{data=transferapp.TransferResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	transfer, err := h.transferService.Cancel(c.Request.Context(), actor, transferID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// Ship godoc
// @ID           shipTransfer
// @Summary      Ship a transfer
// @Description  Mark the transfer as shipped; stock leaves the source branch ledger
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        id path string true "Transfer ID" format(uuid)
// @Param        request body transferapp.ShipTransferRequest false "Optional line overrides and notes"
// @Success      200 {object} dto.Response{data=transferapp.TransferResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transfers/{id}/ship [post]
func (h *TransferHandler) Ship(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	// Body is optional on shipping
	var req transferapp.ShipTransferRequest
	_ = c.ShouldBindJSON(&req)

	transfer, err := h.transferService.Ship(c.Request.Context(), actor, transferID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// Receive godoc
// @ID           receiveTransfer
// @Summary      Receive a transfer
// @Description  Mark the transfer as received; stock is booked into the destination branch ledger
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        id path string true "Transfer ID" format(uuid)
// @Param        request body transferapp.ReceiveTransferRequest false "Optional line overrides and notes"
// @Success      200 {object} dto.Response{data=transferapp.TransferResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transfers/{id}/receive [post]
func (h *TransferHandler) Receive(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	// Body is optional on receipt
	var req transferapp.ReceiveTransferRequest
	_ = c.ShouldBindJSON(&req)

	transfer, err := h.transferService.Receive(c.Request.Context(), actor, transferID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// Get godoc
// @ID           getTransfer
// @Summary      Get a transfer by ID
// @Tags         transfers
// @Produce      json
// @Param        id path string true "Transfer ID" format(uuid)
// @Success      200 {object} dto.Response{data=transferapp.TransferResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transfers/{id} [get]
func (h *TransferHandler) Get(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	transfer, err := h.transferService.Get(c.Request.Context(), actor, transferID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// GetByNumber godoc
// @ID           getTransferByNumber
// @Summary      Get a transfer by number
// @Tags         transfers
// @Produce      json
// @Param        number path string true "Transfer number"
// @Success      200 {object} dto.Response{data=transferapp.TransferResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transfers/number/{number} [get]
func (h *TransferHandler) GetByNumber(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	transfer, err := h.transferService.GetByNumber(c.Request.Context(), actor, c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// List godoc
// @ID           listTransfers
// @Summary      List transfers
// @Description  List transfers with paging; direction filters inbound or outbound relative to the branch filter
// @Tags         transfers
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Param        status query string false "Filter by status"
// @Param        priority query string false "Filter by priority"
// @Param        branch_id query string false "Filter by branch" format(uuid)
// @Param        direction query string false "INBOUND or OUTBOUND, relative to branch_id"
// @Success      200 {object} dto.Response{data=[]transferapp.TransferResponse,meta=dto.Meta}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transfers [get]
func (h *TransferHandler) List(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	var filter transferapp.TransferListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	transfers, total, err := h.transferService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, transfers, total, filter.Page, filter.PageSize)
}
