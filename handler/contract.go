package handler

import (
	"net/http"
	"time"

	"github.com/ZaneerahEssop/QUANTIX-sub001/contract"
	"github.com/ZaneerahEssop/QUANTIX-sub001/middleware"
	"github.com/ZaneerahEssop/QUANTIX-sub001/model"
	"github.com/ZaneerahEssop/QUANTIX-sub001/service"
	"github.com/gin-gonic/gin"
)

type ContractHandler struct {
	contracts *service.ContractService
}

func NewContractHandler(contracts *service.ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

type SaveContractRequest struct {
	EventID      string                 `json:"eventId" binding:"required,max=64"`
	VendorID     string                 `json:"vendorId" binding:"required,max=64"`
	Content      string                 `json:"content"`
	Fields       *contract.Fields       `json:"fields"`
	CustomFields []contract.CustomField `json:"customFields" binding:"max=50"`
	Status       model.Status           `json:"status" binding:"omitempty,contract_status"`
}

type SignRequest struct {
	Role      model.Role `json:"role" binding:"omitempty,contract_role"`
	Signature string     `json:"signature" binding:"max=255"`
}

type RevisionBody struct {
	RequestedBy string     `json:"requestedBy" binding:"max=255"`
	Comment     string     `json:"comment" binding:"required,max=4000"`
	Timestamp   *time.Time `json:"timestamp"`
}

// ReviseRequest carries the revision entry and, optionally, the status the
// caller expects the contract to move to.
type ReviseRequest struct {
	Revision RevisionBody `json:"revision"`
	Status   model.Status `json:"status" binding:"omitempty,contract_status"`
}

// GetByPair returns the saved contract for an event and vendor
func (h *ContractHandler) GetByPair(c *gin.Context) {
	rec, err := h.contracts.Get(c.Request.Context(), c.Param("eventId"), c.Param("vendorId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// View returns the resolved document with parsed fields and the caller's permissions
func (h *ContractHandler) View(c *gin.Context) {
	view, err := h.contracts.View(c.Request.Context(), c.Param("eventId"), c.Param("vendorId"), middleware.GetIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Save creates or updates the contract for the pair in the body
func (h *ContractHandler) Save(c *gin.Context) {
	var req SaveContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rec, err := h.contracts.Save(c.Request.Context(), middleware.GetIdentity(c), service.SaveRequest{
		EventID:      req.EventID,
		VendorID:     req.VendorID,
		Content:      req.Content,
		Fields:       req.Fields,
		CustomFields: req.CustomFields,
		Status:       req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Sign applies the caller's signature
func (h *ContractHandler) Sign(c *gin.Context) {
	var req SignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rec, err := h.contracts.Sign(c.Request.Context(), middleware.GetIdentity(c), c.Param("id"), req.Role, req.Signature)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Revise records a planner's revision request
func (h *ContractHandler) Revise(c *gin.Context) {
	var req ReviseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rev := service.RevisionRequest{
		Comment:     req.Revision.Comment,
		RequestedBy: req.Revision.RequestedBy,
		Status:      req.Status,
	}
	if req.Revision.Timestamp != nil {
		rev.Timestamp = req.Revision.Timestamp.UTC()
	}

	rec, err := h.contracts.RequestRevision(c.Request.Context(), middleware.GetIdentity(c), c.Param("id"), rev)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Export renders the contract and returns download links
func (h *ContractHandler) Export(c *gin.Context) {
	res, err := h.contracts.Export(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
