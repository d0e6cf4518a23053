package handler

import (
	"net/http"
	"time"

	"github.com/ZaneerahEssop/QUANTIX-sub001/middleware"
	"github.com/ZaneerahEssop/QUANTIX-sub001/service"
	"github.com/gin-gonic/gin"
)

type DirectoryHandler struct {
	directory *service.DirectoryService
}

func NewDirectoryHandler(directory *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

type CreateEventRequest struct {
	Name      string    `json:"name" binding:"required,max=255"`
	StartTime time.Time `json:"startTime" binding:"required"`
}

type CreateVendorRequest struct {
	BusinessName string `json:"businessName" binding:"required,max=255"`
	ServiceType  string `json:"serviceType" binding:"max=64"`
	Description  string `json:"description" binding:"max=4000"`
}

func (h *DirectoryHandler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	event, err := h.directory.CreateEvent(c.Request.Context(), middleware.GetIdentity(c), req.Name, req.StartTime)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *DirectoryHandler) GetEvent(c *gin.Context) {
	event, err := h.directory.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *DirectoryHandler) CreateVendor(c *gin.Context) {
	var req CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	vendor, err := h.directory.CreateVendor(c.Request.Context(), middleware.GetIdentity(c), req.BusinessName, req.ServiceType, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vendor)
}

func (h *DirectoryHandler) GetVendor(c *gin.Context) {
	vendor, err := h.directory.GetVendor(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}
