package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medibook/models"
	"medibook/services/booking"
	"medibook/utils"
)

// DoctorHandler serves the doctor directory.
type DoctorHandler struct {
	Svc    booking.DirectoryService
	Logger *zap.Logger
}

func NewDoctorHandler(svc booking.DirectoryService, logger *zap.Logger) *DoctorHandler {
	return &DoctorHandler{Svc: svc, Logger: logger}
}

// ListDoctors returns doctors matching the query, specialty, and branch
// filters. All filters are optional; "all" means no restriction.
func (h *DoctorHandler) ListDoctors(c *gin.Context) {
	var filter models.DoctorFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter", "details": err.Error()})
		return
	}

	doctors, err := h.Svc.ListDoctors(filter)
	if err != nil {
		h.Logger.Error("failed to list doctors", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch doctors", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctors": doctors})
}
