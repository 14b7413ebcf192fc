package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appointmentRepo "medibook/database/repository/appointment"
	"medibook/middleware"
)

// AppointmentHandler serves a patient's confirmed appointments.
type AppointmentHandler struct {
	Appointments appointmentRepo.AppointmentRepository
	Logger       *zap.Logger
}

func NewAppointmentHandler(repo appointmentRepo.AppointmentRepository, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{Appointments: repo, Logger: logger}
}

// ListMine returns every appointment booked by the authenticated patient,
// most recent first.
func (h *AppointmentHandler) ListMine(c *gin.Context) {
	patient, ok := middleware.PatientFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	appointments, err := h.Appointments.GetByPatient(patient.PatientID)
	if err != nil {
		h.Logger.Error("failed to list appointments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch appointments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

// Cancel marks one of the patient's own appointments as cancelled.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	patient, ok := middleware.PatientFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	id := c.Param("appointmentID")
	appointment, err := h.Appointments.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "appointment not found"})
		return
	}
	if appointment.PatientID != patient.PatientID {
		c.JSON(http.StatusForbidden, gin.H{"error": "appointment belongs to another patient"})
		return
	}
	if appointment.Status == appointmentRepo.StatusCancelled {
		c.JSON(http.StatusOK, gin.H{"message": "appointment already cancelled"})
		return
	}

	if err := h.Appointments.Cancel(id); err != nil {
		h.Logger.Error("failed to cancel appointment", zap.String("appointmentID", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel appointment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "appointment cancelled"})
}
