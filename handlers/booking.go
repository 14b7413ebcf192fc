package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medibook/middleware"
	"medibook/services/booking"
)

// BookingHandler exposes the booking wizard over HTTP. Every route below
// /api/booking operates on a session owned by the authenticated patient.
type BookingHandler struct {
	Svc    booking.BookingSessionService
	Logger *zap.Logger
}

func NewBookingHandler(svc booking.BookingSessionService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, Logger: logger}
}

// StartSession creates a fresh booking session for the authenticated patient.
func (h *BookingHandler) StartSession(c *gin.Context) {
	patient, ok := middleware.PatientFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	session, err := h.Svc.InitiateSession(patient)
	if err != nil {
		h.Logger.Error("failed to initiate booking session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start booking session"})
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetSession returns the current session state.
func (h *BookingHandler) GetSession(c *gin.Context) {
	session, err := h.Svc.GetSession(c.Param("sessionID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectDoctor sets the chosen doctor and kicks off slot resolution.
func (h *BookingHandler) SelectDoctor(c *gin.Context) {
	var input struct {
		DoctorID string `json:"doctorID" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Svc.SelectDoctor(c.Param("sessionID"), input.DoctorID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectDate sets the appointment date and kicks off slot resolution.
func (h *BookingHandler) SelectDate(c *gin.Context) {
	var input struct {
		Date string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Svc.SelectDate(c.Param("sessionID"), input.Date)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectTime sets the appointment time slot.
func (h *BookingHandler) SelectTime(c *gin.Context) {
	var input struct {
		Time string `json:"time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Svc.SelectTime(c.Param("sessionID"), input.Time)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// UpdateDetails updates appointment type, reason, or toggles a special
// requirement. Omitted fields are left untouched.
func (h *BookingHandler) UpdateDetails(c *gin.Context) {
	var input booking.DetailsUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Svc.UpdateDetails(c.Param("sessionID"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Next advances the wizard one step if the current step's guard passes.
func (h *BookingHandler) Next(c *gin.Context) {
	session, err := h.Svc.Next(c.Param("sessionID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Back returns the wizard to the previous step without discarding any
// entered data.
func (h *BookingHandler) Back(c *gin.Context) {
	session, err := h.Svc.Back(c.Param("sessionID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Availability returns the current slot availability state. While a
// resolution is in flight it reports loading=true; clients poll.
func (h *BookingHandler) Availability(c *gin.Context) {
	availability, err := h.Svc.Availability(c.Param("sessionID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, availability)
}

// Summary returns the read-only confirmation projection of the draft.
func (h *BookingHandler) Summary(c *gin.Context) {
	summary, err := h.Svc.Summary(c.Param("sessionID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Confirm submits the draft as a definitive appointment. On failure the
// session and its draft survive so the patient can retry.
func (h *BookingHandler) Confirm(c *gin.Context) {
	appointment, err := h.Svc.Confirm(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appointment})
}

// CancelSession discards the session and its draft.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	if err := h.Svc.CancelSession(c.Param("sessionID")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking session cancelled"})
}

func (h *BookingHandler) respondError(c *gin.Context, err error) {
	code := booking.ErrorCode(err)
	status := http.StatusInternalServerError
	switch code {
	case booking.CodeSessionNotFound:
		status = http.StatusNotFound
	// A failed submission (usually a write-time slot conflict) is
	// client-resolvable: pick another slot and retry.
	case booking.CodeGuard, booking.CodeSlot, booking.CodeSubmit:
		status = http.StatusConflict
	case booking.CodeInvalidInput:
		status = http.StatusBadRequest
	default:
		h.Logger.Error("unexpected booking error", zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
