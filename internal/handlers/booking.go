package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"clinicbook/api/internal/models"
	"clinicbook/api/internal/service"
)

func (h HandlerSet) AvailableSlots(c *gin.Context) {
	date, err := time.Parse(time.DateOnly, c.Param("date"))
	if err != nil {
		h.failValidation(c, "date must be YYYY-MM-DD")
		return
	}

	slots, err := h.booking.AvailableSlots(c.Request.Context(), c.Param("doctorId"), date)
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, "", slots)
}

type createAppointmentRequest struct {
	DoctorID string  `json:"doctorId" binding:"required"`
	Date     string  `json:"date" binding:"required"`
	TimeSlot string  `json:"timeSlot" binding:"required"`
	Notes    *string `json:"notes"`
}

func (h HandlerSet) CreateAppointment(c *gin.Context) {
	session, okSession := h.sessionOrAbort(c)
	if !okSession {
		return
	}

	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failValidation(c, "doctorId, date and timeSlot are required")
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		h.failValidation(c, "date must be YYYY-MM-DD")
		return
	}

	appointment, err := h.booking.Book(c.Request.Context(), session.UserID, service.BookingInput{
		DoctorID: req.DoctorID,
		Date:     date,
		TimeSlot: req.TimeSlot,
		Notes:    req.Notes,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, "appointment booked", toAppointmentResponse(appointment))
}

func (h HandlerSet) MyAppointments(c *gin.Context) {
	session, okSession := h.sessionOrAbort(c)
	if !okSession {
		return
	}

	details, err := h.booking.ListForPatient(c.Request.Context(), session.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, "", toAppointmentDetailResponses(details))
}

func (h HandlerSet) DoctorAppointments(c *gin.Context) {
	session, okSession := h.sessionOrAbort(c)
	if !okSession {
		return
	}

	details, err := h.booking.ListForDoctor(c.Request.Context(), session.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, "", toAppointmentDetailResponses(details))
}

func (h HandlerSet) ListAppointments(c *gin.Context) {
	details, err := h.booking.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, "", toAppointmentDetailResponses(details))
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h HandlerSet) UpdateAppointmentStatus(c *gin.Context) {
	session, okSession := h.sessionOrAbort(c)
	if !okSession {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failValidation(c, "status is required")
		return
	}

	appointment, err := h.booking.Transition(
		c.Request.Context(),
		c.Param("id"),
		models.AppointmentStatus(req.Status),
		session.UserID,
	)
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, "appointment status updated", toAppointmentResponse(appointment))
}
