package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clinicbook/api/internal/models"
	"clinicbook/api/internal/service"
)

// Every endpoint answers with the same envelope so clients can branch on
// success without inspecting status codes.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func ok(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

// fail maps a service error to its HTTP category. Unknown errors are logged
// and answered with a generic message only.
func (h HandlerSet) fail(c *gin.Context, err error) {
	var status int
	message := err.Error()

	switch {
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrSlotTaken),
		errors.Is(err, service.ErrDoctorBooked):
		status = http.StatusConflict
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
		message = "server error"
		h.log.Error().Err(err).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.Writer.Header().Get("X-Request-Id")).
			Msg("request failed")
	}

	c.JSON(status, envelope{Success: false, Message: message})
}

func (h HandlerSet) failValidation(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, envelope{Success: false, Message: message})
}

type userResponse struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	Role           string  `json:"role"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          *string `json:"phone,omitempty"`
	Specialization *string `json:"specialization,omitempty"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Username:       u.Username,
		Role:           string(u.Role),
		Name:           u.Name,
		Email:          u.Email,
		Phone:          u.Phone,
		Specialization: u.Specialization,
	}
}

type participantResponse struct {
	Name           string  `json:"name"`
	Email          string  `json:"email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Specialization *string `json:"specialization,omitempty"`
}

type appointmentResponse struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	DoctorID  string    `json:"doctorId"`
	Date      string    `json:"date"`
	TimeSlot  string    `json:"timeSlot"`
	Status    string    `json:"status"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	Patient *participantResponse `json:"patient,omitempty"`
	Doctor  *participantResponse `json:"doctor,omitempty"`
}

func toAppointmentResponse(a models.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:        a.ID,
		PatientID: a.PatientID,
		DoctorID:  a.DoctorID,
		Date:      a.Date.Format(time.DateOnly),
		TimeSlot:  a.TimeSlot,
		Status:    string(a.Status),
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt,
	}
}

func toAppointmentDetailResponse(d models.AppointmentDetail) appointmentResponse {
	resp := toAppointmentResponse(d.Appointment)
	if d.PatientResolved {
		resp.Patient = &participantResponse{
			Name:  d.PatientName,
			Email: d.PatientEmail,
			Phone: d.PatientPhone,
		}
	}
	if d.DoctorResolved {
		resp.Doctor = &participantResponse{
			Name:           d.DoctorName,
			Specialization: d.DoctorSpecialization,
		}
	}
	return resp
}

func toAppointmentDetailResponses(details []models.AppointmentDetail) []appointmentResponse {
	out := make([]appointmentResponse, 0, len(details))
	for _, d := range details {
		out = append(out, toAppointmentDetailResponse(d))
	}
	return out
}
