package handlers

import (
	"github.com/gin-gonic/gin"

	"clinicbook/api/internal/service"
)

func (h HandlerSet) ListDoctors(c *gin.Context) {
	h.listDoctors(c, "")
}

func (h HandlerSet) ListDoctorsBySpecialization(c *gin.Context) {
	h.listDoctors(c, c.Param("specialization"))
}

func (h HandlerSet) listDoctors(c *gin.Context, specialization string) {
	doctors, err := h.directory.ListDoctors(c.Request.Context(), specialization)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]userResponse, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, toUserResponse(d))
	}
	ok(c, "", out)
}

func (h HandlerSet) ListSpecializations(c *gin.Context) {
	specializations, err := h.directory.Specializations(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if specializations == nil {
		specializations = []string{}
	}
	ok(c, "", specializations)
}

type createDoctorRequest struct {
	Username       string  `json:"username" binding:"required"`
	Password       string  `json:"password" binding:"required"`
	Name           string  `json:"name" binding:"required"`
	Email          string  `json:"email" binding:"required,email"`
	Phone          *string `json:"phone"`
	Specialization string  `json:"specialization" binding:"required"`
}

func (h HandlerSet) CreateDoctor(c *gin.Context) {
	var req createDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failValidation(c, "all fields are required")
		return
	}

	doctor, err := h.directory.CreateDoctor(c.Request.Context(), service.CreateDoctorInput{
		Username:       req.Username,
		Password:       req.Password,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Specialization: req.Specialization,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, "doctor added successfully", toUserResponse(doctor))
}

type updateDoctorRequest struct {
	Name           string  `json:"name" binding:"required"`
	Email          string  `json:"email" binding:"required,email"`
	Phone          *string `json:"phone"`
	Specialization *string `json:"specialization"`
}

func (h HandlerSet) UpdateDoctor(c *gin.Context) {
	var req updateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failValidation(c, "name and email are required")
		return
	}

	doctor, err := h.directory.UpdateDoctor(c.Request.Context(), c.Param("id"), service.UpdateDoctorInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Specialization: req.Specialization,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, "doctor updated successfully", toUserResponse(doctor))
}

func (h HandlerSet) DeleteDoctor(c *gin.Context) {
	if err := h.directory.DeleteDoctor(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	ok(c, "doctor deleted successfully", nil)
}
