package handler

import (
	"net/http"

	"hospital-management-backend/internal/middleware"
	"hospital-management-backend/internal/service"
	"hospital-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type DoctorHandler struct {
	doctorService *service.DoctorService
}

func NewDoctorHandler(doctorService *service.DoctorService) *DoctorHandler {
	return &DoctorHandler{doctorService: doctorService}
}

func (h *DoctorHandler) Create(c *gin.Context) {
	var req service.DoctorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	doctor, err := h.doctorService.CreateDoctor(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, "Doctor created successfully", doctor)
}

func (h *DoctorHandler) List(c *gin.Context) {
	doctors, err := h.doctorService.GetAllDoctors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.ListResponse(c, doctors)
}
