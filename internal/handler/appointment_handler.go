package handler

import (
	"net/http"

	"hospital-management-backend/internal/middleware"
	"hospital-management-backend/internal/service"
	"hospital-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	appointmentService *service.AppointmentService
}

func NewAppointmentHandler(appointmentService *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

// Book handles POST /appointments
func (h *AppointmentHandler) Book(c *gin.Context) {
	var req service.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	appointment, err := h.appointmentService.BookAppointment(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, "Appointment booked successfully", appointment)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	appointments, err := h.appointmentService.GetAllAppointments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.ListResponse(c, appointments)
}

// TodayCount handles GET /appointments/today-count
func (h *AppointmentHandler) TodayCount(c *gin.Context) {
	count, err := h.appointmentService.CountTodayAppointments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CountResponse(c, count)
}
