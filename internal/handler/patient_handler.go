package handler

import (
	"net/http"

	"hospital-management-backend/internal/middleware"
	"hospital-management-backend/internal/service"
	"hospital-management-backend/pkg/logger"
	"hospital-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PatientHandler struct {
	patientService *service.PatientService
	log            *logrus.Entry
}

func NewPatientHandler(patientService *service.PatientService, log *logger.Logger) *PatientHandler {
	return &PatientHandler{
		patientService: patientService,
		log:            log.WithComponent("patient_handler"),
	}
}

// Register handles POST /patients
func (h *PatientHandler) Register(c *gin.Context) {
	var req service.PatientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	patient, err := h.patientService.RegisterPatient(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Patient registered successfully", patient)
}

func (h *PatientHandler) List(c *gin.Context) {
	patients, err := h.patientService.GetAllPatients(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.ListResponse(c, patients)
}

func (h *PatientHandler) Get(c *gin.Context) {
	patient, err := h.patientService.GetPatient(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, patient)
}

// Search handles GET /patients/search?query=
func (h *PatientHandler) Search(c *gin.Context) {
	patients, err := h.patientService.SearchPatients(c.Request.Context(), c.Query("query"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.ListResponse(c, patients)
}

// Update handles PUT /patients/:id, subject to the caller's field policy
func (h *PatientHandler) Update(c *gin.Context) {
	var patch service.PatientPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	patient, err := h.patientService.UpdatePatient(c.Request.Context(), middleware.Actor(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, patient)
}

// DevUpdate applies a patch with Admin capabilities. Only routed outside production.
func (h *PatientHandler) DevUpdate(c *gin.Context) {
	var patch service.PatientPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := c.Param("id")
	h.log.WithFields(logrus.Fields{
		"patient_id": id,
		"fields":     patch.Fields(),
	}).Warn("Applying development patient update")

	patient, err := h.patientService.UpdatePatient(c.Request.Context(), service.SystemActor, id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, patient)
}

func (h *PatientHandler) PendingCount(c *gin.Context) {
	count, err := h.patientService.CountPendingBills(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CountResponse(c, count)
}

func (h *PatientHandler) BillingSummary(c *gin.Context) {
	summary, err := h.patientService.GetBillingSummary(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, summary)
}
