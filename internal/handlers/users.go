package handlers

import (
	"mediassist-server/internal/models"
	"mediassist-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler handles user directory requests.
type UserHandler struct {
	Users UserRepository
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users UserRepository) *UserHandler {
	return &UserHandler{Users: users}
}

// GetDoctors lists the doctors a patient can send an intake to.
func (h *UserHandler) GetDoctors(c *gin.Context) {
	doctors, err := h.Users.ListDoctors(c.Request.Context())
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}

	summaries := make([]models.DoctorSummary, len(doctors))
	for i := range doctors {
		summaries[i] = doctors[i].DoctorSummary()
	}

	utils.Success(c, "Doctors fetched successfully", summaries)
}
