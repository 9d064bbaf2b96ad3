package controllers

import (
	"accreditation-audit-api/config"
	"accreditation-audit-api/models"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetAuditors lists auditors ordered by full name.
func GetAuditors(c *gin.Context) {
	query := config.DB.Preload("User").Order("full_name")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var auditors []models.Auditor
	if err := query.Find(&auditors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch auditors"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"auditors": auditors,
		"total":    len(auditors),
	})
}

// CreateAuditor registers an auditor record for an existing user (admin
// only). A user may hold at most one of the coordinator/auditor records.
func CreateAuditor(c *gin.Context) {
	type CreateAuditorRequest struct {
		UserID             int     `json:"user_id" binding:"required"`
		RegistrationNumber string  `json:"registration_number" binding:"required"`
		FullName           string  `json:"full_name" binding:"required"`
		Position           *string `json:"position"`
		Unit               *string `json:"unit"`
		IsLeadAuditor      bool    `json:"is_lead_auditor"`
	}

	var req CreateAuditorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", req.UserID).First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
		return
	}

	var coordinators int64
	config.DB.Model(&models.Coordinator{}).Where("user_id = ?", req.UserID).Count(&coordinators)
	if coordinators > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is already a program coordinator"})
		return
	}

	auditor := models.Auditor{
		UserID:             req.UserID,
		RegistrationNumber: req.RegistrationNumber,
		FullName:           req.FullName,
		Position:           req.Position,
		Unit:               req.Unit,
		IsLeadAuditor:      req.IsLeadAuditor,
		Status:             models.AuditorStatusActive,
	}

	if err := config.DB.Create(&auditor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create auditor"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"auditor": auditor})
}

// UpdateAuditor updates auditor fields (admin only).
func UpdateAuditor(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid auditor ID"})
		return
	}

	var auditor models.Auditor
	if err := config.DB.First(&auditor, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Auditor not found"})
		return
	}

	type UpdateAuditorRequest struct {
		FullName      *string `json:"full_name"`
		Position      *string `json:"position"`
		Unit          *string `json:"unit"`
		IsLeadAuditor *bool   `json:"is_lead_auditor"`
		Status        *string `json:"status"`
	}

	var req UpdateAuditorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.FullName != nil {
		auditor.FullName = *req.FullName
	}
	if req.Position != nil {
		auditor.Position = req.Position
	}
	if req.Unit != nil {
		auditor.Unit = req.Unit
	}
	if req.IsLeadAuditor != nil {
		auditor.IsLeadAuditor = *req.IsLeadAuditor
	}
	if req.Status != nil {
		if *req.Status != models.AuditorStatusActive && *req.Status != models.AuditorStatusInactive {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be active or inactive"})
			return
		}
		auditor.Status = *req.Status
	}

	if err := config.DB.Save(&auditor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update auditor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"auditor": auditor})
}
