package controllers

import (
	"accreditation-audit-api/config"
	"accreditation-audit-api/models"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetCoordinators lists coordinators ordered by full name.
func GetCoordinators(c *gin.Context) {
	var coordinators []models.Coordinator
	if err := config.DB.Preload("User").Preload("Program").
		Order("full_name").Find(&coordinators).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch coordinators"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"coordinators": coordinators,
		"total":        len(coordinators),
	})
}

// CreateCoordinator registers a coordinator record for an existing user
// (admin only). A user is never both coordinator and auditor.
func CreateCoordinator(c *gin.Context) {
	type CreateCoordinatorRequest struct {
		UserID             int    `json:"user_id" binding:"required"`
		RegistrationNumber string `json:"registration_number" binding:"required"`
		FullName           string `json:"full_name" binding:"required"`
		ProgramID          *int   `json:"program_id"`
	}

	var req CreateCoordinatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", req.UserID).First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
		return
	}

	var auditors int64
	config.DB.Model(&models.Auditor{}).Where("user_id = ?", req.UserID).Count(&auditors)
	if auditors > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is already an auditor"})
		return
	}

	if req.ProgramID != nil {
		var program models.Program
		if err := config.DB.First(&program, *req.ProgramID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Program not found"})
			return
		}
	}

	coordinator := models.Coordinator{
		UserID:             req.UserID,
		RegistrationNumber: req.RegistrationNumber,
		FullName:           req.FullName,
		ProgramID:          req.ProgramID,
	}

	if err := config.DB.Create(&coordinator).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create coordinator"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"coordinator": coordinator})
}

// UpdateCoordinator updates coordinator fields, including moving the
// program link (admin only).
func UpdateCoordinator(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coordinator ID"})
		return
	}

	var coordinator models.Coordinator
	if err := config.DB.First(&coordinator, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Coordinator not found"})
		return
	}

	type UpdateCoordinatorRequest struct {
		FullName  *string `json:"full_name"`
		ProgramID *int    `json:"program_id"`
	}

	var req UpdateCoordinatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.FullName != nil {
		coordinator.FullName = *req.FullName
	}
	if req.ProgramID != nil {
		var program models.Program
		if err := config.DB.First(&program, *req.ProgramID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Program not found"})
			return
		}
		coordinator.ProgramID = req.ProgramID
	}

	if err := config.DB.Save(&coordinator).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update coordinator"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"coordinator": coordinator})
}
