package controllers

import (
	"accreditation-audit-api/config"
	"accreditation-audit-api/models"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GetPrograms lists programs ordered by code, optionally filtered by
// accrediting body or faculty.
func GetPrograms(c *gin.Context) {
	query := config.DB.Preload("Body").Order("code")

	if bodyID := c.Query("body_id"); bodyID != "" {
		query = query.Where("body_id = ?", bodyID)
	}
	if faculty := c.Query("faculty"); faculty != "" {
		query = query.Where("faculty = ?", faculty)
	}

	var programs []models.Program
	if err := query.Find(&programs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch programs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"programs": programs,
		"total":    len(programs),
	})
}

// GetProgram returns one program with its audit sessions.
func GetProgram(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid program ID"})
		return
	}

	var program models.Program
	if err := config.DB.Preload("Body").First(&program, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		return
	}

	var sessions []models.AuditSession
	if err := config.DB.Where("program_id = ?", id).
		Order("academic_year DESC, semester DESC").
		Find(&sessions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"program":  program,
		"sessions": sessions,
	})
}

// CreateProgram creates a new program (admin only).
func CreateProgram(c *gin.Context) {
	type CreateProgramRequest struct {
		BodyID             int     `json:"body_id" binding:"required"`
		Code               string  `json:"code" binding:"required"`
		Name               string  `json:"name" binding:"required"`
		Faculty            string  `json:"faculty" binding:"required"`
		DegreeLevel        string  `json:"degree_level" binding:"required"`
		AccreditationGrade *string `json:"accreditation_grade"`
		AccreditationDate  *string `json:"accreditation_date"`
	}

	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body models.AccreditingBody
	if err := config.DB.First(&body, req.BodyID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Accrediting body not found"})
		return
	}

	var existing int64
	config.DB.Model(&models.Program{}).Where("code = ?", req.Code).Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Program code already exists"})
		return
	}

	program := models.Program{
		BodyID:             req.BodyID,
		Code:               req.Code,
		Name:               req.Name,
		Faculty:            req.Faculty,
		DegreeLevel:        req.DegreeLevel,
		AccreditationGrade: req.AccreditationGrade,
	}

	if req.AccreditationDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.AccreditationDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid accreditation date, expected YYYY-MM-DD"})
			return
		}
		program.AccreditationDate = &parsed
	}

	if err := config.DB.Create(&program).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create program"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"program": program})
}

// UpdateProgram updates program fields (admin only). The accrediting body
// reference is immutable once set.
func UpdateProgram(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid program ID"})
		return
	}

	var program models.Program
	if err := config.DB.First(&program, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		return
	}

	type UpdateProgramRequest struct {
		Name               *string `json:"name"`
		Faculty            *string `json:"faculty"`
		DegreeLevel        *string `json:"degree_level"`
		AccreditationGrade *string `json:"accreditation_grade"`
		AccreditationDate  *string `json:"accreditation_date"`
	}

	var req UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		program.Name = *req.Name
	}
	if req.Faculty != nil {
		program.Faculty = *req.Faculty
	}
	if req.DegreeLevel != nil {
		program.DegreeLevel = *req.DegreeLevel
	}
	if req.AccreditationGrade != nil {
		program.AccreditationGrade = req.AccreditationGrade
	}
	if req.AccreditationDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.AccreditationDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid accreditation date, expected YYYY-MM-DD"})
			return
		}
		program.AccreditationDate = &parsed
	}

	if err := config.DB.Save(&program).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update program"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"program": program})
}

// DeleteProgram removes a program (admin only). Blocked while audit
// sessions exist for it.
func DeleteProgram(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid program ID"})
		return
	}

	var program models.Program
	if err := config.DB.First(&program, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		return
	}

	var sessions int64
	config.DB.Model(&models.AuditSession{}).Where("program_id = ?", id).Count(&sessions)
	if sessions > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete a program with audit sessions"})
		return
	}

	if err := config.DB.Delete(&program).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete program"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Program deleted"})
}
