package controllers

import (
	"accreditation-audit-api/config"
	"accreditation-audit-api/models"
	"accreditation-audit-api/services"
	"accreditation-audit-api/utils"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetAuditResults lists a session's audit results, creating missing rows
// first so every self-assessment has one.
func GetAuditResults(c *gin.Context) {
	sessionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	if _, err := services.NewAccessService(config.DB).RequireSessionAccess(principal, sessionID); err != nil {
		respondServiceError(c, err)
		return
	}

	results, err := services.NewSyncService(config.DB).EnsureAuditResults(sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}

// UpdateAuditResult saves an auditor's review of one self-assessment. Only
// assigned auditors, only during the auditor-review window.
func UpdateAuditResult(c *gin.Context) {
	resultID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid result ID"})
		return
	}

	type UpdateResultRequest struct {
		Score                *float64 `json:"score"`
		ConditionDescription *string  `json:"condition_description"`
		ConditionCategory    *string  `json:"condition_category"`
		Comment              *string  `json:"comment"`
	}

	var req UpdateResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	result, err := services.NewAuditService(config.DB).UpdateResult(resultID, principal, services.ResultUpdate{
		Score:                req.Score,
		ConditionDescription: req.ConditionDescription,
		ConditionCategory:    req.ConditionCategory,
		Comment:              req.Comment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// CreateAuditNote appends a note to an audit result, optionally as a reply
// to an earlier note.
func CreateAuditNote(c *gin.Context) {
	resultID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid result ID"})
		return
	}

	type CreateNoteRequest struct {
		Note         string `json:"note" binding:"required"`
		ParentNoteID *int   `json:"parent_note_id"`
	}

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	note, err := services.NewAuditService(config.DB).AddNote(resultID, principal, utils.SanitizeInput(req.Note), req.ParentNoteID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"note": note})
}

// GetAuditNotes returns a result's notes in chronological order.
func GetAuditNotes(c *gin.Context) {
	resultID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid result ID"})
		return
	}

	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var result models.AuditResult
	if err := config.DB.Preload("Assessment").First(&result, resultID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Audit result not found"})
		return
	}

	if _, err := services.NewAccessService(config.DB).RequireSessionAccess(principal, result.Assessment.SessionID); err != nil {
		respondServiceError(c, err)
		return
	}

	notes, err := services.NewAuditService(config.DB).ListNotes(resultID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notes": notes,
		"total": len(notes),
	})
}
