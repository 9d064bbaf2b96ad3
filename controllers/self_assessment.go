package controllers

import (
	"accreditation-audit-api/config"
	"accreditation-audit-api/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetSelfAssessments lists a session's self-assessments grouped by
// criterion order, reconciling missing rows first.
func GetSelfAssessments(c *gin.Context) {
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

	assessments, err := services.NewSyncService(config.DB).EnsureAssessments(sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assessments": assessments,
		"total":       len(assessments),
	})
}

// UpdateSelfAssessment saves a coordinator's score, evidence URL and
// comment for one element. Only allowed during the self-assessment phase.
func UpdateSelfAssessment(c *gin.Context) {
	assessmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assessment ID"})
		return
	}

	type UpdateAssessmentRequest struct {
		Score       *float64 `json:"score"`
		EvidenceURL *string  `json:"evidence_url"`
		Comment     *string  `json:"comment"`
	}

	var req UpdateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	assessment, err := services.NewAssessmentService(config.DB).UpdateAssessment(assessmentID, principal, services.AssessmentUpdate{
		Score:       req.Score,
		EvidenceURL: req.EvidenceURL,
		Comment:     req.Comment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assessment": assessment})
}
