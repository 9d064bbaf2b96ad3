package controllers

import (
	"accreditation-audit-api/config"
	"accreditation-audit-api/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetSessionReport returns the per-criterion score breakdown, fill
// percentage and count-weighted overall score for one session.
func GetSessionReport(c *gin.Context) {
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

	report, err := services.NewScoringService(config.DB).Report(sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// GetCriterionAverage returns one criterion's average and scored-element
// count within a session.
func GetCriterionAverage(c *gin.Context) {
	sessionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}
	criterionID, err := strconv.Atoi(c.Param("criterion_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid criterion ID"})
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

	average, count, err := services.NewScoringService(config.DB).CriterionAverage(sessionID, criterionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"average": average,
		"count":   count,
	})
}
