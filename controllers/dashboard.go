package controllers

import (
	"accreditation-audit-api/config"
	"accreditation-audit-api/models"
	"accreditation-audit-api/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats returns totals, the latest sessions and the
// per-criterion averages of the most recent session.
func GetDashboardStats(c *gin.Context) {
	var totalPrograms, totalSessions, totalAssessments, totalResults int64

	config.DB.Model(&models.Program{}).Count(&totalPrograms)
	config.DB.Model(&models.AuditSession{}).Count(&totalSessions)
	config.DB.Model(&models.SelfAssessment{}).Count(&totalAssessments)
	config.DB.Model(&models.AuditResult{}).Count(&totalResults)

	var latestSessions []models.AuditSession
	if err := config.DB.Preload("Program").
		Order("self_assessment_start DESC").
		Limit(5).
		Find(&latestSessions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch latest sessions"})
		return
	}

	response := gin.H{
		"total_programs":    totalPrograms,
		"total_sessions":    totalSessions,
		"total_assessments": totalAssessments,
		"total_results":     totalResults,
		"latest_sessions":   latestSessions,
	}

	// Chart data: criterion averages of the most recent session.
	if len(latestSessions) > 0 {
		report, err := services.NewScoringService(config.DB).Report(latestSessions[0].SessionID)
		if err == nil {
			response["criterion_chart"] = report.Criteria
		}
	}

	c.JSON(http.StatusOK, response)
}
