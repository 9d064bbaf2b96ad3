package controllers

import (
	"accreditation-audit-api/config"
	"accreditation-audit-api/models"
	"accreditation-audit-api/services"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// GetFollowUpRecommendations lists a session's follow-up recommendations.
func GetFollowUpRecommendations(c *gin.Context) {
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

	recommendations, err := services.NewAuditService(config.DB).ListRecommendations(sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recommendations,
		"total":           len(recommendations),
	})
}

// CreateFollowUpRecommendation attaches a remediation action to an audit
// result (assigned auditors only).
func CreateFollowUpRecommendation(c *gin.Context) {
	resultID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid result ID"})
		return
	}

	type CreateRecommendationRequest struct {
		Description string `json:"description" binding:"required"`
		Priority    string `json:"priority"`
		DueDate     string `json:"due_date" binding:"required"`
	}

	var req CreateRecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date, expected YYYY-MM-DD"})
		return
	}

	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	recommendation := models.FollowUpRecommendation{
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     dueDate,
	}

	if err := services.NewAuditService(config.DB).CreateRecommendation(resultID, principal, &recommendation); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recommendation": recommendation})
}

// UpdateFollowUpStatus lets the program coordinator progress a follow-up
// and optionally attach completion evidence as a multipart upload.
func UpdateFollowUpStatus(c *gin.Context) {
	recommendationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recommendation ID"})
		return
	}

	status := strings.TrimSpace(c.PostForm("status"))
	if status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var evidencePath *string
	if _, err := c.FormFile("evidence"); err == nil {
		stored, _, err := saveUploadedFile(c, "evidence", "follow_up_evidence")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		evidencePath = &stored
	}

	recommendation, err := services.NewAuditService(config.DB).
		UpdateRecommendationStatus(recommendationID, principal, status, evidencePath)
	if err != nil {
		if evidencePath != nil {
			os.Remove(*evidencePath)
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendation": recommendation})
}
