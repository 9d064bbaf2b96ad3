package controllers

import (
	"accreditation-audit-api/config"
	"accreditation-audit-api/models"
	"accreditation-audit-api/services"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GetAuditSessions lists audit sessions, optionally filtered by program.
// Non-admin callers only see sessions they can access.
func GetAuditSessions(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Program").Preload("LeadAuditor").
		Order("academic_year DESC, semester DESC")

	if programID := c.Query("program_id"); programID != "" {
		query = query.Where("program_id = ?", programID)
	}

	var sessions []models.AuditSession
	if err := query.Find(&sessions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit sessions"})
		return
	}

	access := services.NewAccessService(config.DB)
	visible := make([]models.AuditSession, 0, len(sessions))
	for i := range sessions {
		allowed, err := access.CanAccessSession(principal, &sessions[i])
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
			return
		}
		if allowed {
			visible = append(visible, sessions[i])
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": visible,
		"total":    len(visible),
	})
}

// GetAuditSession returns one session with its assessments. Reading a
// session re-evaluates the date-driven lifecycle and reconciles the
// assessment rows against the current element catalog.
func GetAuditSession(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	access := services.NewAccessService(config.DB)
	session, err := access.RequireSessionAccess(principal, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if _, err := services.NewLifecycleService(config.DB).AdvanceLifecycle(id); err != nil {
		respondServiceError(c, err)
		return
	}

	assessments, err := services.NewSyncService(config.DB).EnsureAssessments(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Reload after the lifecycle evaluation so the response reflects any
	// transition it applied.
	if err := config.DB.Preload("Program").Preload("LeadAuditor").Preload("MemberAuditors").
		First(session, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}

	scored := 0
	for _, a := range assessments {
		if a.Score != nil {
			scored++
		}
	}
	filledPercent := 0.0
	if len(assessments) > 0 {
		filledPercent = float64(scored) / float64(len(assessments)) * 100
	}

	c.JSON(http.StatusOK, gin.H{
		"session":        session,
		"assessments":    assessments,
		"total_elements": len(assessments),
		"scored":         scored,
		"filled_percent": filledPercent,
	})
}

// CreateAuditSession creates a session for a program (admin only). Unique
// per (program, academic year, semester).
func CreateAuditSession(c *gin.Context) {
	type CreateSessionRequest struct {
		ProgramID           int     `json:"program_id" binding:"required"`
		AcademicYear        string  `json:"academic_year" binding:"required"`
		Semester            string  `json:"semester" binding:"required"`
		SelfAssessmentStart *string `json:"self_assessment_start"`
		SelfAssessmentEnd   *string `json:"self_assessment_end"`
		AuditorReviewStart  *string `json:"auditor_review_start"`
		AuditorReviewEnd    *string `json:"auditor_review_end"`
		LeadAuditorID       *int    `json:"lead_auditor_id"`
		MemberAuditorIDs    []int   `json:"member_auditor_ids"`
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Semester != models.SemesterOdd && req.Semester != models.SemesterEven {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Semester must be odd or even"})
		return
	}

	var program models.Program
	if err := config.DB.First(&program, req.ProgramID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Program not found"})
		return
	}

	var existing int64
	config.DB.Model(&models.AuditSession{}).
		Where("program_id = ? AND academic_year = ? AND semester = ?",
			req.ProgramID, req.AcademicYear, req.Semester).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An audit session already exists for this program and term"})
		return
	}

	session := models.AuditSession{
		ProgramID:     req.ProgramID,
		AcademicYear:  req.AcademicYear,
		Semester:      req.Semester,
		Status:        models.SessionStatusDraft,
		LeadAuditorID: req.LeadAuditorID,
	}

	dates := []struct {
		value  *string
		target **time.Time
		name   string
	}{
		{req.SelfAssessmentStart, &session.SelfAssessmentStart, "self_assessment_start"},
		{req.SelfAssessmentEnd, &session.SelfAssessmentEnd, "self_assessment_end"},
		{req.AuditorReviewStart, &session.AuditorReviewStart, "auditor_review_start"},
		{req.AuditorReviewEnd, &session.AuditorReviewEnd, "auditor_review_end"},
	}
	for _, d := range dates {
		if d.value == nil {
			continue
		}
		parsed, err := time.Parse("2006-01-02", *d.value)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + d.name + ", expected YYYY-MM-DD"})
			return
		}
		*d.target = &parsed
	}

	if req.LeadAuditorID != nil {
		var lead models.Auditor
		if err := config.DB.Where("auditor_id = ? AND status = ?", *req.LeadAuditorID, models.AuditorStatusActive).
			First(&lead).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Lead auditor not found or inactive"})
			return
		}
	}

	if len(req.MemberAuditorIDs) > 0 {
		var members []models.Auditor
		if err := config.DB.Where("auditor_id IN ?", req.MemberAuditorIDs).Find(&members).Error; err != nil ||
			len(members) != len(req.MemberAuditorIDs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "One or more member auditors not found"})
			return
		}
		session.MemberAuditors = members
	}

	if err := config.DB.Create(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create audit session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// UpdateAuditSession updates phase dates and auditor assignments (admin
// only). Status is never set directly here; it moves via the lifecycle
// machine or the explicit submit action.
func UpdateAuditSession(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	var session models.AuditSession
	if err := config.DB.First(&session, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Audit session not found"})
		return
	}

	type UpdateSessionRequest struct {
		SelfAssessmentStart *string `json:"self_assessment_start"`
		SelfAssessmentEnd   *string `json:"self_assessment_end"`
		AuditorReviewStart  *string `json:"auditor_review_start"`
		AuditorReviewEnd    *string `json:"auditor_review_end"`
		LeadAuditorID       *int    `json:"lead_auditor_id"`
		MemberAuditorIDs    []int   `json:"member_auditor_ids"`
	}

	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dates := []struct {
		value  *string
		target **time.Time
		name   string
	}{
		{req.SelfAssessmentStart, &session.SelfAssessmentStart, "self_assessment_start"},
		{req.SelfAssessmentEnd, &session.SelfAssessmentEnd, "self_assessment_end"},
		{req.AuditorReviewStart, &session.AuditorReviewStart, "auditor_review_start"},
		{req.AuditorReviewEnd, &session.AuditorReviewEnd, "auditor_review_end"},
	}
	for _, d := range dates {
		if d.value == nil {
			continue
		}
		parsed, err := time.Parse("2006-01-02", *d.value)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + d.name + ", expected YYYY-MM-DD"})
			return
		}
		*d.target = &parsed
	}

	if req.LeadAuditorID != nil {
		var lead models.Auditor
		if err := config.DB.First(&lead, *req.LeadAuditorID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Lead auditor not found"})
			return
		}
		session.LeadAuditorID = req.LeadAuditorID
	}

	if err := config.DB.Save(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update audit session"})
		return
	}

	if req.MemberAuditorIDs != nil {
		var members []models.Auditor
		if err := config.DB.Where("auditor_id IN ?", req.MemberAuditorIDs).Find(&members).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load member auditors"})
			return
		}
		if err := config.DB.Model(&session).Association("MemberAuditors").Replace(members); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member auditors"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

// DeleteAuditSession removes a session and its assessment rows (admin
// only).
func DeleteAuditSession(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	var session models.AuditSession
	if err := config.DB.First(&session, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Audit session not found"})
		return
	}

	if err := config.DB.Delete(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete audit session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Audit session deleted"})
}

// SubmitSelfAssessment is the coordinator's explicit submit-for-audit
// action. All elements must be scored; the whole submission is atomic.
func SubmitSelfAssessment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	if err := services.NewLifecycleService(config.DB).SubmitSelfAssessment(id, principal); err != nil {
		respondServiceError(c, err)
		return
	}

	go services.NewNotifyService(config.DB).NotifySubmitted(id)

	c.JSON(http.StatusOK, gin.H{"message": "Self-assessment submitted for audit"})
}

// AdvanceAuditSession forces one lifecycle evaluation (admin only). The
// same function the sweep job runs.
func AdvanceAuditSession(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	status, err := services.NewLifecycleService(config.DB).AdvanceLifecycle(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}
