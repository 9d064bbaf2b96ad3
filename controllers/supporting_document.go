package controllers

import (
	"accreditation-audit-api/config"
	"accreditation-audit-api/models"
	"accreditation-audit-api/services"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var allowedDocumentTypes = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

const maxUploadSize = int64(10 * 1024 * 1024) // 10MB

func uploadDir(sub string) string {
	base := os.Getenv("UPLOAD_PATH")
	if base == "" {
		base = "./uploads"
	}
	return filepath.Join(base, sub)
}

// saveUploadedFile validates extension and size, then stores the file under
// a uuid-based name so original names never collide.
func saveUploadedFile(c *gin.Context, field, sub string) (storedPath, originalName string, err error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", "", fmt.Errorf("no file uploaded")
	}

	if file.Size > maxUploadSize {
		return "", "", fmt.Errorf("file size exceeds 10MB limit")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedDocumentTypes[ext] {
		return "", "", fmt.Errorf("file type not allowed")
	}

	dir := uploadDir(sub)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", "", fmt.Errorf("failed to prepare upload directory")
	}

	stored := filepath.Join(dir, uuid.New().String()+ext)
	if err := c.SaveUploadedFile(file, stored); err != nil {
		return "", "", fmt.Errorf("failed to store file")
	}
	return stored, file.Filename, nil
}

// UploadSupportingDocument attaches an evidence file to a self-assessment.
func UploadSupportingDocument(c *gin.Context) {
	assessmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assessment ID"})
		return
	}

	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Document name is required"})
		return
	}

	storedPath, originalName, err := saveUploadedFile(c, "file", "supporting_documents")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc := models.SupportingDocument{
		Name:         name,
		OriginalName: originalName,
		StoredPath:   storedPath,
	}
	if description := strings.TrimSpace(c.PostForm("description")); description != "" {
		doc.Description = &description
	}

	if err := services.NewAssessmentService(config.DB).AttachDocument(assessmentID, principal, &doc); err != nil {
		os.Remove(storedPath)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"document": doc})
}

// GetSupportingDocuments lists an assessment's documents, newest first.
func GetSupportingDocuments(c *gin.Context) {
	assessmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assessment ID"})
		return
	}

	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var assessment models.SelfAssessment
	if err := config.DB.First(&assessment, assessmentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Self-assessment not found"})
		return
	}

	if _, err := services.NewAccessService(config.DB).RequireSessionAccess(principal, assessment.SessionID); err != nil {
		respondServiceError(c, err)
		return
	}

	var documents []models.SupportingDocument
	if err := config.DB.Where("assessment_id = ?", assessmentID).
		Order("uploaded_at DESC").Find(&documents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": documents,
		"total":     len(documents),
	})
}

// DownloadSupportingDocument streams a stored document.
func DownloadSupportingDocument(c *gin.Context) {
	documentID, err := strconv.Atoi(c.Param("document_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var document models.SupportingDocument
	if err := config.DB.Preload("Assessment").First(&document, documentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	if _, err := services.NewAccessService(config.DB).RequireSessionAccess(principal, document.Assessment.SessionID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.FileAttachment(document.StoredPath, document.OriginalName)
}

// DeleteSupportingDocument removes a document and its stored file.
func DeleteSupportingDocument(c *gin.Context) {
	documentID, err := strconv.Atoi(c.Param("document_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var document models.SupportingDocument
	if err := config.DB.Preload("Assessment").First(&document, documentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	var session models.AuditSession
	if err := config.DB.First(&session, document.Assessment.SessionID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}

	if !principal.IsAdmin() {
		if principal.Coordinator == nil || principal.Coordinator.ProgramID == nil ||
			*principal.Coordinator.ProgramID != session.ProgramID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
			return
		}
	}

	if err := config.DB.Delete(&document).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document"})
		return
	}
	os.Remove(document.StoredPath)

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}
