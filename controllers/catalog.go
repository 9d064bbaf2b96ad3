package controllers

import (
	"accreditation-audit-api/config"
	"accreditation-audit-api/models"
	"accreditation-audit-api/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetCriteria lists criteria, optionally filtered by accrediting body,
// ordered by code.
func GetCriteria(c *gin.Context) {
	query := config.DB.Model(&models.Criterion{}).Order("code")

	if bodyID := c.Query("body_id"); bodyID != "" {
		query = query.Where("body_id = ?", bodyID)
	}

	var criteria []models.Criterion
	if err := query.Find(&criteria).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch criteria"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"criteria": criteria,
		"total":    len(criteria),
	})
}

// GetCriterion returns one criterion with its elements ordered by code.
func GetCriterion(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid criterion ID"})
		return
	}

	var criterion models.Criterion
	if err := config.DB.Preload("Body").First(&criterion, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Criterion not found"})
		return
	}

	elements, err := services.NewCatalogService(config.DB).ListElements(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch elements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"criterion": criterion,
		"elements":  elements,
	})
}

// CreateCriterion creates a criterion under a body (admin only).
func CreateCriterion(c *gin.Context) {
	type CreateCriterionRequest struct {
		BodyID      int      `json:"body_id" binding:"required"`
		Code        string   `json:"code" binding:"required"`
		Name        string   `json:"name" binding:"required"`
		Description *string  `json:"description"`
		Weight      *float64 `json:"weight"`
		Status      string   `json:"status"`
	}

	var req CreateCriterionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	criterion := models.Criterion{
		BodyID:      req.BodyID,
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Weight:      req.Weight,
		Status:      req.Status,
	}

	if err := services.NewCatalogService(config.DB).CreateCriterion(&criterion); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"criterion": criterion})
}

// UpdateCriterion updates a criterion's descriptive fields and status.
func UpdateCriterion(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid criterion ID"})
		return
	}

	var criterion models.Criterion
	if err := config.DB.First(&criterion, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Criterion not found"})
		return
	}

	type UpdateCriterionRequest struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Weight      *float64 `json:"weight"`
		Status      *string  `json:"status"`
	}

	var req UpdateCriterionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		criterion.Name = *req.Name
	}
	if req.Description != nil {
		criterion.Description = req.Description
	}
	if req.Weight != nil {
		criterion.Weight = req.Weight
	}
	if req.Status != nil {
		if *req.Status != models.CatalogStatusActive && *req.Status != models.CatalogStatusInactive {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be active or inactive"})
			return
		}
		criterion.Status = *req.Status
	}

	if err := config.DB.Save(&criterion).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update criterion"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"criterion": criterion})
}

// DeleteCriterion removes a criterion and its elements (admin only).
func DeleteCriterion(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid criterion ID"})
		return
	}

	if err := services.NewCatalogService(config.DB).DeleteCriterion(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Criterion deleted"})
}

// GetElements lists elements, optionally filtered by criterion, ordered by
// code.
func GetElements(c *gin.Context) {
	query := config.DB.Model(&models.Element{}).Order("code")

	if criterionID := c.Query("criterion_id"); criterionID != "" {
		query = query.Where("criterion_id = ?", criterionID)
	}

	var elements []models.Element
	if err := query.Find(&elements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch elements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"elements": elements,
		"total":    len(elements),
	})
}

// CreateElement creates an element under a criterion (admin only).
func CreateElement(c *gin.Context) {
	type CreateElementRequest struct {
		CriterionID int     `json:"criterion_id" binding:"required"`
		Code        string  `json:"code" binding:"required"`
		Name        string  `json:"name" binding:"required"`
		Guidance    *string `json:"guidance"`
		MaxScore    float64 `json:"max_score"`
		Status      string  `json:"status"`
	}

	var req CreateElementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	element := models.Element{
		CriterionID: req.CriterionID,
		Code:        req.Code,
		Name:        req.Name,
		Guidance:    req.Guidance,
		MaxScore:    req.MaxScore,
		Status:      req.Status,
	}

	if err := services.NewCatalogService(config.DB).CreateElement(&element); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"element": element})
}

// UpdateElement updates an element's fields (admin only).
func UpdateElement(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid element ID"})
		return
	}

	var element models.Element
	if err := config.DB.First(&element, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Element not found"})
		return
	}

	type UpdateElementRequest struct {
		Name     *string  `json:"name"`
		Guidance *string  `json:"guidance"`
		MaxScore *float64 `json:"max_score"`
		Status   *string  `json:"status"`
	}

	var req UpdateElementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		element.Name = *req.Name
	}
	if req.Guidance != nil {
		element.Guidance = req.Guidance
	}
	if req.MaxScore != nil {
		if *req.MaxScore <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Maximum score must be positive"})
			return
		}
		element.MaxScore = *req.MaxScore
	}
	if req.Status != nil {
		if *req.Status != models.CatalogStatusActive && *req.Status != models.CatalogStatusInactive {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be active or inactive"})
			return
		}
		element.Status = *req.Status
	}

	if err := config.DB.Save(&element).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update element"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"element": element})
}

// DeleteElement removes an element (admin only).
func DeleteElement(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid element ID"})
		return
	}

	var element models.Element
	if err := config.DB.First(&element, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Element not found"})
		return
	}

	if err := config.DB.Delete(&element).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete element"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Element deleted"})
}
