package controllers

import (
	"accreditation-audit-api/config"
	"accreditation-audit-api/models"
	"accreditation-audit-api/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetAccreditingBodies returns all accrediting bodies ordered by name.
func GetAccreditingBodies(c *gin.Context) {
	var bodies []models.AccreditingBody
	if err := config.DB.Order("name").Find(&bodies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch accrediting bodies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bodies": bodies,
		"total":  len(bodies),
	})
}

// GetAccreditingBody returns one body with its criteria catalog.
func GetAccreditingBody(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body ID"})
		return
	}

	var body models.AccreditingBody
	if err := config.DB.First(&body, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Accrediting body not found"})
		return
	}

	criteria, err := services.NewCatalogService(config.DB).ListCriteria(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch criteria"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"body":     body,
		"criteria": criteria,
	})
}

// CreateAccreditingBody creates a new accrediting body (admin only).
func CreateAccreditingBody(c *gin.Context) {
	type CreateBodyRequest struct {
		Code        string  `json:"code" binding:"required"`
		Name        string  `json:"name" binding:"required"`
		Description *string `json:"description"`
		Website     *string `json:"website"`
		Contact     *string `json:"contact"`
	}

	var req CreateBodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body := models.AccreditingBody{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
		Contact:     req.Contact,
	}

	if err := services.NewCatalogService(config.DB).CreateBody(&body); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"body": body})
}

// UpdateAccreditingBody updates descriptive fields of a body (admin only).
func UpdateAccreditingBody(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body ID"})
		return
	}

	var body models.AccreditingBody
	if err := config.DB.First(&body, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Accrediting body not found"})
		return
	}

	type UpdateBodyRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Website     *string `json:"website"`
		Contact     *string `json:"contact"`
	}

	var req UpdateBodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		body.Name = *req.Name
	}
	if req.Description != nil {
		body.Description = req.Description
	}
	if req.Website != nil {
		body.Website = req.Website
	}
	if req.Contact != nil {
		body.Contact = req.Contact
	}

	if err := config.DB.Save(&body).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update accrediting body"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"body": body})
}

// DeleteAccreditingBody removes a body; blocked while programs or criteria
// reference it.
func DeleteAccreditingBody(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body ID"})
		return
	}

	if err := services.NewCatalogService(config.DB).DeleteBody(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Accrediting body deleted"})
}
