package controllers

import (
	"errors"
	"net/http"

	"accreditation-audit-api/config"
	"accreditation-audit-api/services"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the services error taxonomy onto HTTP statuses.
// Forbidden deliberately returns a generic body so denied requests do not
// confirm that the object exists.
func respondServiceError(c *gin.Context, err error) {
	var validation *services.ValidationError
	var phase *services.PhaseViolation
	var unscored *services.UnscoredCountError

	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message, "field": validation.Field})
	case errors.As(err, &phase):
		c.JSON(http.StatusConflict, gin.H{"error": phase.Error(), "required_phase": phase.RequiredPhase})
	case errors.As(err, &unscored):
		c.JSON(http.StatusConflict, gin.H{"error": unscored.Error(), "unscored_count": unscored.Count})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// currentPrincipal resolves the authenticated user's role once per request.
func currentPrincipal(c *gin.Context) (*services.Principal, bool) {
	userIDValue, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return nil, false
	}
	userID, ok := userIDValue.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user context"})
		return nil, false
	}

	principal, err := services.NewAccessService(config.DB).ResolveRole(userID)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	return principal, true
}
