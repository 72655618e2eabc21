package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AbdBoutchichi/SmartDish/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service error types to HTTP statuses. Anything
// unrecognized is a 500 with a generic body.
func respondError(c *gin.Context, err error) {
	var nf *services.NotFoundError
	var cf *services.ConflictError
	var vd *services.ValidationError
	var ua *services.UnauthorizedError

	switch {
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Message})
	case errors.As(err, &cf):
		c.JSON(http.StatusConflict, gin.H{"error": cf.Message})
	case errors.As(err, &vd):
		c.JSON(http.StatusBadRequest, gin.H{"error": vd.Message})
	case errors.As(err, &ua):
		c.JSON(http.StatusUnauthorized, gin.H{"error": ua.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur interne du serveur"})
	}
}

// parseID reads a numeric path parameter; a bad value answers 400 and
// returns false.
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant invalide: " + raw})
		return 0, false
	}
	return uint(id), true
}
