// Package http exposes the update-server boundary over gin: the manifest
// aggregation endpoint consumed by installed clients, plus a health check.
package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/updates"
)

type UpdatesController struct {
	store *updates.Store
}

func NewUpdatesController(store *updates.Store) *UpdatesController {
	return &UpdatesController{store: store}
}

// Check answers GET /api/updates?current_version=N with the aggregated
// changes newer than N.
func (u *UpdatesController) Check(c *gin.Context) {
	raw := c.DefaultQuery("current_version", "0")
	currentVersion, err := strconv.Atoi(raw)
	if err != nil || currentVersion < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "current_version must be a non-negative integer",
		})
		return
	}

	resp, err := u.store.Check(currentVersion)
	if err != nil {
		log.Printf("Update check failed for version %d: %v", currentVersion, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "could not aggregate updates",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}
