package handlers

import (
	"net/http"

	"bookit/internal/models"

	"github.com/gin-gonic/gin"
)

// ListAllShows - GET {base}/
// Все шоу без фильтра, только с access токеном
func (h *Handlers) ListAllShows(c *gin.Context) {
	shows, err := h.services.Shows.List(c.Request.Context(), "")
	if err != nil {
		respondError(c, err, "Failed to list shows")
		return
	}

	c.JSON(http.StatusOK, models.DataResponse[models.Show]{Data: shows})
}

// ListTheatreShows - GET {base}/theatres/:id/shows
func (h *Handlers) ListTheatreShows(c *gin.Context) {
	shows, err := h.services.Shows.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to list shows")
		return
	}

	c.JSON(http.StatusOK, models.DataResponse[models.Show]{Data: shows})
}

// CreateShow - POST {base}/theatres/:id/shows
// theatre_id берется только из пути
func (h *Handlers) CreateShow(c *gin.Context) {
	var req models.CreateShowRequest
	if !bindJSON(c, &req) {
		return
	}

	show, err := h.services.Shows.Create(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "Failed to create show")
		return
	}

	c.JSON(http.StatusCreated, models.DataResponse[models.Show]{Data: []models.Show{*show}})
}

// GetShow - GET {base}/theatres/:id/shows/:showId
// Looked up by showId alone; the theatre segment is not checked.
func (h *Handlers) GetShow(c *gin.Context) {
	show, err := h.services.Shows.Get(c.Request.Context(), c.Param("showId"))
	if err != nil {
		respondError(c, err, "Failed to get show")
		return
	}

	c.JSON(http.StatusOK, show)
}

// UpdateShow - PATCH {base}/theatres/:id/shows/:showId
func (h *Handlers) UpdateShow(c *gin.Context) {
	var req models.UpdateShowRequest
	if !bindPatch(c, &req) {
		return
	}

	show, err := h.services.Shows.Update(c.Request.Context(), c.Param("showId"), &req)
	if err != nil {
		respondError(c, err, "Failed to update show")
		return
	}

	c.JSON(http.StatusOK, show)
}

// DeleteShow - DELETE {base}/theatres/:id/shows
func (h *Handlers) DeleteShow(c *gin.Context) {
	var req models.DeleteRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.services.Shows.Delete(c.Request.Context(), req.ID); err != nil {
		respondError(c, err, "Failed to delete show")
		return
	}

	c.JSON(http.StatusOK, models.DeleteResponse{Error: false})
}
