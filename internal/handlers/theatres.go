package handlers

import (
	"net/http"

	"bookit/internal/models"

	"github.com/gin-gonic/gin"
)

// ListTheatres - GET {base}/theatres
func (h *Handlers) ListTheatres(c *gin.Context) {
	theatres, err := h.services.Theatres.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list theatres")
		return
	}

	c.JSON(http.StatusOK, models.DataResponse[models.Theatre]{Data: theatres})
}

// CreateTheatre - POST {base}/theatres
// Клиентский _id игнорируется
func (h *Handlers) CreateTheatre(c *gin.Context) {
	var req models.CreateTheatreRequest
	if !bindJSON(c, &req) {
		return
	}

	theatre, err := h.services.Theatres.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create theatre")
		return
	}

	c.JSON(http.StatusCreated, models.DataResponse[models.Theatre]{Data: []models.Theatre{*theatre}})
}

// GetTheatre - GET {base}/theatres/:id
func (h *Handlers) GetTheatre(c *gin.Context) {
	theatre, err := h.services.Theatres.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get theatre")
		return
	}

	c.JSON(http.StatusOK, theatre)
}

// UpdateTheatre - PATCH {base}/theatres/:id
func (h *Handlers) UpdateTheatre(c *gin.Context) {
	var req models.UpdateTheatreRequest
	if !bindPatch(c, &req) {
		return
	}

	theatre, err := h.services.Theatres.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "Failed to update theatre")
		return
	}

	c.JSON(http.StatusOK, theatre)
}

// DeleteTheatre - DELETE {base}/theatres
// id берется из тела; отсутствие записи не ошибка
func (h *Handlers) DeleteTheatre(c *gin.Context) {
	var req models.DeleteRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.services.Theatres.Delete(c.Request.Context(), req.ID); err != nil {
		respondError(c, err, "Failed to delete theatre")
		return
	}

	c.JSON(http.StatusOK, models.DeleteResponse{Error: false})
}
