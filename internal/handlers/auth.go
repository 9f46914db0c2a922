package handlers

import (
	"net/http"

	"bookit/internal/models"

	"github.com/gin-gonic/gin"
)

// Signup - POST {base}/signup
// Регистрация и выдача пары токенов
func (h *Handlers) Signup(c *gin.Context) {
	var req models.CredentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.services.Auth.Signup(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to sign up")
		return
	}

	c.JSON(http.StatusOK, response)
}

// Login - POST {base}/login
// Проверка пароля и выдача пары токенов
func (h *Handlers) Login(c *gin.Context) {
	var req models.CredentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.services.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, response)
}
