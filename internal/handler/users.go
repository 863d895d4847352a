package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type createUserRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// CreateUser godoc
// @Summary      Create a user
// @Description  Registers a user by email; returns the existing user if the email is already registered
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user  body  createUserRequest  true  "User email"
// @Success      201  {object}  domain.User
// @Success      200  {object}  domain.User
// @Failure      400  {object}  map[string]string
// @Router       /api/users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.create-user")
	defer span.End()

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid email is required"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	span.SetAttributes(attribute.String("email", email))

	existing, err := h.users.GetUserByEmail(ctx, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if existing != nil {
		c.JSON(http.StatusOK, existing)
		return
	}

	user, err := h.users.CreateUser(ctx, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, user)
}
