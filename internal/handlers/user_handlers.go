package handlers

import (
	"errors"
	"net/http"

	"github.com/gabriel-327/WarrantyWarden/internal/auth"
	"github.com/gabriel-327/WarrantyWarden/internal/models"
	"github.com/gabriel-327/WarrantyWarden/internal/store"
	"github.com/gin-gonic/gin"
)

// CredentialsInput is the JSON body for both register and login. A UFID is
// always exactly 8 characters.
type CredentialsInput struct {
	UFID     string `json:"ufid" binding:"required,len=8"`
	Password string `json:"password" binding:"required"`
}

// Register is the handler for POST /api/auth/register.
func (h *Handlers) Register(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input CredentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	// 2. --- Hash the Password ---
	// The secret is only ever stored as a bcrypt hash.
	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := &models.User{
		UFID:         input.UFID,
		PasswordHash: password.Hash,
	}

	// 3. --- Save to Store ---
	if err := h.Users.Insert(user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
		return
	}

	// 4. --- Send Success Response ---
	c.JSON(http.StatusCreated, gin.H{"message": "Account created!"})
}

// Login is the handler for POST /api/auth/login.
// An unknown UFID and a wrong password produce the exact same response, so a
// failed login never reveals whether the account exists.
func (h *Handlers) Login(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input CredentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	// 2. --- Look Up User ---
	user, err := h.Users.GetByUFID(input.UFID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	// 3. --- Check Password ---
	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if !match {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	// 4. --- Issue Session Token ---
	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login success",
		"token":   token,
	})
}
