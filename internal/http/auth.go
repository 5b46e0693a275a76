package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/auth"
	"github.com/mrlokans/librarian/internal/entities"
)

type AuthController struct {
	service   *auth.Service
	issuer    *auth.Issuer
	blacklist *auth.Blacklist
}

func NewAuthController(service *auth.Service, issuer *auth.Issuer, blacklist *auth.Blacklist) *AuthController {
	return &AuthController{
		service:   service,
		issuer:    issuer,
		blacklist: blacklist,
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges credentials for an access + refresh token pair.
func (controller *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "username and password are required")
		return
	}

	user, err := controller.service.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Detail: "No active account found with the given credentials",
			})
			return
		}
		respondInternalError(c, err, "login")
		return
	}

	pair, err := controller.issuer.IssuePair(user)
	if err != nil {
		respondInternalError(c, err, "issue tokens")
		return
	}

	c.JSON(http.StatusOK, pair)
}

type refreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// Refresh exchanges a valid, non-blacklisted refresh token for a fresh
// access token.
func (controller *AuthController) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "refresh is required")
		return
	}

	claims, err := controller.issuer.ParseRefresh(req.Refresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "Token is invalid or expired"})
		return
	}

	revoked, err := controller.blacklist.IsRevoked(claims.ID)
	if err != nil {
		respondInternalError(c, err, "check blacklist")
		return
	}
	if revoked {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "Token is blacklisted"})
		return
	}

	access, err := controller.issuer.IssueAccess(claims)
	if err != nil {
		respondInternalError(c, err, "issue access token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": access})
}

// Blacklist revokes a refresh token, effectively logging the user out.
// Token parse failures surface as 400 with the error text.
func (controller *AuthController) Blacklist(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "refresh is required")
		return
	}

	claims, err := controller.issuer.ParseRefresh(req.Refresh)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := controller.blacklist.Revoke(claims.ID, claims.ExpiresAt.Time); err != nil {
		respondInternalError(c, err, "blacklist token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Token successfully blacklisted"})
}

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	UserType string `json:"user_type"`
}

// CreateUser registers an account with role selection. Posting an
// existing username returns the existing account's id with 200.
func (controller *AuthController) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "username and password are required")
		return
	}

	role := entities.UserRoleClient
	if req.UserType != "" {
		role = entities.UserRole(req.UserType)
	}

	user, created, err := controller.service.CreateUser(req.Username, req.Password, role)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidRole),
			errors.Is(err, auth.ErrUsernameRequired),
			errors.Is(err, auth.ErrPasswordRequired),
			errors.Is(err, auth.ErrUsernameInvalid):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "create user")
		}
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{"detail": "User already exists", "id": user.ID})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"detail": "User created", "id": user.ID})
}
