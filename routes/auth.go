package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"household-help-server/middleware"
	"household-help-server/models"
	"household-help-server/services"
)

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         *models.User `json:"user"`
	RedirectTo   string       `json:"redirect_to,omitempty"`
}

// RegisterAuthRoutes registers authentication routes
func RegisterAuthRoutes(router *gin.RouterGroup, deps *Dependencies, authRequired gin.HandlerFunc) {
	h := &authHandler{auth: deps.Auth, jwt: deps.JWT, workers: deps.Workers}
	limited := middleware.AuthRateLimitMiddleware(deps.RateLimiter)

	router.POST("/signup", limited, h.signUp)
	router.POST("/signin", limited, h.signIn)
	router.POST("/refresh", limited, h.refresh)
	router.POST("/signout", h.signOut)
	router.GET("/me", authRequired, h.me)
}

type authHandler struct {
	auth    *services.AuthService
	jwt     *services.JWTService
	workers *services.WorkerService
}

func (h *authHandler) signUp(c *gin.Context) {
	var req services.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, tokens, err := h.auth.SignUp(c.Request.Context(), req, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		respondError(c, err, "Failed to create user account")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Account created successfully",
		"data":    authResponse(user, tokens, ""),
	})
}

func (h *authHandler) signIn(c *gin.Context) {
	var req services.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, tokens, err := h.auth.SignIn(c.Request.Context(), req, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		respondError(c, err, "Failed to sign in")
		return
	}

	// Workers without a directory profile are sent to the setup flow
	redirectTo := ""
	if user.Role == models.RoleWorker {
		if _, err := h.workers.GetWorkerByUserID(c.Request.Context(), user.ID); err != nil {
			redirectTo = "worker-setup"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Signed in successfully",
		"data":    authResponse(user, tokens, redirectTo),
	})
}

func (h *authHandler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tokens, err := h.jwt.RefreshAccessToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err, "Failed to refresh token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tokens,
	})
}

func (h *authHandler) signOut(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.jwt.RevokeRefreshToken(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, err, "Failed to sign out")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Signed out successfully",
	})
}

func (h *authHandler) me(c *gin.Context) {
	user, err := h.auth.GetUser(c.Request.Context(), c.GetUint("user_id"))
	if err != nil {
		respondError(c, err, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

func authResponse(user *models.User, tokens *services.TokenPair, redirectTo string) AuthResponse {
	return AuthResponse{
		Token:        tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		User:         user,
		RedirectTo:   redirectTo,
	}
}
