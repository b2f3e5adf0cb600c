package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"convonest/apiclient"
	"convonest/db"
	"convonest/identity"
	"convonest/models"
)

type AuthHandler struct {
	idp      *identity.Client
	api      *apiclient.Client
	sessions *identity.Store
	creds    *db.CredentialStore
}

func NewAuthHandler(idp *identity.Client, api *apiclient.Client, sessions *identity.Store, creds *db.CredentialStore) *AuthHandler {
	return &AuthHandler{idp: idp, api: api, sessions: sessions, creds: creds}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.idp.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	// The identity provider owns the account; the backend gets its own user
	// row right after signup.
	user := models.User{
		Email: strings.ToLower(req.Email),
		Name:  req.Name,
		Image: req.Image,
		Role:  models.RoleUser,
	}
	if err := h.api.UpsertUser(c.Request.Context(), user); err != nil {
		slog.Error("user row write failed after signup", "email", user.Email, "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create user record"})
		return
	}

	h.finishSignIn(c, sess, http.StatusCreated)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.idp.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	h.finishSignIn(c, sess, http.StatusOK)
}

func (h *AuthHandler) LoginWithProvider(c *gin.Context) {
	var req models.ProviderLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.idp.SignInWithProvider(c.Request.Context(), req.Provider, req.Code)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	// Federated first sign-in also needs a backend user row; UpsertUser is
	// idempotent for returning users.
	user := models.User{
		Email: strings.ToLower(sess.Email),
		Name:  sess.DisplayName,
		Image: sess.PhotoURL,
		Role:  models.RoleUser,
	}
	if err := h.api.UpsertUser(c.Request.Context(), user); err != nil {
		slog.Error("user row write failed after federated sign-in", "email", user.Email, "err", err)
	}

	h.finishSignIn(c, sess, http.StatusOK)
}

// finishSignIn issues and persists the backend credential, then resolves the
// session store. Token issuance failure is not fatal: the secured client
// falls back to minting from the live session.
func (h *AuthHandler) finishSignIn(c *gin.Context, sess *identity.Session, status int) {
	token, err := h.api.IssueToken(c.Request.Context(), sess.Email)
	if err != nil {
		slog.Warn("token issuance failed", "email", sess.Email, "err", err)
	} else if err := h.creds.Save(token); err != nil {
		slog.Warn("credential persist failed", "err", err)
	}

	h.sessions.Set(sess)

	c.JSON(status, models.AuthResponse{
		Email: strings.ToLower(sess.Email),
		Name:  sess.DisplayName,
		Image: sess.PhotoURL,
		Token: token,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sess, _ := h.sessions.Current()
	if sess == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not signed in"})
		return
	}

	if err := h.idp.SignOut(c.Request.Context(), sess); err != nil {
		slog.Warn("identity sign-out failed", "err", err)
	}
	if err := h.creds.Clear(); err != nil {
		slog.Warn("credential clear failed", "err", err)
	}
	h.sessions.Clear()

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// Session reports the current session view: who is signed in, and whether
// resolution is still pending.
func (h *AuthHandler) Session(c *gin.Context) {
	sess, loading := h.sessions.Current()
	if loading {
		c.JSON(http.StatusAccepted, gin.H{"status": "pending"})
		return
	}
	if sess == nil {
		c.JSON(http.StatusOK, gin.H{"signedIn": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"signedIn": true,
		"email":    strings.ToLower(sess.Email),
		"name":     sess.DisplayName,
		"image":    sess.PhotoURL,
	})
}
