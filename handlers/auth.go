package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"route-planner/auth"
	"route-planner/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// User-facing messages (Japanese, matching the web client)
const (
	msgCredentialsRequired = "メールアドレスとパスワードは必須です"
	msgInvalidCredentials  = "メールアドレスまたはパスワードが正しくありません"
	msgEmailTaken          = "このメールアドレスは既に登録されています"
	msgAuthRequired        = "認証が必要です"
	msgLoginFailed         = "ログインに失敗しました"
	msgRegisterFailed      = "ユーザー登録に失敗しました"
	msgLoggedOut           = "ログアウトしました"
)

// AuthHandler handles registration, login, logout and session lookup
type AuthHandler struct {
	db           *sqlx.DB
	tokens       *auth.TokenManager
	secureCookie bool
}

// NewAuthHandler creates a new auth handler. secureCookie should be true in
// production so the session cookie is HTTPS-only.
func NewAuthHandler(db *sqlx.DB, tokens *auth.TokenManager, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		db:           db,
		tokens:       tokens,
		secureCookie: secureCookie,
	}
}

// Login handles POST /login - verifies credentials, sets the session cookie
// Unknown email and wrong password produce the same 401 so nothing about
// which field was wrong is revealed.
func (h *AuthHandler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "Login request")

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid login body", zap.Error(err))
		writeError(w, http.StatusBadRequest, msgCredentialsRequired)
		return
	}

	if req.Email == "" || req.Password == "" {
		logRequest(ctx, "error", "Missing credentials")
		writeError(w, http.StatusBadRequest, msgCredentialsRequired)
		return
	}

	var user models.User
	err := h.db.Get(&user, "SELECT id, email, password, name, created_at FROM users WHERE email = ?", req.Email)
	if err == sql.ErrNoRows {
		logRequest(ctx, "info", "Unknown email", zap.String("email", req.Email))
		writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to query user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgLoginFailed)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logRequest(ctx, "info", "Invalid password", zap.String("email", req.Email))
		writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		logRequest(ctx, "error", "Failed to issue token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgLoginFailed)
		return
	}

	auth.SetSessionCookie(w, token, h.secureCookie)

	logRequest(ctx, "info", "Login successful", zap.String("user_id", user.ID))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":  user.Response(),
		"token": token,
	})
}

// Register handles POST /register - creates the account and auto-logs in
func (h *AuthHandler) Register(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "Register request")

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid register body", zap.Error(err))
		writeError(w, http.StatusBadRequest, msgCredentialsRequired)
		return
	}

	if req.Email == "" || req.Password == "" {
		logRequest(ctx, "error", "Missing credentials")
		writeError(w, http.StatusBadRequest, msgCredentialsRequired)
		return
	}

	var existing int
	err := h.db.Get(&existing, "SELECT COUNT(*) FROM users WHERE email = ?", req.Email)
	if err != nil {
		logRequest(ctx, "error", "Failed to check email", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgRegisterFailed)
		return
	}
	if existing > 0 {
		logRequest(ctx, "info", "Email already registered", zap.String("email", req.Email))
		writeError(w, http.StatusConflict, msgEmailTaken)
		return
	}

	// Hash password with bcrypt (cost 12 for security)
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		logRequest(ctx, "error", "Password hashing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgRegisterFailed)
		return
	}

	user := models.User{
		ID:        uuid.New().String(),
		Email:     req.Email,
		Name:      req.Name,
		CreatedAt: time.Now(),
	}

	_, err = h.db.Exec("INSERT INTO users (id, email, password, name, created_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Email, string(hashedPassword), user.Name, user.CreatedAt)
	if err != nil {
		logRequest(ctx, "error", "Failed to create user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgRegisterFailed)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		logRequest(ctx, "error", "Failed to issue token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgRegisterFailed)
		return
	}

	auth.SetSessionCookie(w, token, h.secureCookie)

	logRequest(ctx, "info", "User registered", zap.String("user_id", user.ID))

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user":  user.Response(),
		"token": token,
	})
}

// Logout handles POST /logout - expires the session cookie on the client.
// Tokens are stateless, so there is nothing to revoke server-side.
func (h *AuthHandler) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "Logout request")

	auth.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: msgLoggedOut})
}

// Me handles GET /me - returns the current user from the session cookie
func (h *AuthHandler) Me(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	session, ok := h.tokens.UserFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, msgAuthRequired)
		return
	}

	var user models.User
	err := h.db.Get(&user, "SELECT id, email, password, name, created_at FROM users WHERE id = ?", session.UserID)
	if err == sql.ErrNoRows {
		// Token outlived the account; treat as unauthenticated
		logRequest(ctx, "info", "Session user no longer exists", zap.String("user_id", session.UserID))
		writeError(w, http.StatusUnauthorized, msgAuthRequired)
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to query user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgLoginFailed)
		return
	}

	logRequest(ctx, "info", "Me retrieved", zap.String("user_id", user.ID))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": user.Response(),
	})
}
