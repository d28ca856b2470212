package users

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/util"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches account routes. gate guards routes that need an identity.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, gate gin.HandlerFunc) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
	rg.GET("/me", gate, h.me)
}

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

type loginResponse struct {
	Message   string    `json:"message"`
	UserID    int64     `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	user, err := h.Svc.Register(c.Request.Context(), RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			metrics.IncRegistration(metrics.OutcomeInvalid)
			var verr *ValidationError
			if errors.As(err, &verr) {
				respond.Error(c, http.StatusBadRequest, respond.CodeValidation, validationMessage(verr.Issues), verr.Issues)
				return
			}
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "All fields are required", nil)
		case errors.Is(err, ErrEmailTaken):
			metrics.IncRegistration(metrics.OutcomeConflict)
			telemetry.Info("auth.register_conflict", map[string]any{
				"request_id": middleware.RequestIDFromContext(c),
				"email_fp":   util.Fingerprint(req.Email),
			})
			respond.Error(c, http.StatusConflict, respond.CodeConflict, "Email already exists", nil)
		default:
			metrics.IncRegistration(metrics.OutcomeError)
			respond.ErrorWithCause(c, http.StatusInternalServerError, respond.CodeInternal, "Server error during registration", nil, err)
		}
		return
	}

	metrics.IncRegistration(metrics.OutcomeSuccess)
	respond.JSON(c, http.StatusCreated, registerResponse{
		Message: "User registered successfully",
		UserID:  user.ID,
	})
}

func validationMessage(issues []FieldIssue) string {
	for _, issue := range issues {
		if issue.Issue == "required" {
			return "All fields are required"
		}
	}
	return "Invalid registration input"
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	result, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			metrics.IncLogin(metrics.OutcomeInvalid)
			telemetry.Info("auth.login_failed", map[string]any{
				"request_id": middleware.RequestIDFromContext(c),
				"email_fp":   util.Fingerprint(req.Email),
				"client_ip":  c.ClientIP(),
			})
			respond.Error(c, http.StatusUnauthorized, respond.CodeInvalidCredentials, "Invalid credentials", nil)
			return
		}
		metrics.IncLogin(metrics.OutcomeError)
		respond.ErrorWithCause(c, http.StatusInternalServerError, respond.CodeInternal, "Server error during login", nil, err)
		return
	}

	metrics.IncLogin(metrics.OutcomeSuccess)
	respond.OK(c, loginResponse{
		Message:   "Login successful",
		UserID:    result.UserID,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.Svc.GetByID(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "User not found", nil)
			return
		}
		respond.ErrorWithCause(c, http.StatusInternalServerError, respond.CodeInternal, "failed to load user", nil, err)
		return
	}
	respond.OK(c, gin.H{
		"userId":     user.ID,
		"full_name":  user.FullName,
		"email":      user.Email,
		"created_at": user.CreatedAt,
	})
}
