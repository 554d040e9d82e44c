package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type AdminHandler struct {
	authService           service.AuthService
	reconciliationService service.ReconciliationService
	validator             *validator.Validate
}

func NewAdminHandler(authService service.AuthService, reconciliationService service.ReconciliationService) *AdminHandler {
	return &AdminHandler{
		authService:           authService,
		reconciliationService: reconciliationService,
		validator:             validator.New(),
	}
}

// Login godoc
//	@Summary		Admin login
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		models.LoginRequest		true	"Admin credentials"
//	@Success		200			{object}	models.LoginResponse	"Bearer token"
//	@Failure		401			{object}	models.LoginResponse	"Invalid credentials"
//	@Failure		429			{object}	models.LoginResponse	"Too many attempts"
//	@Router			/admin/login [post]
func (h *AdminHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.LoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		resp, err := h.authService.Login(r.Context(), &req)
		if err != nil {
			logger.Error("Login failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		if !resp.Success {
			status := http.StatusUnauthorized
			if resp.RetryAfter > 0 {
				status = http.StatusTooManyRequests
			}

			response.WriteJson(w, status, resp)
			return
		}

		response.WriteJson(w, http.StatusOK, resp)
	}
}

// ListReconciliationIssues godoc
//	@Summary		Open reconciliation issues (Admin)
//	@Description	Paid orders whose discount redemption could not be recorded.
//	@Tags			Admin
//	@Produce		json
//	@Param			page		query		int																false	"Page number (default: 1)"
//	@Param			pageSize	query		int																false	"Items per page (default: 10, max: 100)"
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.ReconciliationIssue}	"Open issues"
//	@Failure		401			{object}	response.ErrorResponse											"Authentication required"
//	@Security		BearerAuth
//	@Router			/admin/reconciliation [get]
func (h *AdminHandler) ListReconciliationIssues() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		page, pageSize := utils.ParsePagination(r)

		result, err := h.reconciliationService.ListOpenIssues(r.Context(), page, pageSize)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list reconciliation issues", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, result)
	}
}

// ResolveReconciliationIssue godoc
//	@Summary		Mark a reconciliation issue resolved (Admin)
//	@Tags			Admin
//	@Param			id	path	string	true	"Issue ID (UUID)"	Format(uuid)
//	@Success		204	"Resolved"
//	@Failure		404	{object}	response.ErrorResponse	"Issue not found or already resolved"
//	@Security		BearerAuth
//	@Router			/admin/reconciliation/{id}/resolve [post]
func (h *AdminHandler) ResolveReconciliationIssue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.reconciliationService.ResolveIssue(r.Context(), id); err != nil {
			response.Error(w, err)
			return
		}

		claims, _ := middleware.ClaimsFromContext(r.Context())
		admin := ""
		if claims != nil {
			admin = claims.Email
		}

		middleware.LoggerFromContext(r.Context()).Info("Reconciliation issue closed", slog.String("issueId", id.String()), slog.String("admin", admin))
		w.WriteHeader(http.StatusNoContent)
	}
}
