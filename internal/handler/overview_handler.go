package handler

import (
	"net/http"

	"github.com/centavo/centavo-backend/internal/middleware"
	"github.com/centavo/centavo-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// OverviewHandler handles dashboard HTTP requests
type OverviewHandler struct {
	overviewService *service.OverviewService
}

// NewOverviewHandler creates a new OverviewHandler
func NewOverviewHandler(overviewService *service.OverviewService) *OverviewHandler {
	return &OverviewHandler{overviewService: overviewService}
}

// GetSummary godoc
// @Summary Get the dashboard summary
// @Description Get balance, current period income and expenses, pot totals, budget and bill summaries
// @Tags overview
// @Produce json
// @Success 200 {object} service.OverviewSummary
// @Failure 401 {object} ProblemDetails
// @Router /overview [get]
func (h *OverviewHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Identity required")
	}

	summary, err := h.overviewService.Summary(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to build overview")
		return NewInternalError(c, "Failed to build overview")
	}

	return c.JSON(http.StatusOK, summary)
}
