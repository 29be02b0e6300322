package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/speakaussie/server/domain/entities"
)

func (h *Handler) listPlans(c echo.Context) error {
	return c.JSON(http.StatusOK, h.usage.Plans())
}

func (h *Handler) currentSubscription(c echo.Context) error {
	sub, err := h.usage.Subscription(c.Request().Context(), currentUserID(c))
	if err != nil {
		return h.serverError(c, "subscription lookup failed", err)
	}

	if sub == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"plan":   entities.PlanFree,
			"status": entities.SubscriptionActive,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"plan":                 sub.Plan,
		"status":               sub.Status,
		"current_period_start": sub.CurrentPeriodStart,
		"current_period_end":   sub.CurrentPeriodEnd,
	})
}

func (h *Handler) todayUsage(c echo.Context) error {
	summary, err := h.usage.Today(c.Request().Context(), currentUserID(c))
	if err != nil {
		return h.serverError(c, "usage lookup failed", err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *Handler) checkEntitlement(c echo.Context) error {
	entitlement, err := h.usage.Check(c.Request().Context(), currentUserID(c))
	if err != nil {
		return h.serverError(c, "entitlement check failed", err)
	}
	return c.JSON(http.StatusOK, entitlement)
}

func (h *Handler) usageHistory(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))

	records, total, err := h.usage.History(c.Request().Context(), currentUserID(c), days)
	if err != nil {
		return h.serverError(c, "usage history failed", err)
	}

	history := make([]map[string]interface{}, 0, len(records))
	for _, record := range records {
		history = append(history, map[string]interface{}{
			"date":           record.Date,
			"minutes_used":   record.MinutesUsed,
			"sessions_count": record.SessionsCount,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"history":               history,
		"monthly_total_minutes": total,
	})
}
