package validators

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/taskhive/internal/constants"
	"github.com/taskhive/taskhive/internal/services"
)

func ValidateTaskDraft(d *services.TaskDraft) error {
	if strings.TrimSpace(d.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if d.Priority != "" {
		if _, ok := constants.ParsePriority(string(d.Priority)); !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown priority")
		}
	}
	return nil
}
