package http

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/taskhive/internal/ai"
	apperrors "github.com/taskhive/taskhive/internal/errors"
	"github.com/taskhive/taskhive/internal/http/validators"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/internal/xlsx"
)

type Handler struct {
	tasks    *services.SyncService
	auth     *services.AuthService
	enhancer ai.Enhancer
}

// NewHandler wires the API surface. enhancer may be nil when no
// enhancement service is configured.
func NewHandler(tasks *services.SyncService, auth *services.AuthService, enhancer ai.Enhancer) *Handler {
	return &Handler{
		tasks:    tasks,
		auth:     auth,
		enhancer: enhancer,
	}
}

func httpError(err error) error {
	return echo.NewHTTPError(apperrors.StatusCode(err), err.Error())
}

type signUpRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

func (h *Handler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	user, err := h.auth.SignUp(c.Request().Context(), req.Email, req.Username, req.Avatar)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, user)
}

type signInRequest struct {
	Email string `json:"email"`
}

// SignIn activates a session. The sync coordinator reloads through its
// session subscription; a failed collection load leaves no active
// coordinator session and surfaces here rather than being mistaken for
// an empty collection.
func (h *Handler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	user, err := h.auth.SignIn(c.Request().Context(), req.Email)
	if err != nil {
		return httpError(err)
	}

	if h.tasks.CurrentUser() == nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to load tasks")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":  user,
		"tasks": h.tasks.SnapshotTasks(),
	})
}

func (h *Handler) SignOut(c echo.Context) error {
	h.auth.SignOut()
	return c.NoContent(http.StatusNoContent)
}

// DeleteUser cascade-deletes the user's tasks before removing the
// account record.
func (h *Handler) DeleteUser(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()

	if err := h.tasks.PurgeUser(ctx, id); err != nil {
		return httpError(err)
	}
	if err := h.auth.DeleteUser(ctx, id); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListTasks(c echo.Context) error {
	tasks := h.tasks.SnapshotTasks()
	return c.JSON(http.StatusOK, echo.Map{
		"count":         len(tasks),
		"pending_count": models.PendingCount(tasks),
		"tasks":         tasks,
	})
}

func (h *Handler) CreateTask(c echo.Context) error {
	var draft services.TaskDraft
	if err := c.Bind(&draft); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateTaskDraft(&draft); err != nil {
		return err
	}

	task, err := h.tasks.Create(c.Request().Context(), draft)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) UpdateTask(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return httpError(apperrors.ErrTaskIDRequired)
	}

	var patch services.TaskPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	task, err := h.tasks.Update(c.Request().Context(), id, patch)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return httpError(apperrors.ErrTaskIDRequired)
	}

	if err := h.tasks.DeleteOne(c.Request().Context(), id); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

type deleteManyRequest struct {
	IDs []string `json:"ids"`
}

func (h *Handler) DeleteTasks(c echo.Context) error {
	var req deleteManyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if len(req.IDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "ids are required")
	}

	if err := h.tasks.DeleteMany(c.Request().Context(), req.IDs); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ToggleStatus(c echo.Context) error {
	task, err := h.tasks.ToggleStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ToggleSubtask(c echo.Context) error {
	task, err := h.tasks.ToggleSubtask(c.Request().Context(), c.Param("id"), c.Param("subtaskId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) Renumber(c echo.Context) error {
	tasks, err := h.tasks.RenumberAll(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count": len(tasks),
		"tasks": tasks,
	})
}

type enhanceRequest struct {
	Title string `json:"title"`
}

func (h *Handler) Enhance(c echo.Context) error {
	if h.enhancer == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "enhancement service not configured")
	}

	var req enhanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	draft, err := h.enhancer.Enhance(c.Request().Context(), req.Title)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, draft)
}

// ImportTasks accepts a spreadsheet upload and appends every buildable
// row as one batch. Rows without a title are skipped, never an error.
func (h *Handler) ImportTasks(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "spreadsheet file is required")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not open uploaded file")
	}
	defer f.Close()

	rows, err := xlsx.Decode(f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not parse spreadsheet")
	}

	user := h.tasks.CurrentUser()
	if user == nil {
		return httpError(apperrors.ErrNoActiveSession)
	}

	result := services.BuildTasksFromRows(rows, h.tasks.SnapshotTasks(), user.ID)
	if _, err := h.tasks.AppendBatch(c.Request().Context(), result.Tasks); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"imported": result.Built,
		"skipped":  result.Skipped,
	})
}

func (h *Handler) ExportTasks(c echo.Context) error {
	tasks := h.tasks.SnapshotTasks()

	var buf bytes.Buffer
	if err := xlsx.Encode(&buf, services.ExportHeaders, services.ExportRows(tasks)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to build spreadsheet")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="tasks.xlsx"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
