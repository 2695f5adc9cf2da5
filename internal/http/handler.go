package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"activity-tracker.com/activity-tracker/internal/auth"
	dto "activity-tracker.com/activity-tracker/internal/data_models"
	apperrors "activity-tracker.com/activity-tracker/internal/errors"
	middleware "activity-tracker.com/activity-tracker/internal/http/middlewares"
	"activity-tracker.com/activity-tracker/internal/http/validators"
	"activity-tracker.com/activity-tracker/internal/navigation"
	"activity-tracker.com/activity-tracker/internal/services"
	"activity-tracker.com/activity-tracker/pkg/constants"
	model "activity-tracker.com/activity-tracker/pkg/models"
)

type Handler struct {
	activityService *services.ActivityService
	users           middleware.UserLister
	auditsBaseURL   string
}

func NewHandler(activityService *services.ActivityService, users middleware.UserLister, auditsBaseURL string) *Handler {
	return &Handler{
		activityService: activityService,
		users:           users,
		auditsBaseURL:   auditsBaseURL,
	}
}

func (h *Handler) ListActivities(c echo.Context) error {
	ctx := c.Request().Context()

	activities, err := h.activityService.List(ctx, c.QueryParam("startDate"), c.QueryParam("endDate"))
	if err != nil {
		return httpError(err)
	}
	users, err := services.DirectoryUsers(ctx, h.users)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.NewActivityListResponse(activities, users, h.auditsBaseURL))
}

func (h *Handler) GetActivity(c echo.Context) error {
	id, err := activityID(c)
	if err != nil {
		return httpError(err)
	}

	activity, err := h.activityService.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return h.respond(c, http.StatusOK, activity)
}

func (h *Handler) CreateActivity(c echo.Context) error {
	if err := h.authorize(c); err != nil {
		return err
	}

	var req dto.ActivityRequest
	if err := c.Bind(&req); err != nil {
		return httpError(apperrors.ErrInvalidJSON)
	}

	ctx := c.Request().Context()
	users, err := services.DirectoryUsers(ctx, h.users)
	if err != nil {
		return httpError(err)
	}
	draft, err := validators.ValidateActivityRequest(&req, users, true)
	if err != nil {
		return httpError(err)
	}

	activity, err := h.activityService.Create(ctx, draft)
	if err != nil {
		return httpError(err)
	}
	return h.respond(c, http.StatusCreated, activity)
}

func (h *Handler) EditActivity(c echo.Context) error {
	if err := h.authorize(c); err != nil {
		return err
	}
	id, err := activityID(c)
	if err != nil {
		return httpError(err)
	}

	var req dto.ActivityRequest
	if err := c.Bind(&req); err != nil {
		return httpError(apperrors.ErrInvalidJSON)
	}

	ctx := c.Request().Context()
	users, err := services.DirectoryUsers(ctx, h.users)
	if err != nil {
		return httpError(err)
	}
	draft, err := validators.ValidateActivityRequest(&req, users, false)
	if err != nil {
		return httpError(err)
	}

	activity, err := h.activityService.Edit(ctx, id, draft)
	if err != nil {
		return httpError(err)
	}
	return h.respond(c, http.StatusOK, activity)
}

func (h *Handler) DeleteActivity(c echo.Context) error {
	if err := h.authorize(c); err != nil {
		return err
	}
	id, err := activityID(c)
	if err != nil {
		return httpError(err)
	}

	if confirmed, _ := strconv.ParseBool(c.QueryParam("confirm")); !confirmed {
		return httpError(apperrors.ErrConfirmationRequired)
	}

	if err := h.activityService.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UpdateProgress(c echo.Context) error {
	if err := h.authorize(c); err != nil {
		return err
	}
	id, err := activityID(c)
	if err != nil {
		return httpError(err)
	}

	var req dto.ProgressRequest
	if err := c.Bind(&req); err != nil {
		return httpError(apperrors.ErrInvalidJSON)
	}
	if err := validators.ValidateProgressRequest(&req); err != nil {
		return httpError(err)
	}

	activity, err := h.activityService.ApplyFollowUp(c.Request().Context(), id, services.FollowUp{
		Progress:        req.Progress,
		RejectCompleted: true,
	})
	if err != nil {
		return httpError(err)
	}
	return h.respond(c, http.StatusOK, activity)
}

func (h *Handler) AddComment(c echo.Context) error {
	if err := h.authorize(c); err != nil {
		return err
	}
	id, err := activityID(c)
	if err != nil {
		return httpError(err)
	}

	var req dto.CommentRequest
	if err := c.Bind(&req); err != nil {
		return httpError(apperrors.ErrInvalidJSON)
	}

	activity, err := h.activityService.ApplyFollowUp(c.Request().Context(), id, services.FollowUp{
		CommentText:     req.Text,
		AuthorUserID:    currentUserID(c),
		RejectCompleted: true,
	})
	if err != nil {
		return httpError(err)
	}
	return h.respond(c, http.StatusOK, activity)
}

// FollowUp saves a progress change and a comment together.
func (h *Handler) FollowUp(c echo.Context) error {
	if err := h.authorize(c); err != nil {
		return err
	}
	id, err := activityID(c)
	if err != nil {
		return httpError(err)
	}

	var req dto.FollowUpRequest
	if err := c.Bind(&req); err != nil {
		return httpError(apperrors.ErrInvalidJSON)
	}

	activity, err := h.activityService.ApplyFollowUp(c.Request().Context(), id, services.FollowUp{
		Progress:        req.Progress,
		CommentText:     req.Comment,
		AuthorUserID:    currentUserID(c),
		RejectCompleted: true,
	})
	if err != nil {
		return httpError(err)
	}
	return h.respond(c, http.StatusOK, activity)
}

// OpenSource redirects to the findings view of the audit the activity was
// raised from.
func (h *Handler) OpenSource(c echo.Context) error {
	id, err := activityID(c)
	if err != nil {
		return httpError(err)
	}

	activity, err := h.activityService.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	ok, err := navigation.ToSourceAudit(redirectNavigator{c: c}, h.auditsBaseURL, activity)
	if err != nil {
		return err
	}
	if !ok {
		return httpError(apperrors.ErrNoSourceAudit)
	}
	return nil
}

func (h *Handler) ListUsers(c echo.Context) error {
	users, err := services.DirectoryUsers(c.Request().Context(), h.users)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(users),
		"users": users,
	})
}

func (h *Handler) respond(c echo.Context, status int, activity model.Activity) error {
	users, err := services.DirectoryUsers(c.Request().Context(), h.users)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(status, dto.NewActivityResponse(activity, users, h.auditsBaseURL))
}

func (h *Handler) authorize(c echo.Context) error {
	id := auth.FromContext(c.Request().Context())
	if err := auth.Require(id, constants.PermissionManageActivities); err != nil {
		return httpError(err)
	}
	return nil
}

func activityID(c echo.Context) (string, error) {
	id := c.Param("id")
	if id == "" {
		return "", apperrors.ErrActivityIDRequired
	}
	return id, nil
}

func currentUserID(c echo.Context) string {
	if u := auth.FromContext(c.Request().Context()).CurrentUser(); u != nil {
		return u.ID
	}
	return ""
}

func httpError(err error) error {
	return echo.NewHTTPError(apperrors.StatusCode(err), err.Error())
}

type redirectNavigator struct {
	c echo.Context
}

func (n redirectNavigator) Navigate(target string) error {
	return n.c.Redirect(http.StatusFound, target)
}
