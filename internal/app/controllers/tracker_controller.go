package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kyra/interntrack/internal/app/auth"
	"github.com/kyra/interntrack/internal/app/models"
	"github.com/kyra/interntrack/internal/app/models/dto"
	"github.com/kyra/interntrack/internal/app/services"
	"github.com/kyra/interntrack/internal/middleware"
	"github.com/kyra/interntrack/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// TrackerController exposes the tracker access layer for the signed-in user
type TrackerController struct {
	tracker *services.TrackerService
	policy  *auth.ViewPolicy
	logger  zerolog.Logger
}

// NewTrackerController creates a new TrackerController
func NewTrackerController(tracker *services.TrackerService, policy *auth.ViewPolicy, logger zerolog.Logger) *TrackerController {
	return &TrackerController{
		tracker: tracker,
		policy:  policy,
		logger:  logger,
	}
}

// GetProfile returns the signed-in user's profile
// @Summary Get my profile
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.UserProfile}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /me/profile [get]
func (c *TrackerController) GetProfile(ctx *gin.Context) {
	email, ok := middleware.CurrentEmail(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return
	}

	profile, err := c.tracker.GetUserProfile(ctx.Request.Context(), email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile, ""))
}

// GetDashboard returns the greeting, progress prompt, profile and metric ticker
// @Summary Get my dashboard
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Dashboard}
// @Router /me/dashboard [get]
func (c *TrackerController) GetDashboard(ctx *gin.Context) {
	email, ok := middleware.CurrentEmail(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return
	}

	d, err := c.tracker.Dashboard(ctx.Request.Context(), email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(d, ""))
}

// LogInternship records an internship for the signed-in user
// @Summary Log an internship
// @Tags me
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LogInternshipRequest true "Internship"
// @Success 201 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Router /me/internships [post]
func (c *TrackerController) LogInternship(ctx *gin.Context) {
	email, ok := middleware.CurrentEmail(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return
	}

	var req dto.LogInternshipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid internship payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	logged, err := c.tracker.LogInternship(ctx.Request.Context(), email, req.CompanyName, req.Duration, req.Feedback, req.MSMEsDigitalized)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.SuccessResponse{Logged: logged}, "Internship logged"))
}

// LogCourse records course progress for the signed-in user
// @Summary Log course progress
// @Tags me
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LogCourseRequest true "Course progress"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /me/courses [post]
func (c *TrackerController) LogCourse(ctx *gin.Context) {
	email, ok := middleware.CurrentEmail(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return
	}

	var req dto.LogCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid course payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	logged, err := c.tracker.LogCourseProgress(ctx.Request.Context(), email, req.CourseName, req.ModulesCompleted, req.TotalModules)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Logged: logged}, "Course progress saved"))
}

// LogFeedback records a star or emoji rating for the signed-in user
// @Summary Submit feedback
// @Tags me
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LogFeedbackRequest true "Feedback"
// @Success 201 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "Rating out of range"
// @Router /me/feedback [post]
func (c *TrackerController) LogFeedback(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return
	}

	var req dto.LogFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid feedback payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	var (
		logged bool
		err    error
	)
	if req.Emoji != "" {
		logged, err = c.tracker.LogEmojiFeedback(ctx.Request.Context(), userID, req.Emoji, req.Comments)
	} else {
		logged, err = c.tracker.LogFeedback(ctx.Request.Context(), userID, req.Rating, req.Comments)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.SuccessResponse{Logged: logged}, "Thanks for your feedback!"))
}

// GetMetrics returns aggregate metrics for a role
// @Summary Role metrics
// @Tags metrics
// @Produce json
// @Security BearerAuth
// @Param role path string true "Role" Enums(Student, College, MSME, Mentor, Government)
// @Success 200 {object} dto.APIResponse{data=models.Metrics}
// @Failure 403 {object} dto.ErrorResponse "Role not visible to the caller"
// @Router /metrics/{role} [get]
func (c *TrackerController) GetMetrics(ctx *gin.Context) {
	role, ok := c.authorizeRole(ctx)
	if !ok {
		return
	}

	m, err := c.tracker.ComputeMetrics(ctx.Request.Context(), role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(m, ""))
}

// GetReport returns the role report rows
// @Summary Role report
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param role path string true "Role" Enums(Student, College, MSME, Mentor, Government)
// @Success 200 {object} dto.APIResponse{data=[]models.ReportRow}
// @Router /reports/{role} [get]
func (c *TrackerController) GetReport(ctx *gin.Context) {
	role, ok := c.authorizeRole(ctx)
	if !ok {
		return
	}

	rows, err := c.tracker.FetchReportRows(ctx.Request.Context(), role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rows, ""))
}

// ExportReport streams the role report as a CSV download
// @Summary Download role report
// @Tags reports
// @Produce text/csv
// @Security BearerAuth
// @Param role path string true "Role" Enums(Student, College, MSME, Mentor, Government)
// @Success 200 {file} file
// @Router /reports/{role}/export [get]
func (c *TrackerController) ExportReport(ctx *gin.Context) {
	role, ok := c.authorizeRole(ctx)
	if !ok {
		return
	}

	rows, err := c.tracker.FetchReportRows(ctx.Request.Context(), role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	filename := fmt.Sprintf("internship_report_%s.csv", strings.ToLower(string(role)))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Header("Content-Type", "text/csv; charset=utf-8")
	ctx.Status(http.StatusOK)

	if err := writeReportCSV(csv.NewWriter(ctx.Writer), rows); err != nil {
		// headers are already sent
		c.logger.Error().Err(err).Str("role", string(role)).Msg("Failed to write report CSV")
	}
}

// authorizeRole parses :role and checks the caller may view it. It writes the error response
// itself and returns false on failure.
func (c *TrackerController) authorizeRole(ctx *gin.Context) (models.Role, bool) {
	target, ok := models.ParseRole(ctx.Param("role"))
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("role", "unknown role "+strconv.Quote(ctx.Param("role"))))
		return "", false
	}

	viewer, ok := middleware.CurrentRole(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return "", false
	}

	if err := c.policy.ValidateView(viewer, target); err != nil {
		c.logger.Warn().Str("viewer", string(viewer)).Str("target", string(target)).Msg("Role view denied")
		middleware.HandleAPIError(ctx, err)
		return "", false
	}
	return target, true
}

var reportHeader = []string{"name", "email", "company_name", "duration", "feedback", "msme_digitalized"}

func writeReportCSV(w *csv.Writer, rows []models.ReportRow) error {
	if err := w.Write(reportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		msmes := ""
		if r.MSMEsDigitalized != nil {
			msmes = strconv.Itoa(*r.MSMEsDigitalized)
		}
		record := []string{r.Name, r.Email, deref(r.CompanyName), deref(r.Duration), deref(r.Feedback), msmes}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
