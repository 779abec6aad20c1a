package handler

import (
	"net/http"

	"course-checkout/internal/dto"
	"course-checkout/internal/middleware"
	"course-checkout/internal/model"
	"course-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type EnrollmentHandler struct {
	enrollmentService service.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService: enrollmentService,
	}
}

func (h *EnrollmentHandler) ListEnrollments(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}

	enrollments, err := h.enrollmentService.ListEnrollments(ctx, userID)
	if err != nil {
		return httpError(err)
	}

	resp := &dto.EnrollmentListResponse{
		Enrollments: make([]*dto.EnrollmentResponse, len(enrollments)),
	}
	for i, e := range enrollments {
		resp.Enrollments[i] = toEnrollmentResponse(e)
	}

	return c.JSON(http.StatusOK, resp)
}

func toEnrollmentResponse(e *model.Enrollment) *dto.EnrollmentResponse {
	return &dto.EnrollmentResponse{
		CourseID:   e.CourseID,
		Status:     string(e.Status),
		EnrolledAt: e.EnrolledAt,
	}
}
