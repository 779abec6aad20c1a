package handler

import (
	"net/http"

	"course-checkout/internal/dto"
	"course-checkout/internal/middleware"
	"course-checkout/internal/model"
	"course-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	checkoutService       service.CheckoutService
	reconciliationService service.ReconciliationService
}

func NewPaymentHandler(checkoutService service.CheckoutService, reconciliationService service.ReconciliationService) *PaymentHandler {
	return &PaymentHandler{
		checkoutService:       checkoutService,
		reconciliationService: reconciliationService,
	}
}

func (h *PaymentHandler) ListCourses(c echo.Context) error {
	ctx := c.Request().Context()

	courses, err := h.checkoutService.ListCourses(ctx)
	if err != nil {
		return httpError(err)
	}

	resp := make([]*dto.CourseResponse, len(courses))
	for i, course := range courses {
		resp[i] = &dto.CourseResponse{
			ID:       course.ID,
			Title:    course.Title,
			Amount:   course.PriceAmount,
			Currency: course.Currency,
		}
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}

	var req dto.CreateIntentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.CourseID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "course_id is required")
	}

	result, err := h.checkoutService.CreateIntent(ctx, userID, req.CourseID, req.PaymentMethodNonce)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *PaymentHandler) ConfirmPayment(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}

	var req dto.ConfirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	outcome := h.reconciliationService.ConfirmPayment(ctx, req.IntentID, req.CourseID, userID)

	return c.JSON(outcomeStatus(outcome), outcomeResponse(outcome))
}

func (h *PaymentHandler) RetryEnrollment(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}

	outcome := h.reconciliationService.RetryEnrollment(ctx, c.Param("intentID"), userID)

	return c.JSON(outcomeStatus(outcome), outcomeResponse(outcome))
}

func outcomeStatus(o *service.Outcome) int {
	switch o.Kind {
	case service.OutcomeSuccess:
		return http.StatusOK
	case service.OutcomePaymentRecordedEnrollmentFailed:
		return http.StatusAccepted
	}

	switch o.Reason {
	case service.ReasonDeclined:
		return http.StatusPaymentRequired
	case service.ReasonOwnershipMismatch:
		return http.StatusConflict
	case service.ReasonInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusServiceUnavailable
	}
}

func outcomeResponse(o *service.Outcome) *dto.OutcomeResponse {
	resp := &dto.OutcomeResponse{
		Outcome:      string(o.Kind),
		Reason:       string(o.Reason),
		IntentStatus: string(o.IntentStatus),
		Message:      o.Detail,
		Retry:        string(o.RetryStep()),
	}

	if o.Payment != nil {
		resp.Payment = &dto.PaymentResponse{
			IntentID: o.Payment.IntentID,
			CourseID: o.Payment.CourseID,
			Amount:   o.Payment.Amount.StringFixed(model.CurrencyExponent(o.Payment.Currency)),
			Currency: o.Payment.Currency,
			Status:   string(o.Payment.Status),
		}
	}
	if o.Enrollment != nil {
		resp.Enrollment = toEnrollmentResponse(o.Enrollment)
	}

	return resp
}
