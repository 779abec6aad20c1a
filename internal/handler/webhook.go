package handler

import (
	"io"
	"net/http"

	"course-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type WebhookHandler struct {
	webhookService service.WebhookService
}

func NewWebhookHandler(webhookService service.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

func (h *WebhookHandler) StripeWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	err = h.webhookService.HandleStripeWebhook(ctx, c.Request().Header, body)
	if err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusOK)
}
