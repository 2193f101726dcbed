package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/neecogreen/checkout-service/internal/delhivery"
	"github.com/neecogreen/checkout-service/pkg/utils"
)

// CarrierWebhook принимает статусы отправлений от Delhivery.
// @Summary      Carrier status webhook
// @Description  Unknown waybills are acknowledged with 200 so the carrier stops retrying; redelivery is an idempotent overwrite.
// @Tags         shipping
// @Accept       json
// @Produce      json
// @Success      200  {object}  WebhookResponse
// @Failure      400  {object}  utils.ErrorResponse "Malformed payload"
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /webhooks/delhivery [post]
func (h *HTTPHandler) CarrierWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.WriteError(w, "failed to read body", http.StatusBadRequest)
		return
	}

	upd, err := delhivery.ParseWebhook(body)
	if errors.Is(err, delhivery.ErrMalformedPayload) {
		webhooksMalformed.Inc()
		utils.WriteError(w, "missing waybill or status", http.StatusBadRequest)
		return
	}
	if err != nil {
		webhooksMalformed.Inc()
		utils.WriteError(w, "invalid json body", http.StatusBadRequest)
		return
	}

	applied, err := h.shipments.HandleWebhook(ctx, upd)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to handle carrier webhook",
			slog.Any("error", err), slog.String("waybill", upd.Waybill))
		utils.WriteError(w, "failed to process webhook", http.StatusInternalServerError)
		return
	}

	if !applied {
		webhooksIgnored.Inc()
		utils.WriteJSON(w, WebhookResponse{Message: "Order not found, ignored."}, http.StatusOK)
		return
	}

	webhooksApplied.Inc()
	utils.WriteJSON(w, WebhookResponse{Success: true, Message: "Order status updated"}, http.StatusOK)
}
