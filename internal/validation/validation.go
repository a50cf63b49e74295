package validation

import (
	"encoding/json"

	"github.com/alimikegami/pi-callback-service/internal/domain"
	"github.com/alimikegami/pi-callback-service/pkg/errs"
)

// ValidateNotification decodes the raw callback body and checks the
// structural minimum: a JSON object carrying a non-empty payment_id. Every
// other field is optional and passed through untouched so new fields from
// the payment network survive a round trip. A missing status is substituted
// with "unknown" rather than rejected; the receipt is still meaningful.
func ValidateNotification(rawBody []byte) (domain.Notification, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(rawBody, &payload); err != nil || payload == nil {
		return domain.Notification{}, errs.ErrMissingTransactionID
	}

	paymentID, ok := payload["payment_id"].(string)
	if !ok || paymentID == "" {
		return domain.Notification{}, errs.ErrMissingTransactionID
	}

	notification := domain.Notification{
		TransactionID: paymentID,
		Status:        domain.StatusUnknown,
		Raw:           payload,
	}

	if status, ok := payload["status"].(string); ok && status != "" {
		notification.Status = status
	}

	if memo, ok := payload["memo"].(string); ok {
		notification.Memo = memo
	}

	return notification, nil
}
