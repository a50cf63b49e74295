package dto

type CallbackResponse struct {
	Message   string `json:"message"`
	PaymentID string `json:"payment_id"`
}

type NotificationResponse struct {
	TransactionID string                 `json:"transaction_id"`
	Status        string                 `json:"status"`
	Memo          string                 `json:"memo,omitempty"`
	Raw           map[string]interface{} `json:"raw"`
	ReceivedAt    int64                  `json:"received_at"`
	UpdatedAt     int64                  `json:"updated_at"`
}
