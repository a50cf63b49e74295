package domain

// Notification is the stored record for one logical payment transaction.
// Raw keeps the complete original payload verbatim for audit and debugging;
// deliveries for the same transaction merge into the same record.
type Notification struct {
	TransactionID string                 `bson:"transaction_id" json:"transaction_id"`
	Status        string                 `bson:"status" json:"status"`
	Memo          string                 `bson:"memo,omitempty" json:"memo,omitempty"`
	Raw           map[string]interface{} `bson:"raw" json:"raw"`
	ReceivedAt    int64                  `bson:"received_at" json:"received_at"`
	UpdatedAt     int64                  `bson:"updated_at" json:"updated_at"`
}

const StatusUnknown = "unknown"
