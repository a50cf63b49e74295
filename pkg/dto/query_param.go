package dto

type Filter struct {
	Limit         int    `query:"limit"`
	Page          int    `query:"page"`
	Status        string `query:"status"`
	TransactionID string `query:"transaction_id"`
}

type Pagination struct {
	Previous *string     `json:"previous"`
	Next     *string     `json:"next"`
	Records  interface{} `json:"records"`
}
