package models

import "time"

type Payment struct {
	ID                  string    `json:"_id" bson:"_id"`
	Email               string    `json:"email" bson:"email"`
	Amount              int64     `json:"amount" bson:"amount"`
	TransactionID       string    `json:"transactionId" bson:"transactionId"`
	SubscriptionEndDate time.Time `json:"subscriptionEndDate" bson:"subscriptionEndDate"`
}

type PaymentIntentRequest struct {
	Pay int64 `json:"pay"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type RecordPaymentRequest struct {
	Email         string `json:"email"`
	Amount        int64  `json:"amount"`
	TransactionID string `json:"transactionId"`
}
