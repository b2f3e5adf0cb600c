package models

import "time"

type CreateIntentRequest struct {
	Price int `json:"price" binding:"required"`
}

type IntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type CardDetails struct {
	Number   string `json:"number" binding:"required"`
	ExpMonth int    `json:"expMonth" binding:"required"`
	ExpYear  int    `json:"expYear" binding:"required"`
	CVC      string `json:"cvc" binding:"required"`
	Name     string `json:"name"`
}

type PaymentSubmitRequest struct {
	ClientSecret string      `json:"clientSecret" binding:"required"`
	Card         CardDetails `json:"card" binding:"required"`
}

// PaymentRecord is reported to the backend after the processor confirms a
// charge, so the backend can activate the membership.
type PaymentRecord struct {
	Email         string    `json:"email"`
	Amount        int       `json:"amount"`
	TransactionID string    `json:"transactionId"`
	CardBrand     string    `json:"cardBrand"`
	CreatedAt     time.Time `json:"createdAt"`
}
