package handlers

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"convonest/payment"
)

const paymentBody = `{
	"clientSecret": "cs_123",
	"card": {"number": "4242424242424242", "expMonth": 12, "expYear": 2030, "cvc": "123"}
}`

func TestPaymentTokenizationFailureStopsSequence(t *testing.T) {
	var confirms, records atomic.Int64

	proc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/tokens":
			w.WriteHeader(http.StatusPaymentRequired)
			w.Write([]byte(`{"error":{"message":"Your card number is invalid."}}`))
		case "/v1/intents/confirm":
			confirms.Add(1)
		}
	}))
	t.Cleanup(proc.Close)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		records.Add(1)
	}))
	t.Cleanup(backend.Close)

	h := NewPaymentHandler(testAPIClient(backend), payment.NewProcessor(proc.URL, "pk_test"), 50)
	r := signedInRouter("a@x.com")
	r.POST("/payment", h.Submit)

	w := postJSON(r, "/payment", paymentBody)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "Card tokenization failed")
	assert.Contains(t, w.Body.String(), "card number is invalid")
	assert.Zero(t, confirms.Load(), "confirmation never runs after failed tokenization")
	assert.Zero(t, records.Load(), "backend is never notified after failed tokenization")
}

func TestPaymentConfirmationFailureSkipsNotification(t *testing.T) {
	var records atomic.Int64

	proc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/tokens":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"tok_1","brand":"visa"}`))
		case "/v1/intents/confirm":
			w.WriteHeader(http.StatusPaymentRequired)
			w.Write([]byte(`{"error":{"message":"Insufficient funds."}}`))
		}
	}))
	t.Cleanup(proc.Close)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		records.Add(1)
	}))
	t.Cleanup(backend.Close)

	h := NewPaymentHandler(testAPIClient(backend), payment.NewProcessor(proc.URL, "pk_test"), 50)
	r := signedInRouter("a@x.com")
	r.POST("/payment", h.Submit)

	w := postJSON(r, "/payment", paymentBody)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "Payment confirmation failed")
	assert.Zero(t, records.Load())
}

func TestPaymentHappyPathRecordsTransaction(t *testing.T) {
	proc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/tokens":
			w.Write([]byte(`{"id":"tok_1","brand":"visa"}`))
		case "/v1/intents/confirm":
			w.Write([]byte(`{"id":"txn_42","status":"succeeded"}`))
		}
	}))
	t.Cleanup(proc.Close)

	var recorded atomic.Int64
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/payments" {
			recorded.Add(1)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(backend.Close)

	h := NewPaymentHandler(testAPIClient(backend), payment.NewProcessor(proc.URL, "pk_test"), 50)
	r := signedInRouter("a@x.com")
	r.POST("/payment", h.Submit)

	w := postJSON(r, "/payment", paymentBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "txn_42")
	assert.Equal(t, int64(1), recorded.Load())
}
