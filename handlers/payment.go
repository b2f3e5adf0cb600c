package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"convonest/apiclient"
	"convonest/models"
	"convonest/payment"
)

type PaymentHandler struct {
	api   *apiclient.Client
	proc  *payment.Processor
	price int
}

func NewPaymentHandler(api *apiclient.Client, proc *payment.Processor, price int) *PaymentHandler {
	return &PaymentHandler{api: api, proc: proc, price: price}
}

// CreateIntent bootstraps the payment view: the backend creates an intent
// for the fixed membership amount and the client holds its opaque secret.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	secret, err := h.api.CreatePaymentIntent(c.Request.Context(), h.price)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to start payment"})
		return
	}

	c.JSON(http.StatusOK, models.IntentResponse{ClientSecret: secret})
}

// Submit runs the purchase sequence. Each step fails with its own message,
// and a failed step stops the sequence: no confirmation without a token, no
// membership activation without a confirmed charge.
func (h *PaymentHandler) Submit(c *gin.Context) {
	email := c.GetString("sessionEmail")

	var req models.PaymentSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	tok, err := h.proc.TokenizeCard(ctx, req.Card)
	if err != nil {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Card tokenization failed: " + err.Error()})
		return
	}

	conf, err := h.proc.ConfirmIntent(ctx, req.ClientSecret, tok.ID)
	if err != nil {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Payment confirmation failed: " + err.Error()})
		return
	}

	rec := models.PaymentRecord{
		Email:         email,
		Amount:        h.price,
		TransactionID: conf.ID,
		CardBrand:     tok.Brand,
		CreatedAt:     time.Now().UTC(),
	}
	if err := h.api.RecordPayment(ctx, rec); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment succeeded but membership activation failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Membership activated",
		"transactionId": conf.ID,
	})
}
