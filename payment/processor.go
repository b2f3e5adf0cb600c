package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"convonest/models"
)

// Processor is the card processor's client-side API: tokenize card details,
// then confirm a payment intent with the token. Each call fails with its own
// error so callers can surface step-specific messages.
type Processor struct {
	Host string
	Key  string
	HTTP *http.Client
}

func NewProcessor(host, key string) *Processor {
	return &Processor{
		Host: host,
		Key:  key,
		HTTP: &http.Client{Timeout: 20 * time.Second},
	}
}

type Token struct {
	ID    string `json:"id"`
	Brand string `json:"brand"`
}

type Confirmation struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (p *Processor) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Host+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+p.Key)

	resp, err := p.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var perr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &perr) == nil && perr.Error.Message != "" {
			return fmt.Errorf("%s", perr.Error.Message)
		}
		return fmt.Errorf("processor status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// TokenizeCard exchanges raw card details for an opaque token.
func (p *Processor) TokenizeCard(ctx context.Context, card models.CardDetails) (*Token, error) {
	form := url.Values{}
	form.Set("card[number]", card.Number)
	form.Set("card[exp_month]", strconv.Itoa(card.ExpMonth))
	form.Set("card[exp_year]", strconv.Itoa(card.ExpYear))
	form.Set("card[cvc]", card.CVC)
	if card.Name != "" {
		form.Set("card[name]", card.Name)
	}

	var tok Token
	if err := p.post(ctx, "/v1/tokens", form, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// ConfirmIntent confirms the payment intent held by clientSecret using a
// previously tokenized card.
func (p *Processor) ConfirmIntent(ctx context.Context, clientSecret, tokenID string) (*Confirmation, error) {
	form := url.Values{}
	form.Set("client_secret", clientSecret)
	form.Set("source", tokenID)

	var conf Confirmation
	if err := p.post(ctx, "/v1/intents/confirm", form, &conf); err != nil {
		return nil, err
	}
	if conf.Status != "succeeded" {
		return nil, fmt.Errorf("intent not confirmed: status %q", conf.Status)
	}
	return &conf, nil
}
