package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var (
	//金額が0以下
	ErrInvalidAmount = errors.New("invalid amount")
	//通貨コードが不正
	ErrInvalidCurrency = errors.New("invalid currency")
	//プロバイダが拒否した
	ErrPaymentRejected = errors.New("payment rejected")
)

// 決済プロバイダへの約束。amount→clientSecretの変換は向こうの仕事。
type Client interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, currencyCode string) (clientSecret string, err error)
}

// HTTPClient は外部の決済APIを叩く実装。
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type intentRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type intentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

func (c *HTTPClient) CreateIntent(ctx context.Context, amount decimal.Decimal, currencyCode string) (string, error) {
	if amount.Sign() <= 0 {
		return "", ErrInvalidAmount
	}
	if _, err := currency.ParseISO(currencyCode); err != nil {
		return "", ErrInvalidCurrency
	}

	body, err := json.Marshal(intentRequest{Amount: amount, Currency: currencyCode})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payment-intents", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrPaymentRejected, resp.StatusCode)
	}

	var out intentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.ClientSecret == "" {
		return "", fmt.Errorf("%w: empty client secret", ErrPaymentRejected)
	}

	return out.ClientSecret, nil
}
