package binance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"payrun/internal/payout"
)

const (
	defaultBaseURL    = "https://api.binance.com"
	defaultPayBaseURL = "https://bpay.binanceapi.com"

	headerAPIKey        = "X-MBX-APIKEY"
	headerPayTimestamp  = "BinancePay-Timestamp"
	headerPayNonce      = "BinancePay-Nonce"
	headerPayCertSN     = "BinancePay-Certificate-SN"
	headerPaySignature  = "BinancePay-Signature"
	payTransferEndpoint = "/binancepay/openapi/payout/transfer"
	payQueryEndpoint    = "/binancepay/openapi/payout/query"
)

// ProviderError is a provider-reported failure response from a pay endpoint.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider rejected request (code %s)", e.Code)
	}
	return fmt.Sprintf("provider rejected request (code %s): %s", e.Code, e.Message)
}

// Config carries credentials and endpoints for a Client.
type Config struct {
	APIKey       string
	APISecret    string
	PayAPIKey    string
	PayAPISecret string
	BaseURL      string
	PayBaseURL   string
	HTTPClient   *http.Client
}

// Client talks to the exchange wallet and pay APIs.
type Client struct {
	apiKey       string
	apiSecret    string
	payAPIKey    string
	payAPISecret string
	baseURL      string
	payBaseURL   string
	httpClient   *http.Client
	now          func() time.Time
}

// New creates a gateway client. Wallet credentials are required; pay
// credentials are required only for batch submission and status queries.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.APISecret) == "" {
		return nil, errors.New("wallet api key and secret are required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	payBaseURL := strings.TrimSpace(cfg.PayBaseURL)
	if payBaseURL == "" {
		payBaseURL = defaultPayBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiSecret:    strings.TrimSpace(cfg.APISecret),
		payAPIKey:    strings.TrimSpace(cfg.PayAPIKey),
		payAPISecret: strings.TrimSpace(cfg.PayAPISecret),
		baseURL:      strings.TrimRight(baseURL, "/"),
		payBaseURL:   strings.TrimRight(payBaseURL, "/"),
		httpClient:   httpClient,
		now:          time.Now,
	}, nil
}

// SpotBalance returns the free spot balance for the asset. Assets absent
// from the account snapshot resolve to zero.
func (c *Client) SpotBalance(ctx context.Context, asset string) (decimal.Decimal, error) {
	var res struct {
		Balances []struct {
			Asset string `json:"asset"`
			Free  string `json:"free"`
		} `json:"balances"`
	}
	if err := c.signedWalletRequest(ctx, http.MethodGet, "/api/v3/account", url.Values{}, &res); err != nil {
		return decimal.Zero, fmt.Errorf("spot balance: %w", err)
	}
	for _, balance := range res.Balances {
		if balance.Asset == asset {
			return parseAmount(balance.Free)
		}
	}
	return decimal.Zero, nil
}

// FundingBalance returns the free funding-wallet balance for the asset.
func (c *Client) FundingBalance(ctx context.Context, asset string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("asset", asset)

	var res []struct {
		Asset string `json:"asset"`
		Free  string `json:"free"`
	}
	if err := c.signedWalletRequest(ctx, http.MethodPost, "/sapi/v1/asset/get-funding-asset", params, &res); err != nil {
		return decimal.Zero, fmt.Errorf("funding balance: %w", err)
	}
	for _, balance := range res {
		if balance.Asset == asset {
			return parseAmount(balance.Free)
		}
	}
	return decimal.Zero, nil
}

// Transfer moves the amount from the spot to the funding wallet and returns
// the provider transaction id.
func (c *Client) Transfer(ctx context.Context, asset string, amount decimal.Decimal) (int64, error) {
	params := url.Values{}
	params.Set("type", "MAIN_FUNDING")
	params.Set("asset", asset)
	params.Set("amount", amount.String())

	var res struct {
		TranID int64 `json:"tranId"`
	}
	if err := c.signedWalletRequest(ctx, http.MethodPost, "/sapi/v1/asset/transfer", params, &res); err != nil {
		return 0, fmt.Errorf("transfer: %w", err)
	}
	if res.TranID == 0 {
		return 0, errors.New("transfer: provider returned no transaction id")
	}
	return res.TranID, nil
}

// SubmitBatch submits one payout batch and returns the provider-confirmed
// request id. A provider FAIL response surfaces as a *ProviderError.
func (c *Client) SubmitBatch(ctx context.Context, req payout.BatchRequest) (string, error) {
	details := make([]map[string]any, 0, len(req.Details))
	for _, d := range req.Details {
		details = append(details, map[string]any{
			"merchantSendId": d.MerchantSendID,
			"transferAmount": d.Amount.String(),
			"transferMethod": "FUNDING_WALLET",
			"receiver": map[string]any{
				"identityType": "EMAIL",
				"identity":     d.Email,
			},
		})
	}
	body := map[string]any{
		"requestId":          req.RequestID,
		"bizScene":           "DIRECT_TRANSFER",
		"batchName":          req.BatchName,
		"currency":           req.Currency,
		"totalAmount":        req.TotalAmount.String(),
		"totalNumber":        len(req.Details),
		"transferDetailList": details,
	}

	var res struct {
		Status string `json:"status"`
		Code   string `json:"code"`
		Error  string `json:"errorMessage"`
		Data   struct {
			RequestID string `json:"requestId"`
			Status    string `json:"status"`
		} `json:"data"`
	}
	if err := c.signedPayRequest(ctx, payTransferEndpoint, body, &res); err != nil {
		return "", fmt.Errorf("submit batch: %w", err)
	}
	if res.Status != "SUCCESS" {
		return "", fmt.Errorf("submit batch: %w", &ProviderError{Code: res.Code, Message: res.Error})
	}
	requestID := res.Data.RequestID
	if requestID == "" {
		requestID = req.RequestID
	}
	return requestID, nil
}

// QueryBatch fetches the current batch status and per-recipient outcomes.
func (c *Client) QueryBatch(ctx context.Context, requestID string) (*payout.BatchResult, error) {
	body := map[string]any{
		"requestId":    requestID,
		"detailStatus": "ALL",
	}

	var res struct {
		Status string `json:"status"`
		Code   string `json:"code"`
		Error  string `json:"errorMessage"`
		Data   struct {
			BatchStatus        string `json:"batchStatus"`
			TransferDetailList []struct {
				OrderID        string `json:"orderId"`
				MerchantSendID string `json:"merchantSendId"`
				Status         string `json:"status"`
			} `json:"transferDetailList"`
		} `json:"data"`
	}
	if err := c.signedPayRequest(ctx, payQueryEndpoint, body, &res); err != nil {
		return nil, fmt.Errorf("query batch: %w", err)
	}
	if res.Status != "SUCCESS" {
		return nil, fmt.Errorf("query batch: %w", &ProviderError{Code: res.Code, Message: res.Error})
	}

	result := &payout.BatchResult{Status: payout.BatchStatus(res.Data.BatchStatus)}
	for _, detail := range res.Data.TransferDetailList {
		result.Details = append(result.Details, payout.TransferDetail{
			OrderID:        detail.OrderID,
			MerchantSendID: detail.MerchantSendID,
			Status:         payout.SendStatus(detail.Status),
		})
	}
	return result, nil
}

func (c *Client) signedWalletRequest(ctx context.Context, method, endpoint string, params url.Values, out any) error {
	params.Set("timestamp", strconv.FormatInt(c.now().UnixMilli(), 10))
	query := params.Encode()
	query += "&signature=" + signQuery(query, c.apiSecret)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint+"?"+query, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(headerAPIKey, c.apiKey)

	return c.do(req, out)
}

func (c *Client) signedPayRequest(ctx context.Context, endpoint string, body any, out any) error {
	if c.payAPIKey == "" || c.payAPISecret == "" {
		return errors.New("pay api key and secret are required")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	nonce, err := newNonce()
	if err != nil {
		return err
	}
	timestamp := strconv.FormatInt(c.now().UnixMilli(), 10)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.payBaseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerPayTimestamp, timestamp)
	req.Header.Set(headerPayNonce, nonce)
	req.Header.Set(headerPayCertSN, c.payAPIKey)
	req.Header.Set(headerPaySignature, signPayload(string(payload), timestamp, nonce, c.payAPISecret))

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseAmount(value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse balance %q: %w", value, err)
	}
	return amount, nil
}
