package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Charger is the opaque payment gateway collaborator. The payment
// service only ever talks to this interface; tests swap in a fake.
type Charger interface {
	Charge(ctx context.Context, in ChargeInput) (*ChargeResult, error)
}

type ChargeInput struct {
	Reference string // merchant reference, doubles as idempotency key
	Amount    int64
	Currency  string
	Method    string
}

type ChargeResult struct {
	Reference string
	Method    string
}

type Service struct {
	Client       *http.Client
	APIKey       string
	PrivateKey   string
	MerchantCode string
	BaseURL      string
}

func NewService(apiKey, privateKey, merchantCode, baseURL string) *Service {
	if baseURL == "" {
		baseURL = "https://pay.workhive.id/api-sandbox"
	}
	return &Service{
		Client:       &http.Client{Timeout: 15 * time.Second},
		APIKey:       apiKey,
		PrivateKey:   privateKey,
		MerchantCode: merchantCode,
		BaseURL:      baseURL,
	}
}

type chargeRequest struct {
	Method      string `json:"method"`
	MerchantRef string `json:"merchant_ref"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Signature   string `json:"signature"`
}

type chargeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Reference     string `json:"reference"`
		MerchantRef   string `json:"merchant_ref"`
		Amount        int64  `json:"amount"`
		PaymentMethod string `json:"payment_method"`
	} `json:"data"`
}

// Charge performs a single synchronous charge. Any transport error,
// timeout, or gateway decline comes back as a plain error; the caller
// decides how to record it.
func (s *Service) Charge(ctx context.Context, in ChargeInput) (*ChargeResult, error) {
	// HMAC-SHA256( merchant_code + merchant_ref + amount, private_key )
	sigData := fmt.Sprintf("%s%s%d", s.MerchantCode, in.Reference, in.Amount)

	reqBody := chargeRequest{
		Method:      in.Method,
		MerchantRef: in.Reference,
		Amount:      in.Amount,
		Currency:    in.Currency,
		Signature:   s.generateSignature(sigData),
	}

	jsonBody, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, "POST", s.BaseURL+"/transaction/charge", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	var apiResp chargeResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %v", err)
	}

	if !apiResp.Success {
		return nil, fmt.Errorf("gateway declined: %s", apiResp.Message)
	}

	ref := apiResp.Data.Reference
	if ref == "" {
		ref = in.Reference
	}

	return &ChargeResult{Reference: ref, Method: apiResp.Data.PaymentMethod}, nil
}

func (s *Service) generateSignature(data string) string {
	h := hmac.New(sha256.New, []byte(s.PrivateKey))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

// ValidateSignature checks a callback signature over the raw JSON body.
func (s *Service) ValidateSignature(incomingSig, jsonBody string) bool {
	h := hmac.New(sha256.New, []byte(s.PrivateKey))
	h.Write([]byte(jsonBody))
	return hex.EncodeToString(h.Sum(nil)) == incomingSig
}
