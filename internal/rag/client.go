package rag

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mealgen/internal/config"
	"mealgen/internal/preferences"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateRequest is the payload sent to the generation service.
type GenerateRequest struct {
	UserID      string              `json:"userId"`
	Store       string              `json:"store"`
	Days        int                 `json:"days"`
	Preferences preferences.Summary `json:"preferences"`
}

// GenerateResponse is what the generation service returns on success.
// PlanJSON carries the full plan document as a JSON string.
type GenerateResponse struct {
	Title     string `json:"title"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	PlanJSON  string `json:"planJson"`
}

// Client is an interface for a plan generation delegate.
type Client interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// httpClient calls the external retrieval-augmented generation service over
// HTTP. One blocking request, no retries; retry policy belongs to the caller.
type httpClient struct {
	baseURL      string
	serviceKey   string
	sharedSecret string
	httpc        *http.Client
}

// NewClient creates a new generation service client.
func NewClient(cfg *config.Config) Client {
	return &httpClient{
		baseURL:      strings.TrimRight(cfg.RagBaseURL, "/"),
		serviceKey:   cfg.RagServiceKey,
		sharedSecret: cfg.RagSharedSecret,
		httpc: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Generate posts the request to the service's /generate endpoint.
func (c *httpClient) Generate(ctx context.Context, genReq GenerateRequest) (*GenerateResponse, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("generation service base URL is not configured")
	}

	body, err := json.Marshal(genReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.sharedSecret != "" {
		req.Header.Set("X-RAG-SECRET", c.sharedSecret)
	}
	if c.serviceKey != "" {
		token, err := c.createServiceToken()
		if err != nil {
			return nil, fmt.Errorf("failed to create service token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call generation service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("generation service error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var genResp GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("failed to decode generation response: %w", err)
	}

	if genResp.PlanJSON == "" {
		return nil, fmt.Errorf("generation service returned an empty plan")
	}

	return &genResp, nil
}

// createServiceToken generates a short-lived JWT from the "id:secret" key.
func (c *httpClient) createServiceToken() (string, error) {
	keyParts := strings.Split(c.serviceKey, ":")
	if len(keyParts) != 2 {
		return "", fmt.Errorf("invalid service key format: expected id:secret")
	}

	id := keyParts[0]
	secretHex := keyParts[1]

	secret, err := hex.DecodeString(secretHex)
	if err != nil {
		return "", fmt.Errorf("failed to decode secret hex: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(5 * time.Minute).Unix(),
		"aud": "/generate",
	})
	token.Header["kid"] = id

	return token.SignedString(secret)
}
