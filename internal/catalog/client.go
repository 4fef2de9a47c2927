// Package catalog is a small client for the storefront API: product listing,
// product detail and photo recognition.
package catalog

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"go-storefront-proxy/internal/config"
)

// ErrOffline is returned when the worker answered with its offline payload
var ErrOffline = errors.New("storefront API is offline")

// APIError is a success:false envelope or an unexpected status
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("storefront API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("storefront API error (status %d): %s", e.StatusCode, e.Message)
}

// Product is a catalog part
type Product struct {
	ID            string `json:"_id"`
	Name          string `json:"product_name"`
	UnitPrice     int64  `json:"prix_unitaire_GNF"`
	Description   string `json:"description,omitempty"`
	Code          string `json:"code_piece,omitempty"`
	Category      string `json:"categorie,omitempty"`
	ImageURL      string `json:"image_url,omitempty"`
	ImageFilename string `json:"image_filename,omitempty"`
}

// Pagination describes a product page
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

// ProductPage is one page of the listing
type ProductPage struct {
	Products   []Product
	Pagination Pagination
}

// Analysis is what the recognition backend says about a photo
type Analysis struct {
	PartNameFr    string `json:"partNameFr,omitempty"`
	PartNameEn    string `json:"partNameEn,omitempty"`
	BrandDetected string `json:"brandDetected,omitempty"`
	VehicleType   string `json:"vehicleType,omitempty"`
	SerialNumber  string `json:"serialNumber,omitempty"`
	Description   string `json:"description,omitempty"`
	PartLocation  string `json:"part-location,omitempty"`
}

// ScanResult pairs the analysis with the catalog parts that match it
type ScanResult struct {
	Analysis        Analysis  `json:"analysis"`
	MatchedProducts []Product `json:"matchedProducts"`
}

type envelope struct {
	Success    bool            `json:"success"`
	Offline    bool            `json:"offline,omitempty"`
	Message    string          `json:"message,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	Pagination *Pagination     `json:"pagination,omitempty"`
}

type scanEnvelope struct {
	envelope
	ScanResult
}

// Client calls the storefront API
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for cfg.BaseURL
func NewClient(cfg *config.CatalogConfig, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid catalog base URL: %w", err)
	}
	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}, nil
}

// Products lists one page of the catalog
func (c *Client) Products(ctx context.Context, page, limit int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 15
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	env, err := c.do(ctx, http.MethodGet, "/api/pieces", query, nil)
	if err != nil {
		return nil, err
	}

	var products []Product
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &products); err != nil {
			return nil, fmt.Errorf("failed to decode products: %w", err)
		}
	}

	result := &ProductPage{Products: products}
	if env.Pagination != nil {
		result.Pagination = *env.Pagination
	} else {
		result.Pagination = Pagination{Page: page, Limit: limit, Total: len(products), TotalPages: 1}
	}
	return result, nil
}

// Product fetches one part by id
func (c *Client) Product(ctx context.Context, id string) (*Product, error) {
	if id == "" {
		return nil, fmt.Errorf("product id is required")
	}

	env, err := c.do(ctx, http.MethodGet, "/api/pieces/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}

	var product Product
	if err := json.Unmarshal(env.Data, &product); err != nil {
		return nil, fmt.Errorf("failed to decode product %s: %w", id, err)
	}
	return &product, nil
}

// Analyze sends a photo to the recognition endpoint
func (c *Client) Analyze(ctx context.Context, image []byte) (*ScanResult, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("image is empty")
	}

	payload, err := json.Marshal(map[string]string{"image": base64.StdEncoding.EncodeToString(image)})
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	body, err := c.send(ctx, http.MethodPost, "/api/image/analyze", nil, payload)
	if err != nil {
		return nil, err
	}

	var env scanEnvelope
	if err := json.Unmarshal(body.raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	if err := checkEnvelope(body.status, &env.envelope); err != nil {
		return nil, err
	}
	return &env.ScanResult, nil
}

type rawResponse struct {
	status int
	raw    []byte
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload []byte) (*envelope, error) {
	body, err := c.send(ctx, method, path, query, payload)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body.raw, &env); err != nil {
		if body.status >= 300 {
			return nil, &APIError{StatusCode: body.status}
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if err := checkEnvelope(body.status, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte) (*rawResponse, error) {
	target := c.baseURL.JoinPath(path)
	if query != nil {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("Catalog request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("source", resp.Header.Get("X-Worker-Source")))

	return &rawResponse{status: resp.StatusCode, raw: raw}, nil
}

func checkEnvelope(status int, env *envelope) error {
	if env.Offline {
		return ErrOffline
	}
	if !env.Success || status >= 300 {
		return &APIError{StatusCode: status, Message: env.Message}
	}
	return nil
}
