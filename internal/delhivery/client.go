// Package delhivery integrates with the Delhivery logistics APIs: manifest
// creation (CMU), rate lookup and waybill tracking, plus normalization of
// the status webhooks the carrier sends back.
package delhivery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/neecogreen/checkout-service/internal/config"
)

// APIError carries the upstream HTTP status so handlers can mirror it.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("delhivery: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Shipment is one consignment to manifest. Origin fields come from config,
// consignee fields from the order.
type Shipment struct {
	OrderID string

	Name    string
	Address string
	City    string
	State   string
	Pincode string
	Phone   string

	PaymentMode   string
	ProductsDesc  string
	DeclaredValue float64
	CODAmount     float64
	WeightKg      float64
	Quantity      int
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string

	pickupLocation string
	originAddress  string
	originCity     string
	originPincode  string
	originPhone    string

	trackTimeout time.Duration
}

func NewClient(cfg config.Delhivery) *Client {
	return &Client{
		httpClient:     &http.Client{},
		baseURL:        cfg.BaseURL,
		token:          cfg.Token,
		pickupLocation: cfg.PickupLocation,
		originAddress:  cfg.OriginAddress,
		originCity:     cfg.OriginCity,
		originPincode:  cfg.OriginPincode,
		originPhone:    cfg.OriginPhone,
		trackTimeout:   cfg.TrackTimeout,
	}
}

type cmuResponse struct {
	Success  bool `json:"success"`
	Packages []struct {
		Status  string   `json:"status"`
		Waybill string   `json:"waybill"`
		Remarks []string `json:"remarks"`
	} `json:"packages"`
}

// CreateShipment manifests one shipment and returns the assigned waybill.
func (c *Client) CreateShipment(ctx context.Context, s Shipment) (string, error) {
	data, err := json.Marshal(map[string]any{
		"shipments": []map[string]any{{
			"name":          s.Name,
			"add":           s.Address,
			"city":          s.City,
			"state":         s.State,
			"pin":           s.Pincode,
			"phone":         s.Phone,
			"order":         s.OrderID,
			"payment_mode":  s.PaymentMode,
			"products_desc": s.ProductsDesc,
			"total_amount":  s.DeclaredValue,
			"cod_amount":    s.CODAmount,
			"weight":        gramsFor(s.WeightKg),
			"quantity":      s.Quantity,
			"seller_add":    c.originAddress,
			"return_city":   c.originCity,
			"return_pin":    c.originPincode,
			"return_phone":  c.originPhone,
		}},
		"pickup_location": map[string]any{
			"name": c.pickupLocation,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}

	// CMU expects a form-encoded wrapper around the JSON document.
	form := url.Values{}
	form.Set("format", "json")
	form.Set("data", string(data))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/cmu/create.json", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create shipment: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out cmuResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode manifest response: %w", err)
	}

	if !out.Success || len(out.Packages) == 0 || out.Packages[0].Waybill == "" {
		remarks := ""
		if len(out.Packages) > 0 {
			remarks = strings.Join(out.Packages[0].Remarks, "; ")
		}
		return "", fmt.Errorf("manifest rejected by carrier: %s", remarks)
	}

	return out.Packages[0].Waybill, nil
}

// GetRate fetches the surface prepaid rate for a destination pincode and
// weight. Weight below half a kilogram is billed as half a kilogram.
func (c *Client) GetRate(ctx context.Context, pincode string, weightKg float64) (float64, error) {
	q := url.Values{}
	q.Set("md", "S")
	q.Set("ss", "Delivered")
	q.Set("d_pin", pincode)
	q.Set("o_pin", c.originPincode)
	q.Set("cgm", strconv.Itoa(gramsFor(weightKg)))
	q.Set("pt", "Prepaid")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/kinko/v1/invoice/charges/.json?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch rate: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var charges []struct {
		TotalAmount *float64 `json:"total_amount"`
	}
	if err := json.Unmarshal(body, &charges); err != nil {
		return 0, fmt.Errorf("decode rate response: %w", err)
	}
	if len(charges) == 0 || charges[0].TotalAmount == nil {
		return 0, fmt.Errorf("no rate returned for pincode %s", pincode)
	}

	return *charges[0].TotalAmount, nil
}

// Track proxies the carrier's tracking payload for a waybill. The call is
// bounded by the configured timeout and fails fast instead of hanging.
func (c *Client) Track(ctx context.Context, waybill string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.trackTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("waybill", waybill)
	q.Set("token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/v1/packages/json/?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tracking: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

func gramsFor(weightKg float64) int {
	if weightKg <= 0 {
		weightKg = 0.5
	}
	return int(math.Ceil(weightKg * 1000))
}
