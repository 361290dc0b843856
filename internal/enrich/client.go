// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package enrich calls the external address validation service and
// maps its responses into typed results.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Component is one typed address component returned by the service.
type Component struct {
	Type              string
	Text              string
	ConfirmationLevel string
}

// Result is the parsed outcome of one validation call.
type Result struct {
	// Granularity is the service's validation verdict
	// (PREMISE, ROUTE, OTHER, ...).
	Granularity     string
	AddressComplete bool
	Business        bool
	Components      []Component
}

// Service is the validation boundary. It exists so the address
// processor can be tested without the network.
type Service interface {
	Validate(ctx context.Context, addressLine, regionCode string) (*Result, error)
}

// Client implements Service against the Google Address Validation API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

// ErrNoAPIKey is returned when the client was built without a key.
var ErrNoAPIKey = errors.New("no API key configured for address validation")

// NewClient creates a validation client. The timeout bounds every call;
// there are no retries, a timed-out call counts as a failure.
func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		apiKey:     apiKey,
	}
}

type validateRequest struct {
	Address struct {
		AddressLines []string `json:"addressLines"`
		RegionCode   string   `json:"regionCode,omitempty"`
	} `json:"address"`
}

type validateResponse struct {
	Result struct {
		Verdict struct {
			ValidationGranularity string `json:"validationGranularity"`
			AddressComplete       bool   `json:"addressComplete"`
		} `json:"verdict"`
		Address struct {
			AddressComponents []struct {
				ComponentType string `json:"componentType"`
				ComponentName struct {
					Text string `json:"text"`
				} `json:"componentName"`
				ConfirmationLevel string `json:"confirmationLevel"`
			} `json:"addressComponents"`
		} `json:"address"`
		Metadata struct {
			Business bool `json:"business"`
		} `json:"metadata"`
	} `json:"result"`
}

// Validate sends one address line (plus an optional 2-letter region
// code) to the service and returns the structured result. Any
// transport, auth or decoding problem comes back as an error; the
// caller degrades it to a FAILED verdict. A well-formed response
// without components is not an error, just an empty result.
func (c *Client) Validate(ctx context.Context, addressLine, regionCode string) (*Result, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if addressLine == "" {
		return nil, errors.New("empty address line")
	}

	var reqBody validateRequest
	reqBody.Address.AddressLines = []string{addressLine}
	reqBody.Address.RegionCode = regionCode

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?key="+c.apiKey, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("address validation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body for the error, not the whole thing
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("address validation returned status %d: %s", resp.StatusCode, string(body))
	}

	var decoded validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("malformed validation response: %w", err)
	}

	result := &Result{
		Granularity:     decoded.Result.Verdict.ValidationGranularity,
		AddressComplete: decoded.Result.Verdict.AddressComplete,
		Business:        decoded.Result.Metadata.Business,
	}
	for _, comp := range decoded.Result.Address.AddressComponents {
		if comp.ComponentName.Text == "" {
			continue
		}
		result.Components = append(result.Components, Component{
			Type:              comp.ComponentType,
			Text:              comp.ComponentName.Text,
			ConfirmationLevel: comp.ConfirmationLevel,
		})
	}
	return result, nil
}
