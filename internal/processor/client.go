// Package processor talks to the external card-payment processor. It only
// registers funding instruments; it never touches the ledgered balance.
package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/swiftpay-app/swiftpay/internal/config"
)

type Card struct {
	Number   string
	ExpMonth int
	ExpYear  int
	CVC      string
}

// TokenizedCard is the processor's representation of a stored card: an opaque
// token plus the display data we are allowed to keep.
type TokenizedCard struct {
	Token    string
	Brand    string
	Last4    string
	ExpMonth int
	ExpYear  int
}

type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: config.ProcessorTimeout},
	}
}

// Tokenize registers the card with the processor and returns its token. The
// raw card number never reaches our storage.
func (c *Client) Tokenize(ctx context.Context, card Card) (*TokenizedCard, error) {
	form := url.Values{}
	form.Set("type", "card")
	form.Set("card[number]", card.Number)
	form.Set("card[exp_month]", strconv.Itoa(card.ExpMonth))
	form.Set("card[exp_year]", strconv.Itoa(card.ExpYear))
	form.Set("card[cvc]", card.CVC)

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/payment_methods", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("processor rejected card: %s", apiErr.Error.Message)
		}
		return nil, fmt.Errorf("processor returned status %d", resp.StatusCode)
	}

	var result struct {
		ID   string `json:"id"`
		Card struct {
			Brand    string `json:"brand"`
			Last4    string `json:"last4"`
			ExpMonth int    `json:"exp_month"`
			ExpYear  int    `json:"exp_year"`
		} `json:"card"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &TokenizedCard{
		Token:    result.ID,
		Brand:    result.Card.Brand,
		Last4:    result.Card.Last4,
		ExpMonth: result.Card.ExpMonth,
		ExpYear:  result.Card.ExpYear,
	}, nil
}
