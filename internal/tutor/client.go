package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const fallbackMessage = "Something went wrong. Please try again."

// Client posts questions to an /ask endpoint. It also satisfies Answerer,
// so one server can forward to another.
type Client struct {
	Endpoint string
	HTTP     *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		Endpoint: endpoint,
		HTTP:     &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) Answer(ctx context.Context, algorithm, question string) (string, error) {
	if strings.TrimSpace(c.Endpoint) == "" {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(question) == "" || strings.TrimSpace(algorithm) == "" {
		return "", ErrMissingFields
	}

	body, err := json.Marshal(Request{Question: question, AlgorithmName: algorithm})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("tutor: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("tutor: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("tutor: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e ErrorResponse
		_ = json.Unmarshal(raw, &e)
		return "", &UpstreamError{Status: resp.StatusCode, Message: e.Error}
	}

	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("tutor: decode response: %w", err)
	}
	return out.Answer, nil
}

// Ask returns the answer, or a message describing why there is none.
// The second result reports whether the first is an answer.
func (c *Client) Ask(ctx context.Context, algorithm, question string) (string, bool) {
	answer, err := c.Answer(ctx, algorithm, question)
	if err != nil {
		return DisplayMessage(err), false
	}
	return answer, true
}

// DisplayMessage turns an Answer error into text for the user.
func DisplayMessage(err error) string {
	var up *UpstreamError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotConfigured):
		return "The tutor is not configured."
	case errors.Is(err, ErrMissingFields):
		return "Please enter a question."
	case errors.As(err, &up) && up.Message != "":
		return up.Message
	case errors.As(err, &up):
		return "Failed to get answer"
	default:
		return fallbackMessage
	}
}
