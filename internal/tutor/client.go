// Package tutor calls an external AI feedback service for richer tutoring
// text. The service is strictly optional: every failure path falls back to
// a deterministic local line, never to an error.
package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// FeedbackRequest describes one graded answer for the tutoring prompt.
type FeedbackRequest struct {
	Prompt        string  `json:"prompt"`
	ChallengeType string  `json:"challenge_type"`
	Answer        float64 `json:"answer"`
	CorrectAnswer float64 `json:"correct_answer"`
	Accuracy      float64 `json:"accuracy"`
}

type feedbackResponse struct {
	Feedback string `json:"feedback"`
}

func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: logger,
	}
}

// Feedback returns tutoring text for a graded answer. When the upstream
// service is unconfigured, unreachable or returns garbage, the local
// fallback line is returned instead; the error return stays nil in every
// case because feedback must never fail the grading operation.
func (c *Client) Feedback(ctx context.Context, req FeedbackRequest) string {
	if c == nil || c.baseURL == "" {
		return localFeedback(req)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return localFeedback(req)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/feedback", bytes.NewReader(body))
	if err != nil {
		return localFeedback(req)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Warn("tutor service unreachable, using local feedback", "err", err)
		return localFeedback(req)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.log.Warn("tutor service error, using local feedback",
			"status", resp.StatusCode, "body", strings.TrimSpace(string(b)))
		return localFeedback(req)
	}
	var out feedbackResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || strings.TrimSpace(out.Feedback) == "" {
		return localFeedback(req)
	}
	return out.Feedback
}

// localFeedback is the deterministic fallback: an exact-match correctness
// check phrased as a short tutoring line.
func localFeedback(req FeedbackRequest) string {
	if int64(req.Answer) == int64(req.CorrectAnswer) {
		return fmt.Sprintf("Correct: %.2f. You nailed the %s formula.", req.CorrectAnswer, strings.ReplaceAll(req.ChallengeType, "_", " "))
	}
	return fmt.Sprintf("Your answer %.2f misses the mark; the exact figure is %.2f. Rework the %s formula step by step.",
		req.Answer, req.CorrectAnswer, strings.ReplaceAll(req.ChallengeType, "_", " "))
}
