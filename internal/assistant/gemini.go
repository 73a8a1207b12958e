package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/hsabsaboun/backend/internal/finance"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel         = "gemini-2.5-flash"
	maxSuggestions       = 3
)

// GeminiClient calls the Gemini generateContent API with a JSON response
// schema for each assistant feature.
type GeminiClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger

	attempts   uint
	retryDelay time.Duration
}

// NewGeminiClient creates a new Gemini client. An empty model selects DefaultModel.
func NewGeminiClient(apiKey, model string, logger *slog.Logger) *GeminiClient {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiClient{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL:    defaultGeminiBaseURL,
		logger:     logger.With("component", "gemini"),
		attempts:   3,
		retryDelay: time.Second,
	}
}

// Interpret asks the model what the user's message means for their finances.
// The returned action is always one of the known actions.
func (c *GeminiClient) Interpret(ctx context.Context, text string, state finance.State, today time.Time) (Response, error) {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return Fallback(), fmt.Errorf("marshal state: %w", err)
	}

	prompt := fmt.Sprintf(`الحالة المالية الحالية:
%s

طلب المستخدم: %q

حلل الطلب والحالة، وخرج الجواب ب JSON حسب الـ schema.`, stateJSON, text)

	var resp Response
	if err := c.generate(ctx, agentSystemInstruction(today), prompt, interpretSchema, &resp); err != nil {
		return Fallback(), err
	}

	switch resp.Action {
	case ActionAddIncomeSource, ActionAddExpense, ActionSetGoal, ActionDeleteExpense, ActionGeneralResponse:
	default:
		c.logger.Warn("unknown action from model", "action", resp.Action)
		resp.Action = ActionGeneralResponse
	}
	if strings.TrimSpace(resp.ResponseMessage) == "" {
		resp.ResponseMessage = FallbackMessage
	}
	return resp, nil
}

// PublicAdvice answers a general money question from a visitor.
func (c *GeminiClient) PublicAdvice(ctx context.Context, text string, history []finance.ChatMessage) (PublicResponse, error) {
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return PublicResponse{ResponseMessage: PublicFallbackMessage}, fmt.Errorf("marshal history: %w", err)
	}

	prompt := fmt.Sprintf(`تاريخ المحادثة:
%s

سؤال المستخدم الجديد: %q

جاوب على السؤال وعطي اقتراحات ب JSON حسب الـ schema.`, historyJSON, text)

	var resp PublicResponse
	if err := c.generate(ctx, publicInstruction, prompt, publicSchema, &resp); err != nil {
		return PublicResponse{ResponseMessage: PublicFallbackMessage}, err
	}
	if len(resp.Suggestions) > maxSuggestions {
		resp.Suggestions = resp.Suggestions[:maxSuggestions]
	}
	if resp.Suggestions == nil {
		resp.Suggestions = []string{}
	}
	return resp, nil
}

// SplitSalary proposes how to allocate a monthly salary. Fixed expenses with
// an empty name or a non-positive amount are ignored.
func (c *GeminiClient) SplitSalary(ctx context.Context, req SplitRequest) (SplitResponse, error) {
	if req.Salary <= 0 {
		return SplitResponse{}, &Error{Code: ErrInvalidArguments, Message: "salary must be greater than zero"}
	}
	if strings.TrimSpace(req.City) == "" {
		req.City = "Casablanca"
	}

	fixed := make([]FixedExpense, 0, len(req.FixedExpenses))
	for _, e := range req.FixedExpenses {
		if strings.TrimSpace(e.Name) != "" && e.Amount > 0 {
			fixed = append(fixed, FixedExpense{Name: strings.TrimSpace(e.Name), Amount: e.Amount})
		}
	}
	fixedJSON, err := json.Marshal(fixed)
	if err != nil {
		return SplitResponse{}, fmt.Errorf("marshal fixed expenses: %w", err)
	}

	prompt := fmt.Sprintf(`الأجرة الشهرية: %.2f درهم
المدينة: %s
المصاريف الثابتة: %s
الأهداف: %s`, req.Salary, req.City, fixedJSON, req.Goals)

	var resp SplitResponse
	if err := c.generate(ctx, splitInstruction, prompt, splitSchema, &resp); err != nil {
		return SplitResponse{}, err
	}
	if resp.Allocations == nil {
		resp.Allocations = []Allocation{}
	}
	if resp.Warnings == nil {
		resp.Warnings = []string{}
	}
	return resp, nil
}

// generate calls the model and decodes its JSON reply into out, retrying
// transient failures.
func (c *GeminiClient) generate(ctx context.Context, system, prompt string, schema map[string]interface{}, out interface{}) error {
	if c.apiKey == "" {
		return &Error{Code: ErrNotConfigured, Message: "Gemini API key not configured"}
	}

	reqBody := map[string]interface{}{
		"systemInstruction": map[string]interface{}{
			"parts": []map[string]interface{}{
				{"text": system},
			},
		},
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":      0.4,
			"responseMimeType": "application/json",
			"responseSchema":   schema,
		},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	var text string
	err = retry.Do(
		func() error {
			var callErr error
			text, callErr = c.call(ctx, bodyBytes)
			return callErr
		},
		retry.RetryIf(func(err error) bool {
			var aerr *Error
			if errors.As(err, &aerr) && aerr.Retryable {
				c.logger.Warn("gemini call failed, will retry", "code", aerr.Code, "error", err)
				return true
			}
			return false
		}),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(text), out); err != nil {
		return &Error{
			Code:    ErrMalformedReply,
			Message: fmt.Sprintf("parse reply (text: %s)", text[:min(len(text), 200)]),
			Cause:   err,
		}
	}
	return nil
}

// call performs one generateContent request and returns the text of the
// first candidate with any markdown fences removed.
func (c *GeminiClient) call(ctx context.Context, body []byte) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Code: ErrUnavailable, Message: "Gemini API call failed", Retryable: ctx.Err() == nil, Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Code: ErrUnavailable, Message: "read response", Retryable: true, Cause: err}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &Error{Code: ErrRateLimited, Message: "Gemini API rate limited", Retryable: true}
	case resp.StatusCode >= http.StatusInternalServerError:
		return "", &Error{Code: ErrUnavailable, Message: fmt.Sprintf("Gemini API error %d: %s", resp.StatusCode, snippet(respBody)), Retryable: true}
	case resp.StatusCode != http.StatusOK:
		return "", &Error{Code: ErrRejected, Message: fmt.Sprintf("Gemini API error %d: %s", resp.StatusCode, snippet(respBody))}
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &geminiResp); err != nil {
		return "", &Error{Code: ErrMalformedReply, Message: "parse Gemini response", Cause: err}
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", &Error{Code: ErrMalformedReply, Message: "empty Gemini response"}
	}

	text := geminiResp.Candidates[0].Content.Parts[0].Text
	// Strip markdown code fences if present
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text), nil
}

func snippet(b []byte) string {
	return string(b[:min(len(b), 200)])
}
