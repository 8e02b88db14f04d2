// Package telegram implements the outbound messaging channel and the inbound
// update stream over the Telegram Bot API, using plain net/http. The matching
// core only depends on the Send method; the rest serves the intake bot.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/pawtrail/petmatch-backend/internal/config"
	"github.com/pawtrail/petmatch-backend/internal/domain"
)

// Client talks to the Telegram Bot API.
type Client struct {
	httpClient  *http.Client
	pollClient  *http.Client
	baseURL     string
	token       string
	pollTimeout time.Duration
}

// New creates a Bot API client from config.
func New(cfg config.TelegramConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.SendTimeout},
		// Long-poll requests block up to PollTimeout server-side; give the
		// transport headroom on top of that.
		pollClient:  &http.Client{Timeout: cfg.PollTimeout + 10*time.Second},
		baseURL:     cfg.APIBaseURL,
		token:       cfg.Token,
		pollTimeout: cfg.PollTimeout,
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
	ErrorCode   int             `json:"error_code"`
}

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type inlineKeyboard struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

type replyButton struct {
	Text string `json:"text"`
}

type replyKeyboard struct {
	Keyboard       [][]replyButton `json:"keyboard"`
	ResizeKeyboard bool            `json:"resize_keyboard"`
}

type replyKeyboardRemove struct {
	RemoveKeyboard bool `json:"remove_keyboard"`
}

// Send delivers a text message with optional inline actions to a chat.
// A nil actions slice sends plain text. Transient API failures get one
// bounded retry; a hard failure is returned to the caller, which for the
// notifier means the pair stays unrecorded and is retried next sweep.
func (c *Client) Send(ctx context.Context, chatID int64, text string, actions []domain.Action) error {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if len(actions) > 0 {
		row := make([]inlineButton, len(actions))
		for i, a := range actions {
			row[i] = inlineButton{Text: a.Label, CallbackData: a.Data}
		}
		payload["reply_markup"] = inlineKeyboard{InlineKeyboard: [][]inlineButton{row}}
	}

	_, err := c.call(ctx, c.httpClient, "sendMessage", payload)
	return err
}

// SendReplyKeyboard delivers a message with a one-column reply keyboard.
func (c *Client) SendReplyKeyboard(ctx context.Context, chatID int64, text string, buttons []string) error {
	rows := make([][]replyButton, len(buttons))
	for i, b := range buttons {
		rows[i] = []replyButton{{Text: b}}
	}

	_, err := c.call(ctx, c.httpClient, "sendMessage", map[string]any{
		"chat_id":      chatID,
		"text":         text,
		"reply_markup": replyKeyboard{Keyboard: rows, ResizeKeyboard: true},
	})
	return err
}

// SendRemoveKeyboard delivers a message and removes any active reply keyboard.
func (c *Client) SendRemoveKeyboard(ctx context.Context, chatID int64, text string) error {
	_, err := c.call(ctx, c.httpClient, "sendMessage", map[string]any{
		"chat_id":      chatID,
		"text":         text,
		"reply_markup": replyKeyboardRemove{RemoveKeyboard: true},
	})
	return err
}

// Updates long-polls getUpdates starting after the given offset.
// Returns an empty slice on poll timeout, not an error.
func (c *Client) Updates(ctx context.Context, offset int64) ([]Update, error) {
	result, err := c.call(ctx, c.pollClient, "getUpdates", map[string]any{
		"offset":  offset,
		"timeout": int(c.pollTimeout.Seconds()),
	})
	if err != nil {
		return nil, err
	}

	var updates []Update
	if err := json.Unmarshal(result, &updates); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	return updates, nil
}

// AnswerCallback acknowledges a button press so the client stops its spinner.
func (c *Client) AnswerCallback(ctx context.Context, callbackID string) error {
	_, err := c.call(ctx, c.httpClient, "answerCallbackQuery", map[string]any{
		"callback_query_id": callbackID,
	})
	return err
}

type fileInfo struct {
	FilePath string `json:"file_path"`
}

// DownloadFile fetches the raw bytes of an uploaded file (getFile + download).
func (c *Client) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	result, err := c.call(ctx, c.httpClient, "getFile", map[string]any{"file_id": fileID})
	if err != nil {
		return nil, err
	}

	var info fileInfo
	if err := json.Unmarshal(result, &info); err != nil {
		return nil, fmt.Errorf("decode file info: %w", err)
	}

	url := c.baseURL + "/file/bot" + c.token + "/" + info.FilePath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file %s: status %d", fileID, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// apiError carries a Bot API failure for retry classification.
type apiError struct {
	code        int
	description string
}

func (e *apiError) Error() string {
	return "telegram api error " + strconv.Itoa(e.code) + ": " + e.description
}

func (c *Client) call(ctx context.Context, client *http.Client, method string, payload map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", method, err)
	}

	return retry.DoWithData(
		func() (json.RawMessage, error) {
			return c.doCall(ctx, client, method, body)
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(300*time.Millisecond),
		retry.MaxJitter(200*time.Millisecond),
		retry.RetryIf(isRetryableError),
		retry.LastErrorOnly(true),
	)
}

func (c *Client) doCall(ctx context.Context, client *http.Client, method string, body []byte) (json.RawMessage, error) {
	url := c.baseURL + "/bot" + c.token + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", method, err)
	}

	var api apiResponse
	if err := json.Unmarshal(respBody, &api); err != nil {
		return nil, fmt.Errorf("%s: decode response (status %d): %w", method, resp.StatusCode, err)
	}
	if !api.OK {
		return nil, &apiError{code: api.ErrorCode, description: api.Description}
	}

	return api.Result, nil
}

// isRetryableError returns true for transient failures worth one more attempt.
// Bot API 4xx (bad request, blocked by user) is permanent.
func isRetryableError(err error) bool {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.code == http.StatusTooManyRequests || ae.code >= 500
	}
	return true
}
