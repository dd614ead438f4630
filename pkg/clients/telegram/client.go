// Package telegram is a minimal Telegram Bot API client covering the calls
// the reporting backend makes: text messages, photo uploads, media albums and
// webhook management.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.telegram.org"

// parseMode used for every outbound message; formatters emit Telegram HTML.
const parseMode = "HTML"

// Client exposes the Bot API operations used by the application.
type Client interface {
	SendMessage(ctx context.Context, req SendMessageRequest) error
	SendPhoto(ctx context.Context, req SendPhotoRequest) error
	SendMediaGroup(ctx context.Context, req SendMediaGroupRequest) error
	AnswerCallbackQuery(ctx context.Context, queryID, text string) error
	SetWebhook(ctx context.Context, url string) error
	DeleteWebhook(ctx context.Context) error
	GetWebhookInfo(ctx context.Context) (WebhookInfo, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// Option adjusts client construction, mainly for tests.
type Option func(*APIClient)

// WithBaseURL points the client at a different API host.
func WithBaseURL(base string) Option {
	return func(c *APIClient) {
		c.httpClient.SetBaseURL(base)
	}
}

// NewClient builds a Bot API client for the given bot token. Connection
// establishment is bounded separately from the per-call deadline the caller
// sets through the context.
func NewClient(token string, opts ...Option) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(fmt.Sprintf("%s/bot%s", defaultBaseURL, token)).
		SetTransport(&http.Transport{
			DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		})

	c := &APIClient{httpClient: restyClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendMessageRequest is a plain text message, optionally routed to a forum
// topic and optionally carrying an inline keyboard.
type SendMessageRequest struct {
	ChatID      string
	Text        string
	TopicID     int
	ReplyMarkup any
}

// SendPhotoRequest is a single photo with an HTML caption. Either Path or
// Content must be set.
type SendPhotoRequest struct {
	ChatID   string
	Caption  string
	TopicID  int
	Path     string
	Content  []byte
	Filename string
}

// AlbumPhoto is one in-memory image of a media group.
type AlbumPhoto struct {
	Filename    string
	Content     []byte
	ContentType string
}

// SendMediaGroupRequest is an album of up to ten photos; the caption attaches
// to the first photo only, which is how Telegram renders album captions.
type SendMediaGroupRequest struct {
	ChatID  string
	Caption string
	TopicID int
	Photos  []AlbumPhoto
}

// WebhookInfo mirrors the getWebhookInfo result fields the backend inspects.
type WebhookInfo struct {
	URL                  string `json:"url"`
	PendingUpdateCount   int    `json:"pending_update_count"`
	LastErrorDate        int64  `json:"last_error_date"`
	LastErrorMessage     string `json:"last_error_message"`
	MaxConnections       int    `json:"max_connections"`
	IPAddress            string `json:"ip_address"`
	HasCustomCertificate bool   `json:"has_custom_certificate"`
}

// apiResponse is the envelope every Bot API method answers with.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	ErrorCode   int             `json:"error_code"`
	Result      json.RawMessage `json:"result"`
}

func (c *APIClient) SendMessage(ctx context.Context, req SendMessageRequest) error {
	form := map[string]string{
		"chat_id":    req.ChatID,
		"text":       req.Text,
		"parse_mode": parseMode,
	}
	if req.TopicID > 0 {
		form["message_thread_id"] = strconv.Itoa(req.TopicID)
	}
	if req.ReplyMarkup != nil {
		markup, err := json.Marshal(req.ReplyMarkup)
		if err != nil {
			return fmt.Errorf("marshal reply markup: %w", err)
		}
		form["reply_markup"] = string(markup)
	}

	return c.post(ctx, "/sendMessage", func(r *resty.Request) {
		r.SetFormData(form)
	})
}

func (c *APIClient) SendPhoto(ctx context.Context, req SendPhotoRequest) error {
	content := req.Content
	filename := req.Filename
	if content == nil {
		data, err := os.ReadFile(req.Path)
		if err != nil {
			return fmt.Errorf("read photo %s: %w", req.Path, err)
		}
		content = data
		if filename == "" {
			filename = filepath.Base(req.Path)
		}
	}
	if filename == "" {
		filename = "photo.jpg"
	}

	form := map[string]string{
		"chat_id":    req.ChatID,
		"caption":    req.Caption,
		"parse_mode": parseMode,
	}
	if req.TopicID > 0 {
		form["message_thread_id"] = strconv.Itoa(req.TopicID)
	}

	return c.post(ctx, "/sendPhoto", func(r *resty.Request) {
		r.SetFormData(form)
		r.SetFileReader("photo", filename, bytes.NewReader(content))
	})
}

func (c *APIClient) SendMediaGroup(ctx context.Context, req SendMediaGroupRequest) error {
	type mediaItem struct {
		Type      string `json:"type"`
		Media     string `json:"media"`
		Caption   string `json:"caption,omitempty"`
		ParseMode string `json:"parse_mode,omitempty"`
	}

	media := make([]mediaItem, 0, len(req.Photos))
	for i := range req.Photos {
		item := mediaItem{
			Type:  "photo",
			Media: fmt.Sprintf("attach://photo_%d", i),
		}
		if i == 0 {
			item.Caption = req.Caption
			item.ParseMode = parseMode
		}
		media = append(media, item)
	}

	mediaJSON, err := json.Marshal(media)
	if err != nil {
		return fmt.Errorf("marshal media group: %w", err)
	}

	form := map[string]string{
		"chat_id": req.ChatID,
		"media":   string(mediaJSON),
	}
	if req.TopicID > 0 {
		form["message_thread_id"] = strconv.Itoa(req.TopicID)
	}

	return c.post(ctx, "/sendMediaGroup", func(r *resty.Request) {
		r.SetFormData(form)
		for i, photo := range req.Photos {
			name := photo.Filename
			if name == "" {
				name = fmt.Sprintf("photo_%d.jpg", i)
			}
			r.SetFileReader(fmt.Sprintf("photo_%d", i), name, bytes.NewReader(photo.Content))
		}
	})
}

func (c *APIClient) AnswerCallbackQuery(ctx context.Context, queryID, text string) error {
	return c.post(ctx, "/answerCallbackQuery", func(r *resty.Request) {
		r.SetFormData(map[string]string{
			"callback_query_id": queryID,
			"text":              text,
		})
	})
}

func (c *APIClient) SetWebhook(ctx context.Context, url string) error {
	allowed, _ := json.Marshal([]string{"message", "callback_query"})
	return c.post(ctx, "/setWebhook", func(r *resty.Request) {
		r.SetFormData(map[string]string{
			"url":             url,
			"allowed_updates": string(allowed),
		})
	})
}

func (c *APIClient) DeleteWebhook(ctx context.Context) error {
	return c.post(ctx, "/deleteWebhook", func(r *resty.Request) {})
}

func (c *APIClient) GetWebhookInfo(ctx context.Context) (WebhookInfo, error) {
	result := new(apiResponse)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(result).
		Get("/getWebhookInfo")
	if err != nil {
		return WebhookInfo{}, fmt.Errorf("get webhook info: %w", err)
	}
	if err := checkResponse(resp, result); err != nil {
		return WebhookInfo{}, err
	}

	var info WebhookInfo
	if err := json.Unmarshal(result.Result, &info); err != nil {
		return WebhookInfo{}, fmt.Errorf("decode webhook info: %w", err)
	}
	return info, nil
}

// post runs one Bot API call and folds transport, HTTP and protocol-level
// failures into a single error.
func (c *APIClient) post(ctx context.Context, path string, build func(*resty.Request)) error {
	result := new(apiResponse)

	req := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(result)
	build(req)

	resp, err := req.Post(path)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", path, err)
	}
	return checkResponse(resp, result)
}

func checkResponse(resp *resty.Response, result *apiResponse) error {
	if resp.StatusCode() >= http.StatusBadRequest || !result.OK {
		code := result.ErrorCode
		if code == 0 {
			code = resp.StatusCode()
		}
		return fmt.Errorf("telegram api error: code=%d, description=%s", code, result.Description)
	}
	return nil
}
