// internal/delivery/telegram/client.go
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

// Client is a thin HTTP wrapper over the Telegram Bot API. No SDK: the bot
// uses a handful of methods and owns its own wire types.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: "https://api.telegram.org/bot" + token + "/",
	}
}

// call posts a JSON payload to one Bot API method and returns the raw result.
func (c *Client) call(ctx context.Context, method string, payload interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+method, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	return decodeResponse(method, resp.Body)
}

func decodeResponse(method string, r io.Reader) (json.RawMessage, error) {
	var api apiResponse
	if err := json.NewDecoder(r).Decode(&api); err != nil {
		return nil, fmt.Errorf("telegram %s: decode: %w", method, err)
	}
	if !api.OK {
		return nil, fmt.Errorf("telegram %s: API error %d: %s", method, api.ErrorCode, api.Description)
	}
	return api.Result, nil
}

// SendMessage sends text (HTML parse mode) and returns the created message.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, markup *InlineKeyboardMarkup) (*Message, error) {
	result, err := c.call(ctx, "sendMessage", sendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   "HTML",
		ReplyMarkup: markup,
	})
	if err != nil {
		return nil, err
	}

	var msg Message
	if err := json.Unmarshal(result, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// EditMessageText replaces the text of an existing message.
func (c *Client) EditMessageText(ctx context.Context, chatID, messageID int64, text string) error {
	_, err := c.call(ctx, "editMessageText", editMessageTextRequest{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: "HTML",
	})
	return err
}

// DeleteMessage removes a message, e.g. the "searching..." placeholder.
func (c *Client) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	_, err := c.call(ctx, "deleteMessage", deleteMessageRequest{
		ChatID:    chatID,
		MessageID: messageID,
	})
	return err
}

// AnswerCallback acknowledges a button press; text is shown as a toast.
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	_, err := c.call(ctx, "answerCallbackQuery", answerCallbackRequest{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	return err
}

// SetMyCommands registers the command menu shown by Telegram clients.
func (c *Client) SetMyCommands(ctx context.Context, commands map[string]string, order []string) error {
	req := setMyCommandsRequest{}
	for _, name := range order {
		req.Commands = append(req.Commands, botCommand{
			Command:     name,
			Description: commands[name],
		})
	}
	_, err := c.call(ctx, "setMyCommands", req)
	return err
}

// GetUpdates long-polls for updates past offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]Update, error) {
	result, err := c.call(ctx, "getUpdates", map[string]interface{}{
		"offset":  offset,
		"timeout": timeoutSec,
	})
	if err != nil {
		return nil, err
	}

	var updates []Update
	if err := json.Unmarshal(result, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendPhoto uploads a PNG with a caption and inline keyboard, returning the
// created message.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, png []byte, caption string, markup *InlineKeyboardMarkup) (*Message, error) {
	fields := map[string]string{
		"chat_id":    strconv.FormatInt(chatID, 10),
		"caption":    caption,
		"parse_mode": "HTML",
	}
	if markup != nil {
		data, err := json.Marshal(markup)
		if err != nil {
			return nil, err
		}
		fields["reply_markup"] = string(data)
	}

	result, err := c.multipart(ctx, "sendPhoto", "photo", png, fields)
	if err != nil {
		return nil, err
	}

	var msg Message
	if err := json.Unmarshal(result, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// EditMessageMedia swaps the photo and caption of an existing message.
// Navigation uses this so the chart message stays in place. The keyboard
// must be resent: omitting it would strip the buttons.
func (c *Client) EditMessageMedia(ctx context.Context, chatID, messageID int64, png []byte, caption string, markup *InlineKeyboardMarkup) error {
	media, err := json.Marshal(inputMediaPhoto{
		Type:      "photo",
		Media:     "attach://chart",
		Caption:   caption,
		ParseMode: "HTML",
	})
	if err != nil {
		return err
	}

	fields := map[string]string{
		"chat_id":    strconv.FormatInt(chatID, 10),
		"message_id": strconv.FormatInt(messageID, 10),
		"media":      string(media),
	}
	if markup != nil {
		data, err := json.Marshal(markup)
		if err != nil {
			return err
		}
		fields["reply_markup"] = string(data)
	}

	_, err = c.multipart(ctx, "editMessageMedia", "chart", png, fields)
	return err
}

// multipart posts one file part plus form fields to a Bot API method.
func (c *Client) multipart(ctx context.Context, method, fileField string, file []byte, fields map[string]string) (json.RawMessage, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, err
		}
	}

	part, err := writer.CreateFormFile(fileField, "chart.png")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(file); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+method, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	return decodeResponse(method, resp.Body)
}
