// Package notifier delivers the month-start digest over the Telegram Bot
// API: one summary message plus the archive and full export as documents.
package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"usd2rials/models"
)

var log = logrus.WithField("component", "notifier")

const defaultAPIBase = "https://api.telegram.org"

// Telegram sends messages and files to a fixed chat.
type Telegram struct {
	BotToken string
	ChatID   string
	APIBase  string
	Client   *http.Client

	// Files attached to the digest, sent independently of each other.
	Attachments []string
}

// NewTelegram creates a notifier for the given credentials and attachment
// set. The Bot API has no explicit timeout requirement here, but a stuck
// upload should not hang the run indefinitely.
func NewTelegram(botToken, chatID string, attachments ...string) *Telegram {
	return &Telegram{
		BotToken:    botToken,
		ChatID:      chatID,
		APIBase:     defaultAPIBase,
		Client:      &http.Client{Timeout: 2 * time.Minute},
		Attachments: attachments,
	}
}

func (t *Telegram) Name() string { return "telegram" }

// Attempt sends the digest for the latest observation. Skips with an error
// when credentials are incomplete. Attachment failures are logged per file
// and do not stop the remaining uploads; only the summary message failing
// is reported to the caller.
func (t *Telegram) Attempt(latest models.Observation, rowCount int) error {
	if t.BotToken == "" || t.ChatID == "" {
		return fmt.Errorf("bot token or chat id not configured")
	}

	text := fmt.Sprintf("📊 گزارش ماهانه قیمت دلار\n\nتاریخ شمسی: %s\nتاریخ میلادی: %s\nقیمت ثبت شده: %s ریال\nتعداد رکوردها: %d",
		latest.DatePersian, latest.DateGregorian, humanize.Comma(int64(latest.PriceAvg)), rowCount)
	if err := t.SendMessage(text); err != nil {
		return err
	}

	for _, path := range t.Attachments {
		if err := t.SendDocument(path); err != nil {
			log.Warnf("sending %s: %v", path, err)
		}
	}
	return nil
}

// SendMessage posts one text message to the configured chat.
func (t *Telegram) SendMessage(text string) error {
	payload := map[string]string{
		"chat_id": t.ChatID,
		"text":    text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := t.Client.Post(t.methodURL("sendMessage"), "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	return checkResponse(resp)
}

// SendDocument uploads one file to the configured chat.
func (t *Telegram) SendDocument(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("chat_id", t.ChatID); err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	part, err := mw.CreateFormFile("document", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("read attachment: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("build form: %w", err)
	}

	resp, err := t.Client.Post(t.methodURL("sendDocument"), mw.FormDataContentType(), &buf)
	if err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	defer resp.Body.Close()
	return checkResponse(resp)
}

func (t *Telegram) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", t.APIBase, t.BotToken, method)
}

func checkResponse(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(body))
}
