package whatsapp

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"SaborBot/bot/chat"
	"SaborBot/internal/lib/sl"
)

const graphAPIURL = "https://graph.facebook.com/v21.0"

// MessageHandler receives normalized inbound messages.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg chat.Message) error
}

// WhatsAppBot handles WhatsApp messaging via the Graph API. It implements
// chat.Messenger and chat.ContactLookup for the conversation engine.
type WhatsAppBot struct {
	log           *slog.Logger
	accessToken   string
	verifyToken   string
	appSecret     string
	phoneNumberID string
	suffix        string
	handler       MessageHandler
	httpClient    *http.Client

	mu    sync.RWMutex
	names map[string]string

	ready   atomic.Bool
	onReady func(bool)
}

// WebhookPayload represents the incoming webhook payload from WhatsApp
type WebhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Value struct {
				MessagingProduct string `json:"messaging_product"`
				Metadata         struct {
					DisplayPhoneNumber string `json:"display_phone_number"`
					PhoneNumberID      string `json:"phone_number_id"`
				} `json:"metadata"`
				Contacts []struct {
					Profile struct {
						Name string `json:"name"`
					} `json:"profile"`
					WaID string `json:"wa_id"`
				} `json:"contacts"`
				Messages []struct {
					From      string `json:"from"`
					ID        string `json:"id"`
					Timestamp string `json:"timestamp"`
					Type      string `json:"type"`
					Text      *struct {
						Body string `json:"body"`
					} `json:"text,omitempty"`
				} `json:"messages"`
			} `json:"value"`
			Field string `json:"field"`
		} `json:"changes"`
	} `json:"entry"`
}

// SendMessageRequest represents the request body for sending a text message
type SendMessageRequest struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		PreviewURL bool   `json:"preview_url"`
		Body       string `json:"body"`
	} `json:"text"`
}

// NewWhatsAppBot creates a new WhatsApp bot instance
func NewWhatsAppBot(accessToken, verifyToken, appSecret, phoneNumberID, suffix string, log *slog.Logger) *WhatsAppBot {
	return &WhatsAppBot{
		log:           log.With(sl.Module("whatsappbot")),
		accessToken:   accessToken,
		verifyToken:   verifyToken,
		appSecret:     appSecret,
		phoneNumberID: phoneNumberID,
		suffix:        suffix,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		names:         make(map[string]string),
	}
}

// SetHandler sets the sink for inbound messages.
func (b *WhatsAppBot) SetHandler(handler MessageHandler) {
	b.handler = handler
}

// SetReadyCallback sets a hook fired once when the webhook first goes live.
func (b *WhatsAppBot) SetReadyCallback(fn func(bool)) {
	b.onReady = fn
}

// Ready reports whether the webhook has been verified by Meta.
func (b *WhatsAppBot) Ready() bool {
	return b.ready.Load()
}

func (b *WhatsAppBot) markReady() {
	if b.ready.CompareAndSwap(false, true) && b.onReady != nil {
		b.onReady(true)
	}
}

// HandleWebhookVerification handles the GET request for webhook verification
func (b *WhatsAppBot) HandleWebhookVerification(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == b.verifyToken {
		b.log.Info("webhook verified")
		b.markReady()
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}

	b.log.Warn("webhook verification failed",
		slog.String("mode", mode),
		slog.Bool("token_match", token == b.verifyToken),
	)
	http.Error(w, "Forbidden", http.StatusForbidden)
}

// HandleWebhook handles incoming webhook POST requests
func (b *WhatsAppBot) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		b.log.Error("failed to read request body", sl.Err(err))
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Verify signature if app secret is configured
	if b.appSecret != "" {
		signature := r.Header.Get("X-Hub-Signature-256")
		if !b.verifySignature(body, signature) {
			b.log.Warn("invalid webhook signature")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
	}

	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		b.log.Error("failed to parse webhook payload", sl.Err(err))
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	// Always respond with 200 OK to acknowledge receipt
	w.WriteHeader(http.StatusOK)
	b.markReady()

	// Process messages asynchronously
	go b.processPayload(payload)
}

// processPayload routes inbound text messages into the conversation engine.
func (b *WhatsAppBot) processPayload(payload WebhookPayload) {
	if payload.Object != "whatsapp_business_account" {
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}

			for _, contact := range change.Value.Contacts {
				if contact.Profile.Name != "" {
					b.rememberName(contact.WaID+b.suffix, contact.Profile.Name)
				}
			}

			for _, message := range change.Value.Messages {
				if message.Type != "text" || message.Text == nil || message.Text.Body == "" {
					continue
				}
				if b.handler == nil {
					continue
				}

				msg := chat.Message{
					From: message.From + b.suffix,
					Body: message.Text.Body,
					ID:   message.ID,
				}

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if err := b.handler.HandleMessage(ctx, msg); err != nil {
					b.log.Error("handling inbound message",
						slog.String("chat_id", msg.From),
						slog.String("message_id", msg.ID),
						sl.Err(err),
					)
				}
				cancel()
			}
		}
	}
}

func (b *WhatsAppBot) rememberName(chatID, name string) {
	b.mu.Lock()
	b.names[chatID] = name
	b.mu.Unlock()
}

// DisplayName returns the contact's push name seen on the last webhook, or
// "" when the contact never messaged this process.
func (b *WhatsAppBot) DisplayName(chatID string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.names[chatID]
}

// IsRegistered reports whether the chat id looks deliverable. The Cloud API
// has no cheap lookup; delivery failures surface on send instead.
func (b *WhatsAppBot) IsRegistered(chatID string) (bool, error) {
	if chat.PhoneDigits(chatID) == "" {
		return false, nil
	}
	return true, nil
}

// SendText sends a text message through the Graph API. The chat id suffix
// is stripped back to the bare wa_id.
func (b *WhatsAppBot) SendText(chatID, text string) error {
	reqBody := SendMessageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               b.waID(chatID),
		Type:             "text",
	}
	reqBody.Text.PreviewURL = false
	reqBody.Text.Body = text

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", graphAPIURL, b.phoneNumberID)
	if err := b.post(url, "application/json", bytes.NewBuffer(jsonBody), nil); err != nil {
		return err
	}

	b.log.Debug("message sent", slog.String("chat_id", chatID))
	return nil
}

// SendFile uploads the document to the media endpoint and sends it as a
// document message.
func (b *WhatsAppBot) SendFile(chatID string, file chat.FileMessage) error {
	mediaID, err := b.uploadMedia(file)
	if err != nil {
		return fmt.Errorf("uploading media: %w", err)
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                b.waID(chatID),
		"type":              "document",
		"document": map[string]string{
			"id":       mediaID,
			"filename": file.Filename,
			"caption":  file.Caption,
		},
	}
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", graphAPIURL, b.phoneNumberID)
	if err := b.post(url, "application/json", bytes.NewBuffer(jsonBody), nil); err != nil {
		return err
	}

	b.log.Debug("document sent", slog.String("chat_id", chatID), slog.String("filename", file.Filename))
	return nil
}

func (b *WhatsAppBot) uploadMedia(file chat.FileMessage) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("messaging_product", "whatsapp"); err != nil {
		return "", err
	}
	part, err := writer.CreateFormFile("file", file.Filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file.Reader); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	var reply struct {
		ID string `json:"id"`
	}
	url := fmt.Sprintf("%s/%s/media", graphAPIURL, b.phoneNumberID)
	if err := b.post(url, writer.FormDataContentType(), &buf, &reply); err != nil {
		return "", err
	}
	if reply.ID == "" {
		return "", fmt.Errorf("media upload returned no id")
	}
	return reply.ID, nil
}

func (b *WhatsAppBot) post(url, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+b.accessToken)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (b *WhatsAppBot) waID(chatID string) string {
	return strings.TrimSuffix(chatID, b.suffix)
}

// verifySignature verifies the X-Hub-Signature-256 header
func (b *WhatsAppBot) verifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}

	// Signature format: "sha256=<hex_signature>"
	if len(signature) < 8 || signature[:7] != "sha256=" {
		return false
	}

	expectedSig := signature[7:]
	mac := hmac.New(sha256.New, []byte(b.appSecret))
	mac.Write(body)
	actualSig := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expectedSig), []byte(actualSig))
}
