// Package provider is the WhatsApp Cloud (Graph) API client. Three calls are
// consumed: send a text message, resolve a media id to its download URL, and
// fetch media bytes from that URL. All three carry the bearer credential and
// all three are fallible; retry policy belongs to callers.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"subcast/internal/boot"
	"subcast/internal/model"
)

type Client struct {
	baseURL string
	phoneID string
	token   string
	http    *http.Client
}

func New(config *boot.Config) *Client {
	return &Client{
		baseURL: config.WhatsApp.BaseURL,
		phoneID: config.WhatsApp.PhoneID,
		token:   config.WhatsApp.Token,
		http: &http.Client{
			Timeout: config.WhatsApp.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type textMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

func (c *Client) SendText(ctx context.Context, to model.WAID, body string) error {
	payload, err := json.Marshal(textMessage{
		MessagingProduct: "whatsapp",
		To:               string(to),
		Type:             "text",
		Text:             textBody{Body: body},
	})
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building send request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+c.token)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.http.Do(request)
	if err != nil {
		return fmt.Errorf("sending message to %s: %w", to, err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 300 {
		return fmt.Errorf("sending message to %s: %s", to, responseError(response))
	}
	return nil
}

// ResolveMedia exchanges a media id for its transient download URL.
func (c *Client) ResolveMedia(ctx context.Context, mediaID string) (string, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, mediaID)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building resolve request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+c.token)

	response, err := c.http.Do(request)
	if err != nil {
		return "", fmt.Errorf("resolving media %s: %w", mediaID, err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 300 {
		return "", fmt.Errorf("resolving media %s: %s", mediaID, responseError(response))
	}

	meta := struct {
		URL string `json:"url"`
	}{}
	if err := json.NewDecoder(response.Body).Decode(&meta); err != nil {
		return "", fmt.Errorf("decoding media metadata: %w", err)
	}
	if meta.URL == "" {
		return "", fmt.Errorf("media %s has no download url", mediaID)
	}
	return meta.URL, nil
}

// FetchMedia downloads the resolved location and reports the declared content
// type alongside the bytes.
func (c *Client) FetchMedia(ctx context.Context, url string) ([]byte, string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("building fetch request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+c.token)

	response, err := c.http.Do(request)
	if err != nil {
		return nil, "", fmt.Errorf("fetching media: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 300 {
		return nil, "", fmt.Errorf("fetching media: %s", responseError(response))
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading media body: %w", err)
	}
	return data, response.Header.Get("Content-Type"), nil
}

func responseError(response *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(response.Body, 512))
	return fmt.Sprintf("status %d: %s", response.StatusCode, body)
}
