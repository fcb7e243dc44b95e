package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subcast/internal/boot"
)

func testClient(baseURL string) *Client {
	config := &boot.Config{}
	config.WhatsApp.BaseURL = baseURL
	config.WhatsApp.PhoneID = "PHONE1"
	config.WhatsApp.Token = "tok-123"
	return New(config)
}

func TestSendText(t *testing.T) {
	t.Run("posts the message with bearer auth", func(t *testing.T) {
		var got map[string]interface{}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/PHONE1/messages", r.URL.Path)
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		err := testClient(server.URL).SendText(context.Background(), "4470001", "hello")
		require.NoError(t, err)
		assert.Equal(t, "whatsapp", got["messaging_product"])
		assert.Equal(t, "4470001", got["to"])
		assert.Equal(t, "text", got["type"])
		assert.Equal(t, map[string]interface{}{"body": "hello"}, got["text"])
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
		}))
		defer server.Close()

		err := testClient(server.URL).SendText(context.Background(), "4470001", "hello")
		assert.ErrorContains(t, err, "429")
	})
}

func TestResolveMedia(t *testing.T) {
	t.Run("returns the download url", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/MEDIA123", r.URL.Path)
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn.example/x", "mime_type": "image/jpeg"})
		}))
		defer server.Close()

		url, err := testClient(server.URL).ResolveMedia(context.Background(), "MEDIA123")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example/x", url)
	})

	t.Run("missing url is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		_, err := testClient(server.URL).ResolveMedia(context.Background(), "MEDIA123")
		assert.Error(t, err)
	})

	t.Run("unknown id is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		}))
		defer server.Close()

		_, err := testClient(server.URL).ResolveMedia(context.Background(), "MEDIA123")
		assert.ErrorContains(t, err, "404")
	})
}

func TestFetchMedia(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("pngbytes"))
	}))
	defer server.Close()

	data, contentType, err := testClient(server.URL).FetchMedia(context.Background(), server.URL+"/download")
	require.NoError(t, err)
	assert.Equal(t, []byte("pngbytes"), data)
	assert.Equal(t, "image/png", contentType)
}
