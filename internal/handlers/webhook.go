package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"subcast/internal/model"
)

type BotService interface {
	HandleText(message *model.InboundMessage) (string, error)
}

type MediaService interface {
	Save(ctx context.Context, mediaID string) (string, error)
}

type Sender interface {
	SendText(ctx context.Context, to model.WAID, body string) error
}

const replyMediaFailed = "❌ Could not save that media right now."

// VerifyWebhook answers the provider's subscription handshake: echo the
// challenge when the pre-shared verify token matches, 403 otherwise.
func VerifyWebhook(verifyToken string) echo.HandlerFunc {
	return func(c echo.Context) error {
		mode := c.QueryParam("hub.mode")
		token := c.QueryParam("hub.verify_token")
		if mode == "subscribe" && token == verifyToken {
			return c.String(http.StatusOK, c.QueryParam("hub.challenge"))
		}
		return c.NoContent(http.StatusForbidden)
	}
}

// ReceiveWebhook handles event deliveries. Once the payload is syntactically
// accepted the response is always 200: internal failures are logged or turned
// into a degraded reply, never surfaced, so the provider does not retry.
func ReceiveWebhook(bot BotService, media MediaService, sender Sender) echo.HandlerFunc {
	return func(c echo.Context) error {
		payload := &model.WebhookPayload{}
		if err := c.Bind(payload); err != nil {
			c.Logger().Errorf("decoding webhook payload: %v", err)
			return c.NoContent(http.StatusOK)
		}

		message, ok := payload.FirstMessage()
		if !ok {
			return c.NoContent(http.StatusOK)
		}
		if err := c.Validate(message); err != nil {
			c.Logger().Errorf("rejecting malformed message: %v", err)
			return c.NoContent(http.StatusOK)
		}

		ctx := c.Request().Context()

		if reply, err := bot.HandleText(message); err != nil {
			c.Logger().Errorf("interpreting message from %s: %v", message.From, err)
		} else if reply != "" {
			if err := sender.SendText(ctx, message.From, reply); err != nil {
				c.Logger().Errorf("replying to %s: %v", message.From, err)
			}
		}

		if message.Kind.IsMedia() && message.MediaID != "" {
			confirmation := ""
			filename, err := media.Save(ctx, message.MediaID)
			if err != nil {
				c.Logger().Errorf("saving media %s: %v", message.MediaID, err)
				confirmation = replyMediaFailed
			} else {
				confirmation = fmt.Sprintf("✅ Saved your %s as %s", message.Kind, filename)
			}
			if err := sender.SendText(ctx, message.From, confirmation); err != nil {
				c.Logger().Errorf("confirming media to %s: %v", message.From, err)
			}
		}

		return c.NoContent(http.StatusOK)
	}
}
