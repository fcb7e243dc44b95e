package model

// Typed view of the WhatsApp Cloud webhook envelope. Only the fields the bot
// consumes are modelled; anything that doesn't decode into a known message
// shape is ignored at the boundary.

type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

type ChangeValue struct {
	Contacts []Contact        `json:"contacts"`
	Messages []WebhookMessage `json:"messages"`
}

type Contact struct {
	WAID    string  `json:"wa_id"`
	Profile Profile `json:"profile"`
}

type Profile struct {
	Name string `json:"name"`
}

type WebhookMessage struct {
	From     string     `json:"from"`
	Type     string     `json:"type"`
	Text     *TextBody  `json:"text,omitempty"`
	Image    *MediaBody `json:"image,omitempty"`
	Video    *MediaBody `json:"video,omitempty"`
	Audio    *MediaBody `json:"audio,omitempty"`
	Document *MediaBody `json:"document,omitempty"`
	Sticker  *MediaBody `json:"sticker,omitempty"`
}

type TextBody struct {
	Body string `json:"body"`
}

type MediaBody struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type,omitempty"`
}

func (m *WebhookMessage) attachment() *MediaBody {
	switch MessageKind(m.Type) {
	case MessageKindImage:
		return m.Image
	case MessageKindVideo:
		return m.Video
	case MessageKindAudio:
		return m.Audio
	case MessageKindDocument:
		return m.Document
	case MessageKindSticker:
		return m.Sticker
	}
	return nil
}

// FirstMessage extracts the single message a delivery may carry. Deliveries
// without a message (status updates, unknown kinds) return ok=false and are
// acknowledged without further processing.
func (p *WebhookPayload) FirstMessage() (*InboundMessage, bool) {
	if len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		return nil, false
	}
	value := p.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 {
		return nil, false
	}
	raw := value.Messages[0]

	name := "Friend"
	if len(value.Contacts) > 0 && value.Contacts[0].Profile.Name != "" {
		name = value.Contacts[0].Profile.Name
	}

	message := &InboundMessage{
		From:        WAID(raw.From),
		ProfileName: name,
		Kind:        MessageKind(raw.Type),
	}

	switch {
	case message.Kind == MessageKindText:
		if raw.Text != nil {
			message.Text = raw.Text.Body
		}
	case message.Kind.IsMedia():
		if attachment := raw.attachment(); attachment != nil {
			message.MediaID = attachment.ID
		}
	default:
		return nil, false
	}

	return message, true
}
