package model

type MessageKind string

const (
	MessageKindText     MessageKind = "text"
	MessageKindImage    MessageKind = "image"
	MessageKindVideo    MessageKind = "video"
	MessageKindAudio    MessageKind = "audio"
	MessageKindDocument MessageKind = "document"
	MessageKindSticker  MessageKind = "sticker"
)

func (k MessageKind) IsMedia() bool {
	switch k {
	case MessageKindImage, MessageKindVideo, MessageKindAudio, MessageKindDocument, MessageKindSticker:
		return true
	}
	return false
}

// InboundMessage is the normalized form of one webhook delivery. It is never
// persisted; the registry only records the outcome of interpreting it.
type InboundMessage struct {
	From        WAID        `validate:"required"`
	ProfileName string      `validate:"required"`
	Kind        MessageKind `validate:"required"`
	Text        string
	MediaID     string
}
