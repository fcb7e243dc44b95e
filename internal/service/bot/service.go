// Package bot interprets the fixed command grammar. Each inbound message is
// classified independently; there is no multi-turn state.
package bot

import (
	"fmt"
	"strings"

	"subcast/internal/model"
)

const (
	replyMenu         = "Hey %s!\n• Reply *YES* to opt in\n• Reply *STOP* to opt out\n• Send media to save it\n• Type *COUNT* to see subscribers"
	replySubscribed   = "Thanks %s! You are now subscribed ✅"
	replyUnsubscribed = "You have been unsubscribed."
	replyCount        = "Subscribers: %d"
	replyJoinPrompt   = "Hi %s! Reply *YES* to join, or type *MENU* for options."
	replyAck          = "Got it! Type *MENU* for options."
)

type Registry interface {
	Load() (model.Registry, error)
	Subscribe(id model.WAID, name string) error
	Unsubscribe(id model.WAID) error
	Count() (int, error)
}

type service struct {
	registry Registry
}

func New(registry Registry) *service {
	return &service{registry: registry}
}

type command int

const (
	cmdNone command = iota
	cmdMenu
	cmdSubscribe
	cmdUnsubscribe
	cmdCount
	cmdUnknown
)

// classify matches the four keywords exactly after trim + lowercase; no fuzzy
// matching, no punctuation stripping.
func classify(text string) command {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "":
		return cmdNone
	case "menu":
		return cmdMenu
	case "yes":
		return cmdSubscribe
	case "stop":
		return cmdUnsubscribe
	case "count":
		return cmdCount
	}
	return cmdUnknown
}

// HandleText interprets the text portion of a message and returns the reply to
// send, or "" when the message carried no text. Media handling is separate and
// runs regardless of which branch fires here.
func (s *service) HandleText(message *model.InboundMessage) (string, error) {
	switch classify(message.Text) {
	case cmdNone:
		return "", nil

	case cmdMenu:
		return fmt.Sprintf(replyMenu, message.ProfileName), nil

	case cmdSubscribe:
		if err := s.registry.Subscribe(message.From, message.ProfileName); err != nil {
			return "", fmt.Errorf("subscribing %s: %w", message.From, err)
		}
		return fmt.Sprintf(replySubscribed, message.ProfileName), nil

	case cmdUnsubscribe:
		if err := s.registry.Unsubscribe(message.From); err != nil {
			return "", fmt.Errorf("unsubscribing %s: %w", message.From, err)
		}
		return replyUnsubscribed, nil

	case cmdCount:
		count, err := s.registry.Count()
		if err != nil {
			return "", fmt.Errorf("counting subscribers: %w", err)
		}
		return fmt.Sprintf(replyCount, count), nil
	}

	contacts, err := s.registry.Load()
	if err != nil {
		return "", fmt.Errorf("loading registry: %w", err)
	}
	if _, subscribed := contacts[message.From]; !subscribed {
		return fmt.Sprintf(replyJoinPrompt, message.ProfileName), nil
	}
	return replyAck, nil
}
