package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subcast/internal/model"
	"subcast/internal/registry"
)

func inbound(from, name, text string) *model.InboundMessage {
	return &model.InboundMessage{
		From:        model.WAID(from),
		ProfileName: name,
		Kind:        model.MessageKindText,
		Text:        text,
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		text string
		want command
	}{
		{"menu", cmdMenu},
		{"  MENU  ", cmdMenu},
		{"Yes", cmdSubscribe},
		{"STOP", cmdUnsubscribe},
		{"count", cmdCount},
		{"", cmdNone},
		{"   ", cmdNone},
		{"hello there", cmdUnknown},
		{"yes!", cmdUnknown}, // exact match only, no punctuation stripping
		{"menus", cmdUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, classify(tc.text), "text %q", tc.text)
	}
}

func TestHandleText(t *testing.T) {
	t.Run("menu does not mutate the registry", func(t *testing.T) {
		store := registry.NewMemStore()
		service := New(store)

		reply, err := service.HandleText(inbound("U1", "Ann", "menu"))
		require.NoError(t, err)
		assert.Contains(t, reply, "Ann")
		assert.Contains(t, reply, "*YES*")

		count, _ := store.Count()
		assert.Equal(t, 0, count)
	})

	t.Run("yes subscribes with name and timestamp", func(t *testing.T) {
		store := registry.NewMemStore()
		service := New(store)

		before := time.Now().UTC()
		reply, err := service.HandleText(inbound("U1", "Ann", "yes"))
		require.NoError(t, err)
		assert.Contains(t, reply, "Ann")

		contacts, _ := store.Load()
		require.Contains(t, contacts, model.WAID("U1"))
		assert.Equal(t, "Ann", contacts["U1"].Name)
		assert.False(t, contacts["U1"].JoinedAt.Before(before))
	})

	t.Run("stop unsubscribes and is idempotent", func(t *testing.T) {
		store := registry.NewMemStore()
		service := New(store)

		_, err := service.HandleText(inbound("U1", "Ann", "yes"))
		require.NoError(t, err)

		reply, err := service.HandleText(inbound("U1", "Ann", "stop"))
		require.NoError(t, err)
		assert.Equal(t, replyUnsubscribed, reply)

		count, _ := store.Count()
		assert.Equal(t, 0, count)

		_, err = service.HandleText(inbound("U1", "Ann", "stop"))
		require.NoError(t, err)
		count, _ = store.Count()
		assert.Equal(t, 0, count)
	})

	t.Run("count reflects registry size", func(t *testing.T) {
		store := registry.NewMemStore()
		service := New(store)

		reply, err := service.HandleText(inbound("U1", "Ann", "count"))
		require.NoError(t, err)
		assert.Equal(t, "Subscribers: 0", reply)

		require.NoError(t, store.Subscribe("U2", "Bob"))
		require.NoError(t, store.Subscribe("U3", "Cat"))

		reply, err = service.HandleText(inbound("U1", "Ann", "count"))
		require.NoError(t, err)
		assert.Equal(t, "Subscribers: 2", reply)
	})

	t.Run("unknown text prompts by subscription status", func(t *testing.T) {
		store := registry.NewMemStore()
		service := New(store)

		reply, err := service.HandleText(inbound("U1", "Ann", "hello"))
		require.NoError(t, err)
		assert.Contains(t, reply, "Reply *YES* to join")

		require.NoError(t, store.Subscribe("U1", "Ann"))

		reply, err = service.HandleText(inbound("U1", "Ann", "hello"))
		require.NoError(t, err)
		assert.Equal(t, replyAck, reply)

		// never mutates
		count, _ := store.Count()
		assert.Equal(t, 1, count)
	})

	t.Run("empty text is silent", func(t *testing.T) {
		store := registry.NewMemStore()
		service := New(store)

		reply, err := service.HandleText(inbound("U1", "Ann", ""))
		require.NoError(t, err)
		assert.Equal(t, "", reply)
	})
}

func TestSubscriberLifecycle(t *testing.T) {
	assert := assert.New(t)

	store := registry.NewMemStore()
	service := New(store)

	reply, err := service.HandleText(inbound("U1", "Ann", "MENU"))
	assert.Nil(err)
	assert.Contains(reply, "Hey Ann!")
	count, _ := store.Count()
	assert.Equal(0, count)

	reply, err = service.HandleText(inbound("U1", "Ann", "Yes"))
	assert.Nil(err)
	assert.Contains(reply, "Ann")
	contacts, _ := store.Load()
	assert.Equal("Ann", contacts["U1"].Name)

	reply, err = service.HandleText(inbound("U1", "Ann", "count"))
	assert.Nil(err)
	assert.Equal("Subscribers: 1", reply)

	reply, err = service.HandleText(inbound("U1", "Ann", "stop"))
	assert.Nil(err)
	assert.Equal(replyUnsubscribed, reply)
	count, _ = store.Count()
	assert.Equal(0, count)
}
