package registry

import (
	"sync"
	"time"

	"github.com/samber/lo"

	"subcast/internal/model"
)

// memstore backs tests and keeps the same whole-document semantics as the
// durable backends.
type memstore struct {
	contacts model.Registry
	mu       sync.Mutex
}

func NewMemStore() *memstore {
	return &memstore{contacts: model.Registry{}}
}

func (s *memstore) Load() (model.Registry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(model.Registry, len(s.contacts))
	for id, subscriber := range s.contacts {
		snapshot[id] = subscriber
	}
	return snapshot, nil
}

func (s *memstore) Save(contacts model.Registry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.contacts = make(model.Registry, len(contacts))
	for id, subscriber := range contacts {
		s.contacts[id] = subscriber
	}
	return nil
}

func (s *memstore) Subscribe(id model.WAID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[id] = model.Subscriber{Name: name, JoinedAt: time.Now().UTC()}
	return nil
}

func (s *memstore) Unsubscribe(id model.WAID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contacts, id)
	return nil
}

func (s *memstore) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.contacts), nil
}

func (s *memstore) AllIDs() ([]model.WAID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Keys(s.contacts), nil
}
