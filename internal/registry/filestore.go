package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/samber/lo"

	"subcast/internal/model"
)

// document is the on-disk shape: {"contacts": {"<wa_id>": {...}}}.
type document struct {
	Contacts model.Registry `json:"contacts"`
}

type filestore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *filestore {
	return &filestore{path: path}
}

func (s *filestore) Load() (model.Registry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

// load never fails: an absent, unreadable or corrupt document reads as an
// empty registry.
func (s *filestore) load() model.Registry {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("reading registry %s: %v", s.path, err)
		}
		return model.Registry{}
	}

	doc := document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Warnf("decoding registry %s: %v", s.path, err)
		return model.Registry{}
	}
	if doc.Contacts == nil {
		return model.Registry{}
	}
	return doc.Contacts
}

func (s *filestore) Save(contacts model.Registry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(contacts)
}

// save writes a sibling temp file and renames it over the document so a
// subsequent load never observes a partial write.
func (s *filestore) save(contacts model.Registry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating registry directory: %w", err)
	}

	data, err := json.MarshalIndent(document{Contacts: contacts}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing registry: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing registry: %w", err)
	}
	return nil
}

func (s *filestore) Subscribe(id model.WAID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts := s.load()
	contacts[id] = model.Subscriber{Name: name, JoinedAt: time.Now().UTC()}
	return s.save(contacts)
}

func (s *filestore) Unsubscribe(id model.WAID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts := s.load()
	delete(contacts, id)
	return s.save(contacts)
}

func (s *filestore) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.load()), nil
}

func (s *filestore) AllIDs() ([]model.WAID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Keys(s.load()), nil
}
