// Package registry persists the subscriber registry. Every backend keeps the
// whole registry as one document: loads are fail-open (a missing or corrupt
// document reads as empty so a storage hiccup never breaks the chat flow) and
// each mutation rewrites the document in full under an internal lock.
package registry

import (
	"fmt"

	"subcast/internal/boot"
	"subcast/internal/model"
)

type Store interface {
	Load() (model.Registry, error)
	Save(contacts model.Registry) error
	Subscribe(id model.WAID, name string) error
	Unsubscribe(id model.WAID) error
	Count() (int, error)
	AllIDs() ([]model.WAID, error)
}

func New(config *boot.Config) (Store, error) {
	switch config.Registry.Backend {
	case "file", "":
		return NewFileStore(config.RegistryPath()), nil
	case "sqlite":
		return NewSQLStore(config)
	default:
		return nil, fmt.Errorf("unknown registry backend: %s", config.Registry.Backend)
	}
}
