package registry

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/gommon/log"
	_ "github.com/mattn/go-sqlite3"

	"subcast/internal/boot"
	"subcast/internal/model"
)

type subscriberRow struct {
	WAID     string    `db:"WAID"`
	Name     string    `db:"Name"`
	JoinedAt time.Time `db:"JoinedAt"`
}

type sqlstore struct {
	db *sqlx.DB
	mu sync.Mutex
}

func NewSQLStore(config *boot.Config) (*sqlstore, error) {
	dbName := filepath.Join(config.DataDirectory(), "registry.db")

	db, err := sqlx.Connect("sqlite3", "file:"+dbName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &sqlstore{db: db}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	return store, nil
}

func (s *sqlstore) createTables() error {
	_, err := s.db.Exec(`create table if not exists subscriber(
		WAID     text not null primary key,
		Name     text not null,
		JoinedAt DATETIME not null
	)`)
	if err != nil {
		return fmt.Errorf("creating subscriber table: %w", err)
	}
	return nil
}

func (s *sqlstore) Close() error {
	return s.db.Close()
}

func (s *sqlstore) Load() (model.Registry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

func (s *sqlstore) load() model.Registry {
	rows := []subscriberRow{}
	if err := s.db.Select(&rows, `select WAID, Name, JoinedAt from subscriber`); err != nil {
		log.Warnf("loading registry: %v", err)
		return model.Registry{}
	}

	contacts := make(model.Registry, len(rows))
	for _, row := range rows {
		contacts[model.WAID(row.WAID)] = model.Subscriber{Name: row.Name, JoinedAt: row.JoinedAt}
	}
	return contacts
}

func (s *sqlstore) Save(contacts model.Registry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`delete from subscriber`); err != nil {
		return fmt.Errorf("clearing subscribers: %w", err)
	}
	for id, subscriber := range contacts {
		_, err := tx.Exec(`insert into subscriber(WAID, Name, JoinedAt) values(?, ?, ?)`,
			string(id), subscriber.Name, subscriber.JoinedAt)
		if err != nil {
			return fmt.Errorf("inserting subscriber %s: %w", id, err)
		}
	}
	return tx.Commit()
}

func (s *sqlstore) Subscribe(id model.WAID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`insert or replace into subscriber(WAID, Name, JoinedAt) values(?, ?, ?)`,
		string(id), name, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upserting subscriber %s: %w", id, err)
	}
	return nil
}

func (s *sqlstore) Unsubscribe(id model.WAID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`delete from subscriber where WAID = ?`, string(id)); err != nil {
		return fmt.Errorf("deleting subscriber %s: %w", id, err)
	}
	return nil
}

func (s *sqlstore) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.load()), nil
}

func (s *sqlstore) AllIDs() ([]model.WAID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := []string{}
	if err := s.db.Select(&ids, `select WAID from subscriber`); err != nil {
		log.Warnf("listing subscribers: %v", err)
		return []model.WAID{}, nil
	}

	waIDs := make([]model.WAID, 0, len(ids))
	for _, id := range ids {
		waIDs = append(waIDs, model.WAID(id))
	}
	return waIDs, nil
}
