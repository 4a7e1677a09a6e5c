package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StorageKey is the key that holds a session's cart as a JSON sequence of items.
const StorageKey = "cart"

// ErrNotFound is returned by Storage.Get when the key was never written.
var ErrNotFound = errors.New("cart storage key not found")

// Storage is a per-session string key/value store.
type Storage interface {
	Get(ctx context.Context, session, key string) ([]byte, error)
	Set(ctx context.Context, session, key string, value []byte) error
	Delete(ctx context.Context, session, key string) error
}

type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]map[string][]byte)}
}

func (s *MemoryStorage) Get(_ context.Context, session, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[session][key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *MemoryStorage) Set(_ context.Context, session, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.values[session]
	if !ok {
		bucket = make(map[string][]byte)
		s.values[session] = bucket
	}
	bucket[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, session, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bucket, ok := s.values[session]; ok {
		delete(bucket, key)
		if len(bucket) == 0 {
			delete(s.values, session)
		}
	}
	return nil
}

// PGStorage keeps cart payloads in the cart_storage table.
type PGStorage struct {
	db *pgxpool.Pool
}

func NewPGStorage(db *pgxpool.Pool) *PGStorage {
	return &PGStorage{db: db}
}

func (s *PGStorage) Get(ctx context.Context, session, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(ctx, `
		select value::text from cart_storage where session_id = $1 and key = $2
	`, session, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (s *PGStorage) Set(ctx context.Context, session, key string, value []byte) error {
	_, err := s.db.Exec(ctx, `
		insert into cart_storage (session_id, key, value, updated_at)
		values ($1, $2, $3::jsonb, now())
		on conflict (session_id, key) do update set value = excluded.value, updated_at = now()
	`, session, key, string(value))
	return err
}

func (s *PGStorage) Delete(ctx context.Context, session, key string) error {
	_, err := s.db.Exec(ctx, `delete from cart_storage where session_id = $1 and key = $2`, session, key)
	return err
}
