// Package localrepo is the local fallback backend: a single JSON file acting
// as a namespaced key-value store with one serialized array per entity plus a
// session record. It exists so the forum runs with zero configuration; it has
// no realtime channel, so subscriptions deliver a single snapshot.
package localrepo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"kampusconnect.id/forum/internal/model"
	"kampusconnect.id/forum/internal/repository"
)

// namespace prefixes every key so the file can coexist with unrelated data
// if the caller points several tools at the same store.
const namespace = "kampusconnect_v2"

const (
	keyUsers         = "users"
	keyPosts         = "posts"
	keyComments      = "comments"
	keyNotifications = "notifications"
	keySession       = "session"
)

func nsKey(k string) string { return namespace + ":" + k }

// Store is the file-backed key-value store shared by all local repositories.
// One mutex serializes every operation: the store is effectively serial
// within one process, and racy across processes, which is the accepted
// limitation of the fallback.
type Store struct {
	mu   sync.Mutex
	path string
	data map[string]json.RawMessage

	session *model.UserProfile
}

// Open loads (or creates) the store file at path.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: make(map[string]json.RawMessage),
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read local store %s: %w", path, err)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, fmt.Errorf("malformed local store %s: %w", path, err)
		}
	}

	// Restore the persisted session, if any.
	if rawSession, ok := s.data[nsKey(keySession)]; ok {
		var u model.UserProfile
		if err := json.Unmarshal(rawSession, &u); err != nil {
			return nil, fmt.Errorf("malformed session in local store: %w", err)
		}
		s.session = &u
	}

	return s, nil
}

func (s *Store) Users() repository.UserRepository                 { return &userRepo{s: s} }
func (s *Store) Posts() repository.PostRepository                 { return &postRepo{s: s} }
func (s *Store) Comments() repository.CommentRepository           { return &commentRepo{s: s} }
func (s *Store) Notifications() repository.NotificationRepository { return &notificationRepo{s: s} }
func (s *Store) Sessions() repository.SessionStore                { return &sessionStore{s: s} }

func (s *Store) Close() error { return nil }

// readList decodes the stored array under key into v. Missing keys decode to
// an empty list. Callers must hold s.mu.
func (s *Store) readList(key string, v any) error {
	raw, ok := s.data[nsKey(key)]
	if !ok {
		raw = json.RawMessage("[]")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("malformed %s data in local store: %w", key, err)
	}
	return nil
}

// writeList stores v under key and flushes the file. Callers must hold s.mu.
func (s *Store) writeList(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.data[nsKey(key)] = raw
	return s.flush()
}

// flush writes the whole store atomically (temp file + rename). Callers must
// hold s.mu.
func (s *Store) flush() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".kampusconnect-*")
	if err != nil {
		return fmt.Errorf("failed to write local store: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write local store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write local store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write local store: %w", err)
	}
	return nil
}

// noopUnsubscribe wraps fn so the returned Unsubscribe is idempotent.
func noopUnsubscribe() repository.Unsubscribe {
	var once sync.Once
	return func() { once.Do(func() {}) }
}
