// internal/infrastructure/cache/redis/session_store.go
package redis

import (
	"context"
	"fmt"
	"time"

	"albion-gold-bot/internal/live"
	"albion-gold-bot/internal/navigation"
)

// SessionStore mirrors live sessions and history navigation entries into
// Redis so both survive a bot restart. Satisfies live.Store and
// navigation.Store.
type SessionStore struct {
	cache    *Cache
	entryTTL time.Duration
}

func NewSessionStore(cache *Cache) *SessionStore {
	return &SessionStore{
		cache: cache,
		// Navigation buttons on week-old messages are dead weight; let
		// mirrored entries age out.
		entryTTL: 7 * 24 * time.Hour,
	}
}

func sessionKey(chatID int64) string {
	return fmt.Sprintf("live:%d", chatID)
}

func entryKey(messageID int64) string {
	return fmt.Sprintf("nav:%d", messageID)
}

// SaveSession mirrors one live session handle. No TTL: a live session runs
// until stopped.
func (s *SessionStore) SaveSession(ctx context.Context, info live.Info) error {
	return s.cache.Set(ctx, sessionKey(info.ChatID), info, 0)
}

// RemoveSession drops the mirror for chatID.
func (s *SessionStore) RemoveSession(ctx context.Context, chatID int64) error {
	return s.cache.Delete(ctx, sessionKey(chatID))
}

// ListSessions returns every mirrored live session.
func (s *SessionStore) ListSessions(ctx context.Context) ([]live.Info, error) {
	keys, err := s.cache.Keys(ctx, "live:*")
	if err != nil {
		return nil, err
	}

	infos := make([]live.Info, 0, len(keys))
	for _, key := range keys {
		var info live.Info
		if err := s.cache.GetRaw(ctx, key, &info); err != nil {
			if IsMiss(err) {
				continue // expired between KEYS and GET
			}
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// SaveEntry mirrors one navigation entry.
func (s *SessionStore) SaveEntry(ctx context.Context, messageID int64, entry navigation.Entry) error {
	return s.cache.Set(ctx, entryKey(messageID), entry, s.entryTTL)
}

// GetEntry loads the mirrored entry for messageID; (nil, nil) on a miss.
func (s *SessionStore) GetEntry(ctx context.Context, messageID int64) (*navigation.Entry, error) {
	var entry navigation.Entry
	if err := s.cache.Get(ctx, entryKey(messageID), &entry); err != nil {
		if IsMiss(err) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}
