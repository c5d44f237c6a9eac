// internal/live/registry.go
package live

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"albion-gold-bot/pkg/logger"
)

// Store mirrors session handles outside the process so an operator restart
// can resurrect them. The in-memory registry works the same with a nil Store.
type Store interface {
	SaveSession(ctx context.Context, info Info) error
	RemoveSession(ctx context.Context, chatID int64) error
	ListSessions(ctx context.Context) ([]Info, error)
}

// Registry owns every live session, one per chat. Access is mutex-guarded:
// commands arrive from the polling goroutine while sessions run on their own.
type Registry struct {
	mu       sync.Mutex
	sessions map[int64]*Session

	source   PriceSource
	conv     RupiahConverter
	updater  MessageUpdater
	store    Store
	interval time.Duration
}

func NewRegistry(source PriceSource, conv RupiahConverter, updater MessageUpdater, store Store) *Registry {
	return &Registry{
		sessions: make(map[int64]*Session),
		source:   source,
		conv:     conv,
		updater:  updater,
		store:    store,
		interval: DefaultInterval,
	}
}

// SetInterval overrides the refresh period. Test hook.
func (r *Registry) SetInterval(d time.Duration) {
	r.interval = d
}

// Start launches a live session editing messageID in chatID. A session
// already running for that chat is stopped and replaced: two loops editing
// the same chat was the one ambiguity in the old behavior, and replacement
// is the variant an admin re-issuing /live actually wants.
func (r *Registry) Start(ctx context.Context, chatID, messageID int64) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.sessions[chatID]; ok {
		logger.Warn("live[%d]: sesi lama %s diganti", chatID, old.ID)
		r.stopLocked(old)
	}

	session := newSession(chatID, messageID)
	sessionCtx, cancel := context.WithCancel(context.Background())
	session.cancel = cancel

	r.sessions[chatID] = session
	go session.run(sessionCtx, r.interval, r.source, r.conv, r.updater)

	if r.store != nil {
		if err := r.store.SaveSession(ctx, session.info()); err != nil {
			logger.Warn("live[%d]: gagal mirror sesi ke store: %v", chatID, err)
		}
	}

	logger.Info("✅ Live session aktif di chat %d (message %d)", chatID, messageID)
	return session, nil
}

// Stop cancels the session for chatID and waits for its loop to exit.
func (r *Registry) Stop(ctx context.Context, chatID int64) error {
	r.mu.Lock()
	session, ok := r.sessions[chatID]
	if ok {
		r.stopLocked(session)
		delete(r.sessions, chatID)
	}
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("tidak ada live session di chat %d", chatID)
	}

	if r.store != nil {
		if err := r.store.RemoveSession(ctx, chatID); err != nil {
			logger.Warn("live[%d]: gagal hapus sesi dari store: %v", chatID, err)
		}
	}

	logger.Info("🛑 Live session dihentikan di chat %d", chatID)
	return nil
}

// StopAll shuts every session down. Called on process shutdown; the store
// mirror is left intact so sessions can be resurrected after restart.
func (r *Registry) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for chatID, session := range r.sessions {
		r.stopLocked(session)
		delete(r.sessions, chatID)
	}
}

// stopLocked cancels and waits. Caller holds r.mu.
func (r *Registry) stopLocked(s *Session) {
	s.cancel()
	<-s.done
}

// Count returns the number of running sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Active returns session snapshots sorted by chat for /status.
func (r *Registry) Active() []Info {
	r.mu.Lock()
	defer r.mu.Unlock()

	infos := make([]Info, 0, len(r.sessions))
	for _, s := range r.sessions {
		infos = append(infos, s.info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ChatID < infos[j].ChatID })
	return infos
}

// Restore restarts sessions from the store mirror, editing the same messages
// as before the restart. No-op without a store.
func (r *Registry) Restore(ctx context.Context) error {
	if r.store == nil {
		return nil
	}

	infos, err := r.store.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("restore sessions: %w", err)
	}

	for _, info := range infos {
		if _, err := r.Start(ctx, info.ChatID, info.MessageID); err != nil {
			logger.Warn("live[%d]: gagal restore: %v", info.ChatID, err)
		}
	}

	if len(infos) > 0 {
		logger.Info("♻️ %d live session dipulihkan dari store", len(infos))
	}
	return nil
}
