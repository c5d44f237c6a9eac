// internal/live/session.go
package live

import (
	"context"
	"time"

	"github.com/google/uuid"

	"albion-gold-bot/internal/types"
	"albion-gold-bot/pkg/logger"
)

// DefaultInterval is how often a live message is refreshed.
const DefaultInterval = 300 * time.Second

// PriceSource is the slice of the gold API client a session needs.
type PriceSource interface {
	Latest(ctx context.Context) (types.PriceRecord, error)
}

// RupiahConverter converts a Silver price to the rupiah estimate.
type RupiahConverter interface {
	ToRupiah(price int) (float64, error)
}

// MessageUpdater edits the live message in place. Implemented by the
// Telegram delivery layer.
type MessageUpdater interface {
	UpdateLiveMessage(ctx context.Context, chatID, messageID int64, record types.PriceRecord, rupiah float64) error
}

// Session is one running live-update loop bound to a single chat message.
type Session struct {
	ID        string    `json:"id"`
	ChatID    int64     `json:"chat_id"`
	MessageID int64     `json:"message_id"`
	StartedAt time.Time `json:"started_at"`

	cancel context.CancelFunc
	done   chan struct{}
}

// Info is the serializable snapshot of a session, used for /status and for
// the optional Redis mirror.
type Info struct {
	ID        string    `json:"id"`
	ChatID    int64     `json:"chat_id"`
	MessageID int64     `json:"message_id"`
	StartedAt time.Time `json:"started_at"`
}

func (s *Session) info() Info {
	return Info{
		ID:        s.ID,
		ChatID:    s.ChatID,
		MessageID: s.MessageID,
		StartedAt: s.StartedAt,
	}
}

func newSession(chatID, messageID int64) *Session {
	return &Session{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		MessageID: messageID,
		StartedAt: time.Now(),
		done:      make(chan struct{}),
	}
}

// run drives the refresh loop. The first update fires immediately, then once
// per interval. One iteration failing is logged and the loop keeps going:
// a transient API error must not kill the session.
func (s *Session) run(ctx context.Context, interval time.Duration, source PriceSource, conv RupiahConverter, updater MessageUpdater) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.refresh(ctx, source, conv, updater)

	for {
		select {
		case <-ticker.C:
			s.refresh(ctx, source, conv, updater)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) refresh(ctx context.Context, source PriceSource, conv RupiahConverter, updater MessageUpdater) {
	record, err := source.Latest(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.Error("live[%d]: gagal mengambil harga: %v", s.ChatID, err)
		}
		return
	}

	rupiah, err := conv.ToRupiah(record.Price)
	if err != nil {
		logger.Error("live[%d]: konversi gagal: %v", s.ChatID, err)
		return
	}

	if err := updater.UpdateLiveMessage(ctx, s.ChatID, s.MessageID, record, rupiah); err != nil {
		if ctx.Err() == nil {
			logger.Error("live[%d]: gagal update pesan: %v", s.ChatID, err)
		}
	}
}
