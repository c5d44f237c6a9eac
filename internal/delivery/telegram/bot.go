// internal/delivery/telegram/bot.go
package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	"albion-gold-bot/internal/chart"
	"albion-gold-bot/internal/convert"
	"albion-gold-bot/internal/goldapi"
	"albion-gold-bot/internal/history"
	"albion-gold-bot/internal/infrastructure/config"
	"albion-gold-bot/internal/live"
	"albion-gold-bot/internal/navigation"
	"albion-gold-bot/internal/teamspeak"
	"albion-gold-bot/internal/types"
	"albion-gold-bot/pkg/logger"
)

const pollTimeoutSec = 30

// Command surface. Statically constructed: the command set is fixed and
// small, so there is no plugin discovery.
var commandDescriptions = map[string]string{
	"gold":     "Menampilkan harga gold terkini",
	"history":  "Menampilkan data historis dengan navigasi",
	"live":     "Mulai live update di chat (admin)",
	"stoplive": "Hentikan live update di chat (admin)",
	"status":   "Menampilkan status bot",
	"tsinfo":   "Menampilkan informasi server TeamSpeak",
	"help":     "Menampilkan menu bantuan",
}

var commandOrder = []string{"gold", "history", "live", "stoplive", "status", "tsinfo", "help"}

// Bot wires the gold pipeline to Telegram: commands in via long polling,
// cards and charts out via the Bot API client.
type Bot struct {
	client   *Client
	cfg      *config.Config
	format   Formatter
	gold     *goldapi.Client
	conv     *convert.Converter
	renderer *chart.Renderer
	resolver *history.Resolver
	liveReg  *live.Registry
	nav      *navigation.Registry
	ts       *teamspeak.Client

	handlers  map[string]func(ctx context.Context, msg *Message, args string)
	startTime time.Time
}

// Store is what the bot needs from the optional Redis mirror.
type Store interface {
	live.Store
	navigation.Store
}

// NewBot assembles the full pipeline. store may be nil (memory only).
func NewBot(cfg *config.Config, store Store) *Bot {
	b := &Bot{
		client:    NewClient(cfg.TelegramBotToken),
		cfg:       cfg,
		gold:      goldapi.NewClient(cfg.APIURL),
		conv:      convert.NewConverter(cfg.KonstantaC),
		renderer:  chart.NewRenderer(),
		startTime: time.Now(),
	}
	b.resolver = history.NewResolver(b.gold, history.DefaultMaxFallbackDays)

	var liveStore live.Store
	var navStore navigation.Store
	if store != nil {
		liveStore = store
		navStore = store
	}
	b.liveReg = live.NewRegistry(b.gold, b.conv, b, liveStore)
	b.nav = navigation.NewRegistry(b.resolver, b.renderer, b, navStore, cfg.MaxHistoryDays)

	if cfg.TeamSpeak.Enabled() {
		b.ts = teamspeak.NewClient(cfg.TeamSpeak)
	}

	b.handlers = map[string]func(ctx context.Context, msg *Message, args string){
		"gold":     b.handleGold,
		"history":  b.handleHistory,
		"live":     b.handleLive,
		"stoplive": b.handleStopLive,
		"status":   b.handleStatus,
		"tsinfo":   b.handleTsInfo,
		"help":     b.handleHelp,
	}
	return b
}

// Live exposes the session registry for shutdown and restore.
func (b *Bot) Live() *live.Registry {
	return b.liveReg
}

// Run drives the long-polling loop until ctx is cancelled. Every update is
// handled on its own goroutine: one slow history lookup must not stall the
// rest of the bot.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.client.SetMyCommands(ctx, commandDescriptions, commandOrder); err != nil {
		logger.Warn("Tidak bisa set menu perintah: %v", err)
	}

	logger.Info("🤖 Bot aktif, menunggu perintah")

	var offset int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		updates, err := b.client.GetUpdates(ctx, offset, pollTimeoutSec)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("getUpdates: %v", err)
			time.Sleep(3 * time.Second)
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *Message) {
	// Bot-originated messages never carry commands for us.
	if msg.From == nil || msg.From.IsBot {
		return
	}

	name, args, ok := parseCommand(msg.Text)
	if !ok {
		return
	}

	handler, ok := b.handlers[name]
	if !ok {
		return
	}
	handler(ctx, msg, args)
}

// handleCallback routes a history navigation button press.
func (b *Bot) handleCallback(ctx context.Context, cb *CallbackQuery) {
	if cb.Message == nil {
		return
	}

	action, ok := parseNavigationAction(cb.Data)
	if !ok {
		_ = b.client.AnswerCallback(ctx, cb.ID, "")
		return
	}

	err := b.nav.OnNavigate(ctx, cb.Message.Chat.ID, cb.Message.MessageID, action)
	switch {
	case err == nil:
		_ = b.client.AnswerCallback(ctx, cb.ID, "")
	case errors.Is(err, navigation.ErrNoEntry):
		// A button on a message this bot no longer knows. Quietly dismiss.
		_ = b.client.AnswerCallback(ctx, cb.ID, "")
	default:
		logger.Error("navigasi %s di pesan %d: %v", action, cb.Message.MessageID, err)
		_ = b.client.AnswerCallback(ctx, cb.ID, userFacingError(err))
	}
}

// parseCommand splits "/gold@AlbionGoldBot arg" into ("gold", "arg").
func parseCommand(text string) (name, args string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}

	body := strings.TrimPrefix(text, "/")
	if i := strings.IndexByte(body, ' '); i >= 0 {
		args = strings.TrimSpace(body[i+1:])
		body = body[:i]
	}
	if i := strings.IndexByte(body, '@'); i >= 0 {
		body = body[:i]
	}
	if body == "" {
		return "", "", false
	}
	return strings.ToLower(body), args, true
}

// parseNavigationAction maps callback data to a navigation action.
func parseNavigationAction(data string) (navigation.Action, bool) {
	switch data {
	case "history:prev":
		return navigation.ActionPrev, true
	case "history:today":
		return navigation.ActionToday, true
	case "history:next":
		return navigation.ActionNext, true
	}
	return "", false
}

// userFacingError converts the error taxonomy into the short Indonesian
// status lines users see. Details stay in the log.
func userFacingError(err error) string {
	switch {
	case errors.Is(err, types.ErrNetwork):
		return "⚠️ Gagal terhubung ke server API"
	case errors.Is(err, types.ErrDataUnavailable):
		return "⚠️ Data tidak tersedia"
	case errors.Is(err, types.ErrNoData):
		return "⚠️ Tidak ada data yang tersedia selama 2 minggu terakhir"
	case errors.Is(err, types.ErrInvalidPrice):
		return "⚠️ Format data tidak valid"
	case errors.Is(err, navigation.ErrTooOld):
		return "⚠️ Data historis di luar jangkauan"
	default:
		return "🔥 Terjadi kesalahan sistem"
	}
}
