// internal/delivery/telegram/handlers.go
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"albion-gold-bot/internal/types"
	"albion-gold-bot/pkg/logger"
)

// handleGold answers /gold with the current price card.
func (b *Bot) handleGold(ctx context.Context, msg *Message, _ string) {
	record, err := b.gold.Latest(ctx)
	if err != nil {
		logger.Error("gold: %v", err)
		b.reply(ctx, msg.Chat.ID, userFacingError(err))
		return
	}

	rupiah, err := b.conv.ToRupiah(record.Price)
	if err != nil {
		logger.Error("gold: konversi: %v", err)
		b.reply(ctx, msg.Chat.ID, userFacingError(err))
		return
	}

	logger.Price(record.Price, rupiah, record.Timestamp)
	b.reply(ctx, msg.Chat.ID, b.format.GoldCard(record, rupiah))
}

// handleHistory answers /history with a chart message carrying the
// navigation buttons, after resolving the best available window.
func (b *Bot) handleHistory(ctx context.Context, msg *Message, _ string) {
	placeholder, err := b.client.SendMessage(ctx, msg.Chat.ID,
		"🔄 Mencari data terbaru yang tersedia...", nil)
	if err != nil {
		logger.Error("history: placeholder: %v", err)
		return
	}

	hist, err := b.resolver.Resolve(ctx, time.Now().UTC())
	if err != nil {
		logger.Error("history: resolve: %v", err)
		_ = b.client.EditMessageText(ctx, msg.Chat.ID, placeholder.MessageID, userFacingError(err))
		return
	}

	result, err := b.renderer.Render(hist.Records)
	if err != nil {
		logger.Error("history: render: %v", err)
		_ = b.client.EditMessageText(ctx, msg.Chat.ID, placeholder.MessageID,
			"⚠️ Gagal memproses data yang tersedia")
		return
	}

	rupiah, err := b.conv.ToRupiah(hist.Latest().Price)
	if err != nil {
		logger.Error("history: konversi: %v", err)
		_ = b.client.EditMessageText(ctx, msg.Chat.ID, placeholder.MessageID, userFacingError(err))
		return
	}

	_ = b.client.DeleteMessage(ctx, msg.Chat.ID, placeholder.MessageID)

	sent, err := b.client.SendPhoto(ctx, msg.Chat.ID, result.PNG,
		b.format.HistoryCaption(hist, rupiah), historyKeyboard())
	if err != nil {
		logger.Error("history: kirim chart: %v", err)
		return
	}

	b.nav.Remember(ctx, sent.MessageID, hist)
	logger.Info("📊 History terkirim ke chat %d (efektif %s, %d record, mode %s)",
		msg.Chat.ID, hist.EffectiveDate.Format("2006-01-02"), len(hist.Records), result.Mode)
}

// handleLive starts a live session. Admin only. An optional argument names
// the target chat id; the invoking chat is used without one.
func (b *Bot) handleLive(ctx context.Context, msg *Message, args string) {
	if !b.requireAdmin(ctx, msg) {
		return
	}

	targetChat := msg.Chat.ID
	if args != "" {
		id, err := strconv.ParseInt(args, 10, 64)
		if err != nil {
			b.reply(ctx, msg.Chat.ID, "❌ Harap beri chat ID yang valid!")
			return
		}
		targetChat = id
	}

	anchor, err := b.client.SendMessage(ctx, targetChat, "🔄 Memulai live session...", nil)
	if err != nil {
		logger.Error("live: kirim pesan awal ke %d: %v", targetChat, err)
		b.reply(ctx, msg.Chat.ID, "⚠️ Gagal memulai live session")
		return
	}

	if _, err := b.liveReg.Start(ctx, targetChat, anchor.MessageID); err != nil {
		logger.Error("live: start: %v", err)
		b.reply(ctx, msg.Chat.ID, "⚠️ Gagal memulai live session")
		return
	}

	b.reply(ctx, msg.Chat.ID, fmt.Sprintf("✅ Live session aktif di chat %d", targetChat))
}

// handleStopLive stops the live session of the invoking (or named) chat.
func (b *Bot) handleStopLive(ctx context.Context, msg *Message, args string) {
	if !b.requireAdmin(ctx, msg) {
		return
	}

	targetChat := msg.Chat.ID
	if args != "" {
		id, err := strconv.ParseInt(args, 10, 64)
		if err != nil {
			b.reply(ctx, msg.Chat.ID, "❌ Harap beri chat ID yang valid!")
			return
		}
		targetChat = id
	}

	if err := b.liveReg.Stop(ctx, targetChat); err != nil {
		b.reply(ctx, msg.Chat.ID, "⚠️ Tidak ada live session di chat itu")
		return
	}
	b.reply(ctx, msg.Chat.ID, "🛑 Live session dihentikan")
}

// handleStatus answers /status.
func (b *Bot) handleStatus(ctx context.Context, msg *Message, _ string) {
	b.reply(ctx, msg.Chat.ID,
		b.format.StatusCard(b.startTime, b.liveReg.Active(), b.cfg.Redis.Enabled))
}

// handleTsInfo answers /tsinfo with the TeamSpeak server card.
func (b *Bot) handleTsInfo(ctx context.Context, msg *Message, _ string) {
	if b.ts == nil {
		b.reply(ctx, msg.Chat.ID, "❌ Server TeamSpeak tidak dikonfigurasi")
		return
	}

	info, err := b.ts.Info()
	if err != nil {
		logger.Error("tsinfo: %v", err)
		b.reply(ctx, msg.Chat.ID, "❌ Gagal terhubung ke server TeamSpeak")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🔊 <b>%s</b>\n\n", info.Name)
	fmt.Fprintf(&sb, "🆔 Slot: %d/%d\n", info.ClientsOnline, info.MaxClients)
	fmt.Fprintf(&sb, "⏱ Uptime: %s\n", humanize.RelTime(time.Now().Add(-info.Uptime), time.Now(), "", ""))
	fmt.Fprintf(&sb, "📁 Channels: %d\n\n", info.ChannelsOnline)

	users := info.OnlineUsers
	fmt.Fprintf(&sb, "<b>Pengguna Online (%d)</b>\n", len(users))
	if len(users) == 0 {
		sb.WriteString("Tidak ada pengguna online")
	} else {
		const maxListed = 15
		for i, name := range users {
			if i == maxListed {
				sb.WriteString("...")
				break
			}
			fmt.Fprintf(&sb, "• %s\n", name)
		}
	}

	b.reply(ctx, msg.Chat.ID, sb.String())
}

// handleHelp answers /help.
func (b *Bot) handleHelp(ctx context.Context, msg *Message, _ string) {
	b.reply(ctx, msg.Chat.ID, b.format.HelpCard(commandDescriptions, commandOrder))
}

// requireAdmin gates privileged commands on the static admin list.
func (b *Bot) requireAdmin(ctx context.Context, msg *Message) bool {
	if msg.From != nil && b.cfg.IsAdmin(msg.From.ID) {
		return true
	}
	b.reply(ctx, msg.Chat.ID, "❌ Perintah ini hanya untuk admin")
	return false
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if _, err := b.client.SendMessage(ctx, chatID, text, nil); err != nil {
		logger.Error("kirim pesan ke %d: %v", chatID, err)
	}
}

// UpdateLiveMessage implements live.MessageUpdater.
func (b *Bot) UpdateLiveMessage(ctx context.Context, chatID, messageID int64, record types.PriceRecord, rupiah float64) error {
	return b.client.EditMessageText(ctx, chatID, messageID, b.format.LiveCard(record, rupiah))
}

// UpdateHistoryMessage implements navigation.HistoryUpdater: swap the chart
// and caption in place, keeping the same message and buttons.
func (b *Bot) UpdateHistoryMessage(ctx context.Context, chatID, messageID int64, hist *types.ResolvedHistory, png []byte) error {
	rupiah, err := b.conv.ToRupiah(hist.Latest().Price)
	if err != nil {
		return err
	}
	return b.client.EditMessageMedia(ctx, chatID, messageID, png,
		b.format.HistoryCaption(hist, rupiah), historyKeyboard())
}
