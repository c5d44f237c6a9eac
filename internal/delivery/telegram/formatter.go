// internal/delivery/telegram/formatter.go
package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"albion-gold-bot/internal/live"
	"albion-gold-bot/internal/types"
)

// Formatter builds the Indonesian HTML cards the bot sends.
type Formatter struct{}

// GoldCard is the /gold reply.
func (Formatter) GoldCard(record types.PriceRecord, rupiah float64) string {
	var b strings.Builder
	b.WriteString("💵 <b>HARGA GOLD TERKINI</b>\n")
	fmt.Fprintf(&b, "Update terakhir: %s\n\n", record.Timestamp.Format("02/01/2006 15:04 UTC"))
	fmt.Fprintf(&b, "🪙 1 Gold = %s Silver\n", humanize.Comma(int64(record.Price)))
	fmt.Fprintf(&b, "🇮🇩 1jt Silver = Rp %s", humanize.CommafWithDigits(rupiah, 2))
	return b.String()
}

// LiveCard is the body of the message a live session keeps editing.
func (Formatter) LiveCard(record types.PriceRecord, rupiah float64) string {
	var b strings.Builder
	b.WriteString("📊 <b>LIVE UPDATE</b>\n")
	fmt.Fprintf(&b, "Update terakhir: %s\n\n", record.Timestamp.Format("15:04:05"))
	fmt.Fprintf(&b, "Harga Silver: 🪙 %s\n", humanize.Comma(int64(record.Price)))
	fmt.Fprintf(&b, "Konversi Rupiah: 🇮🇩 Rp %s", humanize.CommafWithDigits(rupiah, 2))
	return b.String()
}

// HistoryCaption goes under the chart image.
func (Formatter) HistoryCaption(hist *types.ResolvedHistory, rupiah float64) string {
	latest := hist.Latest()

	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>DATA HISTORIS - %s</b>\n", hist.EffectiveDate.Format("02 Jan 2006"))
	fmt.Fprintf(&b, "Menampilkan %d hari data terakhir yang tersedia\n", len(hist.Records))
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&b, "🪙 Nilai Tukar Terakhir: <code>1 Gold = %s Silver</code>\n",
		humanize.Comma(int64(latest.Price)))
	fmt.Fprintf(&b, "🇮🇩 Konversi Rupiah: <code>1jt Silver = Rp %s</code>",
		humanize.CommafWithDigits(rupiah, 2))

	if hist.Limited() {
		b.WriteString("\n\n⚠️ Data historis terbatas, grafik mungkin tidak lengkap")
	}
	return b.String()
}

// StatusCard is the /status reply.
func (Formatter) StatusCard(startTime time.Time, liveSessions []live.Info, redisEnabled bool) string {
	var b strings.Builder
	b.WriteString("🖥 <b>STATUS BOT ALBION GOLD</b>\n\n")
	fmt.Fprintf(&b, "⏱ Uptime: <code>%s</code>\n",
		humanize.RelTime(startTime, time.Now(), "", ""))
	fmt.Fprintf(&b, "📡 Live session aktif: <code>%d</code>\n", len(liveSessions))

	for _, info := range liveSessions {
		fmt.Fprintf(&b, "   • chat <code>%d</code> sejak %s\n",
			info.ChatID, info.StartedAt.Format("02/01 15:04"))
	}

	state := "nonaktif"
	if redisEnabled {
		state = "aktif"
	}
	fmt.Fprintf(&b, "🗄 Redis mirror: <code>%s</code>", state)
	return b.String()
}

// HelpCard lists the command surface.
func (Formatter) HelpCard(commands map[string]string, order []string) string {
	var b strings.Builder
	b.WriteString("📚 <b>BANTUAN BOT ALBION GOLD</b>\n\n")
	b.WriteString("<b>Daftar Perintah:</b>\n")
	for _, name := range order {
		fmt.Fprintf(&b, "/%s - %s\n", name, commands[name])
	}
	b.WriteString("\nDeveloped by SANDWICH TECH")
	return b.String()
}

// historyKeyboard builds the three navigation buttons.
func historyKeyboard() *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{{
			{Text: "⬅️ Hari Sebelumnya", CallbackData: "history:prev"},
			{Text: "⏺️ Hari Ini", CallbackData: "history:today"},
			{Text: "➡️ Hari Berikutnya", CallbackData: "history:next"},
		}},
	}
}
