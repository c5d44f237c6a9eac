// cmd/bot/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"albion-gold-bot/internal/delivery/telegram"
	cache "albion-gold-bot/internal/infrastructure/cache/redis"
	"albion-gold-bot/internal/infrastructure/config"
	"albion-gold-bot/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig(".env", "config/default.json")
	if err != nil {
		log.Fatalf("Tidak bisa memuat konfigurasi: %v", err)
	}

	if err := logger.InitGlobal(cfg.LogFile, cfg.LogLevel, cfg.Debug); err != nil {
		log.Fatalf("Tidak bisa membuka log file: %v", err)
	}
	defer logger.GetLogger().Close()

	printHeader("BOT HARGA GOLD ALBION ONLINE")
	fmt.Printf("🔧 Konfigurasi:\n")
	fmt.Printf("   API: %s\n", cfg.APIURL)
	fmt.Printf("   Konstanta C: %.0f\n", cfg.KonstantaC)
	fmt.Printf("   Riwayat maksimal: %d hari\n", cfg.MaxHistoryDays)
	fmt.Printf("   Redis mirror: %v\n", cfg.Redis.Enabled)
	fmt.Printf("   TeamSpeak: %v\n", cfg.TeamSpeak.Enabled())
	fmt.Println()

	var store telegram.Store
	if cfg.Redis.Enabled {
		redisCache := cache.NewCache(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err := redisCache.Ping(context.Background()); err != nil {
			logger.Warn("Redis tidak terjangkau (%v), lanjut tanpa mirror", err)
		} else {
			store = cache.NewSessionStore(redisCache)
			logger.Info("🗄 Redis mirror aktif di %s", cfg.Redis.Addr())
			defer redisCache.Close()
		}
	}

	bot := telegram.NewBot(cfg, store)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Live sessions from before the last restart keep their messages.
	if err := bot.Live().Restore(ctx); err != nil {
		logger.Warn("Restore live session: %v", err)
	}

	if err := bot.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("Polling berhenti: %v", err)
	}

	logger.Info("🛑 Shutdown, menghentikan semua live session...")
	bot.Live().StopAll()
	logger.Info("Selesai")
}

func printHeader(title string) {
	line := "============================================================"
	fmt.Println(line)
	fmt.Printf("  %s\n", title)
	fmt.Println(line)
	_ = os.Stdout.Sync()
}
