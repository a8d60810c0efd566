package main

import (
	"context"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jambprep/quizbot/internal/config"
	"github.com/jambprep/quizbot/internal/quiz"
	"github.com/jambprep/quizbot/internal/store"
	"github.com/jambprep/quizbot/internal/telegram"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	logger := newLogger(cfg.LogMode)
	defer logger.Sync()
	log := logger.Sugar()

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN environment variable is required")
	}

	bank, err := quiz.LoadBank(cfg.QuestionsPath)
	if err != nil {
		log.Fatalw("load question bank", "path", cfg.QuestionsPath, "err", err)
	}
	log.Infow("question bank loaded", "path", cfg.QuestionsPath, "questions", bank.Len())

	ctx := context.Background()
	var st store.Store
	if cfg.DBPath == config.StoreMemory {
		log.Warn("using in-memory progress store, progress is lost on restart")
		st = store.NewMemoryStore()
	} else {
		sqliteStore, err := store.OpenSQLite(ctx, cfg.DBPath)
		if err != nil {
			log.Fatalw("open progress store", "path", cfg.DBPath, "err", err)
		}
		defer sqliteStore.Close()
		st = sqliteStore
	}

	svc := quiz.NewService(bank, st)

	bot, err := telegram.NewBot(cfg.TelegramToken, svc, st, log)
	if err != nil {
		log.Fatalw("create bot", "err", err)
	}

	log.Info("🤖 Bot is starting...")
	bot.Start()
}

func newLogger(mode string) *zap.Logger {
	var cfg zap.Config
	switch mode {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
