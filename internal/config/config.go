package config

import "os"

// StoreMemory as QUIZ_DB_PATH selects the in-memory store; progress is then
// lost on restart.
const StoreMemory = "memory"

type Config struct {
	TelegramToken string
	DBPath        string
	QuestionsPath string
	LogMode       string // dev | prod
}

func FromEnv() Config {
	return Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DBPath:        envOr("QUIZ_DB_PATH", "quizbot.db"),
		QuestionsPath: envOr("QUESTIONS_PATH", "questions.json"),
		LogMode:       envOr("LOG_MODE", "dev"),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
