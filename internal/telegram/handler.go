package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/jambprep/quizbot/internal/quiz"
	"github.com/jambprep/quizbot/internal/store"
)

type Bot struct {
	api   *tgbotapi.BotAPI
	quiz  *quiz.Service
	store store.Store
	log   *zap.SugaredLogger
}

func NewBot(token string, svc *quiz.Service, st store.Store, log *zap.SugaredLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:   api,
		quiz:  svc,
		store: st,
		log:   log,
	}, nil
}

func (b *Bot) Start() {
	b.log.Infow("authorised", "account", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		ctx := context.Background()
		if update.Message != nil {
			switch update.Message.Command() {
			case "start":
				b.handleStart(ctx, update.Message.Chat.ID, update.Message.From)
			case "quiz":
				b.sendNextQuestion(ctx, update.Message.Chat.ID)
			case "score":
				b.handleScore(ctx, update.Message.Chat.ID)
			case "top":
				b.handleLeaderboard(ctx, update.Message.Chat.ID)
			default:
				b.sendMessage(update.Message.Chat.ID, "Unknown command. Try /quiz, /score or /top.")
			}
		}
		if update.CallbackQuery != nil {
			b.handleCallback(ctx, update.CallbackQuery)
		}
	}
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	data := callback.Data

	callbackConfig := tgbotapi.NewCallback(callback.ID, "")
	if _, err := b.api.Request(callbackConfig); err != nil {
		b.log.Errorw("answer callback", "err", err)
	}

	switch {
	case strings.HasPrefix(data, "answer_"):
		b.handleAnswer(ctx, chatID, data)
	case data == "next":
		b.sendNextQuestion(ctx, chatID)
	case data == "score":
		b.handleScore(ctx, chatID)
	case data == "top":
		b.handleLeaderboard(ctx, chatID)
	default:
		b.log.Warnw("unknown callback", "data", data)
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID int64, user *tgbotapi.User) {
	if user != nil {
		if err := b.store.TouchIdentity(ctx, chatID, user.UserName, user.FirstName); err != nil {
			b.log.Errorw("touch identity", "user", chatID, "err", err)
		}
	}

	b.sendMessage(chatID,
		"👋 Welcome to JAMB practice!\n\n"+
			"I'll send you multiple-choice questions one at a time and keep your score. "+
			"Answer with the buttons below each question.\n\n"+
			"Commands: /quiz — next question, /score — your score, /top — leaderboard.")
	b.sendNextQuestion(ctx, chatID)
}

func (b *Bot) sendNextQuestion(ctx context.Context, chatID int64) {
	q, index, err := b.quiz.BeginSession(ctx, chatID)
	if err != nil {
		b.log.Errorw("begin session", "user", chatID, "err", err)
		b.sendMessage(chatID, "😔 Something went wrong, please try /quiz again.")
		return
	}

	message := fmt.Sprintf("❓ *Question %d*\n\n%s", index, q.Prompt)
	msg := tgbotapi.NewMessage(chatID, message)
	msg.ParseMode = "Markdown"

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, option := range q.Options {
		callbackData := fmt.Sprintf("answer_%d_%d", q.ID, i)
		button := tgbotapi.NewInlineKeyboardButtonData(option, callbackData)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button))
	}
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)

	if _, err := b.api.Send(msg); err != nil {
		b.log.Errorw("send question", "user", chatID, "err", err)
	}
}

func (b *Bot) handleAnswer(ctx context.Context, chatID int64, data string) {
	parts := strings.Split(data, "_")
	if len(parts) != 3 {
		b.log.Warnw("malformed answer callback", "data", data)
		return
	}
	questionID, err := strconv.Atoi(parts[1])
	if err != nil {
		b.log.Warnw("malformed question id", "data", data)
		return
	}
	optionIndex, err := strconv.Atoi(parts[2])
	if err != nil {
		b.log.Warnw("malformed option index", "data", data)
		return
	}

	// Grading compares option values, so translate the button index back to
	// the option text before handing it to the core.
	question, ok := b.quiz.Question(questionID)
	if !ok || optionIndex < 0 || optionIndex >= len(question.Options) {
		b.sendMessage(chatID, "⌛ That question has expired. Send /quiz for a fresh one.")
		return
	}
	chosen := question.Options[optionIndex]

	result, err := b.quiz.GradeAnswer(ctx, chatID, questionID, chosen)
	if err != nil {
		if errors.Is(err, quiz.ErrUnknownQuestion) {
			b.sendMessage(chatID, "⌛ That question has expired. Send /quiz for a fresh one.")
			return
		}
		b.log.Errorw("grade answer", "user", chatID, "question", questionID, "err", err)
		b.sendMessage(chatID, "😔 Something went wrong, please try again.")
		return
	}

	var text string
	if result.Correct {
		text = "✅ *Correct!* 🎉"
	} else {
		text = fmt.Sprintf("❌ *Wrong!*\nThe correct answer is: %s", result.Answer)
	}
	if result.Explanation != "" {
		text += "\n\n💡 " + result.Explanation
	}
	text += fmt.Sprintf("\n\n📊 Score: %d/%d", result.Score, result.Total)
	if result.IsMilestone {
		text += fmt.Sprintf("\n🎯 %d questions done! Running accuracy: %.1f%%", result.Total, result.Milestone)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Next question ▶️", "next"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My score", "score"),
			tgbotapi.NewInlineKeyboardButtonData("🏆 Leaderboard", "top"),
		),
	)

	if _, err := b.api.Send(msg); err != nil {
		b.log.Errorw("send result", "user", chatID, "err", err)
	}
}

func (b *Bot) handleScore(ctx context.Context, chatID int64) {
	p, err := b.store.Get(ctx, chatID)
	if err != nil {
		b.log.Errorw("load score", "user", chatID, "err", err)
		b.sendMessage(chatID, "😔 Could not load your score, please try again.")
		return
	}

	if p.Total == 0 {
		b.sendMessage(chatID, "You haven't answered anything yet. Send /quiz to get your first question! 🎯")
		return
	}

	pct := float64(p.Correct) / float64(p.Total) * 100
	b.sendMessage(chatID, fmt.Sprintf("📊 Your score: %d/%d (%.1f%%)", p.Correct, p.Total, pct))
}

func (b *Bot) handleLeaderboard(ctx context.Context, chatID int64) {
	top, err := b.store.Top(ctx, 10)
	if err != nil {
		b.log.Errorw("load leaderboard", "err", err)
		b.sendMessage(chatID, "😔 Could not load the leaderboard, please try again.")
		return
	}

	if len(top) == 0 {
		b.sendMessage(chatID, "🏆 *Leaderboard*\n\nNo results yet. Be the first! 🎯")
		return
	}

	message := "🏆 *Top 10 players*\n\n"
	for i, entry := range top {
		name := entry.FirstName
		if entry.Username != "" {
			name = "@" + entry.Username
		}
		if name == "" {
			name = fmt.Sprintf("player %d", entry.UserID)
		}

		medal := "🔸"
		switch i {
		case 0:
			medal = "🥇"
		case 1:
			medal = "🥈"
		case 2:
			medal = "🥉"
		}

		message += fmt.Sprintf("%s %d. %s — %d%% (%d/%d)\n", medal, i+1, name, entry.Percentage, entry.Correct, entry.Total)
	}

	msg := tgbotapi.NewMessage(chatID, message)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		b.log.Errorw("send leaderboard", "err", err)
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		b.log.Errorw("send message", "user", chatID, "err", err)
	}
}
