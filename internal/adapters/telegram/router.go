package telegram

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/aporte/internal/domain/model"
	"github.com/okian/aporte/pkg/logger"
	"github.com/okian/aporte/pkg/metrics"
)

// Default number of standings rows and archived periods shown in replies.
const (
	defaultRankingRows = 10
	defaultHistoryRows = 5
)

// Engine bundles the operations the bot exposes to chat users.
type Engine interface {
	RecordContribution(ctx context.Context, c model.Contribution) (awarded, total int, err error)
	CurrentStandings(ctx context.Context) ([]model.Row, error)
	History(ctx context.Context, limit int) ([]model.ArchivedPeriod, error)
}

// Sender sends a text reply to a chat.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Router maps incoming updates onto engine operations.
type Router struct {
	engine      Engine
	sender      Sender
	rankingRows int
	historyRows int
	log         logger.Logger
}

// NewRouter creates a new update router.
func NewRouter(engine Engine, sender Sender, opts ...RouterOption) *Router {
	r := &Router{
		engine:      engine,
		sender:      sender,
		rankingRows: defaultRankingRows,
		historyRows: defaultHistoryRows,
		log:         logger.Get(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Handle processes one update. Unknown or malformed updates are ignored.
func (r *Router) Handle(ctx context.Context, u Update) {
	metrics.RecordTelegramUpdate()

	msg := u.Message
	if msg == nil || msg.Chat == nil || msg.From == nil || msg.From.IsBot {
		return
	}

	switch {
	case len(msg.Photo) > 0:
		r.handlePhoto(ctx, msg)
	case strings.HasPrefix(msg.Text, "/"):
		r.handleCommand(ctx, msg)
	}
}

func (r *Router) handlePhoto(ctx context.Context, msg *Message) {
	// The last size variant is the original resolution.
	best := msg.Photo[len(msg.Photo)-1]

	c := model.Contribution{
		ID:          uuid.NewString(),
		UserID:      model.UserID(msg.From.ID),
		DisplayName: msg.From.FullName(),
		Width:       best.Width,
		Height:      best.Height,
		TS:          time.Unix(msg.Date, 0).UTC(),
	}

	awarded, total, err := r.engine.RecordContribution(ctx, c)
	if err != nil {
		r.log.Warn(ctx, "record contribution failed",
			logger.Int64("user_id", msg.From.ID),
			logger.Error(err),
		)
		return
	}

	r.reply(ctx, msg.Chat.ID, ContributionText(c.DisplayName, best.Width, best.Height, awarded, total))
}

func (r *Router) handleCommand(ctx context.Context, msg *Message) {
	switch command(msg.Text) {
	case "/start":
		r.reply(ctx, msg.Chat.ID, WelcomeText())
	case "/ranking":
		rows, err := r.engine.CurrentStandings(ctx)
		if err != nil {
			r.log.Warn(ctx, "standings lookup failed", logger.Error(err))
			return
		}
		r.reply(ctx, msg.Chat.ID, RankingText(rows, r.rankingRows))
	case "/history":
		periods, err := r.engine.History(ctx, r.historyRows)
		if err != nil {
			r.log.Warn(ctx, "history lookup failed", logger.Error(err))
			return
		}
		r.reply(ctx, msg.Chat.ID, HistoryText(periods))
	}
}

func (r *Router) reply(ctx context.Context, chatID int64, text string) {
	if err := r.sender.SendMessage(ctx, chatID, text); err != nil {
		metrics.RecordTelegramSendFailure()
		r.log.Warn(ctx, "send reply failed",
			logger.Int64("chat_id", chatID),
			logger.Error(err),
		)
	}
}

// command extracts the command name from message text, dropping the bot
// mention suffix and any arguments.
func command(text string) string {
	cmd, _, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return cmd
}
