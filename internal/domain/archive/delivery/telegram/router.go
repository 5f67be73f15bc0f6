// Package telegram contains Telegram delivery layer
package telegram

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/consts"
)

// Router registers Telegram bot handlers
type Router struct {
	handlers *Handlers
	commands map[string]tgbot.HandlerFunc
	logger   zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		commands: map[string]tgbot.HandlerFunc{
			consts.CommandStart.Name:           handlers.HandleStart,
			consts.CommandStop.Name:            handlers.HandleStop,
			consts.CommandHelp.Name:            handlers.HandleHelp,
			consts.CommandInfo.Name:            handlers.HandleInfo,
			consts.CommandSetName.Name:         handlers.HandleSetName,
			consts.CommandVerbose.Name:         handlers.HandleVerbose,
			consts.CommandAllowDuplicates.Name: handlers.HandleAllowDuplicates,
			consts.CommandSortByUser.Name:      handlers.HandleSortByUser,
			consts.CommandAccept.Name:          handlers.HandleAccept,
			consts.CommandZip.Name:             handlers.HandleZip,
			consts.CommandClearHistory.Name:    handlers.HandleClearHistory,
			consts.CommandScanChat.Name:        handlers.HandleScanChat,
		},
		logger: logger,
	}
}

// RegisterRoutes registers all command handlers, the media catch-all and
// the channel post dispatcher on the bot
func (r *Router) RegisterRoutes(bot *tgbot.Bot) {
	for name, handler := range r.commands {
		// prefix match also catches addressed forms like /zip@botname
		bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/"+name, tgbot.MatchTypePrefix, r.wrap("/"+name, handler))
	}

	bot.RegisterHandlerMatchFunc(matchMedia, r.wrap("media", r.handlers.HandleMedia))

	// the library's text handlers only look at update.Message, channel
	// posts arrive as update.ChannelPost and need their own dispatch
	bot.RegisterHandlerMatchFunc(matchChannelPost, r.wrap("channel-post", r.dispatchChannelPost))

	r.logger.Info().Msg("All Telegram handlers registered successfully")
}

// RegisterMenu publishes the command list to the Telegram command menu
func (r *Router) RegisterMenu(ctx context.Context, bot *tgbot.Bot) error {
	commands := make([]models.BotCommand, 0, len(consts.AllCommands))
	for _, cmd := range consts.AllCommands {
		commands = append(commands, models.BotCommand{
			Command:     cmd.Name,
			Description: cmd.Description,
		})
	}

	_, err := bot.SetMyCommands(ctx, &tgbot.SetMyCommandsParams{Commands: commands})
	return err
}

// dispatchChannelPost routes one channel post to the matching command
// handler, or into the media pipeline
func (r *Router) dispatchChannelPost(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	post := update.ChannelPost
	if post == nil {
		return
	}

	if name := commandName(post.Text); name != "" {
		if handler, ok := r.commands[name]; ok {
			handler(ctx, bot, update)
		}
		return
	}

	r.handlers.HandleMedia(ctx, bot, update)
}

// matchMedia selects every regular message carrying an attachment
func matchMedia(update *models.Update) bool {
	return hasMedia(update.Message)
}

// matchChannelPost selects channel posts worth dispatching
func matchChannelPost(update *models.Update) bool {
	if update.ChannelPost == nil {
		return false
	}
	return update.ChannelPost.Text != "" || hasMedia(update.ChannelPost)
}

func hasMedia(msg *models.Message) bool {
	if msg == nil {
		return false
	}
	return msg.Document != nil || len(msg.Photo) > 0 || msg.Sticker != nil
}

// wrap recovers handler panics so one bad update cannot kill the bot
func (r *Router) wrap(name string, fn tgbot.HandlerFunc) tgbot.HandlerFunc {
	return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error().
					Str("handler", name).
					Interface("panic", rec).
					Msg("Handler panicked")
				r.handlers.telemetry.ReportAnomaly(ctx, "handler panicked", map[string]string{
					"handler": name,
					"panic":   fmt.Sprint(rec),
				})
			}
		}()
		fn(ctx, bot, update)
	}
}
