// Package telegram contains Telegram delivery handlers
package telegram

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/consts"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/deps"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/entities"
	archiveerrors "github.com/yourusername/telegram-archive-bot/internal/domain/archive/errors"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/usecase/buissines"
	"github.com/yourusername/telegram-archive-bot/pkg/retry"
)

const uploadTimeout = 30 * time.Minute

// Handlers contains Telegram command handlers
type Handlers struct {
	uc        *buissines.UseCase
	bot       *tgbot.Bot
	history   deps.HistorySource
	telemetry deps.Telemetry
	logger    zerolog.Logger

	selfOnce sync.Once
	self     *models.User
}

// NewHandlers creates new Telegram handlers
func NewHandlers(
	uc *buissines.UseCase,
	bot *tgbot.Bot,
	history deps.HistorySource,
	telemetry deps.Telemetry,
	logger zerolog.Logger,
) *Handlers {
	return &Handlers{
		uc:        uc,
		bot:       bot,
		history:   history,
		telemetry: telemetry,
		logger:    logger,
	}
}

// HandleStart handles /start command
func (h *Handlers) HandleStart(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg, ok := h.command(ctx, update)
	if !ok {
		return
	}

	sub, ok := h.subscriber(ctx, msg)
	if !ok {
		return
	}

	if err := h.uc.SetActive(ctx, sub, true); err != nil {
		h.fail(ctx, msg, "/start", err)
		return
	}

	h.reply(ctx, msg.Chat.ID, fmt.Sprintf("Archiving started. Files posted here are stored under %s.", sub.Name))
}

// HandleStop handles /stop command
func (h *Handlers) HandleStop(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg, ok := h.command(ctx, update)
	if !ok {
		return
	}

	sub, ok := h.subscriber(ctx, msg)
	if !ok {
		return
	}

	if err := h.uc.SetActive(ctx, sub, false); err != nil {
		h.fail(ctx, msg, "/stop", err)
		return
	}

	h.reply(ctx, msg.Chat.ID, "Archiving stopped.")
}

// HandleHelp handles /help command
func (h *Handlers) HandleHelp(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg, ok := h.command(ctx, update)
	if !ok {
		return
	}

	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, cmd := range consts.AllCommands {
		fmt.Fprintf(&b, "/%s - %s\n", cmd.Name, cmd.Description)
	}

	h.reply(ctx, msg.Chat.ID, b.String())
}

// HandleInfo handles /info command
func (h *Handlers) HandleInfo(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg, ok := h.command(ctx, update)
	if !ok {
		return
	}

	sub, ok := h.subscriber(ctx, msg)
	if !ok {
		return
	}

	info := h.uc.Info(sub)
	accepted := make([]string, 0, len(info.AcceptedMedia))
	for _, kind := range info.AcceptedMedia {
		accepted = append(accepted, string(kind))
	}

	text := fmt.Sprintf(
		"Name: %s\nActive: %t\nAccepted media: %s\nVerbose: %t\nAllow duplicates: %t\nSort by user: %t",
		info.Name,
		info.Active,
		strings.Join(accepted, " "),
		info.Verbose,
		info.AllowDuplicates,
		info.SortByUser,
	)

	h.reply(ctx, msg.Chat.ID, text)
}

// HandleSetName handles /set_name command
func (h *Handlers) HandleSetName(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg, ok := h.command(ctx, update)
	if !ok {
		return
	}

	args := commandArgs(msg)
	if len(args) == 0 {
		h.reply(ctx, msg.Chat.ID, "Usage: /set_name <name>")
		return
	}
	name := strings.Join(args, " ")

	sub, ok := h.subscriber(ctx, msg)
	if !ok {
		return
	}

	err := h.uc.Rename(ctx, sub, name)
	switch {
	case errors.Is(err, archiveerrors.ErrNameTaken):
		h.reply(ctx, msg.Chat.ID, "This name is already taken.")
	case errors.Is(err, archiveerrors.ErrReservedName):
		h.reply(ctx, msg.Chat.ID, "This name is reserved, pick another one.")
	case errors.Is(err, archiveerrors.ErrPathEscape):
		h.reply(ctx, msg.Chat.ID, "This name is not allowed.")
	case err != nil:
		h.fail(ctx, msg, "/set_name", err)
	default:
		h.reply(ctx, msg.Chat.ID, fmt.Sprintf("Name changed to %s.", name))
	}
}

// HandleVerbose handles /verbose command
func (h *Handlers) HandleVerbose(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.handleToggle(ctx, update, "/verbose", h.uc.SetVerbose)
}

// HandleAllowDuplicates handles /allow_duplicates command
func (h *Handlers) HandleAllowDuplicates(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.handleToggle(ctx, update, "/allow_duplicates", h.uc.SetAllowDuplicates)
}

// HandleSortByUser handles /sort_by_user command
func (h *Handlers) HandleSortByUser(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.handleToggle(ctx, update, "/sort_by_user", h.uc.SetSortByUser)
}

// handleToggle runs one boolean setting command
func (h *Handlers) handleToggle(
	ctx context.Context,
	update *models.Update,
	name string,
	set func(context.Context, *entities.Subscriber, bool) error,
) {
	msg, ok := h.command(ctx, update)
	if !ok {
		return
	}

	args := commandArgs(msg)
	if len(args) == 0 {
		h.reply(ctx, msg.Chat.ID, fmt.Sprintf("Usage: %s [on|off]", name))
		return
	}

	value, err := parseBool(args[0])
	if err != nil {
		h.reply(ctx, msg.Chat.ID, fmt.Sprintf("I did not understand %q, try on or off.", args[0]))
		return
	}

	sub, ok := h.subscriber(ctx, msg)
	if !ok {
		return
	}

	if err := set(ctx, sub, value); err != nil {
		h.fail(ctx, msg, name, err)
		return
	}

	h.reply(ctx, msg.Chat.ID, fmt.Sprintf("%s is now %s.", strings.TrimPrefix(name, "/"), onOff(value)))
}

// HandleAccept handles /accept command
func (h *Handlers) HandleAccept(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg, ok := h.command(ctx, update)
	if !ok {
		return
	}

	args := commandArgs(msg)
	if len(args) == 0 {
		possible := make([]string, 0, len(entities.PossibleMedia))
		for _, kind := range entities.PossibleMedia {
			possible = append(possible, string(kind))
		}
		h.reply(ctx, msg.Chat.ID, fmt.Sprintf("Possible media types are: %s.", strings.Join(possible, " ")))
		return
	}

	sub, ok := h.subscriber(ctx, msg)
	if !ok {
		return
	}

	kinds, err := h.uc.SetAcceptedMedia(ctx, sub, args)
	if err != nil {
		h.fail(ctx, msg, "/accept", err)
		return
	}

	if len(kinds) == 0 {
		h.reply(ctx, msg.Chat.ID, "No known media types given, accepting nothing now.")
		return
	}

	accepted := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		accepted = append(accepted, string(kind))
	}
	h.reply(ctx, msg.Chat.ID, fmt.Sprintf("Now accepting: %s.", strings.Join(accepted, " ")))
}

// HandleZip handles /zip command: bundle the chat's archive into volumes,
// upload each one and drop the staging directory afterwards.
func (h *Handlers) HandleZip(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg, ok := h.command(ctx, update)
	if !ok {
		return
	}

	sub, ok := h.subscriber(ctx, msg)
	if !ok {
		return
	}

	h.reply(ctx, msg.Chat.ID, "Zipping started, this may take a while...")

	volumes, stagingDir, err := h.uc.Export(ctx, sub)
	if errors.Is(err, archiveerrors.ErrNoFilesYet) {
		h.reply(ctx, msg.Chat.ID, "No files archived for this chat yet.")
		return
	}
	if err != nil {
		h.fail(ctx, msg, "/zip", err)
		return
	}
	defer os.RemoveAll(stagingDir)

	for _, volume := range volumes {
		if err := h.uploadVolume(ctx, msg.Chat.ID, volume); err != nil {
			h.fail(ctx, msg, "/zip", err)
			return
		}
	}

	h.reply(ctx, msg.Chat.ID, "All files are uploaded :)")
}

// uploadVolume sends one export volume as a document, honoring transport
// throttling through the retry policy
func (h *Handlers) uploadVolume(ctx context.Context, chatID int64, path string) error {
	uploadCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	return retry.Do(uploadCtx, h.logger, func(ctx context.Context) error {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open volume %s: %w", path, err)
		}
		defer file.Close()

		_, err = h.bot.SendDocument(ctx, &tgbot.SendDocumentParams{
			ChatID: chatID,
			Document: &models.InputFileUpload{
				Filename: filepath.Base(path),
				Data:     file,
			},
		})
		if err != nil {
			return translateRateLimit(err)
		}
		return nil
	})
}

// HandleClearHistory handles /clear_history command
func (h *Handlers) HandleClearHistory(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg, ok := h.command(ctx, update)
	if !ok {
		return
	}

	sub, ok := h.subscriber(ctx, msg)
	if !ok {
		return
	}

	if err := h.uc.ClearHistory(ctx, sub); err != nil {
		h.fail(ctx, msg, "/clear_history", err)
		return
	}

	h.reply(ctx, msg.Chat.ID, "All archived files and records of this chat were deleted.")
}

// HandleScanChat handles /scan_chat command
func (h *Handlers) HandleScanChat(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg, ok := h.command(ctx, update)
	if !ok {
		return
	}

	iter, err := h.history.History(ctx, msg.Chat.ID)
	if errors.Is(err, archiveerrors.ErrHistoryScanUnsupported) {
		h.reply(ctx, msg.Chat.ID, "Scanning chat history is not available with a bot account.")
		return
	}
	if err != nil {
		h.fail(ctx, msg, "/scan_chat", err)
		return
	}

	h.reply(ctx, msg.Chat.ID, "Scanning chat history, this may take a while...")

	archived, err := h.uc.ScanChat(ctx, iter)
	if err != nil {
		h.fail(ctx, msg, "/scan_chat", err)
		return
	}

	h.reply(ctx, msg.Chat.ID, fmt.Sprintf("Scan finished, %d files archived.", archived))
}

// HandleMedia feeds every non-command message into the archival pipeline
func (h *Handlers) HandleMedia(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := incomingMessage(update)
	if msg == nil {
		return
	}

	result, err := h.uc.Ingest(ctx, messageFrom(msg, h.selfID(ctx)))
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("chat_id", msg.Chat.ID).
			Int("message_id", msg.ID).
			Msg("Ingest failed")
		return
	}

	if result.Notice != "" {
		h.reply(ctx, msg.Chat.ID, result.Notice)
	}
}

// command validates one command update: the message must exist and,
// outside private chats, be addressed to this bot (/cmd@botname).
func (h *Handlers) command(ctx context.Context, update *models.Update) (*models.Message, bool) {
	msg := incomingMessage(update)
	if msg == nil || msg.Text == "" {
		return nil, false
	}

	if msg.Chat.Type != models.ChatTypePrivate {
		mention := commandMention(msg.Text)
		if mention == "" || !strings.EqualFold(mention, h.selfUsername(ctx)) {
			return nil, false
		}
	}

	return msg, true
}

// subscriber loads (or creates) the subscriber of the message's chat
func (h *Handlers) subscriber(ctx context.Context, msg *models.Message) (*entities.Subscriber, bool) {
	sub, err := h.uc.Subscriber(ctx, peerFrom(msg, h.selfID(ctx)))
	if err != nil {
		h.fail(ctx, msg, "subscriber", err)
		return nil, false
	}
	return sub, true
}

// fail logs a handler error and tells the user something went wrong
func (h *Handlers) fail(ctx context.Context, msg *models.Message, command string, err error) {
	h.logger.Error().
		Err(err).
		Str("command", command).
		Int64("chat_id", msg.Chat.ID).
		Msg("Command failed")
	h.reply(ctx, msg.Chat.ID, "Something went wrong, please try again later.")
}

// reply sends a plain text message to the chat
func (h *Handlers) reply(ctx context.Context, chatID int64, text string) {
	_, err := h.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("Failed to send reply")
	}
}

// selfID returns the bot's own user id, fetched once
func (h *Handlers) selfID(ctx context.Context) int64 {
	if me := h.me(ctx); me != nil {
		return me.ID
	}
	return 0
}

// selfUsername returns the bot's own username, fetched once
func (h *Handlers) selfUsername(ctx context.Context) string {
	if me := h.me(ctx); me != nil {
		return me.Username
	}
	return ""
}

func (h *Handlers) me(ctx context.Context) *models.User {
	h.selfOnce.Do(func() {
		me, err := h.bot.GetMe(ctx)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to fetch bot identity")
			return
		}
		h.self = me
	})
	return h.self
}

// incomingMessage returns the message of an update regardless of whether
// it arrived as a regular message or a channel post
func incomingMessage(update *models.Update) *models.Message {
	if update.Message != nil {
		return update.Message
	}
	return update.ChannelPost
}

// commandName extracts the bare command name of a message text, empty when
// the text is not a command
func commandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	name, _, _ := strings.Cut(strings.TrimPrefix(fields[0], "/"), "@")
	return name
}

// commandArgs returns the whitespace-separated arguments after the command
func commandArgs(msg *models.Message) []string {
	fields := strings.Fields(msg.Text)
	if len(fields) < 2 {
		return nil
	}
	return fields[1:]
}

// commandMention extracts the @botname suffix of a command, empty when the
// command is unaddressed
func commandMention(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	_, mention, found := strings.Cut(fields[0], "@")
	if !found {
		return ""
	}
	return mention
}

// parseBool parses the boolean argument forms users actually type
func parseBool(arg string) (bool, error) {
	switch strings.ToLower(arg) {
	case "1", "true", "on":
		return true, nil
	case "0", "false", "off":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q", arg)
	}
}

func onOff(value bool) string {
	if value {
		return "on"
	}
	return "off"
}

// translateRateLimit maps the bot library's throttling error onto the
// retry package's error type
func translateRateLimit(err error) error {
	var tooMany *tgbot.TooManyRequestsError
	if errors.As(err, &tooMany) {
		return retry.NewRateLimitError(time.Duration(tooMany.RetryAfter) * time.Second)
	}
	return err
}
