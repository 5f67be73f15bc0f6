package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/rs/zerolog"

	"github.com/yourusername/telegram-archive-bot/pkg/retry"
)

// Downloader fetches Telegram files to local paths
type Downloader struct {
	bot    *Bot
	client *http.Client
	logger zerolog.Logger
}

// NewDownloader creates a new file downloader
func NewDownloader(bot *Bot, logger zerolog.Logger) *Downloader {
	return &Downloader{
		bot:    bot,
		client: &http.Client{Timeout: 5 * time.Minute},
		logger: logger.With().Str("component", "downloader").Logger(),
	}
}

// Download fetches the remote file into destPath. Telegram throttling is
// translated into *retry.RateLimitError so the caller's retry policy can
// honor the mandated wait.
func (d *Downloader) Download(ctx context.Context, remoteFileID string, destPath string) error {
	file, err := d.bot.Raw().GetFile(ctx, &tgbot.GetFileParams{FileID: remoteFileID})
	if err != nil {
		return translateRateLimit(err)
	}

	link := d.bot.Raw().FileDownloadLink(file)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return retry.NewRateLimitError(retryAfterHeader(resp))
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("file download returned status %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(destPath)
		return fmt.Errorf("failed to write %s: %w", destPath, err)
	}

	if err := out.Close(); err != nil {
		os.Remove(destPath)
		return fmt.Errorf("failed to close %s: %w", destPath, err)
	}

	d.logger.Debug().Str("path", destPath).Msg("File downloaded")
	return nil
}

// translateRateLimit maps the bot library's throttling error onto the
// retry package's error type, keeping the mandated wait.
func translateRateLimit(err error) error {
	var tooMany *tgbot.TooManyRequestsError
	if errors.As(err, &tooMany) {
		return retry.NewRateLimitError(time.Duration(tooMany.RetryAfter) * time.Second)
	}
	return err
}

// retryAfterHeader reads the Retry-After header, zero when absent
func retryAfterHeader(resp *http.Response) time.Duration {
	seconds, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
