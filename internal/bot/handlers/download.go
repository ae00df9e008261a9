package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
)

const (
	fileDownloadTimeout = 30 * time.Second
	maxDownloadSize     = 20 * 1024 * 1024
)

// DownloadFile downloads a file from Telegram's API using the provided file ID.
// It returns the file data, detected MIME type, and any error encountered.
func DownloadFile(ctx context.Context, b *bot.Bot, token, fileID string) (data []byte, mimeType string, err error) {
	if token == "" {
		return nil, "", fmt.Errorf("empty token provided for file download")
	}
	if fileID == "" {
		return nil, "", fmt.Errorf("empty fileID provided for file download")
	}
	if ctx.Err() != nil {
		return nil, "", fmt.Errorf("context cancelled before file download: %w", ctx.Err())
	}

	downloadCtx, cancel := context.WithTimeout(ctx, fileDownloadTimeout)
	defer cancel()

	fileObj, err := b.GetFile(downloadCtx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get file info from Telegram: %w", err)
	}
	if fileObj.FilePath == "" {
		return nil, "", fmt.Errorf("empty file path returned from Telegram for file ID %s", fileID)
	}

	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", token, fileObj.FilePath)
	req, err := http.NewRequestWithContext(downloadCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create HTTP request for %s: %w", url, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download file from %s: %w", url, err)
	}
	if resp == nil {
		return nil, "", fmt.Errorf("nil HTTP response received from %s", url)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body from %s: %w", url, closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, "", fmt.Errorf("unexpected status code %d from %s: %s", resp.StatusCode, url, string(bodyBytes))
	}

	data, err = io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file data from %s: %w", url, err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("received empty file data from %s", url)
	}

	mimeType = http.DetectContentType(data)
	return data, mimeType, nil
}
