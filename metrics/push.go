package metrics

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/safing/pqbase/log"
)

const (
	pushInterval     = 10 * time.Second
	finalPushTimeout = 5 * time.Second
)

// Push sends all metrics in the prometheus text format to url with a PUT request.
func Push(ctx context.Context, url string) error {
	var buf bytes.Buffer
	WritePrometheus(&buf, true)
	if buf.Len() == 0 {
		log.Debug("metrics: nothing to push")
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, &buf)
	if err != nil {
		return fmt.Errorf("failed to create push request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("metrics push to %s failed with %s: %s", url, resp.Status, body)
}

// pushWorker pushes metrics periodically and once more when ctx is done.
func pushWorker(ctx context.Context, url string) error {
	ticker := time.NewTicker(pushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := Push(ctx, url); err != nil {
				return err
			}
		case <-ctx.Done():
			finalCtx, cancel := context.WithTimeout(context.Background(), finalPushTimeout)
			defer cancel()
			return Push(finalCtx, url)
		}
	}
}
