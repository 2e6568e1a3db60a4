package rfcontrol

import (
	"context"
	"log/slog"
	"reflect"
	"time"
)

const DefaultWatchInterval = 2 * time.Second

// Watch polls the device until ctx is done and calls fn whenever the stored
// RF value changes. The first successful reading always counts as a change.
// Fetch errors are logged and polling continues.
func (c *Client) Watch(ctx context.Context, interval time.Duration, fn func(*Reading)) error {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last *Reading
	poll := func() {
		reading, err := c.FetchRF(ctx)
		if err != nil {
			if ctx.Err() == nil {
				slog.ErrorContext(ctx, "Failed to poll RF value", "error", err)
			}
			return
		}
		if last != nil && reflect.DeepEqual(last.RFValue, reading.RFValue) {
			return
		}
		last = reading
		fn(reading)
	}

	poll()
	for {
		select {
		case <-ticker.C:
			poll()
		case <-ctx.Done():
			return nil
		}
	}
}
