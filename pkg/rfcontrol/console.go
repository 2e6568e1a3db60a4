package rfcontrol

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Console runs client operations and prints the outcome. Failures are
// printed and logged, never returned.
type Console struct {
	client *Client
	out    io.Writer
}

func NewConsole(client *Client, out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{client: client, out: out}
}

// ReportRF prints the last RF value stored on the device.
func (c *Console) ReportRF(ctx context.Context) {
	reading, err := c.client.FetchRF(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to get RF value", "error", err)
		fmt.Fprintln(c.out, "Error getting RF value:", err)
		return
	}

	fmt.Fprintln(c.out, "RF Value:", reading)
}

// SendCommand transmits the payload and prints the device response. It
// returns nil when the request failed.
func (c *Console) SendCommand(ctx context.Context, payload Payload) any {
	data, err := c.client.Send(ctx, payload)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to send command", "error", err)
		fmt.Fprintln(c.out, "Error sending command:", err)
		return nil
	}

	fmt.Fprintln(c.out, "Response:", formatBody(data))
	return data
}
