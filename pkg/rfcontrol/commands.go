package rfcontrol

import (
	"context"
	"net/http"
)

// FetchRF returns the last RF value stored on the device
func (c *Client) FetchRF(ctx context.Context) (*Reading, error) {
	reading := new(Reading)
	err := c.rpc(ctx, http.MethodGet, pathRF, nil, reading)
	if err != nil {
		return nil, err
	}

	return reading, nil
}

// Send posts a transmit command and returns the decoded response body.
func (c *Client) Send(ctx context.Context, payload Payload) (any, error) {
	if payload == nil {
		return nil, ErrNilPayload
	}

	var data any
	err := c.rpc(ctx, http.MethodPost, pathCommand, payload, &data)
	if err != nil {
		return nil, err
	}

	return data, nil
}
