package homekit

import (
	"context"
	"flag"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/ivanvanderbyl/rfcontrol/pkg/rfcontrol"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *rfcontrol.Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	return rfcontrol.NewClient(rfcontrol.Config{Host: host, Port: port})
}

func TestNewBridgeRequiresPayloads(t *testing.T) {
	a := assert.New(t)
	client := rfcontrol.NewClient(rfcontrol.Config{})

	_, err := NewBridge(client, nil, rfcontrol.NamedPayload{Command: "power", Key: "off"})
	a.ErrorIs(err, ErrMissingPayload)

	b, err := NewBridge(client, rfcontrol.HexPayload{Hex: "AA"}, rfcontrol.HexPayload{Hex: "BB"})
	a.NoError(err)
	a.Equal("RF Transmitter", b.Name)
	a.Equal(rfcontrol.DefaultWatchInterval, b.Interval)
}

func TestSetPower(t *testing.T) {
	a := assert.New(t)

	bodies := make(chan string, 2)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies <- string(body)
		w.Write([]byte(`{"ok":true}`))
	})

	b, err := NewBridge(client,
		rfcontrol.NamedPayload{Command: "power", Key: "on"},
		rfcontrol.HexPayload{Hex: "ABCD"},
	)
	require.NoError(t, err)

	a.NoError(b.setPower(context.Background(), true))
	a.JSONEq(`{"command":"power","key":"on"}`, <-bodies)

	a.NoError(b.setPower(context.Background(), false))
	a.JSONEq(`{"hex":"ABCD"}`, <-bodies)
}

func TestSetPowerFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	b, err := NewBridge(client, rfcontrol.HexPayload{Hex: "AA"}, rfcontrol.HexPayload{Hex: "BB"})
	require.NoError(t, err)

	err = b.setPower(context.Background(), true)
	assert.ErrorIs(t, err, rfcontrol.ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "transmitting On")
}

func TestCreateAccessory(t *testing.T) {
	a := assert.New(t)

	b, err := NewBridge(rfcontrol.NewClient(rfcontrol.Config{}), rfcontrol.HexPayload{Hex: "AA"}, rfcontrol.HexPayload{Hex: "BB"})
	require.NoError(t, err)
	b.Name = "Garage Door"

	a.NoError(b.createAccessory(context.Background()))
	a.NotNil(b.accessory)
	a.NotNil(b.accessory.Switch.On)
	a.False(b.accessory.Switch.On.Value())
}

func TestPayloadFromFlags(t *testing.T) {
	a := assert.New(t)

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, name := range []string{"on-hex", "on-command", "on-key", "off-hex", "off-command", "off-key"} {
		set.String(name, "", "")
	}
	require.NoError(t, set.Parse([]string{
		"--on-command", "power", "--on-key", "on",
		"--off-hex", "AB CD", "--off-command", "power",
	}))
	c := cli.NewContext(cli.NewApp(), set, nil)

	on, err := payloadFromFlags(c, "on")
	a.NoError(err)
	a.Equal(rfcontrol.NamedPayload{Command: "power", Key: "on"}, on)

	off, err := payloadFromFlags(c, "off")
	a.NoError(err)
	a.Equal(rfcontrol.HexPayload{Hex: "ABCD"}, off)
}

func TestPayloadFromFlagsMissing(t *testing.T) {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("on-hex", "", "")
	set.String("on-command", "", "")
	set.String("on-key", "", "")
	c := cli.NewContext(cli.NewApp(), set, nil)

	_, err := payloadFromFlags(c, "on")
	assert.EqualError(t, err, "--on-hex or --on-command is required")
}
