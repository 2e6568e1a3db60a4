package homekit

import (
	"context"
	syslog "log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brutella/hap"
	"github.com/brutella/hap/accessory"
	"github.com/brutella/hap/log"
	"github.com/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"github.com/urfave/cli/v2"
	slogctx "github.com/veqryn/slog-context"

	"github.com/ivanvanderbyl/rfcontrol/pkg/logging"
	"github.com/ivanvanderbyl/rfcontrol/pkg/rfcontrol"
)

type (
	// Bridge exposes the transmitter as a HomeKit switch. Turning the switch
	// on or off transmits the matching payload.
	Bridge struct {
		client    *rfcontrol.Client
		on        rfcontrol.Payload
		off       rfcontrol.Payload
		accessory *accessory.Switch

		Name     string
		Pin      string
		StoreDir string
		Interval time.Duration
	}
)

var ErrMissingPayload = errors.New("on and off payloads are required")

func NewBridge(client *rfcontrol.Client, on, off rfcontrol.Payload) (*Bridge, error) {
	if on == nil || off == nil {
		return nil, ErrMissingPayload
	}

	return &Bridge{
		client:   client,
		on:       on,
		off:      off,
		Name:     "RF Transmitter",
		StoreDir: "./db",
		Interval: rfcontrol.DefaultWatchInterval,
	}, nil
}

func AccessoryAction(c *cli.Context) error {
	if file := c.String("log-file"); file != "" {
		closer := logging.Setup(logging.Options{Debug: c.Bool("debug"), File: file})
		defer closer.Close()
	}

	on, err := payloadFromFlags(c, "on")
	if err != nil {
		return err
	}
	off, err := payloadFromFlags(c, "off")
	if err != nil {
		return err
	}

	client := rfcontrol.NewClient(rfcontrol.Config{Host: c.String("host"), Port: c.Int("port")})
	bridge, err := NewBridge(client, on, off)
	if err != nil {
		return err
	}
	bridge.Pin = c.String("pin")
	bridge.StoreDir = c.String("db")
	bridge.Interval = c.Duration("interval")
	if name := c.String("name"); name != "" {
		bridge.Name = name
	}

	if c.Bool("debug") {
		newLogger := syslog.New(os.Stderr, "SERV ", syslog.LstdFlags|syslog.Lshortfile)
		log.Debug = &log.Logger{Logger: newLogger}
	}

	// Setup a listener for interrupts and SIGTERM signals
	// to stop the server.
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := client.Config()
	ctx = slogctx.Append(ctx, "host", cfg.Host, "port", cfg.Port)

	return bridge.Start(ctx)
}

// payloadFromFlags reads <prefix>-hex, <prefix>-command and <prefix>-key.
func payloadFromFlags(c *cli.Context, prefix string) (rfcontrol.Payload, error) {
	hex := rfcontrol.NormalizeHex(c.String(prefix + "-hex"))
	command := c.String(prefix + "-command")
	if hex == "" && command == "" {
		return nil, errors.Errorf("--%s-hex or --%s-command is required", prefix, prefix)
	}

	return rfcontrol.NewPayload(command, c.String(prefix+"-key"), hex), nil
}

func (b *Bridge) Start(ctx context.Context) error {
	slog.InfoContext(ctx, "Starting HomeKit bridge", "name", b.Name)

	err := b.createAccessory(ctx)
	if err != nil {
		return errors.Wrap(err, "creating accessory")
	}

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
	p.Go(b.watchRF)
	p.Go(b.startServer)

	return p.Wait()
}

func (b *Bridge) createAccessory(ctx context.Context) error {
	acc := accessory.NewSwitch(accessory.Info{
		Name:         b.Name,
		Manufacturer: "rfcontrol",
		Model:        "ESP32 RF",
		SerialNumber: b.client.Config().BaseURL(),
	})

	acc.Switch.On.OnSetRemoteValue(func(v bool) error {
		slog.InfoContext(ctx, "Switch Set", "value", v)
		err := b.setPower(ctx, v)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to transmit", "error", err, "on", v)
			return err
		}
		return nil
	})

	b.accessory = acc
	return nil
}

func (b *Bridge) setPower(ctx context.Context, on bool) error {
	payload := b.off
	if on {
		payload = b.on
	}

	data, err := b.client.Send(ctx, payload)
	if err != nil {
		return errors.Wrapf(err, "transmitting %s", powerString(on))
	}

	slog.InfoContext(ctx, "Transmitted", "state", powerString(on), "response", data)
	return nil
}

func (b *Bridge) watchRF(ctx context.Context) error {
	slog.InfoContext(ctx, "Starting RF watch loop", "interval", b.Interval)
	return b.client.Watch(ctx, b.Interval, func(r *rfcontrol.Reading) {
		slog.InfoContext(ctx, "RF value changed", "rf-value", r.String())
	})
}

func (b *Bridge) startServer(ctx context.Context) error {
	slog.InfoContext(ctx, "Starting HomeKit server", "store", b.StoreDir)

	fs := hap.NewFsStore(b.StoreDir)

	// Create the hap server.
	server, err := hap.NewServer(fs, b.accessory.A)
	if err != nil {
		return errors.Wrap(err, "creating server")
	}
	if b.Pin != "" {
		server.Pin = b.Pin
	}

	err = server.ListenAndServe(ctx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serving")
	}
	return nil
}

func powerString(on bool) string {
	if on {
		return "On"
	}
	return "Off"
}
