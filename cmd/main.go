package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	slogctx "github.com/veqryn/slog-context"

	"github.com/ivanvanderbyl/rfcontrol/pkg/homekit"
	"github.com/ivanvanderbyl/rfcontrol/pkg/logging"
	"github.com/ivanvanderbyl/rfcontrol/pkg/rfcontrol"
)

// Code transmitted when no subcommand is given
const defaultHexCode = "00000012C92C96592C92C92C9659"

func main() {
	payloadFlags := func(prefix, usage string) []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{Name: prefix + "command", Usage: "Symbolic command to send when " + usage},
			&cli.StringFlag{Name: prefix + "key", Usage: "Key for the command sent when " + usage},
			&cli.StringFlag{Name: prefix + "hex", Usage: "Raw hex code to transmit when " + usage + " (overrides command)"},
		}
	}

	app := &cli.App{
		Name:  "rfcontrol",
		Usage: "Remote control for ESP32 RF transmitters",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Usage:   "IP address of the transmitter",
				Value:   rfcontrol.DefaultHost,
				EnvVars: []string{"RFCONTROL_HOST"},
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "HTTP port of the transmitter",
				Value:   rfcontrol.DefaultPort,
				EnvVars: []string{"RFCONTROL_PORT"},
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			logging.Setup(logging.Options{Debug: c.Bool("debug")})
			return nil
		},
		Action: func(c *cli.Context) error {
			ctx, console := newConsole(c)

			console.ReportRF(ctx)

			hexCode := rfcontrol.NormalizeHex(defaultHexCode)
			fmt.Println("Transmitting hex code:", hexCode)
			console.SendCommand(ctx, rfcontrol.HexPayload{Hex: hexCode})
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "rf",
				Usage: "Print the last RF value captured by the transmitter",
				Action: func(c *cli.Context) error {
					ctx, console := newConsole(c)
					console.ReportRF(ctx)
					return nil
				},
			},
			{
				Name:  "send",
				Usage: "Send a command or raw hex code to the transmitter",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "command", Usage: "Symbolic command name"},
					&cli.StringFlag{Name: "key", Usage: "Optional key for the command"},
					&cli.StringFlag{Name: "hex", Usage: "Raw hex code to transmit, spaces allowed (overrides command)"},
				},
				Action: func(c *cli.Context) error {
					hexCode := rfcontrol.NormalizeHex(c.String("hex"))
					if hexCode == "" && c.String("command") == "" {
						return cli.Exit("one of --hex or --command is required", 1)
					}

					payload := rfcontrol.NewPayload(c.String("command"), c.String("key"), hexCode)
					ctx, console := newConsole(c)
					console.SendCommand(ctx, payload)
					return nil
				},
			},
			{
				Name:  "watch",
				Usage: "Print RF values as the transmitter captures them",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "Polling interval",
						Value: rfcontrol.DefaultWatchInterval,
					},
				},
				Action: func(c *cli.Context) error {
					ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
					defer stop()

					client := newClient(c)
					ctx = slogctx.Append(ctx, "host", client.Config().Host, "port", client.Config().Port)
					return client.Watch(ctx, c.Duration("interval"), func(r *rfcontrol.Reading) {
						fmt.Println("RF Value:", r)
					})
				},
			},
			{
				Name:  "homekit",
				Usage: "Expose the transmitter as a HomeKit switch",
				Flags: append(append([]cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Accessory name shown in the Home app", Value: "RF Transmitter"},
					&cli.StringFlag{Name: "pin", Usage: "Eight digit HomeKit setup code"},
					&cli.StringFlag{Name: "db", Usage: "Directory for pairing data", Value: "./db"},
					&cli.StringFlag{Name: "log-file", Usage: "Write logs to a rotated file instead of stderr"},
					&cli.DurationFlag{Name: "interval", Usage: "RF polling interval", Value: rfcontrol.DefaultWatchInterval},
				}, payloadFlags("on-", "switched on")...), payloadFlags("off-", "switched off")...),
				Action: homekit.AccessoryAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newClient(c *cli.Context) *rfcontrol.Client {
	return rfcontrol.NewClient(rfcontrol.Config{
		Host: c.String("host"),
		Port: c.Int("port"),
	})
}

func newConsole(c *cli.Context) (context.Context, *rfcontrol.Console) {
	client := newClient(c)
	ctx := slogctx.Append(c.Context, "host", client.Config().Host, "port", client.Config().Port)
	return ctx, rfcontrol.NewConsole(client, os.Stdout)
}
