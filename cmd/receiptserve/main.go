// Command receiptserve runs the thin HTTP/WebSocket wrapper around the
// control surface, per spec.md §6's "serve" CLI subcommand.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/thereceipt/printcore/internal/api"
	"github.com/thereceipt/printcore/internal/barcode"
	"github.com/thereceipt/printcore/internal/control"
	"github.com/thereceipt/printcore/internal/deviceio"
	"github.com/thereceipt/printcore/internal/glyph"
	"github.com/thereceipt/printcore/internal/imagesource"
	"github.com/thereceipt/printcore/internal/jobqueue"
	"github.com/thereceipt/printcore/internal/lower"
	"github.com/thereceipt/printcore/internal/pattern"
	"github.com/thereceipt/printcore/internal/profileconfig"
	"github.com/thereceipt/printcore/internal/raster"
	"github.com/thereceipt/printcore/internal/transport"
)

func main() {
	cfg := profileconfig.LoadConfig()

	listen := flag.String("listen", cfg.ListenAddr, "host:port to listen on")
	device := flag.String("device", cfg.DevicePath, "serial device path")
	profileName := flag.String("profile", cfg.DefaultProfile, "default device profile")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	profiles := profileconfig.NewStore()
	if _, err := profiles.SetByName(*profileName); err != nil {
		log.WithError(err).Fatal("unknown default profile")
	}

	var tp *transport.Transport
	sink, err := deviceio.OpenSerial(*device, 0)
	if err != nil {
		log.WithError(err).Warn("serial device unavailable at startup; print requests will fail until it is")
	} else {
		defer sink.Close()
		tp = transport.New(sink, 0, log)
	}

	patterns := pattern.NewRegistry()

	opts := lower.Options{
		Images:    imagesource.New(),
		Barcodes:  barcode.New(),
		Patterns:  patterns,
		Glyphs:    glyph.New("", 0),
		DitherAlg: raster.DitherAuto,
	}

	surface := control.New(profiles, patterns, opts, tp, 0)
	jobs := jobqueue.New()
	server := api.NewServer(surface, jobs)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.WithField("addr", *listen).Info("listening")
	if err := server.Run(ctx, *listen); err != nil {
		fmt.Fprintln(os.Stderr, "server exited:", err)
		os.Exit(3)
	}
}
