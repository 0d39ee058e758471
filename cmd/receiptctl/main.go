// Command receiptctl is the CLI surface from spec.md §6: print, weave,
// logo store/delete/delete-all, and serve, exiting 0/2/3/4/5 as specified.
// It talks to control.Surface directly, following the teacher's
// cmd/cli/main.go hand-rolled flag.NewFlagSet-per-subcommand style.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/thereceipt/printcore/internal/api"
	"github.com/thereceipt/printcore/internal/barcode"
	"github.com/thereceipt/printcore/internal/control"
	"github.com/thereceipt/printcore/internal/deviceio"
	"github.com/thereceipt/printcore/internal/document"
	"github.com/thereceipt/printcore/internal/errs"
	"github.com/thereceipt/printcore/internal/glyph"
	"github.com/thereceipt/printcore/internal/imagesource"
	"github.com/thereceipt/printcore/internal/jobqueue"
	"github.com/thereceipt/printcore/internal/lower"
	"github.com/thereceipt/printcore/internal/pattern"
	"github.com/thereceipt/printcore/internal/profileconfig"
	"github.com/thereceipt/printcore/internal/raster"
	"github.com/thereceipt/printcore/internal/transport"
)

// Exit codes per spec.md §6.
const (
	exitOK          = 0
	exitInvalidArgs = 2
	exitDeviceGone  = 3
	exitProtocolErr = 4
	exitCancelled   = 5
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return exitInvalidArgs
	}
	switch args[0] {
	case "print":
		return cmdPrint(args[1:])
	case "weave":
		return cmdWeave(args[1:])
	case "logo":
		return cmdLogo(args[1:])
	case "serve":
		return cmdServe(args[1:])
	case "help", "-h", "--help":
		printUsage()
		return exitOK
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		printUsage()
		return exitInvalidArgs
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `receiptctl - thermal receipt print engine CLI

Usage:
  receiptctl print <pattern-name> [--height N] [--width N] [--png FILE]
  receiptctl weave <name>... --length Nmm [--crossfade Nmm] [--curve linear|smooth|ease-in|ease-out] [--png FILE]
  receiptctl logo store <file> [--key XX] [--width N]
  receiptctl logo delete --key XX
  receiptctl logo delete-all [--force]
  receiptctl serve [--listen host:port] [--device PATH]`)
}

func newSurface(profileName, device string, widthOverride int) (*control.Surface, *transport.Transport, error) {
	profiles := profileconfig.NewStore()
	if profileName != "" {
		if _, err := profiles.SetByName(profileName); err != nil {
			return nil, nil, err
		}
	}
	if widthOverride > 0 {
		p := profiles.Get()
		p.WidthDots = widthOverride
		profiles.Set(p)
	}
	patterns := pattern.NewRegistry()
	opts := lower.Options{
		Images:    imagesource.New(),
		Barcodes:  barcode.New(),
		Patterns:  patterns,
		Glyphs:    glyph.New("", 0),
		DitherAlg: raster.DitherAuto,
	}
	var tp *transport.Transport
	if device != "" {
		sink, err := deviceio.OpenSerial(device, 0)
		if err == nil {
			tp = transport.New(sink, 0, logrus.New())
		}
	}
	return control.New(profiles, patterns, opts, tp, 0), tp, nil
}

// mmToDots converts a millimeter length to dots at 203 DPI, the default
// thermal print head resolution used across the built-in profiles.
func mmToDots(mm float64) int {
	return int(mm / 25.4 * 203)
}

func cmdPrint(args []string) int {
	fs := flag.NewFlagSet("print", flag.ContinueOnError)
	height := fs.Int("height", 400, "pattern height in dots")
	width := fs.Int("width", 576, "pattern width in dots")
	pngPath := fs.String("png", "", "write PNG here instead of the device")
	profileName := fs.String("profile", "", "device profile name")
	device := fs.String("device", "", "serial device path")
	if err := fs.Parse(args); err != nil {
		return exitInvalidArgs
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "print requires exactly one pattern name")
		return exitInvalidArgs
	}
	patternName := fs.Arg(0)

	surface, _, err := newSurface(*profileName, *device, *width)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInvalidArgs
	}

	d := &document.Document{
		Components: []document.Component{{
			Type:      document.TypePattern,
			Generator: patternName,
			Height:    *height,
		}},
	}

	if *pngPath != "" {
		png, err := surface.RenderPreview(context.Background(), d)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitCodeFor(err)
		}
		if err := os.WriteFile(*pngPath, png, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitProtocolErr
		}
		return exitOK
	}

	result := surface.Print(context.Background(), d)
	if !result.Success {
		fmt.Fprintln(os.Stderr, result.Error)
		return exitCodeForMessage(result.Error)
	}
	return exitOK
}

func cmdWeave(args []string) int {
	fs := flag.NewFlagSet("weave", flag.ContinueOnError)
	lengthMM := fs.Float64("length", 200, "weave length in mm")
	crossfadeMM := fs.Float64("crossfade", 20, "crossfade width in mm")
	curve := fs.String("curve", "linear", "linear|smooth|ease-in|ease-out")
	pngPath := fs.String("png", "", "write PNG here instead of the device")
	profileName := fs.String("profile", "", "device profile name")
	device := fs.String("device", "", "serial device path")
	if err := fs.Parse(args); err != nil {
		return exitInvalidArgs
	}
	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "weave requires at least two pattern names")
		return exitInvalidArgs
	}
	names := fs.Args()

	surface, _, err := newSurface(*profileName, *device, 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInvalidArgs
	}

	heightDots := mmToDots(*lengthMM)
	crossfadeDots := mmToDots(*crossfadeMM)
	curveVal := pattern.CrossfadeCurve(*curve)

	if *pngPath != "" {
		png, err := surface.WeavePreview(names, heightDots, crossfadeDots, curveVal, 0)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitCodeFor(err)
		}
		if err := os.WriteFile(*pngPath, png, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitProtocolErr
		}
		return exitOK
	}

	result := surface.Weave(context.Background(), names, heightDots, crossfadeDots, curveVal, 0)
	if !result.Success {
		fmt.Fprintln(os.Stderr, result.Error)
		return exitCodeForMessage(result.Error)
	}
	return exitOK
}

func cmdLogo(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "logo requires a subcommand: store, delete, delete-all")
		return exitInvalidArgs
	}
	switch args[0] {
	case "store":
		return cmdLogoStore(args[1:])
	case "delete":
		return cmdLogoDelete(args[1:])
	case "delete-all":
		return cmdLogoDeleteAll(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown logo subcommand %q\n", args[0])
		return exitInvalidArgs
	}
}

func cmdLogoStore(args []string) int {
	fs := flag.NewFlagSet("logo store", flag.ContinueOnError)
	key := fs.String("key", "", "2-character NV logo key")
	width := fs.Int("width", 384, "logo width in dots")
	device := fs.String("device", "/dev/rfcomm0", "serial device path")
	if err := fs.Parse(args); err != nil {
		return exitInvalidArgs
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "logo store requires a file path")
		return exitInvalidArgs
	}
	if len(*key) != 2 {
		fmt.Fprintln(os.Stderr, "--key must be exactly 2 printable ASCII characters")
		return exitInvalidArgs
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInvalidArgs
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInvalidArgs
	}

	surface, tp, err := newSurface("", *device, 0)
	if err != nil || tp == nil {
		fmt.Fprintln(os.Stderr, "device unavailable:", err)
		return exitDeviceGone
	}
	gray := raster.FromImage(img, *width)
	if err := surface.StoreLogo(context.Background(), gray, *key); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err)
	}
	return exitOK
}

func cmdLogoDelete(args []string) int {
	fs := flag.NewFlagSet("logo delete", flag.ContinueOnError)
	key := fs.String("key", "", "2-character NV logo key")
	device := fs.String("device", "/dev/rfcomm0", "serial device path")
	if err := fs.Parse(args); err != nil {
		return exitInvalidArgs
	}
	if len(*key) != 2 {
		fmt.Fprintln(os.Stderr, "--key must be exactly 2 printable ASCII characters")
		return exitInvalidArgs
	}
	surface, tp, err := newSurface("", *device, 0)
	if err != nil || tp == nil {
		fmt.Fprintln(os.Stderr, "device unavailable:", err)
		return exitDeviceGone
	}
	if err := surface.DeleteLogo(context.Background(), *key); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err)
	}
	return exitOK
}

func cmdLogoDeleteAll(args []string) int {
	fs := flag.NewFlagSet("logo delete-all", flag.ContinueOnError)
	force := fs.Bool("force", false, "skip confirmation")
	device := fs.String("device", "/dev/rfcomm0", "serial device path")
	if err := fs.Parse(args); err != nil {
		return exitInvalidArgs
	}
	if !*force {
		fmt.Fprintln(os.Stderr, "refusing to delete all NV logos without --force")
		return exitInvalidArgs
	}
	surface, tp, err := newSurface("", *device, 0)
	if err != nil || tp == nil {
		fmt.Fprintln(os.Stderr, "device unavailable:", err)
		return exitDeviceGone
	}
	if err := surface.DeleteAllLogos(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err)
	}
	return exitOK
}

func cmdServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	listen := fs.String("listen", "0.0.0.0:8080", "host:port to listen on")
	device := fs.String("device", "/dev/rfcomm0", "serial device path")
	if err := fs.Parse(args); err != nil {
		return exitInvalidArgs
	}

	surface, _, err := newSurface("", *device, 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInvalidArgs
	}
	jobs := jobqueue.New()
	server := api.NewServer(surface, jobs)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := server.Run(ctx, *listen); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitProtocolErr
	}
	return exitOK
}

func exitCodeFor(err error) int {
	e, ok := errs.AsError(err)
	if !ok {
		return exitProtocolErr
	}
	switch e.Kind {
	case errs.InvalidDocument, errs.InvalidParam:
		return exitInvalidArgs
	case errs.DeviceUnavailable:
		return exitDeviceGone
	case errs.Cancelled:
		return exitCancelled
	default:
		return exitProtocolErr
	}
}

func exitCodeForMessage(msg string) int {
	switch {
	case strings.HasPrefix(msg, errs.InvalidDocument.String()), strings.HasPrefix(msg, errs.InvalidParam.String()):
		return exitInvalidArgs
	case strings.HasPrefix(msg, errs.DeviceUnavailable.String()):
		return exitDeviceGone
	case strings.HasPrefix(msg, errs.Cancelled.String()):
		return exitCancelled
	default:
		return exitProtocolErr
	}
}
