// Package transport streams IR sub-programs to a serial sink with
// inter-program pacing, per spec.md §4.7 and §5.
package transport

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thereceipt/printcore/internal/errs"
	"github.com/thereceipt/printcore/internal/ir"
	"github.com/thereceipt/printcore/internal/protocol"
)

// Clock abstracts time.Sleep for deterministic tests.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RealClock is the default Clock used outside of tests.
var RealClock Clock = realClock{}

// Transport owns a single exclusive serial sink and serializes writes
// against a mutex, per spec.md §5: "a second concurrent print request
// blocks until the first completes."
type Transport struct {
	sink  io.Writer
	pause time.Duration
	clock Clock
	log   *logrus.Entry

	mu sync.Mutex
}

// New constructs a Transport writing to sink with the given inter-program
// pause (default 1s per spec.md §4.7).
func New(sink io.Writer, pause time.Duration, log *logrus.Logger) *Transport {
	if pause <= 0 {
		pause = time.Second
	}
	if log == nil {
		log = logrus.New()
	}
	return &Transport{sink: sink, pause: pause, clock: RealClock, log: log.WithField("component", "transport")}
}

// SetClock overrides the pacing clock, for tests.
func (t *Transport) SetClock(c Clock) { t.clock = c }

// SendRaw writes a single pre-encoded byte stream to the sink, used by the
// logo CLI's store/delete commands which never go through document
// lowering or segmentation.
func (t *Transport) SendRaw(ctx context.Context, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	select {
	case <-ctx.Done():
		return errs.Wrap(errs.Cancelled, ctx.Err(), "cancelled before write")
	default:
	}
	if _, err := t.sink.Write(data); err != nil {
		return errs.Wrap(errs.DeviceUnavailable, err, "writing raw command")
	}
	return nil
}

// Send encodes and writes each sub-program in order, pausing between them.
// On cancellation the in-flight sub-program still completes (the protocol
// has no safe abort mid-stream) and no further sub-programs are sent.
func (t *Transport) Send(ctx context.Context, programs []ir.Program, widthDots int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, prog := range programs {
		data, err := protocol.Encode(prog, widthDots)
		if err != nil {
			return err
		}
		if _, err := t.sink.Write(data); err != nil {
			return errs.Wrap(errs.DeviceUnavailable, err, "writing sub-program %d/%d", i+1, len(programs))
		}
		t.log.WithFields(logrus.Fields{"subprogram": i + 1, "of": len(programs), "bytes": len(data)}).Debug("wrote sub-program")

		if i == len(programs)-1 {
			break
		}
		select {
		case <-ctx.Done():
			return errs.Wrap(errs.Cancelled, ctx.Err(), "cancelled after sub-program %d/%d", i+1, len(programs))
		default:
		}
		if err := t.clock.Sleep(ctx, t.pause); err != nil {
			return errs.Wrap(errs.Cancelled, err, "cancelled during inter-program pause")
		}
	}
	return nil
}
