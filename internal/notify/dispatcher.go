package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/models"
)

// DefaultTimeout bounds a single channel's Send.
const DefaultTimeout = 10 * time.Second

// Report aggregates every channel's outcome for one dispatch. It is only used
// for logging and metrics.
type Report struct {
	ID       string             `json:"id"`
	OrderID  string             `json:"orderId"`
	Outcomes map[string]Outcome `json:"outcomes"`
}

// Count returns how many channels ended with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Observer receives one observation per channel send.
type Observer interface {
	ObserveChannel(channel string, status string, elapsed time.Duration)
}

// Dispatcher sends one order to every channel concurrently.
type Dispatcher struct {
	channels []Channel
	timeout  time.Duration
	observer Observer
	log      *slog.Logger
}

// NewDispatcher creates a dispatcher. observer may be nil.
func NewDispatcher(channels []Channel, timeout time.Duration, observer Observer, log *slog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		channels: channels,
		timeout:  timeout,
		observer: observer,
		log:      log,
	}
}

// Channels lists the configured channel names in dispatch order.
func (d *Dispatcher) Channels() []string {
	names := make([]string, len(d.channels))
	for i, ch := range d.channels {
		names[i] = ch.Name()
	}
	return names
}

// Dispatch never fails: a channel that errors, panics or times out only
// changes its own entry in the report.
func (d *Dispatcher) Dispatch(ctx context.Context, order models.Order) *Report {
	outcomes := make([]Outcome, len(d.channels))

	var g errgroup.Group
	for i, ch := range d.channels {
		i, ch := i, ch
		g.Go(func() error {
			outcomes[i] = d.send(ctx, ch, order)
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{
		ID:       ulid.Make().String(),
		OrderID:  order.ID,
		Outcomes: make(map[string]Outcome, len(d.channels)),
	}
	for i, ch := range d.channels {
		report.Outcomes[ch.Name()] = outcomes[i]
	}

	d.log.Info("order dispatched",
		"order_id", order.ID,
		"dispatch_id", report.ID,
		"delivered", report.Count(StatusDelivered),
		"skipped", report.Count(StatusSkipped),
		"failed", report.Count(StatusFailed),
	)
	return report
}

func (d *Dispatcher) send(ctx context.Context, ch Channel, order models.Order) (out Outcome) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = Failed(fmt.Errorf("%s: panic: %v", ch.Name(), r))
		}
		if out.Status == StatusFailed && ctx.Err() != nil && out.Err != nil {
			out.Reason = fmt.Sprintf("%s (%v)", out.Reason, ctx.Err())
		}
		d.record(ch.Name(), order.ID, out, time.Since(start))
	}()

	return ch.Send(ctx, order)
}

func (d *Dispatcher) record(channel, orderID string, out Outcome, elapsed time.Duration) {
	if d.observer != nil {
		d.observer.ObserveChannel(channel, string(out.Status), elapsed)
	}

	attrs := []any{
		"channel", channel,
		"order_id", orderID,
		"status", out.Status,
		"duration_ms", elapsed.Milliseconds(),
	}
	switch out.Status {
	case StatusFailed:
		d.log.Error("notification failed", append(attrs, "error", out.Reason)...)
	case StatusSkipped:
		d.log.Warn("notification skipped", append(attrs, "reason", out.Reason)...)
	default:
		if out.Reason != "" {
			attrs = append(attrs, "note", out.Reason)
		}
		d.log.Info("notification delivered", attrs...)
	}
}
