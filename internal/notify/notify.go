package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/miniflavors/checkout/internal/metrics"
)

// Task is one message to deliver through one channel. Tasks are built
// fresh for every checkout and discarded once the batch is evaluated.
type Task struct {
	Channel   string
	Recipient string
	Subject   string
	Body      string
}

// Outcome records the provider's answer for one task.
type Outcome struct {
	Task   Task
	OK     bool
	Status int
	Detail string
}

// Batch aggregates the outcomes of one dispatch.
type Batch struct {
	Outcomes []Outcome
}

// OK reports whether every task in the batch succeeded. An empty batch
// succeeds trivially.
func (b Batch) OK() bool {
	for _, o := range b.Outcomes {
		if !o.OK {
			return false
		}
	}
	return true
}

// FirstFailure returns the first failed outcome, if any.
func (b Batch) FirstFailure() (Outcome, bool) {
	for _, o := range b.Outcomes {
		if !o.OK {
			return o, true
		}
	}
	return Outcome{}, false
}

// Sender is a channel capability: deliver one message and report the
// provider's verdict. Implementations must not panic on transport faults;
// the dispatcher converts anything that escapes into a failed outcome.
type Sender interface {
	Name() string
	Send(ctx context.Context, task Task) Outcome
}

// Dispatcher fans a batch of tasks out over its registered channels.
type Dispatcher struct {
	senders map[string]Sender
}

// NewDispatcher registers the given channel capabilities.
func NewDispatcher(senders ...Sender) *Dispatcher {
	m := make(map[string]Sender, len(senders))
	for _, s := range senders {
		m[s.Name()] = s
	}
	return &Dispatcher{senders: m}
}

// Has reports whether a channel is registered.
func (d *Dispatcher) Has(channel string) bool {
	_, ok := d.senders[channel]
	return ok
}

// Dispatch sends every task concurrently and waits for all of them. No
// task short-circuits another; the batch verdict is computed only after
// every send has returned. Failures are recorded, never raised.
func (d *Dispatcher) Dispatch(ctx context.Context, tasks []Task) Batch {
	outcomes := make([]Outcome, len(tasks))

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task Task) {
			defer wg.Done()
			outcomes[i] = d.send(ctx, task)
		}(i, task)
	}
	wg.Wait()

	for _, o := range outcomes {
		result := "ok"
		if !o.OK {
			result = "failed"
			slog.Error("Notification send failed",
				"channel", o.Task.Channel,
				"status", o.Status,
				"detail", o.Detail,
			)
		}
		metrics.NotificationSends.WithLabelValues(o.Task.Channel, result).Inc()
	}

	return Batch{Outcomes: outcomes}
}

func (d *Dispatcher) send(ctx context.Context, task Task) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{
				Task:   task,
				Detail: fmt.Sprintf("channel panic: %v", r),
			}
		}
	}()

	sender, ok := d.senders[task.Channel]
	if !ok {
		return Outcome{
			Task:   task,
			Detail: fmt.Sprintf("unknown channel %q", task.Channel),
		}
	}
	return sender.Send(ctx, task)
}
