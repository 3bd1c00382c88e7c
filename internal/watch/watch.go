// Package watch follows round activity in a store.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dyluth/roulette/internal/store"
)

// OutputFormat specifies how streamed events are written.
type OutputFormat string

const (
	// OutputFormatDefault prints a human-readable block per event
	OutputFormatDefault OutputFormat = "default"

	// OutputFormatJSONL prints each event as one JSON line
	OutputFormatJSONL OutputFormat = "jsonl"
)

// Source delivers round events, e.g. a store.Subscription.
type Source interface {
	Events() <-chan *store.RoundEvent
	Errors() <-chan error
}

// Options controls Stream.
type Options struct {
	Format   OutputFormat
	RosterID string // Full ID or prefix; empty = every roster

	// OnError receives non-fatal subscription errors. Nil ignores them.
	OnError func(error)
}

// Stream writes events from src to w until ctx is cancelled or the source
// closes. Returns nil on clean shutdown.
func Stream(ctx context.Context, src Source, w io.Writer, opts Options) error {
	if opts.Format == "" {
		opts.Format = OutputFormatDefault
	}
	if opts.Format != OutputFormatDefault && opts.Format != OutputFormatJSONL {
		return fmt.Errorf("unknown output format: %s", opts.Format)
	}

	events := src.Events()
	errs := src.Errors()

	for {
		select {
		case <-ctx.Done():
			return nil

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if opts.OnError != nil {
				opts.OnError(err)
			}

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if opts.RosterID != "" && !strings.HasPrefix(ev.RosterID, opts.RosterID) {
				continue
			}
			if err := writeEvent(w, ev, opts.Format); err != nil {
				return err
			}
		}
	}
}

func writeEvent(w io.Writer, ev *store.RoundEvent, format OutputFormat) error {
	if format == OutputFormatJSONL {
		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to marshal round event: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}

	ts := time.UnixMilli(ev.DrawnAtMs).Format("15:04:05")
	id := ev.RosterID
	if len(id) > 8 {
		id = id[:8]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s (%s) %s: %d groups, %d participants\n",
		ts, ev.Name, id, ev.Column, len(ev.Groups), ev.Participants)
	for _, g := range ev.Groups {
		fmt.Fprintf(&b, "  %-9s %s\n", g.Label, strings.Join(g.Members, ", "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// PollForRound polls until the roster records column or the timeout expires.
// Used to confirm a saved draw when Pub/Sub is unavailable.
func PollForRound(ctx context.Context, s store.Store, rosterID, column string, timeout time.Duration) (*store.Record, error) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	timeoutCh := time.After(timeout)

	for {
		rec, err := s.Get(ctx, rosterID)
		if err != nil && !store.IsNotFound(err) {
			return nil, fmt.Errorf("failed to query roster: %w", err)
		}
		if rec != nil && rec.Table.HasColumn(column) {
			return rec, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timeoutCh:
			return nil, fmt.Errorf("timeout waiting for %s after %v", column, timeout)
		case <-ticker.C:
		}
	}
}
