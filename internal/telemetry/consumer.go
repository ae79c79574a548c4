// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package telemetry

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/arcana/internal/logging"
	"github.com/tomtom215/arcana/internal/metrics"
)

// Appender persists one serialized record.
type Appender interface {
	Append(line []byte) error
}

// Source is a subscriber that knows how many published records are still
// undelivered. *Queue implements it.
type Source interface {
	message.Subscriber
	Pending() int64
	Settle()
}

// ConsumerStats holds runtime counters for monitoring.
type ConsumerStats struct {
	MessagesReceived int64
	MessagesWritten  int64
	WriteErrors      int64
	Pending          int64
}

const (
	// defaultDrainTimeout caps how long shutdown waits for pending records.
	defaultDrainTimeout = 10 * time.Second

	// drainQuiet is how long the queue must stay empty before the drain
	// ends, covering handlers that publish while the server shuts down.
	drainQuiet = 50 * time.Millisecond

	// drainIdle ends the drain when records are counted as pending but
	// none arrive, e.g. ones published before the first subscription.
	drainIdle = time.Second
)

// Consumer drains Topic into an Appender. It implements suture.Service.
type Consumer struct {
	source       Source
	sink         Appender
	drainTimeout time.Duration

	readyOnce sync.Once
	ready     chan struct{}

	received atomic.Int64
	written  atomic.Int64
	failed   atomic.Int64
}

// NewConsumer returns a Consumer reading from source.
func NewConsumer(source Source, sink Appender) *Consumer {
	return &Consumer{
		source:       source,
		sink:         sink,
		drainTimeout: defaultDrainTimeout,
		ready:        make(chan struct{}),
	}
}

// SetDrainTimeout bounds the shutdown drain. Non-positive values are
// ignored.
func (c *Consumer) SetDrainTimeout(d time.Duration) {
	if d > 0 {
		c.drainTimeout = d
	}
}

// Ready is closed once the first subscription is in place. Records
// published before that are not delivered.
func (c *Consumer) Ready() <-chan struct{} {
	return c.ready
}

// Serve subscribes and writes records until ctx is canceled, then keeps
// writing until every pending record is settled or the drain times out.
// The subscription outlives ctx so the broker keeps delivering during the
// drain.
func (c *Consumer) Serve(ctx context.Context) error {
	subCtx, cancelSub := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelSub()

	messages, err := c.source.Subscribe(subCtx, Topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", Topic, err)
	}
	c.readyOnce.Do(func() { close(c.ready) })
	logging.Info().Str("topic", Topic).Msg("Telemetry consumer started")

	for {
		select {
		case <-ctx.Done():
			c.drain(messages)
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				// The broker closed; resubscribing cannot succeed.
				if err := ctx.Err(); err != nil {
					return err
				}
				return suture.ErrDoNotRestart
			}
			c.process(msg)
		}
	}
}

// drain writes records until the queue has been empty for drainQuiet,
// nothing has arrived for drainIdle, or drainTimeout passes.
func (c *Consumer) drain(messages <-chan *message.Message) {
	deadline := time.NewTimer(c.drainTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(drainQuiet / 5)
	defer tick.Stop()

	drained := 0
	lastActivity := time.Now()
	defer func() {
		logEvent := logging.Info()
		if pending := c.source.Pending(); pending > 0 {
			logEvent = logging.Warn().Int64("lost", pending)
		}
		logEvent.Int("count", drained).Msg("Telemetry consumer drained records during shutdown")
	}()

	for {
		select {
		case <-deadline.C:
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			c.process(msg)
			drained++
			lastActivity = time.Now()
		case <-tick.C:
			idle := time.Since(lastActivity)
			if c.source.Pending() <= 0 && idle >= drainQuiet {
				return
			}
			if idle >= drainIdle {
				return
			}
		}
	}
}

// process always acks: a failed append is logged and counted, never
// redelivered.
func (c *Consumer) process(msg *message.Message) {
	c.received.Add(1)
	defer c.source.Settle()
	event := msg.Metadata.Get(metadataEvent)

	if err := c.sink.Append(msg.Payload); err != nil {
		c.failed.Add(1)
		metrics.TelemetryWriteErrors.Inc()
		logging.Warn().Err(err).Str("message_uuid", msg.UUID).Str("event", event).Msg("Failed to append telemetry record")
		msg.Ack()
		return
	}

	c.written.Add(1)
	metrics.TelemetryEventsPersisted.WithLabelValues(event).Inc()
	msg.Ack()
}

// Stats returns current counters.
func (c *Consumer) Stats() ConsumerStats {
	return ConsumerStats{
		MessagesReceived: c.received.Load(),
		MessagesWritten:  c.written.Load(),
		WriteErrors:      c.failed.Load(),
		Pending:          c.source.Pending(),
	}
}

// String implements fmt.Stringer for suture logging.
func (c *Consumer) String() string {
	return "telemetry-consumer"
}
