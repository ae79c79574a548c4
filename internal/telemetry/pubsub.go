// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package telemetry

import (
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/arcana/internal/config"
	"github.com/tomtom215/arcana/internal/logging"
)

// Queue is the in-process broker shared by Sink and Consumer. It counts
// records that were published but not yet settled by a consumer, so
// shutdown can tell when everything accepted has been written.
type Queue struct {
	*gochannel.GoChannel
	pending atomic.Int64
}

// NewPubSub returns the broker. Publish never blocks on the consumer;
// gochannel hands each subscriber one unacked message at a time and keeps
// the rest in broker-owned goroutines until the subscription ends.
func NewPubSub(cfg config.TelemetryConfig) *Queue {
	return &Queue{
		GoChannel: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer:            cfg.QueueBuffer,
			BlockPublishUntilSubscriberAck: false,
		}, logging.NewWatermillAdapter("telemetry")),
	}
}

// Publish counts msgs as pending before handing them to the broker, so a
// fast consumer can never settle a message that was not yet counted.
func (q *Queue) Publish(topic string, msgs ...*message.Message) error {
	n := int64(len(msgs))
	q.pending.Add(n)
	if err := q.GoChannel.Publish(topic, msgs...); err != nil {
		q.pending.Add(-n)
		return err
	}
	return nil
}

// Pending reports published records not yet settled.
func (q *Queue) Pending() int64 {
	return q.pending.Load()
}

// Settle marks one delivered record as handled.
func (q *Queue) Settle() {
	q.pending.Add(-1)
}
