// Package relay transcodes records from one Kafka topic into another.
package relay

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/birdayz/morse/pkg/codec"
)

// ModeHeader is added to every produced record.
const ModeHeader = "morse-mode"

// Client is the part of *kgo.Client the relay uses.
type Client interface {
	PollFetches(ctx context.Context) kgo.Fetches
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	CommitUncommittedOffsets(ctx context.Context) error
}

// Relay copies records from Source to Dest, transcoding each value.
type Relay struct {
	Source string
	Dest   string
	Mode   codec.Mode
	Codec  codec.Codec

	// Commit commits consumed offsets after each produced batch.
	Commit bool
	// Limit caps the records relayed per partition; 0 means no limit.
	Limit int64
	// EndOffsets, when set, stops the relay once every listed partition has
	// been consumed up to its end offset or has reached Limit.
	EndOffsets map[int32]int64
	// Partitions are the source partitions Limit applies to when there are
	// no EndOffsets. If empty, the partitions seen so far are used.
	Partitions []int32

	Log *zap.Logger
}

// Stats summarises a run.
type Stats struct {
	Consumed int64
	Produced int64
	Failed   int64
}

// Process transcodes one record into the record to produce. Key, headers
// and timestamp are kept; the partition is left to the partitioner.
func (r *Relay) Process(rec *kgo.Record) (*kgo.Record, error) {
	value, err := r.Codec.Transcode(rec.Value)
	if err != nil {
		return nil, fmt.Errorf("transcode %s/%d@%d: %w", rec.Topic, rec.Partition, rec.Offset, err)
	}

	headers := make([]kgo.RecordHeader, 0, len(rec.Headers)+1)
	headers = append(headers, rec.Headers...)
	headers = append(headers, kgo.RecordHeader{Key: ModeHeader, Value: []byte(r.Mode)})

	return &kgo.Record{
		Topic:     r.Dest,
		Key:       rec.Key,
		Value:     value,
		Headers:   headers,
		Timestamp: rec.Timestamp,
	}, nil
}

// Run polls until ctx is done or a stop condition is met. Records that
// fail to transcode are logged and skipped; produce errors end the run.
func (r *Relay) Run(ctx context.Context, cl Client) (Stats, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("source", r.Source), zap.String("dest", r.Dest), zap.String("mode", string(r.Mode)))

	var stats Stats
	counts := make(map[int32]int64)
	next := make(map[int32]int64)

	if r.done(counts, next) {
		return stats, nil
	}

	for {
		fetches := cl.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return stats, nil
		}

		for _, e := range fetches.Errors() {
			log.Warn("fetch error", zap.String("topic", e.Topic), zap.Int32("partition", e.Partition), zap.Error(e.Err))
		}

		var out []*kgo.Record
		fetches.EachRecord(func(rec *kgo.Record) {
			if r.Limit > 0 && counts[rec.Partition] >= r.Limit {
				return
			}
			stats.Consumed++
			counts[rec.Partition]++
			next[rec.Partition] = rec.Offset + 1

			produced, err := r.Process(rec)
			if err != nil {
				stats.Failed++
				log.Warn("skipping record", zap.Error(err))
				return
			}
			out = append(out, produced)
		})

		if len(out) > 0 {
			if err := cl.ProduceSync(ctx, out...).FirstErr(); err != nil {
				return stats, fmt.Errorf("failed to produce to %s: %w", r.Dest, err)
			}
			stats.Produced += int64(len(out))
			log.Debug("relayed batch", zap.Int("count", len(out)))
		}

		if r.Commit {
			if err := cl.CommitUncommittedOffsets(ctx); err != nil {
				log.Warn("commit error", zap.Error(err))
			}
		}

		if r.done(counts, next) {
			return stats, nil
		}
	}
}

func (r *Relay) done(counts, next map[int32]int64) bool {
	limited := func(p int32) bool {
		return r.Limit > 0 && counts[p] >= r.Limit
	}

	if r.EndOffsets != nil {
		for p, end := range r.EndOffsets {
			if next[p] < end && !limited(p) {
				return false
			}
		}
		return true
	}

	if r.Limit == 0 {
		return false
	}
	if len(r.Partitions) > 0 {
		for _, p := range r.Partitions {
			if !limited(p) {
				return false
			}
		}
		return true
	}
	if len(counts) == 0 {
		return false
	}
	for p := range counts {
		if !limited(p) {
			return false
		}
	}
	return true
}
