package relay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/birdayz/morse/pkg/codec"
)

type fakeClient struct {
	polls      []kgo.Fetches
	produced   []*kgo.Record
	produceErr error
	commits    int
	cancel     context.CancelFunc
}

func (f *fakeClient) PollFetches(ctx context.Context) kgo.Fetches {
	if len(f.polls) == 0 {
		if f.cancel != nil {
			f.cancel()
		}
		return kgo.Fetches{}
	}
	p := f.polls[0]
	f.polls = f.polls[1:]
	return p
}

func (f *fakeClient) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		if f.produceErr == nil {
			f.produced = append(f.produced, r)
		}
		results = append(results, kgo.ProduceResult{Record: r, Err: f.produceErr})
	}
	return results
}

func (f *fakeClient) CommitUncommittedOffsets(context.Context) error {
	f.commits++
	return nil
}

func fetches(topic string, partition int32, recs ...*kgo.Record) kgo.Fetches {
	for _, r := range recs {
		r.Topic = topic
		r.Partition = partition
	}
	return kgo.Fetches{{
		Topics: []kgo.FetchTopic{{
			Topic:      topic,
			Partitions: []kgo.FetchPartition{{Partition: partition, Records: recs}},
		}},
	}}
}

func newRelay(t *testing.T, mode codec.Mode, unwrap bool) *Relay {
	t.Helper()
	c, err := codec.ForMode(mode, unwrap)
	require.NoError(t, err)
	return &Relay{Source: "in", Dest: "out", Mode: mode, Codec: c}
}

func TestProcess(t *testing.T) {
	r := newRelay(t, codec.ModeEncode, false)
	ts := time.Unix(1700000000, 0)

	out, err := r.Process(&kgo.Record{
		Topic:     "in",
		Partition: 3,
		Key:       []byte("k"),
		Value:     []byte("sos"),
		Headers:   []kgo.RecordHeader{{Key: "env", Value: []byte("prod")}},
		Timestamp: ts,
	})
	require.NoError(t, err)
	assert.Equal(t, "out", out.Topic)
	assert.Equal(t, []byte("k"), out.Key)
	assert.Equal(t, "... --- ...", string(out.Value))
	assert.Equal(t, ts, out.Timestamp)
	assert.Equal(t, int32(0), out.Partition)
	assert.Equal(t, []kgo.RecordHeader{
		{Key: "env", Value: []byte("prod")},
		{Key: ModeHeader, Value: []byte("encode")},
	}, out.Headers)
}

func TestProcessMsgPack(t *testing.T) {
	r := newRelay(t, codec.ModeDecode, true)
	payload, err := msgpack.Marshal("... --- ...")
	require.NoError(t, err)

	out, err := r.Process(&kgo.Record{Value: payload})
	require.NoError(t, err)
	require.Equal(t, "SOS", string(out.Value))

	_, err = r.Process(&kgo.Record{Value: []byte{0xc1}})
	require.Error(t, err)
}

func TestRunUntilEndOffsets(t *testing.T) {
	r := newRelay(t, codec.ModeDecode, false)
	r.EndOffsets = map[int32]int64{0: 2}

	cl := &fakeClient{polls: []kgo.Fetches{
		fetches("in", 0, &kgo.Record{Offset: 0, Value: []byte("... --- ...")}),
		fetches("in", 0, &kgo.Record{Offset: 1, Value: []byte(".... .. / - .... . .-. .")}),
		fetches("in", 0, &kgo.Record{Offset: 2, Value: []byte("never")}),
	}}

	stats, err := r.Run(context.Background(), cl)
	require.NoError(t, err)
	require.Equal(t, Stats{Consumed: 2, Produced: 2}, stats)
	require.Len(t, cl.produced, 2)
	require.Equal(t, "SOS", string(cl.produced[0].Value))
	require.Equal(t, "HI THERE", string(cl.produced[1].Value))
	require.Equal(t, 0, cl.commits)
}

func TestRunEmptyTopic(t *testing.T) {
	r := newRelay(t, codec.ModeEncode, false)
	r.EndOffsets = map[int32]int64{0: 0, 1: 0}

	cl := &fakeClient{polls: []kgo.Fetches{fetches("in", 0, &kgo.Record{Value: []byte("x")})}}
	stats, err := r.Run(context.Background(), cl)
	require.NoError(t, err)
	require.Zero(t, stats.Consumed)
	require.Empty(t, cl.produced)
}

func TestRunLimit(t *testing.T) {
	r := newRelay(t, codec.ModeEncode, false)
	r.Limit = 1
	r.Commit = true

	cl := &fakeClient{polls: []kgo.Fetches{
		fetches("in", 0,
			&kgo.Record{Offset: 0, Value: []byte("a")},
			&kgo.Record{Offset: 1, Value: []byte("b")},
		),
	}}

	stats, err := r.Run(context.Background(), cl)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Produced)
	require.Equal(t, ".-", string(cl.produced[0].Value))
	require.Equal(t, 1, cl.commits)
}

func TestRunLimitPerPartitionUntilEndOffsets(t *testing.T) {
	r := newRelay(t, codec.ModeEncode, false)
	r.Limit = 1
	r.EndOffsets = map[int32]int64{0: 3, 1: 1}

	cl := &fakeClient{polls: []kgo.Fetches{
		fetches("in", 0,
			&kgo.Record{Offset: 0, Value: []byte("a")},
			&kgo.Record{Offset: 1, Value: []byte("b")},
		),
		fetches("in", 1, &kgo.Record{Offset: 0, Value: []byte("t")}),
		fetches("in", 0, &kgo.Record{Offset: 2, Value: []byte("never")}),
	}}

	stats, err := r.Run(context.Background(), cl)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.Produced)
	require.Equal(t, ".-", string(cl.produced[0].Value))
	require.Equal(t, "-", string(cl.produced[1].Value))
	require.Len(t, cl.polls, 1)
}

func TestRunLimitWaitsForAllPartitions(t *testing.T) {
	r := newRelay(t, codec.ModeEncode, false)
	r.Limit = 1
	r.Partitions = []int32{0, 1}

	cl := &fakeClient{polls: []kgo.Fetches{
		fetches("in", 0, &kgo.Record{Offset: 0, Value: []byte("e")}),
		fetches("in", 0, &kgo.Record{Offset: 1, Value: []byte("skipped")}),
		fetches("in", 1, &kgo.Record{Offset: 0, Value: []byte("t")}),
		fetches("in", 1, &kgo.Record{Offset: 1, Value: []byte("never")}),
	}}

	stats, err := r.Run(context.Background(), cl)
	require.NoError(t, err)
	require.Equal(t, Stats{Consumed: 2, Produced: 2}, stats)
	require.Equal(t, ".", string(cl.produced[0].Value))
	require.Equal(t, "-", string(cl.produced[1].Value))
	require.Len(t, cl.polls, 1)
}

func TestRunSkipsBadRecords(t *testing.T) {
	r := newRelay(t, codec.ModeEncode, true)
	good, err := msgpack.Marshal("e")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cl := &fakeClient{cancel: cancel, polls: []kgo.Fetches{
		fetches("in", 0,
			&kgo.Record{Offset: 0, Value: []byte{0xc1}},
			&kgo.Record{Offset: 1, Value: good},
		),
	}}

	stats, err := r.Run(ctx, cl)
	require.NoError(t, err)
	require.Equal(t, Stats{Consumed: 2, Produced: 1, Failed: 1}, stats)
	require.Equal(t, ".", string(cl.produced[0].Value))
}

func TestRunProduceError(t *testing.T) {
	r := newRelay(t, codec.ModeEncode, false)
	boom := errors.New("broker down")
	cl := &fakeClient{produceErr: boom, polls: []kgo.Fetches{
		fetches("in", 0, &kgo.Record{Value: []byte("a")}),
	}}

	_, err := r.Run(context.Background(), cl)
	require.ErrorIs(t, err, boom)
}
