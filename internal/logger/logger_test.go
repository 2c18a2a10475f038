package logger

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/shop/internal/infra/kafka"
	mock_kafka "github.com/RoyceAzure/lab/shop/internal/infra/kafka/mock"
	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	require.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	require.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
	require.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	log := newWithOutput(&buf, Options{Service: "shop-test", Level: "warn"})

	log.Info().Msg("dropped")
	log.Warn().Str("k", "v").Msg("kept")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	require.Equal(t, "shop-test", entry["service"])
	require.Equal(t, "kept", entry["message"])
	require.Equal(t, "v", entry["k"])
	require.Contains(t, entry, "time")
}

func TestKafkaSink(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProducer := mock_kafka.NewMockProducer(ctrl)
	var (
		mu   sync.Mutex
		sent []kafka.Message
	)
	mockProducer.EXPECT().
		Produce(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, msgs ...kafka.Message) error {
			mu.Lock()
			defer mu.Unlock()
			sent = append(sent, msgs...)
			return nil
		}).AnyTimes()
	mockProducer.EXPECT().Close().Return(nil)

	var buf bytes.Buffer
	sink := NewKafkaWriter(mockProducer)
	log := newWithOutput(&buf, Options{Level: "info", Sinks: []io.Writer{sink}})
	log.Info().Msg("first")
	log.Error().Msg("second")

	require.NoError(t, sink.Close())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, sent, 2)
	require.Equal(t, uint64(1), binary.BigEndian.Uint64(sent[0].Key))
	require.Equal(t, uint64(2), binary.BigEndian.Uint64(sent[1].Key))
	require.Contains(t, string(sent[1].Value), "second")
	require.Contains(t, buf.String(), "first")
	require.Zero(t, sink.Dropped())
}

// Produce 卡住直到 release 關閉
type stuckProducer struct {
	release chan struct{}
	entered chan struct{}
	mu      sync.Mutex
	sent    int
	closed  int
}

func (p *stuckProducer) Produce(ctx context.Context, msgs ...kafka.Message) error {
	select {
	case p.entered <- struct{}{}:
	default:
	}
	select {
	case <-p.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent += len(msgs)
	return nil
}

func (p *stuckProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed++
	return nil
}

func TestKafkaSinkDoesNotBlockOnBroker(t *testing.T) {
	producer := &stuckProducer{release: make(chan struct{}), entered: make(chan struct{}, 1)}
	sink := newKafkaWriter(producer, 2)

	_, err := sink.Write([]byte(`{"message":"line"}`))
	require.NoError(t, err)
	<-producer.entered

	start := time.Now()
	for i := 0; i < 10; i++ {
		n, err := sink.Write([]byte(`{"message":"line"}`))
		require.NoError(t, err)
		require.Equal(t, 18, n)
	}
	require.Less(t, time.Since(start), time.Second)

	// 背景程序卡在第一筆，buffer 只收 2 筆
	require.Equal(t, uint64(8), sink.Dropped())

	close(producer.release)
	require.NoError(t, sink.Close())

	producer.mu.Lock()
	defer producer.mu.Unlock()
	require.Equal(t, 3, producer.sent)
	require.Equal(t, 1, producer.closed)
}

func TestKafkaSinkCloseFlushesBuffer(t *testing.T) {
	producer := &stuckProducer{release: make(chan struct{}), entered: make(chan struct{}, 1)}
	sink := newKafkaWriter(producer, 100)

	for i := 0; i < 5; i++ {
		_, err := sink.Write([]byte("line"))
		require.NoError(t, err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(producer.release)
	}()
	require.NoError(t, sink.Close())

	producer.mu.Lock()
	require.Equal(t, 5, producer.sent)
	producer.mu.Unlock()
	require.Zero(t, sink.Dropped())

	_, err := sink.Write([]byte("late"))
	require.ErrorIs(t, err, ErrKafkaWriterClosed)

	// 重複關閉不會再關 producer
	require.NoError(t, sink.Close())
	require.Equal(t, 1, producer.closed)
}

func TestSetGlobalLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var buf bytes.Buffer
	log := newWithOutput(&buf, Options{})

	require.Equal(t, zerolog.ErrorLevel, SetGlobalLevel("error"))
	log.Warn().Msg("hidden")
	require.Zero(t, buf.Len())

	SetGlobalLevel("debug")
	log.Debug().Msg("shown")
	require.Contains(t, buf.String(), "shown")
}
