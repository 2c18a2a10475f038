package logger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RoyceAzure/lab/shop/internal/infra/kafka"
)

const (
	defaultLogBufferSize = 50000
	defaultLogBatchSize  = 100
)

var ErrKafkaWriterClosed = errors.New("kafka log writer is closed")

// KafkaWriter 把 zerolog 輸出寫進 kafka
// Write 只放進 receiverCh，由背景程序批次送出；buffer 滿了直接丟棄並計數
// key 使用遞增序號，平均分配到各分區
type KafkaWriter struct {
	producer kafka.Producer
	timeout  time.Duration
	logID    atomic.Uint64
	dropped  atomic.Uint64

	mu         sync.RWMutex
	isRunning  bool
	receiverCh chan kafka.Message
	isStopped  chan struct{} //內部程序是否已經停止
	closeOnce  sync.Once
	closeErr   error
}

func NewKafkaWriter(producer kafka.Producer) *KafkaWriter {
	return newKafkaWriter(producer, defaultLogBufferSize)
}

func newKafkaWriter(producer kafka.Producer, bufferSize int) *KafkaWriter {
	kw := &KafkaWriter{
		producer:   producer,
		timeout:    5 * time.Second,
		isRunning:  true,
		receiverCh: make(chan kafka.Message, bufferSize),
		isStopped:  make(chan struct{}),
	}
	go kw.produce()
	return kw
}

// Write 不會 block 在 kafka 上
// buffer 滿時丟棄該筆，仍回傳 len(p) 讓其他 sink 繼續寫
func (kw *KafkaWriter) Write(p []byte) (n int, err error) {
	if kw == nil || kw.producer == nil {
		return 0, errors.New("kafka log writer is not init")
	}

	kw.mu.RLock()
	defer kw.mu.RUnlock()
	if !kw.isRunning {
		return 0, ErrKafkaWriterClosed
	}

	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, kw.logID.Add(1))

	// zerolog 會重用 p
	value := make([]byte, len(p))
	copy(value, p)

	select {
	case kw.receiverCh <- kafka.Message{Key: key, Value: value}:
	default:
		kw.dropped.Add(1)
	}
	return len(p), nil
}

// Dropped buffer 滿而丟棄的筆數
func (kw *KafkaWriter) Dropped() uint64 {
	return kw.dropped.Load()
}

// 內部發送程序，receiverCh 關閉且消耗完才結束
func (kw *KafkaWriter) produce() {
	defer close(kw.isStopped)

	batch := make([]kafka.Message, 0, defaultLogBatchSize)
	for msg := range kw.receiverCh {
		batch = append(batch, msg)
	collect:
		for len(batch) < defaultLogBatchSize {
			select {
			case next, ok := <-kw.receiverCh:
				if !ok {
					break collect
				}
				batch = append(batch, next)
			default:
				break collect
			}
		}
		kw.send(batch)
		batch = batch[:0]
	}
}

// 送失敗不重試，計入 dropped
func (kw *KafkaWriter) send(batch []kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), kw.timeout)
	defer cancel()
	if err := kw.producer.Produce(ctx, batch...); err != nil {
		kw.dropped.Add(uint64(len(batch)))
	}
}

// Close 拒絕新資料，等 buffer 內剩餘訊息送完後關閉 producer
// 可以重複呼叫
func (kw *KafkaWriter) Close() error {
	return kw.CloseWithin(30 * time.Second)
}

func (kw *KafkaWriter) CloseWithin(waitTime time.Duration) error {
	kw.closeOnce.Do(func() {
		kw.mu.Lock()
		kw.isRunning = false
		close(kw.receiverCh)
		kw.mu.Unlock()

		var err error
		select {
		case <-kw.isStopped:
		case <-time.After(waitTime):
			err = fmt.Errorf("kafka log writer not flushed within %s, some logs will lose", waitTime)
		}
		kw.closeErr = errors.Join(err, kw.producer.Close())
	})
	return kw.closeErr
}
