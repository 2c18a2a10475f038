package kafka

import (
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Header 消息標頭，例如事件類型、追蹤ID
type Header struct {
	Key   string
	Value []byte
}

// Message 相同 Key 會被分配到相同分區
type Message struct {
	Key     []byte
	Value   []byte
	Headers []Header
	Time    time.Time
}

func (m Message) ToKafkaMessage() kafkago.Message {
	headers := make([]kafkago.Header, len(m.Headers))
	for i, h := range m.Headers {
		headers[i] = kafkago.Header{Key: h.Key, Value: h.Value}
	}
	return kafkago.Message{
		Key:     m.Key,
		Value:   m.Value,
		Headers: headers,
		Time:    m.Time,
	}
}

// HeaderValue 取得指定header，不存在回傳空字串
func (m Message) HeaderValue(key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
