package kafka

import (
	"errors"
	"time"
)

// Config producer 設定
type Config struct {
	Brokers []string
	Topic   string

	// 生產者配置
	RequiredAcks  int
	BatchSize     int
	BatchTimeout  time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// DefaultConfig returns a Config with default settings
func DefaultConfig(brokers []string, topic string) *Config {
	return &Config{
		Brokers:       brokers,
		Topic:         topic,
		RequiredAcks:  -1, // 等待所有副本確認
		BatchSize:     100,
		BatchTimeout:  50 * time.Millisecond,
		RetryAttempts: 3,
		RetryDelay:    200 * time.Millisecond,
	}
}

func (c *Config) Validate() error {
	if len(c.Brokers) == 0 {
		return errors.Join(ErrInvalidateParameter, errors.New("brokers is empty"))
	}
	if c.Topic == "" {
		return errors.Join(ErrInvalidateParameter, errors.New("topic is empty"))
	}
	if c.RetryAttempts < 0 {
		return errors.Join(ErrInvalidateParameter, errors.New("retry attempts must be >= 0"))
	}
	return nil
}
