package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	Service string
	// 空字串時由 SetGlobalLevel 控制
	Level string
	// json 或 console
	Format string
	// 額外輸出，例如 kafka
	Sinks []io.Writer
}

// ParseLevel 無法解析時回傳 info
func ParseLevel(level string) zerolog.Level {
	lv, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lv == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lv
}

func New(opts Options) zerolog.Logger {
	return newWithOutput(os.Stdout, opts)
}

func newWithOutput(out io.Writer, opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var primary io.Writer = out
	if opts.Format == "console" {
		primary = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	w := primary
	if len(opts.Sinks) > 0 {
		writers := append([]io.Writer{primary}, opts.Sinks...)
		w = zerolog.MultiLevelWriter(writers...)
	}

	service := opts.Service
	if service == "" {
		service = "shop"
	}

	l := zerolog.New(w)
	if opts.Level != "" {
		l = l.Level(ParseLevel(opts.Level))
	}
	return l.With().
		Timestamp().
		Str("service", service).
		Logger()
}

// SetGlobalLevel 執行中調整等級，只對 Level 留空建立的 logger 有完整效果
func SetGlobalLevel(level string) zerolog.Level {
	lv := ParseLevel(level)
	zerolog.SetGlobalLevel(lv)
	return lv
}
