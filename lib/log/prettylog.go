//
// See the file COPYRIGHT for copyright information.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package log provides a human-friendly slog.Handler for server logs.
// Each record is written on one line: timestamp, colorized level, message,
// then any attributes as compact JSON.
package log

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync"
)

const (
	timeFormat = "[15:04:05.000]"

	reset = "\033[0m"

	darkGray     = 90
	lightRed     = 91
	lightGreen   = 92
	lightYellow  = 93
	lightBlue    = 94
	lightMagenta = 95
	white        = 97
)

func colorize(colorCode int, v string) string {
	return fmt.Sprintf("\033[%sm%s%s", strconv.Itoa(colorCode), v, reset)
}

type Handler struct {
	handler          slog.Handler
	buf              *bytes
	mutex            *sync.Mutex
	writer           io.Writer
	colorize         bool
	outputEmptyAttrs bool
}

// bytes is a locked byte buffer the inner JSON handler writes attrs into.
type bytes struct {
	mu   sync.Mutex
	data []byte
}

func (b *bytes) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *bytes) take() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.data
	b.data = nil
	return out
}

type Option func(h *Handler)

// WithDestinationWriter directs output somewhere other than stdout.
func WithDestinationWriter(writer io.Writer) Option {
	return func(h *Handler) {
		h.writer = writer
	}
}

// WithColor turns on ANSI colors for the level text.
func WithColor() Option {
	return func(h *Handler) {
		h.colorize = true
	}
}

// WithOutputEmptyAttrs writes the attribute object even when it is empty.
func WithOutputEmptyAttrs() Option {
	return func(h *Handler) {
		h.outputEmptyAttrs = true
	}
}

// NewHandler makes a Handler with colors on and output to stdout,
// which is what the server wants.
func NewHandler(opts *slog.HandlerOptions) *Handler {
	return New(opts, WithDestinationWriter(os.Stdout), WithColor())
}

func New(handlerOptions *slog.HandlerOptions, options ...Option) *Handler {
	if handlerOptions == nil {
		handlerOptions = &slog.HandlerOptions{}
	}

	buf := &bytes{}
	handler := &Handler{
		buf: buf,
		handler: slog.NewJSONHandler(buf, &slog.HandlerOptions{
			Level:       handlerOptions.Level,
			AddSource:   handlerOptions.AddSource,
			ReplaceAttr: suppressDefaults(handlerOptions.ReplaceAttr),
		}),
		mutex:  &sync.Mutex{},
		writer: os.Stdout,
	}

	for _, opt := range options {
		opt(handler)
	}

	return handler
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		handler:          h.handler.WithAttrs(attrs),
		buf:              h.buf,
		mutex:            h.mutex,
		writer:           h.writer,
		colorize:         h.colorize,
		outputEmptyAttrs: h.outputEmptyAttrs,
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &Handler{
		handler:          h.handler.WithGroup(name),
		buf:              h.buf,
		mutex:            h.mutex,
		writer:           h.writer,
		colorize:         h.colorize,
		outputEmptyAttrs: h.outputEmptyAttrs,
	}
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	colorized := func(code int, s string) string {
		if h.colorize {
			return colorize(code, s)
		}
		return s
	}

	var level string
	levelAttr := slog.Attr{
		Key:   slog.LevelKey,
		Value: slog.AnyValue(r.Level),
	}
	if levelAttr.Equal(slog.Attr{}) {
		level = ""
	} else {
		level = levelAttr.Value.String() + ":"

		switch {
		case r.Level <= slog.LevelDebug:
			level = colorized(lightMagenta, level)
		case r.Level <= slog.LevelInfo:
			level = colorized(lightBlue, level)
		case r.Level < slog.LevelWarn:
			level = colorized(lightGreen, level)
		case r.Level < slog.LevelError:
			level = colorized(lightYellow, level)
		case r.Level <= slog.LevelError+1:
			level = colorized(lightRed, level)
		default:
			level = colorized(lightMagenta, level)
		}
	}

	attrs, err := h.computeAttrs(ctx, r)
	if err != nil {
		return fmt.Errorf("[computeAttrs]: %w", err)
	}

	var attrsStr string
	if h.outputEmptyAttrs || len(attrs) > 0 {
		attrBytes, err := json.Marshal(attrs)
		if err != nil {
			return fmt.Errorf("error when marshaling attrs: %w", err)
		}
		attrsStr = colorized(darkGray, string(attrBytes))
	}

	out := fmt.Sprintf(
		"%s %s %s %s\n",
		colorized(darkGray, r.Time.Format(timeFormat)),
		level,
		colorized(white, r.Message),
		attrsStr,
	)

	_, err = io.WriteString(h.writer, out)
	if err != nil {
		return fmt.Errorf("[WriteString]: %w", err)
	}
	return nil
}

func (h *Handler) computeAttrs(ctx context.Context, r slog.Record) (map[string]any, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if err := h.handler.Handle(ctx, r); err != nil {
		return nil, fmt.Errorf("error when calling inner handler's Handle: %w", err)
	}

	data := h.buf.take()
	var attrs map[string]any
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, fmt.Errorf("error when unmarshaling inner handler's Handle result: %w", err)
	}
	return attrs, nil
}

// suppressDefaults drops the time, level, and message attrs from the inner
// JSON handler, since the outer handler renders those itself.
func suppressDefaults(next func([]string, slog.Attr) slog.Attr) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, attr slog.Attr) slog.Attr {
		if attr.Key == slog.TimeKey ||
			attr.Key == slog.LevelKey ||
			attr.Key == slog.MessageKey {
			return slog.Attr{}
		}
		if next == nil {
			return attr
		}
		return next(groups, attr)
	}
}
