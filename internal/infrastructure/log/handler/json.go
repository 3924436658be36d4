package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"
)

// JSONHandler 每条记录输出一行扁平 JSON
type JSONHandler struct {
	opts  slog.HandlerOptions
	mu    *sync.Mutex
	enc   *json.Encoder
	attrs []slog.Attr
	group string
}

// NewJSONHandler 创建 JSON 处理器
func NewJSONHandler(out io.Writer, opts *slog.HandlerOptions) *JSONHandler {
	h := &JSONHandler{enc: json.NewEncoder(out), mu: &sync.Mutex{}}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

// Enabled 实现 slog.Handler
func (h *JSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	if h.opts.Level == nil {
		return level >= slog.LevelInfo
	}
	return level >= h.opts.Level.Level()
}

// Handle 实现 slog.Handler
func (h *JSONHandler) Handle(_ context.Context, r slog.Record) error {
	obj := make(map[string]any, 4+len(h.attrs)+r.NumAttrs())
	obj["time"] = r.Time.Format(time.RFC3339Nano)
	obj["level"] = r.Level.String()
	obj["msg"] = r.Message
	if h.opts.AddSource && r.PC != 0 {
		obj["source"] = sourceOf(r)
	}

	for _, a := range h.attrs {
		obj[a.Key] = jsonValue(a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		a = qualify(h.group, a)
		obj[a.Key] = jsonValue(a.Value)
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.enc.Encode(obj)
}

// WithAttrs 实现 slog.Handler
func (h *JSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		next.attrs = append(next.attrs, qualify(h.group, a))
	}
	return &next
}

// WithGroup 实现 slog.Handler
func (h *JSONHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	if next.group != "" {
		next.group += "." + name
	} else {
		next.group = name
	}
	return &next
}

// jsonValue error 类型按字符串输出，否则 encoding/json 会得到 {}
func jsonValue(v slog.Value) any {
	v = v.Resolve()
	if err, ok := v.Any().(error); ok {
		return err.Error()
	}
	if v.Kind() == slog.KindTime {
		return v.Time().Format(time.RFC3339Nano)
	}
	if v.Kind() == slog.KindDuration {
		return v.Duration().String()
	}
	return v.Any()
}
