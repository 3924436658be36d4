package handler

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
)

func qualify(group string, a slog.Attr) slog.Attr {
	if group == "" {
		return a
	}
	return slog.Attr{Key: group + "." + a.Key, Value: a.Value}
}

func sourceOf(r slog.Record) string {
	frames := runtime.CallersFrames([]uintptr{r.PC})
	f, _ := frames.Next()
	return fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
}
