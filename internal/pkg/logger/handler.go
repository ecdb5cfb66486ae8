package logger

import (
	"context"
	"errors"
	log "log/slog"
)

// TeeHandler 将日志分发到多个 Handler，任一 Handler 启用该级别即输出
type TeeHandler struct {
	handlers []log.Handler
}

func (s *TeeHandler) Enabled(ctx context.Context, level log.Level) bool {
	for _, h := range s.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle 单个 Handler 失败（如 Logstash 断开）不影响其余输出
func (s *TeeHandler) Handle(ctx context.Context, r log.Record) error {
	var errs []error
	for _, h := range s.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *TeeHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &TeeHandler{handlers: mapHandlers(s.handlers, func(h log.Handler) log.Handler { return h.WithAttrs(attrs) })}
}

func (s *TeeHandler) WithGroup(name string) log.Handler {
	return &TeeHandler{handlers: mapHandlers(s.handlers, func(h log.Handler) log.Handler { return h.WithGroup(name) })}
}

func mapHandlers(hs []log.Handler, fn func(log.Handler) log.Handler) []log.Handler {
	out := make([]log.Handler, len(hs))
	for i, h := range hs {
		out[i] = fn(h)
	}
	return out
}

// RemoteFilterHandler 只上报属于某次任务运行或请求的日志（带 trace_id），启动与连接日志留在本地
type RemoteFilterHandler struct {
	next log.Handler
	// traced 通过 logger.With 预先绑定了 trace_id
	traced bool
}

func (s *RemoteFilterHandler) Enabled(ctx context.Context, level log.Level) bool {
	return s.next.Enabled(ctx, level)
}

func (s *RemoteFilterHandler) Handle(ctx context.Context, r log.Record) error {
	if !s.traced && !hasTraceID(r) {
		return nil
	}
	return s.next.Handle(ctx, r)
}

func hasTraceID(r log.Record) bool {
	found := false
	r.Attrs(func(a log.Attr) bool {
		if a.Key == TraceIDKey && a.Value.String() != "" {
			found = true
			return false
		}
		return true
	})
	return found
}

func (s *RemoteFilterHandler) WithAttrs(attrs []log.Attr) log.Handler {
	traced := s.traced
	for _, a := range attrs {
		if a.Key == TraceIDKey && a.Value.String() != "" {
			traced = true
		}
	}
	return &RemoteFilterHandler{next: s.next.WithAttrs(attrs), traced: traced}
}

func (s *RemoteFilterHandler) WithGroup(name string) log.Handler {
	return &RemoteFilterHandler{next: s.next.WithGroup(name), traced: s.traced}
}
