package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level, errors at warn
// level. It implements all hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) done(msg string, err error, kv ...any) {
	if err != nil {
		h.logger.Warn(msg, append(kv, "err", err)...)
		return
	}
	h.logger.Debug(msg, kv...)
}

func (h *LogHooks) OnLoadStart(_ context.Context, role, source string) {
	h.logger.Debug("loading dataset", "role", role, "source", source)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, role string, regions int, d time.Duration, err error) {
	h.done("dataset loaded", err, "role", role, "regions", regions, "duration", d)
}

func (h *LogHooks) OnClassifyStart(_ context.Context, mapType string, regions int) {
	h.logger.Debug("classifying", "map", mapType, "regions", regions)
}

func (h *LogHooks) OnClassifyComplete(_ context.Context, mapType string, noData int, d time.Duration, err error) {
	h.done("classified", err, "map", mapType, "no_data", noData, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("rendering legend", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("legend rendered", err, "formats", formats, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("request failed", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
