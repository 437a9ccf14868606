// Package tools defines the function-calling surface exposed to the
// language model: a registry of named tools with JSON-schema inputs and
// plain-text outputs.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	invocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sidekick_tool_invocations_total",
		Help: "Tool invocations by tool name and outcome.",
	}, []string{"tool", "status"})

	dispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sidekick_tool_dispatch_duration_seconds",
		Help:    "Wall time spent executing a tool.",
		Buckets: prometheus.DefBuckets,
	}, []string{"tool"})
)

// Handler executes a tool call. input is the raw JSON argument object
// produced by the model.
type Handler func(ctx context.Context, input json.RawMessage) (string, error)

// Tool is one callable function offered to the model.
type Tool struct {
	Name        string
	Description string
	// Vendor names the upstream service the tool talks to, for the
	// vendor-call metrics.
	Vendor string
	// Schema is the JSON-schema "properties" map plus a "required" list,
	// in the shape both provider SDKs accept.
	Schema   map[string]any
	Required []string
	Run      Handler
}

// Recorder receives per-dispatch observations. The metrics server
// implements it.
type Recorder interface {
	RecordVendorCall(vendor, status string)
	RecordError(component, errorType string)
}

// Registry holds the available tools and dispatches calls to them.
type Registry struct {
	tools    map[string]Tool
	recorder Recorder
	logger   *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		tools:  make(map[string]Tool),
		logger: logger,
	}
}

// SetRecorder attaches a dispatch observer. Without one, dispatches are
// still counted in the registry's own metrics.
func (r *Registry) SetRecorder(rec Recorder) {
	r.recorder = rec
}

// Register adds tools to the registry. Registering a duplicate name
// panics; tool names are compile-time constants.
func (r *Registry) Register(tools ...Tool) {
	for _, t := range tools {
		if _, exists := r.tools[t.Name]; exists {
			panic(fmt.Sprintf("tool %q registered twice", t.Name))
		}
		r.tools[t.Name] = t
	}
}

// List returns the registered tools sorted by name.
func (r *Registry) List() []Tool {
	list := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Dispatch runs a named tool. Failures are converted to readable result
// strings rather than errors: the model should see what went wrong and
// explain it, not crash the conversation.
func (r *Registry) Dispatch(ctx context.Context, name string, input json.RawMessage) string {
	tool, ok := r.tools[name]
	if !ok {
		invocationsTotal.WithLabelValues(name, "unknown").Inc()
		if r.recorder != nil {
			r.recorder.RecordError("tools", "unknown_tool")
		}
		r.logger.Warn("Unknown tool requested", zap.String("tool", name))
		return fmt.Sprintf("Unknown tool: %s", name)
	}

	start := time.Now()
	result, err := tool.Run(ctx, input)
	dispatchDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		invocationsTotal.WithLabelValues(name, "error").Inc()
		if r.recorder != nil {
			if tool.Vendor != "" {
				r.recorder.RecordVendorCall(tool.Vendor, "error")
			}
			r.recorder.RecordError("tools", name)
		}
		r.logger.Error("Tool failed",
			zap.String("tool", name),
			zap.Error(err))
		return fmt.Sprintf("An error occurred in %s: %v", name, err)
	}

	invocationsTotal.WithLabelValues(name, "ok").Inc()
	if r.recorder != nil && tool.Vendor != "" {
		r.recorder.RecordVendorCall(tool.Vendor, "ok")
	}
	r.logger.Debug("Tool completed",
		zap.String("tool", name),
		zap.Duration("took", time.Since(start)))
	return result
}
