package framework

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"
)

// EventType categorizes telemetry events.
type EventType string

const (
	EventAgentStart  EventType = "agent_start"
	EventAgentFinish EventType = "agent_finish"
	EventModelCall   EventType = "model_call"
	EventToolCall    EventType = "tool_call"
	EventToolResult  EventType = "tool_result"
	EventTruncation  EventType = "truncation"
)

// Event captures structured telemetry data.
type Event struct {
	Type      EventType              `json:"type"`
	RunID     string                 `json:"run_id,omitempty"`
	Message   string                 `json:"message,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Telemetry captures execution traces emitted by the agent loop. Production
// deployments can implement OpenTelemetry exporters here, while tests typically
// swap in lightweight loggers.
type Telemetry interface {
	Emit(event Event)
}

// MultiplexTelemetry broadcasts events to multiple sinks.
type MultiplexTelemetry struct {
	Sinks []Telemetry
}

// Emit forwards the event to all registered sinks.
func (m MultiplexTelemetry) Emit(event Event) {
	for _, s := range m.Sinks {
		s.Emit(event)
	}
}

// JSONFileTelemetry writes events as newline-delimited JSON to a file.
// This allows external tools to tail and process the stream in real-time.
type JSONFileTelemetry struct {
	path string
	file *os.File
	enc  *json.Encoder
	mu   sync.Mutex
}

// NewJSONFileTelemetry opens (or creates) the log file.
func NewJSONFileTelemetry(path string) (*JSONFileTelemetry, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &JSONFileTelemetry{
		path: path,
		file: f,
		enc:  json.NewEncoder(f),
	}, nil
}

// Emit writes the JSON record.
func (j *JSONFileTelemetry) Emit(event Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.enc != nil {
		_ = j.enc.Encode(event)
	}
}

// Close releases the file handle.
func (j *JSONFileTelemetry) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file != nil {
		return j.file.Close()
	}
	return nil
}

// LoggerTelemetry emits events via the standard logger. It is intentionally
// tiny yet immensely helpful while debugging runs locally because every model
// and tool transition becomes visible without extra tooling.
type LoggerTelemetry struct {
	Logger *log.Logger
}

// Emit logs the event.
func (t LoggerTelemetry) Emit(event Event) {
	logger := t.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("[%s] run=%s meta=%v msg=%s\n", event.Type, event.RunID, event.Metadata, event.Message)
}
