// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package observability times the pipeline stages (load, index,
// detect, merge, enrich, report) and emits structured records in debug
// mode.
package observability

import (
	"encoding/json"
	"io"
	"time"
)

// StandardObserver implements observability for all pipeline stages
type StandardObserver struct {
	level         ObservabilityLevel
	writer        io.Writer
	DebugObserver *DebugObserver // Reference to debug observer when in debug mode
}

type ObservabilityLevel int

const (
	ObservabilityOff   ObservabilityLevel = 0
	ObservabilityDebug ObservabilityLevel = 1
)

// NewStandardObserver creates observability component
func NewStandardObserver(level ObservabilityLevel, writer io.Writer) *StandardObserver {
	return &StandardObserver{
		level:  level,
		writer: writer,
	}
}

// StartTiming returns a function to complete timing for a stage
func (o *StandardObserver) StartTiming(component, operation string) func(success bool, metadata map[string]interface{}) {
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		duration := time.Since(start)

		data := StageObservabilityData{
			Component:  component,
			Operation:  operation,
			DurationMs: duration.Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		}

		o.LogOperation(data)
	}
}

// LogOperation logs stage data
func (o *StandardObserver) LogOperation(data StageObservabilityData) {
	if o.level == ObservabilityOff {
		return
	}

	// Only log JSON in debug mode
	if o.level == ObservabilityDebug {
		json.NewEncoder(o.writer).Encode(data)
	}
}

// StageObservabilityData for all pipeline stages
type StageObservabilityData struct {
	Component    string                 `json:"component"`
	Operation    string                 `json:"operation"`
	DurationMs   int64                  `json:"duration_ms,omitempty"`
	Success      bool                   `json:"success"`
	Error        string                 `json:"error,omitempty"`
	RecordCount  int                    `json:"record_count,omitempty"`
	ClusterCount int                    `json:"cluster_count,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}
