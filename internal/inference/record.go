package inference

import (
	"encoding/json"
	"fmt"
)

// ResultRecord is the persisted outcome of processing one Job
type ResultRecord struct {
	SensorID     string  `json:"sensor_id"`
	Model        string  `json:"model"`
	Latency      float64 `json:"latency"`
	QueueAtStart int64   `json:"queue_at_start"`
}

// EncodeRecord serializes a ResultRecord for the result log
func EncodeRecord(rec *ResultRecord) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result record: %w", err)
	}
	return data, nil
}

// DecodeRecord parses a result log entry
func DecodeRecord(payload []byte) (*ResultRecord, error) {
	var rec ResultRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result record: %w", err)
	}
	return &rec, nil
}
