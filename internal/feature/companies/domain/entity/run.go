package entity

import "time"

// Trigger identifies what started a collection run.
type Trigger string

const (
	TriggerStartup  Trigger = "startup"
	TriggerSchedule Trigger = "schedule"
	TriggerManual   Trigger = "manual"
)

// GroupResult は1つのマーケットグループの収集・保存結果です。
type GroupResult struct {
	Group     MarketGroup `json:"group"`
	Collected int         `json:"collected"`
	Staged    int         `json:"staged"`
	Skipped   int         `json:"skipped"`
	Error     string      `json:"error,omitempty"`
}

// RunSummary は Orchestrator の1回分の実行結果です。
type RunSummary struct {
	Trigger    Trigger       `json:"trigger"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Groups     []GroupResult `json:"groups"`
}

// Failed reports whether any group ended with an error.
func (s RunSummary) Failed() bool {
	for _, g := range s.Groups {
		if g.Error != "" {
			return true
		}
	}
	return false
}
