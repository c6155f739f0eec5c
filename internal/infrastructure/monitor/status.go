package monitor

import "time"

type Status struct {
	Bolt        bool      `json:"bolt"`
	PostgreSQL  *bool     `json:"postgresql,omitempty"`
	Redis       *bool     `json:"redis,omitempty"`
	HistorySize int       `json:"history_size"`
	LastCheck   time.Time `json:"last_check"`
}
