package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// BatchLogEntry 一次批量解析的汇总记录
type BatchLogEntry struct {
	ID            int64         `json:"id"`
	SourceDir     string        `json:"sourceDir"`
	Total         int           `json:"total"`
	Parsed        int           `json:"parsed"`
	PassCount     int           `json:"passCount"`
	WarningCount  int           `json:"warningCount"`
	CriticalCount int           `json:"criticalCount"`
	CrashCount    int           `json:"crashCount"`
	Duration      time.Duration `json:"duration"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// InsertBatchLog 记录一次批量解析
func (s *Store) InsertBatchLog(entry BatchLogEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO batch_log (
			source_dir, total, parsed,
			pass_count, warning_count, critical_count, crash_count, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.SourceDir, entry.Total, entry.Parsed,
		entry.PassCount, entry.WarningCount, entry.CriticalCount, entry.CrashCount,
		entry.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert batch log failed: %w", err)
	}
	return nil
}

// LastBatchLog 最近一次批量解析记录，从未批量解析过时返回 ErrNotFound
func (s *Store) LastBatchLog() (*BatchLogEntry, error) {
	var entry BatchLogEntry
	var durationMS int64
	err := s.db.QueryRow(`
		SELECT id, source_dir, total, parsed,
		       pass_count, warning_count, critical_count, crash_count,
		       duration_ms, created_at
		FROM batch_log ORDER BY id DESC LIMIT 1`).Scan(
		&entry.ID, &entry.SourceDir, &entry.Total, &entry.Parsed,
		&entry.PassCount, &entry.WarningCount, &entry.CriticalCount, &entry.CrashCount,
		&durationMS, &entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query last batch log failed: %w", err)
	}
	entry.Duration = time.Duration(durationMS) * time.Millisecond
	return &entry, nil
}
