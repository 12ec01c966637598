package database

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// StoredSchedule is one row of the schedules table.
type StoredSchedule struct {
	ChatID   int64
	Interval time.Duration
	Active   bool
}

// Schedules implements the scheduler's Store interface on top of the shared DB.
type Schedules struct{}

// SaveSchedule upserts the schedule row for a chat.
func (Schedules) SaveSchedule(chatID int64, interval time.Duration, active bool) error {
	query := `
	INSERT INTO schedules (chat_id, interval_seconds, active, updated_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(chat_id) DO UPDATE SET
		interval_seconds = excluded.interval_seconds,
		active = excluded.active,
		updated_at = CURRENT_TIMESTAMP;`

	_, err := DB.Exec(query, chatID, int64(interval/time.Second), active)
	if err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}

	log.Debugf("Schedule saved: ChatID: %d, Interval: %s, Active: %v", chatID, interval, active)
	return nil
}

// DeleteSchedule removes the schedule row for a chat.
func (Schedules) DeleteSchedule(chatID int64) error {
	query := `DELETE FROM schedules WHERE chat_id = ?;`
	_, err := DB.Exec(query, chatID)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return nil
}

// GetAllSchedules fetches every stored schedule, active or not.
func GetAllSchedules() ([]StoredSchedule, error) {
	query := `SELECT chat_id, interval_seconds, active FROM schedules;`

	rows, err := DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []StoredSchedule
	for rows.Next() {
		var s StoredSchedule
		var seconds int64
		if err := rows.Scan(&s.ChatID, &seconds, &s.Active); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		s.Interval = time.Duration(seconds) * time.Second
		schedules = append(schedules, s)
	}

	return schedules, nil
}
