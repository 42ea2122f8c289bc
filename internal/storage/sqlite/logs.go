package sqlite

import (
	"fmt"
	"time"

	"github.com/mandalnilabja/chatrelay/internal/storage/models"
)

// LogRequest stores a request log entry
func (s *Storage) LogRequest(log *models.RequestLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}
	if log == nil || log.RequestID == "" {
		return ErrInvalidInput
	}

	if log.ID == "" {
		log.ID = generateID("log")
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO request_logs (id, request_id, model, message_count,
			prompt_tokens, completion_tokens, total_tokens, status_code,
			finish_reason, error_message, bytes_relayed, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, log.ID, log.RequestID, log.Model, log.MessageCount,
		log.PromptTokens, log.CompletionTokens, log.TotalTokens, log.StatusCode,
		nullString(log.FinishReason), nullString(log.ErrorMessage), log.BytesRelayed,
		log.DurationMs, log.CreatedAt)

	return err
}

// GetRequestLogs retrieves request logs with filtering, newest first
func (s *Storage) GetRequestLogs(filter models.LogFilter) ([]*models.RequestLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	query := `SELECT id, request_id, model, message_count,
		prompt_tokens, completion_tokens, total_tokens, status_code,
		COALESCE(finish_reason, ''), COALESCE(error_message, ''),
		COALESCE(bytes_relayed, 0), duration_ms, created_at
		FROM request_logs WHERE 1=1`

	var args []interface{}

	if filter.Model != "" {
		query += " AND model = ?"
		args = append(args, filter.Model)
	}
	if filter.StatusCode != nil {
		query += " AND status_code = ?"
		args = append(args, *filter.StatusCode)
	}
	if filter.StartDate != nil {
		query += " AND created_at >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += " AND created_at <= ?"
		args = append(args, *filter.EndDate)
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.RequestLog
	for rows.Next() {
		var log models.RequestLog
		err := rows.Scan(&log.ID, &log.RequestID, &log.Model, &log.MessageCount,
			&log.PromptTokens, &log.CompletionTokens, &log.TotalTokens, &log.StatusCode,
			&log.FinishReason, &log.ErrorMessage, &log.BytesRelayed, &log.DurationMs,
			&log.CreatedAt)
		if err != nil {
			return nil, err
		}
		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

// DeleteRequestLogs removes logs created before olderThan (YYYY-MM-DD)
func (s *Storage) DeleteRequestLogs(olderThan string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrStorageClosed
	}
	if _, err := time.Parse(models.DateFormat, olderThan); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	result, err := s.db.Exec("DELETE FROM request_logs WHERE DATE(created_at) < ?", olderThan)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
