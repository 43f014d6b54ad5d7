package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// GetConfigValue 读取配置项，不存在时 ok 为 false
func (s *Store) GetConfigValue(key string) (value string, ok bool, err error) {
	err = s.db.QueryRow(`SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("query config %s failed: %w", key, err)
	}
	return value, true, nil
}

// SetConfigValue 写入配置项（存在即覆盖）
func (s *Store) SetConfigValue(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("set config %s failed: %w", key, err)
	}
	return nil
}
