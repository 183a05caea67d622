package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// KVStore 基于 kv_store 表的键值存储，值整体覆盖写入。
type KVStore struct {
	db *DB
}

// NewKVStore 创建键值存储。调用前需先执行 Migrate。
func NewKVStore(db *DB) *KVStore {
	return &KVStore{db: db}
}

// Get 读取键对应的值，键不存在时 ok 为 false。
func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("读取 %s 失败: %w", key, err)
	}
	return value, true, nil
}

// Set 写入或覆盖键对应的值。
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("写入 %s 失败: %w", key, err)
	}
	return nil
}
