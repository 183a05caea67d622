package rss

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Philipkilonzoke/Bytebyphilip/internal/logger"
)

// FileStore 基于 JSON 文件的键值存储，不使用数据库时作为缓存后端。
type FileStore struct {
	mu       sync.RWMutex
	filePath string
	values   map[string]string
}

// NewFileStore 创建文件存储，数据保存在 dataDir/rss_cache.json。
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}
	s := &FileStore{
		filePath: filepath.Join(dataDir, "rss_cache.json"),
		values:   make(map[string]string),
	}
	if err := s.load(); err != nil {
		logger.Warnf("[cache] 加载缓存文件失败（将使用空缓存）: %v", err)
		s.values = make(map[string]string)
	}
	return s, nil
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, &s.values)
}

// save 先写临时文件再重命名，读到的文件要么是旧值要么是新值。
func (s *FileStore) save() error {
	data, err := json.Marshal(s.values)
	if err != nil {
		return err
	}
	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.filePath)
}

// Get 读取键对应的值。
func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set 写入键值并持久化。
func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	if err := s.save(); err != nil {
		return fmt.Errorf("保存缓存文件失败: %w", err)
	}
	return nil
}
