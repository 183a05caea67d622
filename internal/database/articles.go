package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrArticleExists 表示 slug 已被其他文章占用。
var ErrArticleExists = errors.New("文章 slug 已存在")

// Article 编辑发布的文章。
type Article struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Excerpt     string `json:"excerpt"`
	Body        string `json:"body"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	PublishedAt string `json:"publishedAt"`
}

// ArticleStore 文章表的读写。
type ArticleStore struct {
	db *DB
}

// NewArticleStore 创建文章存储。调用前需先执行 Migrate。
func NewArticleStore(db *DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// Add 新增文章。ID 为空时自动生成，PublishedAt 为空时使用当前时间。
func (s *ArticleStore) Add(ctx context.Context, a Article) (Article, error) {
	a.Title = strings.TrimSpace(a.Title)
	a.Slug = strings.TrimSpace(a.Slug)
	if a.Title == "" || a.Slug == "" {
		return Article{}, fmt.Errorf("文章标题和 slug 不能为空")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.PublishedAt == "" {
		a.PublishedAt = time.Now().UTC().Format(time.RFC3339)
	}

	if _, err := s.GetBySlug(ctx, a.Slug); err == nil {
		return Article{}, fmt.Errorf("%w: %s", ErrArticleExists, a.Slug)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return Article{}, err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO articles (id, title, slug, excerpt, body, author, category, image, published_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Slug, a.Excerpt, a.Body, a.Author, a.Category, a.Image, a.PublishedAt)
	if err != nil {
		return Article{}, fmt.Errorf("保存文章失败: %w", err)
	}
	return a, nil
}

// List 按发布时间倒序列出所有文章。
func (s *ArticleStore) List(ctx context.Context) ([]Article, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, slug, excerpt, body, author, category, image, published_at
		 FROM articles ORDER BY published_at DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("查询文章失败: %w", err)
	}
	defer rows.Close()

	var result []Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Slug, &a.Excerpt, &a.Body,
			&a.Author, &a.Category, &a.Image, &a.PublishedAt); err != nil {
			return nil, fmt.Errorf("读取文章失败: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// GetBySlug 按 slug 查找文章，不存在时返回 sql.ErrNoRows。
func (s *ArticleStore) GetBySlug(ctx context.Context, slug string) (Article, error) {
	var a Article
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, slug, excerpt, body, author, category, image, published_at
		 FROM articles WHERE slug = ?`, slug).
		Scan(&a.ID, &a.Title, &a.Slug, &a.Excerpt, &a.Body,
			&a.Author, &a.Category, &a.Image, &a.PublishedAt)
	if err != nil {
		return Article{}, err
	}
	return a, nil
}
