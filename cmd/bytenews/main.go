package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/Philipkilonzoke/Bytebyphilip/internal/config"
	"github.com/Philipkilonzoke/Bytebyphilip/internal/database"
	"github.com/Philipkilonzoke/Bytebyphilip/internal/logger"
	"github.com/Philipkilonzoke/Bytebyphilip/internal/rss"
)

var errStaleCache = errors.New("缓存不存在或已过期")

func main() {
	configPath := flag.String("config", "configs/bytenews.yaml", "配置文件路径")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Infof("[main] 收到信号 %v，正在取消...", sig)
		cancel()
	}()

	a, err := newApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}

	err = run(ctx, a, args)
	a.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// loadConfig 读取配置文件，文件不存在时使用默认配置。
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func run(ctx context.Context, a *app, args []string) error {
	switch args[0] {
	case "refresh":
		return cmdRefresh(ctx, a)
	case "cached":
		return cmdCached(ctx, a)
	case "news":
		return cmdNews(ctx, a, args[1:])
	case "feeds":
		return cmdFeeds(a)
	case "fallback":
		if len(args) < 2 {
			return errors.New("用法: bytenews fallback <分类>")
		}
		return cmdFallback(args[1])
	case "articles":
		return cmdArticles(ctx, a)
	case "article-import":
		if len(args) < 2 {
			return errors.New("用法: bytenews article-import <文件.json>")
		}
		return cmdArticleImport(ctx, a, args[1])
	default:
		printUsage()
		return fmt.Errorf("未知命令: %s", args[0])
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Byte by Philip 新闻抓取工具")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "用法: bytenews [-config <path>] <command> [args]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "命令:")
	fmt.Fprintln(os.Stderr, "  refresh                         抓取所有订阅源并更新缓存")
	fmt.Fprintln(os.Stderr, "  cached                          输出有效期内的缓存（无缓存时退出码为 1）")
	fmt.Fprintln(os.Stderr, "  news [-filter f] [-limit n]     站内文章与 RSS 合并后的列表")
	fmt.Fprintln(os.Stderr, "  feeds                           列出订阅源")
	fmt.Fprintln(os.Stderr, "  fallback <分类>                  输出分类备用数据")
	fmt.Fprintln(os.Stderr, "  articles                        列出站内文章")
	fmt.Fprintln(os.Stderr, "  article-import <文件.json>       从 JSON 数组导入文章")
}

func cmdRefresh(ctx context.Context, a *app) error {
	items := a.cache.Refresh(ctx)
	return printJSON(os.Stdout, items)
}

func cmdCached(ctx context.Context, a *app) error {
	items, ok := a.cache.Cached(ctx)
	if !ok {
		return errStaleCache
	}
	if fetchedAt, ok := a.cache.FetchedAt(ctx); ok {
		fmt.Fprintf(os.Stderr, "缓存时间: %s (%s 前)\n",
			fetchedAt.Format(time.DateTime), time.Since(fetchedAt).Round(time.Second))
	}
	return printJSON(os.Stdout, items)
}

func cmdNews(ctx context.Context, a *app, args []string) error {
	fset := flag.NewFlagSet("news", flag.ContinueOnError)
	filter := fset.String("filter", "all", "all、custom 或分类名称")
	limit := fset.Int("limit", 0, "最多返回条数，0 表示不限制")
	if err := fset.Parse(args); err != nil {
		return err
	}
	return printJSON(os.Stdout, a.news.Latest(ctx, *filter, *limit))
}

func cmdFeeds(a *app) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "分类\t来源\tURL")
	for _, src := range a.aggregator.Registry() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", src.Category, src.Source, src.URL)
	}
	return w.Flush()
}

func cmdFallback(name string) error {
	category, ok := rss.ParseCategory(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "未知分类 %q，使用 %s\n", name, rss.CategoryTech)
		category = rss.CategoryTech
	}
	return printJSON(os.Stdout, rss.FallbackNews(category, time.Now()))
}

func cmdArticles(ctx context.Context, a *app) error {
	articles, err := a.articles.List(ctx)
	if err != nil {
		return fmt.Errorf("读取文章失败: %w", err)
	}
	if len(articles) == 0 {
		fmt.Println("当前没有站内文章。")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "发布时间\t分类\tSlug\t标题")
	for _, art := range articles {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", art.PublishedAt, art.Category, art.Slug, art.Title)
	}
	return w.Flush()
}

func cmdArticleImport(ctx context.Context, a *app, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取文件失败: %w", err)
	}
	var articles []database.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return fmt.Errorf("解析文章 JSON 失败: %w", err)
	}

	imported := 0
	for _, art := range articles {
		if _, err := a.articles.Add(ctx, art); err != nil {
			if errors.Is(err, database.ErrArticleExists) {
				logger.Warnf("[main] 跳过已存在的文章: %s", art.Slug)
				continue
			}
			return fmt.Errorf("导入 %q 失败: %w", art.Slug, err)
		}
		imported++
	}
	fmt.Printf("已导入 %d/%d 篇文章\n", imported, len(articles))
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
