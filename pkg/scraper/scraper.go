package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shouni/go-vc-mapping/pkg/export"
	"github.com/shouni/go-vc-mapping/pkg/types"
)

const (
	// DefaultPageDelay は一覧ページ間で待機する時間です。
	DefaultPageDelay = 10 * time.Second
)

// ErrNoPages はページ総数を取得できず、巡回を中止したことを示します。
var ErrNoPages = errors.New("取得するページがありません")

// Source はページ総数・一覧・詳細の抽出機能を表します。*extract.Extractor がこれを満たします。
type Source interface {
	TotalPages(ctx context.Context) int
	ExtractListing(ctx context.Context, page int) []types.ListingEntry
	ExtractDetails(ctx context.Context, detailURL string) types.FirmDetails
}

// SaveFunc は集約したレコードを出力先へ書き出す関数です。
type SaveFunc func(path string, records []types.FirmRecord) error

// SleepFunc はページ間の待機を行う関数です。
type SleepFunc func(ctx context.Context, d time.Duration) error

// Summary は1回の巡回結果の集計です。
type Summary struct {
	TotalPages   int
	Listed       int    // 一覧から得たエントリ数
	Records      int    // 出力した行数
	EmptyDetails int    // 詳細が空のまま出力した行数
	Output       string // 出力ファイルのパス
}

// Crawler はページ単位の巡回を逐次実行し、結果を1つのCSVにまとめます。
type Crawler struct {
	source    Source
	output    string
	pageDelay time.Duration
	save      SaveFunc
	sleep     SleepFunc
	logger    *zap.Logger
}

// Option は Crawler の設定を行うための関数型です。
type Option func(*Crawler)

// WithOutput は出力ファイルのパスを設定します。
func WithOutput(path string) Option {
	return func(c *Crawler) {
		if path != "" {
			c.output = path
		}
	}
}

// WithPageDelay はページ間の待機時間を設定します。
func WithPageDelay(d time.Duration) Option {
	return func(c *Crawler) {
		if d >= 0 {
			c.pageDelay = d
		}
	}
}

// WithSaveFunc は出力処理を差し替えます。
func WithSaveFunc(fn SaveFunc) Option {
	return func(c *Crawler) {
		if fn != nil {
			c.save = fn
		}
	}
}

// WithSleeper は待機処理を差し替えます。主にテスト用です。
func WithSleeper(fn SleepFunc) Option {
	return func(c *Crawler) {
		if fn != nil {
			c.sleep = fn
		}
	}
}

// WithLogger はロガーを設定します。
func WithLogger(logger *zap.Logger) Option {
	return func(c *Crawler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCrawler は Crawler を初期化します。
func NewCrawler(source Source, opts ...Option) *Crawler {
	c := &Crawler{
		source:    source,
		output:    export.DefaultFilename,
		pageDelay: DefaultPageDelay,
		save:      export.SaveCSV,
		sleep:     sleepContext,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run は全ページを巡回し、集約したレコードを出力ファイルへ書き出します。
// ページ総数が 0 の場合は ErrNoPages を返し、ファイルは作成しません。
func (c *Crawler) Run(ctx context.Context) (Summary, error) {
	summary := Summary{Output: c.output}

	// 1. ページ総数の取得
	totalPages := c.source.TotalPages(ctx)
	summary.TotalPages = totalPages
	if totalPages == 0 {
		c.logger.Warn("取得するページがありません。終了します。")
		return summary, ErrNoPages
	}

	// 2. ページ単位の巡回
	var records []types.FirmRecord
	for page := 1; page <= totalPages; page++ {
		c.logger.Info("ページを取得しています", zap.Int("page", page), zap.Int("total_pages", totalPages))

		entries := c.source.ExtractListing(ctx, page)
		summary.Listed += len(entries)

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return summary, fmt.Errorf("巡回が中断されました: %w", err)
			}
			c.logger.Info("詳細を取得しています", zap.String("name", entry.Name))
			details := c.source.ExtractDetails(ctx, entry.DetailURL)
			if details.IsEmpty() {
				summary.EmptyDetails++
			}
			records = append(records, types.NewFirmRecord(entry, details))
		}

		if page == totalPages {
			break
		}
		c.logger.Info("次のページまで待機します", zap.Duration("delay", c.pageDelay))
		if err := c.sleep(ctx, c.pageDelay); err != nil {
			return summary, fmt.Errorf("ページ間の待機中に中断されました: %w", err)
		}
	}

	// 3. 出力
	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("巡回が中断されました: %w", err)
	}
	if err := c.save(c.output, records); err != nil {
		return summary, fmt.Errorf("結果の保存に失敗しました: %w", err)
	}
	summary.Records = len(records)
	c.logger.Info("データを書き出しました", zap.String("output", c.output), zap.Int("records", summary.Records))

	return summary, nil
}

// sleepContext は d だけ待機します。コンテキストが終了した場合は即座に戻ります。
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
