package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shouni/go-vc-mapping/internal/pipeline"
	"github.com/shouni/go-vc-mapping/pkg/scraper"
)

// runCrawlPipeline は、全ページの巡回とCSV出力を実行するメインロジックです。
func runCrawlPipeline(ctx context.Context, crawler *scraper.Crawler) (scraper.Summary, error) {
	summary, err := crawler.Run(ctx)
	if errors.Is(err, scraper.ErrNoPages) {
		// ページ総数が取れない場合は出力なしで正常終了とする
		return summary, nil
	}
	if err != nil {
		return summary, fmt.Errorf("巡回パイプラインの実行エラー: %w", err)
	}
	return summary, nil
}

// printSummary は巡回結果の集計を色付きで表示します。
func printSummary(w io.Writer, summary scraper.Summary) {
	if summary.TotalPages == 0 {
		color.New(color.FgYellow).Fprintln(w, "⚠ 取得するページがなかったため、ファイルは作成されませんでした")
		return
	}

	fmt.Fprintln(w, "--- 巡回結果 ---")
	fmt.Fprintf(w, "ページ数: %d\n", summary.TotalPages)
	fmt.Fprintf(w, "一覧から取得したファーム: %d 件\n", summary.Listed)
	if summary.EmptyDetails > 0 {
		color.New(color.FgYellow).Fprintf(w, "詳細を取得できなかったファーム: %d 件\n", summary.EmptyDetails)
	}
	color.New(color.FgGreen).Fprintf(w, "✅ %d 行を %s に書き出しました\n", summary.Records, summary.Output)
}

// runCrawl はルートコマンドの RunE です。
func runCrawl(cmd *cobra.Command, args []string) error {
	crawler, err := pipeline.NewCrawler(appConfig, appLogger)
	if err != nil {
		return err
	}

	appLogger.Info("巡回を開始します", zap.String("base_url", appConfig.BaseURL), zap.String("output", appConfig.Output))

	summary, err := runCrawlPipeline(cmd.Context(), crawler)
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), summary)
	return nil
}
