package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shouni/go-vc-mapping/internal/pipeline"
	"github.com/shouni/go-vc-mapping/pkg/export"
	"github.com/shouni/go-vc-mapping/pkg/types"
)

var detailURL string

// detailCmd は1件の詳細ページだけを抽出して表示します。セレクターの確認用です。
var detailCmd = &cobra.Command{
	Use:   "detail",
	Short: "指定した詳細ページ1件を抽出し、項目ごとに表示します",
	Long:  `指定した詳細ページ1件を取得・解析し、CSVと同じ項目名で結果を表示します。ファイルは作成しません。`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {

		// 1. URLの正規化とバリデーション
		processedURL, err := resolveDetailURL(detailURL, appConfig.Site())
		if err != nil {
			return fmt.Errorf("URLの処理エラー: %w", err)
		}

		// 2. 依存性の初期化
		extractor, err := pipeline.NewExtractor(appConfig, appLogger)
		if err != nil {
			return err
		}

		// 3. メインロジックの実行
		details := extractor.ExtractDetails(cmd.Context(), processedURL)

		// 4. 結果の出力
		out := cmd.OutOrStdout()
		if details.IsEmpty() {
			fmt.Fprintf(out, "詳細を抽出できませんでした: %s\n", processedURL)
			return nil
		}

		row := export.Row(types.FirmRecord{URL: processedURL, FirmDetails: details})
		fmt.Fprintln(out, "--- 抽出結果 ---")
		for i, name := range export.Header {
			if i == 0 {
				continue // ファーム名は一覧ページにのみ存在する
			}
			fmt.Fprintf(out, "%s: %s\n", name, row[i])
		}
		return nil
	},
}

func init() {
	detailCmd.Flags().StringVarP(&detailURL, "url", "u", "", "抽出対象の詳細ページURL (/vc-firms/... のサイト内パスも可)")
	_ = detailCmd.MarkFlagRequired("url")
}
