package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shouni/go-vc-mapping/internal/pipeline"
)

var listingPage int

// pagesCmd はページ総数だけを取得して表示します。
var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "一覧のページ総数を表示します",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		extractor, err := pipeline.NewExtractor(appConfig, appLogger)
		if err != nil {
			return err
		}

		total := extractor.TotalPages(cmd.Context())
		fmt.Fprintf(cmd.OutOrStdout(), "ページ総数: %d\n", total)
		return nil
	},
}

// listingCmd は1ページ分の一覧を取得し、ファーム名とURLを一覧表示します。
var listingCmd = &cobra.Command{
	Use:   "listing",
	Short: "指定した一覧ページのファーム名と詳細URLを表示します",
	Long:  `指定したページ番号 (1始まり) の一覧ページを取得し、カードごとのファーム名と詳細ページURLを表示します。`,
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		if listingPage < 1 {
			return fmt.Errorf("ページ番号は1以上を指定してください: %d", listingPage)
		}

		// 1. 依存性の初期化
		extractor, err := pipeline.NewExtractor(appConfig, appLogger)
		if err != nil {
			return err
		}

		// 2. メインロジックの実行
		entries := extractor.ExtractListing(cmd.Context(), listingPage)

		// 3. 結果の出力
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "--- 一覧ページ %d ---\n", listingPage)
		fmt.Fprintf(out, "URL: %s\n", extractor.Site().PageURL(listingPage))
		fmt.Fprintf(out, "件数: %d\n", len(entries))
		fmt.Fprintln(out, "-----------------------")

		for i, entry := range entries {
			fmt.Fprintf(out, "[%d] %s\n", i+1, entry.Name)
			fmt.Fprintf(out, "    URL: %s\n", entry.DetailURL)
		}
		return nil
	},
}

func init() {
	listingCmd.Flags().IntVarP(&listingPage, "page", "p", 1, "一覧のページ番号 (1始まり)")
}
