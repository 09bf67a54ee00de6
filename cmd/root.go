package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/shouni/go-vc-mapping/internal/config"
	"github.com/shouni/go-vc-mapping/internal/logger"
)

// --- グローバル定数 ---

const (
	appName = "vc-mapping"
)

// --- グローバル変数 ---

var (
	appViper  = viper.New()  // フラグと設定ファイルの値を束ねる
	appConfig config.Config  // PersistentPreRunE で読み込んだ設定
	appLogger = zap.NewNop() // PersistentPreRunE で差し替える
)

// rootCmd は引数なしで全ページの巡回を実行します。
// --verbose と --config は clibase が登録し、clibase.Flags に格納されます。
var rootCmd = clibase.NewRootCmd(appName, addAppPersistentFlags, initAppPreRunE)

// --- 初期化とロジック (clibaseへのコールバックとして利用) ---

// addAppPersistentFlags は、アプリケーション固有の永続フラグをルートコマンドに追加し、viper に束ねます。
func addAppPersistentFlags(cmd *cobra.Command) {
	d := config.Default()
	flags := cmd.PersistentFlags()

	flags.StringP(config.KeyOutput, "o", d.Output, "出力CSVファイルのパス (既存ファイルは上書き)")
	flags.Int(config.KeyMaxRetries, d.MaxAttempts, "1リクエストあたりの最大試行回数")
	flags.Duration(config.KeyInitialWait, d.InitialWait, "最初の再試行までの待機時間 (以降は倍増)")
	flags.Duration(config.KeyPageDelay, d.PageDelay, "一覧ページ間の待機時間")
	flags.Duration(config.KeyTimeout, d.Timeout, "HTTPリクエストのタイムアウト")
	flags.String(config.KeyBaseURL, d.BaseURL, "対象サイトのオリジン")

	for _, key := range []string{
		config.KeyOutput,
		config.KeyMaxRetries,
		config.KeyInitialWait,
		config.KeyPageDelay,
		config.KeyTimeout,
		config.KeyBaseURL,
	} {
		_ = appViper.BindPFlag(key, flags.Lookup(key))
	}
}

// initAppPreRunE は、clibase共通処理の後に実行される、アプリケーション固有のPersistentPreRunEです。
// NOTE: clibaseの PersistentPreRunE チェーンにより、clibase.Flags はこの関数実行前に設定済み
func initAppPreRunE(cmd *cobra.Command, args []string) error {
	// --verbose 指定時のみ上書きし、設定ファイル側の verbose も有効にしておく
	if clibase.Flags.Verbose {
		appViper.Set(config.KeyVerbose, true)
	}

	cfg, err := config.Load(appViper, clibase.Flags.ConfigFile)
	if err != nil {
		return fmt.Errorf("設定の読み込みエラー: %w", err)
	}

	l, err := logger.New(cfg.Verbose)
	if err != nil {
		return err
	}

	appConfig = cfg
	appLogger = l

	appLogger.Debug("設定を読み込みました",
		zap.String("config_file", clibase.Flags.ConfigFile),
		zap.String("output", cfg.Output),
		zap.Int("max_attempts", cfg.MaxAttempts),
		zap.Duration("initial_wait", cfg.InitialWait),
		zap.Duration("page_delay", cfg.PageDelay),
		zap.Duration("timeout", cfg.Timeout),
		zap.String("base_url", cfg.BaseURL),
	)
	return nil
}

func init() {
	// clibase の既定はヘルプ表示なので、引数なしの実行を巡回に差し替える
	rootCmd.Short = "VCディレクトリを巡回し、ファームの詳細をCSVに書き出します"
	rootCmd.Long = `vc-mapping.gilion.com の一覧ページを順に巡回し、各ファームの詳細ページから
設立年・投資件数・所在地などを抽出して、1つのCSVファイルに書き出します。`
	rootCmd.Args = cobra.NoArgs
	rootCmd.SilenceUsage = true
	rootCmd.RunE = runCrawl
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = appLogger.Sync()
	}

	rootCmd.AddCommand(pagesCmd, listingCmd, detailCmd)
}

// --- エントリポイント ---

// Execute は、rootCmd を実行するメイン関数です。SIGINT/SIGTERM で巡回を中断します。
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
