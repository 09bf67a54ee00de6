// Package config は巡回の実行設定を保持し、cobra フラグと任意の設定ファイルから読み込みます。
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"

	"github.com/shouni/go-vc-mapping/pkg/export"
	"github.com/shouni/go-vc-mapping/pkg/extract"
	"github.com/shouni/go-vc-mapping/pkg/httpclient"
	"github.com/shouni/go-vc-mapping/pkg/retry"
	"github.com/shouni/go-vc-mapping/pkg/scraper"
)

// 設定キー (フラグ名と設定ファイルのキーを兼ねる)
const (
	KeyOutput      = "output"
	KeyMaxRetries  = "max-retries"
	KeyInitialWait = "initial-wait"
	KeyPageDelay   = "page-delay"
	KeyTimeout     = "timeout"
	KeyBaseURL     = "base-url"
	KeyVerbose     = "verbose"
)

// Config は1回の巡回に必要な設定です。
type Config struct {
	Output      string        // 出力CSVのパス
	MaxAttempts int           // 1リクエストあたりの最大試行回数
	InitialWait time.Duration // 最初の再試行までの待機時間
	PageDelay   time.Duration // 一覧ページ間の待機時間
	Timeout     time.Duration // 1リクエストのタイムアウト
	BaseURL     string        // 対象サイトのオリジン
	Verbose     bool
}

// Default はデフォルトの設定を返します。
func Default() Config {
	return Config{
		Output:      export.DefaultFilename,
		MaxAttempts: retry.DefaultMaxAttempts,
		InitialWait: retry.InitialBackoffInterval,
		PageDelay:   scraper.DefaultPageDelay,
		Timeout:     httpclient.DefaultHTTPTimeout,
		BaseURL:     extract.DefaultBaseURL,
	}
}

// SetDefaults は viper にデフォルト値を登録します。
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyOutput, d.Output)
	v.SetDefault(KeyMaxRetries, d.MaxAttempts)
	v.SetDefault(KeyInitialWait, d.InitialWait)
	v.SetDefault(KeyPageDelay, d.PageDelay)
	v.SetDefault(KeyTimeout, d.Timeout)
	v.SetDefault(KeyBaseURL, d.BaseURL)
	v.SetDefault(KeyVerbose, d.Verbose)
}

// Load は viper から設定を読み込み、検証します。
// configFile が指定された場合はそのファイルも読み込みます (環境変数は参照しません)。
func Load(v *viper.Viper, configFile string) (Config, error) {
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("設定ファイル(%s)の読み込みに失敗しました: %w", configFile, err)
		}
	}

	cfg := Config{
		Output:      v.GetString(KeyOutput),
		MaxAttempts: v.GetInt(KeyMaxRetries),
		InitialWait: v.GetDuration(KeyInitialWait),
		PageDelay:   v.GetDuration(KeyPageDelay),
		Timeout:     v.GetDuration(KeyTimeout),
		BaseURL:     v.GetString(KeyBaseURL),
		Verbose:     v.GetBool(KeyVerbose),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate は設定値の妥当性を検証します。
func (c Config) Validate() error {
	var errs []error
	if c.Output == "" {
		errs = append(errs, errors.New("出力ファイルのパスが空です"))
	}
	if c.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("%s は1以上を指定してください: %d", KeyMaxRetries, c.MaxAttempts))
	}
	if c.InitialWait < 0 {
		errs = append(errs, fmt.Errorf("%s は0以上を指定してください: %s", KeyInitialWait, c.InitialWait))
	}
	if c.PageDelay < 0 {
		errs = append(errs, fmt.Errorf("%s は0以上を指定してください: %s", KeyPageDelay, c.PageDelay))
	}
	if u, err := url.Parse(c.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("無効な %s です: %q", KeyBaseURL, c.BaseURL))
	}
	return errors.Join(errs...)
}

// RetryConfig はHTTPクライアント用のリトライ設定を返します。
func (c Config) RetryConfig() retry.Config {
	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = uint64(c.MaxAttempts)
	cfg.InitialInterval = c.InitialWait
	return cfg
}

// Site は巡回対象のURL構成を返します。
func (c Config) Site() extract.Site {
	site := extract.DefaultSite()
	site.BaseURL = c.BaseURL
	return site
}
