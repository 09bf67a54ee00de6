package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// リトライ関連の定数
	DefaultMaxAttempts = 5 // 最大試行回数 (初回を含む)

	// バックオフのデフォルト設定
	InitialBackoffInterval = 60 * time.Second
	BackoffMultiplier      = 2.0

	// MaxInterval 未指定時の上限。実質的に上限なしとして扱う
	unboundedInterval = time.Duration(1 << 62)
)

// ErrRetriesExhausted は最大試行回数に到達しても操作が成功しなかったことを示します。
var ErrRetriesExhausted = errors.New("最大試行回数に到達しました")

// Operation はリトライ可能な処理を表す関数です。成功時は nil を返します。
type Operation func() error

// ShouldRetryFunc はエラーを受け取り、そのエラーがリトライ可能かどうかを判定する関数です。
type ShouldRetryFunc func(error) bool

// NotifyFunc は待機の直前に、失敗した試行番号・原因・待機時間を受け取ります。
type NotifyFunc func(attempt uint64, err error, wait time.Duration)

// Config はリトライ動作を設定するための構造体です。
type Config struct {
	MaxAttempts     uint64
	InitialInterval time.Duration
	Multiplier      float64
	MaxInterval     time.Duration
}

// DefaultConfig は推奨されるデフォルト設定を返します。
// 待機時間は 60, 120, 240, 480 秒と倍増します。
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     DefaultMaxAttempts,
		InitialInterval: InitialBackoffInterval,
		Multiplier:      BackoffMultiplier,
	}
}

// Option は Do の挙動を調整します。
type Option func(*options)

type options struct {
	notify NotifyFunc
	timer  backoff.Timer
}

// WithNotify は各待機の直前に呼ばれる関数を設定します。
func WithNotify(fn NotifyFunc) Option {
	return func(o *options) {
		o.notify = fn
	}
}

// WithTimer は待機に使うタイマーを差し替えます。主にテスト用です。
func WithTimer(t backoff.Timer) Option {
	return func(o *options) {
		o.timer = t
	}
}

// AlwaysRetry はすべてのエラーをリトライ対象とみなす ShouldRetryFunc です。
func AlwaysRetry(error) bool { return true }

// newBackOffPolicy は Config からジッターなしの指数バックオフを組み立てます。
// 試行回数が MaxAttempts の場合、待機は MaxAttempts-1 回です。
func newBackOffPolicy(ctx context.Context, cfg Config) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialInterval
	b.RandomizationFactor = 0
	b.Multiplier = cfg.Multiplier
	if b.Multiplier <= 0 {
		b.Multiplier = BackoffMultiplier
	}
	b.MaxInterval = cfg.MaxInterval
	if b.MaxInterval <= 0 {
		b.MaxInterval = unboundedInterval
	}
	b.MaxElapsedTime = 0

	var retries uint64
	if cfg.MaxAttempts > 1 {
		retries = cfg.MaxAttempts - 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)
}

// Do は指数バックオフとカスタムエラー判定を使用して操作をリトライします。
func Do(ctx context.Context, cfg Config, operationName string, op Operation, shouldRetryFn ShouldRetryFunc, opts ...Option) error {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if shouldRetryFn == nil {
		shouldRetryFn = AlwaysRetry
	}

	bo := newBackOffPolicy(ctx, cfg)

	var (
		attempts uint64
		lastErr  error
		fatal    bool
	)

	// リトライ処理内で実行される実際の操作
	retryableOp := func() error {
		attempts++
		err := op()
		if err == nil {
			return nil
		}

		lastErr = err
		if shouldRetryFn(err) {
			return err
		}

		fatal = true
		return backoff.Permanent(err)
	}

	notify := func(err error, wait time.Duration) {
		if o.notify != nil {
			o.notify(attempts, err, wait)
		}
	}

	err := backoff.RetryNotifyWithTimer(retryableOp, bo, notify, o.timer)
	if err == nil {
		return nil
	}

	// コンテキストキャンセル/タイムアウトのエラー処理
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%sに失敗しました: コンテキストタイムアウト/キャンセル: %w", operationName, ctxErr)
	}

	if fatal {
		return fmt.Errorf("%sに失敗しました: 致命的なエラーのためリトライを中止: %w", operationName, lastErr)
	}

	return fmt.Errorf("%sに失敗しました: %w (%d回)。最終エラー: %w", operationName, ErrRetriesExhausted, attempts, lastErr)
}
