package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"github.com/shouni/go-vc-mapping/pkg/retry"
)

const (
	// HTTPクライアント関連の定数
	DefaultHTTPTimeout = 30 * time.Second
	MaxBodySize        = int64(10 * 1024 * 1024) // 10MB: レスポンスボディの最大読み込みサイズ

	// 対象サイトのボット判定を通過するためのUser-Agent。文字列は変更しないこと
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// DefaultEncoding はレスポンスボディに適用する文字コードです。
	DefaultEncoding = "utf-8"

	maxErrorBodyPreview = 256
)

// Doer は、標準の *http.Client.Do() と互換性のあるHTTPクライアントのインターフェースです。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPStatusError は 2xx 以外のステータスコードを示すエラー型です。
// 4xx と 5xx は区別せず、どちらもリトライ対象として扱います。
type HTTPStatusError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPStatusError) Error() string {
	if len(e.Body) > 0 {
		body := strings.TrimSpace(string(e.Body))
		if len(body) > maxErrorBodyPreview {
			body = body[:maxErrorBodyPreview] + "..."
		}
		return fmt.Sprintf("HTTPステータスコードエラー: %d, ボディ: %s", e.StatusCode, body)
	}
	return fmt.Sprintf("HTTPステータスコードエラー: %d, ボディなし", e.StatusCode)
}

// Client はHTTPリクエストと指数バックオフを用いたリトライロジックを管理します。
type Client struct {
	httpClient   Doer
	retryConfig  retry.Config
	retryOptions []retry.Option
	userAgent    string
	encoding     string
	logger       *zap.Logger
}

// ClientOption はClientの設定を行うための関数型です。
type ClientOption func(*Client)

// WithHTTPClient はカスタムのDoerを設定します。
func WithHTTPClient(doer Doer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithRetryConfig はリトライ設定を差し替えます。
func WithRetryConfig(cfg retry.Config) ClientOption {
	return func(c *Client) {
		c.retryConfig = cfg
	}
}

// WithRetryOptions は retry.Do に渡す追加オプションを設定します (タイマーの差し替えなど)。
func WithRetryOptions(opts ...retry.Option) ClientOption {
	return func(c *Client) {
		c.retryOptions = append(c.retryOptions, opts...)
	}
}

// WithUserAgent はUser-Agentヘッダーを上書きします。
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithEncoding はレスポンスボディのデコードに使う文字コードのラベルを設定します。
func WithEncoding(label string) ClientOption {
	return func(c *Client) {
		if label != "" {
			c.encoding = label
		}
	}
}

// WithLogger はリトライ経過を出力するロガーを設定します。
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New は、新しいClientを生成します。
func New(timeout time.Duration, options ...ClientOption) *Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retryConfig: retry.DefaultConfig(),
		userAgent:   UserAgent,
		encoding:    DefaultEncoding,
		logger:      zap.NewNop(),
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// addCommonHeaders は共通のHTTPヘッダーを設定します。
func (c *Client) addCommonHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
}

// FetchDocument はURLからHTMLを取得し、goquery.Documentを返します。
// リトライを使い切った場合は retry.ErrRetriesExhausted をラップしたエラーを返します。
func (c *Client) FetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	var doc *goquery.Document

	op := func() error {
		var fetchErr error
		doc, fetchErr = c.doFetch(ctx, url)
		return fetchErr
	}

	notify := retry.WithNotify(func(attempt uint64, err error, wait time.Duration) {
		c.logger.Warn("リクエストに失敗しました。待機後に再試行します",
			zap.String("url", url),
			zap.Uint64("attempt", attempt),
			zap.Uint64("max_attempts", c.retryConfig.MaxAttempts),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})

	opts := append([]retry.Option{notify}, c.retryOptions...)
	err := retry.Do(
		ctx,
		c.retryConfig,
		fmt.Sprintf("URL(%s)のフェッチ", url),
		op,
		c.isHTTPRetryableError,
		opts...,
	)
	if err != nil {
		c.logger.Error("URLの取得を断念しました",
			zap.String("url", url),
			zap.Uint64("max_attempts", c.retryConfig.MaxAttempts),
			zap.Error(err),
		)
		return nil, err
	}
	return doc, nil
}

// doFetch は実際の一度のHTTP GETリクエストとHTML解析を実行します。
func (c *Client) doFetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("GETリクエスト作成に失敗しました: %w", err)
	}
	c.addCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストに失敗しました (ネットワーク/接続エラー): %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponseStatus(resp); err != nil {
		return nil, err
	}

	body, err := charset.NewReaderLabel(c.encoding, io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("文字コード(%s)の適用に失敗しました: %w", c.encoding, err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("HTML解析に失敗しました: %w", err)
	}

	return doc, nil
}

// checkResponseStatus は 2xx 以外のステータスを HTTPStatusError に変換します。
// 呼び出し元が resp.Body.Close() を実行する必要があります。
func checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	bodyBytes, readErr := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if readErr != nil {
		return &HTTPStatusError{StatusCode: resp.StatusCode}
	}
	return &HTTPStatusError{StatusCode: resp.StatusCode, Body: bodyBytes}
}

// IsNoResponse はエラーがリトライを使い切った「応答なし」状態であるかを判断します。
func IsNoResponse(err error) bool {
	return errors.Is(err, retry.ErrRetriesExhausted)
}

// isHTTPRetryableError はエラーがHTTPリトライ対象かどうかを判定します。
// ネットワークエラーと 2xx 以外のステータスはすべてリトライ対象です。
func (c *Client) isHTTPRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// 呼び出し元のキャンセルはリトライしない
	if errors.Is(err, context.Canceled) {
		return false
	}

	return true
}
