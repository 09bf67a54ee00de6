package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shouni/go-vc-mapping/internal/config"
	"github.com/shouni/go-vc-mapping/pkg/extract"
	"github.com/shouni/go-vc-mapping/pkg/httpclient"
	"github.com/shouni/go-vc-mapping/pkg/scraper"
)

// NewExtractor は設定から HTTP クライアントと Extractor を組み立てます。
func NewExtractor(cfg config.Config, logger *zap.Logger, clientOpts ...httpclient.ClientOption) (*extract.Extractor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// 1. 外部の Fetcher 実装を初期化 (依存性の初期化)
	opts := append([]httpclient.ClientOption{
		httpclient.WithRetryConfig(cfg.RetryConfig()),
		httpclient.WithLogger(logger),
	}, clientOpts...)
	client := httpclient.New(cfg.Timeout, opts...)

	// 2. Extractor を初期化 (DI)
	extractor, err := extract.NewExtractor(client,
		extract.WithSite(cfg.Site()),
		extract.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("Extractorの初期化エラー: %w", err)
	}
	return extractor, nil
}

// NewCrawler は設定から巡回処理一式 (Client → Extractor → Crawler) を組み立てます。
func NewCrawler(cfg config.Config, logger *zap.Logger, clientOpts ...httpclient.ClientOption) (*scraper.Crawler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	extractor, err := NewExtractor(cfg, logger, clientOpts...)
	if err != nil {
		return nil, err
	}

	return scraper.NewCrawler(extractor,
		scraper.WithOutput(cfg.Output),
		scraper.WithPageDelay(cfg.PageDelay),
		scraper.WithLogger(logger),
	), nil
}
