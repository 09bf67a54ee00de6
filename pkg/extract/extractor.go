package extract

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shouni/go-vc-mapping/pkg/types"
)

// Extractor は、Fetcher を使って一覧・詳細ページからの抽出プロセスを管理します。
// 抽出に失敗した場合はエラーを返さず、ログを残して空の値を返します。
type Extractor struct {
	fetcher Fetcher
	site    Site
	logger  *zap.Logger
}

// Option は Extractor の設定を行うための関数型です。
type Option func(*Extractor)

// WithSite は巡回対象のURL構成を設定します。
func WithSite(site Site) Option {
	return func(e *Extractor) {
		e.site = site
	}
}

// WithLogger はロガーを設定します。
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor は、新しいExtractorのインスタンスを生成します。
func NewExtractor(fetcher Fetcher, opts ...Option) (*Extractor, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("extract.NewExtractor: Fetcher cannot be nil")
	}
	e := &Extractor{
		fetcher: fetcher,
		site:    DefaultSite(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Site は設定済みのURL構成を返します。
func (e *Extractor) Site() Site {
	return e.site
}

// TotalPages は一覧のルートページからページ総数を取得します。
// 取得・解析に失敗した場合は 0 を返します。
func (e *Extractor) TotalPages(ctx context.Context) int {
	rootURL := e.site.ExploreURL()

	doc, err := e.fetcher.FetchDocument(ctx, rootURL)
	if err != nil {
		e.logger.Error("ページ総数の取得に失敗しました", zap.String("url", rootURL), zap.Error(err))
		return 0
	}

	total, err := parsePageCount(doc)
	if err != nil {
		e.logger.Error("ページ総数の解析中にエラーが発生しました", zap.String("url", rootURL), zap.Error(err))
		return 0
	}
	return total
}

// ExtractListing は指定ページのカードをドキュメント順に抽出します。
// 取得に失敗したページは空のスライスになります。
func (e *Extractor) ExtractListing(ctx context.Context, page int) []types.ListingEntry {
	pageURL := e.site.PageURL(page)

	doc, err := e.fetcher.FetchDocument(ctx, pageURL)
	if err != nil {
		e.logger.Error("一覧ページの取得に失敗しました", zap.Int("page", page), zap.String("url", pageURL), zap.Error(err))
		return []types.ListingEntry{}
	}

	entries, skipped := parseListing(doc, e.site)
	for _, skipErr := range skipped {
		e.logger.Warn("カードからのデータ抽出に失敗しました", zap.Int("page", page), zap.Error(skipErr))
	}
	return entries
}

// ExtractDetails は詳細ページから属性を抽出します。
// 取得失敗、または必須要素が欠けている場合は全項目が空の FirmDetails を返します。
func (e *Extractor) ExtractDetails(ctx context.Context, detailURL string) types.FirmDetails {
	doc, err := e.fetcher.FetchDocument(ctx, detailURL)
	if err != nil {
		e.logger.Error("詳細ページの取得に失敗しました", zap.String("url", detailURL), zap.Error(err))
		return types.FirmDetails{}
	}

	details, err := parseDetails(doc)
	if err != nil {
		e.logger.Error("詳細ページの解析中にエラーが発生しました", zap.String("url", detailURL), zap.Error(err))
		return types.FirmDetails{}
	}
	return details
}
