package extract

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// ----------------------------------------------------------------------
// 依存性の定義 (DIP)
// ----------------------------------------------------------------------

// Fetcher は、URLからHTMLドキュメントを取得する機能のインターフェースを定義します。
// Extractor は、この抽象に依存します。*httpclient.Client がこれを満たします。
type Fetcher interface {
	FetchDocument(ctx context.Context, url string) (*goquery.Document, error)
}
