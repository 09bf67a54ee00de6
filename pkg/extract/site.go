package extract

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultBaseURL     = "https://vc-mapping.gilion.com"
	DefaultExplorePath = "/explore"
	DefaultPageParam   = "5656daaa_page"
)

// Site は巡回対象ディレクトリのURL構成を表します。
type Site struct {
	BaseURL     string // 詳細ページの相対リンクを解決するオリジン
	ExplorePath string // 一覧ページのパス
	PageParam   string // ページ番号のクエリパラメータ名
}

// DefaultSite は vc-mapping.gilion.com の構成を返します。
func DefaultSite() Site {
	return Site{
		BaseURL:     DefaultBaseURL,
		ExplorePath: DefaultExplorePath,
		PageParam:   DefaultPageParam,
	}
}

// ExploreURL は一覧のルート (1ページ目) のURLを返します。
func (s Site) ExploreURL() string {
	return strings.TrimRight(s.BaseURL, "/") + s.ExplorePath
}

// PageURL は 1 始まりのページ番号に対応する一覧ページのURLを返します。
// 1ページ目はクエリなしのルートURLです。
func (s Site) PageURL(page int) string {
	if page <= 1 {
		return s.ExploreURL()
	}
	q := url.Values{}
	q.Set(s.PageParam, strconv.Itoa(page))
	return s.ExploreURL() + "?" + q.Encode()
}

// Resolve はカード内の相対リンクを絶対URLに変換します。
func (s Site) Resolve(href string) (string, error) {
	base, err := url.Parse(s.BaseURL)
	if err != nil {
		return "", fmt.Errorf("ベースURLのパースエラー: %w", err)
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("リンクのパースエラー (%s): %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}
