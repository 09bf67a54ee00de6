package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shouni/go-vc-mapping/pkg/extract"
)

// resolveDetailURL は --url の値を詳細ページの絶対URLに整えます。
// "/vc-firms/..." のようなサイト内パスは site のオリジンで解決し、スキームのないURLには https:// を付与します。
func resolveDetailURL(raw string, site extract.Site) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("URLが空です")
	}

	// 1. サイト内パスはオリジンで解決
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return site.Resolve(raw)
	}

	// 2. スキームの検証と補完
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("URLのパースエラー: %w", err)
	}
	switch parsed.Scheme {
	case "http", "https":
	case "":
		parsed, err = url.Parse("https://" + raw)
		if err != nil {
			return "", fmt.Errorf("URLのパースエラー: %w", err)
		}
	default:
		return "", fmt.Errorf("無効なURLスキームです。httpまたはhttpsを指定してください: %s", raw)
	}

	// 3. ホストのないURLは取得できない
	if parsed.Host == "" {
		return "", fmt.Errorf("URLにホストがありません: %s", raw)
	}
	return parsed.String(), nil
}
