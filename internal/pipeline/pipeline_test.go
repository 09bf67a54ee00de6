package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-vc-mapping/internal/config"
)

func TestNewCrawler_RunsAgainstConfiguredSite(t *testing.T) {
	var (
		mu         sync.Mutex
		userAgents []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		userAgents = append(userAgents, r.UserAgent())
		mu.Unlock()
		switch r.URL.Path {
		case "/explore":
			fmt.Fprint(w, `<div class="w-page-count page-count">1 / 1</div>
<div class="info-card card-org"><div class="investor-name">Solo Fund</div><a class="card-button w-button" href="/vc-firms/solo">View</a></div>`)
		default:
			// 必須要素がないため詳細は空になる
			fmt.Fprint(w, `<html><body></body></html>`)
		}
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.BaseURL = server.URL
	cfg.Output = filepath.Join(t.TempDir(), "out.csv")
	cfg.PageDelay = 0

	crawler, err := NewCrawler(cfg, nil)
	require.NoError(t, err)

	summary, err := crawler.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Records)
	assert.Equal(t, 1, summary.EmptyDetails)

	data, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Solo Fund,"+server.URL+"/vc-firms/solo,")

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, userAgents)
	for _, ua := range userAgents {
		assert.Contains(t, ua, "Chrome/91.0.4472.124")
	}
}

func TestNewExtractor(t *testing.T) {
	extractor, err := NewExtractor(config.Default(), nil)
	require.NoError(t, err)
	assert.Equal(t, "https://vc-mapping.gilion.com/explore", extractor.Site().ExploreURL())
}
