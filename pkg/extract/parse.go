package extract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	textUtils "github.com/shouni/go-utils/text"
	"golang.org/x/net/html"

	"github.com/shouni/go-vc-mapping/pkg/types"
)

// ----------------------------------------------------------------------
// 定数定義 (対象サイトのマークアップに依存するセレクター)
// ----------------------------------------------------------------------
const (
	pageCountSelector = "div.w-page-count.page-count"

	cardSelector     = "div.info-card.card-org"
	cardNameSelector = "div.investor-name"
	cardLinkSelector = "a.card-button.w-button"

	numbersContainerSelector = "div.tag-split.no-pad"
	numberBoxSelector        = "div.flexbox-vertical"
	numberValueSelector      = "div.numbers-on-cards"
	aboutContainerSelector   = "div.vc-info_container.is--first.extra-text"
	aboutParagraphSelector   = "p"
	portfolioBoxSelector     = "div.agency-info"
	portfolioValueSelector   = "div.numbers-on-cards-left"
	tagGroupSelector         = "div.w-dyn-list"
	tagTextSelector          = "div.tag-text"

	tagSeparator = ", "
)

// 数値欄の並び順
const (
	numberFounded = iota
	numberInvestments
	numberExits
)

// タググループの並び順
const (
	tagGroupFundType = iota
	tagGroupInvestmentStage
	tagGroupInvestmentFocus
	tagGroupHQCountry
	tagGroupCity
)

// ErrElementNotFound は期待したHTML要素が見つからなかったことを示します。
var ErrElementNotFound = errors.New("要素が見つかりません")

func missingElement(selector string) error {
	return fmt.Errorf("%w: %s", ErrElementNotFound, selector)
}

// parsePageCount は "現在 / 総数" 形式の表示から総数を取り出します。
func parsePageCount(doc *goquery.Document) (int, error) {
	el := doc.Find(pageCountSelector).First()
	if el.Length() == 0 {
		return 0, missingElement(pageCountSelector)
	}

	text := strings.TrimSpace(el.Text())
	parts := strings.Split(text, "/")
	last := strings.Join(strings.Fields(parts[len(parts)-1]), "")

	total, err := strconv.Atoi(last)
	if err != nil {
		return 0, fmt.Errorf("ページ数表示(%q)を数値に変換できません: %w", text, err)
	}
	if total < 0 {
		return 0, fmt.Errorf("ページ数表示(%q)が負の値です", text)
	}
	return total, nil
}

// parseListing は一覧ページのカードを抽出します。
// 必要な子要素が欠けたカードはスキップし、その理由を skipped に積みます。
func parseListing(doc *goquery.Document, site Site) (entries []types.ListingEntry, skipped []error) {
	entries = []types.ListingEntry{}

	doc.Find(cardSelector).Each(func(i int, card *goquery.Selection) {
		nameEl := card.Find(cardNameSelector).First()
		if nameEl.Length() == 0 {
			skipped = append(skipped, fmt.Errorf("カード %d: %w", i+1, missingElement(cardNameSelector)))
			return
		}
		linkEl := card.Find(cardLinkSelector).First()
		if linkEl.Length() == 0 {
			skipped = append(skipped, fmt.Errorf("カード %d: %w", i+1, missingElement(cardLinkSelector)))
			return
		}
		href, ok := linkEl.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			skipped = append(skipped, fmt.Errorf("カード %d: %w", i+1, missingElement(cardLinkSelector+"[href]")))
			return
		}
		detailURL, err := site.Resolve(href)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("カード %d: %w", i+1, err))
			return
		}

		entries = append(entries, types.ListingEntry{
			Name:      textUtils.NormalizeText(nameEl.Text()),
			DetailURL: detailURL,
		})
	})

	return entries, skipped
}

// parseDetails は詳細ページから FirmDetails を組み立てます。
// 必須要素が1つでも欠けていればエラーを返し、部分的な結果は返しません。
func parseDetails(doc *goquery.Document) (types.FirmDetails, error) {
	numbersBox := doc.Find(numbersContainerSelector).First()
	if numbersBox.Length() == 0 {
		return types.FirmDetails{}, missingElement(numbersContainerSelector)
	}

	var (
		numbers   []string
		numberErr error
	)
	numbersBox.Find(numberBoxSelector).EachWithBreak(func(i int, box *goquery.Selection) bool {
		value := box.Find(numberValueSelector).First()
		if value.Length() == 0 {
			numberErr = missingElement(numberValueSelector)
			return false
		}
		numbers = append(numbers, strippedText(value))
		return true
	})
	if numberErr != nil {
		return types.FirmDetails{}, numberErr
	}

	aboutBox := doc.Find(aboutContainerSelector).First()
	if aboutBox.Length() == 0 {
		return types.FirmDetails{}, missingElement(aboutContainerSelector)
	}
	about := findNext(aboutBox, aboutParagraphSelector)
	if about == nil {
		return types.FirmDetails{}, missingElement(aboutContainerSelector + " ~ " + aboutParagraphSelector)
	}

	portfolio := doc.Find(portfolioBoxSelector).First().Find(portfolioValueSelector).First()
	if portfolio.Length() == 0 {
		return types.FirmDetails{}, missingElement(portfolioBoxSelector + " " + portfolioValueSelector)
	}

	var tagGroups []string
	doc.Find(tagGroupSelector).Each(func(_ int, group *goquery.Selection) {
		var texts []string
		group.Find(tagTextSelector).Each(func(_ int, tag *goquery.Selection) {
			texts = append(texts, strippedText(tag))
		})
		tagGroups = append(tagGroups, strings.Join(texts, tagSeparator))
	})

	return types.FirmDetails{
		Founded:            valueAt(numbers, numberFounded),
		Investments:        valueAt(numbers, numberInvestments),
		Exits:              valueAt(numbers, numberExits),
		About:              strings.TrimSpace(about.Text()),
		PortfolioCompanies: strings.TrimSpace(portfolio.Text()),
		FundType:           valueAt(tagGroups, tagGroupFundType),
		InvestmentStage:    valueAt(tagGroups, tagGroupInvestmentStage),
		InvestmentFocus:    valueAt(tagGroups, tagGroupInvestmentFocus),
		HQCountry:          valueAt(tagGroups, tagGroupHQCountry),
		City:               valueAt(tagGroups, tagGroupCity),
	}, nil
}

// valueAt は範囲外のインデックスに対して空文字を返します。
func valueAt(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// findNext は s の開始位置以降、ドキュメント順で最初に selector に一致する要素を返します。
// 子孫を先に探し、次に後続の兄弟と祖先の後続兄弟を順に探します。
func findNext(s *goquery.Selection, selector string) *goquery.Selection {
	if d := s.Find(selector).First(); d.Length() > 0 {
		return d
	}
	for cur := s; cur.Length() > 0; cur = cur.Parent() {
		for sib := cur.Next(); sib.Length() > 0; sib = sib.Next() {
			if sib.Is(selector) {
				return sib
			}
			if d := sib.Find(selector).First(); d.Length() > 0 {
				return d
			}
		}
	}
	return nil
}

// strippedText は各テキストノードの前後の空白を除去して連結します。
func strippedText(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return b.String()
}
