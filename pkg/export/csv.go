package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/shouni/go-vc-mapping/pkg/types"
)

// DefaultFilename は出力CSVのデフォルトのファイル名です。
const DefaultFilename = "vc_firms_details.csv"

// Header は出力CSVの見出し行です。列の順序は FirmRecord の出力順と一致します。
var Header = []string{
	"Firm Name",
	"URL",
	"Founded",
	"Investments",
	"Exits",
	"About",
	"Portfolio Companies",
	"Fund Type",
	"Investment Stage",
	"Investment Focus",
	"HQ Country",
	"City",
}

// Row はレコードを見出し行と同じ順序の列に変換します。
func Row(r types.FirmRecord) []string {
	return []string{
		r.Name,
		r.URL,
		r.Founded,
		r.Investments,
		r.Exits,
		r.About,
		r.PortfolioCompanies,
		r.FundType,
		r.InvestmentStage,
		r.InvestmentFocus,
		r.HQCountry,
		r.City,
	}
}

// WriteCSV は見出し行とレコードを順番どおりに w へ書き込みます。行末は CRLF です。
func WriteCSV(w io.Writer, records []types.FirmRecord) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("CSV見出し行の書き込みに失敗しました: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(Row(r)); err != nil {
			return fmt.Errorf("CSVレコード(%s)の書き込みに失敗しました: %w", r.Name, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("CSV出力のフラッシュに失敗しました: %w", err)
	}
	return nil
}

// SaveCSV はレコードを UTF-8 の CSV ファイルとして保存します。既存のファイルは上書きされます。
func SaveCSV(path string, records []types.FirmRecord) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("出力ファイル(%s)の作成に失敗しました: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("出力ファイル(%s)のクローズに失敗しました: %w", path, cerr)
		}
	}()

	return WriteCSV(f, records)
}
