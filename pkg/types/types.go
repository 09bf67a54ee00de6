package types

// ListingEntry は一覧ページの1枚のカードから得られるファーム名と詳細ページURLです。
type ListingEntry struct {
	Name      string
	DetailURL string
}

// FirmDetails は詳細ページから抽出した属性です。取得や解析に失敗した場合はゼロ値のままです。
type FirmDetails struct {
	Founded            string
	Investments        string
	Exits              string
	About              string
	PortfolioCompanies string
	FundType           string
	InvestmentStage    string
	InvestmentFocus    string
	HQCountry          string
	City               string
}

// IsEmpty はすべての属性が空かどうかを返します。
func (d FirmDetails) IsEmpty() bool {
	return d == FirmDetails{}
}

// FirmRecord は CSV の1行に対応する、一覧と詳細を結合したレコードです。
type FirmRecord struct {
	Name string
	URL  string
	FirmDetails
}

// NewFirmRecord は一覧エントリと詳細属性からレコードを組み立てます。
func NewFirmRecord(entry ListingEntry, details FirmDetails) FirmRecord {
	return FirmRecord{
		Name:        entry.Name,
		URL:         entry.DetailURL,
		FirmDetails: details,
	}
}
