package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-vc-mapping/pkg/types"
)

const expectedHeader = "Firm Name,URL,Founded,Investments,Exits,About,Portfolio Companies,Fund Type,Investment Stage,Investment Focus,HQ Country,City\r\n"

func sampleRecords() []types.FirmRecord {
	return []types.FirmRecord{
		{
			Name: "Alpha Capital",
			URL:  "https://vc-mapping.gilion.com/vc-firms/alpha",
			FirmDetails: types.FirmDetails{
				Founded:            "2011",
				Investments:        "124",
				Exits:              "17",
				About:              "Invests in \"deep tech\", mostly seed.",
				PortfolioCompanies: "87",
				FundType:           "Venture Capital",
				InvestmentStage:    "Seed, Series A",
				InvestmentFocus:    "SaaS",
				HQCountry:          "Sweden",
				City:               "Stockholm",
			},
		},
		{
			Name: "Beta Ventures",
			URL:  "https://vc-mapping.gilion.com/vc-firms/beta",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	t.Run("header_only", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, nil))
		assert.Equal(t, expectedHeader, buf.String())
	})

	t.Run("rows_in_order_with_quoting", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, sampleRecords()))

		lines := strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n")
		require.Len(t, lines, 3)
		assert.Equal(t, strings.TrimSuffix(expectedHeader, "\r\n"), lines[0])
		assert.Equal(t, `Alpha Capital,https://vc-mapping.gilion.com/vc-firms/alpha,2011,124,17,"Invests in ""deep tech"", mostly seed.",87,Venture Capital,"Seed, Series A",SaaS,Sweden,Stockholm`, lines[1])
		assert.Equal(t, "Beta Ventures,https://vc-mapping.gilion.com/vc-firms/beta,,,,,,,,,,", lines[2])
	})

	t.Run("rows_end_with_crlf", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, sampleRecords()[1:]))

		assert.Equal(t, 2, strings.Count(buf.String(), "\r\n"))
		assert.Equal(t, strings.Count(buf.String(), "\n"), strings.Count(buf.String(), "\r\n"))
		assert.True(t, strings.HasSuffix(buf.String(), ",,,,,,,,,,\r\n"))
	})
}

func TestRow(t *testing.T) {
	row := Row(sampleRecords()[0])
	assert.Len(t, row, len(Header))
	assert.Equal(t, "Alpha Capital", row[0])
	assert.Equal(t, "Stockholm", row[len(row)-1])
}

func TestSaveCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFilename)

	t.Run("overwrites_existing_file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("stale content that is longer than nothing\n"), 0o644))
		require.NoError(t, SaveCSV(path, nil))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, expectedHeader, string(got))
	})

	t.Run("same_records_produce_identical_bytes", func(t *testing.T) {
		other := filepath.Join(dir, "second.csv")
		require.NoError(t, SaveCSV(path, sampleRecords()))
		require.NoError(t, SaveCSV(other, sampleRecords()))

		first, err := os.ReadFile(path)
		require.NoError(t, err)
		second, err := os.ReadFile(other)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		require.NoError(t, SaveCSV(path, sampleRecords()))
		again, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	})

	t.Run("unwritable_path", func(t *testing.T) {
		err := SaveCSV(filepath.Join(dir, "missing", "out.csv"), nil)
		assert.Error(t, err)
	})
}
