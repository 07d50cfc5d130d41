package reports

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	. "github.com/AbbasAlizada1380/mellat/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleFee(id uint, total, received string) Fee {
	fee := Fee{
		ID:        id,
		StartDate: NewDate(2024, 1, 1),
		EndDate:   NewDate(2024, 1, 31),
		Total:     decimal.RequireFromString(total),
		Received:  decimal.RequireFromString(received),
		AthleteID: 1,
		Athlete:   &AthleteSummary{ID: 1, FullName: "Ahmad Zia", NicNumber: "N1"},
	}
	fee.Remained = ComputeRemained(fee.Total, fee.Received)
	return fee
}

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{amount: "700", want: "seven hundred and 00/100"},
		{amount: "1250.5", want: "one thousand two hundred fifty and 50/100"},
		{amount: "0", want: "zero and 00/100"},
		{amount: "-300.25", want: "minus three hundred and 25/100"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, AmountInWords(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestNewBill(t *testing.T) {
	issued := time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC)

	bill := NewBill(sampleFee(42, "1000", "300"), issued)
	assert.Equal(t, "000042", bill.Number)
	assert.Equal(t, "2024-02-03", bill.IssuedOn)
	assert.Equal(t, "Ahmad Zia", bill.AthleteName)
	assert.Equal(t, "700.00", bill.Remained)
	assert.Equal(t, "three hundred and 00/100", bill.ReceivedWords)
	assert.False(t, bill.Settled)

	settled := NewBill(sampleFee(43, "1000", "1000"), issued)
	assert.True(t, settled.Settled)
}

func TestEngineRendersBill(t *testing.T) {
	engine := Engine()
	require.NoError(t, engine.Load())

	var out bytes.Buffer
	bill := NewBill(sampleFee(7, "500", "125.5"), time.Now())
	require.NoError(t, engine.Render(&out, BILL_TEMPLATE, bill))

	body := out.String()
	assert.Contains(t, body, "000007")
	assert.Contains(t, body, "Ahmad Zia")
	assert.Contains(t, body, "374.50")
	assert.Contains(t, body, "one hundred twenty-five and 50/100")
}

func TestRangeWorkbook(t *testing.T) {
	fees := []Fee{
		sampleFee(1, "1000", "300"),
		sampleFee(2, "500", "500"),
	}

	buf, err := RangeWorkbook(fees, NewDate(2024, 1, 1), NewDate(2024, 1, 31))
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(RANGE_SHEET)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.Equal(t, "Fees ending 2024-01-01 to 2024-01-31", rows[0][0])
	assert.Equal(t, rangeHeaders, rows[1])
	assert.Equal(t, "Ahmad Zia", rows[2][1])
	assert.Equal(t, "Total", rows[4][0])

	raw, err := f.GetRows(RANGE_SHEET, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"1000.00", "300.00", "700.00"}, raw[2][5:8])
	assert.Equal(t, []string{"1500.00", "800.00", "700.00"}, raw[4][5:8])

	cellType, err := f.GetCellType(RANGE_SHEET, "H5")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)
	assert.NotEqual(t, excelize.CellTypeInlineString, cellType)

	style, err := f.GetCellStyle(RANGE_SHEET, "F3")
	require.NoError(t, err)
	assert.NotZero(t, style)
}

func TestRangeCSV(t *testing.T) {
	fees := []Fee{
		sampleFee(1, "1000", "300"),
		sampleFee(2, "500", "500"),
	}

	buf, err := RangeCSV(fees)
	require.NoError(t, err)

	rows, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, rangeHeaders, rows[0])
	assert.Equal(t, []string{"1", "Ahmad Zia", "N1", "2024-01-01", "2024-01-31", "1000.00", "300.00", "700.00"}, rows[1])
	assert.Equal(t, []string{"Total", "", "", "", "", "1500.00", "800.00", "700.00"}, rows[3])
}

func TestRangeExport(t *testing.T) {
	start, end := NewDate(2024, 1, 1), NewDate(2024, 3, 31)

	tests := []struct {
		raw             string
		wantName        string
		wantContentType string
		wantErr         bool
	}{
		{raw: "", wantName: "fees_2024-01-01_2024-03-31.xlsx", wantContentType: XLSX_CONTENT_TYPE},
		{raw: "xlsx", wantName: "fees_2024-01-01_2024-03-31.xlsx", wantContentType: XLSX_CONTENT_TYPE},
		{raw: " CSV ", wantName: "fees_2024-01-01_2024-03-31.csv", wantContentType: CSV_CONTENT_TYPE},
		{raw: "pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			format, err := ParseFormat(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			export, err := RangeExport([]Fee{sampleFee(1, "10", "5")}, start, end, format)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, export.FileName)
			assert.Equal(t, tt.wantContentType, export.ContentType)
			assert.NotZero(t, export.Body.Len())
		})
	}
}
