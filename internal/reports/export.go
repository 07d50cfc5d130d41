package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	. "github.com/AbbasAlizada1380/mellat/internal/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	XLSX_CONTENT_TYPE = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	CSV_CONTENT_TYPE  = "text/csv; charset=utf-8"
	RANGE_SHEET       = "Fees"

	// built-in "0.00"
	MONEY_NUMFMT    = 2
	MONEY_FIRST_COL = 6
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Export is a rendered report ready to be sent as an attachment.
type Export struct {
	Body        *bytes.Buffer
	FileName    string
	ContentType string
}

// ParseFormat defaults to xlsx when raw is empty.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// RangeExport renders the fees ending in [start, end] in format.
func RangeExport(fees []Fee, start, end Date, format Format) (Export, error) {
	var (
		body        *bytes.Buffer
		err         error
		contentType string
	)

	switch format {
	case FormatCSV:
		body, err = RangeCSV(fees)
		contentType = CSV_CONTENT_TYPE
	default:
		format = FormatXLSX
		body, err = RangeWorkbook(fees, start, end)
		contentType = XLSX_CONTENT_TYPE
	}
	if err != nil {
		return Export{}, err
	}

	return Export{
		Body:        body,
		FileName:    RangeFileName(start, end, format),
		ContentType: contentType,
	}, nil
}

var rangeHeaders = []string{
	"Fee ID",
	"Athlete",
	"NIC Number",
	"Start Date",
	"End Date",
	"Total",
	"Received",
	"Remained",
}

// RangeFileName names the export of the fees ending in [start, end].
func RangeFileName(start, end Date, format Format) string {
	return fmt.Sprintf("fees_%s_%s.%s", start, end, format)
}

// RangeCSV writes the same rows as RangeWorkbook without the title row.
// Amounts keep two decimals.
func RangeCSV(fees []Fee) (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	if err := writer.Write(rangeHeaders); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}

	total, received, remained := decimal.Zero, decimal.Zero, decimal.Zero
	for i, fee := range fees {
		name, nic := athleteColumns(fee)
		row := []string{
			strconv.FormatUint(uint64(fee.ID), 10),
			name,
			nic,
			fee.StartDate.String(),
			fee.EndDate.String(),
			fee.Total.StringFixed(2),
			fee.Received.StringFixed(2),
			fee.Remained.StringFixed(2),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i, err)
		}

		total = total.Add(fee.Total)
		received = received.Add(fee.Received)
		remained = remained.Add(fee.Remained)
	}

	totals := []string{"Total", "", "", "", "", total.StringFixed(2), received.StringFixed(2), remained.StringFixed(2)}
	if err := writer.Write(totals); err != nil {
		return nil, fmt.Errorf("failed to write totals: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf, nil
}

func athleteColumns(fee Fee) (string, string) {
	if fee.Athlete == nil {
		return "", ""
	}
	return fee.Athlete.FullName, fee.Athlete.NicNumber
}

// RangeWorkbook writes one row per fee plus a totals row.
func RangeWorkbook(fees []Fee, start, end Date) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), RANGE_SHEET); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetCellValue(RANGE_SHEET, "A1", fmt.Sprintf("Fees ending %s to %s", start, end)); err != nil {
		return nil, err
	}

	for i, header := range rangeHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(RANGE_SHEET, cell, header); err != nil {
			return nil, err
		}
	}

	total, received, remained := decimal.Zero, decimal.Zero, decimal.Zero
	row := 3
	for _, fee := range fees {
		name, nic := athleteColumns(fee)

		values := []any{
			fee.ID,
			name,
			nic,
			fee.StartDate.String(),
			fee.EndDate.String(),
		}
		if err := setRow(f, row, values); err != nil {
			return nil, err
		}
		if err := setMoney(f, row, fee.Total, fee.Received, fee.Remained); err != nil {
			return nil, err
		}

		total = total.Add(fee.Total)
		received = received.Add(fee.Received)
		remained = remained.Add(fee.Remained)
		row++
	}

	if err := setRow(f, row, []any{"Total"}); err != nil {
		return nil, err
	}
	if err := setMoney(f, row, total, received, remained); err != nil {
		return nil, err
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: MONEY_NUMFMT})
	if err != nil {
		return nil, fmt.Errorf("failed to create money style: %w", err)
	}
	topLeft, err := excelize.CoordinatesToCellName(MONEY_FIRST_COL, 3)
	if err != nil {
		return nil, err
	}
	bottomRight, err := excelize.CoordinatesToCellName(MONEY_FIRST_COL+2, row)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(RANGE_SHEET, topLeft, bottomRight, moneyStyle); err != nil {
		return nil, err
	}

	if err := f.SetColWidth(RANGE_SHEET, "B", "C", 24); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

// setMoney writes amounts as exact two-place numeric cells starting at the
// Total column.
func setMoney(f *excelize.File, row int, amounts ...decimal.Decimal) error {
	for i, amount := range amounts {
		cell, err := excelize.CoordinatesToCellName(MONEY_FIRST_COL+i, row)
		if err != nil {
			return err
		}
		if err := f.SetCellDefault(RANGE_SHEET, cell, amount.StringFixed(2)); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(RANGE_SHEET, cell, &values)
}
