package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type DateFormat string

const (
	FormatISO8601Date DateFormat = "2006-01-02"
	FormatISO8601     DateFormat = "2006-01-02T15:04:05Z07:00"
	FormatSQLDateTime DateFormat = "2006-01-02 15:04:05"
	FormatSlashDate   DateFormat = "2006/01/02"
	FormatUSDate      DateFormat = "01/02/2006"
	FormatDotDate     DateFormat = "02.01.2006"
	FormatShortMonth  DateFormat = "Jan 2, 2006"
	FormatMonthDay    DateFormat = "January 2, 2006"
)

var usDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)

// DateValidator recognises the calendar date spellings the dashboard and
// import scripts send and normalises them to a single format.
type DateValidator struct {
	supportedFormats []DateFormat
	standardFormat   DateFormat
}

type ValidationResult struct {
	IsValid        bool
	DetectedFormat DateFormat
	ParsedTime     time.Time
	StandardFormat string
	OriginalValue  string
}

func NewDateValidator() *DateValidator {
	return &DateValidator{
		supportedFormats: []DateFormat{
			FormatISO8601Date,
			FormatISO8601,
			FormatSQLDateTime,
			FormatSlashDate,
			FormatUSDate,
			FormatDotDate,
			FormatShortMonth,
			FormatMonthDay,
		},
		standardFormat: FormatISO8601Date,
	}
}

func (dv *DateValidator) SetStandardFormat(format DateFormat) {
	dv.standardFormat = format
}

func (dv *DateValidator) ValidateAndConvert(input string) ValidationResult {
	result := ValidationResult{OriginalValue: input}

	input = strings.TrimSpace(input)
	if input == "" {
		return result
	}

	for _, format := range dv.supportedFormats {
		parsedTime, err := time.Parse(string(format), input)
		if err != nil || !dv.isValidForFormat(input, format) {
			continue
		}

		result.IsValid = true
		result.DetectedFormat = format
		result.ParsedTime = parsedTime
		result.StandardFormat = parsedTime.Format(string(dv.standardFormat))
		return result
	}

	return result
}

func (dv *DateValidator) isValidForFormat(input string, format DateFormat) bool {
	if format != FormatUSDate {
		return true
	}

	matches := usDatePattern.FindStringSubmatch(input)
	if len(matches) < 4 {
		return false
	}

	month, _ := strconv.Atoi(matches[1])
	day, _ := strconv.Atoi(matches[2])

	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

// NormalizeDate returns input in the standard format or an error naming the
// rejected value.
func (dv *DateValidator) NormalizeDate(input string) (string, error) {
	result := dv.ValidateAndConvert(input)
	if !result.IsValid {
		return "", fmt.Errorf("unrecognised date %q", input)
	}
	return result.StandardFormat, nil
}

func (dv *DateValidator) GetSupportedFormats() []DateFormat {
	return dv.supportedFormats
}

// ValidateBatch validates multiple date strings and returns results
func (dv *DateValidator) ValidateBatch(inputs []string) []ValidationResult {
	results := make([]ValidationResult, len(inputs))
	for i, input := range inputs {
		results[i] = dv.ValidateAndConvert(input)
	}
	return results
}
