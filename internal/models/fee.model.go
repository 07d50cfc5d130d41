package models

import (
	"time"

	"github.com/AbbasAlizada1380/mellat/internal/apperr"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the scale of every currency column (numeric(10,2)).
const MoneyPlaces = 2

// OverpaymentPolicy decides whether received may exceed total.
type OverpaymentPolicy string

const (
	OverpaymentAllow  OverpaymentPolicy = "allow"
	OverpaymentReject OverpaymentPolicy = "reject"
)

type Fee struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"                               json:"id"`
	StartDate Date            `gorm:"type:date;not null"                                     json:"startDate"`
	EndDate   Date            `gorm:"type:date;not null;index"                               json:"endDate"`
	Total     decimal.Decimal `gorm:"type:numeric(10,2);not null"                            json:"total"`
	Received  decimal.Decimal `gorm:"type:numeric(10,2);not null"                            json:"received"`
	Remained  decimal.Decimal `gorm:"type:numeric(10,2);not null"                            json:"remained"`
	AthleteID uint            `gorm:"column:athlete_id;not null;index"                       json:"athleteId"`
	Athlete   *AthleteSummary `gorm:"foreignKey:AthleteID;references:ID"                     json:"athlete,omitempty"`
	CreatedAt time.Time       `gorm:"autoCreateTime"                                         json:"createdAt"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"                                         json:"updatedAt"`
}

// ComputeRemained is the outstanding balance rule: total minus received,
// exact to the cent.
func ComputeRemained(total, received decimal.Decimal) decimal.Decimal {
	return total.Round(MoneyPlaces).Sub(received.Round(MoneyPlaces))
}

// Recalculate normalises the money columns and derives Remained. It must run
// on every write path; any Remained supplied by a caller is overwritten.
func (f *Fee) Recalculate(policy OverpaymentPolicy) error {
	f.Total = f.Total.Round(MoneyPlaces)
	f.Received = f.Received.Round(MoneyPlaces)

	if f.Total.IsNegative() {
		return apperr.Validation("total must not be negative")
	}

	if policy == OverpaymentReject && f.Received.GreaterThan(f.Total) {
		return apperr.Validation("received must not exceed total")
	}

	f.Remained = ComputeRemained(f.Total, f.Received)
	return nil
}

// ActiveOn reports whether day falls inside [StartDate, EndDate].
func (f *Fee) ActiveOn(day Date) bool {
	return !day.Before(f.StartDate) && !day.After(f.EndDate)
}

type CreateFeeRequest struct {
	StartDate *Date            `json:"startDate"`
	EndDate   *Date            `json:"endDate"`
	Total     *decimal.Decimal `json:"total"`
	Received  *decimal.Decimal `json:"received"`
	AthleteID *uint            `json:"athleteId"`
}

// UpdateFeeRequest carries the replaceable fields of a fee. Remained is not
// accepted.
type UpdateFeeRequest struct {
	StartDate *Date            `json:"startDate"`
	EndDate   *Date            `json:"endDate"`
	Total     *decimal.Decimal `json:"total"`
	Received  *decimal.Decimal `json:"received"`
}
