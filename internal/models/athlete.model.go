package models

import (
	"strings"
	"time"
)

type Athlete struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement"                                    json:"id"`
	FullName           string    `gorm:"column:full_name;type:varchar(255);not null"                 json:"full_name"`
	FatherName         string    `gorm:"column:father_name;type:varchar(255);not null"               json:"father_name"`
	PermanentResidence string    `gorm:"column:permanent_residence;type:varchar(255);not null"       json:"permanent_residence"`
	CurrentResidence   string    `gorm:"column:current_residence;type:varchar(255);not null"         json:"current_residence"`
	NicNumber          string    `gorm:"column:nic_number;type:varchar(255);not null;uniqueIndex"    json:"nic_number"`
	DocumentPDF        string    `gorm:"column:document_pdf;type:varchar(255);not null"              json:"document_pdf"`
	Photo              string    `gorm:"column:photo;type:varchar(255);not null"                     json:"photo"`
	Fees               []Fee     `gorm:"foreignKey:AthleteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"fees,omitempty"`
	CreatedAt          time.Time `gorm:"autoCreateTime"                                              json:"createdAt"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"                                              json:"updatedAt"`
}

// AthleteSummary is the identity subset joined onto fee rows.
type AthleteSummary struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	FullName  string `gorm:"column:full_name"    json:"full_name"`
	NicNumber string `gorm:"column:nic_number"   json:"nic_number"`
}

func (AthleteSummary) TableName() string {
	return "athletes"
}

// AthleteSearchFields are matched with OR by athlete search.
var AthleteSearchFields = []string{
	"full_name",
	"father_name",
	"nic_number",
	"permanent_residence",
	"current_residence",
}

// FeeAthleteSearchFields resolve the athletes whose fees a fee search returns.
var FeeAthleteSearchFields = []string{
	"full_name",
	"father_name",
	"nic_number",
}

type AthleteFields struct {
	FullName           string `form:"full_name"           json:"full_name"`
	FatherName         string `form:"father_name"         json:"father_name"`
	PermanentResidence string `form:"permanent_residence" json:"permanent_residence"`
	CurrentResidence   string `form:"current_residence"   json:"current_residence"`
	NicNumber          string `form:"nic_number"          json:"nic_number"`
}

func (f AthleteFields) Trimmed() AthleteFields {
	return AthleteFields{
		FullName:           strings.TrimSpace(f.FullName),
		FatherName:         strings.TrimSpace(f.FatherName),
		PermanentResidence: strings.TrimSpace(f.PermanentResidence),
		CurrentResidence:   strings.TrimSpace(f.CurrentResidence),
		NicNumber:          strings.TrimSpace(f.NicNumber),
	}
}

func (f AthleteFields) Complete() bool {
	return f.FullName != "" &&
		f.FatherName != "" &&
		f.PermanentResidence != "" &&
		f.CurrentResidence != "" &&
		f.NicNumber != ""
}

// UpdateAthleteRequest is a partial update; nil fields are left unchanged.
type UpdateAthleteRequest struct {
	FullName           *string `json:"full_name"`
	FatherName         *string `json:"father_name"`
	PermanentResidence *string `json:"permanent_residence"`
	CurrentResidence   *string `json:"current_residence"`
	NicNumber          *string `json:"nic_number"`
}

// Apply copies the present fields onto athlete. Blank values are rejected
// because every athlete column is required.
func (r UpdateAthleteRequest) Apply(athlete *Athlete) bool {
	fields := []struct {
		value  *string
		target *string
	}{
		{r.FullName, &athlete.FullName},
		{r.FatherName, &athlete.FatherName},
		{r.PermanentResidence, &athlete.PermanentResidence},
		{r.CurrentResidence, &athlete.CurrentResidence},
		{r.NicNumber, &athlete.NicNumber},
	}

	for _, field := range fields {
		if field.value != nil && strings.TrimSpace(*field.value) == "" {
			return false
		}
	}

	for _, field := range fields {
		if field.value != nil {
			*field.target = strings.TrimSpace(*field.value)
		}
	}

	return true
}
