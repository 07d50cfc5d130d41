package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/AbbasAlizada1380/mellat/internal/database"
	"github.com/AbbasAlizada1380/mellat/internal/database/dbtest"
	. "github.com/AbbasAlizada1380/mellat/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) database.DB {
	t.Helper()
	return dbtest.New(t, dbtest.Config(t))
}

func createAthlete(t *testing.T, repo AthleteRepository, name, father, nic string) *Athlete {
	t.Helper()
	athlete := &Athlete{
		FullName:           name,
		FatherName:         father,
		PermanentResidence: "Kabul",
		CurrentResidence:   "Herat",
		NicNumber:          nic,
		DocumentPDF:        "documents/" + nic + ".pdf",
		Photo:              "photos/" + nic + ".png",
	}
	require.NoError(t, repo.Create(context.Background(), athlete))
	return athlete
}

func createFee(t *testing.T, repo FeeRepository, athleteID uint, start, end Date, total, received string) *Fee {
	t.Helper()
	fee := &Fee{
		StartDate: start,
		EndDate:   end,
		Total:     decimal.RequireFromString(total),
		Received:  decimal.RequireFromString(received),
		AthleteID: athleteID,
	}
	require.NoError(t, repo.Create(context.Background(), fee))
	return fee
}

func seedAthletes(t *testing.T, repo AthleteRepository, count int) []*Athlete {
	t.Helper()
	athletes := make([]*Athlete, 0, count)
	for i := 0; i < count; i++ {
		athletes = append(athletes, createAthlete(t, repo,
			fmt.Sprintf("Athlete %02d", i),
			fmt.Sprintf("Father %02d", i),
			fmt.Sprintf("NIC-%04d", i),
		))
	}
	return athletes
}
