package repositories

import (
	"context"
	"testing"

	"github.com/AbbasAlizada1380/mellat/internal/apperr"
	. "github.com/AbbasAlizada1380/mellat/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeeRepository_CreateDerivesRemained(t *testing.T) {
	db := newTestDB(t)
	athletes := NewAthlete(db)
	repo := NewFee(db)
	ctx := context.Background()

	athlete := createAthlete(t, athletes, "Ahmad", "Karim", "N1")
	fee := &Fee{
		StartDate: NewDate(2024, 1, 1),
		EndDate:   NewDate(2024, 1, 31),
		Total:     decimal.RequireFromString("1000"),
		Received:  decimal.RequireFromString("300.25"),
		Remained:  decimal.RequireFromString("1"),
		AthleteID: athlete.ID,
	}
	require.NoError(t, repo.Create(ctx, fee))

	found, err := repo.GetByID(ctx, fee.ID)
	require.NoError(t, err)
	assert.Equal(t, "699.75", found.Remained.StringFixed(2))
	assert.Equal(t, NewDate(2024, 1, 1), found.StartDate)
	assert.Equal(t, NewDate(2024, 1, 31), found.EndDate)
	require.NotNil(t, found.Athlete)
	assert.Equal(t, athlete.ID, found.Athlete.ID)
	assert.Equal(t, "Ahmad", found.Athlete.FullName)
	assert.Equal(t, "N1", found.Athlete.NicNumber)
}

func TestFeeRepository_CreateMissingAthlete(t *testing.T) {
	repo := NewFee(newTestDB(t))

	err := repo.Create(context.Background(), &Fee{
		StartDate: NewDate(2024, 1, 1),
		EndDate:   NewDate(2024, 1, 31),
		Total:     decimal.NewFromInt(100),
		AthleteID: 404,
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestFeeRepository_ListActive(t *testing.T) {
	db := newTestDB(t)
	athlete := createAthlete(t, NewAthlete(db), "Ahmad", "Karim", "N1")
	repo := NewFee(db)
	ctx := context.Background()

	today := NewDate(2024, 6, 15)
	spanning := createFee(t, repo, athlete.ID, today.AddDays(-1), today.AddDays(1), "100", "0")
	startsToday := createFee(t, repo, athlete.ID, today, today.AddDays(30), "100", "0")
	endsToday := createFee(t, repo, athlete.ID, today.AddDays(-30), today, "100", "0")
	createFee(t, repo, athlete.ID, today.AddDays(-30), today.AddDays(-1), "100", "0")
	createFee(t, repo, athlete.ID, today.AddDays(1), today.AddDays(30), "100", "0")

	items, total, err := repo.ListActive(ctx, today, PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	ids := make([]uint, 0, len(items))
	for _, fee := range items {
		ids = append(ids, fee.ID)
	}
	assert.Equal(t, []uint{endsToday.ID, spanning.ID, startsToday.ID}, ids, "ordered by start date")
}

func TestFeeRepository_Search(t *testing.T) {
	db := newTestDB(t)
	athletes := NewAthlete(db)
	repo := NewFee(db)
	ctx := context.Background()

	karim := createAthlete(t, athletes, "Ahmad", "Karim", "N1")
	rahim := createAthlete(t, athletes, "Bashir", "Rahim", "N2")
	for i := 0; i < 3; i++ {
		createFee(t, repo, karim.ID, NewDate(2024, 1, 1), NewDate(2024, 1, 31), "100", "0")
	}
	createFee(t, repo, rahim.ID, NewDate(2024, 1, 1), NewDate(2024, 1, 31), "100", "0")

	tests := []struct {
		name      string
		query     string
		page      PageRequest
		wantTotal int64
		wantCount int
	}{
		{name: "father name", query: "KARIM", page: PageRequest{Page: 1, Limit: 10}, wantTotal: 3, wantCount: 3},
		{name: "paged", query: "karim", page: PageRequest{Page: 2, Limit: 2}, wantTotal: 3, wantCount: 1},
		{name: "nic", query: "n2", page: PageRequest{Page: 1, Limit: 10}, wantTotal: 1, wantCount: 1},
		{name: "residence is not searched", query: "herat", page: PageRequest{Page: 1, Limit: 10}, wantTotal: 0, wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := repo.Search(ctx, tt.query, tt.page)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			assert.Len(t, items, tt.wantCount)
		})
	}
}

func TestFeeRepository_ListByEndDateRange(t *testing.T) {
	db := newTestDB(t)
	athlete := createAthlete(t, NewAthlete(db), "Ahmad", "Karim", "N1")
	repo := NewFee(db)
	ctx := context.Background()

	createFee(t, repo, athlete.ID, NewDate(2024, 1, 1), NewDate(2024, 1, 31), "100", "0")
	createFee(t, repo, athlete.ID, NewDate(2024, 2, 1), NewDate(2024, 2, 29), "200", "0")
	createFee(t, repo, athlete.ID, NewDate(2024, 3, 1), NewDate(2024, 3, 31), "300", "0")

	tests := []struct {
		name       string
		start, end Date
		want       int
	}{
		{name: "inclusive end bound", start: NewDate(2024, 1, 1), end: NewDate(2024, 2, 29), want: 2},
		{name: "inclusive start bound", start: NewDate(2024, 3, 31), end: NewDate(2024, 12, 31), want: 1},
		{name: "whole year", start: NewDate(2024, 1, 1), end: NewDate(2024, 12, 31), want: 3},
		{name: "empty", start: NewDate(2023, 1, 1), end: NewDate(2023, 12, 31), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fees, err := repo.ListByEndDateRange(ctx, tt.start, tt.end)
			require.NoError(t, err)
			assert.Len(t, fees, tt.want)
			for _, fee := range fees {
				assert.NotNil(t, fee.Athlete)
			}
		})
	}
}

func TestFeeRepository_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	athlete := createAthlete(t, NewAthlete(db), "Ahmad", "Karim", "N1")
	repo := NewFee(db)
	ctx := context.Background()

	fee := createFee(t, repo, athlete.ID, NewDate(2024, 1, 1), NewDate(2024, 1, 31), "1000", "300")

	fee.Received = decimal.NewFromInt(1000)
	require.NoError(t, repo.Update(ctx, fee))

	found, err := repo.GetByID(ctx, fee.ID)
	require.NoError(t, err)
	assert.True(t, found.Remained.IsZero())

	listed, total, err := repo.ListByAthlete(ctx, athlete.ID, PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, fee.ID, listed[0].ID)

	require.NoError(t, repo.Delete(ctx, fee.ID))
	assert.True(t, apperr.Is(repo.Delete(ctx, fee.ID), apperr.KindNotFound))
	assert.True(t, apperr.Is(repo.Update(ctx, fee), apperr.KindNotFound))
}
