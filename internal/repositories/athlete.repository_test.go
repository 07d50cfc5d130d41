package repositories

import (
	"context"
	"testing"

	"github.com/AbbasAlizada1380/mellat/internal/apperr"
	. "github.com/AbbasAlizada1380/mellat/internal/models"
	"github.com/AbbasAlizada1380/mellat/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAthleteRepository_CreateAndGet(t *testing.T) {
	repo := NewAthlete(newTestDB(t))
	ctx := context.Background()

	created := createAthlete(t, repo, "Ahmad Zia", "Karim", "N1")
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ahmad Zia", found.FullName)
	assert.Equal(t, "N1", found.NicNumber)

	_, err = repo.GetByID(ctx, created.ID+100)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestAthleteRepository_DuplicateNicConflicts(t *testing.T) {
	repo := NewAthlete(newTestDB(t))
	ctx := context.Background()

	createAthlete(t, repo, "First", "Father", "N1")

	duplicate := &Athlete{
		FullName:           "Second",
		FatherName:         "Father",
		PermanentResidence: "Kabul",
		CurrentResidence:   "Kabul",
		NicNumber:          "N1",
		DocumentPDF:        "documents/x.pdf",
		Photo:              "photos/x.png",
	}
	err := repo.Create(ctx, duplicate)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	other := createAthlete(t, repo, "Third", "Father", "N2")
	other.NicNumber = "N1"
	err = repo.Update(ctx, other)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestAthleteRepository_ListPagination(t *testing.T) {
	repo := NewAthlete(newTestDB(t))
	ctx := context.Background()
	athletes := seedAthletes(t, repo, 25)

	tests := []struct {
		name      string
		page      PageRequest
		wantCount int
	}{
		{name: "first page", page: PageRequest{Page: 1, Limit: 10}, wantCount: 10},
		{name: "remainder page", page: PageRequest{Page: 3, Limit: 10}, wantCount: 5},
		{name: "beyond range", page: PageRequest{Page: 4, Limit: 10}, wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := repo.List(ctx, tt.page)
			require.NoError(t, err)
			assert.Equal(t, int64(25), total)
			assert.Len(t, items, tt.wantCount)
		})
	}

	first, _, err := repo.List(ctx, PageRequest{Page: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, athletes[len(athletes)-1].ID, first[0].ID, "newest first")
}

func TestAthleteRepository_Search(t *testing.T) {
	repo := NewAthlete(newTestDB(t))
	ctx := context.Background()

	createAthlete(t, repo, "Ahmad Zia", "Karim Khan", "N1")
	createAthlete(t, repo, "Bashir", "Rahim", "N2")
	createAthlete(t, repo, "Ahmad Shah", "Sultan", "100%_X")

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "father name substring", query: "karim", want: 1},
		{name: "case insensitive", query: "AHMAD", want: 2},
		{name: "nic match", query: "n2", want: 1},
		{name: "residence match", query: "herat", want: 3},
		{name: "percent is literal", query: "%", want: 1},
		{name: "underscore is literal", query: "_x", want: 1},
		{name: "no match", query: "zzz", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := repo.Search(ctx, tt.query, PageRequest{Page: 1, Limit: 10})
			require.NoError(t, err)
			assert.Equal(t, int64(tt.want), total)
			assert.Len(t, items, tt.want)
		})
	}
}

func TestAthleteRepository_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewAthlete(db)
	fees := NewFee(db)
	ctx := context.Background()

	athlete := createAthlete(t, repo, "Ahmad", "Karim", "N1")
	fee := createFee(t, fees, athlete.ID, NewDate(2024, 1, 1), NewDate(2024, 1, 31), "1000", "300")

	athlete.CurrentResidence = "Mazar"
	require.NoError(t, repo.Update(ctx, athlete))

	found, err := repo.GetByID(ctx, athlete.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mazar", found.CurrentResidence)

	require.NoError(t, repo.Delete(ctx, athlete.ID))

	_, err = fees.GetByID(ctx, fee.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "fees cascade with their athlete")

	err = repo.Delete(ctx, athlete.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	err = repo.Update(ctx, athlete)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	exists, err := repo.Exists(ctx, athlete.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAthleteRepository_TransactionRollback(t *testing.T) {
	db := newTestDB(t)
	repo := NewAthlete(db)
	tx := services.NewTransactionService(db)
	ctx := context.Background()

	err := tx.Execute(ctx, func(txCtx context.Context) error {
		athlete := &Athlete{
			FullName:           "Rolled",
			FatherName:         "Back",
			PermanentResidence: "Kabul",
			CurrentResidence:   "Kabul",
			NicNumber:          "N9",
			DocumentPDF:        "documents/n9.pdf",
			Photo:              "photos/n9.png",
		}
		require.NoError(t, repo.Create(txCtx, athlete))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, total, err := repo.List(ctx, PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}
