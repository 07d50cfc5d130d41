package seed

import (
	"context"
	"time"

	"github.com/AbbasAlizada1380/mellat/internal/apperr"
	"github.com/AbbasAlizada1380/mellat/internal/app"
	"github.com/AbbasAlizada1380/mellat/internal/logger"
	. "github.com/AbbasAlizada1380/mellat/internal/models"

	"github.com/shopspring/decimal"
)

const (
	SEED_DOCUMENT = "documents/seed.pdf"
	SEED_PHOTO    = "photos/seed.png"
)

type seedFee struct {
	monthsAgo int
	total     int64
	received  int64
}

type seedAthlete struct {
	athlete Athlete
	fees    []seedFee
}

// Seed fills a development database with a staff user and a handful of
// athletes carrying current, settled and overdue fees. Athletes whose NIC
// already exists are skipped.
func Seed(ctx context.Context, a *app.App, log logger.Logger) error {
	log = log.Function("Seed")
	log.Info("Seeding development data")

	staff := &User{Login: "staff", DisplayName: "Reception", IsAdmin: false}
	if err := staff.SetPassword("password"); err != nil {
		return log.Err("failed to hash password", err)
	}
	if err := a.UserRepo.Create(ctx, staff); err != nil {
		if !apperr.Is(err, apperr.KindConflict) {
			return log.Err("failed to create staff user", err)
		}
		log.Info("User already exists", "login", staff.Login)
	}

	athletes := []seedAthlete{
		{
			athlete: Athlete{
				FullName:           "احمد ضیا",
				FatherName:         "کریم",
				PermanentResidence: "کابل",
				CurrentResidence:   "کابل",
				NicNumber:          "1400-0101-00001",
			},
			fees: []seedFee{{monthsAgo: 1, total: 1000, received: 1000}, {monthsAgo: 0, total: 1000, received: 300}},
		},
		{
			athlete: Athlete{
				FullName:           "مریم احمدی",
				FatherName:         "محمود",
				PermanentResidence: "هرات",
				CurrentResidence:   "کابل",
				NicNumber:          "1400-0101-00002",
			},
			fees: []seedFee{{monthsAgo: 0, total: 1200, received: 1200}},
		},
		{
			athlete: Athlete{
				FullName:           "فرهاد نوری",
				FatherName:         "عبدالله",
				PermanentResidence: "مزار شریف",
				CurrentResidence:   "مزار شریف",
				NicNumber:          "1400-0101-00003",
			},
			fees: []seedFee{{monthsAgo: 2, total: 800, received: 200}},
		},
	}

	today := DateOf(time.Now())
	for _, entry := range athletes {
		athlete := entry.athlete
		athlete.DocumentPDF = SEED_DOCUMENT
		athlete.Photo = SEED_PHOTO

		if err := a.AthleteRepo.Create(ctx, &athlete); err != nil {
			if apperr.Is(err, apperr.KindConflict) {
				log.Info("Athlete already exists", "nic", athlete.NicNumber)
				continue
			}
			return log.Err("failed to create athlete", err, "nic", athlete.NicNumber)
		}

		for _, f := range entry.fees {
			start := today.Time().AddDate(0, -f.monthsAgo, 0)
			fee := &Fee{
				StartDate: DateOf(start),
				EndDate:   DateOf(start.AddDate(0, 1, -1)),
				Total:     decimal.NewFromInt(f.total),
				Received:  decimal.NewFromInt(f.received),
				AthleteID: athlete.ID,
			}
			if err := a.FeeRepo.Create(ctx, fee); err != nil {
				return log.Err("failed to create fee", err, "athleteID", athlete.ID)
			}
		}

		log.Info("Seeded athlete", "nic", athlete.NicNumber, "fees", len(entry.fees))
	}

	return nil
}
