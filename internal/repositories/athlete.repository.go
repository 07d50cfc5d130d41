package repositories

import (
	"context"

	"github.com/AbbasAlizada1380/mellat/internal/apperr"
	"github.com/AbbasAlizada1380/mellat/internal/database"
	"github.com/AbbasAlizada1380/mellat/internal/logger"
	. "github.com/AbbasAlizada1380/mellat/internal/models"
	"github.com/AbbasAlizada1380/mellat/internal/services"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var athleteUpdateColumns = []string{
	"full_name",
	"father_name",
	"permanent_residence",
	"current_residence",
	"nic_number",
	"document_pdf",
	"photo",
	"updated_at",
}

type AthleteRepository interface {
	Create(ctx context.Context, athlete *Athlete) error
	GetByID(ctx context.Context, id uint) (*Athlete, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, page PageRequest) ([]Athlete, int64, error)
	Search(ctx context.Context, query string, page PageRequest) ([]Athlete, int64, error)
	Update(ctx context.Context, athlete *Athlete) error
	Delete(ctx context.Context, id uint) error
}

type athleteRepository struct {
	db  database.DB
	log logger.Logger
}

func NewAthlete(db database.DB) AthleteRepository {
	return &athleteRepository{
		db:  db,
		log: logger.New("athleteRepository"),
	}
}

func (r *athleteRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *athleteRepository) Create(ctx context.Context, athlete *Athlete) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Omit(clause.Associations).Create(athlete).Error; err != nil {
		err = translateError(err, MSG_ATHLETE_NOT_FOUND)
		if apperr.Is(err, apperr.KindConflict) {
			return err
		}
		return log.Err("failed to create athlete", err, "nicNumber", athlete.NicNumber)
	}

	return nil
}

func (r *athleteRepository) GetByID(ctx context.Context, id uint) (*Athlete, error) {
	var athlete Athlete
	if err := r.getDB(ctx).First(&athlete, id).Error; err != nil {
		err = translateError(err, MSG_ATHLETE_NOT_FOUND)
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, err
		}
		return nil, r.log.Function("GetByID").Err("failed to get athlete", err, "id", id)
	}

	return &athlete, nil
}

func (r *athleteRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.getDB(ctx).Model(&Athlete{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, r.log.Function("Exists").Err("failed to check athlete", err, "id", id)
	}

	return count > 0, nil
}

func (r *athleteRepository) List(
	ctx context.Context,
	page PageRequest,
) ([]Athlete, int64, error) {
	return r.list(ctx, "List", page, func(db *gorm.DB) *gorm.DB { return db })
}

func (r *athleteRepository) Search(
	ctx context.Context,
	query string,
	page PageRequest,
) ([]Athlete, int64, error) {
	return r.list(ctx, "Search", page, matchAny(AthleteSearchFields, query))
}

func (r *athleteRepository) list(
	ctx context.Context,
	function string,
	page PageRequest,
	filter func(*gorm.DB) *gorm.DB,
) ([]Athlete, int64, error) {
	log := r.log.Function(function)
	db := r.getDB(ctx)

	var total int64
	if err := db.Model(&Athlete{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, log.Err("failed to count athletes", err)
	}

	athletes := []Athlete{}
	if total == 0 {
		return athletes, 0, nil
	}

	err := db.Scopes(filter, paginate(page)).
		Order(ORDER_NEWEST_FIRST).
		Find(&athletes).Error
	if err != nil {
		return nil, 0, log.Err("failed to list athletes", err, "page", page.Page, "limit", page.Limit)
	}

	return athletes, total, nil
}

func (r *athleteRepository) Update(ctx context.Context, athlete *Athlete) error {
	log := r.log.Function("Update")

	result := r.getDB(ctx).
		Model(athlete).
		Omit(clause.Associations).
		Select(athleteUpdateColumns).
		Updates(athlete)
	if result.Error != nil {
		err := translateError(result.Error, MSG_ATHLETE_NOT_FOUND)
		if apperr.Is(err, apperr.KindConflict) {
			return err
		}
		return log.Err("failed to update athlete", err, "id", athlete.ID)
	}

	if result.RowsAffected == 0 {
		return apperr.NotFound(MSG_ATHLETE_NOT_FOUND)
	}

	return nil
}

// Delete removes the athlete; the fees foreign key cascades.
func (r *athleteRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&Athlete{}, id)
	if result.Error != nil {
		return r.log.Function("Delete").Err("failed to delete athlete", result.Error, "id", id)
	}

	if result.RowsAffected == 0 {
		return apperr.NotFound(MSG_ATHLETE_NOT_FOUND)
	}

	return nil
}
