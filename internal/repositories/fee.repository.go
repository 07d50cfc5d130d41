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

const ORDER_ACTIVE = "start_date ASC, id ASC"

var feeUpdateColumns = []string{
	"start_date",
	"end_date",
	"total",
	"received",
	"remained",
	"updated_at",
}

type FeeRepository interface {
	Create(ctx context.Context, fee *Fee) error
	GetByID(ctx context.Context, id uint) (*Fee, error)
	List(ctx context.Context, page PageRequest) ([]Fee, int64, error)
	ListByAthlete(ctx context.Context, athleteID uint, page PageRequest) ([]Fee, int64, error)
	ListActive(ctx context.Context, day Date, page PageRequest) ([]Fee, int64, error)
	Search(ctx context.Context, query string, page PageRequest) ([]Fee, int64, error)
	ListByEndDateRange(ctx context.Context, start, end Date) ([]Fee, error)
	Update(ctx context.Context, fee *Fee) error
	Delete(ctx context.Context, id uint) error
}

type feeRepository struct {
	db  database.DB
	log logger.Logger
}

func NewFee(db database.DB) FeeRepository {
	return &feeRepository{
		db:  db,
		log: logger.New("feeRepository"),
	}
}

func (r *feeRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func withAthleteSummary(db *gorm.DB) *gorm.DB {
	return db.Preload("Athlete", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "full_name", "nic_number")
	})
}

// Create inserts fee with Remained derived from Total and Received. A
// missing athlete surfaces as a not-found error from the foreign key.
func (r *feeRepository) Create(ctx context.Context, fee *Fee) error {
	fee.Remained = ComputeRemained(fee.Total, fee.Received)

	if err := r.getDB(ctx).Omit(clause.Associations).Create(fee).Error; err != nil {
		err = translateError(err, MSG_ATHLETE_NOT_FOUND)
		if apperr.Is(err, apperr.KindNotFound) {
			return err
		}
		return r.log.Function("Create").Err("failed to create fee", err, "athleteID", fee.AthleteID)
	}

	return nil
}

func (r *feeRepository) GetByID(ctx context.Context, id uint) (*Fee, error) {
	var fee Fee
	if err := r.getDB(ctx).Scopes(withAthleteSummary).First(&fee, id).Error; err != nil {
		err = translateError(err, MSG_FEE_NOT_FOUND)
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, err
		}
		return nil, r.log.Function("GetByID").Err("failed to get fee", err, "id", id)
	}

	return &fee, nil
}

func (r *feeRepository) List(ctx context.Context, page PageRequest) ([]Fee, int64, error) {
	return r.list(ctx, "List", page, ORDER_NEWEST_FIRST, func(db *gorm.DB) *gorm.DB { return db })
}

func (r *feeRepository) ListByAthlete(
	ctx context.Context,
	athleteID uint,
	page PageRequest,
) ([]Fee, int64, error) {
	return r.list(ctx, "ListByAthlete", page, ORDER_NEWEST_FIRST, func(db *gorm.DB) *gorm.DB {
		return db.Where("athlete_id = ?", athleteID)
	})
}

// ListActive returns fees whose [start_date, end_date] contains day.
func (r *feeRepository) ListActive(
	ctx context.Context,
	day Date,
	page PageRequest,
) ([]Fee, int64, error) {
	return r.list(ctx, "ListActive", page, ORDER_ACTIVE, func(db *gorm.DB) *gorm.DB {
		return db.Where("start_date <= ? AND end_date >= ?", day, day)
	})
}

// Search returns the fees of every athlete whose name, father name or NIC
// contains query.
func (r *feeRepository) Search(
	ctx context.Context,
	query string,
	page PageRequest,
) ([]Fee, int64, error) {
	athleteIDs := r.getDB(ctx).
		Model(&Athlete{}).
		Select("id").
		Scopes(matchAny(FeeAthleteSearchFields, query))

	return r.list(ctx, "Search", page, ORDER_NEWEST_FIRST, func(db *gorm.DB) *gorm.DB {
		return db.Where("athlete_id IN (?)", athleteIDs)
	})
}

func (r *feeRepository) list(
	ctx context.Context,
	function string,
	page PageRequest,
	order string,
	filter func(*gorm.DB) *gorm.DB,
) ([]Fee, int64, error) {
	log := r.log.Function(function)
	db := r.getDB(ctx)

	var total int64
	if err := db.Model(&Fee{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, log.Err("failed to count fees", err)
	}

	fees := []Fee{}
	if total == 0 {
		return fees, 0, nil
	}

	err := db.Scopes(filter, withAthleteSummary, paginate(page)).
		Order(order).
		Find(&fees).Error
	if err != nil {
		return nil, 0, log.Err("failed to list fees", err, "page", page.Page, "limit", page.Limit)
	}

	return fees, total, nil
}

// ListByEndDateRange is the report query: every fee whose end_date falls in
// [start, end], newest first, unpaginated.
func (r *feeRepository) ListByEndDateRange(ctx context.Context, start, end Date) ([]Fee, error) {
	fees := []Fee{}
	err := r.getDB(ctx).
		Scopes(withAthleteSummary).
		Where("end_date BETWEEN ? AND ?", start, end).
		Order(ORDER_NEWEST_FIRST).
		Find(&fees).Error
	if err != nil {
		return nil, r.log.Function("ListByEndDateRange").
			Err("failed to list fees by range", err, "start", start, "end", end)
	}

	return fees, nil
}

func (r *feeRepository) Update(ctx context.Context, fee *Fee) error {
	fee.Remained = ComputeRemained(fee.Total, fee.Received)

	result := r.getDB(ctx).
		Model(fee).
		Omit(clause.Associations).
		Select(feeUpdateColumns).
		Updates(fee)
	if result.Error != nil {
		return r.log.Function("Update").Err("failed to update fee", result.Error, "id", fee.ID)
	}

	if result.RowsAffected == 0 {
		return apperr.NotFound(MSG_FEE_NOT_FOUND)
	}

	return nil
}

func (r *feeRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&Fee{}, id)
	if result.Error != nil {
		return r.log.Function("Delete").Err("failed to delete fee", result.Error, "id", id)
	}

	if result.RowsAffected == 0 {
		return apperr.NotFound(MSG_FEE_NOT_FOUND)
	}

	return nil
}
