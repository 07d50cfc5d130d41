package feeController

import (
	"context"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/AbbasAlizada1380/mellat/config"
	"github.com/AbbasAlizada1380/mellat/internal/apperr"
	"github.com/AbbasAlizada1380/mellat/internal/logger"
	. "github.com/AbbasAlizada1380/mellat/internal/models"
	"github.com/AbbasAlizada1380/mellat/internal/reports"
	"github.com/AbbasAlizada1380/mellat/internal/repositories"
	"github.com/AbbasAlizada1380/mellat/internal/services"

	"github.com/shopspring/decimal"
)

const (
	MSG_CREATE_REQUIRED = "startDate, endDate, total and athleteId are required"
	MSG_RANGE_REQUIRED  = "startDate and endDate are required"
	MSG_RANGE_INVALID   = "startDate and endDate must be valid dates"
	MSG_QUERY_REQUIRED  = "Search query is required"
	MSG_FORMAT_INVALID  = "format must be xlsx or csv"
)

type FeeController struct {
	feeRepo            repositories.FeeRepository
	athleteRepo        repositories.AthleteRepository
	transactionService *services.TransactionService
	notifications      *services.NotificationService
	policy             OverpaymentPolicy
	location           *time.Location
	now                func() time.Time
	log                logger.Logger
}

func New(
	feeRepo repositories.FeeRepository,
	athleteRepo repositories.AthleteRepository,
	transactionService *services.TransactionService,
	notifications *services.NotificationService,
	config config.Config,
) (*FeeController, error) {
	log := logger.New("FeeController")

	location := time.UTC
	if config.AppTimezone != "" {
		loaded, err := time.LoadLocation(config.AppTimezone)
		if err != nil {
			return nil, log.Function("New").Err("failed to load timezone", err, "timezone", config.AppTimezone)
		}
		location = loaded
	}

	policy := OverpaymentPolicy(config.FeesOverpaymentPolicy)
	if policy == "" {
		policy = OverpaymentAllow
	}

	return &FeeController{
		feeRepo:            feeRepo,
		athleteRepo:        athleteRepo,
		transactionService: transactionService,
		notifications:      notifications,
		policy:             policy,
		location:           location,
		now:                time.Now,
		log:                log,
	}, nil
}

// SetClock replaces the time source used for "today".
func (fc *FeeController) SetClock(now func() time.Time) {
	fc.now = now
}

// Today is the current calendar date in the configured time zone.
func (fc *FeeController) Today() Date {
	return DateOf(fc.now().In(fc.location))
}

func (fc *FeeController) Create(
	ctx context.Context,
	request CreateFeeRequest,
	userID uint,
) (*Fee, error) {
	log := fc.log.Function("Create")

	if request.StartDate == nil || request.StartDate.IsZero() ||
		request.EndDate == nil || request.EndDate.IsZero() ||
		request.Total == nil ||
		request.AthleteID == nil || *request.AthleteID == 0 {
		return nil, apperr.Validation(MSG_CREATE_REQUIRED)
	}

	fee := &Fee{
		StartDate: *request.StartDate,
		EndDate:   *request.EndDate,
		Total:     *request.Total,
		Received:  decimal.Zero,
		AthleteID: *request.AthleteID,
	}
	if request.Received != nil {
		fee.Received = *request.Received
	}

	if err := fee.Recalculate(fc.policy); err != nil {
		return nil, err
	}

	var created *Fee
	err := fc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		exists, err := fc.athleteRepo.Exists(txCtx, fee.AthleteID)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.NotFound(repositories.MSG_ATHLETE_NOT_FOUND)
		}

		if err := fc.feeRepo.Create(txCtx, fee); err != nil {
			return err
		}

		created, err = fc.feeRepo.GetByID(txCtx, fee.ID)
		return err
	})
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, err
		}
		return nil, log.Err("failed to create fee", err, "athleteID", fee.AthleteID)
	}

	fc.notifications.FeeChanged(services.ActionCreated, created.ID, created.AthleteID, userID)
	return created, nil
}

func (fc *FeeController) Get(ctx context.Context, id uint) (*Fee, error) {
	return fc.feeRepo.GetByID(ctx, id)
}

func (fc *FeeController) List(ctx context.Context, page PageRequest) (Page[Fee], error) {
	fees, total, err := fc.feeRepo.List(ctx, page)
	if err != nil {
		return Page[Fee]{}, err
	}
	return NewPage(fees, page, total), nil
}

// Active lists the fees whose period contains today.
func (fc *FeeController) Active(ctx context.Context, page PageRequest) (Page[Fee], error) {
	fees, total, err := fc.feeRepo.ListActive(ctx, fc.Today(), page)
	if err != nil {
		return Page[Fee]{}, err
	}
	return NewPage(fees, page, total), nil
}

func (fc *FeeController) Search(
	ctx context.Context,
	query string,
	page PageRequest,
) (Page[Fee], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Page[Fee]{}, apperr.Validation(MSG_QUERY_REQUIRED)
	}

	fees, total, err := fc.feeRepo.Search(ctx, query, page)
	if err != nil {
		return Page[Fee]{}, err
	}
	return NewPage(fees, page, total), nil
}

// ParseRange validates the report bounds taken from the query string.
func ParseRange(rawStart, rawEnd string) (Date, Date, error) {
	rawStart, rawEnd = strings.TrimSpace(rawStart), strings.TrimSpace(rawEnd)
	if rawStart == "" || rawEnd == "" {
		return Date{}, Date{}, apperr.Validation(MSG_RANGE_REQUIRED)
	}

	start, err := ParseDate(rawStart)
	if err != nil {
		return Date{}, Date{}, apperr.Wrap(apperr.KindValidation, MSG_RANGE_INVALID, err)
	}
	end, err := ParseDate(rawEnd)
	if err != nil {
		return Date{}, Date{}, apperr.Wrap(apperr.KindValidation, MSG_RANGE_INVALID, err)
	}

	return start, end, nil
}

// Range is the report of fees whose end date lies in [start, end].
func (fc *FeeController) Range(ctx context.Context, rawStart, rawEnd string) ([]Fee, error) {
	start, end, err := ParseRange(rawStart, rawEnd)
	if err != nil {
		return nil, err
	}
	return fc.feeRepo.ListByEndDateRange(ctx, start, end)
}

// ExportRange renders Range as an xlsx workbook or csv file.
func (fc *FeeController) ExportRange(
	ctx context.Context,
	rawStart, rawEnd, rawFormat string,
) (reports.Export, error) {
	log := fc.log.Function("ExportRange")

	start, end, err := ParseRange(rawStart, rawEnd)
	if err != nil {
		return reports.Export{}, err
	}

	format, err := reports.ParseFormat(rawFormat)
	if err != nil {
		return reports.Export{}, apperr.Wrap(apperr.KindValidation, MSG_FORMAT_INVALID, err)
	}

	fees, err := fc.feeRepo.ListByEndDateRange(ctx, start, end)
	if err != nil {
		return reports.Export{}, err
	}

	export, err := reports.RangeExport(fees, start, end, format)
	if err != nil {
		return reports.Export{}, log.Err("failed to build export", err, "start", start, "end", end, "format", format)
	}

	return export, nil
}

// Bill builds the printable receipt of one fee.
func (fc *FeeController) Bill(ctx context.Context, id uint) (reports.Bill, error) {
	fee, err := fc.feeRepo.GetByID(ctx, id)
	if err != nil {
		return reports.Bill{}, err
	}
	return reports.NewBill(*fee, fc.now().In(fc.location)), nil
}

// Update replaces the supplied fields and recomputes Remained.
func (fc *FeeController) Update(
	ctx context.Context,
	id uint,
	request UpdateFeeRequest,
	userID uint,
) (*Fee, error) {
	log := fc.log.Function("Update")

	fee, err := fc.feeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if request.StartDate != nil && !request.StartDate.IsZero() {
		fee.StartDate = *request.StartDate
	}
	if request.EndDate != nil && !request.EndDate.IsZero() {
		fee.EndDate = *request.EndDate
	}
	if request.Total != nil {
		fee.Total = *request.Total
	}
	if request.Received != nil {
		fee.Received = *request.Received
	}

	if err := fee.Recalculate(fc.policy); err != nil {
		return nil, err
	}

	if err := fc.feeRepo.Update(ctx, fee); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, err
		}
		return nil, log.Err("failed to update fee", err, "id", id)
	}

	fc.notifications.FeeChanged(services.ActionUpdated, fee.ID, fee.AthleteID, userID)
	return fee, nil
}

func (fc *FeeController) Delete(ctx context.Context, id uint, userID uint) error {
	fee, err := fc.feeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := fc.feeRepo.Delete(ctx, id); err != nil {
		return err
	}

	fc.notifications.FeeChanged(services.ActionDeleted, id, fee.AthleteID, userID)
	return nil
}
