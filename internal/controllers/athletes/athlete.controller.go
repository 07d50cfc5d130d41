package athleteController

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/AbbasAlizada1380/mellat/internal/apperr"
	"github.com/AbbasAlizada1380/mellat/internal/logger"
	. "github.com/AbbasAlizada1380/mellat/internal/models"
	"github.com/AbbasAlizada1380/mellat/internal/repositories"
	"github.com/AbbasAlizada1380/mellat/internal/services"
)

const (
	MSG_FIELDS_REQUIRED = "All fields are required."
	MSG_QUERY_REQUIRED  = "Search query is required"
)

// Files are the uploads that accompany an athlete form. On update either
// may be nil to keep the stored file.
type Files struct {
	Document *multipart.FileHeader
	Photo    *multipart.FileHeader
}

type AthleteController struct {
	athleteRepo        repositories.AthleteRepository
	feeRepo            repositories.FeeRepository
	storage            services.FileStorage
	transactionService *services.TransactionService
	notifications      *services.NotificationService
	log                logger.Logger
}

func New(
	athleteRepo repositories.AthleteRepository,
	feeRepo repositories.FeeRepository,
	storage services.FileStorage,
	transactionService *services.TransactionService,
	notifications *services.NotificationService,
) *AthleteController {
	return &AthleteController{
		athleteRepo:        athleteRepo,
		feeRepo:            feeRepo,
		storage:            storage,
		transactionService: transactionService,
		notifications:      notifications,
		log:                logger.New("AthleteController"),
	}
}

// Create stores both files and then the row. Files written for a row that
// fails to insert are removed again.
func (ac *AthleteController) Create(
	ctx context.Context,
	fields AthleteFields,
	files Files,
	userID uint,
) (*Athlete, error) {
	log := ac.log.Function("Create")

	fields = fields.Trimmed()
	if !fields.Complete() || files.Document == nil || files.Photo == nil {
		return nil, apperr.Validation(MSG_FIELDS_REQUIRED)
	}

	documentRef, err := ac.storage.Save(ctx, services.FileKindDocument, files.Document)
	if err != nil {
		return nil, err
	}

	photoRef, err := ac.storage.Save(ctx, services.FileKindPhoto, files.Photo)
	if err != nil {
		ac.removeFiles(ctx, documentRef)
		return nil, err
	}

	athlete := &Athlete{
		FullName:           fields.FullName,
		FatherName:         fields.FatherName,
		PermanentResidence: fields.PermanentResidence,
		CurrentResidence:   fields.CurrentResidence,
		NicNumber:          fields.NicNumber,
		DocumentPDF:        documentRef,
		Photo:              photoRef,
	}

	if err := ac.athleteRepo.Create(ctx, athlete); err != nil {
		ac.removeFiles(ctx, documentRef, photoRef)
		if apperr.Is(err, apperr.KindConflict) {
			return nil, err
		}
		return nil, log.Err("failed to create athlete", err)
	}

	log.Info("Athlete created", "id", athlete.ID, "userID", userID)
	ac.notifications.AthleteChanged(services.ActionCreated, athlete.ID, userID)

	return athlete, nil
}

func (ac *AthleteController) Get(ctx context.Context, id uint) (*Athlete, error) {
	return ac.athleteRepo.GetByID(ctx, id)
}

func (ac *AthleteController) List(ctx context.Context, page PageRequest) (Page[Athlete], error) {
	athletes, total, err := ac.athleteRepo.List(ctx, page)
	if err != nil {
		return Page[Athlete]{}, err
	}
	return NewPage(athletes, page, total), nil
}

func (ac *AthleteController) Search(
	ctx context.Context,
	query string,
	page PageRequest,
) (Page[Athlete], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Page[Athlete]{}, apperr.Validation(MSG_QUERY_REQUIRED)
	}

	athletes, total, err := ac.athleteRepo.Search(ctx, query, page)
	if err != nil {
		return Page[Athlete]{}, err
	}
	return NewPage(athletes, page, total), nil
}

// Fees lists the fee collection of one athlete.
func (ac *AthleteController) Fees(
	ctx context.Context,
	athleteID uint,
	page PageRequest,
) (Page[Fee], error) {
	exists, err := ac.athleteRepo.Exists(ctx, athleteID)
	if err != nil {
		return Page[Fee]{}, err
	}
	if !exists {
		return Page[Fee]{}, apperr.NotFound(repositories.MSG_ATHLETE_NOT_FOUND)
	}

	fees, total, err := ac.feeRepo.ListByAthlete(ctx, athleteID, page)
	if err != nil {
		return Page[Fee]{}, err
	}
	return NewPage(fees, page, total), nil
}

// Update applies the present fields and swaps any replaced file. Old files
// are removed only after the row points at the new ones.
func (ac *AthleteController) Update(
	ctx context.Context,
	id uint,
	request UpdateAthleteRequest,
	files Files,
	userID uint,
) (*Athlete, error) {
	log := ac.log.Function("Update")

	athlete, err := ac.athleteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !request.Apply(athlete) {
		return nil, apperr.Validation(MSG_FIELDS_REQUIRED)
	}

	var written, replaced []string
	if files.Document != nil {
		ref, err := ac.storage.Save(ctx, services.FileKindDocument, files.Document)
		if err != nil {
			return nil, err
		}
		written = append(written, ref)
		replaced = append(replaced, athlete.DocumentPDF)
		athlete.DocumentPDF = ref
	}
	if files.Photo != nil {
		ref, err := ac.storage.Save(ctx, services.FileKindPhoto, files.Photo)
		if err != nil {
			ac.removeFiles(ctx, written...)
			return nil, err
		}
		written = append(written, ref)
		replaced = append(replaced, athlete.Photo)
		athlete.Photo = ref
	}

	if err := ac.athleteRepo.Update(ctx, athlete); err != nil {
		ac.removeFiles(ctx, written...)
		if apperr.Is(err, apperr.KindConflict) || apperr.Is(err, apperr.KindNotFound) {
			return nil, err
		}
		return nil, log.Err("failed to update athlete", err, "id", id)
	}

	ac.removeFiles(ctx, replaced...)
	ac.notifications.AthleteChanged(services.ActionUpdated, athlete.ID, userID)

	return athlete, nil
}

// Delete removes the athlete and, through the foreign key, its fees. The
// stored files go afterwards on a best-effort basis.
func (ac *AthleteController) Delete(ctx context.Context, id uint, userID uint) error {
	log := ac.log.Function("Delete")

	var athlete *Athlete
	err := ac.transactionService.Execute(ctx, func(txCtx context.Context) error {
		found, err := ac.athleteRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		athlete = found
		return ac.athleteRepo.Delete(txCtx, id)
	})
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return err
		}
		return log.Err("failed to delete athlete", err, "id", id)
	}

	ac.removeFiles(ctx, athlete.DocumentPDF, athlete.Photo)
	log.Info("Athlete deleted", "id", id, "userID", userID)
	ac.notifications.AthleteChanged(services.ActionDeleted, id, userID)

	return nil
}

func (ac *AthleteController) removeFiles(ctx context.Context, refs ...string) {
	for _, ref := range refs {
		if err := ac.storage.Remove(ctx, ref); err != nil {
			ac.log.Function("removeFiles").Warn("failed to remove stored file", "ref", ref, "error", err)
		}
	}
}
