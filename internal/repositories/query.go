package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AbbasAlizada1380/mellat/internal/apperr"
	. "github.com/AbbasAlizada1380/mellat/internal/models"

	"gorm.io/gorm"
)

const (
	MSG_ATHLETE_NOT_FOUND = "Athlete not found"
	MSG_FEE_NOT_FOUND     = "Fee not found"
	MSG_USER_NOT_FOUND    = "User not found"
	MSG_NIC_EXISTS        = "NIC number already exists"

	ORDER_NEWEST_FIRST = "created_at DESC, id DESC"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern lowers query and escapes LIKE wildcards so user input
// only ever matches literally.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
}

// matchAny is a case-insensitive substring match on any of fields.
func matchAny(fields []string, query string) func(*gorm.DB) *gorm.DB {
	pattern := containsPattern(query)
	conditions := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for _, field := range fields {
		conditions = append(conditions, fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, field))
		args = append(args, pattern)
	}

	return func(db *gorm.DB) *gorm.DB {
		return db.Where("("+strings.Join(conditions, " OR ")+")", args...)
	}
}

func paginate(page PageRequest) func(*gorm.DB) *gorm.DB {
	page = page.Normalized()
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(page.Offset()).Limit(page.Limit)
	}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "violates foreign key constraint")
}

// translateError tags storage errors with the category the API reports.
// Untagged errors stay internal.
func translateError(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.Wrap(apperr.KindNotFound, notFound, err)
	case isDuplicateKey(err):
		return apperr.Wrap(apperr.KindConflict, MSG_NIC_EXISTS, err)
	case isForeignKeyViolation(err):
		return apperr.Wrap(apperr.KindNotFound, MSG_ATHLETE_NOT_FOUND, err)
	default:
		return err
	}
}
