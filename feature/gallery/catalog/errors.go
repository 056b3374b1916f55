package catalog

import (
	"errors"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateID means the drawn media id is already taken. Retryable:
	// the allocator redraws and tries again.
	ErrDuplicateID = errors.New("media id already allocated")

	// ErrDuplicateKey means the object key is already registered. Not
	// retryable: a key has at most one record, ever, so redrawing ids would
	// spin forever.
	ErrDuplicateKey = errors.New("object key already registered")

	// ErrIDSpaceExhausted means the allocator gave up after its bounded
	// retry budget. With a fixed 100,000-value id space this signals the
	// catalog is approaching capacity, not a transient fault.
	ErrIDSpaceExhausted = errors.New("media id space exhausted")
)

const mysqlDuplicateEntry = 1062

// classifyInsertError maps a driver-level insert failure onto the catalog's
// error taxonomy. Which unique constraint fired decides retryability, so the
// constraint name is inspected: the original_key index means the key is
// permanently owned, anything else duplicate is an id collision.
func classifyInsertError(err error) error {
	if err == nil {
		return nil
	}

	var mysqlErr *gomysql.MySQLError
	switch {
	case errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry:
	case strings.Contains(err.Error(), "UNIQUE constraint failed"): // sqlite
	case errors.Is(err, gorm.ErrDuplicatedKey):
	default:
		return err
	}

	if strings.Contains(err.Error(), "original_key") {
		return ErrDuplicateKey
	}
	return ErrDuplicateID
}
