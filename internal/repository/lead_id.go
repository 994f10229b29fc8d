package repository

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yukikurage/crm-api/internal/constants"
	"github.com/yukikurage/crm-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrLeadIDExhausted is returned when lead creation keeps colliding on the
// lead ID unique index or keeps losing lock conflicts. It is transient; the
// caller may retry the request.
var ErrLeadIDExhausted = errors.New("lead repository: lead id allocation retries exhausted")

// LeadIDPrefix returns the two digit year prefix for lead IDs, e.g. "26" for 2026.
func LeadIDPrefix(year int) string {
	return fmt.Sprintf("%02d", year%100)
}

// FormatLeadID joins a prefix and a sequence number, e.g. ("26", 7) -> "260007".
func FormatLeadID(prefix string, n int) string {
	return fmt.Sprintf("%s%0*d", prefix, constants.LeadIDSuffixWidth, n)
}

// parseLeadSuffix returns the sequence number of leadID, or 0 when it is
// missing or not numeric.
func parseLeadSuffix(leadID, prefix string) int {
	suffix, ok := strings.CutPrefix(leadID, prefix)
	if !ok || suffix == "" {
		return 0
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// allocateLeadID derives the next lead ID for the year of now. It must run
// inside the transaction that inserts the lead; the latest row for the
// prefix is read with a row lock where the dialect supports one.
func allocateLeadID(tx *gorm.DB, now time.Time) (string, error) {
	prefix := LeadIDPrefix(now.Year())

	var latest []models.Lead
	err := forUpdate(tx).
		Select("id", "lead_id").
		Where("lead_id LIKE ?", prefix+"%").
		Order("id DESC").
		Limit(1).
		Find(&latest).Error
	if err != nil {
		return "", fmt.Errorf("failed to read latest lead id: %w", err)
	}

	last := 0
	if len(latest) > 0 {
		last = parseLeadSuffix(latest[0].LeadID, prefix)
	}

	return FormatLeadID(prefix, last+1), nil
}

// isDuplicateKey reports whether err is a unique constraint violation.
// TranslateError covers the configured dialects; the message checks cover
// connections opened without it.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}

// MySQL and PostgreSQL codes for a transaction aborted by the lock manager
const (
	mysqlDeadlock          = 1213
	pgDeadlock             = "40P01"
	pgSerializationFailure = "40001"
)

// isLockConflict reports whether err aborted the transaction because of a
// deadlock or a serialization failure. Two first-of-year allocations on
// MySQL take overlapping gap locks and one of them is chosen as the victim.
func isLockConflict(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDeadlock
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgDeadlock || pgErr.Code == pgSerializationFailure
	}
	return false
}

// isAllocationConflict reports whether a failed create should be retried
// with a freshly allocated lead ID.
func isAllocationConflict(err error) bool {
	return isDuplicateKey(err) || isLockConflict(err)
}

// forShare adds a shared row lock on dialects that support SELECT ... FOR SHARE.
func forShare(tx *gorm.DB) *gorm.DB {
	if tx.Dialector != nil && tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: clause.LockingStrengthShare})
}

// forUpdate adds a row lock on dialects that support SELECT ... FOR UPDATE.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector != nil && tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
