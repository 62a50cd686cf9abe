// Package audit holds the lifecycle rules shared by every persisted entity:
// timestamp maintenance, the soft-delete flag/timestamp pairing and the
// delete capability of an entity type. Storage adapters apply these rules on
// every write path instead of duplicating them per call site.
package audit

import "time"

const (
	ColumnCreatedAt = "created_at"
	ColumnUpdatedAt = "updated_at"
	ColumnIsDeleted = "is_deleted"
	ColumnDeletedAt = "deleted_at"
)

// Clock returns the current time for all audit stamps.
type Clock func() time.Time

// SystemClock is the wall clock in UTC at microsecond precision, matching what
// the database can store.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// SoftDelete is the is_deleted/deleted_at pair of a soft-deletable entity.
type SoftDelete struct {
	IsDeleted bool
	DeletedAt *time.Time
}

// Consistent reports whether the pair satisfies is_deleted ⟺ deleted_at != nil.
func (s SoftDelete) Consistent() bool {
	return s.IsDeleted == (s.DeletedAt != nil)
}

// Timestamps are carried by every mutable entity.
type Timestamps struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Columns describes which audit columns a table carries.
type Columns struct {
	UpdatedAt  bool
	SoftDelete bool
}

// SoftDeleteOnly is implemented by entity types whose deletes are recorded as
// soft deletes. The row is kept with is_deleted set.
type SoftDeleteOnly interface {
	SoftDeleteOnly()
}

// UpdateHook lets an entity type add its own rules to an update set after
// the shared rules ran.
type UpdateHook interface {
	AuditUpdate(set map[string]interface{}, now time.Time)
}

// ApplyUpdate rewrites an update set (keyed by column name) so it obeys the
// policy: created_at is never written, updated_at is forced to now, and
// deleted_at only ever follows an is_deleted assignment.
func ApplyUpdate(set map[string]interface{}, cols Columns, now time.Time) {
	delete(set, ColumnCreatedAt)

	if cols.UpdatedAt {
		set[ColumnUpdatedAt] = now
	}

	if !cols.SoftDelete {
		return
	}

	v, ok := set[ColumnIsDeleted]
	if !ok {
		delete(set, ColumnDeletedAt)
		return
	}

	deleted, isBool := v.(bool)
	if !isBool {
		delete(set, ColumnIsDeleted)
		delete(set, ColumnDeletedAt)
		return
	}

	if deleted {
		set[ColumnDeletedAt] = now
	} else {
		set[ColumnDeletedAt] = nil
	}
}

// SoftDeleteAssignments is the update a soft delete performs.
func SoftDeleteAssignments(now time.Time) map[string]interface{} {
	return map[string]interface{}{
		ColumnIsDeleted: true,
		ColumnDeletedAt: now,
		ColumnUpdatedAt: now,
	}
}
