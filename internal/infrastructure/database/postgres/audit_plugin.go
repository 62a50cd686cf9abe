package postgres

import (
	"reflect"
	"sort"
	"time"

	"account-rbac-service/internal/domain/audit"

	"gorm.io/gorm"
	"gorm.io/gorm/callbacks"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// auditPlugin applies the audit policy to every update and delete issued
// through gorm, whichever repository or call site issues it.
type auditPlugin struct {
	clock audit.Clock
}

func (p *auditPlugin) Name() string {
	return "audit_policy"
}

func (p *auditPlugin) Initialize(db *gorm.DB) error {
	if err := db.Callback().Update().Before("gorm:update").
		Register("audit:update", p.beforeUpdate); err != nil {
		return err
	}
	return db.Callback().Delete().Before("gorm:delete").
		Register("audit:soft_delete", p.beforeDelete)
}

func columnsOf(s *schema.Schema) audit.Columns {
	return audit.Columns{
		UpdatedAt: s.LookUpField(audit.ColumnUpdatedAt) != nil,
		SoftDelete: s.LookUpField(audit.ColumnIsDeleted) != nil &&
			s.LookUpField(audit.ColumnDeletedAt) != nil,
	}
}

// modelOf returns a zero value of the statement's model type, used for
// capability checks.
func modelOf(s *schema.Schema) interface{} {
	return reflect.New(s.ModelType).Interface()
}

func (p *auditPlugin) beforeUpdate(db *gorm.DB) {
	stmt := db.Statement
	if db.Error != nil || stmt.Schema == nil {
		return
	}

	cols := columnsOf(stmt.Schema)
	now := p.clock()

	switch dest := stmt.Dest.(type) {
	case map[string]interface{}:
		set := make(map[string]interface{}, len(dest)+2)
		for k, v := range dest {
			if field := stmt.Schema.LookUpField(k); field != nil {
				k = field.DBName
			}
			set[k] = v
		}

		audit.ApplyUpdate(set, cols, now)
		if hook, ok := modelOf(stmt.Schema).(audit.UpdateHook); ok {
			hook.AuditUpdate(set, now)
		}
		stmt.Dest = set
	default:
		// Struct updates (Save, Updates with a struct) carry every column.
		stmt.Omits = append(stmt.Omits, audit.ColumnCreatedAt)
		if cols.UpdatedAt {
			stmt.SetColumn(audit.ColumnUpdatedAt, now, true)
		}
		if cols.SoftDelete {
			p.syncDeletedAt(stmt, now)
		}
		if hook, ok := modelOf(stmt.Schema).(audit.UpdateHook); ok {
			p.applyStructHook(stmt, hook, now)
		}
	}
}

// applyStructHook builds the SET clause gorm:update would derive from the
// struct and passes it through the entity hook, so Save and struct Updates
// obey the same per-entity rules as map updates.
func (p *auditPlugin) applyStructHook(stmt *gorm.Statement, hook audit.UpdateHook, now time.Time) {
	if stmt.SQL.Len() > 0 {
		return
	}
	if _, ok := stmt.Clauses["SET"]; ok {
		return
	}

	assignments := callbacks.ConvertToAssignments(stmt)
	if stmt.Error != nil || len(assignments) == 0 {
		return
	}

	set := make(map[string]interface{}, len(assignments))
	for _, a := range assignments {
		set[a.Column.Name] = a.Value
	}
	hook.AuditUpdate(set, now)

	rebuilt := make(clause.Set, 0, len(set))
	for _, a := range assignments {
		if v, ok := set[a.Column.Name]; ok {
			rebuilt = append(rebuilt, clause.Assignment{Column: a.Column, Value: v})
			delete(set, a.Column.Name)
		}
	}
	added := make([]string, 0, len(set))
	for name := range set {
		added = append(added, name)
	}
	sort.Strings(added)
	for _, name := range added {
		rebuilt = append(rebuilt, clause.Assignment{Column: clause.Column{Name: name}, Value: set[name]})
	}

	if len(rebuilt) > 0 {
		stmt.AddClause(rebuilt)
	}
}

// syncDeletedAt keeps deleted_at consistent with is_deleted on struct updates.
func (p *auditPlugin) syncDeletedAt(stmt *gorm.Statement, now time.Time) {
	isDeleted := stmt.Schema.LookUpField(audit.ColumnIsDeleted)
	deletedAt := stmt.Schema.LookUpField(audit.ColumnDeletedAt)

	value := reflect.Indirect(reflect.ValueOf(stmt.Dest))
	if value.Kind() != reflect.Struct {
		return
	}

	flag, _ := isDeleted.ValueOf(stmt.Context, value)
	current, zero := deletedAt.ValueOf(stmt.Context, value)

	deleted, _ := flag.(bool)
	switch {
	case deleted && zero:
		stmt.SetColumn(audit.ColumnDeletedAt, &now, true)
	case !deleted && current != nil && !zero:
		stmt.SetColumn(audit.ColumnDeletedAt, nil, true)
	}
}

// beforeDelete turns deletes on soft-delete-only models into an update of the
// soft-delete columns. The built UPDATE is executed by gorm:delete in place
// of the DELETE, and its affected rows are reported to the caller. A delete
// with neither conditions nor primary key values fails with
// gorm.ErrMissingWhereClause unless AllowGlobalUpdate is set.
func (p *auditPlugin) beforeDelete(db *gorm.DB) {
	stmt := db.Statement
	if db.Error != nil || stmt.Schema == nil || stmt.Unscoped || stmt.SQL.Len() > 0 {
		return
	}
	if _, ok := modelOf(stmt.Schema).(audit.SoftDeleteOnly); !ok {
		return
	}

	_, queryValues := schema.GetIdentityFieldValuesMap(stmt.Context, stmt.ReflectValue, stmt.Schema.PrimaryFields)
	column, values := schema.ToQueryValues(stmt.Table, stmt.Schema.PrimaryFieldDBNames, queryValues)
	if len(values) == 0 && !hasWhere(stmt) && !stmt.AllowGlobalUpdate {
		_ = db.AddError(gorm.ErrMissingWhereClause)
		return
	}

	now := p.clock()
	set := clause.Set{
		{Column: clause.Column{Name: audit.ColumnIsDeleted}, Value: true},
		{Column: clause.Column{Name: audit.ColumnDeletedAt}, Value: now},
	}
	if stmt.Schema.LookUpField(audit.ColumnUpdatedAt) != nil {
		set = append(set, clause.Assignment{Column: clause.Column{Name: audit.ColumnUpdatedAt}, Value: now})
	}
	stmt.AddClause(set)

	if len(values) > 0 {
		stmt.AddClause(clause.Where{Exprs: []clause.Expression{clause.IN{Column: column, Values: values}}})
	}
	stmt.AddClause(clause.Where{Exprs: []clause.Expression{
		clause.Eq{Column: clause.Column{Name: audit.ColumnIsDeleted}, Value: false},
	}})

	stmt.AddClauseIfNotExists(clause.Update{})
	stmt.Build(stmt.DB.Callback().Update().Clauses...)
}

// hasWhere reports whether the caller gave the statement any conditions.
func hasWhere(stmt *gorm.Statement) bool {
	c, ok := stmt.Clauses["WHERE"]
	if !ok {
		return false
	}
	where, ok := c.Expression.(clause.Where)
	return ok && len(where.Exprs) > 0
}
