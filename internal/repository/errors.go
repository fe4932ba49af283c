// Package repository implements the persistent store on MySQL.  Each
// repository wraps a *sql.DB and exposes context-aware methods that the
// service layer consumes through its own interfaces.  Missing rows are
// reported as model.ErrNotFound; duplicate keys and dangling foreign
// keys are translated from MySQL error numbers into model.ErrConflict
// and model.ErrInvalidArgument.  Every other driver error is returned
// untouched so the caller can wrap it as a store failure.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/game-club-manager/internal/model"
)

// MySQL server error numbers the repositories care about.
const (
	mysqlDuplicateEntry  = 1062 // ER_DUP_ENTRY
	mysqlRowIsReferenced = 1451 // ER_ROW_IS_REFERENCED_2
	mysqlNoReferencedRow = 1452 // ER_NO_REFERENCED_ROW_2
)

// notFound maps sql.ErrNoRows to a model.ErrNotFound naming the entity.
func notFound(err error, entity string, id any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.NotFoundf("%s %v", entity, id)
	}
	return err
}

// mapWriteError translates constraint violations raised by INSERT,
// UPDATE and DELETE statements.
func mapWriteError(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case mysqlDuplicateEntry:
		return model.Conflictf("%s", me.Message)
	case mysqlRowIsReferenced:
		return model.Conflictf("still referenced: %s", me.Message)
	case mysqlNoReferencedRow:
		return model.InvalidArgumentf("unknown reference: %s", me.Message)
	}
	return err
}

// affectedOrNotFound turns a zero-row UPDATE into model.ErrNotFound.
func affectedOrNotFound(res sql.Result, entity string, id any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.NotFoundf("%s %v", entity, id)
	}
	return nil
}
