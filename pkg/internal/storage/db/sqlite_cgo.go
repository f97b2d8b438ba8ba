//go:build !no_sqlite && cgo

package db

import (
	"errors"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeisme/filevault/pkg/configs"
)

// createSQLiteDialector 创建SQLite dialector (CGo版本)，连接上开启外键约束.
func createSQLiteDialector(dsn string) gorm.Dialector {
	return sqlite.Open(withDSNParam(dsn, "_foreign_keys=1"))
}

func isSQLiteDuplicate(err error) bool {
	var liteErr sqlite3.Error
	if !errors.As(err, &liteErr) {
		return false
	}

	return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

func init() {
	RegisterDialectorFactory(createSQLiteDialector, configs.SQLite)
	RegisterDuplicateDetector(isSQLiteDuplicate)
}
