//go:build !no_sqlite && !cgo

package db

import (
	"errors"

	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/yeisme/filevault/pkg/configs"
)

// createSQLiteDialector 创建SQLite dialector（纯 Go 版本），连接上开启外键约束.
func createSQLiteDialector(dsn string) gorm.Dialector {
	return sqlite.Open(withDSNParam(dsn, "_pragma=foreign_keys(1)"))
}

func isSQLiteDuplicate(err error) bool {
	var liteErr *gosqlite.Error
	if !errors.As(err, &liteErr) {
		return false
	}

	code := liteErr.Code()

	return code == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY
}

func init() {
	RegisterDialectorFactory(createSQLiteDialector, configs.SQLite)
	RegisterDuplicateDetector(isSQLiteDuplicate)
}
