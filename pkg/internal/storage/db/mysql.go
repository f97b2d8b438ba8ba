//go:build !no_mysql

package db

import (
	"errors"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/yeisme/filevault/pkg/configs"
)

// mysqlDuplicateEntry ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// createMySQLDialector 创建MySQL dialector.
func createMySQLDialector(dsn string) gorm.Dialector {
	return mysql.Open(dsn)
}

func isMySQLDuplicate(err error) bool {
	var myErr *mysqldrv.MySQLError

	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}

func init() {
	RegisterDialectorFactory(createMySQLDialector, configs.MySQL, configs.MariaDB)
	RegisterDuplicateDetector(isMySQLDuplicate)
}
