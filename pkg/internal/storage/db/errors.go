package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yeisme/filevault/pkg/internal/service"
)

// DuplicateDetector 根据驱动的结构化错误码判断是否为唯一约束冲突.
type DuplicateDetector func(err error) bool

var duplicateDetectors []DuplicateDetector

// RegisterDuplicateDetector 注册唯一约束识别函数，各方言文件在 init 中注册.
func RegisterDuplicateDetector(d DuplicateDetector) {
	duplicateDetectors = append(duplicateDetectors, d)
}

// IsDuplicateKey 是否为唯一约束冲突.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	for _, d := range duplicateDetectors {
		if d(err) {
			return true
		}
	}

	return false
}

// translate 把驱动错误转换为引擎可识别的错误，原始错误保留在链中.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return service.ErrNotFound
	case IsDuplicateKey(err):
		return fmt.Errorf("%w: %w", service.ErrDuplicate, err)
	default:
		return err
	}
}
