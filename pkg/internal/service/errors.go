package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound 资源不存在，或不属于当前用户（两者刻意不区分）.
	ErrNotFound = errors.New("not found")
	// ErrForbidden 资源存在但不属于当前用户，仅在调用方需要区分时返回.
	ErrForbidden = errors.New("forbidden")
	// ErrDuplicate 唯一约束冲突，存储层据驱动错误码判定后包装该错误.
	ErrDuplicate = errors.New("duplicate key")
	// ErrInvalidCredentials 用户名或密码错误.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUnauthenticated 会话缺失、过期或已注销.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidInput 参数不合法.
	ErrInvalidInput = errors.New("invalid input")
)

// StoreError 元数据存储操作失败.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Duplicate 是否由唯一约束冲突引起.
func (e *StoreError) Duplicate() bool {
	return errors.Is(e.Err, ErrDuplicate)
}

// StorageUnavailableError 对象存储不可用（失败、超时或熔断打开）.
type StorageUnavailableError struct {
	Op  string
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable: %s: %v", e.Op, e.Err)
}

func (e *StorageUnavailableError) Unwrap() error { return e.Err }

// Outcome 引擎操作结果的封闭集合.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNotFound
	OutcomeForbidden
	OutcomeStoreError
	OutcomeStorageUnavailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeForbidden:
		return "forbidden"
	case OutcomeStorageUnavailable:
		return "storage_unavailable"
	default:
		return "store_error"
	}
}

// OutcomeOf 把任意错误归入封闭结果集合，未知错误视为 StoreError.
func OutcomeOf(err error) Outcome {
	var (
		storeErr   *StoreError
		storageErr *StorageUnavailableError
	)

	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrUnauthenticated):
		return OutcomeForbidden
	case errors.As(err, &storageErr):
		return OutcomeStorageUnavailable
	case errors.As(err, &storeErr):
		return OutcomeStoreError
	default:
		return OutcomeStoreError
	}
}

// IsDuplicate 错误链中是否包含唯一约束冲突.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// storeErr 把存储层错误转换为引擎错误，ErrNotFound 原样透传.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}

	return &StoreError{Op: op, Err: err}
}

// storageErr 把对象存储错误包装为 StorageUnavailableError.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}

	return &StorageUnavailableError{Op: op, Err: err}
}
