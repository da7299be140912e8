package data

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("record not found")
)

// StoreError 包装驱动返回的错误，记录失败的操作和 id
type StoreError struct {
	Op  string
	ID  int64
	Err error
}

func (e *StoreError) Error() string {
	if e.ID > 0 {
		return fmt.Sprintf("%s movie %d: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s movies: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

type Models struct {
	Movies MovieModel
}

// NewModels 在进程启动时创建一次，持有连接池句柄；driver 决定占位符风格
func NewModels(db DBTX, driver string) Models {
	return Models{
		Movies: MovieModel{
			DB:    db,
			Query: NewQueryBuilder(PlaceholderFor(driver)),
		},
	}
}
