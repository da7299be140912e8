package data

import (
	"bytes"
	"encoding/json"
)

// Optional 区分请求体里字段的三种状态：未出现、显式 null、有值
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some 返回一个有值的 Optional
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null 返回一个显式为 null 的 Optional
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// Present 字段出现且不为 null
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}

// Ptr 有值时返回指针，否则返回 nil
func (o Optional[T]) Ptr() *T {
	if !o.Present() {
		return nil
	}
	v := o.Value
	return &v
}

// UnmarshalJSON 只有字段出现在 JSON 中时才会被调用，因此可以据此标记 Set
func (o *Optional[T]) UnmarshalJSON(jsonValue []byte) error {
	o.Set = true

	if bytes.Equal(bytes.TrimSpace(jsonValue), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}

	o.Null = false
	return json.Unmarshal(jsonValue, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
