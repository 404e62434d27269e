package content

import (
	"errors"
	"fmt"

	"github.com/nateso/toy-dash-application/internal/model"
	"github.com/nateso/toy-dash-application/internal/store"
)

// UnknownEntityError 选中项目的数据缺失（上游数据完整性问题）
type UnknownEntityError struct {
	Kind string // project/image/testimonial/observations
	ID   string
	Err  error
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.ID)
}

// Unwrap 始终可以 errors.Is(err, store.ErrNotFound)
func (e *UnknownEntityError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return store.ErrNotFound
}

func unknown(kind, id string, err error) error {
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return &UnknownEntityError{Kind: kind, ID: id, Err: err}
}

// Unavailable 把缺失数据转换为 "数据不可用" 载荷，保留地图图层
func Unavailable(mapLayers model.MapLayers, err error) model.ContentPayload {
	return model.ContentPayload{
		State: model.ContentUnavailable,
		Error: err.Error(),
		Map:   mapLayers,
	}
}
