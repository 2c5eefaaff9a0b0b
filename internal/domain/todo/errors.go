package todo

import "errors"

var (
	ErrTodoNotFound = errors.New("todo not found")
)
