package settings

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("settings.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("settings.repository: failed to execute query")

	// ErrDecodeValue возвращается при ошибке разбора JSON значения настройки
	ErrDecodeValue = errors.New("settings.repository: failed to decode setting value")
)
