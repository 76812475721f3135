package move_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда запись не найдена
	ErrBookingNotFound = errors.New("booking not found")

	// ErrMasterNotFound возвращается, когда мастер не найден или неактивен
	ErrMasterNotFound = errors.New("master not found")

	// ErrMasterNotQualified возвращается, когда мастер не выполняет услугу записи
	ErrMasterNotQualified = errors.New("master does not provide this service")

	// ErrOutOfBusinessHours возвращается, когда новый интервал не помещается в окно работы
	ErrOutOfBusinessHours = errors.New("booking time is out of business hours")

	// ErrSlotConflict возвращается, когда новый интервал пересекается с другой записью мастера
	ErrSlotConflict = errors.New("slot is already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
