package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("service not found")

	// ErrMasterNotFound возвращается, когда мастер не найден или неактивен
	ErrMasterNotFound = errors.New("master not found")

	// ErrMasterNotQualified возвращается, когда мастер не выполняет услугу
	ErrMasterNotQualified = errors.New("master does not provide this service")

	// ErrOutOfBusinessHours возвращается, когда интервал записи не помещается в окно работы
	ErrOutOfBusinessHours = errors.New("booking time is out of business hours")

	// ErrDateInPast возвращается при попытке записи на прошедшую дату или время
	ErrDateInPast = errors.New("booking date is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата дальше горизонта записи
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrTooSoon возвращается, когда до начала записи меньше минимального интервала
	ErrTooSoon = errors.New("booking starts too soon")

	// ErrSlotConflict возвращается, когда интервал пересекается с другой записью мастера
	ErrSlotConflict = errors.New("slot is already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
