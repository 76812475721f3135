package domain

// Service represents a bookable offering with a fixed duration
// Duration drives slot spacing and the frozen booking interval
type Service struct {
	ID          int64
	Title       string
	Slug        string
	DurationMin int
	IsActive    bool
}
