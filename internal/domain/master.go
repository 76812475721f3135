package domain

// Master represents a staff member with an independent booking calendar
type Master struct {
	ID        int64
	Name      string
	Slug      string
	IsActive  bool
	SortOrder int
	ServiceIDs []int64 // Услуги, которые мастер выполняет
}

// IsQualified returns true if the master performs the given service
func (m *Master) IsQualified(serviceID int64) bool {
	for _, id := range m.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}
