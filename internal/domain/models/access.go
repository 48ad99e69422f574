package models

// RoleAdmin grants visibility over every farm.
const RoleAdmin = "admin"

// Principal is the authenticated caller of a report.
type Principal struct {
	UserID int64
	Role   string
}

// IsAdmin reports whether the principal sees all farms.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// FarmScope is the set of farms a principal may read.
type FarmScope struct {
	All     bool
	FarmIDs []int64
}

// Allows reports whether farmID is visible within the scope.
func (s FarmScope) Allows(farmID int64) bool {
	if s.All {
		return true
	}
	for _, id := range s.FarmIDs {
		if id == farmID {
			return true
		}
	}
	return false
}
