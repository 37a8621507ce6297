package employee

import "time"

// Employee is the directory entry the engine reads. Directory management
// itself (hiring, departments, profiles) lives outside this service.
type Employee struct {
	ID        string
	FullName  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
