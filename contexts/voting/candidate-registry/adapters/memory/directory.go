package memory

import (
	"context"
	"strings"
	"sync"

	"peervote/contexts/voting/candidate-registry/ports"
)

// StaticDirectory is a process-local employee directory. The real directory
// is an external system; this adapter stands in for it behind the same port.
type StaticDirectory struct {
	mu       sync.RWMutex
	profiles map[string]ports.EmployeeProfile
}

func NewStaticDirectory() *StaticDirectory {
	return &StaticDirectory{profiles: make(map[string]ports.EmployeeProfile)}
}

func (d *StaticDirectory) Put(profile ports.EmployeeProfile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profiles[strings.TrimSpace(profile.EmployeeID)] = profile
}

// Headcount reports how many employees the directory knows about. Automatic
// campaigns use it as the eligible electorate size.
func (d *StaticDirectory) Headcount(_ context.Context) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.profiles), nil
}

// Lookup returns the stored profile, or a bare profile carrying only the
// employee id when the directory has no entry. Registration must not fail
// just because profile enrichment is unavailable.
func (d *StaticDirectory) Lookup(_ context.Context, employeeID string) (ports.EmployeeProfile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	employeeID = strings.TrimSpace(employeeID)
	if profile, ok := d.profiles[employeeID]; ok {
		return profile, nil
	}
	return ports.EmployeeProfile{EmployeeID: employeeID}, nil
}

var _ ports.EmployeeDirectory = (*StaticDirectory)(nil)
