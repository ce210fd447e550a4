package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"peervote/contexts/workforce/attendance-tracker/domain/entities"
	domainerrors "peervote/contexts/workforce/attendance-tracker/domain/errors"
	"peervote/contexts/workforce/attendance-tracker/ports"
)

type Store struct {
	mu    sync.RWMutex
	stats map[string]entities.AttendanceStatistics
}

func NewStore() *Store {
	return &Store{stats: make(map[string]entities.AttendanceStatistics)}
}

func periodKey(employeeID string, year int, month int) string {
	return fmt.Sprintf("%s|%04d-%02d", strings.TrimSpace(employeeID), year, month)
}

func (s *Store) AppendLateRecord(
	_ context.Context,
	employeeID string,
	year int,
	month int,
	record entities.LateRecord,
) (entities.AttendanceStatistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := periodKey(employeeID, year, month)
	row, ok := s.stats[key]
	if !ok {
		now := time.Now().UTC()
		row = entities.AttendanceStatistics{
			EmployeeID: strings.TrimSpace(employeeID),
			Year:       year,
			Month:      month,
			Phase:      entities.PhaseAccumulating,
			CreatedAt:  now,
		}
	}
	row.LateCount++
	row.LateMinutesTotal += record.Minutes
	row.LateRecords = append(append([]entities.LateRecord(nil), row.LateRecords...), record)
	row.UpdatedAt = time.Now().UTC()
	s.stats[key] = row
	return row, nil
}

func (s *Store) MarkTriggered(_ context.Context, employeeID string, year int, month int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := periodKey(employeeID, year, month)
	row, ok := s.stats[key]
	if !ok || row.Phase != entities.PhaseAccumulating {
		return false, nil
	}
	row.Phase = entities.PhaseTriggered
	row.UpdatedAt = time.Now().UTC()
	s.stats[key] = row
	return true, nil
}

func (s *Store) GetStatistics(_ context.Context, employeeID string, year int, month int) (entities.AttendanceStatistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.stats[periodKey(employeeID, year, month)]
	if !ok {
		return entities.AttendanceStatistics{}, domainerrors.ErrStatisticsNotFound
	}
	return row, nil
}

func (s *Store) ResetPeriod(_ context.Context, employeeID string, year int, month int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := periodKey(employeeID, year, month)
	row, ok := s.stats[key]
	if !ok {
		return domainerrors.ErrStatisticsNotFound
	}
	row.LateCount = 0
	row.LateMinutesTotal = 0
	row.LateRecords = nil
	row.Phase = entities.PhaseAccumulating
	row.UpdatedAt = time.Now().UTC()
	s.stats[key] = row
	return nil
}

func (s *Store) IncrementPunishment(_ context.Context, employeeID string, year int, month int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := periodKey(employeeID, year, month)
	row, ok := s.stats[key]
	if !ok {
		return 0, domainerrors.ErrStatisticsNotFound
	}
	row.PunishmentCount++
	row.UpdatedAt = time.Now().UTC()
	s.stats[key] = row
	return row.PunishmentCount, nil
}

func (s *Store) ResetTriggeredBefore(_ context.Context, year int, month int, limit int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 100
	}
	reset := 0
	for key, row := range s.stats {
		if reset >= limit {
			break
		}
		if row.Phase != entities.PhaseTriggered {
			continue
		}
		if row.Year > year || (row.Year == year && row.Month >= month) {
			continue
		}
		row.Phase = entities.PhaseAccumulating
		row.UpdatedAt = time.Now().UTC()
		s.stats[key] = row
		reset++
	}
	return reset, nil
}

var _ ports.StatisticsRepository = (*Store)(nil)
