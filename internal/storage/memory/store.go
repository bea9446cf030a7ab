// Package memory provides a mutex-guarded in-memory implementation of the
// storage interfaces. It backs handler tests and mirrors the Postgres store's
// constraint behavior: unique emails, owner references, owner-scoped filters.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pharmvigil/medreport-be/internal/models"
	"github.com/pharmvigil/medreport-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store holds users and reports in maps.
type Store struct {
	mu      sync.RWMutex
	users   map[string]models.User
	reports map[string]models.Report
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:   make(map[string]models.User),
		reports: make(map[string]models.Report),
	}
}

func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return models.User{}, storage.ErrDuplicateEmail
		}
	}
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) GetUser(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (s *Store) UpdateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.ID]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	for id, other := range s.users {
		if id != user.ID && other.Email == user.Email {
			return models.User{}, storage.ErrDuplicateEmail
		}
	}
	user.CreatedAt = existing.CreatedAt
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	// Cascade, same as the reports.user_id foreign key.
	for rid, report := range s.reports {
		if report.OwnerID == id {
			delete(s.reports, rid)
		}
	}
	return nil
}

func (s *Store) CreateReport(_ context.Context, report models.Report) (models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, ok := s.users[report.OwnerID]
	if !ok {
		return models.Report{}, storage.ErrOwnerNotFound
	}
	report.CreatedAt = time.Now()
	stored := report
	stored.Owner = nil
	s.reports[report.ID] = stored
	report.Owner = &models.OwnerSummary{Name: owner.Name, Email: owner.Email}
	return report, nil
}

func (s *Store) GetReport(_ context.Context, filter storage.ReportFilter) (models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, report := range s.reports {
		if matches(report, filter) {
			return s.withOwner(report), nil
		}
	}
	return models.Report{}, storage.ErrNotFound
}

func (s *Store) ListReports(_ context.Context, filter storage.ReportFilter) ([]models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reports := []models.Report{}
	for _, report := range s.reports {
		if matches(report, filter) {
			reports = append(reports, s.withOwner(report))
		}
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].CreatedAt.After(reports[j].CreatedAt) })
	return reports, nil
}

func (s *Store) UpdateReport(_ context.Context, filter storage.ReportFilter, report models.Report) (models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.reports[report.ID]
	if !ok || !matches(existing, filter) {
		return models.Report{}, storage.ErrNotFound
	}
	if _, ok := s.users[report.OwnerID]; !ok {
		return models.Report{}, storage.ErrOwnerNotFound
	}
	report.CreatedAt = existing.CreatedAt
	stored := report
	stored.Owner = nil
	s.reports[report.ID] = stored
	return s.withOwner(stored), nil
}

func (s *Store) DeleteReport(_ context.Context, filter storage.ReportFilter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, report := range s.reports {
		if matches(report, filter) {
			delete(s.reports, id)
			return nil
		}
	}
	return storage.ErrNotFound
}

func matches(report models.Report, filter storage.ReportFilter) bool {
	if filter.ID != "" && report.ID != filter.ID {
		return false
	}
	if filter.OwnerID != "" && report.OwnerID != filter.OwnerID {
		return false
	}
	if filter.Brand != "" && !strings.Contains(strings.ToLower(report.Brand), strings.ToLower(filter.Brand)) {
		return false
	}
	return true
}

// withOwner attaches the owner summary, matching the Postgres join.
func (s *Store) withOwner(report models.Report) models.Report {
	if owner, ok := s.users[report.OwnerID]; ok {
		report.Owner = &models.OwnerSummary{Name: owner.Name, Email: owner.Email}
	}
	return report
}
