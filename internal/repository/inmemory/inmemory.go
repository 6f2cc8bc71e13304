// Package inmemory provides map-backed repository implementations used by
// tests and by DSN-less development runs.
package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crisis-service/internal/domain"
	"github.com/spec-kit/crisis-service/internal/repository"
)

// UserStore is an in-memory repository.UserRepository.
type UserStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]domain.User
}

// NewUserStore creates an empty store.
func NewUserStore() *UserStore {
	return &UserStore{nextID: 1, users: make(map[int64]domain.User)}
}

var _ repository.UserRepository = (*UserStore)(nil)

func (s *UserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.nextID
	s.nextID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) Update(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *UserStore) List(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.User, 0, len(s.users))
	for _, user := range s.users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *UserStore) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.User
	for _, user := range s.users {
		if user.Role == role {
			result = append(result, user)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ReportStore is an in-memory repository.ReportRepository.
type ReportStore struct {
	mu      sync.RWMutex
	nextID  int64
	reports map[int64]domain.CrisisReport
}

// NewReportStore creates an empty store.
func NewReportStore() *ReportStore {
	return &ReportStore{nextID: 1, reports: make(map[int64]domain.CrisisReport)}
}

var _ repository.ReportRepository = (*ReportStore)(nil)

func (s *ReportStore) Create(_ context.Context, report *domain.CrisisReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	report.ID = s.nextID
	s.nextID++
	s.reports[report.ID] = *report
	return nil
}

func (s *ReportStore) Update(_ context.Context, report *domain.CrisisReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[report.ID]; !ok {
		return pgx.ErrNoRows
	}
	s.reports[report.ID] = *report
	return nil
}

func (s *ReportStore) GetByID(_ context.Context, id int64) (*domain.CrisisReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &report, nil
}

func (s *ReportStore) List(_ context.Context) ([]domain.CrisisReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.CrisisReport, 0, len(s.reports))
	for _, report := range s.reports {
		result = append(result, report)
	}
	sortReports(result)
	return result, nil
}

func (s *ReportStore) ListByResponder(_ context.Context, responderID int64) ([]domain.CrisisReport, error) {
	return s.filter(func(r domain.CrisisReport) bool {
		return r.ResponderID != nil && *r.ResponderID == responderID
	}), nil
}

func (s *ReportStore) ListActiveByResponder(_ context.Context, responderID int64) ([]domain.CrisisReport, error) {
	return s.filter(func(r domain.CrisisReport) bool {
		return r.ResponderID != nil && *r.ResponderID == responderID && r.Status != domain.ReportStatusResolved
	}), nil
}

func (s *ReportStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.reports, id)
	return nil
}

func (s *ReportStore) filter(keep func(domain.CrisisReport) bool) []domain.CrisisReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.CrisisReport
	for _, report := range s.reports {
		if keep(report) {
			result = append(result, report)
		}
	}
	sortReports(result)
	return result
}

func sortReports(reports []domain.CrisisReport) {
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].ReportTime.After(reports[j].ReportTime)
	})
}

// NotificationStore is an in-memory repository.NotificationRepository.
type NotificationStore struct {
	mu            sync.RWMutex
	nextID        int64
	notifications map[int64]domain.Notification
}

// NewNotificationStore creates an empty store.
func NewNotificationStore() *NotificationStore {
	return &NotificationStore{nextID: 1, notifications: make(map[int64]domain.Notification)}
}

var _ repository.NotificationRepository = (*NotificationStore)(nil)

func (s *NotificationStore) Create(_ context.Context, notification *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	notification.ID = s.nextID
	s.nextID++
	s.notifications[notification.ID] = *notification
	return nil
}

func (s *NotificationStore) Update(_ context.Context, notification *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notifications[notification.ID]; !ok {
		return pgx.ErrNoRows
	}
	s.notifications[notification.ID] = *notification
	return nil
}

func (s *NotificationStore) GetByID(_ context.Context, id int64) (*domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	notification, ok := s.notifications[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &notification, nil
}

func (s *NotificationStore) ListByUser(_ context.Context, userID int64) ([]domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Notification
	for _, notification := range s.notifications {
		if notification.UserID == userID {
			result = append(result, notification)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SentAt.After(result[j].SentAt)
	})
	return result, nil
}

func (s *NotificationStore) CountUnread(_ context.Context, userID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, notification := range s.notifications {
		if notification.UserID == userID && !notification.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *NotificationStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notifications[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.notifications, id)
	return nil
}
