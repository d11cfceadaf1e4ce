package stores

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/passport/internal/shared"
)

// ReportingAPI is the subset of [services.ReportingService] used by [ReportStore].
type ReportingAPI interface {
	InitializeObject(ctx context.Context, objectID string) error
	Report(ctx context.Context, objectID, userID string) error
	Unreport(ctx context.Context, objectID, userID string) error
	ReportCount(ctx context.Context, objectID string) (int, error)
	HasUserReported(ctx context.Context, objectID, userID string) bool
}

// ReportStatus is the current user's view of one reportable object.
type ReportStatus struct {
	Reported bool
	Count    int
}

// ReportStore tracks report status per object for the current user.
type ReportStore struct {
	api    ReportingAPI
	auth   UserSource
	logger *log.Logger

	mu     sync.RWMutex
	status map[string]ReportStatus
	err    string
}

func NewReportStore(api ReportingAPI, auth UserSource, logger *log.Logger) *ReportStore {
	return &ReportStore{
		api:    api,
		auth:   auth,
		logger: storeLogger(logger, "reports"),
		status: make(map[string]ReportStatus),
	}
}

// Initialize registers objectID as reportable.
func (s *ReportStore) Initialize(ctx context.Context, objectID string) error {
	if objectID == "" {
		return fmt.Errorf("%w: object id is required", shared.ErrInvalidInput)
	}
	if err := s.api.InitializeObject(ctx, objectID); err != nil {
		s.setErr(errorText(err, "Failed to initialize report object"))
		return err
	}
	return nil
}

// Check refreshes the status of objectID. Membership is fail-open: a failed
// reporter lookup reads as not reported.
func (s *ReportStore) Check(ctx context.Context, objectID string) (ReportStatus, error) {
	user := s.auth.User()
	if user == "" {
		return ReportStatus{}, shared.ErrNotAuthenticated
	}

	count, err := s.api.ReportCount(ctx, objectID)
	if err != nil {
		s.setErr(errorText(err, "Failed to load report count"))
		return ReportStatus{}, err
	}
	st := ReportStatus{Reported: s.api.HasUserReported(ctx, objectID, user), Count: count}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[objectID] = st
	return st, nil
}

// Report flags objectID for the current user. Re-reporting leaves the count unchanged.
func (s *ReportStore) Report(ctx context.Context, objectID string) error {
	return s.toggle(ctx, objectID, true)
}

// Unreport withdraws the current user's report on objectID.
func (s *ReportStore) Unreport(ctx context.Context, objectID string) error {
	return s.toggle(ctx, objectID, false)
}

func (s *ReportStore) toggle(ctx context.Context, objectID string, reported bool) error {
	user := s.auth.User()
	if user == "" {
		return shared.ErrNotAuthenticated
	}
	if objectID == "" {
		return fmt.Errorf("%w: object id is required", shared.ErrInvalidInput)
	}

	call, fallback := s.api.Unreport, "Failed to unreport"
	if reported {
		call, fallback = s.api.Report, "Failed to report"
	}
	if err := call(ctx, objectID, user); err != nil {
		s.setErr(errorText(err, fallback))
		s.logger.Error(fallback, "object", objectID, "error", err)
		return err
	}

	s.mu.RLock()
	_, known := s.status[objectID]
	s.mu.RUnlock()
	if !known {
		return s.loadAfterToggle(ctx, objectID, reported)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status[objectID]
	switch {
	case reported && !st.Reported:
		st.Count++
	case !reported && st.Reported && st.Count > 0:
		st.Count--
	}
	st.Reported = reported
	s.status[objectID] = st
	return nil
}

// loadAfterToggle records the status of an object that was never checked, reading the count
// back from the backend. If the count cannot be read the object stays unknown.
func (s *ReportStore) loadAfterToggle(ctx context.Context, objectID string, reported bool) error {
	count, err := s.api.ReportCount(ctx, objectID)
	if err != nil {
		s.logger.Warn("failed to read report count", "object", objectID, "error", err)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[objectID] = ReportStatus{Reported: reported, Count: count}
	return nil
}

// Status returns the last known status of objectID, or the zero value when it is unknown.
func (s *ReportStore) Status(objectID string) ReportStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[objectID]
}

func (s *ReportStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *ReportStore) setErr(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = msg
}
