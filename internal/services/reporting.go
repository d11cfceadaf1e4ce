package services

import (
	"context"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/passport/internal/models"
)

// ReportingService wraps the Reporting actions, keyed by arbitrary object ids.
type ReportingService struct {
	client Poster
	logger *log.Logger
}

// NewReportingService creates a ReportingService over client. logger may be nil.
func NewReportingService(client Poster, logger *log.Logger) *ReportingService {
	return &ReportingService{client: client, logger: logger}
}

func (s *ReportingService) InitializeObject(ctx context.Context, objectID string) error {
	return s.client.Post(ctx, "/Reporting/InitializeObject", Payload{"objectId": objectID}, nil)
}

func (s *ReportingService) Report(ctx context.Context, objectID, userID string) error {
	return s.client.Post(ctx, "/Reporting/Report", Payload{"objectId": objectID, "userId": userID}, nil)
}

func (s *ReportingService) Unreport(ctx context.Context, objectID, userID string) error {
	return s.client.Post(ctx, "/Reporting/Unreport", Payload{"objectId": objectID, "userId": userID}, nil)
}

// ReportCount returns how many users reported objectID.
func (s *ReportingService) ReportCount(ctx context.Context, objectID string) (int, error) {
	var rows []models.ReportCount
	if err := s.client.Post(ctx, "/Reporting/_getReportCount", Payload{"objectId": objectID}, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Count, nil
}

// Reporters returns the ids of users who reported objectID.
func (s *ReportingService) Reporters(ctx context.Context, objectID string) ([]string, error) {
	var rows []struct {
		Reporters []string `json:"reporters"`
	}
	if err := s.client.Post(ctx, "/Reporting/_getReporters", Payload{"objectId": objectID}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 || rows[0].Reporters == nil {
		return []string{}, nil
	}
	return rows[0].Reporters, nil
}

// HasUserReported reports whether userID is among the reporters of objectID.
// Any failure yields false.
func (s *ReportingService) HasUserReported(ctx context.Context, objectID, userID string) bool {
	reporters, err := s.Reporters(ctx, objectID)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("reporter lookup failed", "object", objectID, "error", err)
		}
		return false
	}
	return slices.Contains(reporters, userID)
}
