package stores

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/desertthunder/passport/internal/models"
	"github.com/desertthunder/passport/internal/shared"
)

// RecommendationAPI is the subset of [services.RecommendationService] used by [RecommendationStore].
type RecommendationAPI interface {
	SystemRecs(ctx context.Context, country string) ([]models.Recommendation, error)
	CommunityRecs(ctx context.Context, country string) ([]models.Recommendation, error)
	AddCommunityRec(ctx context.Context, in models.CommunityRecInput) (string, error)
}

// RecommendationStore caches system and community recommendations per country.
type RecommendationStore struct {
	api    RecommendationAPI
	auth   UserSource
	logger *log.Logger

	mu        sync.RWMutex
	system    map[string][]models.Recommendation
	community map[string][]models.Recommendation
	loading   bool
	err       string
}

func NewRecommendationStore(api RecommendationAPI, auth UserSource, logger *log.Logger) *RecommendationStore {
	return &RecommendationStore{
		api:       api,
		auth:      auth,
		logger:    storeLogger(logger, "recommendations"),
		system:    make(map[string][]models.Recommendation),
		community: make(map[string][]models.Recommendation),
	}
}

// Fetch loads both recommendation kinds for country. The cache is only replaced when both succeed.
func (s *RecommendationStore) Fetch(ctx context.Context, country string) error {
	if country == "" {
		return fmt.Errorf("%w: country is required", shared.ErrInvalidInput)
	}

	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	var system, community []models.Recommendation
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		system, err = s.api.SystemRecs(gctx, country)
		return err
	})
	g.Go(func() (err error) {
		community, err = s.api.CommunityRecs(gctx, country)
		return err
	})
	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = errorText(err, "Failed to load recommendations")
		s.logger.Error("failed to load recommendations", "country", country, "error", err)
		return err
	}
	s.system[country] = system
	s.community[country] = community
	return nil
}

// AddCommunityRec validates and submits in, then appends it to the community cache.
func (s *RecommendationStore) AddCommunityRec(ctx context.Context, in models.CommunityRecInput) (string, error) {
	if s.auth.User() == "" {
		return "", shared.ErrNotAuthenticated
	}
	if err := shared.ValidateStruct(in); err != nil {
		s.setErr(errorText(err, ""))
		return "", err
	}

	id, err := s.api.AddCommunityRec(ctx, in)
	if err != nil {
		s.setErr(errorText(err, "Failed to add recommendation"))
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.community[in.CountryName] = append(s.community[in.CountryName], models.Recommendation{
		ID:          id,
		Title:       in.SongTitle,
		Artist:      in.Artist,
		Genre:       in.Genre,
		Language:    in.Language,
		YouTubeURL:  in.YouTubeURL,
		RecType:     models.RecCommunity,
		CountryName: in.CountryName,
	})
	return id, nil
}

func (s *RecommendationStore) System(country string) []models.Recommendation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.system[country])
}

func (s *RecommendationStore) Community(country string) []models.Recommendation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.community[country])
}

// All returns system then community recommendations for country.
func (s *RecommendationStore) All(country string) []models.Recommendation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Concat(s.system[country], s.community[country])
}

// Find looks up a cached recommendation by id in country.
func (s *RecommendationStore) Find(country, id string) (models.Recommendation, bool) {
	for _, r := range s.All(country) {
		if r.ID == id {
			return r, true
		}
	}
	return models.Recommendation{}, false
}

func (s *RecommendationStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *RecommendationStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *RecommendationStore) setErr(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = msg
}
