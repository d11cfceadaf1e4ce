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

// PassportAPI is the subset of [services.PassportService] used by [PassportStore].
type PassportAPI interface {
	ExploredCountries(ctx context.Context, user string) ([]models.ExploredCountry, error)
	HistoryForCountry(ctx context.Context, user, country string) ([]models.HistoryEntry, error)
	LogExploration(ctx context.Context, user string, song models.Song, country string) (string, error)
}

// PassportStore caches the user's explored countries and per-country history.
//
// Histories are kept for the life of the store. A history fetch is a no-op while the
// country is cached or already in flight.
type PassportStore struct {
	api    PassportAPI
	auth   UserSource
	logger *log.Logger

	mu        sync.RWMutex
	countries []models.ExploredCountry
	histories map[string][]models.HistoryEntry
	inflight  map[string]chan struct{}
	fetchErr  map[string]error
	gen       map[string]int
	loading   bool
	err       string
}

// NewPassportStore creates an empty PassportStore.
func NewPassportStore(api PassportAPI, auth UserSource, logger *log.Logger) *PassportStore {
	return &PassportStore{
		api:       api,
		auth:      auth,
		logger:    storeLogger(logger, "passport"),
		histories: make(map[string][]models.HistoryEntry),
		inflight:  make(map[string]chan struct{}),
		fetchErr:  make(map[string]error),
		gen:       make(map[string]int),
	}
}

// FetchExploredCountries replaces the explored country list. On failure the list is emptied.
func (s *PassportStore) FetchExploredCountries(ctx context.Context) error {
	user := s.auth.User()
	if user == "" {
		return shared.ErrNotAuthenticated
	}

	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	countries, err := s.api.ExploredCountries(ctx, user)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = errorText(err, "Failed to load explored countries")
		s.countries = []models.ExploredCountry{}
		s.logger.Error("failed to load explored countries", "error", err)
		return err
	}
	s.countries = countries
	return nil
}

// FetchHistoryForCountry loads country's history unless it is cached or in flight.
func (s *PassportStore) FetchHistoryForCountry(ctx context.Context, country string) error {
	user := s.auth.User()
	if user == "" {
		return shared.ErrNotAuthenticated
	}
	if country == "" {
		return fmt.Errorf("%w: country is required", shared.ErrInvalidInput)
	}
	return s.ensureHistory(ctx, user, country, false)
}

// ensureHistory fetches country's history at most once at a time. With wait set, a caller
// that finds a fetch in flight blocks until it finishes and returns that fetch's error.
//
// A fetch that started before a [PassportStore.LogExploration] for the same country is
// discarded, and waiters fetch again.
func (s *PassportStore) ensureHistory(ctx context.Context, user, country string, wait bool) error {
	for {
		s.mu.Lock()
		if _, ok := s.histories[country]; ok {
			s.mu.Unlock()
			return nil
		}

		if ch, ok := s.inflight[country]; ok {
			s.mu.Unlock()
			if !wait {
				return nil
			}
			select {
			case <-ch:
			case <-ctx.Done():
				return ctx.Err()
			}

			s.mu.RLock()
			_, cached := s.histories[country]
			err := s.fetchErr[country]
			s.mu.RUnlock()
			if cached {
				return nil
			}
			if err != nil {
				return err
			}
			continue
		}

		stale, err := s.fetchHistory(ctx, user, country)
		if err != nil || !stale || !wait {
			return err
		}
	}
}

// fetchHistory runs one history request for country. It must be called with s.mu held and
// returns with it released. stale reports that a log for country landed during the request.
func (s *PassportStore) fetchHistory(ctx context.Context, user, country string) (stale bool, err error) {
	ch := make(chan struct{})
	s.inflight[country] = ch
	delete(s.fetchErr, country)
	gen := s.gen[country]
	s.mu.Unlock()

	entries, err := s.api.HistoryForCountry(ctx, user, country)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, country)
	close(ch)
	if err != nil {
		s.fetchErr[country] = err
		s.err = errorText(err, fmt.Sprintf("Failed to load history for %s", country))
		s.logger.Error("failed to load history", "country", country, "error", err)
		return false, err
	}
	if s.gen[country] != gen {
		s.logger.Debug("discarding stale history", "country", country)
		return true, nil
	}
	s.histories[country] = entries
	return false, nil
}

// ExploredSongs fetches the explored countries and every country's history concurrently,
// then returns the songs in country order with duplicates removed. The first occurrence wins.
func (s *PassportStore) ExploredSongs(ctx context.Context) ([]models.HistoryEntry, error) {
	if err := s.FetchExploredCountries(ctx); err != nil {
		return nil, err
	}
	user := s.auth.User()
	countries := s.Countries()

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range countries {
		g.Go(func() error {
			return s.ensureHistory(gctx, user, c.Country, true)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	songs := []models.HistoryEntry{}
	for _, c := range countries {
		for _, e := range s.histories[c.Country] {
			key := e.SongID
			if key == "" {
				key = shared.NormalizeTrackKey(e.SongTitle, e.Artist)
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			songs = append(songs, e)
		}
	}
	return songs, nil
}

// LogExploration records song as explored in country. The country's cached history is
// dropped, and a fetch already in flight for it is not cached, so the next fetch includes
// the new entry.
func (s *PassportStore) LogExploration(ctx context.Context, song models.Song, country string) (string, error) {
	user := s.auth.User()
	if user == "" {
		return "", shared.ErrNotAuthenticated
	}
	if country == "" || models.NormalizeSongID(song) == "" {
		return "", fmt.Errorf("%w: song id and country are required", shared.ErrInvalidInput)
	}

	entry, err := s.api.LogExploration(ctx, user, song, country)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = errorText(err, "Failed to log exploration")
		return "", err
	}

	delete(s.histories, country)
	s.gen[country]++
	if !slices.ContainsFunc(s.countries, func(c models.ExploredCountry) bool { return c.Country == country }) {
		s.countries = append(s.countries, models.ExploredCountry{Country: country})
	}
	return entry, nil
}

// Countries returns a copy of the explored country list.
func (s *PassportStore) Countries() []models.ExploredCountry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.countries)
}

// History returns a copy of country's cached history and whether it is cached.
func (s *PassportStore) History(country string) ([]models.HistoryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.histories[country]
	return slices.Clone(h), ok
}

// HistoryLoading reports whether a history fetch for country is in flight.
func (s *PassportStore) HistoryLoading(country string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.inflight[country]
	return ok
}

func (s *PassportStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *PassportStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *PassportStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}
