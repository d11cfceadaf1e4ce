package services

import (
	"context"

	"github.com/desertthunder/passport/internal/models"
)

// RecommendationService wraps the CountryRecommendation actions.
type RecommendationService struct {
	client Poster
}

// NewRecommendationService creates a RecommendationService over client.
func NewRecommendationService(client Poster) *RecommendationService {
	return &RecommendationService{client: client}
}

// recommendationRow uses the backend's field names.
type recommendationRow struct {
	ID          string         `json:"_id"`
	SongTitle   string         `json:"songTitle"`
	Artist      string         `json:"artist"`
	Genre       string         `json:"genre"`
	Language    string         `json:"language"`
	YouTubeURL  string         `json:"youtubeURL"`
	RecType     models.RecType `json:"recType"`
	CountryName string         `json:"countryName"`
}

func (r recommendationRow) toModel() models.Recommendation {
	return models.Recommendation{
		ID:          r.ID,
		Title:       r.SongTitle,
		Artist:      r.Artist,
		Genre:       r.Genre,
		Language:    r.Language,
		YouTubeURL:  r.YouTubeURL,
		RecType:     r.RecType,
		CountryName: r.CountryName,
	}
}

// SystemRecs returns the curated recommendations for country.
func (s *RecommendationService) SystemRecs(ctx context.Context, country string) ([]models.Recommendation, error) {
	return s.fetch(ctx, "/CountryRecommendation/getSystemRecs", country)
}

// CommunityRecs returns the user-submitted recommendations for country.
func (s *RecommendationService) CommunityRecs(ctx context.Context, country string) ([]models.Recommendation, error) {
	return s.fetch(ctx, "/CountryRecommendation/getCommunityRecs", country)
}

func (s *RecommendationService) fetch(ctx context.Context, path, country string) ([]models.Recommendation, error) {
	var resp struct {
		Recommendations []recommendationRow `json:"recommendations"`
	}
	if err := s.client.Post(ctx, path, Payload{"countryName": country}, &resp); err != nil {
		return nil, err
	}

	recs := make([]models.Recommendation, 0, len(resp.Recommendations))
	for _, r := range resp.Recommendations {
		recs = append(recs, r.toModel())
	}
	return recs, nil
}

// AddCommunityRec submits a recommendation and returns its id. Genre is sent only when set.
func (s *RecommendationService) AddCommunityRec(ctx context.Context, in models.CommunityRecInput) (string, error) {
	payload := Payload{
		"countryName": in.CountryName,
		"songTitle":   in.SongTitle,
		"artist":      in.Artist,
		"language":    in.Language,
		"youtubeURL":  in.YouTubeURL,
	}
	if in.Genre != "" {
		payload["genre"] = in.Genre
	}

	var resp struct {
		RecID string `json:"recId"`
	}
	if err := s.client.Post(ctx, "/CountryRecommendation/addCommunityRec", payload, &resp); err != nil {
		return "", err
	}
	return resp.RecID, nil
}
