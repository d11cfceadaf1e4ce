// package models defines the data model for the passport client
package models

import (
	"time"
)

// Model defines the base interface for all persistent models in the passport client.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Identity is the authenticated user. Both fields are cleared together with the session.
type Identity struct {
	UserID   string `json:"user"`
	Username string `json:"username"`
}

// PlaylistSummary is a row of the user's playlist list.
type PlaylistSummary struct {
	Playlist string `json:"playlist"`
	Name     string `json:"name"`
}

// Playlist is the backend's authoritative playlist record.
type Playlist struct {
	ID    string   `json:"_id"`
	Name  string   `json:"name"`
	Owner string   `json:"owner"`
	Songs []string `json:"songs"`
}

// Clone returns a deep copy of p.
func (p *Playlist) Clone() *Playlist {
	if p == nil {
		return nil
	}
	c := *p
	c.Songs = append([]string(nil), p.Songs...)
	return &c
}

// RecType distinguishes curated from user-submitted recommendations.
type RecType string

const (
	RecSystem    RecType = "System"
	RecCommunity RecType = "Community"
)

// Recommendation is a song suggested for a country.
type Recommendation struct {
	ID          string  `json:"_id"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	Genre       string  `json:"genre,omitempty"`
	Language    string  `json:"language"`
	YouTubeURL  string  `json:"youtubeUrl"`
	RecType     RecType `json:"recType"`
	CountryName string  `json:"countryName"`
}

// CommunityRecInput is a user-submitted recommendation.
type CommunityRecInput struct {
	CountryName string `json:"countryName" validate:"required"`
	SongTitle   string `json:"songTitle" validate:"required"`
	Artist      string `json:"artist" validate:"required"`
	Language    string `json:"language" validate:"required"`
	YouTubeURL  string `json:"youtubeURL" validate:"required,url"`
	Genre       string `json:"genre,omitempty"`
}

// Song is the song payload sent when logging an exploration.
type Song struct {
	ID         string  `json:"_id"`
	SongTitle  string  `json:"songTitle"`
	Artist     string  `json:"artist"`
	Language   string  `json:"language,omitempty"`
	YouTubeURL string  `json:"youtubeURL,omitempty"`
	RecType    RecType `json:"recType,omitempty"`
	Genre      string  `json:"genre,omitempty"`
}

// SongFromRecommendation converts a recommendation into the backend's song shape.
func SongFromRecommendation(r Recommendation) Song {
	return Song{
		ID:         r.ID,
		SongTitle:  r.Title,
		Artist:     r.Artist,
		Language:   r.Language,
		YouTubeURL: r.YouTubeURL,
		RecType:    r.RecType,
		Genre:      r.Genre,
	}
}

// ExploredCountry is a country with at least one logged exploration.
type ExploredCountry struct {
	Country string `json:"country"`
}

// HistoryEntry is one explored song in a country's history.
type HistoryEntry struct {
	SongID    string     `json:"songId,omitempty"`
	SongTitle string     `json:"songTitle"`
	Artist    string     `json:"artist"`
	Date      *time.Time `json:"date,omitempty"`
	Country   string     `json:"country,omitempty"`
}

// ReportCount is the report total for an object.
type ReportCount struct {
	Count int `json:"count"`
}

// ExportRun records one bulk passport export.
type ExportRun struct {
	id        string
	UserID    string
	Format    string
	OutputDir string
	Countries int
	Failed    int
	createdAt time.Time
}

// NewExportRun creates an [ExportRun] stamped with the current time.
func NewExportRun(userID, format, outputDir string) *ExportRun {
	return &ExportRun{UserID: userID, Format: format, OutputDir: outputDir, createdAt: time.Now()}
}

func (r *ExportRun) ID() string               { return r.id }
func (r *ExportRun) SetID(id string)          { r.id = id }
func (r *ExportRun) CreatedAt() time.Time     { return r.createdAt }
func (r *ExportRun) SetCreatedAt(t time.Time) { r.createdAt = t }

// Validate checks required fields.
func (r *ExportRun) Validate() error {
	if r.UserID == "" {
		return ErrMissingUser
	}
	if r.Format == "" {
		return ErrMissingFormat
	}
	return nil
}
