package services

import (
	"bytes"
	"context"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/desertthunder/passport/internal/models"
)

// Defaults for history rows missing song metadata.
const (
	UnknownSong   = "Unknown Song"
	UnknownArtist = "Unknown Artist"
)

// PassportService wraps the Passport actions.
type PassportService struct {
	client Poster
}

// NewPassportService creates a PassportService over client.
func NewPassportService(client Poster) *PassportService {
	return &PassportService{client: client}
}

// LogExploration records that user explored song from country and returns the entry id.
func (s *PassportService) LogExploration(ctx context.Context, user string, song models.Song, country string) (string, error) {
	var resp struct {
		Entry string `json:"entry"`
	}
	payload := Payload{"user": user, "song": song, "country": country}
	if err := s.client.Post(ctx, "/Passport/logExploration", payload, &resp); err != nil {
		return "", err
	}
	return resp.Entry, nil
}

// ExploredCountries lists every country the user has explored.
func (s *PassportService) ExploredCountries(ctx context.Context, user string) ([]models.ExploredCountry, error) {
	var rows []models.ExploredCountry
	if err := s.client.Post(ctx, "/Passport/_getExploredCountries", Payload{"user": user}, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.ExploredCountry{}
	}
	return rows, nil
}

// HistoryForCountry returns the user's normalized history for country.
func (s *PassportService) HistoryForCountry(ctx context.Context, user, country string) ([]models.HistoryEntry, error) {
	var rows []historyRow
	if err := s.client.Post(ctx, "/Passport/_getHistoryForCountry", Payload{"user": user, "country": country}, &rows); err != nil {
		return nil, err
	}

	entries := make([]models.HistoryEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.normalize(country))
	}
	return entries, nil
}

// historyRow is one history row. The backend answers either {entry:{song,date}}
// or a flat {song,date}; song is an object or a bare id.
type historyRow struct {
	Entry json.RawMessage `json:"entry"`
	Song  json.RawMessage `json:"song"`
	Date  json.RawMessage `json:"date"`
}

type historySong struct {
	ID        string `json:"_id"`
	SongTitle string `json:"songTitle"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
}

func (r historyRow) normalize(country string) models.HistoryEntry {
	node := r
	var inner historyRow
	if present(r.Entry) && json.Unmarshal(r.Entry, &inner) == nil {
		node = inner
	}

	songRaw := node.Song
	if !present(songRaw) {
		songRaw = r.Song
	}
	dateRaw := node.Date
	if !present(dateRaw) {
		dateRaw = r.Date
	}

	song := decodeHistorySong(songRaw)
	entry := models.HistoryEntry{
		SongID:    song.ID,
		SongTitle: firstOf(song.SongTitle, song.Title, UnknownSong),
		Artist:    firstOf(song.Artist, UnknownArtist),
		Date:      parseDate(dateRaw),
		Country:   country,
	}
	return entry
}

func decodeHistorySong(raw json.RawMessage) historySong {
	var song historySong
	if !present(raw) {
		return song
	}
	var id string
	if json.Unmarshal(raw, &id) == nil {
		song.ID = id
		return song
	}
	_ = json.Unmarshal(raw, &song)
	return song
}

// parseDate accepts RFC 3339 strings, plain dates and unix milliseconds.
func parseDate(raw json.RawMessage) *time.Time {
	if !present(raw) {
		return nil
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, time.DateTime, time.DateOnly} {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
		return nil
	}

	if ms, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
		t := time.UnixMilli(ms).UTC()
		return &t
	}
	return nil
}

func present(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null")) && !bytes.Equal(raw, []byte(`""`))
}

func firstOf(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
