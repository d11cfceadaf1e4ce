package models

// SongRef is an object that carries a song identifier under one of the
// backend's field conventions.
type SongRef struct {
	ID     string `json:"_id,omitempty"`
	Song   string `json:"song,omitempty"`
	SongID string `json:"songId,omitempty"`
}

// songIDKeys lists identifier field names in resolution order.
var songIDKeys = []string{"_id", "song", "songId"}

// NormalizeSongID resolves a song identifier from a plain id or an object carrying one.
//
// Objects resolve to the first non-empty of _id, song, songId. Anything else yields "";
// callers must treat "" as invalid input.
func NormalizeSongID(ref any) string {
	switch v := ref.(type) {
	case nil:
		return ""
	case string:
		return v
	case SongRef:
		return firstNonEmpty(v.ID, v.Song, v.SongID)
	case *SongRef:
		if v == nil {
			return ""
		}
		return NormalizeSongID(*v)
	case Song:
		return v.ID
	case *Song:
		if v == nil {
			return ""
		}
		return v.ID
	case Recommendation:
		return v.ID
	case *Recommendation:
		if v == nil {
			return ""
		}
		return v.ID
	case HistoryEntry:
		return v.SongID
	case map[string]string:
		for _, k := range songIDKeys {
			if id := v[k]; id != "" {
				return id
			}
		}
	case map[string]any:
		for _, k := range songIDKeys {
			if id, ok := v[k].(string); ok && id != "" {
				return id
			}
		}
	}
	return ""
}

// NormalizeSongIDs normalizes each ref, reporting false if any resolves to "".
func NormalizeSongIDs[T any](refs []T) ([]string, bool) {
	ids := make([]string, len(refs))
	ok := true
	for i, ref := range refs {
		ids[i] = NormalizeSongID(ref)
		if ids[i] == "" {
			ok = false
		}
	}
	return ids, ok
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
