package server

import (
	"encoding/json"
	"net/http"

	"github.com/zeusync/behaviortracker/internal/core/observability/log"
	"github.com/zeusync/behaviortracker/internal/core/pattern"
)

// SongInfo describes a song served by /songs.
type SongInfo struct {
	Name        string   `json:"name"`
	Fingerprint string   `json:"fingerprint"`
	Sequence    []string `json:"sequence"`
	LoopPoint   int      `json:"loop_point"`
	TotalLength int      `json:"total_length"`
}

func songInfo(song *pattern.Song) SongInfo {
	return SongInfo{
		Name:        song.Name,
		Fingerprint: pattern.FingerprintHex(song),
		Sequence:    append([]string{}, song.Sequence...),
		LoopPoint:   song.LoopPoint,
		TotalLength: song.TotalLength(),
	}
}

func (s *Server) handleSongs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	infos := make([]SongInfo, 0, len(s.names))
	for _, name := range s.names {
		infos = append(infos, songInfo(s.songs[name]))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(infos); err != nil {
		s.logger.Warn("failed to write song list", log.Error(err))
	}
}
