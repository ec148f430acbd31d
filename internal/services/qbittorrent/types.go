package qbittorrent

import "fmt"

// Torrent represents an entry returned by /api/v2/torrents/info
type Torrent struct {
	Hash     string  `json:"hash"`
	Name     string  `json:"name"`
	State    State   `json:"state"`
	Progress float64 `json:"progress"`
	Size     int64   `json:"size"`
	Tracker  string  `json:"tracker"`
	Category string  `json:"category"`
	Tags     string  `json:"tags"`
	AddedOn  int64   `json:"added_on"`
}

func (t Torrent) String() string {
	return fmt.Sprintf("[%s: %s]", shortHash(t.Hash), t.Name)
}

// State is the qBittorrent torrent state string
type State string

const (
	StateError              State = "error"
	StateMissingFiles       State = "missingFiles"
	StateUploading          State = "uploading"
	StatePausedUP           State = "pausedUP"
	StateStoppedUP          State = "stoppedUP"
	StateQueuedUP           State = "queuedUP"
	StateStalledUP          State = "stalledUP"
	StateCheckingUP         State = "checkingUP"
	StateForcedUP           State = "forcedUP"
	StateAllocating         State = "allocating"
	StateDownloading        State = "downloading"
	StateMetaDL             State = "metaDL"
	StatePausedDL           State = "pausedDL"
	StateStoppedDL          State = "stoppedDL"
	StateQueuedDL           State = "queuedDL"
	StateStalledDL          State = "stalledDL"
	StateCheckingDL         State = "checkingDL"
	StateForcedDL           State = "forcedDL"
	StateCheckingResumeData State = "checkingResumeData"
	StateMoving             State = "moving"
	StateUnknown            State = "unknown"
)

// IsPaused reports whether the torrent is paused (stopped on qBittorrent 5).
func (s State) IsPaused() bool {
	switch s {
	case StatePausedUP, StatePausedDL, StateStoppedUP, StateStoppedDL:
		return true
	default:
		return false
	}
}

// Hashes extracts the torrent hashes, preserving order.
func Hashes(torrents []Torrent) []string {
	hashes := make([]string, 0, len(torrents))
	for _, t := range torrents {
		hashes = append(hashes, t.Hash)
	}
	return hashes
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
