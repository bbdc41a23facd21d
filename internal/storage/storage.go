package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
	gamePrefix     = "game/"
)

// Preferences stores user settings.
type Preferences struct {
	Username   string        `json:"username"`
	EngineSide string        `json:"engine_side"`
	Depth      int           `json:"depth"`
	MoveTime   time.Duration `json:"move_time"`
	LastPlayed time.Time     `json:"last_played"`
}

// DefaultPreferences returns default user preferences.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Username:   "Player",
		EngineSide: "black",
		Depth:      5,
	}
}

// GameStats stores aggregate results of finished games.
type GameStats struct {
	GamesPlayed      int `json:"games_played"`
	Wins             int `json:"wins"`
	Losses           int `json:"losses"`
	Draws            int `json:"draws"`
	LongestWinStreak int `json:"longest_win_streak"`
	CurrentStreak    int `json:"current_streak"`
}

// WinRate returns the win rate as a percentage (0-100).
func (s *GameStats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// PlayerResult is a finished game from the human player's point of view.
type PlayerResult int

const (
	PlayerWin PlayerResult = iota
	PlayerLoss
	PlayerDraw
)

// GameRecord is a stored game.
type GameRecord struct {
	// ID is the unix-nano start time; SaveGame assigns it when zero.
	ID         int64     `json:"id"`
	StartFEN   string    `json:"start_fen"`
	FinalFEN   string    `json:"final_fen"`
	Moves      []string  `json:"moves"` // SAN
	Result     string    `json:"result"`
	Outcome    string    `json:"outcome"`
	EngineSide string    `json:"engine_side"`
	Depth      int       `json:"depth"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB
}

// Open opens the database in dir. An empty dir keeps everything in memory.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open %q: %w", dir, err)
	}
	log.Debug().Str("dir", dir).Bool("in_memory", dir == "").Msg("storage opened")
	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) putJSON(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// getJSON decodes the value under key into v. It returns ErrNotFound when
// the key is missing.
func (s *Storage) getJSON(key []byte, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// IsFirstLaunch returns true if this is the first launch.
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})
	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete.
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves user preferences.
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	return s.putJSON([]byte(keyPreferences), prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found.
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	if err := s.getJSON([]byte(keyPreferences), prefs); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return prefs, nil
}

// LoadStats loads game statistics, returns empty stats if not found.
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := &GameStats{}
	if err := s.getJSON([]byte(keyStats), stats); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return stats, nil
}

// RecordResult adds a finished game to the statistics.
func (s *Storage) RecordResult(result PlayerResult) (*GameStats, error) {
	stats, err := s.LoadStats()
	if err != nil {
		return nil, err
	}

	stats.GamesPlayed++
	switch result {
	case PlayerWin:
		stats.Wins++
		stats.CurrentStreak++
		stats.LongestWinStreak = max(stats.LongestWinStreak, stats.CurrentStreak)
	case PlayerLoss:
		stats.Losses++
		stats.CurrentStreak = 0
	default:
		stats.Draws++
		stats.CurrentStreak = 0
	}

	if err := s.putJSON([]byte(keyStats), stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// gameKey orders games by id under gamePrefix.
func gameKey(id int64) []byte {
	key := make([]byte, len(gamePrefix)+8)
	copy(key, gamePrefix)
	binary.BigEndian.PutUint64(key[len(gamePrefix):], uint64(id))
	return key
}

// SaveGame stores rec, assigning an ID when it has none.
func (s *Storage) SaveGame(rec *GameRecord) error {
	if rec.ID == 0 {
		rec.ID = time.Now().UnixNano()
	}
	if err := s.putJSON(gameKey(rec.ID), rec); err != nil {
		return fmt.Errorf("storage: save game %d: %w", rec.ID, err)
	}
	return nil
}

// LoadGame returns the game stored under id.
func (s *Storage) LoadGame(id int64) (*GameRecord, error) {
	rec := &GameRecord{}
	if err := s.getJSON(gameKey(id), rec); err != nil {
		return nil, fmt.Errorf("storage: load game %d: %w", id, err)
	}
	return rec, nil
}

// DeleteGame removes the game stored under id.
func (s *Storage) DeleteGame(id int64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := gameKey(id)
		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("storage: delete game %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// ListGames returns up to limit games, newest first. A limit of 0 or less
// returns every game.
func (s *Storage) ListGames(limit int) ([]GameRecord, error) {
	var games []GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts at the last key not greater than the seek key.
		seek := append([]byte(gamePrefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(opts.Prefix); it.Next() {
			var rec GameRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			games = append(games, rec)
			if limit > 0 && len(games) >= limit {
				break
			}
		}
		return nil
	})
	return games, err
}
