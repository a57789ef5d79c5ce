package domain

// Difficulty identifies one of the fixed per-song chart slots.
type Difficulty int

const (
	DifficultyBasic    Difficulty = 1
	DifficultyAdvanced Difficulty = 2
	DifficultyExpert   Difficulty = 3
	DifficultyMaster   Difficulty = 4
	DifficultyLunatic  Difficulty = 5
	// DifficultyRemaster is reserved; the feed does not carry it yet.
	DifficultyRemaster Difficulty = 6
)

// Difficulties lists the slots the feed can populate, in ascending order.
var Difficulties = []Difficulty{
	DifficultyBasic,
	DifficultyAdvanced,
	DifficultyExpert,
	DifficultyMaster,
	DifficultyLunatic,
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyBasic:
		return "basic"
	case DifficultyAdvanced:
		return "advanced"
	case DifficultyExpert:
		return "expert"
	case DifficultyMaster:
		return "master"
	case DifficultyLunatic:
		return "lunatic"
	case DifficultyRemaster:
		return "remaster"
	default:
		return "unknown"
	}
}

// Chart is one difficulty slot of a Song. Level is the fixed-point level
// (13.8 stored as 138); (SongID, Difficulty) is unique.
type Chart struct {
	Timestamps

	ID         string     `json:"id"`
	SongID     string     `json:"song_id"`
	Difficulty Difficulty `json:"difficulty"`
	Level      int        `json:"level"`
	Bonus      bool       `json:"is_bonus"`
	Deleted    bool       `json:"is_deleted"`
}
