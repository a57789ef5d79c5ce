package domain

// CatalogEntry is one row of the local mirror of the official song feed.
// Every feed field is kept as the loosely-typed string the feed delivered,
// with the empty string meaning "absent" (the reconciler folds empty feed
// values to absent before staging).
type CatalogEntry struct {
	Timestamps

	ID string `json:"id"`

	New         string `json:"new"`
	ReleaseDate string `json:"date"`
	Title       string `json:"title"`
	TitleSort   string `json:"title_sort"`
	Artist      string `json:"artist"`
	ExternalID  string `json:"id_string"`
	ChapterID   string `json:"chap_id"`
	ChapterName string `json:"chapter"`
	Character   string `json:"character"`
	CharacterID string `json:"chara_id"`
	Category    string `json:"category"`
	CategoryID  string `json:"category_id"`
	Lunatic     string `json:"lunatic"`
	Bonus       string `json:"bonus"`
	Copyright   string `json:"copyright"`
	LevBas      string `json:"lev_bas"`
	LevAdv      string `json:"lev_adv"`
	LevExc      string `json:"lev_exc"`
	LevMas      string `json:"lev_mas"`
	LevLnt      string `json:"lev_lnt"`
	ImageURL    string `json:"image_url"`

	Deleted bool `json:"is_deleted"`
}

// Level returns the raw level string for the given difficulty.
// The empty string means the entry has no chart at that difficulty.
func (e *CatalogEntry) Level(d Difficulty) string {
	switch d {
	case DifficultyBasic:
		return e.LevBas
	case DifficultyAdvanced:
		return e.LevAdv
	case DifficultyExpert:
		return e.LevExc
	case DifficultyMaster:
		return e.LevMas
	case DifficultyLunatic:
		return e.LevLnt
	default:
		return ""
	}
}
