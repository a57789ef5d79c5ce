package feed

// Record is one element of the official catalog feed's JSON array.
// Every field is a string; empty strings mean the field is absent.
// The feed is loosely typed, so no coercion happens at decode time.
type Record struct {
	New        string `json:"new"`
	Date       string `json:"date"`
	Title      string `json:"title"`
	TitleSort  string `json:"title_sort"`
	Artist     string `json:"artist"`
	ID         string `json:"id"`
	ChapID     string `json:"chap_id"`
	Chapter    string `json:"chapter"`
	Character  string `json:"character"`
	CharaID    string `json:"chara_id"`
	Category   string `json:"category"`
	CategoryID string `json:"category_id"`
	Lunatic    string `json:"lunatic"`
	Bonus      string `json:"bonus"`
	Copyright  string `json:"copyright1"`
	LevBas     string `json:"lev_bas"`
	LevAdv     string `json:"lev_adv"`
	LevExc     string `json:"lev_exc"`
	LevMas     string `json:"lev_mas"`
	LevLnt     string `json:"lev_lnt"`
	ImageURL   string `json:"image_url"`
}
