package catalog

import "github.com/ongekimuseum/museum-server/internal/feed"

// CorrectionRule rewrites one exact field value delivered by the feed.
// Rules are applied in order; the first match wins.
type CorrectionRule struct {
	Match   string
	Replace string
}

// Corrections holds the per-field correction tables applied to every feed
// record before identity matching. The upstream feed is hand-maintained and
// occasionally flips between spellings of the same value, which would
// otherwise split one song into two mirror rows.
type Corrections struct {
	Titles  []CorrectionRule
	Artists []CorrectionRule
}

// DefaultCorrections returns the known upstream inconsistencies.
// Most artist entries fix a half-width "CV:" that the feed sometimes swaps
// for the full-width "CV：" form.
func DefaultCorrections() Corrections {
	return Corrections{
		Titles: nil,
		Artists: []CorrectionRule{
			{"曲：宮崎誠／歌：星咲 あかり(CV:赤尾 ひかる)", "曲：宮崎誠／歌：星咲 あかり(CV：赤尾 ひかる)"},
			{"曲：上松範廉(Elements Garden)／歌：三角 葵(CV:春野 杏)", "曲：上松範廉(Elements Garden)／歌：三角 葵(CV：春野 杏)"},
			{"曲：ヒゲドライバー／歌：藤沢 柚子(CV:久保田 梨沙)", "曲：ヒゲドライバー／歌：藤沢 柚子(CV：久保田 梨沙)"},
			{"曲：TeddyLoid／歌：高瀬 梨緒(CV:久保 ユリカ)", "曲：TeddyLoid／歌：高瀬 梨緒(CV：久保 ユリカ)"},
			{"曲：Powerless／歌：柏木 咲姫(CV：石見 舞菜香)、柏木 美亜(CV:和氣 あず未)", "曲：Powerless／歌：柏木 咲姫(CV：石見 舞菜香)、柏木 美亜(CV：和氣 あず未)"},
			{"曲：やしきん／歌：柏木 美亜(CV:和氣 あず未)", "曲：やしきん／歌：柏木 美亜(CV：和氣 あず未)"},
			{"曲：DJ Genki／歌：東雲 つむぎ(CV:和泉 風花)", "曲：DJ Genki／歌：東雲 つむぎ(CV：和泉 風花)"},
			{"曲：本多友紀（Arte Refact）／歌：日向 千夏(CV:岡咲 美保)", "曲：本多友紀（Arte Refact）／歌：日向 千夏(CV：岡咲 美保)"},
			{"曲：中山真斗／歌：マーチングポケッツ [日向 千夏(CV:岡咲 美保)、柏木 美亜(CV:和氣 あず未)、東雲 つむぎ(CV:和泉 風花)]", "曲：中山真斗／歌：マーチングポケッツ [日向 千夏(CV：岡咲 美保)、柏木 美亜(CV：和氣 あず未)、東雲 つむぎ(CV：和泉 風花)]"},
			{"曲：篠崎あやと、橘亮祐／歌：マーチングポケッツ [日向 千夏(CV:岡咲 美保)、柏木 美亜(CV:和氣 あず未)、東雲 つむぎ(CV:和泉 風花)]", "曲：篠崎あやと、橘亮祐／歌：マーチングポケッツ [日向 千夏(CV：岡咲 美保)、柏木 美亜(CV：和氣 あず未)、東雲 つむぎ(CV：和泉 風花)]"},
			{"ノマ", "NOMA"},
			{"ビートまりお", "ビートまりお（COOL&CREATE）"},
			{"アイリス・ディセンバー・アンクライ(石上静香), パトリシア・オブ・エンド(高森奈津美)「ノラと皇女と野良猫ハート2」", "パトリシア・オブ・エンド, ルーシア・オブ・エンド・サクラメント, ユウラシア・オブ・エンド「ノラと皇女と野良猫ハート2」"},
			{"パトリシア・オブ・エンド・黒木未知・夕莉シャチ・明日原ユウキ「ノラと皇女と野良猫ハート」", "パトリシア・オブ・エンド(CV:高森奈津美)・黒木未知(CV:仙台エリ)・夕莉シャチ(CV:浅川悠)・明日原ユウキ(CV:種﨑敦美)「ノラと皇女と野良猫ハート」"},
			{"並木 学「怒首領蜂 大往生」", "並木 学「怒首領蜂大往生」"},
		},
	}
}

func applyRules(rules []CorrectionRule, value string) string {
	for _, r := range rules {
		if r.Match == value {
			return r.Replace
		}
	}
	return value
}

// normalizeRecord applies field corrections to a feed record before
// identity matching:
//
//   - title and artist correction tables
//   - a present lev_lnt forces the lunatic flag (old feed rows carried the
//     level but not the flag)
//   - a copyright of "-" means "none" upstream and is folded to absent
func (c Corrections) normalizeRecord(rec feed.Record) feed.Record {
	rec.Title = applyRules(c.Titles, rec.Title)
	rec.Artist = applyRules(c.Artists, rec.Artist)

	if rec.LevLnt != "" {
		rec.Lunatic = "1"
	}

	if rec.Copyright == "-" {
		rec.Copyright = ""
	}

	return rec
}
