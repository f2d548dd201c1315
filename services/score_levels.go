package services

// LevelDefinition is one tier of the 0-100 score range. The five tiers are
// contiguous and inclusive, so every integer total maps to exactly one tier.
type LevelDefinition struct {
	Name        string `json:"name"`
	Min         int    `json:"min"`
	Max         int    `json:"max"`
	Emoji       string `json:"emoji"`
	Color       string `json:"color"`
	Description string `json:"desc"`
}

var Levels = []LevelDefinition{
	{Name: "Broke", Min: 0, Max: 19, Emoji: "😬", Color: "#ff4d6d", Description: "Just getting started"},
	{Name: "Aware", Min: 20, Max: 39, Emoji: "👀", Color: "#ffb930", Description: "Building awareness"},
	{Name: "Steady", Min: 40, Max: 59, Emoji: "📈", Color: "#60a5fa", Description: "Finding your rhythm"},
	{Name: "Smart", Min: 60, Max: 79, Emoji: "🧠", Color: "#00e5c3", Description: "Making smart choices"},
	{Name: "Legend", Min: 80, Max: 100, Emoji: "🏆", Color: "#c8ff00", Description: "Elite financial habits"},
}

func GetLevel(score int) LevelDefinition {
	for _, l := range Levels {
		if score >= l.Min && score <= l.Max {
			return l
		}
	}
	return Levels[0]
}

// NextLevel returns the tier above the one containing score, or nil at the top.
func NextLevel(score int) *LevelDefinition {
	cur := GetLevel(score)
	for i := range Levels {
		if Levels[i].Name == cur.Name && i+1 < len(Levels) {
			return &Levels[i+1]
		}
	}
	return nil
}

// ProgressToNext reports how far through the current tier the score is, as a
// rounded percentage. A score already in the top tier reports 100.
func ProgressToNext(score int) int {
	cur := GetLevel(score)
	next := NextLevel(score)
	if next == nil {
		return 100
	}
	span := next.Min - cur.Min
	if span <= 0 {
		return 100
	}
	p := float64(score-cur.Min) / float64(span) * 100.0
	return int(p + 0.5)
}
