package engine

// newsdata.io code values, used for the category/country/language columns.
var (
	Categories = []string{"business", "entertainment", "environment", "food", "health", "politics", "science", "sports", "technology", "top", "world"}
	Countries  = []string{"us", "gb", "ca", "au", "in", "ie", "nz", "za", "sg", "kr"}
	Languages  = []string{"en"}
)

// 학년별 영어 단어 사전 (word -> grade level)
// Seeded articles are written from these words so the frequency join has hits.
var GradeWords = map[string]int{
	// 1-2
	"big": 1, "cat": 1, "day": 1, "dog": 1, "fun": 1, "run": 1, "sun": 1, "red": 1,
	"home": 1, "play": 1, "car": 1, "tree": 1,
	"city": 2, "water": 2, "school": 2, "game": 2, "team": 2, "people": 2, "rain": 2,
	"money": 2, "world": 2, "food": 2, "family": 2,

	// 3-5
	"market": 3, "weather": 3, "animal": 3, "travel": 3, "country": 3, "leader": 3,
	"storm": 3, "health": 3, "player": 3, "music": 3,
	"energy": 4, "science": 4, "climate": 4, "election": 4, "report": 4, "research": 4,
	"company": 4, "history": 4, "disease": 4,
	"economy": 5, "government": 5, "technology": 5, "football": 5, "vaccine": 5,
	"forecast": 5, "invest": 5, "budget": 5,

	// 6-8
	"inflation": 6, "policy": 6, "protest": 6, "treaty": 6, "satellite": 6,
	"candidate": 6, "tournament": 6,
	"legislation": 7, "investigation": 7, "regulation": 7, "emissions": 7,
	"diplomat": 7, "recession": 7,
	"infrastructure": 8, "sovereignty": 8, "bipartisan": 8, "cryptocurrency": 8,
	"unprecedented": 8, "geopolitical": 8,
}

// Function words padding generated sentences. Not part of the vocabulary.
var fillerWords = []string{"the", "a", "of", "in", "on", "for", "with", "and", "as", "after", "before", "new", "says"}
