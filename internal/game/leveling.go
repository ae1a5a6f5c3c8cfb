package game

// Cumulative EXP required to hold each level. Index i holds the threshold
// for level i+1; level 10 has no upper bound.
var levelThresholds = [10]int64{0, 500, 1_500, 3_500, 7_000, 12_500, 22_000, 40_000, 75_000, 150_000}

const MaxLevel = 10

// industryWeights maps industry -> discipline -> EXP weight. Missing
// combinations weigh 1.0. Weights stay inside [0.7, 1.4].
var industryWeights = map[string]map[Discipline]float64{
	"Restaurant": {
		Marketing: 1.2, Finance: 0.9, Operations: 1.3, HumanResources: 1.1, Legal: 0.8, Strategy: 0.9,
	},
	"Technology": {
		Marketing: 1.0, Finance: 1.1, Operations: 0.9, HumanResources: 0.9, Legal: 1.0, Strategy: 1.4,
	},
	"Retail": {
		Marketing: 1.3, Finance: 1.0, Operations: 1.2, HumanResources: 0.9, Legal: 0.7, Strategy: 0.9,
	},
	"Manufacturing": {
		Marketing: 0.8, Finance: 1.0, Operations: 1.4, HumanResources: 1.0, Legal: 1.1, Strategy: 0.9,
	},
	"Healthcare": {
		Marketing: 0.7, Finance: 1.0, Operations: 1.1, HumanResources: 1.2, Legal: 1.4, Strategy: 0.9,
	},
	"Real Estate": {
		Marketing: 1.1, Finance: 1.3, Operations: 0.8, HumanResources: 0.7, Legal: 1.2, Strategy: 1.0,
	},
	"Entertainment": {
		Marketing: 1.4, Finance: 0.8, Operations: 0.9, HumanResources: 1.0, Legal: 1.1, Strategy: 0.9,
	},
	"Consulting": {
		Marketing: 0.9, Finance: 1.1, Operations: 0.8, HumanResources: 1.0, Legal: 1.0, Strategy: 1.3,
	},
	"Ecommerce": {
		Marketing: 1.3, Finance: 1.0, Operations: 1.1, HumanResources: 0.8, Legal: 0.9, Strategy: 1.0,
	},
}

// LevelForEXP returns the highest level whose cumulative threshold is
// <= totalEXP. Total EXP below zero is treated as zero.
func LevelForEXP(totalEXP int64) int {
	level := 1
	for i := 1; i < len(levelThresholds); i++ {
		if totalEXP < levelThresholds[i] {
			break
		}
		level = i + 1
	}
	return level
}

// EXPToNext returns the EXP gap to the next level and that level's number.
// At max level it returns (0, MaxLevel).
func EXPToNext(totalEXP int64) (int64, int) {
	level := LevelForEXP(totalEXP)
	if level >= MaxLevel {
		return 0, MaxLevel
	}
	return levelThresholds[level] - totalEXP, level + 1
}

// IndustryWeight looks up the EXP weight for an industry/discipline pair,
// defaulting to 1.0 for unknown combinations.
func IndustryWeight(industry string, discipline Discipline) float64 {
	row, ok := industryWeights[industry]
	if !ok {
		return 1.0
	}
	w, ok := row[discipline]
	if !ok {
		return 1.0
	}
	return w
}

// WeightedEXP multiplies base EXP by the industry/discipline weight,
// truncating toward zero.
func WeightedEXP(base int64, industry string, discipline Discipline) int64 {
	return int64(float64(base) * IndustryWeight(industry, discipline))
}

// LevelUpCheck reports whether a level boundary was crossed between two
// cumulative EXP totals.
func LevelUpCheck(oldTotal, newTotal int64) (leveledUp bool, oldLevel, newLevel int) {
	oldLevel = LevelForEXP(oldTotal)
	newLevel = LevelForEXP(newTotal)
	return newLevel > oldLevel, oldLevel, newLevel
}
