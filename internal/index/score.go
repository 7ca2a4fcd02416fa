package index

import (
	"math"

	"github.com/gridsmith/gridsmith/internal/grid"
)

// atomScores holds the relative frequency of each letter, measured
// over the stock dictionary. Index 0 (the empty atom) scores zero.
var atomScores = [grid.AtomCount]float64{
	0, 0.09062575314771874, 0.02097899760363229, 0.03434604298486668,
	0.037221082553848074, 0.11781545127357801, 0.016996862225737236,
	0.025051385357254, 0.032380546802375045, 0.06766254035033298,
	0.0028382700825742386, 0.013840703219770217, 0.05106980820701622,
	0.02758446870264884, 0.06579765885337364, 0.07380371311644462,
	0.026900221987417483, 0.0014162937627920208, 0.07111285524755726,
	0.07549811790369804, 0.07228279345142133, 0.028721314368746472,
	0.009132871887421193, 0.014259541096753555, 0.002845289711797423,
	0.017204776957966794, 0.002612639143257596,
}

// LetterScore is the branching heuristic by which each store's entries
// are sorted: the summed letter frequencies of the word, scaled by
// 1000, times the number of distinct letters. Favoring common and diverse letters
// keeps crossing slots maximally fillable.
func LetterScore(w grid.Word) int {
	score := 0.0
	for i := 0; i < w.Len(); i++ {
		score += atomScores[w.At(i).Code()] * 1000.
	}
	score *= float64(w.DistinctLetters())
	return int(score)
}

// normalizeFreqScores rescales raw frequency scores to [1, 100].
//
// Each raw score is expressed in standard deviations from the mean.
// Positive deviations are kept as-is and negative ones are halved,
// squeezing the left tail toward the average, then the deviation is
// clamped to [-1, 1] and mapped linearly onto [1, 100] around 50.
func normalizeFreqScores(entries []Entry) {
	if len(entries) == 0 {
		return
	}
	n := float64(len(entries))

	total := 0.0
	for i := range entries {
		total += float64(entries[i].FreqScore)
	}
	mean := total / n

	totalSqDev := 0.0
	for i := range entries {
		dev := float64(entries[i].FreqScore) - mean
		totalSqDev += dev * dev
	}
	sd := math.Sqrt(totalSqDev / n)

	const (
		maxSigma = 1.
		minSigma = 2.
	)
	for i := range entries {
		sigma := 0.0
		if sd > 0 {
			sigma = (float64(entries[i].FreqScore) - mean) / sd
		}
		if sigma > 0 {
			sigma = sigma / maxSigma
		} else {
			sigma = sigma / minSigma
		}
		sigma = math.Min(1., math.Max(-1., sigma))

		score := math.Round(50. + 50.*sigma)
		score = math.Min(100., math.Max(1., score))
		entries[i].FreqScore = int(score)
	}
}
