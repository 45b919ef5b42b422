package business

import (
	"math"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"goinventory_api/internal/inventory/models"
	"goinventory_api/pkg/business/service"
)

const (
	// brandGateThreshold is a hard gate: below it, two listings are assumed to
	// be different items no matter how similar the rest looks.
	brandGateThreshold  = 70.0
	brandGateFactor     = 0.5
	titleWeight         = 1.1
	exactMatchBonus     = 98.0
	missingPricePenalty = 60.0
)

// Scorer computes a 0-100 same-item likelihood for a pair of listings. Pure
// and deterministic: equal inputs always produce equal output, and the score
// is symmetric in its arguments.
type Scorer struct {
	text service.ITextService
}

func NewScorer(text service.ITextService) *Scorer {
	return &Scorer{text: text}
}

func (s *Scorer) Score(a, b models.ListingRecord) float64 {
	brandA := s.text.Normalize(a.Brand)
	brandB := s.text.Normalize(b.Brand)

	bothBrands := brandA != "" && brandB != ""
	var brandRatio float64
	if bothBrands {
		brandRatio = float64(fuzzy.Ratio(brandA, brandB))
		if brandRatio < brandGateThreshold {
			return brandRatio * brandGateFactor
		}
	}

	var scores []float64
	if bothBrands {
		scores = append(scores, brandRatio)
	}

	modelA := s.text.Normalize(a.Model)
	modelB := s.text.Normalize(b.Model)
	if modelA != "" && modelB != "" {
		scores = append(scores, float64(fuzzy.Ratio(modelA, modelB)))
	}

	titleA := s.text.Normalize(s.text.RemoveSpecialChars(a.Title))
	titleB := s.text.Normalize(s.text.RemoveSpecialChars(b.Title))
	if titleA != "" && titleB != "" {
		scores = append(scores, float64(fuzzy.TokenSortRatio(titleA, titleB))*titleWeight)
	}

	if bothBrands && brandA == brandB && modelA != "" && modelA == modelB {
		scores = append(scores, exactMatchBonus)
	}

	aPriced := a.HasPrice && a.Price > 0
	bPriced := b.HasPrice && b.Price > 0
	switch {
	case aPriced && bPriced:
		larger := math.Max(a.Price, b.Price)
		pctDiff := math.Abs(a.Price-b.Price) / larger * 100
		scores = append(scores, math.Max(0, 100-2*pctDiff))
	case aPriced || bPriced:
		scores = append(scores, missingPricePenalty)
	}

	if len(scores) == 0 {
		return 0
	}

	var sum float64
	for _, v := range scores {
		sum += v
	}
	mean := sum / float64(len(scores))
	return math.Min(100, math.Max(0, mean))
}
