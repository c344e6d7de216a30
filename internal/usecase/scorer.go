package usecase

import (
	"math"
	"strings"

	"github.com/ecoswap/backend/internal/domain"
)

// Default similarity weights and penalties. Empirically tuned, so they are
// kept as independently configurable values rather than structural constants.
const (
	defaultTokenWeight    = 50.0
	defaultNameWeight     = 20.0
	defaultCategoryWeight = 15.0
	defaultURLWeight      = 10.0
	defaultBigramWeight   = 15.0

	defaultUINoisePenalty = 40.0
	defaultBrandPenalty   = 45.0

	defaultBrandSignalMin = 0.35
	defaultTypeSignalMax  = 0.25
)

// uiNoisePrefixes are call-to-action fragments that sometimes leak from the
// page UI into the model output ("Adicionar ao carrinho", "Buy now").
var uiNoisePrefixes = []string{"adicionar", "comprar", "botao", "button", "add", "buy"}

// ScoreConfig holds the tunable scoring constants. Zero values fall back to
// the defaults.
type ScoreConfig struct {
	TokenWeight    float64
	NameWeight     float64
	CategoryWeight float64
	URLWeight      float64
	BigramWeight   float64
	UINoisePenalty float64
	BrandPenalty   float64
	BrandSignalMin float64
	TypeSignalMax  float64
}

// DefaultScoreConfig returns the tuned defaults.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		TokenWeight:    defaultTokenWeight,
		NameWeight:     defaultNameWeight,
		CategoryWeight: defaultCategoryWeight,
		URLWeight:      defaultURLWeight,
		BigramWeight:   defaultBigramWeight,
		UINoisePenalty: defaultUINoisePenalty,
		BrandPenalty:   defaultBrandPenalty,
		BrandSignalMin: defaultBrandSignalMin,
		TypeSignalMax:  defaultTypeSignalMax,
	}
}

// ScoringContext carries the similarity targets derived once per normalize
// call. Immutable for the duration of the call.
type ScoringContext struct {
	typeTokens   []string
	typeBigrams  []string
	brandTokens  []string
	brandBigrams []string
	urlContext   string
}

// newScoringContext derives tokens and bigrams from the product type and the
// brand stoplist. Brand tokens are removed from the type token set so a
// stoplisted brand that appears in the type cannot penalize the type itself.
func newScoringContext(productType string, brandStoplist []string, urlContext string) *ScoringContext {
	brandText := strings.Join(brandStoplist, " ")
	brandTokens := tokenize(brandText)
	brandSet := toSet(brandTokens)

	var typeTokens []string
	for _, token := range tokenize(productType) {
		if _, ok := brandSet[token]; ok {
			continue
		}
		typeTokens = append(typeTokens, token)
	}

	return &ScoringContext{
		typeTokens:   typeTokens,
		typeBigrams:  charBigrams(productType),
		brandTokens:  brandTokens,
		brandBigrams: charBigrams(brandText),
		urlContext:   urlContext,
	}
}

// RelevanceScorer scores candidate alternatives against a scoring context.
type RelevanceScorer struct {
	config ScoreConfig
}

// NewRelevanceScorer creates a scorer, filling zero config fields with the
// tuned defaults.
func NewRelevanceScorer(config ScoreConfig) *RelevanceScorer {
	def := DefaultScoreConfig()
	config.TokenWeight = orDefault(config.TokenWeight, def.TokenWeight)
	config.NameWeight = orDefault(config.NameWeight, def.NameWeight)
	config.CategoryWeight = orDefault(config.CategoryWeight, def.CategoryWeight)
	config.URLWeight = orDefault(config.URLWeight, def.URLWeight)
	config.BigramWeight = orDefault(config.BigramWeight, def.BigramWeight)
	config.UINoisePenalty = orDefault(config.UINoisePenalty, def.UINoisePenalty)
	config.BrandPenalty = orDefault(config.BrandPenalty, def.BrandPenalty)
	config.BrandSignalMin = orDefault(config.BrandSignalMin, def.BrandSignalMin)
	config.TypeSignalMax = orDefault(config.TypeSignalMax, def.TypeSignalMax)
	return &RelevanceScorer{config: config}
}

func orDefault(value, fallback float64) float64 {
	if value <= 0 {
		return fallback
	}
	return value
}

// Score computes the topical relevance of a candidate against the context as
// an integer in [0,100]. Pure and total: no input makes it fail.
//
// The candidate should carry only the text the model actually produced;
// synthesized defaults would inject the product type into every candidate
// and blind the brand-confusion check.
func (s *RelevanceScorer) Score(alt domain.Alternative, sctx *ScoringContext) int {
	aggregate := aggregateText(alt)
	aggregateTokens := tokenize(aggregate)
	aggregateBigrams := charBigrams(aggregate)

	tokenSim := coverage(sctx.typeTokens, aggregateTokens)
	bigramSimAll := dice(sctx.typeBigrams, aggregateBigrams)
	nameSim := dice(sctx.typeBigrams, charBigrams(alt.Name))

	catSim := 0.0
	if alt.Category != "" {
		catSim = dice(sctx.typeBigrams, charBigrams(alt.Category))
	}
	urlSim := 0.0
	if sctx.urlContext != "" {
		urlSim = dice(sctx.typeBigrams, charBigrams(sctx.urlContext))
	}

	score := s.config.TokenWeight*tokenSim +
		s.config.NameWeight*nameSim +
		s.config.CategoryWeight*catSim +
		s.config.URLWeight*urlSim +
		s.config.BigramWeight*bigramSimAll

	if hasUINoisePrefix(alt.Name) {
		score -= s.config.UINoisePenalty
	}

	// A candidate that strongly echoes the excluded brand but only weakly
	// echoes the requested type is very likely the same product again.
	if len(sctx.brandTokens) > 0 {
		brandSignal := math.Max(
			jaccard(sctx.brandTokens, aggregateTokens),
			math.Max(
				dice(sctx.brandBigrams, charBigrams(alt.Name)),
				dice(sctx.brandBigrams, aggregateBigrams),
			),
		)
		typeSignal := math.Max(math.Max(tokenSim, nameSim), math.Max(catSim, bigramSimAll))
		if brandSignal >= s.config.BrandSignalMin && typeSignal < s.config.TypeSignalMax {
			score -= s.config.BrandPenalty
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(math.Round(score))
}

// aggregateText joins every textual field of the candidate. A plain space is
// enough as separator: normalization collapses whitespace anyway.
func aggregateText(alt domain.Alternative) string {
	parts := make([]string, 0, 3+len(alt.Tags)+len(alt.SearchTerms)+len(alt.Benefits))
	parts = append(parts, alt.Name, alt.Description, alt.Category)
	parts = append(parts, alt.Tags...)
	parts = append(parts, alt.SearchTerms...)
	parts = append(parts, alt.Benefits...)
	return strings.Join(parts, " ")
}

func hasUINoisePrefix(name string) bool {
	normalized := normalizeText(name)
	for _, prefix := range uiNoisePrefixes {
		if strings.HasPrefix(normalized, prefix) {
			return true
		}
	}
	return false
}

// scoringView builds the candidate the scorer sees: the resolved name plus
// only the fields the raw object itself carried.
func scoringView(raw map[string]interface{}, name string) domain.Alternative {
	return domain.Alternative{
		Name:        name,
		Description: firstString(raw, descriptionAliases),
		Category:    firstString(raw, categoryAliases),
		Tags:        stringSlice(raw, tagAliases),
		SearchTerms: rawSearchTerms(raw),
		Benefits:    rawBenefits(raw),
	}
}
