package usecase

import (
	"fmt"
	"sort"

	"github.com/ecoswap/backend/internal/domain"
)

const (
	defaultMinScore        = 50
	defaultMaxAlternatives = 3
)

// NormalizeOptions tunes one Normalize call. Zero values fall back to the
// defaults.
type NormalizeOptions struct {
	MinScore        int
	MaxAlternatives int
	URLContext      string
	BrandStoplist   []string
}

// CandidateDecision records the accept/reject outcome for one extracted
// candidate, letting the caller decide whether and how to log.
type CandidateDecision struct {
	Name     string
	Score    int
	Accepted bool
}

// NormalizerService converts free-form AI JSON into the bounded,
// schema-stable alternative list the extension consumes.
type NormalizerService struct {
	scorer *RelevanceScorer
}

// NewNormalizerService creates a normalizer around the given scorer.
func NewNormalizerService(scorer *RelevanceScorer) *NormalizerService {
	if scorer == nil {
		scorer = NewRelevanceScorer(DefaultScoreConfig())
	}
	return &NormalizerService{scorer: scorer}
}

// Normalize runs the full pipeline: extract → canonicalize → score → filter
// → sort → fallback → truncate. It never fails: any JSON value, including
// nil, yields a well-formed response with 1..MaxAlternatives entries.
func (s *NormalizerService) Normalize(aiJSON interface{}, productType string, opts NormalizeOptions) (*domain.NormalizedResponse, []CandidateDecision) {
	minScore := opts.MinScore
	if minScore <= 0 {
		minScore = defaultMinScore
	}
	maxAlternatives := opts.MaxAlternatives
	if maxAlternatives < 1 {
		maxAlternatives = defaultMaxAlternatives
	}
	urlContext := opts.URLContext
	if urlContext == "" {
		urlContext = metadataURLContext(aiJSON)
	}

	sctx := newScoringContext(productType, opts.BrandStoplist, urlContext)

	type scoredAlternative struct {
		alt   domain.Alternative
		score int
	}

	var kept []scoredAlternative
	var decisions []CandidateDecision

	for _, raw := range extractProducts(aiJSON) {
		alt := normalizeProduct(raw, productType)
		if alt.Name == "" {
			continue
		}

		score := s.scorer.Score(scoringView(raw, alt.Name), sctx)
		accepted := score >= minScore
		decisions = append(decisions, CandidateDecision{Name: alt.Name, Score: score, Accepted: accepted})

		if accepted {
			kept = append(kept, scoredAlternative{alt: alt, score: score})
		}
	}

	// Stable: ties keep extraction order.
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })

	alternatives := make([]domain.Alternative, 0, len(kept))
	for _, sc := range kept {
		alternatives = append(alternatives, sc.alt)
	}
	if len(alternatives) == 0 {
		alternatives = genericFallback(productType)
	}
	if len(alternatives) > maxAlternatives {
		alternatives = alternatives[:maxAlternatives]
	}

	return &domain.NormalizedResponse{
		IsSustainable: coerceBool(jsonField(aiJSON, "isSustainable")),
		Reason:        resolveReason(aiJSON, productType),
		Alternatives:  alternatives,
	}, decisions
}

func jsonField(v interface{}, key string) interface{} {
	if obj, ok := v.(map[string]interface{}); ok {
		return obj[key]
	}
	return nil
}

// coerceBool follows JSON truthiness for the value kinds encoding/json can
// produce: true booleans, non-empty strings and non-zero numbers are true.
func coerceBool(v interface{}) bool {
	switch value := v.(type) {
	case bool:
		return value
	case string:
		return value != ""
	case float64:
		return value != 0
	default:
		return false
	}
}

func resolveReason(aiJSON interface{}, productType string) string {
	for _, key := range []string{"reason", "razao"} {
		if s, ok := jsonField(aiJSON, key).(string); ok && s != "" {
			return s
		}
	}
	return fmt.Sprintf("%s convencional - considere alternativas certificadas", productType)
}

// metadataURLContext digs the page URL out of the shapes the extension posts.
func metadataURLContext(aiJSON interface{}) string {
	if meta, ok := jsonField(aiJSON, "metadata").(map[string]interface{}); ok {
		for _, key := range []string{"url", "pageUrl"} {
			if s, ok := meta[key].(string); ok && s != "" {
				return s
			}
		}
	}
	if s, ok := jsonField(aiJSON, "pageUrl").(string); ok {
		return s
	}
	return ""
}
