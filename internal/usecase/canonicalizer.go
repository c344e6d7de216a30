package usecase

import (
	"strings"

	"github.com/ecoswap/backend/internal/domain"
)

const (
	maxBenefits    = 4
	maxSearchTerms = 3
)

// Field aliases per canonical attribute, evaluated in order: first present
// and non-empty wins. The model answers in Portuguese or English depending
// on the prompt context, so both spellings are accepted.
var (
	nameAliases        = []string{"nome", "name", "produto", "title"}
	benefitAliases     = []string{"benefits", "beneficios"}
	featureAliases     = []string{"caracteristicas", "features"}
	searchTermAliases  = []string{"searchTerms", "termosBusca"}
	categoryAliases    = []string{"categoria", "category", "type", "tipo"}
	descriptionAliases = []string{"descricao", "description", "desc"}
	tagAliases         = []string{"tags", "etiquetas"}
)

// genericBenefits cover candidates that carry no usable benefit data.
var genericBenefits = []string{
	"Produto com características sustentáveis",
	"Certificação ambiental verificada",
	"Redução de impacto ambiental",
}

// normalizeProduct maps one raw candidate object into the canonical
// Alternative shape. It never fails: missing or malformed fields fall back
// to synthesized defaults, and the benefits/searchTerms bounds always hold.
func normalizeProduct(raw map[string]interface{}, productType string) domain.Alternative {
	name := firstString(raw, nameAliases)
	if name == "" {
		name = productType + " sustentável"
	}

	return domain.Alternative{
		Name:        name,
		Benefits:    resolveBenefits(raw),
		SearchTerms: resolveSearchTerms(raw, productType, name),
		Category:    firstString(raw, categoryAliases),
		Description: firstString(raw, descriptionAliases),
		Tags:        stringSlice(raw, tagAliases),
	}
}

// rawBenefits extracts only what the candidate itself says: a benefits array
// if present, otherwise sentences synthesized from its feature object.
func rawBenefits(raw map[string]interface{}) []string {
	benefits := stringSlice(raw, benefitAliases)
	if len(benefits) > 0 {
		return benefits
	}

	features := firstObject(raw, featureAliases)
	if features == nil {
		return nil
	}

	if cert := firstString(features, []string{"certificacao", "certification"}); cert != "" {
		benefits = append(benefits, "Certificação "+cert)
	}
	if economy := firstString(features, []string{"economia"}); economy != "" {
		benefits = append(benefits, economy)
	}
	if recyclable := firstString(features, []string{"reciclavel"}); recyclable != "" {
		benefits = append(benefits, recyclable+" materiais recicláveis")
	}
	return benefits
}

func resolveBenefits(raw map[string]interface{}) []string {
	benefits := rawBenefits(raw)
	if len(benefits) == 0 {
		benefits = append(benefits, genericBenefits...)
	}
	if len(benefits) > maxBenefits {
		benefits = benefits[:maxBenefits]
	}
	return benefits
}

// rawSearchTerms extracts the candidate's own search terms, deduplicated.
func rawSearchTerms(raw map[string]interface{}) []string {
	return dedupe(stringSlice(raw, searchTermAliases))
}

func resolveSearchTerms(raw map[string]interface{}, productType, name string) []string {
	terms := rawSearchTerms(raw)

	if len(terms) == 0 {
		// Brand is typically the word right after the type in the name, so
		// the first two words make a usable shopping query.
		parts := strings.Fields(name)
		if len(parts) >= 2 {
			terms = append(terms, parts[0]+" "+parts[1])
		}
		terms = append(terms, productType+" sustentável", productType+" certificado")
		terms = dedupe(terms)
	}

	if len(terms) > maxSearchTerms {
		terms = terms[:maxSearchTerms]
	}
	return terms
}

// firstString resolves an alias list to the first present, non-empty string.
func firstString(raw map[string]interface{}, aliases []string) string {
	for _, key := range aliases {
		if s, ok := raw[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// stringSlice resolves an alias list to the first array value, keeping only
// its non-empty string elements.
func stringSlice(raw map[string]interface{}, aliases []string) []string {
	for _, key := range aliases {
		arr, ok := raw[key].([]interface{})
		if !ok {
			continue
		}
		var out []string
		for _, el := range arr {
			if s, ok := el.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func firstObject(raw map[string]interface{}, aliases []string) map[string]interface{} {
	for _, key := range aliases {
		if obj, ok := raw[key].(map[string]interface{}); ok {
			return obj
		}
	}
	return nil
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
