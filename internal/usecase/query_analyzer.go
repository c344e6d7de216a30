package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ecoswap/backend/internal/domain"
)

// productTypePatterns map detection patterns to canonical procurement
// categories. Ordered: the first match wins. Patterns run against
// normalized (lowercased, accent-stripped) text.
var productTypePatterns = []struct {
	productType string
	pattern     *regexp.Regexp
}{
	// Office supplies
	{"papel", regexp.MustCompile(`\b(papel|sulfite|a4|oficio|resma)\b`)},
	{"caneta", regexp.MustCompile(`\b(caneta|lapis|marcador|canetinha)\b`)},
	// Technology
	{"notebook", regexp.MustCompile(`\b(notebook|laptop|ultrabook)\b`)},
	{"monitor", regexp.MustCompile(`\b(monitor|display|tela)\b`)},
	{"impressora", regexp.MustCompile(`\b(impressora|multifuncional|scanner)\b`)},
	{"mouse", regexp.MustCompile(`\b(mouse|rato)\b`)},
	{"teclado", regexp.MustCompile(`\b(teclado|keyboard)\b`)},
	// Footwear and apparel
	{"tenis", regexp.MustCompile(`\b(tenis|sneaker|calcado esportivo)\b`)},
	{"sapato", regexp.MustCompile(`\b(sapato|bota|sandalia|chinelo)\b`)},
	{"roupa", regexp.MustCompile(`\b(camiseta|camisa|calca|blusa|vestido|uniforme)\b`)},
	// Appliances
	{"ar condicionado", regexp.MustCompile(`\b(ar condicionado|climatizador)\b`)},
	{"geladeira", regexp.MustCompile(`\b(geladeira|refrigerador|freezer)\b`)},
	// Furniture
	{"cadeira", regexp.MustCompile(`\b(cadeira|poltrona|assento)\b`)},
	{"mesa", regexp.MustCompile(`\b(mesa|escrivaninha|bancada)\b`)},
	{"armario", regexp.MustCompile(`\b(armario|estante|prateleira)\b`)},
	// Cleaning
	{"detergente", regexp.MustCompile(`\b(detergente|sabao|limpeza|desinfetante)\b`)},
	// Disposables
	{"copo", regexp.MustCompile(`\b(copo|copinho|descartavel)\b`)},
	// Lighting
	{"lampada", regexp.MustCompile(`\b(lampada|iluminacao|led|fluorescente)\b`)},
	// Gifts
	{"brinde", regexp.MustCompile(`\b(brinde|mimo|presente corporativo)\b`)},
	// Packaging
	{"embalagem", regexp.MustCompile(`\b(embalagem|caixa|envelope|saco)\b`)},
}

// bundlePrefixRegex strips packaging prefixes before brand extraction.
var bundlePrefixRegex = regexp.MustCompile(`^(?i:kit|conjunto|pacote|caixa)\s+`)

// sustainableKeywords expand the web search query beyond the bare type.
var sustainableKeywords = []string{"sustentável", "ecológico", "certificado", "reciclado", "orgânico"}

// DetectProductType classifies free product text into a canonical category.
// Returns "generic" when nothing matches.
func DetectProductType(text string) string {
	normalized := normalizeText(text)
	for _, entry := range productTypePatterns {
		if entry.pattern.MatchString(normalized) {
			return entry.productType
		}
	}
	return "generic"
}

// ExtractBrand guesses the brand from a product name: the first word, or the
// first two when the first is very short ("LG UltraWide ...").
func ExtractBrand(productName string) string {
	cleaned := strings.TrimSpace(bundlePrefixRegex.ReplaceAllString(productName, ""))
	words := strings.Fields(cleaned)
	if len(words) == 0 {
		return ""
	}
	if len(words[0]) <= 3 && len(words) > 1 {
		return words[0] + " " + words[1]
	}
	return words[0]
}

// BuildSearchQuery builds the web search query for sustainable alternatives
// of the given type, excluding the original product's brand when known.
func BuildSearchQuery(productType, brand string) string {
	query := productType + " " + strings.Join(sustainableKeywords, " OR ")
	if brand != "" {
		query += " -" + brand
	}
	return query
}

// analysisSystemPrompt pins the model to JSON output.
const analysisSystemPrompt = "You are a sustainability expert specializing in identifying " +
	"eco-friendly product alternatives. Always respond with valid JSON only."

// BuildAnalysisPrompt assembles the user prompt from the product facts and
// the web search snippets.
func BuildAnalysisPrompt(productName, productType, brand string, results []domain.SearchResult) string {
	var webContext strings.Builder
	for i, result := range results {
		if i > 0 {
			webContext.WriteString("\n\n")
		}
		fmt.Fprintf(&webContext, "[%d] %s\n%s", i+1, result.Title, result.Content)
	}
	if webContext.Len() == 0 {
		webContext.WriteString("No web results available")
	}

	if brand == "" {
		brand = "Unknown"
	}

	return fmt.Sprintf(`Analyze this product and suggest 3-5 sustainable alternatives:

ORIGINAL PRODUCT:
Name: %s
Type: %s
Brand: %s

WEB SEARCH RESULTS:
%s

INSTRUCTIONS:
1. Suggest 3-5 DIFFERENT sustainable alternatives (not the same brand/product)
2. Each alternative must have:
   - name: Clear product name
   - benefits: Array of 3-5 sustainability benefits
   - certifications: Array of relevant certifications (FSC, EPEAT, GOTS, etc)
   - searchTerms: Array of 2-3 search terms to find this product

3. Focus on:
   - Certified products (FSC, EPEAT Gold, Energy Star, GOTS, Fair Trade, etc)
   - Recycled or organic materials
   - Energy efficiency
   - Reduced environmental impact

4. Return ONLY valid JSON in this format:
{
  "alternatives": [
    {
      "name": "Product Name",
      "benefits": ["benefit 1", "benefit 2", "benefit 3"],
      "certifications": ["FSC", "EPEAT Gold"],
      "searchTerms": ["search term 1", "search term 2"]
    }
  ]
}

RESPOND WITH JSON ONLY:`, productName, productType, brand, webContext.String())
}
