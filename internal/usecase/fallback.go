package usecase

import "github.com/ecoswap/backend/internal/domain"

// genericFallback returns two deterministic template alternatives for the
// requested product type, used when no extracted candidate clears the
// relevance threshold. Same type in, byte-identical output out.
func genericFallback(productType string) []domain.Alternative {
	return []domain.Alternative{
		{
			Name: productType + " com certificação ambiental",
			Benefits: []string{
				"Certificação ambiental verificada",
				"Reduz impacto ambiental",
				"Materiais sustentáveis",
				"Processo produtivo responsável",
			},
			SearchTerms: []string{
				productType + " certificado",
				productType + " sustentável",
			},
		},
		{
			Name: productType + " ecológico",
			Benefits: []string{
				"Alto percentual de materiais reciclados",
				"Eficiência energética",
				"Durabilidade estendida",
				"Programa de reciclagem",
			},
			SearchTerms: []string{
				productType + " reciclado",
				productType + " eco",
			},
		},
	}
}
