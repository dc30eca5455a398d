package ollama

import (
	"fmt"
	"strings"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
)

func buildAnswerPrompt(question string, results []domain.ScoredResult) string {
	var contextBuilder strings.Builder
	for idx, result := range results {
		contextBuilder.WriteString(fmt.Sprintf(
			"[%d] kanun=%s madde=%s guven=%s skor=%.3f\n%s\n\n",
			idx+1,
			result.Metadata.LawName,
			result.Metadata.ArticleNo,
			result.Confidence,
			result.FinalScore,
			result.Content,
		))
	}

	return fmt.Sprintf(`Sen bir hukuk asistanısın. Soruyu YALNIZCA aşağıdaki kanun maddelerine dayanarak cevapla.
Cevapta dayandığın maddeleri [n] biçiminde göster. Maddeler yetersizse bunu açıkça söyle, tahmin yürütme.

Soru:
%s

Kanun maddeleri:
%s
`, question, contextBuilder.String())
}
