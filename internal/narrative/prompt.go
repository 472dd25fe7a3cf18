package narrative

import "fmt"

// analystPrompt constrains the model to fact-grounded IPL commentary.
const analystPrompt = `You are an IPL (Indian Premier League) cricket analyst.

RULES:
- Talk ONLY about IPL.
- Use ONLY the facts provided.
- Do NOT mention datasets, calculations, or models.
- 2-3 crisp professional sentences.
- Sound like Cricinfo / IPL broadcast analysis.

FACTS:
%s

QUESTION:
%s

FINAL IPL ANALYSIS:
`

// BuildPrompt assembles the fixed instruction template around the rendered
// facts and the user's question.
func BuildPrompt(renderedFacts, question string) string {
	return fmt.Sprintf(analystPrompt, renderedFacts, question)
}
