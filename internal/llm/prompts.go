package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/clauseguard/internal/model"
)

const systemPrompt = `You are a contract review assistant for Indian small and medium businesses.
Explain in plain language for a business owner without legal training.
Do not give legal advice and do not invent facts that are not in the text.`

// classifyInputLimit bounds the contract text sent for classification
const classifyInputLimit = 1000

func languageName(lang string) string {
	if NormalizeLanguage(lang) == LanguageHindi {
		return "Hindi"
	}
	return "English"
}

func buildExplainPrompt(clauseText string, level model.RiskLevel, lang string) string {
	var sb strings.Builder
	sb.WriteString("Explain this contract clause in simple terms.\n")
	fmt.Fprintf(&sb, "Language: %s\n", languageName(lang))
	if level != "" {
		fmt.Fprintf(&sb, "Assessed risk level: %s\n", level)
	}
	sb.WriteString("Answer in at most three sentences.\n\n")
	sb.WriteString("Clause:\n")
	sb.WriteString(clauseText)
	return sb.String()
}

func buildSummaryPrompt(contractType string, level model.RiskLevel, keyRisks []string, lang string) string {
	var sb strings.Builder
	sb.WriteString("Summarize this contract for a small business owner.\n")
	fmt.Fprintf(&sb, "Language: %s\n", languageName(lang))
	fmt.Fprintf(&sb, "Contract type: %s\n", contractType)
	fmt.Fprintf(&sb, "Overall risk level: %s\n", level)
	if len(keyRisks) > 0 {
		fmt.Fprintf(&sb, "Key risks: %s\n", strings.Join(keyRisks, ", "))
	} else {
		sb.WriteString("Key risks: none detected\n")
	}
	sb.WriteString("\nWrite one short paragraph. Mention which clauses deserve renegotiation.")
	return sb.String()
}

func buildAlternativePrompt(clauseText string) string {
	return "Suggest a safer alternative clause for an Indian SME.\n" +
		"Keep it balanced for both parties and reply with the clause text only.\n\n" +
		"Clause:\n" + clauseText
}

func buildClassifyPrompt(text string) string {
	if r := []rune(text); len(r) > classifyInputLimit {
		text = string(r[:classifyInputLimit])
	}
	return "Classify the contract type. Reply with exactly one word from: " +
		"employment, vendor, lease, partnership, service, other.\n" + text
}
