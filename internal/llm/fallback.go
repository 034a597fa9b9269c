package llm

import (
	"fmt"

	"github.com/ppiankov/clauseguard/internal/model"
)

// Supported output languages
const (
	LanguageEnglish = "en"
	LanguageHindi   = "hi"
)

// FallbackProvider is reported when no provider produced the text
const FallbackProvider = "fallback"

var riskFallbacks = map[string]map[model.RiskLevel]string{
	LanguageEnglish: {
		model.RiskLow:    "This clause is balanced and generally safe for the business.",
		model.RiskMedium: "This clause carries some risk and should be reviewed carefully.",
		model.RiskHigh:   "This clause is high risk and should be renegotiated.",
	},
	LanguageHindi: {
		model.RiskLow:    "यह क्लॉज संतुलित और व्यवसाय के लिए सुरक्षित है।",
		model.RiskMedium: "यह क्लॉज कुछ जोखिम पैदा कर सकता है और सावधानी की आवश्यकता है।",
		model.RiskHigh:   "यह क्लॉज उच्च जोखिम वाला है और पुनः बातचीत की आवश्यकता है।",
	},
}

var genericFallbacks = map[string]string{
	LanguageEnglish: "This clause defines business obligations and should be reviewed carefully.",
	LanguageHindi:   "यह क्लॉज व्यवसाय की जिम्मेदारियों को परिभाषित करता है और सावधानी से पढ़ा जाना चाहिए।",
}

const alternativeFallback = "A balanced alternative clause may allow termination with reasonable notice " +
	"and mutual obligations for both parties."

// NormalizeLanguage maps anything other than Hindi to English
func NormalizeLanguage(lang string) string {
	if lang == LanguageHindi {
		return LanguageHindi
	}
	return LanguageEnglish
}

// FallbackExplanation returns the canned explanation for a clause at level.
// Unknown levels get the generic explanation.
func FallbackExplanation(level model.RiskLevel, lang string) string {
	lang = NormalizeLanguage(lang)
	if text, ok := riskFallbacks[lang][level]; ok {
		return text
	}
	return genericFallbacks[lang]
}

// FallbackSummary returns the canned contract summary
func FallbackSummary(contractType string, level model.RiskLevel, lang string) string {
	if NormalizeLanguage(lang) == LanguageHindi {
		return fmt.Sprintf("यह एक %s अनुबंध है। कुल जोखिम स्तर: %s। कुछ शर्तों पर पुनः बातचीत की आवश्यकता हो सकती है।",
			contractType, level)
	}
	return fmt.Sprintf("This is a %s contract. Overall risk level is %s. Some clauses may require renegotiation.",
		contractType, level)
}

// FallbackAlternative returns the canned alternative clause
func FallbackAlternative() string {
	return alternativeFallback
}
