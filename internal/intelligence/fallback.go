package intelligence

import "github.com/alexanderramin/cityguide/internal/domain"

const (
	FallbackConfidence = 0.5
	ApologyConfidence  = 0.1
	DefaultConfidence  = 0.8
)

const (
	fallbackText       = "Elnézést, most nem tudok válaszolni. Addig is nézd meg a közelgő programokat!"
	apologyText        = "Sajnos hiba történt a válasz elkészítésekor. Kérlek, próbáld újra pár perc múlva."
	restrictedText     = "Ebben a témában nem tudok segíteni. Kérdezz bátran a város programjairól, éttermeiről vagy a parkolásról!"
	genericSuccessText = "Íme, amit találtam."
)

// Fallback is the last-resort response for a failed pipeline. It does no I/O
// and cannot fail; the query does not change its content.
func Fallback(_ string) domain.AIResponse {
	return domain.AIResponse{
		Text:       fallbackText,
		Action:     &domain.ActionRef{Type: domain.ActionNavigateEvents, Params: map[string]any{}},
		Confidence: FallbackConfidence,
	}
}

// Apology is the low-confidence reply of a failed generation.
func Apology() domain.AIResponse {
	return domain.AIResponse{Text: apologyText, Confidence: ApologyConfidence}
}

// RestrictedReply is the fixed refusal for restricted topics.
func RestrictedReply() domain.AIResponse {
	return domain.AIResponse{Text: restrictedText, Confidence: 1}
}
