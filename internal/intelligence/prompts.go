package intelligence

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cityguide/internal/domain"
)

// respondSystemInstruction frames the model as the city assistant and pins
// the output contract.
const respondSystemInstruction = `You are the official city assistant of Kőszeg, Hungary.
You help residents and visitors with events, restaurants, attractions, hotels, parking,
leisure, practical information and emergencies.

Answer in the language of the user's question (Hungarian by default). Be brief and concrete:
two or three sentences, names and times from the provided context first.

You must output ONLY a JSON object with these exact fields:
- text: the reply shown to the user (non-empty string)
- action: null, or {"type": <action type>, "params": {...}}
- confidence: number 0 to 1

Allowed action types and params:
- navigate_to_events, navigate_to_parking, navigate_to_attractions, navigate_to_hotels,
  navigate_to_leisure, navigate_to_info, navigate_to_pass: { id?: string, category?: string }
- buy_parking_ticket: { zone: string, licensePlate: string, carrier?: string, useGPS?: boolean }
- save_vehicle: { licensePlate: string, nickname?: string, carrier?: string, isDefault?: boolean }
- call_emergency: { service: "general"|"ambulance"|"police"|"fire" }
- call_phone: { number: string }
- add_to_wallet: { eventId: string }
- open_external_map: { lat: number, lng: number, name?: string }

CRITICAL RULES:
1. Use only facts from the CONTEXT section or, when search is available, from search results.
   Never invent venues, prices, phone numbers or opening hours.
2. Never offer food ordering, games or event ticket purchase. These features do not exist.
3. If a DECISION section is present, follow its intent. For food_planning the user is far
   away: help them plan, do not send them anywhere.
4. For emergencies always mention 112 and prefer the call_emergency action.
5. Output only JSON. No markdown, no comments.`

// smalltalkSystemInstruction keeps chit-chat short and on topic.
const smalltalkSystemInstruction = `You are the friendly city assistant of Kőszeg, Hungary.
Reply to greetings and small talk in one or two sentences in the user's language, then offer
help with city topics (events, restaurants, parking, sights).

Output ONLY a JSON object: {"text": string, "action": null, "confidence": number 0-1}.`

// promptContext is serialized into the prompt's CONTEXT section.
type promptContext struct {
	Intents  []string               `json:"intents"`
	Backend  *domain.BackendContext `json:"backend,omitempty"`
	Decision *domain.Decision       `json:"decision,omitempty"`
	Menu     []domain.MenuItem      `json:"menu,omitempty"`
}

// buildPrompt renders the single user prompt for a request.
func buildPrompt(req ResponseRequest, loc *time.Location) (string, error) {
	now := req.Ambient.Now
	if now.IsZero() {
		now = time.Now()
	}
	if loc == nil {
		loc = time.Local
	}

	var b strings.Builder
	fmt.Fprintf(&b, "TIME: %s\n", formatHungarianTime(now.In(loc)))
	fmt.Fprintf(&b, "SITUATION: %s\n", situationSummary(req))

	ctxJSON, err := json.Marshal(promptContext{
		Intents:  req.Intents.Strings(),
		Backend:  req.Context,
		Decision: req.Decision,
		Menu:     req.Menu,
	})
	if err != nil {
		return "", fmt.Errorf("encoding prompt context: %w", err)
	}
	fmt.Fprintf(&b, "CONTEXT: %s\n", ctxJSON)
	if req.Decision != nil {
		fmt.Fprintf(&b, "DECISION: intent=%s fetch_menu=%t\n", req.Decision.Intent, req.Decision.FetchMenu)
	}
	fmt.Fprintf(&b, "PRIMARY INTENT: %s\n", req.Intent)
	fmt.Fprintf(&b, "QUESTION: %s\n", req.Query)
	return b.String(), nil
}

func situationSummary(req ResponseRequest) string {
	parts := []string{"mode=" + string(req.Ambient.AppMode)}
	if req.Movement != "" {
		parts = append(parts, "movement="+string(req.Movement))
	}
	if req.DistanceKm != nil {
		parts = append(parts, fmt.Sprintf("distance_from_center_km=%.1f", *req.DistanceKm))
	}
	if w := req.Ambient.Weather; w != nil {
		weather := fmt.Sprintf("weather=%s %.0f°C", w.Condition, w.TempC)
		if w.Raining {
			weather += " raining"
		}
		parts = append(parts, weather)
	} else {
		parts = append(parts, "weather=unknown")
	}
	return strings.Join(parts, ", ")
}

var hungarianWeekdays = [...]string{"vasárnap", "hétfő", "kedd", "szerda", "csütörtök", "péntek", "szombat"}

var hungarianMonths = [...]string{"január", "február", "március", "április", "május", "június",
	"július", "augusztus", "szeptember", "október", "november", "december"}

// formatHungarianTime renders t as "2026. október 19., hétfő 18:30".
func formatHungarianTime(t time.Time) string {
	return fmt.Sprintf("%d. %s %d., %s %02d:%02d",
		t.Year(), hungarianMonths[t.Month()-1], t.Day(), hungarianWeekdays[t.Weekday()], t.Hour(), t.Minute())
}
