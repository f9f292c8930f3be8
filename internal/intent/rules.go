package intent

import (
	"regexp"

	"github.com/alexanderramin/cityguide/internal/domain"
)

// Rule tags a query with Intent when Pattern matches the folded text.
type Rule struct {
	Intent  domain.Intent
	Pattern *regexp.Regexp
}

// defaultRules is the topic battery in evaluation order. Patterns run
// against textnorm.Fold output.
var defaultRules = []Rule{
	{domain.IntentEmergency, regexp.MustCompile(`\b(mento\w*|rendor\w*|tuzolto\w*|baleset\w*|segitseg|112|korhaz\w*|ugyelet\w*|emergency|ambulance|police)\b`)},
	{domain.IntentParking, regexp.MustCompile(`\b(parkol\w*|parking|garazs\w*|rendszam\w*|park my car)\b`)},
	{domain.IntentFoodGeneral, regexp.MustCompile(`\b(enni|egyek|egyunk|eszek|ennek|etterem\w*|ettermet|vacsor\w*|ebed\w*|reggeliz\w*|kaja\w*|pizza\w*|hamburger\w*|kavez\w*|cukraszd\w*|rendel\w*|hazhozszallit\w*|kiszallit\w*|ehes\w*|delivery|restaurant\w*|food|eat|dinner|lunch)\b`)},
	{domain.IntentAttractions, regexp.MustCompile(`\b(latnivalo\w*|nevezetesseg\w*|muzeum\w*|var(at|ba|ban|hoz|ig|nal)?|templom\w*|kilato\w*|szobor\w*|attraction\w*|sightseeing|museum\w*|castle)\b`)},
	{domain.IntentLeisure, regexp.MustCompile(`\b(szabadido\w*|strand\w*|furdo\w*|uszoda\w*|wellness|kirandul\w*|tura\w*|setal\w*|jatszoter\w*|sport\w*|bicikl\w*|kerekpar\w*|leisure|hiking|pool)\b`)},
	{domain.IntentEvents, regexp.MustCompile(`\b(program\w*|esemeny\w*|rendezveny\w*|koncert\w*|fesztival\w*|eloadas\w*|kiallitas\w*|ma este|hetvege\w*|event\w*|concert\w*|festival\w*|tonight|happening)\b`)},
	{domain.IntentHotels, regexp.MustCompile(`\b(szallas\w*|szalloda\w*|hotel\w*|panzio\w*|apartman\w*|vendeghaz\w*|aludni|accommodation)\b`)},
	{domain.IntentNavigation, regexp.MustCompile(`\b(hogyan jutok|hogy jutok|utvonal\w*|merre van|hol talalom|navigal\w*|vigyel|terkep\w*|directions?|how do i get|route|map)\b`)},
	{domain.IntentItinerary, regexp.MustCompile(`\b(utiterv\w*|napirend\w*|mit csinaljak|mit csinaljunk|mit erdemes|egynapos|itinerary|plan my day)\b`)},
	{domain.IntentInfo, regexp.MustCompile(`\b(informacio\w*|info|nyitvatart\w*|nyitva|mikor nyit\w*|turinform|hulladek\w*|szemetszallit\w*|menetrend\w*|wifi|opening hours)\b`)},
	{domain.IntentSmalltalk, regexp.MustCompile(`\b(ki vagy|hogy vagy|mit tudsz|who are you|how are you)\b`)},
}

// Hungarian plates: ABC-123 and the newer AA-BC-123.
var platePattern = regexp.MustCompile(`\b([a-z]{3}-?\d{3}|[a-z]{2}-?[a-z]{2}-?\d{3})\b`)

var greetingPattern = regexp.MustCompile(`^\W*(szia\w*|hali|hello|hi|hey|udv\w*|jo (napot|reggelt|estet)\w*|koszonom|koszi|thanks|thank you)\b`)

// priorities ranks intents; higher sorts first. Restricted is never ranked
// because it is always returned alone.
var priorities = map[domain.Intent]int{
	domain.IntentEmergency:    100,
	domain.IntentParking:      90,
	domain.IntentNavigation:   80,
	domain.IntentFoodGeneral:  70,
	domain.IntentFoodPlace:    70,
	domain.IntentFoodDelivery: 70,
	domain.IntentFoodPlanning: 70,
	domain.IntentEvents:       60,
	domain.IntentAttractions:  55,
	domain.IntentLeisure:      50,
	domain.IntentHotels:       45,
	domain.IntentItinerary:    40,
	domain.IntentInfo:         35,
	domain.IntentSmalltalk:    10,
	domain.IntentUnknown:      0,
}

// Priority returns the rank of i in the fixed priority table.
func Priority(i domain.Intent) int {
	return priorities[i]
}
