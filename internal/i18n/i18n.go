// Package i18n translates the messages carried by API error responses.
package i18n

import (
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is used when the client states no supported preference.
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator maps message keys to text per locale. It is read-only after
// construction and safe for concurrent use.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a translator with the built-in catalogue.
func NewTranslator() *Translator {
	return &Translator{messages: catalogue}
}

// GetTranslator returns the process-wide translator.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Supports reports whether locale has a catalogue.
func (t *Translator) Supports(locale string) bool {
	_, ok := t.messages[locale]
	return ok
}

// Translate returns the message for key in locale, falling back to
// DefaultLocale and finally to the key itself.
func (t *Translator) Translate(key, locale string) string {
	if msg, ok := t.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// GetLocale picks the supported language the client ranks highest in
// Accept-Language. Regional variants fall back to their base language
// ("pt-BR" selects "pt") and entries with q=0 are refused.
func GetLocale(c *gin.Context) string {
	return Negotiate(c.GetHeader(AcceptLanguageHeader), GetTranslator())
}

// Negotiate resolves an Accept-Language value against t's locales.
func Negotiate(header string, t *Translator) string {
	best, bestQ := DefaultLocale, 0.0
	for _, part := range strings.Split(header, ",") {
		tag, q := parseLanguageRange(part)
		if q <= bestQ {
			continue
		}
		base, _, _ := strings.Cut(tag, "-")
		if t.Supports(base) {
			best, bestQ = base, q
		}
	}
	return best
}

// parseLanguageRange splits "en-US;q=0.8" into ("en-us", 0.8). A missing or
// malformed weight counts as 1.
func parseLanguageRange(part string) (string, float64) {
	tag, params, _ := strings.Cut(strings.TrimSpace(part), ";")
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" || tag == "*" {
		return "", 0
	}

	q := 1.0
	for _, param := range strings.Split(params, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || strings.TrimSpace(name) != "q" {
			continue
		}
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && parsed >= 0 && parsed <= 1 {
			q = parsed
		}
	}
	return tag, q
}

var catalogue = map[string]map[string]string{
	"en": {
		ErrKeyInvalidRequestBody:   "Invalid request body",
		ErrKeyInternalError:        "An unexpected error occurred",
		ErrKeyAPIKeyRequired:       "API key is required",
		ErrKeyInvalidAPIKey:        "Invalid API key",
		ErrKeyNotFound:             "Not found",
		ErrKeyRateLimitExceeded:    "Too many requests, please try again later",
		ErrKeyInvalidToken:         "Invalid or expired token",
		ErrKeyTokenRequired:        "Authentication token is required",
		ErrKeyTimeout:              "The request timed out",
		ErrKeyValidation:           "Validation failed",
		ErrKeyInvalidSchedule:      "Invalid route schedule",
		ErrKeyOrderCancelled:       "The order has been cancelled",
		ErrKeyConcurrentConflict:   "The resource was modified concurrently, please retry",
		ErrKeyInvariantViolation:   "Capacity ledger is inconsistent",
		ErrKeyQueueFull:            "Reconciliation queue is full, please retry later",
		ErrKeyAlreadyExists:        "A resource with this id already exists",
		ErrKeyNoCapacity:           "No trip has enough free capacity",
		ErrKeyUnschedulable:        "No trip is available within the planning horizon",
		ErrKeyNeedsStaffing:        "The truck trip has no available crew",
		ErrKeyUnavailable:          "The service is temporarily unavailable, please retry later",
		ErrKeyIdempotencyKeyReused: "This Idempotency-Key was already used with a different request",
	},
	"pt": {
		ErrKeyInvalidRequestBody:   "Corpo da requisição inválido",
		ErrKeyInternalError:        "Ocorreu um erro inesperado",
		ErrKeyAPIKeyRequired:       "Chave de API é obrigatória",
		ErrKeyInvalidAPIKey:        "Chave de API inválida",
		ErrKeyNotFound:             "Não encontrado",
		ErrKeyRateLimitExceeded:    "Muitas requisições, tente novamente mais tarde",
		ErrKeyInvalidToken:         "Token inválido ou expirado",
		ErrKeyTokenRequired:        "Token de autenticação é obrigatório",
		ErrKeyTimeout:              "A requisição expirou",
		ErrKeyValidation:           "Falha de validação",
		ErrKeyInvalidSchedule:      "Horário de rota inválido",
		ErrKeyOrderCancelled:       "O pedido foi cancelado",
		ErrKeyConcurrentConflict:   "O recurso foi alterado concorrentemente, tente novamente",
		ErrKeyInvariantViolation:   "O registro de capacidade está inconsistente",
		ErrKeyQueueFull:            "A fila de reconciliação está cheia, tente mais tarde",
		ErrKeyAlreadyExists:        "Já existe um recurso com este id",
		ErrKeyNoCapacity:           "Nenhuma viagem tem capacidade livre suficiente",
		ErrKeyUnschedulable:        "Nenhuma viagem disponível dentro do horizonte de planejamento",
		ErrKeyNeedsStaffing:        "A viagem de caminhão não tem equipe disponível",
		ErrKeyUnavailable:          "Serviço temporariamente indisponível, tente mais tarde",
		ErrKeyIdempotencyKeyReused: "Esta Idempotency-Key já foi usada com outra requisição",
	},
	"nl": {
		ErrKeyInvalidRequestBody:   "Ongeldige aanvraag body",
		ErrKeyInternalError:        "Er is een onverwachte fout opgetreden",
		ErrKeyAPIKeyRequired:       "API-sleutel is vereist",
		ErrKeyInvalidAPIKey:        "Ongeldige API-sleutel",
		ErrKeyNotFound:             "Niet gevonden",
		ErrKeyRateLimitExceeded:    "Te veel verzoeken, probeer het later opnieuw",
		ErrKeyInvalidToken:         "Ongeldig of verlopen token",
		ErrKeyTokenRequired:        "Authenticatietoken is vereist",
		ErrKeyTimeout:              "Het verzoek is verlopen",
		ErrKeyValidation:           "Validatie mislukt",
		ErrKeyInvalidSchedule:      "Ongeldige dienstregeling",
		ErrKeyOrderCancelled:       "De bestelling is geannuleerd",
		ErrKeyConcurrentConflict:   "De bron is gelijktijdig gewijzigd, probeer het opnieuw",
		ErrKeyInvariantViolation:   "Het capaciteitsregister is inconsistent",
		ErrKeyQueueFull:            "De reconciliatiewachtrij is vol, probeer het later opnieuw",
		ErrKeyAlreadyExists:        "Er bestaat al een bron met dit id",
		ErrKeyNoCapacity:           "Geen rit heeft genoeg vrije capaciteit",
		ErrKeyUnschedulable:        "Geen rit beschikbaar binnen de planningshorizon",
		ErrKeyNeedsStaffing:        "De vrachtwagenrit heeft geen beschikbare bemanning",
		ErrKeyUnavailable:          "De dienst is tijdelijk niet beschikbaar, probeer het later opnieuw",
		ErrKeyIdempotencyKeyReused: "Deze Idempotency-Key is al gebruikt voor een ander verzoek",
	},
}
