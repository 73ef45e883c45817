package services

import (
	"strings"

	"vzaimoBack/internal/models"
)

// Intake bounds enforced by the conversational layer before a listing is
// persisted. These are policy, not storage constraints.
const (
	TitleMinLen       = 3
	TitleMaxLen       = 100
	DescriptionMinLen = 10
	DescriptionMaxLen = 500
	ContactsMinLen    = 3
)

// Marker words scanned out of listing descriptions into the tag set.
var tagVocabulary = map[string]struct{}{
	"срочно":       {},
	"срочный":      {},
	"urgent":       {},
	"быстро":       {},
	"опыт":         {},
	"новичок":      {},
	"beginner":     {},
	"профессионал": {},
	"online":       {},
	"онлайн":       {},
	"офлайн":       {},
	"offline":      {},
	"remote":       {},
	"удаленно":     {},
}

// ExtractTags scans a description for marker words, case-insensitively,
// stripping surrounding punctuation and dropping duplicates.
func ExtractTags(description string) []string {
	seen := map[string]struct{}{}
	tags := []string{}
	for _, word := range strings.Fields(strings.ToLower(description)) {
		clean := strings.Trim(word, ".,!?;:")
		if _, ok := tagVocabulary[clean]; !ok {
			continue
		}
		if _, dup := seen[clean]; dup {
			continue
		}
		seen[clean] = struct{}{}
		tags = append(tags, clean)
	}
	return tags
}

func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if len([]rune(title)) < TitleMinLen {
		return &models.ValidationError{Field: "title", Message: "заголовок слишком короткий (минимум 3 символа)"}
	}
	if len([]rune(title)) > TitleMaxLen {
		return &models.ValidationError{Field: "title", Message: "заголовок слишком длинный (максимум 100 символов)"}
	}
	return nil
}

func ValidateDescription(description string) error {
	description = strings.TrimSpace(description)
	if len([]rune(description)) < DescriptionMinLen {
		return &models.ValidationError{Field: "description", Message: "описание слишком короткое (минимум 10 символов)"}
	}
	if len([]rune(description)) > DescriptionMaxLen {
		return &models.ValidationError{Field: "description", Message: "описание слишком длинное (максимум 500 символов)"}
	}
	return nil
}

func ValidateContacts(contacts string) error {
	if len([]rune(strings.TrimSpace(contacts))) < ContactsMinLen {
		return &models.ValidationError{Field: "contacts", Message: "укажите контакты для связи (минимум 3 символа)"}
	}
	return nil
}

func ValidateCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return &models.ValidationError{Field: "category", Message: "категория не выбрана"}
	}
	return nil
}

func ValidateKind(kind string) error {
	if kind != models.KindOffer && kind != models.KindRequest {
		return &models.ValidationError{Field: "kind", Message: "неизвестный тип заявки"}
	}
	return nil
}

func ValidateReviewRating(value float64) error {
	if value < 1 || value > 5 {
		return &models.ValidationError{Field: "rating", Message: "оценка должна быть от 1 до 5"}
	}
	return nil
}
