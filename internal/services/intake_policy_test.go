package services

import (
	"reflect"
	"strings"
	"testing"

	"vzaimoBack/internal/models"
)

func TestExtractTags(t *testing.T) {
	cases := []struct {
		name        string
		description string
		want        []string
	}{
		{"single marker", "Нужно срочно починить сайт", []string{"срочно"}},
		{"punctuation stripped", "Помогите, срочно! Подойдет новичок.", []string{"срочно", "новичок"}},
		{"case insensitive", "URGENT task, Remote work", []string{"urgent", "remote"}},
		{"duplicates removed", "срочно срочно срочно", []string{"срочно"}},
		{"no markers", "обычное описание задачи", []string{}},
		{"marker inside word ignored", "несрочное дело", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractTags(tc.description)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ExtractTags(%q) = %v, want %v", tc.description, got, tc.want)
			}
		})
	}
}

func TestValidateTitle(t *testing.T) {
	if err := ValidateTitle("ab"); err == nil {
		t.Fatal("expected short title to fail")
	}
	if err := ValidateTitle(strings.Repeat("a", 101)); err == nil {
		t.Fatal("expected long title to fail")
	}
	if err := ValidateTitle("Починить сайт"); err != nil {
		t.Fatalf("valid title rejected: %v", err)
	}
	err := ValidateTitle("x")
	if !models.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestValidateDescription(t *testing.T) {
	if err := ValidateDescription("короткое"); err == nil {
		t.Fatal("expected short description to fail")
	}
	if err := ValidateDescription(strings.Repeat("о", 501)); err == nil {
		t.Fatal("expected long description to fail")
	}
	if err := ValidateDescription("Вполне нормальное описание задачи"); err != nil {
		t.Fatalf("valid description rejected: %v", err)
	}
}

func TestValidateContacts(t *testing.T) {
	if err := ValidateContacts("@a"); err == nil {
		t.Fatal("expected short contacts to fail")
	}
	if err := ValidateContacts("@username"); err != nil {
		t.Fatalf("valid contacts rejected: %v", err)
	}
}

func TestValidateKind(t *testing.T) {
	if err := ValidateKind(models.KindOffer); err != nil {
		t.Fatalf("offer kind rejected: %v", err)
	}
	if err := ValidateKind(models.KindRequest); err != nil {
		t.Fatalf("request kind rejected: %v", err)
	}
	if err := ValidateKind("auction"); err == nil {
		t.Fatal("unknown kind accepted")
	}
}

func TestValidateReviewRating(t *testing.T) {
	for _, bad := range []float64{0, 0.5, 5.5, -1} {
		if err := ValidateReviewRating(bad); err == nil {
			t.Fatalf("rating %v accepted", bad)
		}
	}
	for _, ok := range []float64{1, 3, 4.5, 5} {
		if err := ValidateReviewRating(ok); err != nil {
			t.Fatalf("rating %v rejected: %v", ok, err)
		}
	}
}
