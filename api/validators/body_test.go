package validators

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/bcardz/bcard-backend/internal/cards"
	pkgerrors "github.com/bcardz/bcard-backend/pkg/errors"
)

type samplePayload struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,ilphone"`
	Web   string `json:"web" validate:"omitempty,url,min=14"`
}

func decodeSample(t *testing.T, body string) (*samplePayload, error) {
	t.Helper()
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	return &payload, err
}

func TestDecodeValidBody(t *testing.T) {
	payload, err := decodeSample(t, `{"email":"biz@example.com","phone":"0521234567","web":"https://example.co.il"}`)
	if err != nil {
		t.Fatalf("expected valid body, got %v", err)
	}
	if payload.Email != "biz@example.com" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := decodeSample(t, `{"email":"biz@example.com","phone":"0521234567","extra":true}`)
	if err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := decodeSample(t, `{"email":`)
	if err == nil {
		t.Fatal("expected malformed JSON to be rejected")
	}
}

func TestPhoneValidation(t *testing.T) {
	valid := []string{"0521234567", "+972521234567", "031234567", "0501112223"}
	for _, phone := range valid {
		if !ilPhoneRe.MatchString(phone) {
			t.Fatalf("expected %q to be a valid phone", phone)
		}
	}

	invalid := []string{"1234567", "0611234567", "052123456", "05212345678", "+1-555-0100"}
	for _, phone := range invalid {
		if ilPhoneRe.MatchString(phone) {
			t.Fatalf("expected %q to be rejected", phone)
		}
	}
}

func TestCardAddressHouseNumberLowerBound(t *testing.T) {
	body := func(houseNumber int) string {
		return `{
			"title": "Business Card 1",
			"subtitle": "Best in Tel Aviv",
			"description": "Quality services for all",
			"phone": "0523334444",
			"email": "card@example.com",
			"web": "https://www.example.com",
			"image": {"alt": "storefront"},
			"address": {"country": "Israel", "city": "Tel Aviv", "street": "Dizengoff", "house_number": ` + strconv.Itoa(houseNumber) + `, "zip": 67890}
		}`
	}

	req := httptest.NewRequest("POST", "/", strings.NewReader(body(1)))
	var payload cards.CardRequest
	err := DecodeJSONBody(req, &payload)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected house_number 1 to fail validation, got %v", err)
	}

	req = httptest.NewRequest("POST", "/", strings.NewReader(body(2)))
	if err := DecodeJSONBody(req, &payload); err != nil {
		t.Fatalf("expected house_number 2 to pass, got %v", err)
	}
}

func TestValidationDetailsNameFields(t *testing.T) {
	_, err := decodeSample(t, `{"email":"nope","phone":"123"}`)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field detail map, got %v", typed.Details())
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email message: %q", details["email"])
	}
	if details["phone"] != "must be a valid Israeli phone number" {
		t.Fatalf("unexpected phone message: %q", details["phone"])
	}
}
