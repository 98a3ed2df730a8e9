package http

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestHex32Validation(t *testing.T) {
	type P struct {
		GroupID string `validate:"hex32"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{GroupID: strings.Repeat("a", 32)}); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}

	for _, s := range []string{
		"",                                  // empty
		strings.Repeat("A", 32),             // uppercase
		"deadbeef",                          // too short
		strings.Repeat("g", 32),             // non-hex char
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8",   // 31 chars
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88x", // 33 with extra
	} {
		err := cv.Validate(P{GroupID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "GroupID", "32-char lowercase hex") {
			t.Fatalf("expected hex32 message for %q, got: %+v", s, fe)
		}
	}
}

func TestMemberIDValidation(t *testing.T) {
	type P struct {
		PresidentID string `validate:"memberid"`
	}
	cv := NewValidator()

	for _, s := range []string{"pres", "member_07", "ANA-2", strings.Repeat("z", 64)} {
		if err := cv.Validate(P{PresidentID: s}); err != nil {
			t.Fatalf("expected %q to be valid, got %v", s, err)
		}
	}
	for _, s := range []string{"", "has space", "ana@example", strings.Repeat("z", 65)} {
		err := cv.Validate(P{PresidentID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "PresidentID", "letters, digits") {
			t.Fatalf("expected memberid message for %q, got %+v", s, fe)
		}
	}
}

func TestDec2Validation(t *testing.T) {
	type P struct {
		Rate float64 `validate:"dec2"`
	}
	cv := NewValidator()

	for _, v := range []float64{1.29, 2.00, 0.9, 1.2} {
		if err := cv.Validate(P{Rate: v}); err != nil {
			t.Fatalf("expected dec2 OK for %v, got %v", v, err)
		}
	}
	for _, v := range []float64{1.234, 2.9999} {
		err := cv.Validate(P{Rate: v})
		if err == nil {
			t.Fatalf("expected dec2 error for %v", v)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "Rate", "at most 2 decimal places") {
			t.Fatalf("expected 'at most 2 decimal places' for %v, got %+v", v, fe)
		}
	}
}

func TestDecimalFieldsValidateAsNumbers(t *testing.T) {
	type P struct {
		Amount decimal.Decimal `validate:"required,gt=0,dec2"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{Amount: decimal.RequireFromString("87.5")}); err != nil {
		t.Fatalf("expected 87.5 to be valid, got %v", err)
	}

	cases := map[string]string{
		"0":      "is required",
		"-3":     "greater than 0",
		"10.005": "at most 2 decimal places",
	}
	for in, msg := range cases {
		err := cv.Validate(P{Amount: decimal.RequireFromString(in)})
		if err == nil {
			t.Fatalf("expected error for %s", in)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "Amount", msg) {
			t.Fatalf("expected %q for %s, got %+v", msg, in, fe)
		}
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Name   string  `validate:"required"`
		Min    int     `validate:"gte=10"`
		Max    int     `validate:"lte=5"`
		Rate   float64 `validate:"dec2,gte=0,lte=50"`
		Reason string  `validate:"max=4"`
	}
	cv := NewValidator()

	err := cv.Validate(P{
		Name:   "",      // required
		Min:    9,       // gte=10
		Max:    6,       // lte=5
		Rate:   1.333,   // dec2 fails first
		Reason: "a lot", // max=4
	})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)

	if !containsFieldMsg(fe, "Name", "is required") {
		t.Fatalf("missing 'is required' for Name: %+v", fe)
	}
	if !containsFieldMsg(fe, "Min", "greater than or equal to 10") {
		t.Fatalf("missing gte message for Min: %+v", fe)
	}
	if !containsFieldMsg(fe, "Max", "less than or equal to 5") {
		t.Fatalf("missing lte message for Max: %+v", fe)
	}
	if !containsFieldMsg(fe, "Rate", "at most 2 decimal places") {
		t.Fatalf("missing dec2 message for Rate: %+v", fe)
	}
	if !containsFieldMsg(fe, "Reason", "at most 4 characters") {
		t.Fatalf("missing max message for Reason: %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}
