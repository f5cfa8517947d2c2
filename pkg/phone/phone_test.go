package phone

import "testing"

func TestNationalFormatValidNumber(t *testing.T) {
	national, ok := NationalFormat("+12025550123")
	if !ok {
		t.Fatal("expected US number to parse")
	}
	if national == "" {
		t.Fatal("expected non-empty national format")
	}
	if national[0] == '+' {
		t.Fatalf("national format must not carry the country code prefix: %q", national)
	}
}

func TestNationalFormatMalformedNumber(t *testing.T) {
	cases := []string{"", "   ", "not-a-number", "12345", "0248000000"}
	for _, raw := range cases {
		if national, ok := NationalFormat(raw); ok || national != "" {
			t.Fatalf("expected %q to yield empty result, got %q", raw, national)
		}
	}
}

func TestInternationalFormat(t *testing.T) {
	e164, ok := InternationalFormat("+1 202 555 0123")
	if !ok {
		t.Fatal("expected number to parse")
	}
	if e164 != "+12025550123" {
		t.Fatalf("unexpected E.164 rendering: %q", e164)
	}
}
