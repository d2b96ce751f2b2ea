package validation

import "testing"

func TestRequired(t *testing.T) {
	v := make(Violations)
	Required("name", "  ", v)
	Required("phone", "555", v)
	if v["name"] != "required" {
		t.Fatalf("expected name required, got %v", v)
	}
	if _, ok := v["phone"]; ok {
		t.Fatalf("phone should be valid")
	}
}

func TestNumbers(t *testing.T) {
	v := make(Violations)
	NonNegativeFloat("price", 0, v)
	if !v.Empty() {
		t.Fatalf("zero price is allowed, got %v", v)
	}
	NonNegativeFloat("price", -1, v)
	PositiveFloat("qty", 0, v)
	if v["price"] != "must_not_be_negative" || v["qty"] != "must_be_positive" {
		t.Fatalf("unexpected violations: %v", v)
	}
}

func TestAddKeepsFirstViolation(t *testing.T) {
	v := make(Violations)
	Required("name", "", v)
	v.Add("name", "other")
	if v["name"] != "required" {
		t.Fatalf("first violation should win, got %q", v["name"])
	}
}
