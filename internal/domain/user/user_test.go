package user

import "testing"

func TestValidateEmail(t *testing.T) {
	ok := []string{"alice@example.com", "bob.smith@mail.ro", "c+tag@shop.io"}
	for _, v := range ok {
		if err := ValidateEmail(v); err != nil {
			t.Fatalf("expected valid email %q: %v", v, err)
		}
	}
	bad := []string{"", "alice", "alice@", "Alice <alice@example.com>", "@example.com"}
	for _, v := range bad {
		if err := ValidateEmail(v); err == nil {
			t.Fatalf("expected invalid email %q", v)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("market2024", "alice@example.com"); err != nil {
		t.Fatalf("expected valid password: %v", err)
	}
	if err := ValidatePassword("short1", "alice@example.com"); err == nil {
		t.Fatalf("expected error for short password")
	}
	if err := ValidatePassword("onlyletters", "alice@example.com"); err == nil {
		t.Fatalf("expected error for missing digit")
	}
	if err := ValidatePassword("1234567890", "alice@example.com"); err == nil {
		t.Fatalf("expected error for missing letter")
	}
	if err := ValidatePassword("Alice12345", "alice@example.com"); err == nil {
		t.Fatalf("expected error for containing email name")
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("market2024")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword(hash, "market2024") {
		t.Fatalf("expected password to verify")
	}
	if VerifyPassword(hash, "market2025") {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("trusted")
	if err != nil || r != RoleTrusted {
		t.Fatalf("expected Trusted, got %q (%v)", r, err)
	}
	if _, err := ParseRole("OPERATOR"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestShippingAddress(t *testing.T) {
	cases := []struct {
		city, country, want string
	}{
		{"Cluj", "Romania", "Cluj, Romania"},
		{"Cluj", "", "Cluj"},
		{"", "Romania", "Romania"},
		{"", "", ""},
	}
	for _, c := range cases {
		u := &User{City: c.city, Country: c.country}
		if got := u.ShippingAddress(); got != c.want {
			t.Fatalf("ShippingAddress(%q, %q) = %q, want %q", c.city, c.country, got, c.want)
		}
	}
}

func TestCanSell(t *testing.T) {
	if (&User{Role: RoleUntrusted}).CanSell() {
		t.Fatalf("untrusted users must not sell")
	}
	if !(&User{Role: RoleTrusted}).CanSell() || !(&User{Role: RoleAdmin}).CanSell() {
		t.Fatalf("trusted and admin users must sell")
	}
}
