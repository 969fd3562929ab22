package user

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role represents a marketplace role.
type Role string

const (
	RoleUntrusted Role = "Untrusted"
	RoleTrusted   Role = "Trusted"
	RoleAdmin     Role = "Admin"
)

// User represents a marketplace account.
type User struct {
	ID           int64     `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Country      string    `json:"country"`
	City         string    `json:"city"`
	Karma        int       `json:"karma"`
	AvatarURL    *string   `json:"avatarUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CanSell reports whether the user may list products.
func (u *User) CanSell() bool {
	return u.Role == RoleTrusted || u.Role == RoleAdmin
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ShippingAddress is the address snapshotted onto orders.
func (u *User) ShippingAddress() string {
	city := strings.TrimSpace(u.City)
	country := strings.TrimSpace(u.Country)
	switch {
	case city != "" && country != "":
		return city + ", " + country
	case city != "":
		return city
	default:
		return country
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("email is not valid")
	}
	return nil
}

func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("name is required")
	}
	if len(name) > 80 {
		return errors.New("name must be at most 80 characters")
	}
	return nil
}

func ValidatePassword(password string, email string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errors.New("password must include a letter and a digit")
	}
	if local, _, ok := strings.Cut(email, "@"); ok && len(local) >= 3 {
		if strings.Contains(strings.ToLower(password), strings.ToLower(local)) {
			return errors.New("password must not contain the email name")
		}
	}
	return nil
}

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func VerifyPassword(hash string, password string) bool {
	if hash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func ValidateRole(role Role) error {
	switch role {
	case RoleUntrusted, RoleTrusted, RoleAdmin:
		return nil
	default:
		return errors.New("invalid role")
	}
}

// ParseRole accepts roles case-insensitively.
func ParseRole(value string) (Role, error) {
	for _, r := range []Role{RoleUntrusted, RoleTrusted, RoleAdmin} {
		if strings.EqualFold(string(r), strings.TrimSpace(value)) {
			return r, nil
		}
	}
	return "", errors.New("invalid role")
}
