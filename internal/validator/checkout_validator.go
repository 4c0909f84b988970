package validator

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// 配送先フォームの入力。
type ShippingDetails struct {
	FullName string
	Email    string
	Phone    string
	Address  string
	City     string
	State    string
	ZipCode  string
	Notes    string
}

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// 数字・空白・ハイフン・括弧・先頭の+を許容
	phoneRe = regexp.MustCompile(`^\+?[0-9][0-9\s\-()]{5,19}$`)

	zipRe = regexp.MustCompile(`^[0-9A-Za-z\- ]{3,12}$`)
)

// 配送先の入力を検証。最初に見つかった不備を返す。
func ValidateShippingDetails(d ShippingDetails) error {
	if err := requireText("full_name", d.FullName, 100); err != nil {
		return err
	}

	email := strings.TrimSpace(d.Email)
	if email == "" {
		return errors.New("email is required")
	}
	if !emailRe.MatchString(email) {
		return errors.New("email is invalid")
	}

	phone := strings.TrimSpace(d.Phone)
	if phone == "" {
		return errors.New("phone is required")
	}
	if !phoneRe.MatchString(phone) {
		return errors.New("phone is invalid")
	}

	if err := requireText("address", d.Address, 200); err != nil {
		return err
	}
	if err := requireText("city", d.City, 100); err != nil {
		return err
	}
	if err := requireText("state", d.State, 100); err != nil {
		return err
	}

	zip := strings.TrimSpace(d.ZipCode)
	if zip == "" {
		return errors.New("zip_code is required")
	}
	if !zipRe.MatchString(zip) {
		return errors.New("zip_code is invalid")
	}

	// Notesは任意。長さだけ見る。
	if utf8.RuneCountInString(d.Notes) > 500 {
		return errors.New("notes is too long")
	}

	return nil
}

func requireText(field string, v string, max int) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return errors.New(field + " is required")
	}
	if utf8.RuneCountInString(v) > max {
		return errors.New(field + " is too long")
	}
	return nil
}
