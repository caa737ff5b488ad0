// Package validation turns raw request fields into validated domain records.
// Every function is pure: it either returns a usable value or a
// *models.ValidationError describing what was wrong.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/galihcitta/chalet-reservation-system/internal/models"
)

const minNameLength = 3

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigits    = regexp.MustCompile(`[^0-9]`)
)

func invalid(format string, args ...any) error {
	return models.NewValidationError(fmt.Sprintf(format, args...))
}

// PositiveID parses raw as an integer id greater than zero.
func PositiveID(field string, raw any) (int64, error) {
	n, ok := toInt64(raw)
	if !ok {
		return 0, invalid("%s must be an integer", field)
	}
	if n <= 0 {
		return 0, invalid("%s must be a positive integer", field)
	}
	return n, nil
}

// Capacity parses raw as a positive occupancy count.
func Capacity(raw any) (int, error) {
	n, ok := toInt64(raw)
	if !ok {
		return 0, invalid("capacity must be an integer")
	}
	if n <= 0 || n > math.MaxInt32 {
		return 0, invalid("capacity must be a positive integer")
	}
	return int(n), nil
}

func toInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Name trims raw and requires at least three characters.
func Name(field string, raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", invalid("%s must be a string", field)
	}
	name := strings.TrimSpace(s)
	if len([]rune(name)) < minNameLength {
		return "", invalid("%s must have at least %d characters", field, minNameLength)
	}
	return name, nil
}

func Email(raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", invalid("email must be a string")
	}
	email := strings.TrimSpace(s)
	if email == "" {
		return "", invalid("email must not be empty")
	}
	if !emailPattern.MatchString(email) {
		return "", invalid("email has an invalid format")
	}
	return email, nil
}

// Phone accepts 10-digit landlines and 11-digit mobiles (third digit 9)
// with an area code between 11 and 99. Punctuation is ignored.
func Phone(raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", invalid("phone must be a string")
	}
	digits := nonDigits.ReplaceAllString(s, "")
	if len(digits) != 10 && len(digits) != 11 {
		return "", invalid("phone must have 10 or 11 digits")
	}
	area, _ := strconv.Atoi(digits[:2])
	if area < 11 || area > 99 {
		return "", invalid("phone area code must be between 11 and 99")
	}
	if len(digits) == 11 && digits[2] != '9' {
		return "", invalid("mobile phone numbers must start with 9 after the area code")
	}
	return s, nil
}

// TaxID validates an 11-digit national id with two base-11 check digits.
func TaxID(raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", invalid("taxId must be a string")
	}
	digits := nonDigits.ReplaceAllString(s, "")
	if len(digits) != 11 {
		return "", invalid("taxId must have 11 digits")
	}
	if strings.Count(digits, digits[:1]) == len(digits) {
		return "", invalid("taxId must not repeat a single digit")
	}
	for pos := 9; pos < 11; pos++ {
		if checkDigit(digits, pos) != int(digits[pos]-'0') {
			return "", invalid("taxId check digits do not match")
		}
	}
	return s, nil
}

// checkDigit computes the verifier for digits[pos] from the pos digits before it.
func checkDigit(digits string, pos int) int {
	sum := 0
	for i := 0; i < pos; i++ {
		sum += int(digits[i]-'0') * (pos + 1 - i)
	}
	d := sum * 10 % 11
	if d == 10 {
		return 0
	}
	return d
}

// Date accepts YYYY-MM-DD strings, timestamps and models.Date values.
func Date(field string, raw any) (models.Date, error) {
	switch v := raw.(type) {
	case models.Date:
		if !v.IsZero() {
			return v, nil
		}
	case time.Time:
		if !v.IsZero() {
			return models.DateOf(v), nil
		}
	case *time.Time:
		if v != nil && !v.IsZero() {
			return models.DateOf(*v), nil
		}
	case string:
		if d, err := models.ParseDate(strings.TrimSpace(v)); err == nil {
			return d, nil
		}
	}
	return models.Date{}, invalid("%s is invalid or not in the expected format (YYYY-MM-DD)", field)
}

// DateRange validates a reservation period. All problems are collected
// before failing: unparseable endpoints, end not after start, and a start
// earlier than today.
func DateRange(rawStart, rawEnd any, today models.Date) (models.Date, models.Date, error) {
	var problems []string
	start, err := Date("start", rawStart)
	if err != nil {
		problems = append(problems, problemsOf(err)...)
	}
	end, err := Date("end", rawEnd)
	if err != nil {
		problems = append(problems, problemsOf(err)...)
	}
	if !start.IsZero() && !end.IsZero() {
		if !end.After(start) {
			problems = append(problems, "end must be after start")
		}
		if start.Before(today) {
			problems = append(problems, "start must not be before today")
		}
	}
	if len(problems) > 0 {
		return models.Date{}, models.Date{}, models.NewValidationError(problems...)
	}
	return start, end, nil
}

func problemsOf(err error) []string {
	if ve, ok := err.(*models.ValidationError); ok {
		return ve.Problems
	}
	return []string{err.Error()}
}
