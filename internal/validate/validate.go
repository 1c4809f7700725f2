package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Struct validation for JSON bodies; helper funcs for query/path/form values.
var V = validator.New()

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reUUID  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	reRole  = regexp.MustCompile(`^(guest|host|admin)$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// UUID validates listing/booking/conversation path ids.
func UUID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUUID.MatchString(s)
}

func Role(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reRole.MatchString(s)
}

// Date validates a calendar date in YYYY-MM-DD form.
func Date(s string) (string, bool) {
	s = strings.TrimSpace(s)
	_, err := time.Parse("2006-01-02", s)
	return s, err == nil
}

func Rating(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 5 {
		return 0, false
	}
	return n, true
}

func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > 50 {
		n = 50
	}
	return n
}

// Username validates a displayable name with a reasonable max length.
func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 50 {
		return "", false
	}
	return s, true
}

// Password enforces a minimum length for registration.
func Password(s string) bool {
	return len(s) >= 8 && len(s) <= 72
}
