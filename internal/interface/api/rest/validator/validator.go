package validator

import (
	"strconv"
	"strings"
)

// RequiredQuery returns field -> reason for every empty query value.
func RequiredQuery(values map[string]string) map[string]string {
	errs := make(map[string]string)
	for k, v := range values {
		if strings.TrimSpace(v) == "" {
			errs[k] = k + " is required"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ParseAge parses the age query value. Range checks are left to the service.
func ParseAge(s string) (int, map[string]string) {
	if strings.TrimSpace(s) == "" {
		return 0, map[string]string{"age": "age is required"}
	}
	age, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, map[string]string{"age": "must be an integer"}
	}

	return age, nil
}

// ParseHardDelete parses isHardDelete, false when absent.
func ParseHardDelete(s string) (bool, map[string]string) {
	if s == "" {
		return false, nil
	}
	hard, err := strconv.ParseBool(s)
	if err != nil {
		return false, map[string]string{"isHardDelete": "must be true or false"}
	}

	return hard, nil
}
