package services

import "strings"

// isUniqueViolation matches duplicate-key failures across drivers
// (MySQL error 1062 "Duplicate entry", SQLite "UNIQUE constraint failed").
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
