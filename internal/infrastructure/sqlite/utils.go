package sqlite

import "strings"

// isConstraintViolation verifica si un error es una violación de constraint
// de SQLite (clave foránea, CHECK o unicidad).
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "constraint failed")
}
