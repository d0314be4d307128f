package security

import "fmt"

// FieldError reports a required encryption-dictionary or trailer entry that
// was either absent or present with the wrong object type. Field holds the
// canonical PDF name, e.g. "/V" or "/ID".
type FieldError struct {
	Field   string
	Missing bool
}

func (e *FieldError) Error() string {
	if e.Missing {
		return fmt.Sprintf("missing field: %s", e.Field)
	}
	return fmt.Sprintf("invalid field: %s", e.Field)
}
