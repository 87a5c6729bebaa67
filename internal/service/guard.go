package service

import "clinic-api/internal/model"

// Authorize is the single role check every gated operation goes through.
func Authorize(c model.Caller, required model.Role) error {
	if c.ID == "" || !c.Role.Valid() {
		return fail(ErrUnauthorized, "authentication required")
	}
	if c.Role != required {
		return fail(ErrForbidden, "only "+string(required)+"s can perform this action")
	}
	return nil
}

func authenticated(c model.Caller) error {
	if c.ID == "" || !c.Role.Valid() {
		return fail(ErrUnauthorized, "authentication required")
	}
	return nil
}
