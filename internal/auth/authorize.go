package auth

// Authorize decides whether a principal may reach a resource declaring the
// given required roles. An empty requirement means the endpoint is public.
// There is no role hierarchy: membership is checked literally.
func Authorize(required []Role, principal Principal, present bool) error {
	if len(required) == 0 {
		return nil
	}
	if !present {
		return ErrInvalidCredentials
	}
	for _, role := range required {
		if principal.Role == role {
			return nil
		}
	}
	return ErrForbidden
}
