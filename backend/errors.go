package backend

import "fmt"

// UnsupportedFeatureError reports a fragment that cannot be rendered for a
// dialect because the dialect lacks the feature.
type UnsupportedFeatureError struct {
	Backend Backend
	Feature string
	Hint    string
}

func (e *UnsupportedFeatureError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s is not supported: %s", e.Backend, e.Feature, e.Hint)
	}
	return fmt.Sprintf("%s: %s is not supported", e.Backend, e.Feature)
}

// Unsupported builds an *UnsupportedFeatureError. At most one hint is used.
func Unsupported(b Backend, feature string, hint ...string) error {
	err := &UnsupportedFeatureError{Backend: b, Feature: feature}
	if len(hint) > 0 {
		err.Hint = hint[0]
	}
	return err
}
