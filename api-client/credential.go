package apiclient

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const (
	// EnvAPIKey is the general-purpose credential name.
	EnvAPIKey = "COVALENT_API_KEY"
	// EnvSifterAPIKey is the service-specific credential name used by the
	// sifter backend deployment.
	EnvSifterAPIKey = "COVALENT_SIFTER_API_KEY"
)

// CredentialSource reads one named configuration value.
type CredentialSource interface {
	Lookup(name string) (string, bool)
}

// EnvSource looks credentials up in the process environment.
type EnvSource struct{}

func (EnvSource) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// MapSource is a fixed in-memory credential source.
type MapSource map[string]string

func (m MapSource) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// resolveCredential returns explicit when set, otherwise performs exactly one
// lookup of name on src.
func resolveCredential(explicit string, src CredentialSource, name string) (string, error) {
	if explicit != "" {
		if !utf8.ValidString(explicit) || strings.TrimSpace(explicit) == "" {
			return "", errors.Wrap(ErrCredentialInvalid, "explicit api key is not valid text")
		}
		return explicit, nil
	}
	if src == nil {
		return "", errors.Wrap(ErrCredentialMissing, "no api key and no credential source")
	}

	val, ok := src.Lookup(name)
	if !ok {
		return "", errors.Wrapf(ErrCredentialMissing, "required environment variable %s is not present", name)
	}
	if !utf8.ValidString(val) || strings.TrimSpace(val) == "" {
		return "", errors.Wrapf(ErrCredentialInvalid, "environment variable %s is not valid text", name)
	}
	return val, nil
}
