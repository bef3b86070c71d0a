package auth

import (
	"os"
	"strings"
)

// EnvVar returns the environment variable that overrides the stored
// token for a subscription: SKYGLASS_TOKEN_ followed by the ID in upper
// case with every non-alphanumeric character replaced by '_'.
//
//	my-project.eu -> SKYGLASS_TOKEN_MY_PROJECT_EU
func EnvVar(subscription string) string {
	id := accountKey(subscription)
	var b strings.Builder
	b.WriteString("SKYGLASS_TOKEN_")
	for _, r := range strings.ToUpper(id) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// envStore reads tokens from the environment before falling back to the
// wrapped store. Writes always go to the wrapped store.
type envStore struct {
	Store
	lookup func(string) (string, bool)
}

// WithEnv layers environment overrides on top of s, which keeps
// headless runs (CI, containers) working without an OS keychain.
func WithEnv(s Store) Store {
	return &envStore{Store: s, lookup: os.LookupEnv}
}

func (e *envStore) GetToken(subscription string) (string, error) {
	if v, ok := e.lookup(EnvVar(subscription)); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), nil
	}
	return e.Store.GetToken(subscription)
}
