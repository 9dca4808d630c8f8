package envault

import "os"

// EnvWriter writes variables into some environment store. The default
// implementation targets the ambient process environment; tests inject their
// own to keep LoadEnv side-effect free.
type EnvWriter interface {
	Setenv(key, value string) error
}

type osEnvWriter struct{}

func (osEnvWriter) Setenv(key, value string) error {
	return os.Setenv(key, value)
}
