package config

// ConfigBackend is the persisted layer under env overrides: a JSON file on
// Linux, UserDefaults on macOS. Each getter reports ok=false for an unset key
// and an error for a value of the wrong type.
type ConfigBackend interface {
	GetString(key string) (val string, ok bool, err error)
	GetInt(key string) (val int, ok bool, err error)
	GetBool(key string) (val bool, ok bool, err error)
	GetFloat(key string) (val float64, ok bool, err error)
	SetString(key, val string) error
	SetInt(key string, val int) error
	SetBool(key string, val bool) error
	SetFloat(key string, val float64) error
	Delete(key string) error
}
