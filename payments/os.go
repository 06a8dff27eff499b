package payments

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// ErrNotPointer is returned by SetConfigFromEnvVars for a non-pointer argument.
var ErrNotPointer = errors.New("config must be a non-nil pointer to a struct")

// GetenvOrDefault returns the value of key, or defaultValue when it is unset
// or blank.
func GetenvOrDefault(key string, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}

	return value
}

// SetConfigFromEnvVars fills the fields of the struct s points to from the
// environment variables named by their `env` tags. Unset variables leave the
// field untouched.
//
//	type Config struct {
//	    Workers int `env:"PAYMENTS_WORKERS"`
//	}
func SetConfigFromEnvVars(s any) error {
	v := reflect.ValueOf(s)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrNotPointer
	}

	v = v.Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		tag, ok := t.Field(i).Tag.Lookup("env")
		if !ok || tag == "" {
			continue
		}

		raw := GetenvOrDefault(tag, "")
		if raw == "" {
			continue
		}

		field := v.Field(i)
		if !field.CanSet() {
			continue
		}

		if err := setField(field, raw); err != nil {
			return fmt.Errorf("env %s: %w", tag, err)
		}
	}

	return nil
}

func setField(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}

		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}

		field.SetInt(n)
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}

	return nil
}
