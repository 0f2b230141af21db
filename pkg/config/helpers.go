package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/glorpus-work/goup/pkg/errors"
)

// SetValue sets a setting by its YAML key.
func (c *Config) SetValue(key, value string) error {
	field, ok := c.settingField(key)
	if !ok {
		return errors.Wrapf(errors.ErrValidation, "unknown configuration key: %s", key)
	}

	switch field.Interface().(type) {
	case string:
		field.SetString(value)
	case bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrapf(errors.ErrValidation, "invalid boolean value for %s: %s", key, value)
		}
		field.SetBool(b)
	case time.Duration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return errors.Wrapf(errors.ErrValidation, "invalid duration for %s: %s", key, value)
		}
		field.SetInt(int64(d))
	default:
		return errors.Wrapf(errors.ErrValidation, "unsupported configuration key: %s", key)
	}
	return nil
}

// GetValue returns a setting by its YAML key.
func (c *Config) GetValue(key string) (string, error) {
	field, ok := c.settingField(key)
	if !ok {
		return "", errors.Wrapf(errors.ErrValidation, "unknown configuration key: %s", key)
	}
	return formatValue(field), nil
}

// ToMap returns every setting keyed by its YAML name.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string)
	v := reflect.ValueOf(c.Settings)
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		if key := yamlKey(t.Field(i)); key != "" {
			result[key] = formatValue(v.Field(i))
		}
	}
	return result
}

// Keys returns the setting names in declaration order.
func Keys() []string {
	t := reflect.TypeOf(Settings{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if key := yamlKey(t.Field(i)); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

func (c *Config) settingField(key string) (reflect.Value, bool) {
	v := reflect.ValueOf(&c.Settings).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		if yamlKey(t.Field(i)) == key {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func yamlKey(f reflect.StructField) string {
	tag := f.Tag.Get("yaml")
	if tag == "" || tag == "-" {
		return ""
	}
	return strings.Split(tag, ",")[0]
}

func formatValue(v reflect.Value) string {
	switch x := v.Interface().(type) {
	case time.Duration:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}
