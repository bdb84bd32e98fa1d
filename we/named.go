package we

import (
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
)

type Named interface {
	TypeName() string
}

// NameOf derives a "namespace:kebab-name" for a value, honouring Named.
func NameOf(value any) string {
	if typed, ok := value.(Named); ok {
		return typed.TypeName()
	}

	split := strings.Split(reflect.TypeOf(value).String(), ".")
	segments := make([]string, len(split))
	for i, segment := range split {
		s := strings.TrimLeft(segment, "*")
		segments[i] = strcase.ToKebab(s)
	}

	namespace := segments[0]
	event := strings.Join(segments[1:], "-")

	return namespace + ":" + event
}

// WireName is the lower_snake_case form used for message fields and variant tags.
func WireName(name string) string {
	return strcase.ToSnake(name)
}
