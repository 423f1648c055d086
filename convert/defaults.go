package convert

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/propwire/propwire/primitive"
)

var defaults = NewRegistry()

// timeLayouts are tried in order for strings converted to time.Time.
var timeLayouts = []string{time.RFC3339Nano, time.DateTime, time.DateOnly}

func init() {
	RegisterDefault(reflect.TypeFor[time.Time](), ConverterFunc(convertTime))
	RegisterDefault(reflect.TypeFor[url.URL](), ConverterFunc(convertURL))
	RegisterDefault(reflect.TypeFor[*url.URL](), ConverterFunc(convertURLPointer))
	RegisterDefault(reflect.TypeFor[net.IP](), ConverterFunc(convertIP))
	RegisterDefault(reflect.TypeFor[uuid.UUID](), ConverterFunc(convertUUID))
	RegisterDefault(reflect.TypeFor[[]byte](), ConverterFunc(convertBytes))
}

// RegisterDefault registers a process-wide default converter for t. Default
// converters run after custom ones and before the built-in rules; a default
// converter failing with ErrUnsupported falls through to the built-in rules.
func RegisterDefault(t reflect.Type, c Converter) {
	defaults.Register(t, c)
}

func convertTime(ctx Context, value any) (any, error) {
	s, ok := value.(string)
	if !ok || !ctx.Categories.Has(primitive.CategoryDatetime) {
		return nil, ErrUnsupported
	}

	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t, nil
		}
	}

	return nil, err
}

func convertURL(ctx Context, value any) (any, error) {
	if u, ok := value.(*url.URL); ok && u != nil {
		return *u, nil
	}

	u, err := convertURLPointer(ctx, value)
	if err != nil {
		return nil, err
	}

	return *u.(*url.URL), nil
}

func convertURLPointer(_ Context, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, ErrUnsupported
	}

	return url.Parse(strings.TrimSpace(s))
}

func convertIP(_ Context, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, ErrUnsupported
	}

	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return nil, fmt.Errorf("invalid IP address %q", s)
	}

	return ip, nil
}

func convertUUID(_ Context, value any) (any, error) {
	switch v := value.(type) {
	case string:
		return uuid.Parse(strings.TrimSpace(v))
	case []byte:
		return uuid.FromBytes(v)
	default:
		return nil, ErrUnsupported
	}
}

func convertBytes(_ Context, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, ErrUnsupported
	}

	return []byte(s), nil
}
