package log

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/gomachine/pkg/errors"
)

// UseZerologWarnings routes errors.Warn through a zerolog logger writing JSON
// lines to w. Warnings implementing zerolog.LogObjectMarshaler are embedded as
// structured fields. It returns a function restoring the previous routing.
func UseZerologWarnings(w io.Writer) (restore func()) {
	zl := zerolog.New(w).With().Timestamp().Str(ComponentKey, "warnings").Logger()

	errors.SetZerologWarnFunc(func(warning error) {
		event := zl.Warn()
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			event = event.EmbedObject(obj)
		}
		event.Msg(warning.Error())
	})

	return func() { errors.SetZerologWarnFunc(nil) }
}
