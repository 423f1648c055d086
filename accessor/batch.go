package accessor

import (
	"go.uber.org/zap"

	"github.com/propwire/propwire/diagnostic"
	"github.com/propwire/propwire/utils"
)

// PropertyValue is one entry of a batch update.
type PropertyValue struct {
	Path  string
	Value any
}

// PropertyValuesFromMap returns the entries of m sorted by path.
func PropertyValuesFromMap(m map[string]any) []PropertyValue {
	values := make([]PropertyValue, 0, len(m))
	for _, path := range utils.SortedKeys(m) {
		values = append(values, PropertyValue{Path: path, Value: m[path]})
	}

	return values
}

// SetValues writes values in order and reports the outcome of every entry.
//
// Conversion failures (type mismatch, conversion not supported) never stop
// the batch; they are collected and returned together as a
// *diagnostic.CompositeError once every entry was attempted. Unknown or
// read-only properties are skipped when IgnoreUnknownFields is set, other
// invalid paths and nil intermediates when IgnoreInvalidFields is set;
// otherwise they abort the batch and are returned as is, like fatal
// introspection failures.
func (a *base) SetValues(values []PropertyValue) (*diagnostic.Report, error) {
	report := &diagnostic.Report{}
	failures := diagnostic.NewComposite()

	for _, pv := range values {
		err := a.SetValue(pv.Path, pv.Value)

		switch {
		case err == nil:
			report.Applied(pv.Path)

		case a.ignorable(err):
			a.logger.Debug("ignored property value",
				zap.String("path", pv.Path),
				zap.Error(err))

			report.Ignored(pv.Path, err)

		case isConversionFailure(err):
			report.Failed(pv.Path, err)
			failures.Append(err)

		default:
			report.Failed(pv.Path, err)
			return report, err
		}
	}

	a.logger.Debug("applied property values",
		zap.Int("applied", report.Count(diagnostic.StatusApplied)),
		zap.Int("ignored", report.Count(diagnostic.StatusIgnored)),
		zap.Int("failed", report.Count(diagnostic.StatusFailed)))

	return report, failures.ErrOrNil()
}

func (a *base) ignorable(err error) bool {
	switch diagnostic.KindOf(err) {
	case diagnostic.KindInvalidProperty:
		switch diagnostic.ReasonOf(err) {
		case diagnostic.ReasonNotFound, diagnostic.ReasonNotWritable:
			return a.opts.IgnoreUnknownFields
		default:
			return a.opts.IgnoreInvalidFields
		}

	case diagnostic.KindNullValueInNestedPath:
		return a.opts.IgnoreInvalidFields

	default:
		return false
	}
}

func isConversionFailure(err error) bool {
	switch diagnostic.KindOf(err) {
	case diagnostic.KindTypeMismatch, diagnostic.KindConversionNotSupported:
		return true
	default:
		return false
	}
}
