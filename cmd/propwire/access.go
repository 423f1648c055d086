package main

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/propwire/propwire/accessor"
	"github.com/propwire/propwire/meta"
	"github.com/propwire/propwire/options"
	"github.com/propwire/propwire/propfile"
	"github.com/propwire/propwire/store"
)

// accessFlags configure the accessor built by apply and get.
type accessFlags struct {
	file          string
	config        string
	ignoreUnknown bool
	ignoreInvalid bool
	autoGrow      bool
	fields        bool
	verbose       bool
}

func (f *accessFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "YAML property file to apply")
	cmd.Flags().StringVar(&f.config, "config", "", "YAML options file")
	cmd.Flags().BoolVar(&f.ignoreUnknown, "ignore-unknown", false, "Skip unknown and read-only properties")
	cmd.Flags().BoolVar(&f.ignoreInvalid, "ignore-invalid", false, "Skip invalid paths and nil intermediates")
	cmd.Flags().BoolVar(&f.autoGrow, "auto-grow", false, "Instantiate nil values on nested paths")
	cmd.Flags().BoolVar(&f.fields, "fields", false, "Access exported fields instead of accessor methods")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Log property access to stderr")

	_ = cmd.MarkFlagRequired("file")
}

func (f *accessFlags) options() ([]options.Option, error) {
	var opts []options.Option

	if f.config != "" {
		loaded, err := options.LoadFile(f.config)
		if err != nil {
			return nil, err
		}

		opts = append(opts, options.WithOptions(loaded))
	}

	if f.ignoreUnknown {
		opts = append(opts, options.WithIgnoreUnknownFields(true))
	}
	if f.ignoreInvalid {
		opts = append(opts, options.WithIgnoreInvalidFields(true))
	}
	if f.autoGrow {
		opts = append(opts, options.WithAutoGrow(true))
	}

	return opts, nil
}

// logger returns a development logger writing to w with --verbose and a
// no-op logger otherwise.
func (f *accessFlags) logger(w io.Writer) *zap.Logger {
	if !f.verbose {
		return zap.NewNop()
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		zap.DebugLevel,
	)

	return zap.New(core, zap.Development())
}

// session is a fresh demo value with the property file applied.
type session struct {
	target   any
	style    meta.Style
	accessor accessor.PropertyAccessor
	values   []accessor.PropertyValue
	logger   *zap.Logger
}

// close flushes the session logger and detaches it from the metadata cache.
func (s *session) close() {
	meta.Default.SetLogger(nil)
	_ = s.logger.Sync()
}

// open builds a session for typeName. Callers must close it.
func (f *accessFlags) open(cmd *cobra.Command, typeName string) (*session, error) {
	target, err := store.New(typeName)
	if err != nil {
		return nil, err
	}

	values, err := propfile.LoadFile(f.file)
	if err != nil {
		return nil, err
	}

	opts, err := f.options()
	if err != nil {
		return nil, err
	}

	logger := f.logger(cmd.ErrOrStderr())
	opts = append(opts, options.WithLogger(logger))
	meta.Default.SetLogger(logger)

	s := &session{target: target, style: meta.StyleMethods, values: values, logger: logger}
	if f.fields {
		s.style = meta.StyleFields
		s.accessor, err = accessor.NewFieldAccessor(target, opts...)
	} else {
		s.accessor, err = accessor.NewBeanAccessor(target, opts...)
	}

	if err != nil {
		s.close()
		return nil, err
	}

	return s, nil
}
