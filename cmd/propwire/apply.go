package main

import (
	"fmt"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/propwire/propwire/meta"
)

func newApplyCmd(ui func(*cobra.Command) *printer) *cobra.Command {
	var (
		flags accessFlags
		dump  bool
	)

	cmd := &cobra.Command{
		Use:   "apply <type> -f values.yaml",
		Short: "Apply a YAML property file to a fresh demo value",
		Long: `Apply a YAML property file to a fresh demo value and print the outcome
of every property followed by the resulting value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer s.close()

			p := ui(cmd)

			report, applyErr := s.accessor.SetValues(s.values)
			p.report(report)
			p.println()

			if dump {
				p.dump(s.target)
			} else if err := printProperties(p, s); err != nil {
				return err
			}

			return applyErr
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&dump, "dump", false, "Dump the resulting value with go-spew")

	return cmd
}

// printProperties prints every readable top-level property of the target.
func printProperties(p *printer, s *session) error {
	intro, err := meta.ForType(reflect.TypeOf(s.target), s.style)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, intro.Len())
	for _, d := range intro.Properties() {
		if !d.Readable() {
			continue
		}

		v, err := s.accessor.Value(d.Name)
		if err != nil {
			return err
		}

		rows = append(rows, []string{d.Name, format(v)})
	}

	p.table([]string{"PROPERTY", "VALUE"}, rows)

	return nil
}

func format(v any) string {
	if v == nil {
		return "<nil>"
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return "<nil>"
	}

	if _, ok := v.(fmt.Stringer); !ok && rv.Kind() == reflect.Pointer {
		v = rv.Elem().Interface()
	}

	return fmt.Sprintf("%+v", v)
}
