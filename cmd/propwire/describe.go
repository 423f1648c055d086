package main

import (
	"reflect"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/propwire/propwire/convert"
	"github.com/propwire/propwire/meta"
	"github.com/propwire/propwire/store"
)

func newDescribeCmd(ui func(*cobra.Command) *printer) *cobra.Command {
	var fields bool

	cmd := &cobra.Command{
		Use:       "describe <type>",
		Short:     "List the properties of a demo type",
		Long:      "List the properties of a demo type: " + strings.Join(store.Names(), ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: store.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := store.New(args[0])
			if err != nil {
				return err
			}

			style := meta.StyleMethods
			if fields {
				style = meta.StyleFields
			}

			intro, err := meta.ForType(reflect.TypeOf(target), style)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, intro.Len())
			for _, d := range intro.Properties() {
				rows = append(rows, []string{d.Name, d.Type.String(), access(d), source(d), strings.Join(convert.EnumNames(d.Type), "|")})
			}

			p := ui(cmd)
			p.println(p.paint(intro.Type.String(), color.Bold) + " (" + style.String() + ")")
			p.table([]string{"PROPERTY", "TYPE", "ACCESS", "SOURCE", "VALUES"}, rows)

			return nil
		},
	}

	cmd.Flags().BoolVar(&fields, "fields", false, "Describe exported fields instead of accessor methods")

	return cmd
}

func access(d *meta.PropertyDescriptor) string {
	switch {
	case d.Readable() && d.Writable():
		return "rw"
	case d.Readable():
		return "r"
	default:
		return "w"
	}
}

func source(d *meta.PropertyDescriptor) string {
	var parts []string
	if name := d.GetterName(); name != "" {
		parts = append(parts, name+"()")
	}
	if name := d.SetterName(); name != "" {
		parts = append(parts, name+"()")
	}
	if d.FieldIndex != nil {
		parts = append(parts, "field")
	}

	return strings.Join(parts, ", ")
}
