package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGetCmd(ui func(*cobra.Command) *printer) *cobra.Command {
	var (
		flags accessFlags
		dump  bool
	)

	cmd := &cobra.Command{
		Use:   "get <type> -f values.yaml <path>...",
		Short: "Apply a YAML property file and read property paths",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer s.close()

			if _, err := s.accessor.SetValues(s.values); err != nil {
				return fmt.Errorf("failed to apply %s: %w", flags.file, err)
			}

			p := ui(cmd)
			for _, path := range args[1:] {
				v, err := s.accessor.Value(path)
				if err != nil {
					return err
				}

				if dump {
					fmt.Fprintf(p.out, "%s = ", path)
					p.dump(v)
					continue
				}

				fmt.Fprintf(p.out, "%s = %s\n", path, format(v))
			}

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&dump, "dump", false, "Dump values with go-spew")

	return cmd
}
