package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/geoformat/gmlreader/pkg/gml"
)

func newSchemaCmd() *cobra.Command {
	var (
		getExtents bool
		save       string
		quick      bool
	)

	cmd := &cobra.Command{
		Use:   "schema [file]",
		Short: "Prescan a GML document and print (or save) its inferred schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := gml.DefaultReaderOptions()
			opts.QuickSchemaOnly = quick
			opts.Sink = gml.NewStderrSink(false)

			r, err := gml.Open(args[0], opts)
			if err != nil {
				return fmt.Errorf("open: %w", err)
			}
			defer r.Close()

			if err := r.PrescanForSchema(getExtents); err != nil {
				return fmt.Errorf("prescan: %w", err)
			}

			if save != "" {
				out, err := os.Create(save)
				if err != nil {
					return fmt.Errorf("create %s: %w", save, err)
				}
				defer out.Close()
				return gml.SaveClasses(out, r.Registry())
			}

			printSchema(cmd, r.Registry())
			return nil
		},
	}

	cmd.Flags().BoolVar(&getExtents, "extents", true, "compute per-class geometry type and extent")
	cmd.Flags().BoolVar(&quick, "quick", false, "skip geometry/extent bookkeeping past each class's first feature")
	cmd.Flags().StringVar(&save, "save", "", "write the inferred schema as a sidecar document instead of printing it")

	return cmd
}

func printSchema(cmd *cobra.Command, reg *gml.Registry) {
	out := cmd.OutOrStdout()
	for _, c := range reg.All() {
		fmt.Fprintf(out, "%s\tcount=%d\tgeometry=%s\tsrs=%s\n", c.Name, c.FeatureCount, c.GeometryType, c.SRSName)
		for _, p := range c.Properties() {
			fmt.Fprintf(out, "  %s\t(%s)\telement=%s\n", p.FieldName, p.Type, p.SrcElement)
		}
	}
}

func loadSchema(path string) (*gml.Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema %s: %w", path, err)
	}
	defer f.Close()
	return gml.LoadClasses(f)
}
