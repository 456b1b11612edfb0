package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geoformat/gmlreader/pkg/gml"
)

func newReadCmd() *cobra.Command {
	var (
		filterNames []string
		fetchAll    bool
		alwaysStr   bool
		preferPull  bool
		schemaPath  string
	)

	cmd := &cobra.Command{
		Use:   "read [file]",
		Short: "Print every feature in a GML document as fid, class, and property values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := gml.DefaultReaderOptions()
			opts.FilteredClassNames = filterNames
			opts.FetchAllGeometries = fetchAll
			opts.AlwaysString = alwaysStr
			opts.UseExpatParserPreferably = preferPull
			opts.Sink = gml.NewStderrSink(false)

			if schemaPath != "" {
				reg, err := loadSchema(schemaPath)
				if err != nil {
					return err
				}
				opts.PresetSchema = reg
			}

			r, err := gml.Open(args[0], opts)
			if err != nil {
				return fmt.Errorf("open: %w", err)
			}
			defer r.Close()

			for {
				f, err := r.NextFeature()
				if err != nil {
					return fmt.Errorf("read: %w", err)
				}
				if f == nil {
					break
				}
				printFeature(cmd, f)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&filterNames, "class", nil, "restrict output to these feature classes")
	cmd.Flags().BoolVar(&fetchAll, "fetch-all-geometries", false, "keep every geometry fragment per feature, not just the first")
	cmd.Flags().BoolVar(&alwaysStr, "always-string", false, "treat every property as a string, skipping type inference")
	cmd.Flags().BoolVar(&preferPull, "prefer-pull", true, "prefer the pull-style backend over the push-style one")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "load a schema sidecar instead of inferring one")

	return cmd
}

func printFeature(cmd *cobra.Command, f *gml.Feature) {
	fid := "-"
	if f.FID != nil {
		fid = *f.FID
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\tfid=%s", f.Class.Name, fid)
	for i, pd := range f.Class.Properties() {
		v := f.PropertyValue(i)
		if v == nil {
			continue
		}
		fmt.Fprintf(out, "\t%s=%v", pd.FieldName, v)
	}
	fmt.Fprintf(out, "\tgeometries=%d\n", len(f.GeometryElements))
}
