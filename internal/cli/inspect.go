package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flatgeom/orbita/pkg/orbit"
	"github.com/flatgeom/orbita/pkg/surface"
)

// newInspectCmd creates the inspect command: load a TOML surface
// description, build the homology basis and report the invariants of the
// orbit-closure setup. No decompositions are computed, so the reported
// dimension is the holonomy lower bound.
func newInspectCmd() *cobra.Command {
	var matrices bool

	cmd := &cobra.Command{
		Use:   "inspect <surface.toml>",
		Short: "Report homology invariants of a translation surface",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			p := newProgress(logger)

			mesh, err := surface.LoadFile(args[0])
			if err != nil {
				return err
			}
			closure, err := orbit.New(mesh, &orbit.Options{Logger: logger})
			if err != nil {
				return err
			}
			p.done(fmt.Sprintf("Built homology basis of dimension %d", closure.AmbientDimension()))

			basis := closure.Basis()
			f := mesh.Field()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, closure)
			fmt.Fprintf(out, "field: %s (degree %d)\n", f.Name(), f.Degree())
			fmt.Fprintf(out, "edges: %d, faces: %d, singularities: %d\n",
				mesh.Size(), 2*mesh.Size()/3, len(surface.Vertices(mesh)))
			fmt.Fprintf(out, "genus: %d, area: %s\n", surface.Genus(mesh), surface.Area(mesh))
			fmt.Fprintf(out, "spanning edges: %v\n", basis.SpanningSet())
			abs, err := closure.AbsoluteDimension()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "absolute dimension: %d\n", abs)

			if matrices {
				fmt.Fprintf(out, "projection:\n%s\n", basis.ProjectionMatrix())
				fmt.Fprintf(out, "intersection form:\n%s\n", basis.IntersectionMatrix())
				fmt.Fprintf(out, "holonomy:\n%s\n", basis.HolonomyMatrix())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&matrices, "matrices", false, "print the projection, intersection and holonomy matrices")
	return cmd
}
