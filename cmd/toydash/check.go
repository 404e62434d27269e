package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that every project has its images, testimonials and observations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ms, source, err := a.buildStore()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			stats := ms.Stats()
			fmt.Fprintf(w, "source: %s\ncountry: %s\nprojects: %d, regions: %d, observations: %d, testimonials: %d, images: %d\n",
				source, ms.CountryCode(), stats.Projects, stats.Regions, stats.Observations, stats.Testimonials, stats.Images)

			problems := ms.Validate()
			for _, p := range problems {
				fmt.Fprintln(w, "  "+p.String())
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d data integrity problems", len(problems))
			}
			fmt.Fprintln(w, "ok")
			return nil
		},
	}
}
