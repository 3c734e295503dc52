package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"basalt/internal/diagfmt"
	"basalt/internal/driver"
	"basalt/internal/project"
)

var checkJobs int

func init() {
	checkCmd.Flags().IntVar(&checkJobs, "jobs", 0, "parallel bundle checks (0 = GOMAXPROCS)")
}

var checkCmd = &cobra.Command{
	Use:   "check <bundle.astb>...",
	Short: "Semantically check AST bundles",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manifest, err := loadManifest(cmd)
		if err != nil {
			return err
		}

		results, err := driver.CheckAll(cmd.Context(), args, manifest, checkJobs)
		if err != nil {
			return err
		}

		colorMode, _ := cmd.Flags().GetString("color")
		opts := diagfmt.PrettyOpts{
			Color:   useColor(colorMode, os.Stderr),
			Context: true,
		}

		failed := 0
		for _, result := range results {
			if result == nil {
				continue
			}
			diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, opts)
			if result.HasErrors() {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("check failed for %d of %d bundles", failed, len(results))
		}
		return nil
	},
}

func loadManifest(cmd *cobra.Command) (project.Manifest, error) {
	path, _ := cmd.Flags().GetString("manifest")
	if path == "" {
		if _, err := os.Stat("basalt.toml"); err == nil {
			path = "basalt.toml"
		}
	}
	if path == "" {
		return project.Default(), nil
	}
	return project.Load(path)
}
