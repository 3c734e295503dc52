package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"basalt/internal/driver"
	"basalt/internal/sema"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <bundle.astb>",
	Short: "Dump the element graph of a checked bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manifest, err := loadManifest(cmd)
		if err != nil {
			return err
		}
		result, err := driver.Check(args[0], manifest)
		if err != nil {
			return err
		}
		dumpProgram(cmd.OutOrStdout(), result.Program)
		if result.HasErrors() {
			return fmt.Errorf("bundle has semantic errors")
		}
		return nil
	},
}

func dumpProgram(w io.Writer, program *sema.Program) {
	fmt.Fprintln(w, "elements:")
	for _, key := range sortedKeys(program.ElementsLookup()) {
		el := program.ElementsLookup()[key]
		if key != el.InternalName() {
			fmt.Fprintf(w, "  %s -> %s (%s, alias)\n", key, el.InternalName(), el.Kind())
			continue
		}
		fmt.Fprintf(w, "  %s (%s)\n", key, el.Kind())
	}

	fmt.Fprintln(w, "file exports:")
	for _, key := range sortedKeys(program.FileLevelExports()) {
		fmt.Fprintf(w, "  %s\n", key)
	}

	fmt.Fprintln(w, "module exports:")
	for _, key := range sortedKeys(program.ModuleLevelExports()) {
		fmt.Fprintf(w, "  %s -> %s\n", key, program.ModuleLevelExports()[key].InternalName())
	}
}

func sortedKeys(m map[string]sema.Element) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
