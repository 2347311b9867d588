// Command s57dump parses S-57 Electronic Navigational Chart cells and
// prints a summary, a feature dump, or a GeoJSON conversion.
//
// Reference: saferwall-pe's cmd/pedumper.go (package-level flag vars,
// rootCmd/versionCmd/dumpCmd structure), generalized from a single dump
// command into parse/updates/geojson subcommands.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/theckman/yacspin"

	"github.com/chartworks/s57/pkg/s57"
)

var (
	strictMode  bool
	maxWarnings int
	objectClass string
	limit       int
	noSpinner   bool
)

func prettyPrint(v interface{}) string {
	buf, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buf, "", "  "); err != nil {
		return string(buf)
	}
	return pretty.String()
}

func newSpinner(message string) *yacspin.Spinner {
	cfg := yacspin.Config{
		Frequency:       100 * time.Millisecond,
		CharSet:         yacspin.CharSets[9],
		Suffix:          " " + message,
		SuffixAutoColon: true,
		StopCharacter:   "✓",
		StopColors:      []string{"fgGreen"},
	}
	spinner, err := yacspin.New(cfg)
	if err != nil {
		return nil
	}
	return spinner
}

func withSpinner(message string, fn func() error) error {
	if noSpinner {
		return fn()
	}
	spinner := newSpinner(message)
	if spinner == nil {
		return fn()
	}
	_ = spinner.Start()
	err := fn()
	if err != nil {
		_ = spinner.StopFail()
		return err
	}
	_ = spinner.Stop()
	return nil
}

func parseOptionsFromFlags() s57.ParseOptions {
	opts := s57.DefaultParseOptions()
	opts.StrictMode = strictMode
	if maxWarnings >= 0 {
		opts.MaxWarnings = &maxWarnings
	}
	return opts
}

func loadDataset(cellPath string) (*s57.ParsedDataset, error) {
	var dataset *s57.ParsedDataset
	err := withSpinner(fmt.Sprintf("parsing %s", cellPath), func() error {
		var parseErr error
		dataset, parseErr = s57.ParseFile(cellPath, parseOptionsFromFlags())
		return parseErr
	})
	return dataset, err
}

func runParse(cmd *cobra.Command, args []string) error {
	dataset, err := loadDataset(args[0])
	if err != nil {
		return err
	}

	summary := dataset.Summary()
	fmt.Println(prettyPrint(summary))

	if len(dataset.Warnings) > 0 {
		warn := color.New(color.FgYellow).SprintFunc()
		fmt.Fprintf(os.Stderr, "%s %d warnings emitted decoding %s\n", warn("warning:"), len(dataset.Warnings), args[0])
	}

	features := dataset.FindFeatures(s57.FindFeaturesOptions{ObjectClass: objectClass, Limit: limit})
	fmt.Println(prettyPrint(features))
	return nil
}

func runUpdates(cmd *cobra.Command, args []string) error {
	dataset, err := loadDataset(args[0])
	if err != nil {
		return err
	}
	fmt.Println(prettyPrint(dataset.Updates))
	return nil
}

func runGeoJSON(cmd *cobra.Command, args []string) error {
	dataset, err := loadDataset(args[0])
	if err != nil {
		return err
	}

	var collection s57.GeoJSONFeatureCollection
	if objectClass != "" || limit > 0 {
		collection = s57.ToGeoJSON(dataset.FindFeatures(s57.FindFeaturesOptions{ObjectClass: objectClass, Limit: limit}))
	} else {
		collection = dataset.ToGeoJSON()
	}
	fmt.Println(prettyPrint(collection))
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "s57dump",
		Short: "Decodes S-57 Electronic Navigational Chart cells",
		Long:  "s57dump parses an S-57 base cell and its update files, then prints a summary, a feature dump, or a GeoJSON conversion.",
	}
	rootCmd.PersistentFlags().BoolVar(&strictMode, "strict", false, "fail on the first error-or-above warning")
	rootCmd.PersistentFlags().IntVar(&maxWarnings, "max-warnings", -1, "warning count that appends a MAX_WARNINGS_EXCEEDED error (-1 = none; with --strict that error fails the parse)")
	rootCmd.PersistentFlags().BoolVar(&noSpinner, "no-spinner", false, "disable the progress spinner")

	parseCmd := &cobra.Command{
		Use:   "parse <cell.000>",
		Short: "Parse a base cell (and any sibling update files) and print a summary and features",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	parseCmd.Flags().StringVar(&objectClass, "object-class", "", "only include this object class acronym")
	parseCmd.Flags().IntVar(&limit, "limit", 0, "cap the number of features printed (0 = unlimited)")

	updatesCmd := &cobra.Command{
		Use:   "updates <cell.000>",
		Short: "Apply a cell's sibling update files and print the resulting UpdateSummary",
		Args:  cobra.ExactArgs(1),
		RunE:  runUpdates,
	}

	geojsonCmd := &cobra.Command{
		Use:   "geojson <cell.000>",
		Short: "Parse a cell and print its features as a GeoJSON FeatureCollection",
		Args:  cobra.ExactArgs(1),
		RunE:  runGeoJSON,
	}
	geojsonCmd.Flags().StringVar(&objectClass, "object-class", "", "only include this object class acronym")
	geojsonCmd.Flags().IntVar(&limit, "limit", 0, "cap the number of features converted (0 = unlimited)")

	rootCmd.AddCommand(parseCmd, updatesCmd, geojsonCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
