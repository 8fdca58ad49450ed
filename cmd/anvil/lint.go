package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"mercator-hq/anvil/pkg/buildfile"
	"mercator-hq/anvil/pkg/buildfile/builtin"
	"mercator-hq/anvil/pkg/cli"
)

var lintFlags struct {
	file   string
	dir    string
	client string
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate build files",
	Long: `Validate anvil build files for schema errors.

The lint command parses build files and checks them against the build
file schema:
  - YAML syntax validation
  - Section order (client, tools, targets, nodes, tasks)
  - Client name and version checks
  - Tool, node, target and task structure validation

Examples:
  # Lint single file
  anvil lint --file build.anvil

  # Lint directory
  anvil lint --dir ci/

  # Require a specific client name
  anvil lint --file build.anvil --client basic

  # JSON output for CI/CD
  anvil lint --file build.anvil --format json`,
	RunE: lintBuildFiles,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "build file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of build files")
	lintCmd.Flags().StringVar(&lintFlags.client, "client", "", "required client name")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

// buildFileGlobs are the filename patterns scanned in --dir mode.
var buildFileGlobs = []string{"*.anvil", "*.yaml", "*.yml"}

func lintBuildFiles(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string

	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}

	if lintFlags.dir != "" {
		for _, pattern := range buildFileGlobs {
			matches, err := filepath.Glob(filepath.Join(lintFlags.dir, pattern))
			if err != nil {
				return fmt.Errorf("failed to list build files: %w", err)
			}
			files = append(files, matches...)
		}
	}

	if len(files) == 0 {
		return fmt.Errorf("no build files found")
	}

	results := make([]ValidationResult, 0, len(files))

	for _, file := range files {
		result := validateBuildFile(file, lintFlags.client)
		results = append(results, result)
	}

	if lintFlags.format == "json" {
		return outputJSON(results)
	}
	return outputText(results)
}

// ValidationResult represents the validation result for a single build file.
type ValidationResult struct {
	File   string            `json:"file"`
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error.
type ValidationError struct {
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

func validateBuildFile(path, client string) ValidationResult {
	result := ValidationResult{
		File:  path,
		Valid: true,
	}

	delegate := builtin.NewDelegate()
	delegate.ExpectedClientName = client

	bf := buildfile.New(path, delegate)
	if !bf.Load() {
		result.Valid = false
	}

	for _, d := range delegate.Diagnostics {
		result.Errors = append(result.Errors, ValidationError{
			Line:     d.Location.Line,
			Column:   d.Location.Column,
			Message:  d.Message,
			Severity: "error",
		})
	}

	// Load failures outside the parse (e.g. unreadable files) carry no
	// diagnostic, so keep the result non-empty.
	if !result.Valid && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, ValidationError{
			Message:  "unable to load build file",
			Severity: "error",
		})
	}

	return result
}

func outputText(results []ValidationResult) error {
	totalErrors := 0

	for _, result := range results {
		fmt.Printf("Validating %s...\n", result.File)

		if len(result.Errors) == 0 {
			fmt.Println("✓ Syntax valid")
			fmt.Println("✓ Build graph loaded")
		}

		for _, err := range result.Errors {
			fmt.Printf("✗ Error: %s", err.Message)
			if err.Line > 0 {
				fmt.Printf(" (line %d", err.Line)
				if err.Column > 0 {
					fmt.Printf(", col %d", err.Column)
				}
				fmt.Print(")")
			}
			fmt.Println()
			totalErrors++
		}

		fmt.Println()
	}

	fmt.Println("Summary:")
	fmt.Printf("  %d error(s)\n", totalErrors)

	if totalErrors > 0 {
		return cli.NewCommandError("lint", fmt.Errorf("validation failed"))
	}

	return nil
}

func outputJSON(results []ValidationResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return err
	}

	for _, result := range results {
		if !result.Valid {
			return cli.NewCommandError("lint", fmt.Errorf("validation failed"))
		}
	}
	return nil
}
