package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"clasificador/adapters/excel"
	"clasificador/ai"
	"clasificador/domain/classification"
	"clasificador/domain/core"
	"clasificador/domain/vocabulary"
)

const blankTemplateTitle = "CLASIFICACIÓN DE HECHOS"

func newClassifyCmd() *cobra.Command {
	var templatePath, outputPath, logPath string

	cmd := &cobra.Command{
		Use:   "classify <data-file>",
		Short: "Classify a local .xlsx or .csv file and write the output workbook",
		Long: `Runs the same row pipeline as the upload service on a local file.

Without --template a blank workbook with the standard headers is used.

Example: clasificador classify hechos.xlsx --template plantilla.xlsx --provider heuristic`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, args[0], templatePath, outputPath, logPath)
		},
	}

	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "template workbook (.xlsx)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "Clasificado_Final_IA.xlsx", "output workbook")
	cmd.Flags().StringVar(&logPath, "log", "", "write the diagnostic log to this file")
	return cmd
}

func runClassify(cmd *cobra.Command, dataPath, templatePath, outputPath, logPath string) error {
	c, err := buildContainer(cmd)
	if err != nil {
		return err
	}
	defer c.Shutdown(cmd.Context())

	f, err := os.Open(dataPath)
	if err != nil {
		return fmt.Errorf("failed to open data file: %w", err)
	}
	grid, err := c.Reader.ReadGrid(f, excel.FormatFromName(dataPath))
	f.Close()
	if err != nil {
		return err
	}

	tpl, err := openTemplate(templatePath)
	if err != nil {
		return err
	}
	defer tpl.Close()

	report, runErr := c.Pipeline.Run(cmd.Context(), grid, tpl)
	if report != nil {
		if err := writeLog(logPath, report.Log, cmd.ErrOrStderr(), runErr != nil); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}

	if err := tpl.SaveAs(outputPath); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Batch:       %s\n", report.ID)
	fmt.Fprintf(out, "Rows:        %d\n", report.Rows)
	fmt.Fprintf(out, "Classified:  %d\n", report.Classified)
	fmt.Fprintf(out, "Failed:      %d\n", report.Failed)
	fmt.Fprintf(out, "Empty:       %d\n", report.Empty)
	for kind, n := range report.Failures {
		fmt.Fprintf(out, "  %-10s %d\n", kind, n)
	}
	fmt.Fprintf(out, "Vocabulary:  %s\n", core.Hash(report.VocabularyHash).Short())
	fmt.Fprintf(out, "Duration:    %s\n", report.Duration)
	fmt.Fprintf(out, "Output:      %s (hoja %q)\n", outputPath, tpl.Sheet())
	return nil
}

func openTemplate(path string) (*excel.Template, error) {
	if path == "" {
		return excel.NewBlankTemplate(blankTemplateTitle)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	defer f.Close()
	return excel.OpenTemplate(f)
}

// writeLog saves the diagnostic log to path; without a path it is printed only
// when the batch failed.
func writeLog(path string, log *classification.LogEntries, stderr io.Writer, failed bool) error {
	if path != "" {
		return os.WriteFile(path, []byte(log.String()), 0o644)
	}
	if failed {
		_, err := io.WriteString(stderr, log.String())
		return err
	}
	return nil
}

func newPromptCmd() *cobra.Command {
	var showHashes bool

	cmd := &cobra.Command{
		Use:   "prompt [narrative...]",
		Short: "Print the classification prompt for a narrative",
		Long:  `Prints the prompt sent to the model. Reads the narrative from stdin when no argument is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			narrative := strings.Join(args, " ")
			if len(args) == 0 {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				narrative = strings.TrimSpace(string(b))
			}

			registry := vocabulary.Default()
			prompt := ai.NewPromptBuilder(registry).Build(narrative)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, prompt)
			if showHashes {
				fmt.Fprintf(out, "prompt:     %s\n", core.NewPromptHash(prompt))
				fmt.Fprintf(out, "vocabulary: %s\n", core.ComputeVocabularyHash(registry.Snapshot()))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showHashes, "hashes", false, "also print prompt and vocabulary hashes")
	return cmd
}
