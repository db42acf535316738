package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/spellpane/internal/api"
	"github.com/jackzampolin/spellpane/internal/workflow"
)

var checkFail bool

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Spell check a document and print the misspelled words",
	Long: `Run one spell check and print the report: misspelled words with their
candidates, and the words the service accepted.

Examples:
  spellpane check letter.txt
  spellpane check letter.txt -o json
  spellpane check README.md --fail     # Exit non-zero on misspellings`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, _, err := openSession(args[0])
		if err != nil {
			return err
		}

		report, err := sess.scan(cmd.Context())
		if errors.Is(err, workflow.ErrNoInput) {
			fmt.Println("No text found in the document.")
			return nil
		}
		if err != nil {
			return err
		}
		if err := api.Output(report); err != nil {
			return err
		}
		if report.Degraded {
			return fmt.Errorf("suggestion service at %s unavailable", sess.cfg.Service.URL)
		}
		if checkFail && len(report.Misspelled) > 0 {
			return fmt.Errorf("%d misspelled words", len(report.Misspelled))
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkFail, "fail", false, "Exit with an error when misspelled words are found")
	rootCmd.AddCommand(checkCmd)
}
