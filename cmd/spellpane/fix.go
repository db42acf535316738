package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/spellpane/internal/api"
	"github.com/jackzampolin/spellpane/internal/workflow"
)

var (
	fixAdd    bool
	fixDryRun bool
)

var fixCmd = &cobra.Command{
	Use:   "fix <file> <word> [candidate]",
	Short: "Replace a misspelled word throughout a document",
	Long: `Scan the document, then replace every occurrence of word with candidate
and save the file. Without a candidate the service's best candidate is
used. With --add the word is added to the dictionary instead.

Examples:
  spellpane fix letter.txt teh the
  spellpane fix letter.txt recieve          # Use the top candidate
  spellpane fix letter.txt kubectl --add`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path, word := args[0], args[1]

		sess, _, err := openSession(path)
		if err != nil {
			return err
		}
		report, err := sess.scan(ctx)
		if err != nil {
			return err
		}
		if report.Degraded {
			return fmt.Errorf("suggestion service at %s unavailable", sess.cfg.Service.URL)
		}

		act := workflow.Action{Word: word, Kind: workflow.ActionReplace}
		switch {
		case fixAdd:
			act.Kind = workflow.ActionAddToDictionary
		case len(args) == 3:
			act.Candidate = args[2]
		default:
			for _, e := range report.Entries {
				if e.Word == word && len(e.Candidates) > 0 {
					act.Candidate = e.Candidates[0]
				}
			}
			if act.Candidate == "" {
				return fmt.Errorf("no candidate for %q; pass one explicitly", word)
			}
		}

		outcome, err := sess.workflow.Dispatch(ctx, act)
		if errors.Is(err, workflow.ErrNoEntry) {
			return fmt.Errorf("%q is not flagged as misspelled", word)
		}
		if err != nil {
			return err
		}

		if act.Kind == workflow.ActionReplace && !fixDryRun {
			if err := sess.doc.Save(); err != nil {
				return err
			}
		}
		return api.Output(outcome)
	},
}

func init() {
	fixCmd.Flags().BoolVar(&fixAdd, "add", false, "Add the word to the dictionary instead of replacing it")
	fixCmd.Flags().BoolVar(&fixDryRun, "dry-run", false, "Do not write the file")
	// --add posts to the remote dictionary, so it has no dry run.
	fixCmd.MarkFlagsMutuallyExclusive("add", "dry-run")
	rootCmd.AddCommand(fixCmd)
}
