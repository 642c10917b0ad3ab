package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Maikl76/Aplikace-data/internal/output"
	"github.com/Maikl76/Aplikace-data/pkg/archive"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage the archive of historical measurements",
}

var archiveAppendCmd = &cobra.Command{
	Use:   "append <identity>",
	Short: "Archive the current measurement of a subject",
	Long: `Appends the subject's row of the input table to the archive, stamped with
the current date and time. Derived ratios are not stored; values that were
missing in the table are stored empty.`,
	Args: cobra.ExactArgs(1),
	RunE: runArchiveAppend,
}

var archiveListCmd = &cobra.Command{
	Use:   "list <identity>",
	Short: "List the archived measurements of a subject",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveList,
}

func init() {
	archiveAppendCmd.Flags().StringP("input", "i", "", "Subject table (.xlsx or .csv)")
	archiveAppendCmd.Flags().String("sheet", "", "Worksheet name (default: \"data\" or the first sheet)")
	addOutputFlags(archiveListCmd)

	archiveCmd.AddCommand(archiveAppendCmd)
	archiveCmd.AddCommand(archiveListCmd)
	rootCmd.AddCommand(archiveCmd)
}

func runArchiveAppend(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(cmd, args)
	if err != nil {
		return err
	}

	svc := newService()
	defer svc.Close()
	if err := svc.ArchiveSubject(cmd.Context(), req); err != nil {
		return err
	}
	console().Success("Archived %s in %s", req.Identity, svc.Config().Archive.Path)
	return nil
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	svc := newService()
	defer svc.Close()

	snaps, err := svc.Snapshots(cmd.Context(), args[0])
	if err != nil && !errors.Is(err, archive.ErrNoArchive) {
		return err
	}

	formatter, ferr := newFormatter(cmd)
	if ferr != nil {
		return ferr
	}
	defer formatter.Close()
	if err != nil {
		formatter.Warning("No data available: %s does not exist", svc.Config().Archive.Path)
		return nil
	}
	if len(snaps) == 0 {
		formatter.Warning("No archived measurements of %s", args[0])
		return nil
	}

	rows := make([][]string, len(snaps))
	for i, s := range snaps {
		rows[i] = []string{fmt.Sprintf("%d", i+1), s.Date}
	}
	table := output.NewTable(
		"Archived measurements of "+args[0],
		[]string{"#", "Date"},
		rows,
		[]string{fmt.Sprintf("Total: %d", len(snaps))},
		snaps,
	)
	return formatter.Output(table)
}
