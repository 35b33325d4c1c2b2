package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/prasetyowira/qr-utils/domain/generator"
	"github.com/spf13/cobra"
)

func (a *app) historyCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently generated QR codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			artifacts, err := svc.History(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(artifacts) == 0 {
				fmt.Fprintln(a.stdout, "No QR codes generated yet.")
				return nil
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tKIND\tVERSION\tPATH\tPAYLOAD")
			for _, art := range artifacts {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
					art.ID, art.CreatedAt.Local().Format(time.DateTime), art.Kind, art.Version, art.Path, art.PayloadPreview)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", generator.DefaultHistoryLimit, "number of entries to show")
	return cmd
}
