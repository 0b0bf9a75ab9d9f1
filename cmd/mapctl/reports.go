package main

import (
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

func init() {
	reportsCmd := &cobra.Command{Use: "reports", Short: "Report queue operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List reported coordinates",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := resty.New().SetBaseURL(apiFlag).R().Get("/api/reports")
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
			}
			fmt.Fprintln(os.Stdout, resp.String())
			return nil
		},
	}
	reportsCmd.AddCommand(listCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Print the report-queue text for manual transcription",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := resty.New().SetBaseURL(apiFlag).R().Get("/api/reports/export")
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
			}
			fmt.Fprintln(os.Stdout, resp.String())
			return nil
		},
	}
	reportsCmd.AddCommand(exportCmd)

	rootCmd.AddCommand(reportsCmd)
}
