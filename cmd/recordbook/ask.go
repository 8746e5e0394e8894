package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	recordbook "github.com/kailas-cloud/recordbook/pkg/sdk"
)

func askCmd(f *storeFlags) *cobra.Command {
	var (
		voice   bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "ask [command]",
		Short: "Run a natural-language search command",
		Example: `  recordbook ask find criminal records for John
  recordbook ask --voice "show citizens aged 42"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := openClient(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer client.Close()

			text := strings.Join(args, " ")
			send := client.Commands().Send
			if voice {
				send = client.Commands().SendVoice
			}
			res, err := send(cmd.Context(), text)
			if err != nil {
				if res.Status != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), res.Status)
				}
				return err
			}

			out := cmd.OutOrStdout()
			if verbose {
				b, _ := json.MarshalIndent(res.Classification, "", "  ")
				fmt.Fprintln(out, string(b))
			}
			if !res.Recognized {
				if res.Status != "" && !verbose {
					fmt.Fprintln(out, res.Status)
				}
				fmt.Fprintf(out, "Nothing searched: module %q is not citizens or criminals\n",
					res.Classification.Module)
				return nil
			}

			fields := []string{recordbook.FieldName, recordbook.FieldAge, recordbook.FieldAddress, recordbook.FieldGovernmentID}
			if res.Module == "criminal" {
				fields = []string{recordbook.FieldName, recordbook.FieldCrime, recordbook.FieldDateArrested, recordbook.FieldGovernmentID}
			}
			fmt.Fprintf(out, "Searching %ss %v\n", res.Module, res.Filters)
			page := recordbook.SearchResult{Module: res.Module, Mode: res.Mode, Rows: res.Rows}
			if len(res.Rows) == 0 {
				page.Message = recordbook.NoMatchesMessage
			}
			printPage(out, page, fields)
			return nil
		},
	}

	cmd.Flags().BoolVar(&voice, "voice", false, "treat the text as a voice transcript")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the interpreter classification")
	return cmd
}
