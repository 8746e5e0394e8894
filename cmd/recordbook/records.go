package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	domrec "github.com/kailas-cloud/recordbook/internal/domain/record"
	recordbook "github.com/kailas-cloud/recordbook/pkg/sdk"
)

func citizensCmd(f *storeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "citizens",
		Short: "Manage citizen records",
	}

	var c recordbook.Citizen
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a citizen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := openClient(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer client.Close()

			created, err := client.Citizens().Add(cmd.Context(), c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added citizen %d: %s\n", created.ID, created.Name)
			return nil
		},
	}
	add.Flags().StringVar(&c.Name, "name", "", "full name")
	add.Flags().IntVar(&c.Age, "age", 0, "age in years")
	add.Flags().StringVar(&c.Address, "address", "", "home address")
	add.Flags().StringVar(&c.GovernmentID, "government-id", "", "government ID")

	var sf searchFlags
	search := &cobra.Command{
		Use:   "search [query]",
		Short: "Search citizens by field or free text",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := openClient(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer client.Close()

			b := client.Citizens().Search().Query(strings.Join(args, " "))
			applyFilters(&sf, b)
			page, err := b.Page(cmd.Context())
			if err != nil {
				return err
			}
			printPage(cmd.OutOrStdout(), page,
				[]string{recordbook.FieldName, recordbook.FieldAge, recordbook.FieldAddress, recordbook.FieldGovernmentID})
			return nil
		},
	}
	sf.register(search, recordbook.FieldName, recordbook.FieldAge, recordbook.FieldAddress, recordbook.FieldGovernmentID)

	cmd.AddCommand(add, search)
	return cmd
}

func criminalsCmd(f *storeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "criminals",
		Short: "Manage criminal records",
	}

	var (
		c        recordbook.Criminal
		arrested string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Record an arrest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if arrested != "" {
				d, ok := domrec.ParseDate(arrested)
				if !ok {
					return fmt.Errorf("invalid --arrested date %q, want YYYY-MM-DD", arrested)
				}
				c.DateArrested = d
			}

			client, err := openClient(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer client.Close()

			created, err := client.Criminals().Add(cmd.Context(), c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added criminal %d: %s\n", created.ID, created.Name)
			return nil
		},
	}
	add.Flags().StringVar(&c.Name, "name", "", "full name")
	add.Flags().StringVar(&c.Crime, "crime", "", "offence")
	add.Flags().StringVar(&arrested, "arrested", "", "arrest date (YYYY-MM-DD)")
	add.Flags().StringVar(&c.GovernmentID, "government-id", "", "government ID")

	var sf searchFlags
	search := &cobra.Command{
		Use:   "search [query]",
		Short: "Search criminals by field or free text",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := openClient(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer client.Close()

			b := client.Criminals().Search().Query(strings.Join(args, " "))
			applyFilters(&sf, b)
			page, err := b.Page(cmd.Context())
			if err != nil {
				return err
			}
			printPage(cmd.OutOrStdout(), page,
				[]string{recordbook.FieldName, recordbook.FieldCrime, recordbook.FieldDateArrested, recordbook.FieldGovernmentID})
			return nil
		},
	}
	sf.register(search, recordbook.FieldName, recordbook.FieldCrime, recordbook.FieldDateArrested, recordbook.FieldGovernmentID)

	cmd.AddCommand(add, search)
	return cmd
}

// searchFlags binds one string flag per searchable field.
type searchFlags struct {
	values map[string]*string
}

func (s *searchFlags) register(cmd *cobra.Command, fields ...string) {
	s.values = make(map[string]*string, len(fields))
	for _, field := range fields {
		s.values[field] = cmd.Flags().String(flagName(field), "", "filter by "+field)
	}
}

// applyFilters adds the non-empty flags as field filters.
func applyFilters[T any](s *searchFlags, b *recordbook.SearchBuilder[T]) {
	for field, v := range s.values {
		if *v != "" {
			b.Where(field, *v)
		}
	}
}

// flagName maps a camelCase field to a kebab-case flag.
func flagName(field string) string {
	var b strings.Builder
	for _, r := range field {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func printPage(w io.Writer, page recordbook.SearchResult, fields []string) {
	if len(page.Rows) == 0 {
		fmt.Fprintln(w, page.Message)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "ID")
	for _, f := range fields {
		fmt.Fprint(tw, "\t"+strings.ToUpper(flagName(f)))
	}
	fmt.Fprintln(tw)
	for _, r := range page.Rows {
		fmt.Fprint(tw, strconv.FormatInt(r.ID, 10))
		for _, f := range fields {
			fmt.Fprint(tw, "\t"+r.Values[f])
		}
		fmt.Fprintln(tw)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d match(es), %s search\n", len(page.Rows), page.Mode)
}
