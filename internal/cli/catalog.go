package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roshil-6/TONIO-SENORA/internal/catalog"
)

type visaSummary struct {
	Country   string `json:"country"`
	VisaType  string `json:"visaType"`
	Name      string `json:"name"`
	Documents int    `json:"documents"`
	Required  int    `json:"required"`
	Optional  int    `json:"optional"`
}

// NewCatalogCommand prints the document count of every visa type.
func NewCatalogCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:          "catalog",
		Short:        "List the visa types of the requirement catalog",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCatalog(cmd.OutOrStdout(), catalog.Default(), format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format (json|text)")
	return cmd
}

func summarize(c *catalog.Catalog) []visaSummary {
	var out []visaSummary
	for _, country := range c.Countries() {
		for _, v := range country.VisaTypes {
			out = append(out, visaSummary{
				Country:   country.Key,
				VisaType:  v.Key,
				Name:      v.Name,
				Documents: v.TotalDocumentCount(),
				Required:  v.RequiredCount(),
				Optional:  v.OptionalCount(),
			})
		}
	}
	return out
}

func printCatalog(w io.Writer, c *catalog.Catalog, format string) error {
	rows := summarize(c)
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "text":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "COUNTRY\tVISA TYPE\tDOCUMENTS\tREQUIRED\tOPTIONAL")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", r.Country, r.VisaType, r.Documents, r.Required, r.Optional)
		}
		return tw.Flush()
	}
	return fmt.Errorf("invalid format %q: must be one of [text json]", format)
}
