package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vintegcorp/vintegcorp/server"
)

func newRoutesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table in match order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.loadConfig()
			if err != nil {
				return err
			}
			// the table does not depend on a database
			api, err := server.New(c, nil, server.WithLogger(zerolog.Nop()), server.Quiet())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRoutes(api.Routes()))
			return nil
		},
	}
}

func renderRoutes(routes []server.RouteInfo) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"#", "Method", "Pattern", "Auth", "Body", "Store"})
	for i, r := range routes {
		t.AppendRow(table.Row{i + 1, r.Method, r.Pattern, authLabel(r.Auth), dash(r.Body), yesNo(r.UsesStore)})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d routes", len(routes)), "", "", ""})
	return t.Render()
}

func authLabel(bearer bool) string {
	if bearer {
		return "bearer"
	}
	return "none"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
