package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"bip-connector/internal/bip"
	"bip-connector/internal/export"
)

var (
	queryConnection string
	queryURL        string
	queryUser       string
	queryPassword   string
	queryProxy      string
	queryTemplate   string
	queryLimit      int
	queryFormat     string
)

var queryCmd = &cobra.Command{
	Use:   "query [sql]",
	Short: "Execute a statement and print the result",
	Long: `Execute a statement against a stored connection (--connection, by id or
name) or an ad-hoc endpoint (--url). The statement comes from the argument
or from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQueryCmd,
}

var capacityCmd = &cobra.Command{
	Use:   "capacity [sql]",
	Short: "Check whether a statement fits the nine parameter slots",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sqlText, err := readSQL(cmd, args)
		if err != nil {
			return err
		}
		c := bip.CheckCapacity(sqlText, queryLimit)
		fmt.Fprintf(cmd.OutOrStdout(), "encoded length: %d of %d\nchunks: %d of %d\ntruncated: %v\n",
			c.EncodedLength, c.MaxLength, c.ChunkCount, bip.MaxChunks, c.Truncated)
		if c.Truncated {
			return errors.New("statement does not fit; it would be truncated on the wire")
		}
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{queryCmd, capacityCmd} {
		cmd.Flags().IntVar(&queryLimit, "limit", 0, "row limit (default from config)")
	}
	queryCmd.Flags().StringVarP(&queryConnection, "connection", "c", "", "stored connection id or name")
	queryCmd.Flags().StringVar(&queryURL, "url", "", "ad-hoc report-service base URL")
	queryCmd.Flags().StringVar(&queryUser, "user", "", "ad-hoc username")
	queryCmd.Flags().StringVar(&queryPassword, "password", "", "ad-hoc password")
	queryCmd.Flags().StringVar(&queryProxy, "proxy", "", "ad-hoc CORS proxy URL")
	queryCmd.Flags().StringVar(&queryTemplate, "template", "", "path to a custom SOAP template file")
	queryCmd.Flags().StringVarP(&queryFormat, "format", "f", "table", "output format: table, csv or json")
}

func readSQL(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", errors.New("no SQL given; pass it as an argument or on stdin")
	}
	return string(b), nil
}

func runQueryCmd(cmd *cobra.Command, args []string) error {
	sqlText, err := readSQL(cmd, args)
	if err != nil {
		return err
	}

	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var conn bip.Connection
	switch {
	case queryURL != "":
		conn = bip.Connection{
			BaseURL:  queryURL,
			Username: queryUser,
			Password: queryPassword,
			ProxyURL: queryProxy,
		}
	case queryConnection != "":
		conn, err = st.FindConnection(cmd.Context(), queryConnection)
		if err != nil {
			return fmt.Errorf("connection %q: %w", queryConnection, err)
		}
	default:
		return errors.New("pass --connection or --url")
	}

	if queryTemplate != "" {
		tmpl, err := os.ReadFile(queryTemplate)
		if err != nil {
			return err
		}
		conn.SOAPTemplate = string(tmpl)
	}

	limit := queryLimit
	if limit <= 0 {
		limit = cfg.RowLimitOrDefault()
	}

	if c := bip.CheckCapacity(sqlText, limit); c.Truncated {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: statement exceeds the %d parameter slots and will be truncated\n", bip.MaxChunks)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.QueryTimeout())
	defer cancel()

	res, err := bip.NewClient(&http.Client{}).Execute(ctx, conn, sqlText, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch queryFormat {
	case "csv":
		return export.WriteCSV(out, res)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "table":
		printTable(out, res)
		fmt.Fprintf(out, "\n%d rows (%d ms)\n", len(res.Rows), res.DurationMs)
		return nil
	default:
		return fmt.Errorf("unknown format %q", queryFormat)
	}
}

func printTable(w io.Writer, res *bip.QueryResult) {
	widths := make([]int, len(res.Columns))
	for i, col := range res.Columns {
		widths[i] = len(col)
	}
	for _, row := range res.Rows {
		for i, col := range res.Columns {
			if n := len(row[col]); n > widths[i] {
				widths[i] = n
			}
		}
	}

	printRow := func(cells func(i int) string) {
		for i := range res.Columns {
			if i > 0 {
				fmt.Fprint(w, "  ")
			}
			fmt.Fprintf(w, "%-*s", widths[i], cells(i))
		}
		fmt.Fprintln(w)
	}

	printRow(func(i int) string { return res.Columns[i] })
	printRow(func(i int) string { return strings.Repeat("-", widths[i]) })
	for _, row := range res.Rows {
		printRow(func(i int) string { return row[res.Columns[i]] })
	}
}
