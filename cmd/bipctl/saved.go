package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bip-connector/internal/store"
)

var (
	savedName       string
	savedConnection string
	savedLimit      int
)

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage saved queries",
}

var savedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved queries",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		queries, err := st.ListSavedQueries(cmd.Context())
		if err != nil {
			return err
		}
		for _, q := range queries {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-20s %s\n", q.ID, q.Name, firstLine(q.SQL))
		}
		return nil
	},
}

var savedSaveCmd = &cobra.Command{
	Use:   "save [sql]",
	Short: "Save a statement under a name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sqlText, err := readSQL(cmd, args)
		if err != nil {
			return err
		}

		_, st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		created, err := st.CreateSavedQuery(cmd.Context(), store.SavedQuery{
			Name:         savedName,
			ConnectionID: savedConnection,
			SQL:          sqlText,
			RowLimit:     savedLimit,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), created.ID)
		return nil
	},
}

var savedRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a saved query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		return st.DeleteSavedQuery(cmd.Context(), args[0])
	},
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i] + " ..."
		}
	}
	return s
}

func init() {
	savedSaveCmd.Flags().StringVar(&savedName, "name", "", "name for the saved query")
	savedSaveCmd.Flags().StringVar(&savedConnection, "connection", "", "stored connection id")
	savedSaveCmd.Flags().IntVar(&savedLimit, "limit", 0, "row limit to remember")
	_ = savedSaveCmd.MarkFlagRequired("name")

	savedCmd.AddCommand(savedListCmd, savedSaveCmd, savedRmCmd)
}
