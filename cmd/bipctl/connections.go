package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"bip-connector/internal/bip"
)

var (
	connName     string
	connURL      string
	connUser     string
	connPassword string
	connProxy    string
)

var connectionsCmd = &cobra.Command{
	Use:     "connections",
	Aliases: []string{"conn"},
	Short:   "Manage stored report-service connections",
}

var connectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored connections",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		conns, err := st.ListConnections(cmd.Context())
		if err != nil {
			return err
		}
		if len(conns) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no connections; add one with `bipctl connections add`")
			return nil
		}
		for _, c := range conns {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-20s %s\n", c.ID, c.Name, c.BaseURL)
		}
		return nil
	},
}

var connectionsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Store a new connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		created, err := st.CreateConnection(cmd.Context(), bip.Connection{
			Name:     connName,
			BaseURL:  connURL,
			Username: connUser,
			Password: connPassword,
			ProxyURL: connProxy,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), created.ID)
		return nil
	},
}

var connectionsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a stored connection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		return st.DeleteConnection(cmd.Context(), args[0])
	},
}

var connectionsTestCmd = &cobra.Command{
	Use:   "test <id-or-name>",
	Short: "Run SELECT 1 FROM dual through a stored connection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		conn, err := st.FindConnection(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.QueryTimeout())
		defer cancel()

		res, err := bip.NewClient(&http.Client{}).Execute(ctx, conn, "SELECT 1 FROM dual", 1)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok (%d ms)\n", res.DurationMs)
		return nil
	},
}

func init() {
	connectionsAddCmd.Flags().StringVar(&connName, "name", "", "connection name")
	connectionsAddCmd.Flags().StringVar(&connURL, "url", "", "report-service base URL")
	connectionsAddCmd.Flags().StringVar(&connUser, "user", "", "username")
	connectionsAddCmd.Flags().StringVar(&connPassword, "password", "", "password")
	connectionsAddCmd.Flags().StringVar(&connProxy, "proxy", "", "CORS proxy URL")
	_ = connectionsAddCmd.MarkFlagRequired("name")
	_ = connectionsAddCmd.MarkFlagRequired("url")

	connectionsCmd.AddCommand(connectionsListCmd, connectionsAddCmd, connectionsRmCmd, connectionsTestCmd)
}
