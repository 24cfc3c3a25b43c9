package leadctl

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Main is the CLI entrypoint; cmd/leadctl delegates here.
func Main() {
	cfg := DefaultConfig()
	root := buildRootCmdWith(cfg)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildRootCmdWith constructs the Cobra command tree wired to the fn* actions.
func buildRootCmdWith(cfg *Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "leadctl",
		Short:         "Admin utilities for the lead funnel server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags -> Config
	root.PersistentFlags().String("server", cfg.ServerURL, "Funnel server base URL (defaults LEADCTL_SERVER or http://localhost:8080)")
	root.PersistentFlags().String("user", cfg.User, "Admin username (defaults LEADCTL_USER)")
	root.PersistentFlags().String("pass", cfg.Pass, "Admin password (defaults LEADCTL_PASS)")
	root.PersistentFlags().String("data-dir", cfg.DataDir, "Durable mirror directory for local commands (defaults LEADCTL_DATA_DIR)")
	root.PersistentFlags().Int("poll-secs", cfg.PollSecs, "Watch poll interval in seconds (defaults LEADCTL_POLL_SECS or 30)")
	root.PersistentFlags().String("log-level", cfg.LogLvl, "Log level: debug|info|warn|error (defaults LEADCTL_LOG_LEVEL or info)")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if f := cmd.InheritedFlags().Lookup("server"); f != nil && f.Value.String() != "" {
			cfg.ServerURL = f.Value.String()
		}
		if f := cmd.InheritedFlags().Lookup("user"); f != nil && f.Value.String() != "" {
			cfg.User = f.Value.String()
		}
		if f := cmd.InheritedFlags().Lookup("pass"); f != nil && f.Value.String() != "" {
			cfg.Pass = f.Value.String()
		}
		if f := cmd.InheritedFlags().Lookup("data-dir"); f != nil && f.Value.String() != "" {
			cfg.DataDir = f.Value.String()
		}
		if f := cmd.InheritedFlags().Lookup("poll-secs"); f != nil {
			var n int
			_, _ = fmt.Sscanf(f.Value.String(), "%d", &n)
			if n != 0 {
				cfg.PollSecs = n
			}
		}
		if f := cmd.InheritedFlags().Lookup("log-level"); f != nil {
			if v := f.Value.String(); v != "" {
				cfg.LogLvl = v
			}
		}
		SetLogLevel(cfg.LogLvl)
	}

	login := &cobra.Command{Use: "login", Short: "Authenticate against the admin endpoints", Example: "  leadctl login", RunE: func(cmd *cobra.Command, args []string) error { return fnLogin(cfg) }}
	logout := &cobra.Command{Use: "logout", Short: "Clear the admin session", RunE: func(cmd *cobra.Command, args []string) error { return fnLogout(cfg) }}
	root.AddCommand(login, logout)

	// leads group
	leadsCmd := &cobra.Command{Use: "leads", Short: "Inspect and manage the mirrored lead list", RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("leads requires a subcommand: list|clear|local")
	}}
	leadsList := &cobra.Command{Use: "list", Short: "List mirrored leads via the server", Example: "  leadctl leads list", RunE: func(cmd *cobra.Command, args []string) error { return fnLeadsList(cfg) }}
	leadsClear := &cobra.Command{Use: "clear", Short: "Reset the mirrored lead list", RunE: func(cmd *cobra.Command, args []string) error { return fnLeadsClear(cfg) }}
	leadsLocal := &cobra.Command{Use: "local", Short: "Read leads straight from the local mirror, no server needed", Example: "  leadctl leads local --data-dir ~/.leadfunnel", RunE: func(cmd *cobra.Command, args []string) error { return fnLeadsLocal(cfg) }}
	leadsCmd.AddCommand(leadsList, leadsClear, leadsLocal)
	root.AddCommand(leadsCmd)

	// customers group
	customersCmd := &cobra.Command{Use: "customers", Short: "Inspect customer records on the collaborator service", RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("customers requires a subcommand: list|delete|bill")
	}}
	customersList := &cobra.Command{Use: "list", Short: "List customer records", RunE: func(cmd *cobra.Command, args []string) error { return fnCustomersList(cfg) }}
	customersDelete := &cobra.Command{Use: "delete <id>", Short: "Delete a customer record", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error { return fnCustomerDelete(cfg, args[0]) }}
	customersBill := &cobra.Command{Use: "bill <id>", Short: "Download a customer's utility bill", Example: "  leadctl customers bill 66b2f1 --out .", RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("bill requires a customer id")
		}
		out, _ := cmd.Flags().GetString("out")
		return fnBillDownload(cfg, args[0], out)
	}}
	customersBill.Flags().String("out", ".", "Directory to save the bill into")
	customersCmd.AddCommand(customersList, customersDelete, customersBill)
	root.AddCommand(customersCmd)

	watch := &cobra.Command{Use: "watch", Short: "Poll the customer list and report count changes", Example: "  leadctl watch --poll-secs 30", RunE: func(cmd *cobra.Command, args []string) error { return fnWatch(cfg) }}
	root.AddCommand(watch)

	return root
}
