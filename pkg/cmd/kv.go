package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yeisme/filevault/pkg/app"
	"github.com/yeisme/filevault/pkg/cache"
	"github.com/yeisme/filevault/pkg/internal/service"
	kv "github.com/yeisme/filevault/pkg/internal/storage/kv"
)

var (
	sessionUserID uint

	kvCmd = &cobra.Command{
		Use:     "kv",
		Short:   "Key-Value store related commands",
		Aliases: []string{"keyvalue"},
	}

	kvListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list all registered kv types",
		Aliases: []string{"ls", "l"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Registered kv types:")

			for _, t := range kv.GetRegisteredKVTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), "   - "+string(t))
			}
		},
	}

	kvSessionsCmd = &cobra.Command{
		Use:   "sessions",
		Short: "list login sessions stored in the kv backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSessions(cmd, func(m *service.SessionManager) error {
				sessions, err := m.List(cmd.Context(), sessionUserID)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tUSER_ID\tUSERNAME\tROLE\tEXPIRES")

				for _, s := range sessions {
					fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", s.ID, s.UserID, s.Username, s.Role, s.ExpiresAt.Format(time.RFC3339))
				}

				return w.Flush()
			})
		},
	}

	kvRevokeCmd = &cobra.Command{
		Use:   "revoke <session-id>...",
		Short: "force logout of the given sessions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSessions(cmd, func(m *service.SessionManager) error {
				for _, id := range args {
					if err := m.RevokeID(cmd.Context(), id); err != nil {
						return fmt.Errorf("revoke %s: %w", id, err)
					}

					fmt.Fprintln(cmd.OutOrStdout(), "revoked", id)
				}

				return nil
			})
		},
	}
)

// withSessions 只打开 KV 存储，会话管理不需要数据库与对象存储.
func withSessions(cmd *cobra.Command, fn func(m *service.SessionManager) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := kv.New(cmd.Context(), &cfg.KV)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(service.NewSessionManager(cache.NewCache(store, cache.WithPrefix(app.SessionPrefix)), cfg.Auth))
}

// registerKVCommands 注册 KV 相关命令.
func registerKVCommands() {
	kvSessionsCmd.Flags().UintVarP(&sessionUserID, "user", "u", 0, "only show sessions of this user id")

	rootCmd.AddCommand(kvCmd)
	kvCmd.AddCommand(kvListCmd, kvSessionsCmd, kvRevokeCmd)
}
