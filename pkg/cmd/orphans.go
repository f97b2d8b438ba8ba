package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/yeisme/filevault/pkg/app"
	"github.com/yeisme/filevault/pkg/internal/storage"
	"github.com/yeisme/filevault/pkg/internal/storage/db"
)

var (
	orphanLimit int

	orphansCmd = &cobra.Command{
		Use:   "orphans",
		Short: "inspect and retry blobs whose cleanup failed",
	}

	orphansListCmd = &cobra.Command{
		Use:     "ls",
		Short:   "list pending orphan blobs",
		Aliases: []string{"list"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			mgr, err := storage.Init(cmd.Context(), cfg, storage.Options{SkipS3: true, SkipMQ: true})
			if err != nil {
				return err
			}
			defer mgr.Close()

			orphans, err := db.NewStore(mgr.DB).ListOrphans(cmd.Context(), orphanLimit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTORED_ID\tOWNER\tREASON\tATTEMPTS\tLAST_ERROR")

			for _, o := range orphans {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%d\t%s\n", o.ID, o.StoredID, o.OwnerID, o.Reason, o.Attempts, o.LastError)
			}

			return w.Flush()
		},
	}

	orphansSweepCmd = &cobra.Command{
		Use:   "sweep",
		Short: "retry deleting pending orphan blobs once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			core, err := app.BuildCore(cmd.Context(), cfg, storage.Options{SkipMQ: true})
			if err != nil {
				return err
			}
			defer core.Close()

			result, err := core.Sweeper.Sweep(cmd.Context())
			if err != nil {
				return err
			}

			out, err := sonic.Marshal(result)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			return nil
		},
	}
)

// registerOrphanCommands 注册孤儿对象相关命令.
func registerOrphanCommands() {
	orphansListCmd.Flags().IntVarP(&orphanLimit, "limit", "n", 100, "maximum rows to print")

	orphansCmd.AddCommand(orphansListCmd, orphansSweepCmd)
	rootCmd.AddCommand(orphansCmd)
}
