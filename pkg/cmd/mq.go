package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mq "github.com/yeisme/filevault/pkg/internal/storage/mq"
)

var (
	mqCmd = &cobra.Command{
		Use:     "mq",
		Short:   "Message queue related commands",
		Aliases: []string{"messagequeue"},
	}

	mqListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list all registered mq types",
		Aliases: []string{"ls", "l"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Registered mq types:")

			for _, t := range mq.GetRegisteredTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), "   - "+string(t))
			}
		},
	}

	mqTailCmd = &cobra.Command{
		Use:   "tail <topic>",
		Short: "print messages published to a topic until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client, err := mq.New(ctx, &cfg.MQ, mq.Options{})
			if err != nil {
				return err
			}
			defer client.Close()

			msgs, err := client.Subscribe(ctx, args[0])
			if err != nil {
				return err
			}

			for {
				select {
				case <-ctx.Done():
					return nil
				case m, ok := <-msgs:
					if !ok {
						return nil
					}

					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", m.UUID, string(m.Payload))
					m.Ack()
				}
			}
		},
	}
)

// registerMQCommands 注册 MQ 相关命令.
func registerMQCommands() {
	rootCmd.AddCommand(mqCmd)
	mqCmd.AddCommand(mqListCmd, mqTailCmd)
}
