package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"comforttech.in/ac-web/internal/catalog"
	"comforttech.in/ac-web/internal/config"
	"comforttech.in/ac-web/internal/lead"
	"comforttech.in/ac-web/internal/observability"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:          "web",
		Short:        "Comfort Technical Services website",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), envFile)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file read before the process environment")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd.Context(), envFile)
			},
		},
		newLinkCommand(&envFile),
		newCatalogCommand(),
	)
	return root
}

func runServe(parent context.Context, envFile string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.WithEnvFile(envFile))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	srv, err := newServer(cfg, logger, nil)
	if err != nil {
		logger.Error("build server", zap.Error(err))
		return err
	}
	return srv.ListenAndServe(ctx)
}

func newLinkCommand(envFile *string) *cobra.Command {
	var name, phone, service, date, message string
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Print the WhatsApp booking link for a lead",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.WithEnvFile(*envFile))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return printLink(cmd.Context(), cmd.OutOrStdout(), cfg, map[lead.Field]string{
				lead.FieldName:    name,
				lead.FieldPhone:   phone,
				lead.FieldService: service,
				lead.FieldDate:    date,
				lead.FieldMessage: message,
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "customer name")
	cmd.Flags().StringVar(&phone, "phone", "", "10-digit mobile number")
	cmd.Flags().StringVar(&service, "service", "", "service label, e.g. \"AC Servicing\"")
	cmd.Flags().StringVar(&date, "date", "", "preferred date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&message, "message", "", "additional details")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("service")
	return cmd
}

// printLink walks the booking steps exactly as the form does and prints the
// composed text followed by the deep link.
func printLink(ctx context.Context, out io.Writer, cfg config.Config, values map[lead.Field]string) error {
	flow := lead.NewFlow(nil,
		lead.WithLocation(cfg.Booking.Location),
		lead.WithLinker(lead.Linker{Number: cfg.Booking.WhatsAppNumber}),
	)
	for _, field := range lead.Fields {
		if err := flow.Set(field, values[field]); err != nil {
			return err
		}
		if err := flow.Advance(); err != nil {
			return err
		}
	}
	if msg := lead.ValidateMessage(values[lead.FieldMessage]); msg != "" {
		return &lead.ValidationError{Fields: lead.FieldErrors{lead.FieldMessage: msg}}
	}
	receipt, err := flow.Submit(ctx, nil)
	if err != nil {
		var verr *lead.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("incomplete booking: %w", err)
		}
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n\n%s\n", receipt.Text, receipt.Link)
	return err
}

func newCatalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the embedded service catalog as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := catalog.Default().Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
