// Package main provides the fichas command line entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/datanaut/fichas/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fichas: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:   "fichas",
		Short: "Envia fichas financeiras em PDF e baixa a planilha gerada",
		Long: `fichas envia até 8 fichas financeiras em PDF para a API de processamento
e salva a planilha resultante. Sem subcomando, abre a interface de terminal.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/fichas/config.toml)")
	flags.StringVar(&opts.BaseURL, "api", "", "API base URL, overrides config and FICHAS_API_BASE_URL")
	flags.StringVarP(&opts.OutputDir, "out", "o", "", "directory the spreadsheet is saved to")
	flags.IntVar(&opts.PollEvery, "poll", 0, "API status refresh interval in seconds (default 30)")

	root.AddCommand(newSubmitCmd(&opts), newStatusCmd(&opts), newLogsCmd(&opts))
	return root
}

func newSubmitCmd(opts *app.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit [paths...]",
		Short: "Processa PDFs sem a interface e salva a planilha",
		Long: `submit envia os PDFs informados (arquivos ou diretórios) e salva
"Cálculo.v15 - Poupança - Preenchido.xlsx" no diretório de saída.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Submit(cmd.Context(), *opts, args, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log requests to stderr")
	return cmd
}

func newStatusCmd(opts *app.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Verifica a conexão com a API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Status(cmd.Context(), *opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log requests to stderr")
	return cmd
}

func newLogsCmd(opts *app.Options) *cobra.Command {
	var lines int
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Mostra as últimas linhas do log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Logs(*opts, lines, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines, 0 for all")
	return cmd
}
