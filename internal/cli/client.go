package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"netquiz/internal/client"
	"netquiz/internal/config"
	"netquiz/internal/domain"
	"netquiz/internal/ui"
)

// NewClientCmd connects to the server named in server_info.dat.
func NewClientCmd(root *rootOptions, v *viper.Viper) *cobra.Command {
	var (
		plain      bool
		serverInfo string
	)
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Join a quiz as a participant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, err := config.LoadServerInfo(serverInfo)
			missing := errors.Is(err, domain.ErrConfigMissing)

			if plain {
				setupLogging(root.verbose)
				if missing {
					slog.Debug("client: using default endpoint", "reason", err)
				}
				return runConsoleClient(cmd, ep, missing)
			}
			// the window owns the terminal
			slog.SetDefault(newLogger(io.Discard, false))
			return runWindowClient(cmd.Context(), ep, missing)
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&plain, "plain", false, "line-oriented console instead of the terminal window (env: NETQUIZ_PLAIN)")
	fs.StringVar(&serverInfo, "server-info", config.ServerInfoFile, "file with server host and port lines (env: NETQUIZ_SERVER_INFO)")
	bindEnv(v, fs)
	return cmd
}

func runConsoleClient(cmd *cobra.Command, ep config.Endpoint, missing bool) error {
	ctx := cmd.Context()
	console := ui.NewConsole(cmd.OutOrStdout())
	if missing {
		client.ShowConfigNotice(console, ep)
	}

	c, err := client.Dial(ctx, ep, console)
	if err != nil {
		return err
	}
	defer c.Close()

	go console.ReadAnswers(ctx, cmd.InOrStdin(), c.Submit)
	return c.Run(ctx)
}

func runWindowClient(ctx context.Context, ep config.Endpoint, missing bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := ui.NewWindow(" Quiz ")
	if missing {
		client.ShowConfigNotice(w, ep)
	}

	// dismissing the error dialog stops the window; the cause is returned then
	done := make(chan error, 1)
	go func() {
		c, err := client.Dial(ctx, ep, w)
		if err != nil {
			done <- err
			return
		}
		defer c.Close()

		go func() {
			for {
				select {
				case answer := <-w.Answers():
					_ = c.Submit(answer)
				case <-ctx.Done():
					return
				}
			}
		}()
		done <- c.Run(ctx)
	}()

	if err := w.Run(); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	default:
		return nil
	}
}
