package cli

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ByLCY/carousel/internal/server"
)

func newServeCmd(g *globals) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, logger, err := g.loadConfig(ctx)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			svc, c, err := newService(ctx, cfg, "", logger)
			if err != nil {
				return err
			}
			defer c.Close()

			if !g.verbose {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := server.New(svc, server.Options{
				MaxBodyBytes:    cfg.Server.MaxBodyBytes,
				ShutdownTimeout: cfg.Server.ShutdownTimeout.Duration,
				Logger:          logger,
			})
			return srv.Run(ctx, cfg.Server.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
