package main

import (
	"github.com/spf13/cobra"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Start the HTTP API server for running matches, reviewing them and reading job analytics.",
	RunE:  runServe,
}

var (
	servePort      int
	serveRateLimit int
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default from config, 8080)")
	serveCmd.Flags().IntVar(&serveRateLimit, "rate-limit", -1, "Requests per minute per client; 0 disables (default from config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	port := a.cfg.Port
	if servePort > 0 {
		port = servePort
	}
	rateLimit := a.cfg.RateLimit
	if serveRateLimit >= 0 {
		rateLimit = serveRateLimit
	}

	srv := server.New(a.svc, server.Config{Port: port, RateLimit: rateLimit}, a.logger)
	srv.OnStop(a.Close)
	return srv.Start()
}
