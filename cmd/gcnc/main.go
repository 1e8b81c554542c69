package main

import (
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var log = zap.NewNop()

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// openInput returns the file named by args, or stdin when there is none or
// it is "-".
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(args[0])
}

func newRootCmd() *cobra.Command {
	var debug bool
	root := &cobra.Command{
		Use:           "gcnc",
		Short:         "gcnc parses G-code and Grbl controller output",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if debug {
				log, err = zap.NewDevelopment()
			} else {
				log, err = zap.NewProduction()
			}
			return err
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging.")

	root.AddCommand(
		newParseCmd(),
		newTokensCmd(),
		newSettingsCmd(),
		newServeCmd(),
	)
	return root
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatal("load .env", zap.Error(err))
	}

	err := newRootCmd().Execute()
	if err != nil {
		log.Error("command failed", zap.Error(err))
	}
	log.Sync()
	if err != nil {
		os.Exit(1)
	}
}
