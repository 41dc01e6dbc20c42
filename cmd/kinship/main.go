package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/kinship-labs/kinship/internal/cliconfig"
	"github.com/kinship-labs/kinship/pkg/awsx"
	"github.com/kinship-labs/kinship/pkg/log"
)

const helpDescription = `
Publish to and tail AWS Kinesis streams from the command line.

Highlights:
  - put batches stdin lines under the service's count and byte ceilings,
    retrying throttled records automatically until the queue drains.
  - tail follows every shard of a stream and prints records as they arrive.
  - Credentials come from the default AWS chain; --role-arn or --role-name
    switches to an assumed role, including cross-account.

Configuration is read from $HOME/.kinship/config.toml, then KINSHIP_*
environment variables, then flags.
`

var exampleUsage = strings.TrimSpace(`
  kinesis-ls | kinship put --stream events
  kinship put --stream arn:aws:kinesis:us-east-2:123456789012:stream/events < records.jsonl
  kinship tail --stream events --trim-horizon
  kinship tail --stream events --role-arn arn:aws:iam::210987654321:role/reader
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	zlog := cliconfig.Logger()

	root := &cobra.Command{
		Use:           "kinship",
		Short:         "Publish to and tail AWS Kinesis streams",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.kinship/config.toml),
			// then env, then flag overrides via the changed map.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			return cfg.Validate()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (default $HOME/.kinship/config.toml)")
	pf.StringVar(&cfg.Stream, "stream", cfg.Stream, "stream name or ARN")
	pf.StringVar(&cfg.Region, "region", cfg.Region, "AWS region override")
	pf.StringVar(&cfg.RoleARN, "role-arn", cfg.RoleARN, "ARN of a role to assume")
	pf.StringVar(&cfg.RoleName, "role-name", cfg.RoleName, "name of a role to assume")
	pf.StringVar(&cfg.Account, "account", cfg.Account, "account ID qualifying --role-name")

	root.AddCommand(newPutCmd(&cfg, zlog.With().Str("cmd", "put").Logger()))
	root.AddCommand(newTailCmd(&cfg, zlog.With().Str("cmd", "tail").Logger()))

	return root
}

func newKinesisClient(ctx context.Context, cfg *cliconfig.Config, logger log.Logger) (awsx.API, error) {
	return awsx.NewClient(ctx, awsx.ClientOptions{
		Region:   cfg.Region,
		RoleARN:  cfg.RoleARN,
		RoleName: cfg.RoleName,
		Account:  cfg.Account,
		Logger:   logger,
	})
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
