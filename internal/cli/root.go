package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"storefront_service/config"
	"storefront_service/internal/clients/storefront"
	"storefront_service/internal/console"
	"storefront_service/internal/domain"
	"storefront_service/internal/notify"
	"storefront_service/pkg/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// API is what catalogctl needs from the storefront service.
type API interface {
	console.CatalogAPI
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	ListPurchases(ctx context.Context, status string) ([]domain.Purchase, error)
	SetToken(token string)
}

var version = "dev"

type app struct {
	server    string
	token     string
	tokenFile string
	logLevel  string
	grpcAddr  string

	cfg       *config.CLIConfig
	log       *logrus.Logger
	api       API
	newAPI    func(a *app) API
	newReader func(a *app) (CatalogReader, error)
}

func defaultAPI(a *app) API {
	return storefront.NewClient(a.server, a.cfg.Timeout, a.log)
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{newAPI: defaultAPI, newReader: defaultReader})
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "Admin console for the storefront catalog",
		Long: `catalogctl manages the storefront catalog: categories, products,
product images and seed fixtures. It talks to the storefront HTTP API with the
token saved by "catalogctl login".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.server, "server", "", "storefront base URL (default $STOREFRONT_URL)")
	root.PersistentFlags().StringVar(&a.token, "token", "", "session token (default $STOREFRONT_TOKEN or the saved token)")
	root.PersistentFlags().StringVar(&a.tokenFile, "token-file", "", "where login saves the token")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (default $LOG_LEVEL or warn)")
	root.PersistentFlags().StringVar(&a.grpcAddr, "grpc", "", "read categories and products from this gRPC address (default $STOREFRONT_GRPC)")

	root.AddCommand(
		newLoginCmd(a),
		newCategoriesCmd(a),
		newProductsCmd(a),
		newCategoryCmd(a),
		newProductCmd(a),
		newUploadCmd(a),
		newSeedCmd(a),
		newPurchasesCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "catalogctl %s\n", version)
			},
		},
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadCLIConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg
	if a.server == "" {
		a.server = cfg.ServerURL
	}
	if a.tokenFile == "" {
		a.tokenFile = cfg.TokenFile
	}
	if a.logLevel == "" {
		a.logLevel = cfg.LogLevel
	}
	if a.grpcAddr == "" {
		a.grpcAddr = cfg.GrpcAddr
	}
	a.log = logger.New(logger.Options{Level: a.logLevel, Out: cmd.ErrOrStderr()})

	a.api = a.newAPI(a)
	if token := a.resolveToken(); token != "" {
		a.api.SetToken(token)
	}
	return nil
}

func (a *app) resolveToken() string {
	if a.token != "" {
		return a.token
	}
	if a.cfg.Token != "" {
		return a.cfg.Token
	}
	if a.tokenFile == "" {
		return ""
	}
	raw, err := os.ReadFile(a.tokenFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			a.log.Warnf("Could not read token file %s: %v", a.tokenFile, err)
		}
		return ""
	}
	return strings.TrimSpace(string(raw))
}

func (a *app) saveToken(token string) error {
	if a.tokenFile == "" {
		return errors.New("no token file configured")
	}
	if err := os.MkdirAll(filepath.Dir(a.tokenFile), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(a.tokenFile, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// console builds an admin console whose notifications are printed to out.
func (a *app) console(out io.Writer) *console.AdminConsole {
	reporter := notify.NewLogReporter(a.log, func(n notify.Notification) {
		fmt.Fprintf(out, "%s: %s\n", n.Title, n.Description)
	})
	return console.NewAdminConsole(a.api, reporter, a.log)
}

func SetVersion(v string) {
	version = v
}

func Execute() error {
	return NewRootCommand().Execute()
}
