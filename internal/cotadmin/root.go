// Package cotadmin implements the administrative command line: it signs in
// as an admin member and lists members, changes verification status or
// publishes a member's card.
package cotadmin

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/entrust/internal/client/client"
	"github.com/dmitrijs2005/entrust/internal/logging"
	domain "github.com/dmitrijs2005/entrust/internal/members"
	"github.com/spf13/cobra"
)

const (
	programName = "cotadmin"

	// PasswordEnv is read when --password is not given.
	PasswordEnv = "COT_ADMIN_PASSWORD"
)

type adminAPI interface {
	Login(ctx context.Context, identifier, password string) (*domain.Member, error)
	ListMembers(ctx context.Context) ([]*domain.Member, error)
	SetStatus(ctx context.Context, id string, status domain.Status) (*domain.Member, error)
	PublishCard(ctx context.Context, id string) (*client.Publication, error)
}

// newAPI is a test seam.
var newAPI = func(baseURL string) adminAPI {
	return client.NewHTTPClient(baseURL, nil)
}

// newLogger is a test seam.
var newLogger = func(debug bool) (logging.Logger, func(), error) {
	z, err := logging.NewConsoleZapLogger(debug)
	if err != nil {
		return nil, nil, err
	}
	return z, func() { _ = z.Sync() }, nil
}

type globalFlags struct {
	server   string
	id       string
	password string
	debug    bool
}

type admin struct {
	flags  globalFlags
	logger logging.Logger
	sync   func()
	api    adminAPI
}

// signIn authenticates with the global credentials. Only admins may proceed.
func (a *admin) signIn(ctx context.Context) error {
	pw := a.flags.password
	if pw == "" {
		pw = os.Getenv(PasswordEnv)
	}
	if a.flags.id == "" || pw == "" {
		return fmt.Errorf("admin id and password are required (--id, --password or %s)", PasswordEnv)
	}

	m, err := a.api.Login(ctx, a.flags.id, pw)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	if !m.IsAdmin() {
		return errors.New("sign in: account is not an admin")
	}
	a.logger.Debug(ctx, "signed in", "id", m.ID)
	return nil
}

// NewRootCommand builds the cotadmin command tree.
func NewRootCommand() *cobra.Command {
	a := &admin{}

	root := &cobra.Command{
		Use:           programName,
		Short:         "Administer City of Truth Ministries members",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, sync, err := newLogger(a.flags.debug)
			if err != nil {
				return err
			}
			a.logger, a.sync = logger, sync
			a.api = newAPI(a.flags.server)
			return a.signIn(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.sync != nil {
				a.sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.flags.server, "server", "a", "http://127.0.0.1:8080", "server base URL")
	root.PersistentFlags().StringVarP(&a.flags.id, "id", "u", "COT-1000", "admin member ID")
	root.PersistentFlags().StringVarP(&a.flags.password, "password", "p", "", "admin password (default $"+PasswordEnv+")")
	root.PersistentFlags().BoolVarP(&a.flags.debug, "debug", "D", false, "enable debug logging")

	root.AddCommand(listCommand(a))
	root.AddCommand(statusCommand(a))
	root.AddCommand(publishCommand(a))
	return root
}
