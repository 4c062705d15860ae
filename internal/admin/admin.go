// Package admin implements the linkgate maintenance CLI: schema migrations,
// account bootstrap and unlock code generation.
package admin

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dmitrijs2005/linkgate/internal/common"
	"github.com/dmitrijs2005/linkgate/internal/server/config"
	"github.com/dmitrijs2005/linkgate/internal/server/platform"
	"github.com/dmitrijs2005/linkgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/linkgate/internal/server/services"
)

// Test seams.
var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}
	newRepoManager = repomanager.NewPostgresRepositoryManager
	// readPassword is a test seam for term.ReadPassword.
	readPassword = term.ReadPassword
	stdinFd      = func() int { return int(os.Stdin.Fd()) }
)

// RootCommand builds the CLI around cfg. Output goes to the command's
// configured writer.
func RootCommand(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "linkgate-admin",
		Short:         "Maintenance tasks for a linkgate deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfg.DatabaseDSN, "dsn", "d", cfg.DatabaseDSN, "database DSN")

	root.AddCommand(
		migrateCommand(cfg),
		createUserCommand(cfg),
		genCodeCommand(),
		platformsCommand(),
	)
	return root
}

func withDB(ctx context.Context, dsn string, fn func(db *sql.DB) error) error {
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping error: %w", err)
	}
	return fn(db)
}

func migrateCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), cfg.DatabaseDSN, func(db *sql.DB) error {
				if err := newRepoManager().RunMigrations(cmd.Context(), db); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
}

// getPassword prompts on w and reads a password without echo. With
// fromStdin the first line of in is used instead, for scripted setups.
func getPassword(w io.Writer, in io.Reader, fromStdin bool) ([]byte, error) {
	if fromStdin {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return nil, err
		}
		return []byte(strings.TrimRight(line, "\r\n")), nil
	}

	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(stdinFd())
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

func createUserCommand(cfg *config.Config) *cobra.Command {
	var username, email string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := getPassword(cmd.ErrOrStderr(), cmd.InOrStdin(), passwordStdin)
			if err != nil {
				return fmt.Errorf("error reading password: %w", err)
			}
			defer common.WipeByteArray(pw)

			return withDB(cmd.Context(), cfg.DatabaseDSN, func(db *sql.DB) error {
				us := services.NewUserService(db, newRepoManager(), cfg)
				u, err := us.Register(cmd.Context(), username, email, string(pw))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s)\n", u.ID, u.Username)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func genCodeCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "gen-code",
		Short: "Print random unlock codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("count must be positive, got %d", count)
			}
			for range count {
				code, err := common.NewUnlockCode()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), code)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of codes")
	return cmd
}

func platformsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List the platforms connections are classified into",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range platform.Platforms() {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
		},
	}
}
