// Command expensetracker is the operator tool for the expense tracker store:
// it applies migrations, registers users and prints what a user has recorded.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"expensetracker/internal/auth"
	"expensetracker/internal/config"
	"expensetracker/internal/database"
	"expensetracker/internal/logger"
	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
)

const usage = `Usage: expensetracker <command> [flags]

Commands:
  migrate <up|down|version> [N]   manage the schema
  adduser -user NAME              register a user
  categories -user NAME           list the categories a user can file under
  addexpense -user NAME -amount X -category NAME [-date YYYY-MM-DD]
                                  record an expense
  summary -user NAME              print a user's total and latest expenses

Every command accepts -db PATH to override DB_URL.`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		fmt.Fprintln(stdout, usage)
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Env)
	defer logger.Sync()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "migrate":
		return runMigrate(cfg, rest, stdout, stderr)
	case "adduser":
		return runAddUser(ctx, cfg, rest, stdin, stdout, stderr)
	case "categories":
		return runCategories(ctx, cfg, rest, stdin, stdout, stderr)
	case "addexpense":
		return runAddExpense(ctx, cfg, rest, stdin, stdout, stderr)
	case "summary":
		return runSummary(ctx, cfg, rest, stdin, stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprintln(stdout, usage)
		return nil
	default:
		fmt.Fprintln(stdout, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// newFlagSet creates a flag set carrying the -db override shared by every command.
func newFlagSet(name string, cfg *config.Config, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.DB.URL, "db", cfg.DB.URL, "Path to database file")
	return fs
}

func runMigrate(cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("migrate", cfg, stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: migrate <up|down|version> [N]")
	}

	mg, err := database.NewMigrator(&cfg.DB)
	if err != nil {
		return err
	}
	defer func() {
		if err := mg.Close(); err != nil {
			logger.Get().Warnf("%v", err)
		}
	}()

	switch fs.Arg(0) {
	case "up":
		if err := mg.Up(); err != nil {
			return err
		}
		logger.Get().Info("Migrations applied successfully")
		fmt.Fprintln(stdout, "Migrations applied")

	case "down":
		steps := 1
		if fs.NArg() > 1 {
			steps, err = strconv.Atoi(fs.Arg(1))
			if err != nil {
				return fmt.Errorf("invalid step count: %w", err)
			}
		}
		if err := mg.Down(steps); err != nil {
			return err
		}
		logger.Get().Infof("Rolled back %d migration(s)", steps)
		fmt.Fprintf(stdout, "Rolled back %d migration(s)\n", steps)

	case "version":
		version, dirty, err := mg.Version()
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Version: %d, Dirty: %v\n", version, dirty)

	default:
		return fmt.Errorf("unknown migrate command %q (use up, down, or version)", fs.Arg(0))
	}
	return nil
}

func runAddUser(ctx context.Context, cfg *config.Config, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("adduser", cfg, stderr)
	username := fs.String("user", "", "Username")
	email := fs.String("email", "", "Email address (optional)")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" {
		fmt.Fprintln(stdout, "Usage: adduser -user <username> [-email <email>] [-password <password>] [-db <db_path>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: user")
	}

	password, err := passwordOrPrompt(*passwordFlag, stdin, stdout)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	user, err := a.auth.Register(ctx, *username, password, *email)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %d\n", user.Username, user.ID)
	return nil
}

// login parses -user and -password, logs the user in and returns the
// wired app with the session.
func login(ctx context.Context, cfg *config.Config, fs *flag.FlagSet, args []string, stdin io.Reader, stdout io.Writer) (*app, *auth.Session, error) {
	username := fs.String("user", "", "Username")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if *username == "" {
		fs.PrintDefaults()
		return nil, nil, fmt.Errorf("missing required flags: user")
	}

	password, err := passwordOrPrompt(*passwordFlag, stdin, stdout)
	if err != nil {
		return nil, nil, err
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	sess, err := a.auth.Login(ctx, *username, password)
	if err != nil {
		a.Close()
		return nil, nil, err
	}
	return a, sess, nil
}

func runCategories(ctx context.Context, cfg *config.Config, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("categories", cfg, stderr)
	a, sess, err := login(ctx, cfg, fs, args, stdin, stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	ownerID, err := auth.OwnerID(sess)
	if err != nil {
		return err
	}

	categories, err := a.categories.GetAvailableCategories(ctx, ownerID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSCOPE\tDESCRIPTION")
	for _, c := range categories {
		scope := "own"
		if c.IsDefault() {
			scope = "default"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.Name, scope, c.Description)
	}
	return w.Flush()
}

func runAddExpense(ctx context.Context, cfg *config.Config, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("addexpense", cfg, stderr)
	amount := fs.Float64("amount", 0, "Amount spent")
	categoryName := fs.String("category", "", "Category name (own or default)")
	dateFlag := fs.String("date", "", "Date spent, YYYY-MM-DD (default today)")
	description := fs.String("description", "", "Description")

	a, sess, err := login(ctx, cfg, fs, args, stdin, stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	ownerID, err := auth.OwnerID(sess)
	if err != nil {
		return err
	}

	date := time.Now()
	if *dateFlag != "" {
		date, err = time.ParseInLocation(time.DateOnly, *dateFlag, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date: %w", err)
		}
	}

	category, err := a.categories.GetCategoryByName(ctx, *categoryName, ownerID)
	if err != nil {
		category, err = a.categories.GetCategoryByName(ctx, *categoryName, 0)
		if err != nil {
			return fmt.Errorf("unknown category %q", *categoryName)
		}
	}

	expense, err := a.expenses.CreateExpense(ctx, &models.Expense{
		Description: *description,
		Amount:      *amount,
		Date:        date,
		CategoryID:  category.ID,
		UserID:      ownerID,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Expense %d recorded: %.2f in %s on %s\n",
		expense.ID, expense.Amount, category.Name, expense.Date.Format(time.DateOnly))
	return nil
}

func runSummary(ctx context.Context, cfg *config.Config, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("summary", cfg, stderr)
	page := fs.Int("page", 1, "Page of expenses to list")
	pageSize := fs.Int("page-size", pagination.DefaultPageSize, "Expenses per page")

	a, sess, err := login(ctx, cfg, fs, args, stdin, stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	ownerID, err := auth.OwnerID(sess)
	if err != nil {
		return err
	}

	total, err := a.expenses.GetTotalExpensesByUser(ctx, ownerID)
	if err != nil {
		return err
	}
	expenses, err := a.expenses.GetUserExpensesPage(ctx, ownerID, pagination.PageRequest{Page: *page, PageSize: *pageSize})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Total spent by %s: %.2f across %d expense(s)\n", sess.User.Username, total, expenses.TotalItems)
	if len(expenses.Data) == 0 {
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tAMOUNT\tCATEGORY\tDESCRIPTION")
	for _, e := range expenses.Data {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%d\t%s\n", e.ID, e.Date.Format(time.DateOnly), e.Amount, e.CategoryID, e.Description)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Page %d of %d\n", expenses.Page, expenses.TotalPages)
	return nil
}

func passwordOrPrompt(password string, stdin io.Reader, stdout io.Writer) (string, error) {
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout) // Print newline after password input
	}

	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for non-terminal input such as pipes
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
