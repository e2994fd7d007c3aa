// Package cmd wires the Kong CLI to the catalog components.
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/lepinkainen/literalura/internal/cache"
	"github.com/lepinkainen/literalura/internal/catalog"
	"github.com/lepinkainen/literalura/internal/config"
	lerrors "github.com/lepinkainen/literalura/internal/errors"
	"github.com/lepinkainen/literalura/internal/gutendex"
	"github.com/lepinkainen/literalura/internal/ingest"
	"github.com/lepinkainen/literalura/internal/tui"
	"github.com/spf13/viper"
)

// CLI represents the complete command structure for the literalura application
type CLI struct {
	// Global flags
	DBFile string `help:"Path to catalog SQLite database file" default:"./literalura.db"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 720h for 30 days)" default:"720h"`
	NoCache     bool   `help:"Bypass the search response cache"`

	Search  SearchCmd  `cmd:"" help:"Search the book catalog and save a pick"`
	Books   BooksCmd   `cmd:"" help:"List saved books"`
	Authors AuthorsCmd `cmd:"" help:"List saved authors"`
}

// SearchCmd represents the search command
type SearchCmd struct {
	Term string `arg:"" optional:"" help:"Search term (title or author); prompted for when omitted"`
}

// BooksCmd represents the books listing command
type BooksCmd struct {
	Language string `short:"l" help:"Only books available in this 2-letter language code"`
}

// AuthorsCmd represents the authors listing command
type AuthorsCmd struct {
	AliveIn string `help:"Only authors alive in this year"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	// Create CLI instance
	var cli CLI

	// Parse command line with Kong
	ctx := kong.Parse(&cli,
		kong.Name("literalura"),
		kong.Description("A personal book catalog built from Gutendex searches."),
		kong.UsageOnError(),
	)

	// Update global config based on parsed flags
	updateGlobalConfig(&cli)

	// Execute the selected command
	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("database.file", "./literalura.db")
	viper.SetDefault("gutendex.baseurl", "https://gutendex.com")
	viper.SetDefault("gutendex.timeout", "10s")

	// Cache defaults
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "720h") // 30 days

	// Enable environment variable support
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("Config file not found, writing default config file...")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Error("Error writing config file", "error", err)
			}
			os.Exit(0)
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	// Initialize global config
	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	// Update config based on CLI flags
	config.SetDatabaseFile(cli.DBFile)
	viper.Set("database.file", cli.DBFile)

	// Update cache config
	viper.Set("cache.enabled", !cli.NoCache)
	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.ttl", cli.CacheTTL)
}

// Run methods for each command

func (s *SearchCmd) Run() error {
	term := s.Term
	if term == "" {
		fmt.Print("Enter a book title or author: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read search term: %w", err)
		}
		term = strings.TrimSpace(line)
	}
	if term == "" {
		return fmt.Errorf("search term is required")
	}

	store, err := catalog.Open(config.DatabaseFile)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var cacheDB *cache.DB
	if viper.GetBool("cache.enabled") {
		cacheDB, err = cache.Open(viper.GetString("cache.dbfile"))
		if err != nil {
			slog.Warn("Failed to open cache, fetching directly", "error", err)
			cacheDB = nil
		} else {
			defer func() { _ = cacheDB.Close() }()
		}
	}

	client := gutendex.NewClient(config.GutendexBaseURL, config.GutendexTimeout)
	service := ingest.NewService(client, store, tui.Selector{}, cacheDB)

	saved, err := service.Run(context.Background(), term)
	if lerrors.IsStopProcessingError(err) {
		slog.Info("Search stopped")
		return nil
	}
	if err != nil {
		return err
	}

	if saved == nil {
		fmt.Println("Nothing saved.")
		return nil
	}
	fmt.Print(saved.String())
	return nil
}

func (b *BooksCmd) Run() error {
	store, err := catalog.Open(config.DatabaseFile)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var books []catalog.Book
	if b.Language != "" {
		books, err = store.BooksByLanguage(strings.ToLower(b.Language))
	} else {
		books, err = store.AllBooks()
	}
	if err != nil {
		return err
	}

	if len(books) == 0 {
		fmt.Println("No books found.")
		return nil
	}
	for _, book := range books {
		fmt.Print(book.String())
	}
	return nil
}

func (a *AuthorsCmd) Run() error {
	store, err := catalog.Open(config.DatabaseFile)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var persons []catalog.Person
	if a.AliveIn != "" {
		year, convErr := strconv.Atoi(a.AliveIn)
		if convErr != nil {
			return fmt.Errorf("invalid year %q: %w", a.AliveIn, convErr)
		}
		persons, err = store.PersonsAliveInYear(year)
	} else {
		persons, err = store.AllPersons()
	}
	if err != nil {
		return err
	}

	if len(persons) == 0 {
		fmt.Println("No authors found.")
		return nil
	}
	for _, person := range persons {
		fmt.Print(person.String())
	}
	return nil
}

func initLogging() {
	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: slog.LevelInfo,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}
