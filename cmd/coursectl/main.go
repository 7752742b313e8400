package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/coursesearch/internal/config"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/match"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/mode"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/query"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/request"
	"github.com/kailas-cloud/coursesearch/internal/domain/vocab"
	logpkg "github.com/kailas-cloud/coursesearch/internal/logger"
	catalogrepo "github.com/kailas-cloud/coursesearch/internal/repository/catalog"
	"github.com/kailas-cloud/coursesearch/internal/repository/catalog/store"
	mcpTransport "github.com/kailas-cloud/coursesearch/internal/transport/mcp"
	cataloguc "github.com/kailas-cloud/coursesearch/internal/usecase/catalog"
	searchuc "github.com/kailas-cloud/coursesearch/internal/usecase/search"
	"github.com/kailas-cloud/coursesearch/internal/version"
)

const defaultCatalog = "file:data/courses.yaml"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	catalogFlag := &cli.StringFlag{
		Name:    "catalog",
		Aliases: []string{"c"},
		Usage:   "Catalog store as driver:target (file, sqlite, postgres, redis, valkey, badger)",
		Value:   defaultCatalog,
		EnvVars: []string{"COURSESEARCH_CATALOG"},
	}

	return &cli.App{
		Name:    "coursectl",
		Usage:   "Search and manage the course catalog",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:  "vocabulary",
				Usage: "YAML file overriding the built-in stopwords, hub units and codes",
			},
			&cli.StringFlag{
				Name:  "singularizer",
				Usage: "Plural folding for keywords: trailing_s or snowball",
				Value: query.SingularizerTrailingS,
			},
			&cli.StringFlag{
				Name:  "keyword-match",
				Usage: "Keyword matching: token or substring",
				Value: string(match.Token),
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "normalize",
				Usage:     "Print the keyword form of a free-text query",
				ArgsUsage: "<text>",
				Action:    normalizeCommand,
			},
			{
				Name:      "search",
				Usage:     "Search the catalog",
				ArgsUsage: "[query]",
				Action:    searchCommand,
				Flags: []cli.Flag{
					catalogFlag,
					&cli.StringFlag{Name: "codes", Usage: "Comma-separated subject codes"},
					&cli.StringFlag{Name: "hub-units", Usage: "Comma-separated hub units"},
					&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: "broad or honed", Value: string(mode.Default)},
				},
			},
			{
				Name:   "import",
				Usage:  "Validate a catalog and copy it into another store",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "Source store as driver:target", Required: true},
					&cli.StringFlag{Name: "to", Usage: "Destination store as driver:target", Required: true},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve search tools over the Model Context Protocol on stdio",
				Action: mcpCommand,
				Flags:  []cli.Flag{catalogFlag},
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	logger, err := logpkg.NewLogger(config.GetEnv(), c.String("log-level"))
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	c.Context = logpkg.ContextWithLogger(c.Context, logger)
	return nil
}

func loggerFrom(c *cli.Context) *zap.Logger {
	return logpkg.FromContext(c.Context)
}

func loadVocabulary(c *cli.Context) (vocab.Vocabulary, error) {
	v, err := config.LoadVocabulary(c.String("vocabulary"))
	if err != nil {
		return vocab.Vocabulary{}, err //nolint:wrapcheck // names the file
	}
	return v, nil
}

func matchingConfig(c *cli.Context) config.MatchingConfig {
	return config.MatchingConfig{
		HonedThresholdPercent: match.DefaultThresholdPercent,
		KeywordMatch:          c.String("keyword-match"),
		Singularizer:          c.String("singularizer"),
	}
}

func newNormalizer(c *cli.Context, v vocab.Vocabulary) (*query.Normalizer, error) {
	opts, err := matchingConfig(c).NormalizerOptions()
	if err != nil {
		return nil, err //nolint:wrapcheck // reported to the user as-is
	}
	return query.NewNormalizer(v, opts...), nil
}

// openSearch loads the catalog named by --catalog and builds a search service over it.
func openSearch(c *cli.Context) (*searchuc.Service, func(), error) {
	v, err := loadVocabulary(c)
	if err != nil {
		return nil, nil, err
	}
	norm, err := newNormalizer(c, v)
	if err != nil {
		return nil, nil, err
	}
	policy, err := matchingConfig(c).Policy()
	if err != nil {
		return nil, nil, err //nolint:wrapcheck // reported to the user as-is
	}

	cfg, err := store.ParseTarget(c.String("catalog"))
	if err != nil {
		return nil, nil, fmt.Errorf("--catalog: %w", err)
	}
	s, err := store.Open(c.Context, cfg, loggerFrom(c))
	if err != nil {
		return nil, nil, err //nolint:wrapcheck // names the driver
	}

	cat := cataloguc.New(s, v, match.New(policy), loggerFrom(c))
	if _, err := cat.Refresh(c.Context); err != nil {
		s.Close()
		return nil, nil, err //nolint:wrapcheck // already wrapped by the catalog service
	}
	return searchuc.New(cat, norm, v), s.Close, nil
}

func normalizeCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("text to normalize is required")
	}
	v, err := loadVocabulary(c)
	if err != nil {
		return err
	}
	norm, err := newNormalizer(c, v)
	if err != nil {
		return err
	}

	kw := norm.Normalize(strings.Join(c.Args().Slice(), " "))
	_, err = fmt.Fprintln(c.App.Writer, kw.String())
	return err //nolint:wrapcheck // write to stdout
}

func searchCommand(c *cli.Context) error {
	m, err := mode.Parse(c.String("mode"))
	if err != nil {
		return fmt.Errorf("--mode: %w", err)
	}
	req, err := request.New(
		strings.Join(c.Args().Slice(), " "),
		request.SplitList(c.String("codes")),
		request.SplitList(c.String("hub-units")),
		m,
	)
	if err != nil {
		return err //nolint:wrapcheck // names the field
	}

	svc, closeFn, err := openSearch(c)
	if err != nil {
		return err
	}
	defer closeFn()

	resp, err := svc.Search(c.Context, &req)
	if err != nil {
		return err //nolint:wrapcheck // domain error is the message
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(catalogrepo.Rows(resp.Entries)) //nolint:wrapcheck // write to stdout
}

func importCommand(c *cli.Context) error {
	v, err := loadVocabulary(c)
	if err != nil {
		return err
	}
	fromCfg, err := store.ParseTarget(c.String("from"))
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	toCfg, err := store.ParseTarget(c.String("to"))
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}

	log := loggerFrom(c)
	src, err := store.Open(c.Context, fromCfg, log)
	if err != nil {
		return err //nolint:wrapcheck // names the driver
	}
	defer src.Close()
	dst, err := store.Open(c.Context, toCfg, log)
	if err != nil {
		return err //nolint:wrapcheck // names the driver
	}
	defer dst.Close()

	rep, err := cataloguc.Import(c.Context, src, dst, v, log)
	if err != nil {
		return err //nolint:wrapcheck // already wrapped by the catalog service
	}
	_, err = fmt.Fprintf(c.App.Writer, "imported %d courses into %s (%d skipped, %d trimmed)\n",
		rep.Loaded, dst.Driver(), rep.SkippedTotal(), rep.Trimmed)
	return err //nolint:wrapcheck // write to stdout
}

func mcpCommand(c *cli.Context) error {
	svc, closeFn, err := openSearch(c)
	if err != nil {
		return err
	}
	defer closeFn()

	return mcpTransport.NewServer(svc, loggerFrom(c)).Serve(c.Context) //nolint:wrapcheck // stdio transport error
}
