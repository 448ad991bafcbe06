package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/orange-catalog/internal/catalog"
	"github.com/IshaanNene/orange-catalog/internal/classify"
	"github.com/IshaanNene/orange-catalog/internal/config"
	"github.com/IshaanNene/orange-catalog/internal/consolidate"
	"github.com/IshaanNene/orange-catalog/internal/extract"
	"github.com/IshaanNene/orange-catalog/internal/images"
	"github.com/IshaanNene/orange-catalog/internal/search"
	"github.com/IshaanNene/orange-catalog/internal/store"
	"github.com/IshaanNene/orange-catalog/internal/validate"
)

var (
	cfgFile   string
	verbose   bool
	baseDir   string
	outputDir string
	limit     int
	apply     bool
	category  string
	topN      int
	workers   int
	compact   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "catalogctl",
		Short: "catalogctl — retail catalog pipeline",
		Long: `catalogctl maintains a JSON product catalog built from saved page archives.

Commands:
  • extract      — pull product records out of saved HTML pages
  • consolidate  — dedupe, reclassify, collapse parents, rebuild aggregates
  • reindex      — rebuild the root category index only
  • validate     — read-only integrity check with catalog statistics
  • images       — generate sized product image variants
  • search       — build the client search index`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&baseDir, "data", "", "catalog data directory (overrides store.base_dir)")

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(consolidateCmd())
	rootCmd.AddCommand(reindexCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(imagesCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig assembles the effective config for a run.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openStore creates the configured store backend.
func openStore(cfg *config.Config, logger *slog.Logger) (store.Store, func(), error) {
	switch cfg.Store.Type {
	case "mongo":
		ms, err := store.NewMongoStore(cfg.Store.MongoURI, cfg.Store.MongoDatabase, cfg.Store.MongoCollection, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open mongo store: %w", err)
		}
		return ms, func() { _ = ms.Close() }, nil
	default:
		fs, err := store.NewFSStore(cfg.Store.BaseDir, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open fs store: %w", err)
		}
		return fs, func() {}, nil
	}
}

// extractCmd creates the "extract" subcommand.
func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [pages-dir]",
		Short: "Extract product records from saved pages",
		Long:  "Scan saved page archives, extract product records, classify them, and merge them into the catalog store.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExtract,
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum pages to process (0 = all)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "catalog output directory (overrides store.base_dir)")
	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Extract.PagesDir = args[0]
	}

	st, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	dirs, err := extract.ListPages(cfg.Extract.PagesDir)
	if err != nil {
		return fmt.Errorf("list pages: %w", err)
	}
	if cfg.Extract.Limit > 0 && len(dirs) > cfg.Extract.Limit {
		dirs = dirs[:cfg.Extract.Limit]
	}
	logger.Info("starting extraction", "pages", len(dirs), "store", st.Name())

	extractor := extract.New(logger)
	classifier := classify.New(logger)

	var pagesFailed, extracted, merged int
	for _, dir := range dirs {
		pg, err := extract.LoadPage(dir)
		if err != nil {
			logger.Warn("page skipped", "dir", dir, "error", err)
			pagesFailed++
			continue
		}
		products, err := extractor.ExtractPage(pg)
		if err != nil {
			logger.Warn("extraction failed", "dir", dir, "error", err)
			pagesFailed++
			continue
		}
		extracted += len(products)

		for _, p := range products {
			categoryPath, sub := classifier.Classify(p.Title, p.Brand)
			p.Subcategory = sub
			p.FilterAttributes = classify.DeriveFilterAttributes(p.Title, categoryPath)
			if err := mergeProduct(st, categoryPath, p); err != nil {
				logger.Warn("merge failed", "productId", p.ProductID, "error", err)
				continue
			}
			if fs, ok := st.(*store.FSStore); ok {
				if err := fs.SaveProductDetails(p); err != nil {
					logger.Warn("detail write failed", "productId", p.ProductID, "error", err)
				}
			}
			merged++
		}
	}

	fmt.Printf("\n✅ Extraction complete\n")
	fmt.Printf("   Pages:     %d processed, %d failed\n", len(dirs)-pagesFailed, pagesFailed)
	fmt.Printf("   Products:  %d extracted, %d merged\n", extracted, merged)
	return nil
}

// mergeProduct inserts one product into its category file, keeping the
// richer record when the id already exists there.
func mergeProduct(st store.Store, categoryPath string, p *catalog.Product) error {
	cf, err := st.Get(categoryPath)
	if err != nil {
		cf = catalog.NewCategoryFile(categoryPath, time.Now())
	}

	replaced := false
	for i, existing := range cf.Products {
		if existing.ProductID != p.ProductID {
			continue
		}
		if catalog.Richer(p, existing) {
			cf.Products[i] = p
		}
		replaced = true
		break
	}
	if !replaced {
		cf.Products = append(cf.Products, p)
	}

	return st.Put(categoryPath, cf)
}

// rebuildIndex recomputes the root index from leaf category counts.
func rebuildIndex(st store.Store) (*catalog.Index, error) {
	paths, err := st.List()
	if err != nil {
		return nil, err
	}

	hasChildren := make(map[string]bool)
	for _, path := range paths {
		if parent := catalog.ParentPath(path); parent != "" {
			hasChildren[parent] = true
		}
	}

	leafCounts := make(map[string]int)
	for _, path := range paths {
		if hasChildren[path] {
			continue
		}
		cf, err := st.Get(path)
		if err != nil {
			continue
		}
		leafCounts[path] = len(cf.Products)
	}

	return catalog.BuildIndex(leafCounts, time.Now()), nil
}

// consolidateCmd creates the "consolidate" subcommand.
func consolidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consolidate",
		Short: "Run the catalog maintenance pass",
		Long:  "Deduplicate products, move misfiled ones, collapse parents into metadata-only branches, regenerate aggregates, and rebuild the root index. Dry run by default.",
		RunE:  runConsolidate,
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "write changes (default is a dry run)")
	cmd.Flags().StringVar(&category, "category", "", "restrict the pass to one top-level category")
	return cmd
}

func runConsolidate(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	c := consolidate.New(st, classify.New(logger), logger)
	report, err := c.Run(consolidate.Options{Apply: apply, Category: category})
	if err != nil {
		return err
	}

	mode := "DRY RUN"
	if report.Applied {
		mode = "APPLIED"
	}
	fmt.Printf("\n✅ Consolidation complete (%s)\n", mode)
	fmt.Printf("   Categories:  %d scanned\n", report.CategoriesScanned)
	fmt.Printf("   Products:    %d before, %d after\n", report.ProductsBefore, report.ProductsAfter)
	fmt.Printf("   Duplicates:  %d removed\n", len(report.DuplicatesRemoved))
	fmt.Printf("   Relocations: %d\n", len(report.Relocations))
	fmt.Printf("   Aggregates:  %d written\n", len(report.AggregatesWritten))
	for _, r := range report.Relocations {
		fmt.Printf("     %s: %s -> %s (%s)\n", r.ProductID, r.From, r.To, r.Reason)
	}
	if !report.Applied {
		fmt.Println("\n💡 This was a dry run. Re-run with --apply to write changes.")
	}
	return nil
}

// reindexCmd creates the "reindex" subcommand.
func reindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the root category index",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, closeStore, err := openStore(cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			index, err := rebuildIndex(st)
			if err != nil {
				return err
			}

			iw, ok := st.(consolidate.IndexWriter)
			if !ok {
				return fmt.Errorf("store %q cannot persist the root index", st.Name())
			}
			if err := iw.SaveIndex(index); err != nil {
				return fmt.Errorf("save index: %w", err)
			}

			fmt.Printf("✅ Index rebuilt: %d categories, %d products\n",
				len(index.Categories), index.TotalProducts)
			return nil
		},
	}
}

// validateCmd creates the "validate" subcommand.
func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check catalog integrity",
		Long:  "Read-only pass over the catalog: required fields, shape rules, per-product detail files, plus summary statistics.",
		RunE:  runValidate,
	}

	cmd.Flags().IntVarP(&topN, "top", "t", 10, "size of the brand/category leaderboards")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	res, err := validate.New(st, logger).Run(topN)
	if err != nil {
		return err
	}

	fmt.Printf("\nCatalog statistics:\n")
	fmt.Printf("  Categories:      %d\n", res.Stats.Categories)
	fmt.Printf("  Products:        %d\n", res.Stats.Products)
	fmt.Printf("  Detail files:    %d\n", res.Stats.ProductDetails)
	fmt.Printf("  Unique brands:   %d\n", res.Stats.UniqueBrands)
	fmt.Printf("  Filters defined: %d\n", res.Stats.FiltersDefined)

	fmt.Printf("\nTop brands:\n")
	for _, b := range res.Stats.TopBrands {
		fmt.Printf("  %-24s %d\n", b.Brand, b.Count)
	}
	fmt.Printf("\nTop categories:\n")
	for _, c := range res.Stats.TopCategories {
		fmt.Printf("  %-40s %d\n", c.Category, c.Count)
	}

	if !res.OK() {
		fmt.Printf("\n❌ %d issue(s) found:\n", len(res.Issues))
		for _, issue := range res.Issues {
			fmt.Printf("   %s: %s\n", issue.Path, issue.Problem)
		}
		return fmt.Errorf("validation found %d issue(s)", len(res.Issues))
	}

	fmt.Println("\n✅ Catalog is valid")
	return nil
}

// imagesCmd creates the "images" subcommand.
func imagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Generate sized product image variants",
		RunE:  runImages,
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "worker pool size (0 = min(8, cores))")
	return cmd
}

func runImages(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if workers > 0 {
		cfg.Images.Workers = workers
	}

	fs, err := store.NewFSStore(cfg.Store.BaseDir, logger)
	if err != nil {
		return fmt.Errorf("open fs store: %w", err)
	}

	dirs, err := fs.ProductDirs()
	if err != nil {
		return fmt.Errorf("list product dirs: %w", err)
	}

	g := images.NewGenerator(cfg.Images.Workers, logger)
	manifest := g.Run(dirs)

	manifestPath := filepath.Join(fs.Base(), "products", "image-variants.json")
	if err := images.WriteManifest(manifestPath, manifest); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	fmt.Printf("\n✅ Variant generation complete\n")
	fmt.Printf("   Products:  %d\n", manifest.Products)
	fmt.Printf("   Created:   %d\n", manifest.VariantsCreated)
	fmt.Printf("   Skipped:   %d (already present)\n", manifest.Skipped)
	fmt.Printf("   Failures:  %d\n", len(manifest.Failures))
	for _, f := range manifest.Failures {
		fmt.Printf("     %s: %s\n", f.ProductID, f.Error)
	}
	return nil
}

// searchCmd creates the "search" subcommand.
func searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Build the search index, optionally querying it",
		Long:  "Build search-index.json from the catalog. With a query argument, run it against the fresh index and print matches instead of writing files.",
		RunE:  runSearch,
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "also write the compact index variant")
	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	idx, err := search.Build(st, logger)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		query := strings.Join(args, " ")
		matches := idx.Query(query)
		fmt.Printf("%d match(es) for %q:\n", len(matches), query)
		for _, e := range matches {
			fmt.Printf("  %s  %-60s %s\n", e.ProductID, e.Title, e.Category)
		}
		return nil
	}

	indexPath := filepath.Join(cfg.Store.BaseDir, "search-index.json")
	if err := search.Write(indexPath, idx); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	written := []string{indexPath}

	if compact {
		compactPath := filepath.Join(cfg.Store.BaseDir, "search-index-compact.json")
		if err := search.Write(compactPath, idx.Compact()); err != nil {
			return fmt.Errorf("write compact index: %w", err)
		}
		written = append(written, compactPath)
	}

	fmt.Printf("✅ Search index built: %d products, %d keywords\n",
		idx.TotalProducts, len(idx.Keywords))
	for _, p := range written {
		fmt.Printf("   %s\n", p)
	}
	return nil
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("catalogctl %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Printf("Store:\n")
			fmt.Printf("  Type:       %s\n", cfg.Store.Type)
			fmt.Printf("  Base Dir:   %s\n", cfg.Store.BaseDir)
			if cfg.Store.Type == "mongo" {
				fmt.Printf("  Mongo URI:  %s\n", cfg.Store.MongoURI)
				fmt.Printf("  Database:   %s/%s\n", cfg.Store.MongoDatabase, cfg.Store.MongoCollection)
			}
			fmt.Printf("\nExtract:\n")
			fmt.Printf("  Pages Dir:  %s\n", cfg.Extract.PagesDir)
			fmt.Printf("  Limit:      %d\n", cfg.Extract.Limit)
			fmt.Printf("\nImages:\n")
			fmt.Printf("  Workers:    %d\n", cfg.Images.Workers)
			fmt.Printf("\nLogging:\n")
			fmt.Printf("  Level:      %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:     %s\n", cfg.Logging.Format)
			return nil
		},
	}
}

// setupLogger creates a structured logger.
func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	return slog.New(handler)
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if baseDir != "" {
		cfg.Store.BaseDir = baseDir
	}
	if outputDir != "" {
		cfg.Store.BaseDir = outputDir
	}
	if limit > 0 {
		cfg.Extract.Limit = limit
	}
}
