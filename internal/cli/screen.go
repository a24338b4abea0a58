package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var exportPrompt = promptui.Select{
	Label: "Export results to CSV?",
	Items: []string{PromptYes, PromptNo},
}

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Rank resumes from a directory or S3 prefix against a job description",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runScreen(ctx, cmd)
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().String("job", "", "file containing the job description")
	screenCmd.Flags().String("job-text", "", "job description text")
	screenCmd.Flags().String("dir", "", "directory with .pdf and .docx resumes")
	screenCmd.Flags().String("s3-bucket", "", "read resumes from this bucket instead of a directory")
	screenCmd.Flags().String("s3-prefix", "", "key prefix of the resumes in the bucket")
	screenCmd.Flags().StringP("output", "o", "", "write results to this CSV file")
	screenCmd.Flags().BoolP("yes", "y", false, "do not ask whether to export results")
	screenCmd.Flags().StringSlice("skills", nil, "skill vocabulary (default is the built-in list)")
	screenCmd.Flags().Int("max-pages", services.DefaultMaxPages, "pages read per resume")
	screenCmd.Flags().String("provider", "", "embedding provider: ollama or gemini")
	screenCmd.Flags().String("model", "", "embedding model")

	screenCmd.MarkFlagsMutuallyExclusive("job", "job-text")
	screenCmd.MarkFlagsMutuallyExclusive("dir", "s3-bucket")

	viper.BindPFlag("s3.bucket", screenCmd.Flags().Lookup("s3-bucket"))
	viper.BindPFlag("s3.prefix", screenCmd.Flags().Lookup("s3-prefix"))
	viper.BindPFlag("skills", screenCmd.Flags().Lookup("skills"))
	viper.BindPFlag("max-pages", screenCmd.Flags().Lookup("max-pages"))
	viper.BindPFlag("embedding.provider", screenCmd.Flags().Lookup("provider"))
	viper.BindPFlag("embedding.model", screenCmd.Flags().Lookup("model"))
}

func runScreen(ctx context.Context, cmd *cobra.Command) error {
	cfg, _ := config.Load()
	applyOverrides(cfg)

	zl, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer zl.Sync()

	jobDescription, err := loadJobDescription(cmd)
	if err != nil {
		return err
	}

	source, err := documentSource(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	docs, err := source.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading resumes: %w", err)
	}
	zl.Info("resumes loaded", zap.Int("count", len(docs)))
	for _, doc := range docs {
		if doc.Err != nil {
			zl.Warn("resume could not be read, scoring with fallback",
				zap.String("candidate", doc.Name),
				zap.Error(doc.Err),
			)
		}
	}

	screener, err := buildScreener(cfg, zl)
	if err != nil {
		return err
	}

	screening, err := screener.Screen(ctx, jobDescription, docs)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderResults(screening.Results))

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		skip, _ := cmd.Flags().GetBool("yes")
		if skip {
			return nil
		}
		if output, err = askExportPath(); err != nil {
			return err
		}
		if output == "" {
			return nil
		}
	}

	if err := writeResults(output, screening.Results); err != nil {
		return err
	}
	zl.Info("results exported", zap.String("filename", output))

	return nil
}

func loadJobDescription(cmd *cobra.Command) (string, error) {
	if text, _ := cmd.Flags().GetString("job-text"); strings.TrimSpace(text) != "" {
		return text, nil
	}

	path, _ := cmd.Flags().GetString("job")
	if path == "" {
		return "", services.ErrMissingJobDescription
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading job description: %w", err)
	}
	return string(content), nil
}

// documentSource prefers --dir over a bucket configured in the environment.
func documentSource(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (services.DocumentSource, error) {
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		return services.DirectorySource{Dir: dir, MaxFileSize: cfg.Storage.MaxFileSize}, nil
	}

	if cfg.S3.Bucket != "" {
		client, err := services.NewS3Client(ctx, services.S3ClientOptions{
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return services.NewS3Source(client, cfg.S3.Bucket, cfg.S3.Prefix, cfg.Storage.MaxFileSize), nil
	}

	return nil, errors.New("either --dir or --s3-bucket is required")
}

func buildScreener(cfg *config.Config, zl *zap.Logger) (services.ScreenerService, error) {
	embedder, err := services.NewEmbedder(services.EmbedderOptions{
		Provider:     cfg.Embedding.Provider,
		Model:        cfg.Embedding.Model,
		GeminiAPIKey: cfg.Embedding.GeminiAPIKey,
		OllamaURL:    cfg.Embedding.OllamaURL,
		Timeout:      cfg.Embedding.Timeout,
	}, zl)
	if err != nil {
		return nil, fmt.Errorf("initializing embedding model: %w", err)
	}

	skills, err := services.NewSkillMatcher(cfg.Screening.Skills)
	if err != nil {
		return nil, fmt.Errorf("compiling skill vocabulary: %w", err)
	}

	return services.NewScreenerService(
		services.NewTextExtractor(cfg.Screening.MaxPages, zl),
		services.NewScorerService(embedder, skills, zl),
		skills,
		services.NewLogReporter(zl),
		zl,
	), nil
}

// askExportPath returns an empty path when the user declines the export.
func askExportPath() (string, error) {
	_, answer, err := exportPrompt.Run()
	if err != nil {
		return "", err
	}
	if answer != PromptYes {
		return "", nil
	}

	filePrompt := promptui.Prompt{
		Label:   "File name",
		Default: services.CSVFilename,
	}
	return filePrompt.Run()
}

func writeResults(path string, results []models.ScoreResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := services.WriteCSV(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
