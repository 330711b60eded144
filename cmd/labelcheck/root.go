package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/colaops/labelcheck/internal/catalog"
	"github.com/colaops/labelcheck/internal/config"
	"github.com/colaops/labelcheck/internal/providers"
	"github.com/colaops/labelcheck/internal/svcctx"
	"github.com/colaops/labelcheck/version"
)

var (
	cfgFile      string
	outputFormat string
	logLevel     string
	useMock      bool
)

var rootCmd = &cobra.Command{
	Use:   "labelcheck",
	Short: "Alcohol beverage label field extraction and verification",
	Long: `labelcheck reads alcohol beverage label images, extracts the regulated
label fields, and compares them against the applicant's declared values.

The pipeline includes:
  - OCR with word-level bounding boxes (local Tesseract or Cloud Vision)
  - Rule-based field classification for pre-submission checks
  - LLM-backed classification with strict schema validation
  - Declared-value comparison with unit-aware normalization`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.labelcheck/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "json", "output format: json or yaml",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "log level: debug, info, warn, error",
	)
	rootCmd.PersistentFlags().BoolVar(
		&useMock, "mock", false, "use mock providers (testing and demos)",
	)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(initConfigCmd)
	rootCmd.AddCommand(fieldsCmd)
}

// newLogger builds the process logger from the --log-level flag.
func newLogger() *slog.Logger {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildServices wires the config manager, provider registry, and catalog.
// With --mock, the registry holds mock providers only.
func buildServices() (*svcctx.Services, error) {
	logger := newLogger()

	if useMock {
		registry := providers.NewRegistry()
		registry.SetLogger(logger)
		registry.RegisterOCR("mock-ocr", providers.NewMockOCRProvider())
		registry.RegisterLLM("mock", providers.NewMockClient())
		return &svcctx.Services{
			Registry: registry,
			Catalog:  catalog.New(),
			Logger:   logger,
		}, nil
	}

	cm, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	registry := providers.NewRegistryFromConfig(cm.Get().ToProviderRegistryConfig())
	registry.SetLogger(logger)

	cm.OnChange(func(cfg *config.Config) {
		registry.Reload(cfg.ToProviderRegistryConfig())
	})
	cm.WatchConfig()

	return &svcctx.Services{
		Registry:      registry,
		Catalog:       catalog.New(),
		ConfigManager: cm,
		Logger:        logger,
	}, nil
}

// defaultOCRName resolves the OCR provider a command should use.
func defaultOCRName(s *svcctx.Services, flag string) string {
	if flag != "" {
		return flag
	}
	if useMock {
		return "mock-ocr"
	}
	if s.ConfigManager != nil {
		if name := s.ConfigManager.Get().Defaults.OCRProvider; name != "" {
			return name
		}
	}
	return "tesseract"
}

// defaultLLMName resolves the LLM client a command should use.
func defaultLLMName(s *svcctx.Services, flag string) string {
	if flag != "" {
		return flag
	}
	if useMock {
		return "mock"
	}
	if s.ConfigManager != nil {
		if name := s.ConfigManager.Get().Defaults.LLMProvider; name != "" {
			return name
		}
	}
	return "openrouter"
}

// printResult writes v to stdout in the selected output format.
func printResult(v any) error {
	switch outputFormat {
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("labelcheck %s\n", version.GitRelease)
		fmt.Printf("  Go:     %s\n", version.GoInfo)
		fmt.Printf("  Commit: %s\n", version.GitCommit)
		fmt.Printf("  Date:   %s\n", version.GitCommitDate)
	},
}
