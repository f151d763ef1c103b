package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change model providers, chunking, retrieval and storage settings.

Settings are stored in ~/.sercha-rag/config.toml. API keys may also come
from OPENAI_API_KEY and ANTHROPIC_API_KEY (or a .env file).`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Change a setting",
	Long: `Change one setting by its dotted key, for example:

  sercha-rag settings set chunking.size 800
  sercha-rag settings set llm.provider anthropic

When the value of an API key or secret is omitted it is read from the
terminal without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	RunE:  runSettingsKeys,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate settings",
	RunE:  runSettingsCheck,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	s, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()
	cmd.Printf("User: %s\n", s.UserID)
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", s.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", s.Embedding.Model)
	printEndpoint(cmd, s.Embedding.Provider, s.Embedding.BaseURL, s.Embedding.APIKey)
	cmd.Printf("  Status: %s\n", configuredStatus(s.Embedding.IsConfigured()))
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", s.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", s.LLM.Model)
	printEndpoint(cmd, s.LLM.Provider, s.LLM.BaseURL, s.LLM.APIKey)
	cmd.Printf("  Status: %s\n", configuredStatus(s.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Vision]")
	cmd.Printf("  Model: %s\n", s.Vision.Model)
	cmd.Printf("  Status: %s\n", configuredStatus(s.Vision.IsConfigured()))
	cmd.Println()

	cmd.Println("[Ingestion]")
	cmd.Printf("  Chunk size: %d\n", s.Chunking.Size)
	cmd.Printf("  Chunk overlap: %d\n", s.Chunking.Overlap)
	cmd.Printf("  Strict kinds: %t\n", s.Ingest.StrictKinds)
	cmd.Printf("  Signed URL TTL: %s\n", s.Ingest.SignedURLTTL)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K: %d\n", s.Retrieval.TopK)
	cmd.Printf("  Timeout: %s\n", s.Pipeline.Timeout)
	cmd.Printf("  Max retries: %d\n", s.Pipeline.MaxRetries)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Vector store: %s\n", s.VectorStore.Backend)
	cmd.Printf("  Object store: %s\n", s.ObjectStore.Backend)
	cmd.Println()

	if err := s.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func printEndpoint(cmd *cobra.Command, p domain.AIProvider, baseURL, apiKey string) {
	if p.IsLocal() || baseURL != "" {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if p.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case services.IsSecretKey(key):
		cmd.Printf("Enter value for %s: ", key)
		value = readPassword()
		cmd.Println()
		if value == "" {
			return errors.New("no value entered")
		}
	default:
		return fmt.Errorf("a value is required for %s", key)
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	shown := value
	if services.IsSecretKey(key) {
		shown = maskAPIKey(value)
	}
	cmd.Printf("%s = %s\n", key, shown)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, k := range settingsService.Keys() {
		cmd.Println(k)
	}
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	s, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	var problems []string
	if err := s.Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if !s.Embedding.IsConfigured() {
		problems = append(problems, "embedding provider is not configured; files cannot be ingested")
	}
	if !s.LLM.IsConfigured() {
		problems = append(problems, "LLM provider is not configured; questions cannot be answered")
	}
	if !s.Vision.IsConfigured() {
		cmd.Println("Note: vision is not configured; images will be rejected.")
	}

	if len(problems) == 0 {
		cmd.Println("Configuration is valid.")
		return nil
	}
	for _, p := range problems {
		cmd.Printf("✗ %s\n", p)
	}
	return fmt.Errorf("%d configuration problem(s): %w", len(problems), domain.ErrConfiguration)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if stdinIsTerminal() {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
