package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weatherbot/weatherbot/internal/config"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize configuration",
	RunE:  runOnboard,
}

func runOnboard(_ *cobra.Command, _ []string) error {
	cfgPath := resolvedConfigPath()

	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Printf("Config already exists at %s\n", cfgPath)
		fmt.Printf("Press Enter to refresh (keep existing values) or Ctrl+C to cancel: ")
		fmt.Scanln()
		existing, loadErr := config.Load(cfgPath)
		if loadErr != nil {
			def := config.DefaultConfig()
			existing = &def
		}
		if err := config.Save(existing, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Config refreshed at %s\n", cfgPath)
	} else {
		cfg := config.DefaultConfig()
		if err := config.Save(&cfg, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Created config at %s\n", cfgPath)
	}

	fmt.Printf("\n%s weatherbot is ready!\n\n", logo)
	fmt.Println("Next steps:")
	fmt.Printf("  1. Add your API keys to %s or export them:\n", cfgPath)
	fmt.Println("     OPENAI_API_KEY   https://platform.openai.com/api-keys")
	fmt.Println("     RAPID_API_KEY    https://rapidapi.com/weatherapi/api/weatherapi-com")
	fmt.Println("     NEWS_API_KEY     https://newsapi.org/register")
	fmt.Printf("  2. Chat: weatherbot agent -m \"What's the weather in Paris?\"\n")
	return nil
}
