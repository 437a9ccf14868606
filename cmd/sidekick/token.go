package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"sidekick/internal/auth"
	"sidekick/internal/gmail"
	"sidekick/internal/spotify"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the pre-provisioned OAuth tokens",
}

var tokenImportCmd = &cobra.Command{
	Use:   "import <service>",
	Short: "Store an OAuth token for a service (spotify or google)",
	Long: `Store an externally obtained OAuth token. Sidekick does not run an
interactive authorization flow; complete it elsewhere (see "token auth-url")
and import the resulting tokens here.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenImport,
}

var tokenStatusCmd = &cobra.Command{
	Use:   "status <service>",
	Short: "Show whether a stored token is usable",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenStatus,
}

var tokenAuthURLCmd = &cobra.Command{
	Use:   "auth-url",
	Short: "Print the Spotify authorization URL for seeding a token",
	RunE:  runTokenAuthURL,
}

var (
	flagAccessToken  string
	flagRefreshToken string
	flagExpiresIn    int
)

func init() {
	tokenImportCmd.Flags().StringVar(&flagAccessToken, "access-token", "", "OAuth access token")
	tokenImportCmd.Flags().StringVar(&flagRefreshToken, "refresh-token", "", "OAuth refresh token")
	tokenImportCmd.Flags().IntVar(&flagExpiresIn, "expires-in", 3600, "access token lifetime in seconds")

	tokenCmd.AddCommand(tokenImportCmd, tokenStatusCmd, tokenAuthURLCmd)
	rootCmd.AddCommand(tokenCmd)
}

func validService(name string) error {
	switch name {
	case spotify.TokenService, gmail.TokenService:
		return nil
	}
	return fmt.Errorf("unknown service %q, want %q or %q", name, spotify.TokenService, gmail.TokenService)
}

func runTokenImport(_ *cobra.Command, args []string) error {
	service := args[0]
	if err := validService(service); err != nil {
		return err
	}
	if flagAccessToken == "" {
		return fmt.Errorf("--access-token is required")
	}

	tokens, err := auth.OpenStore(config.App.TokenDBPath, logger.Named("auth"))
	if err != nil {
		return err
	}
	defer tokens.Close()

	tok := &oauth2.Token{
		AccessToken:  flagAccessToken,
		TokenType:    "Bearer",
		RefreshToken: flagRefreshToken,
		Expiry:       time.Now().Add(time.Duration(flagExpiresIn) * time.Second),
	}
	if err := tokens.Save(service, tok); err != nil {
		return err
	}

	fmt.Printf("Token for %s stored in %s\n", service, config.App.TokenDBPath)
	return nil
}

func runTokenStatus(_ *cobra.Command, args []string) error {
	service := args[0]
	if err := validService(service); err != nil {
		return err
	}

	tokens, err := auth.OpenStore(config.App.TokenDBPath, logger.Named("auth"))
	if err != nil {
		return err
	}
	defer tokens.Close()

	expired, err := tokens.Expired(service)
	if err != nil {
		return err
	}
	if expired {
		fmt.Printf("Token for %s is expired and has no refresh token; import a new one.\n", service)
		return nil
	}

	fmt.Printf("Token for %s is usable.\n", service)
	return nil
}

func runTokenAuthURL(_ *cobra.Command, _ []string) error {
	if config.Spotify.ClientID == "" {
		return fmt.Errorf("spotify client ID is required")
	}

	fmt.Println(spotify.AuthURL(config.Spotify, "sidekick-seed"))
	return nil
}
