// Package cmd implements the command-line interface for cue.
package cmd

import (
	"errors"
	"fmt"

	"github.com/cue-cli/cue/auth"
	"github.com/cue-cli/cue/color"
	"github.com/cue-cli/cue/icon"
	"github.com/cue-cli/cue/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// credentialService maps a service name to its keyring operations.
type credentialService struct {
	label  string
	set    func(string) error
	get    func() (string, error)
	delete func() error
}

var credentialServices = map[string]credentialService{
	"tmdb": {
		label:  "TMDB",
		set:    auth.SetTMDBKey,
		get:    auth.GetTMDBKey,
		delete: auth.DeleteTMDBKey,
	},
	"opensubtitles": {
		label:  "OpenSubtitles",
		set:    auth.SetOpenSubtitlesKey,
		get:    auth.GetOpenSubtitlesKey,
		delete: auth.DeleteOpenSubtitlesKey,
	},
}

// resolveService maps the --service flag to its keyring operations.
func resolveService(cmd *cobra.Command) credentialService {
	name := lo.Must(cmd.Flags().GetString("service"))
	service, ok := credentialServices[name]
	if !ok {
		handleErr(fmt.Errorf("unknown service %s, available: tmdb, opensubtitles", style.Fg(color.Red)(name)))
	}
	return service
}

func addServiceFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("service", "s", "tmdb", "Credential service (tmdb or opensubtitles)")
	_ = cmd.RegisterFlagCompletionFunc("service", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Keys(credentialServices), cobra.ShellCompDirectiveNoFileComp
	})
}

func init() {
	rootCmd.AddCommand(authCmd)
}

// authCmd manages credentials for external metadata services.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage credentials for external metadata and subtitle services",
}

func init() {
	authCmd.AddCommand(authSetCmd)

	authSetCmd.Flags().StringP("key", "k", "", "The API key to store in the system keyring")
	lo.Must0(authSetCmd.MarkFlagRequired("key"))
	addServiceFlag(authSetCmd)
}

// authSetCmd stores an API key in the system keyring.
var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store an API key in the system keyring",
	Run: func(cmd *cobra.Command, args []string) {
		service := resolveService(cmd)

		apiKey := lo.Must(cmd.Flags().GetString("key"))
		if apiKey == "" {
			handleErr(errors.New("key must not be empty"))
		}

		handleErr(service.set(apiKey))
		fmt.Printf("%s %s API key stored\n", style.Fg(color.Green)(icon.Get(icon.Success)), service.label)
	},
}

func init() {
	authCmd.AddCommand(authStatusCmd)
	addServiceFlag(authStatusCmd)
}

// authStatusCmd reports whether an API key is present in the keyring.
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether an API key is configured",
	Run: func(cmd *cobra.Command, args []string) {
		service := resolveService(cmd)

		if _, err := service.get(); err != nil {
			fmt.Printf("%s no %s API key configured\n", style.Fg(color.Red)(icon.Get(icon.Fail)), service.label)
			return
		}

		fmt.Printf("%s %s API key is configured\n", style.Fg(color.Green)(icon.Get(icon.Success)), service.label)
	},
}

func init() {
	authCmd.AddCommand(authDeleteCmd)
	addServiceFlag(authDeleteCmd)
}

// authDeleteCmd removes an API key from the keyring.
var authDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove an API key from the system keyring",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		service := resolveService(cmd)

		handleErr(service.delete())
		fmt.Printf("%s %s API key removed\n", style.Fg(color.Green)(icon.Get(icon.Success)), service.label)
	},
}
