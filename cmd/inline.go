// Package cmd implements the command-line interface for cue.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/cue-cli/cue/filesystem"
	"github.com/cue-cli/cue/inline"
	"github.com/cue-cli/cue/key"
	"github.com/cue-cli/cue/metadata"
	"github.com/cue-cli/cue/query"
	"github.com/cue-cli/cue/util"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(inlineCmd)

	inlineCmd.Flags().StringP("query", "q", "", "The title filter to apply to the library")
	inlineCmd.Flags().StringP("item", "i", "", "Criteria for selecting a single item from the matches")
	inlineCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	inlineCmd.Flags().BoolP("fetch-metadata", "f", false, "Resolve TMDB metadata before producing output")
	inlineCmd.Flags().BoolP("include-record", "R", false, "Include bound TMDB record data in the structured output")
	inlineCmd.Flags().BoolP("include-events", "E", false, "Include recent watch events in the structured output")
	lo.Must0(viper.BindPFlag(key.MetadataFetchTMDB, inlineCmd.Flags().Lookup("fetch-metadata")))

	inlineCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")

	_ = inlineCmd.RegisterFlagCompletionFunc("query", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

// inlineCmd executes the application in non-interactive, scriptable inline mode.
var inlineCmd = &cobra.Command{
	Use:   "inline",
	Short: "Execute the application in non-interactive, scriptable inline mode",
	Long: `Initialize the application for automated execution and data extraction using inline mode.

Item selectors:
  first - first item in the list
  last - last item in the list
  exact - item whose title equals the query
  [number] - select item by index (starting from 0)

When using the json flag the item selector could be omitted. That way, it will select all items`,
	Run: func(cmd *cobra.Command, args []string) {
		repo := openRepository()
		defer util.Ignore(repo.Close)

		searchQuery := lo.Must(cmd.Flags().GetString("query"))

		output := lo.Must(cmd.Flags().GetString("output"))
		var (
			writer io.Writer
			err    error
		)
		if output != "" {
			writer, err = filesystem.API().Create(output)
			handleErr(err)
		} else {
			writer = os.Stdout
		}

		itemFlag := lo.Must(cmd.Flags().GetString("item"))
		itemPicker := mo.None[inline.ItemPicker]()
		if itemFlag != "" {
			fn, err := inline.ParseItemPicker(itemFlag, searchQuery)
			handleErr(err)
			itemPicker = mo.Some(fn)
		}

		options := &inline.Options{
			Out:           writer,
			Query:         searchQuery,
			Json:          lo.Must(cmd.Flags().GetBool("json")),
			IncludeRecord: lo.Must(cmd.Flags().GetBool("include-record")),
			IncludeEvents: lo.Must(cmd.Flags().GetBool("include-events")),
			ItemPicker:    itemPicker,
		}

		handleErr(inline.Run(repo, options))
	},
}

func init() {
	inlineCmd.AddCommand(inlineTmdbCmd)
}

// inlineTmdbCmd manages TMDB record operations in inline mode.
var inlineTmdbCmd = &cobra.Command{
	Use:   "tmdb",
	Short: "Manage TMDB record operations in inline mode",
}

func init() {
	inlineTmdbCmd.AddCommand(inlineTmdbSearchCmd)

	inlineTmdbSearchCmd.Flags().StringP("name", "n", "", "The title to search for on TMDB")
	inlineTmdbSearchCmd.Flags().IntP("year", "y", 0, "Narrow the search to a specific release year")
	inlineTmdbSearchCmd.Flags().StringP("kind", "k", "", "The record kind to fetch by id (movie or tv)")
	inlineTmdbSearchCmd.Flags().IntP("id", "i", 0, "The specific TMDB ID to retrieve a record for")

	inlineTmdbSearchCmd.MarkFlagsMutuallyExclusive("name", "id")
	inlineTmdbSearchCmd.MarkFlagsRequiredTogether("kind", "id")
}

// inlineTmdbSearchCmd performs a TMDB lookup by title or by id.
var inlineTmdbSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Perform a TMDB search by title and return the results",
	PreRun: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("id") {
			handleErr(errors.New("name or id flag is required"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		name := lo.Must(cmd.Flags().GetString("name"))
		kind := lo.Must(cmd.Flags().GetString("kind"))
		id := lo.Must(cmd.Flags().GetInt("id"))

		var toEncode any

		if name != "" {
			records, err := metadata.SearchByName(name, lo.Must(cmd.Flags().GetInt("year")))
			handleErr(err)
			toEncode = records
		} else {
			if kind != metadata.KindMovie && kind != metadata.KindTV {
				handleErr(fmt.Errorf("unknown kind %s, expected movie or tv", kind))
			}

			record, err := metadata.GetByRef(fmt.Sprintf("%s:%d", kind, id))
			handleErr(err)
			toEncode = record
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(toEncode))
	},
}

func init() {
	inlineTmdbCmd.AddCommand(inlineTmdbGetCmd)

	inlineTmdbGetCmd.Flags().StringP("name", "n", "", "The local title to retrieve the mapped TMDB relation for")
	inlineTmdbGetCmd.Flags().IntP("year", "y", 0, "Narrow the lookup to a specific release year")
	lo.Must0(inlineTmdbGetCmd.MarkFlagRequired("name"))
}

// inlineTmdbGetCmd retrieves mapped TMDB relations for local titles.
var inlineTmdbGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Retrieve the TMDB record currently associated with a specific local title",
	Run: func(cmd *cobra.Command, args []string) {
		name := lo.Must(cmd.Flags().GetString("name"))
		year := lo.Must(cmd.Flags().GetInt("year"))

		record, err := metadata.FindClosest(name, year)
		handleErr(err)

		handleErr(json.NewEncoder(os.Stdout).Encode(record))
	},
}

func init() {
	inlineTmdbCmd.AddCommand(inlineTmdbBindCmd)

	inlineTmdbBindCmd.Flags().StringP("name", "n", "", "The local title to establish a mapping for")
	inlineTmdbBindCmd.Flags().StringP("kind", "k", metadata.KindMovie, "The record kind of the TMDB ID (movie or tv)")
	inlineTmdbBindCmd.Flags().IntP("id", "i", 0, "The TMDB ID to bind to the specified title")

	lo.Must0(inlineTmdbBindCmd.MarkFlagRequired("name"))
	lo.Must0(inlineTmdbBindCmd.MarkFlagRequired("id"))

	inlineTmdbBindCmd.MarkFlagsRequiredTogether("name", "id")
}

// inlineTmdbBindCmd statically binds local titles to TMDB record IDs.
var inlineTmdbBindCmd = &cobra.Command{
	Use:   "set",
	Short: "Statically bind a local title to a specific TMDB record ID",
	Run: func(cmd *cobra.Command, args []string) {
		kind := lo.Must(cmd.Flags().GetString("kind"))
		if kind != metadata.KindMovie && kind != metadata.KindTV {
			handleErr(fmt.Errorf("unknown kind %s, expected movie or tv", kind))
		}

		record, err := metadata.GetByRef(fmt.Sprintf("%s:%d", kind, lo.Must(cmd.Flags().GetInt("id"))))
		handleErr(err)

		handleErr(metadata.SetRelation(lo.Must(cmd.Flags().GetString("name")), record))
	},
}

func init() {
	inlineCmd.AddCommand(inlineSchemaCmd)

	inlineSchemaCmd.Flags().BoolP("record", "r", false, "Generate the JSON Schema for TMDB record objects")
}

// inlineSchemaCmd generates JSON schemas for structured inline mode outputs.
var inlineSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON schemas for structured inline mode outputs",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "item", "record", "entry", "output":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		var schema *jsonschema.Schema

		switch {
		case lo.Must(cmd.Flags().GetBool("record")):
			schema = reflector.Reflect(&metadata.Record{})
		default:
			schema = reflector.Reflect(&inline.Output{})
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
