package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"musicreco/internal/config"
)

// Subcommands operating on the library catalog. Anything else is the
// recommendation pipe mode.
const (
	cmdRecommend  = ""
	cmdScan       = "scan"
	cmdExport     = "export"
	cmdFind       = "find"
	cmdAlbums     = "albums"
	cmdInitConfig = "init-config"
	cmdHelp       = "help"
)

type options struct {
	cfg        config.Config
	configPath string
	command    string
	args       []string
}

// parseArgs parses command-line arguments and loads configuration.
// Priority: CLI flags > config file > defaults
func parseArgs(args []string) (options, error) {
	for _, arg := range args {
		switch arg {
		case "--help", "-h":
			return options{command: cmdHelp}, nil
		case "--init-config":
			return options{command: cmdInitConfig}, nil
		}
	}

	var opts options
	for i := 0; i < len(args); i++ {
		if args[i] == "--config" || args[i] == "-c" {
			if i+1 >= len(args) {
				return options{}, fmt.Errorf("--config requires a path argument")
			}
			opts.configPath = args[i+1]
			break
		}
	}

	cfg, err := config.LoadConfigFile(opts.configPath)
	if err != nil {
		return options{}, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.configPath == "" {
		opts.configPath = config.FindConfigFile()
	}

	var positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--verbose", "-v":
			cfg.Verbose = true

		case "--db":
			if i+1 >= len(args) {
				return options{}, fmt.Errorf("--db requires a path argument")
			}
			i++
			cfg.LibraryDB = config.ExpandHome(args[i])

		case "--config", "-c":
			i++

		default:
			// negative numbers are positional ids
			if len(arg) > 1 && arg[0] == '-' && (arg[1] < '0' || arg[1] > '9') {
				return options{}, fmt.Errorf("unknown flag: %s", arg)
			}
			positional = append(positional, arg)
		}
	}

	if len(positional) > 0 {
		switch positional[0] {
		case cmdScan, cmdExport, cmdFind, cmdAlbums:
			opts.command = positional[0]
			positional = positional[1:]
		}
	}
	opts.args = positional
	opts.cfg = cfg

	switch opts.command {
	case cmdScan:
		if len(opts.args) > 1 {
			return options{}, fmt.Errorf("scan takes at most one directory")
		}
	case cmdExport:
		if len(opts.args) > 0 {
			return options{}, fmt.Errorf("export takes no arguments")
		}
	case cmdFind:
		if len(opts.args) == 0 {
			return options{}, fmt.Errorf("find requires a query")
		}
	case cmdAlbums:
		if len(opts.args) != 1 {
			return options{}, fmt.Errorf("albums requires exactly one song id")
		}
		if _, err := strconv.Atoi(opts.args[0]); err != nil {
			return options{}, fmt.Errorf("invalid song id %q", opts.args[0])
		}
	}

	return opts, nil
}

// initConfigFile creates a new config file with default values
func initConfigFile(out io.Writer, path string) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(out, "Config file already exists at: %s\n", path)
		fmt.Fprintln(out, "Delete it first if you want to recreate it.")
		return nil
	}

	if err := config.SaveConfigFile(config.DefaultConfig(), path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Fprintf(out, "Created default config file at: %s\n", path)
	fmt.Fprintln(out, "\nAvailable options:")
	fmt.Fprintln(out, "  artist_limit: 1-100 (artist suggestions per request)")
	fmt.Fprintln(out, "  track_limit: 1-100 (similar tracks per request)")
	fmt.Fprintln(out, "  malformed_rows: skip or reject")
	fmt.Fprintln(out, "  unknown_genre: genre recorded for untagged files")
	fmt.Fprintln(out, "  library_db: path of the sqlite catalog")
	fmt.Fprintln(out, "  music_dir: default directory for scan")
	fmt.Fprintln(out, "  album_lookup: true/false (look up albums on MusicBrainz)")
	fmt.Fprintln(out, "  album_limit: 1-100 (albums per online list)")
	fmt.Fprintln(out, "  verbose: true/false (enable detailed logging)")
	return nil
}

// printUsage displays the help message
func printUsage(out io.Writer) {
	fmt.Fprintln(out, "musicreco - Content-based music recommendations")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  musicreco [options] <songId> [albumId]   Recommend from rows on stdin")
	fmt.Fprintln(out, "  musicreco [options] scan [dir]           Scan a music directory into the catalog")
	fmt.Fprintln(out, "  musicreco [options] export               Write catalog rows to stdout")
	fmt.Fprintln(out, "  musicreco [options] find <query>         Look up songs by title")
	fmt.Fprintln(out, "  musicreco [options] albums <songId>      Suggest albums for a catalog song")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	fmt.Fprintln(out, "  -v, --verbose              Show detailed output")
	fmt.Fprintln(out, "  -c, --config <path>        Path to config file")
	fmt.Fprintln(out, "      --db <path>            Path to the library catalog")
	fmt.Fprintln(out, "  -h, --help                 Show this help message")
	fmt.Fprintln(out, "      --init-config          Create a default config file")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Config file locations (checked in order):")
	fmt.Fprintln(out, "  ./musicreco.yaml")
	fmt.Fprintln(out, "  ~/.config/musicreco/config.yaml")
	fmt.Fprintln(out, "  ~/.musicreco.yaml")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Input rows are id|title|artist|genre|album|albumId|filePath, one per line.")
	fmt.Fprintln(out, "Output is a JSON document between RECOMMENDATIONS_BEGIN and RECOMMENDATIONS_END.")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Examples:")
	fmt.Fprintln(out, "  musicreco export | musicreco 42 7")
	fmt.Fprintln(out, "  musicreco scan ~/Music")
	fmt.Fprintln(out, "  musicreco find \"so what\"")
	fmt.Fprintln(out, "  musicreco albums 42")
}
