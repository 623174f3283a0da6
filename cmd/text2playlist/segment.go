package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/text2playlist/pkg/playlist"
	"github.com/cognicore/text2playlist/pkg/playlist/config"
	"github.com/cognicore/text2playlist/pkg/playlist/ingest"
	"github.com/cognicore/text2playlist/pkg/playlist/prune"
	"github.com/cognicore/text2playlist/pkg/playlist/selector"
	"github.com/cognicore/text2playlist/pkg/playlist/tracklist"
)

// playlistOutput is the JSON form of --playlist.
type playlistOutput struct {
	tracklist.Playlist
	LookupFailures []prune.Failure `json:"lookup_failures,omitempty"`
}

type segmentOptions struct {
	width    int
	mode     string
	file     string
	html     bool
	json     bool
	title    string
	playlist bool
}

func newSegmentCommand(ctx *commandContext) *cobra.Command {
	var opts segmentOptions

	cmd := &cobra.Command{
		Use:   "segment [text...]",
		Short: "Split text into catalog song titles",
		Long: `Split text into consecutive phrases that each match a song title in the
configured catalog. Text is taken from the arguments, --file or stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args, opts.file, opts.html, cmd.InOrStdin())
			if err != nil {
				return err
			}

			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}

			loader := &config.Loader{Config: cfg, Logger: ctx.logger(cmd.ErrOrStderr())}
			comp, err := loader.Load(cmd.Context())
			if err != nil {
				return err
			}
			defer comp.Close()

			req := playlist.Request{Text: text, Width: opts.width}
			if opts.mode != "" {
				mode, err := selector.ParseMode(opts.mode)
				if err != nil {
					return err
				}
				req.Mode = &mode
			}

			out := cmd.OutOrStdout()
			if opts.playlist {
				pl, res, err := comp.Engine.Playlist(cmd.Context(), opts.title, req)
				if err != nil {
					return err
				}
				if opts.json || !isTerminal(out) {
					return writeJSON(cmd, playlistOutput{Playlist: pl, LookupFailures: res.Failures})
				}
				fmt.Fprint(out, renderPlaylist(pl, res))
				return nil
			}

			res, err := comp.Engine.Segment(cmd.Context(), req)
			if err != nil {
				return err
			}
			if opts.json || !isTerminal(out) {
				return writeJSON(cmd, res)
			}
			fmt.Fprint(out, renderResult(res))
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.width, "width", "n", 0, "Maximum words per phrase (default from config)")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "Selection mode: longest or all (default from config)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read text from a file ('-' for stdin)")
	cmd.Flags().BoolVar(&opts.html, "html", false, "Treat input as HTML and extract its visible text")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output JSON")
	cmd.Flags().BoolVarP(&opts.playlist, "playlist", "p", false, "Assemble the best segmentation into a playlist")
	cmd.Flags().StringVar(&opts.title, "title", "", "Playlist title (defaults to the text)")

	return cmd
}

func readInput(args []string, file string, html bool, stdin io.Reader) (string, error) {
	var r io.Reader
	switch {
	case len(args) > 0 && file != "":
		return "", fmt.Errorf("pass text as arguments or --file, not both")
	case len(args) > 0:
		r = strings.NewReader(strings.Join(args, " "))
	case file != "" && file != "-":
		f, err := os.Open(file)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	default:
		r = stdin
	}

	if html {
		return ingest.ExtractText(r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}
