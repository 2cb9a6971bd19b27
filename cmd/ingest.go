package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docqa/internal/ingest"
	"github.com/ziadkadry99/docqa/internal/progress"
	"github.com/ziadkadry99/docqa/internal/walker"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file|dir|glob]...",
	Short: "Upload and index PDF documents",
	Long: `Extracts the text of each PDF, splits it into chunks, embeds them and stores
the file with its metadata. Arguments may be files, directories (searched
recursively) or globs such as "reports/**/*.pdf".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("title", "", "document title (single file only; default is the file name)")
	ingestCmd.Flags().String("collection", "", "collection to file the documents under")
	ingestCmd.Flags().StringSlice("exclude", nil, "glob patterns to skip")
	ingestCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(ingestCmd)
}

type ingestResultJSON struct {
	Path       string `json:"path"`
	DocumentID string `json:"document_id,omitempty"`
	ChunkCount int    `json:"chunk_count"`
	Error      string `json:"error,omitempty"`
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	title, _ := cmd.Flags().GetString("title")
	collection, _ := cmd.Flags().GetString("collection")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	files, err := walker.Collect(args, walker.WalkerConfig{Exclude: exclude})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "No PDF files found.")
		return nil
	}
	if title != "" && len(files) > 1 {
		return fmt.Errorf("--title can only be used with a single file, found %d", len(files))
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	reporter := progress.NewReporter()
	reporter.Start(len(files))

	results := make([]ingestResultJSON, 0, len(files))
	failed := 0
	for i, f := range files {
		res := ingestResultJSON{Path: f.RelPath}
		out, err := ingestFile(ctx, a.ingest, f, title, collection)
		if err != nil {
			failed++
			res.Error = err.Error()
		} else {
			res.DocumentID = out.DocumentID
			res.ChunkCount = out.ChunkCount
		}
		results = append(results, res)
		reporter.Update(i+1, f.RelPath)
	}
	reporter.Finish()

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Error != "" {
				fmt.Printf("  FAIL %s: %s\n", r.Path, r.Error)
				continue
			}
			fmt.Printf("  OK   %s -> %s (%d chunks)\n", r.Path, r.DocumentID, r.ChunkCount)
		}
	}

	fmt.Fprintf(os.Stderr, "Ingested %d of %d documents.\n", len(files)-failed, len(files))
	if failed > 0 {
		return fmt.Errorf("%d documents failed to ingest", failed)
	}
	return nil
}

func ingestFile(ctx context.Context, svc *ingest.Service, f walker.FileInfo, title, collection string) (*ingest.UploadResult, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(f.Path)
	if title == "" {
		title = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return svc.Upload(ctx, ingest.UploadRequest{
		Filename:   name,
		Title:      title,
		Collection: collection,
		Data:       data,
	})
}
