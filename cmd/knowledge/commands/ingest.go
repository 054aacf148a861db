// ABOUTME: CLI command to ingest source text into a session's knowledge base
// ABOUTME: Reads text from an argument, a file, or stdin
package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/knowledge-agent/internal/models"
)

var (
	ingestFile string
	ingestName string
	ingestType string
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [text]",
		Short: "Ingest source text into the knowledge base",
		Long: `Ingest source text into the session's knowledge base.

Text is split into overlapping token chunks, embedded, and stored for
retrieval. Plain-text files (.txt, .md) can be read directly; content
from web pages, transcripts, PDFs, or DOCX files must be extracted to
text first and ingested with an explicit --type tag.

Examples:
  knowledge ingest --file notes.txt
  knowledge ingest --name "https://example.com" --type web "extracted page text"
  pdftotext paper.pdf - | knowledge ingest --name paper.pdf --type pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().StringVar(&ingestFile, "file", "", "Read source text from a file")
	cmd.Flags().StringVar(&ingestName, "name", "", "Source name (defaults to file name or 'stdin')")
	cmd.Flags().StringVar(&ingestType, "type", "", "Source type: web, youtube, pdf, docx, txt")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	text, sourceName, sourceType, err := resolveIngestInput(args)
	if err != nil {
		return fail(cmd, err)
	}

	service, store, err := newService(true)
	if err != nil {
		return fail(cmd, err)
	}
	defer func() { _ = store.Close() }()

	count, err := service.Ingest(cmd.Context(), sessionID, sourceName, sourceType, text)
	if err != nil {
		return fail(cmd, err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Ingested %d chunks from %s (%s).\n", count, sourceName, sourceType)
	}
	return nil
}

// resolveIngestInput determines the text, source name, and source type from
// the file flag, positional argument, or stdin, honoring an explicit --type.
func resolveIngestInput(args []string) (string, string, models.SourceType, error) {
	var (
		text       string
		sourceName = ingestName
		sourceType models.SourceType
	)

	switch {
	case ingestFile != "":
		ext := filepath.Ext(ingestFile)
		extType, err := models.SourceTypeForExtension(ext)
		if err != nil && ingestType == "" {
			return "", "", "", err
		}
		data, err2 := os.ReadFile(ingestFile)
		if err2 != nil {
			return "", "", "", fmt.Errorf("reading file: %w", err2)
		}
		text = string(data)
		sourceType = extType
		if sourceName == "" {
			sourceName = filepath.Base(ingestFile)
		}
	case len(args) > 0:
		text = args[0]
		sourceType = models.SourceTXT
		if sourceName == "" {
			sourceName = "inline"
		}
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", "", fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
		sourceType = models.SourceTXT
		if sourceName == "" {
			sourceName = "stdin"
		}
	}

	if ingestType != "" {
		parsed, err := models.ParseSourceType(ingestType)
		if err != nil {
			return "", "", "", err
		}
		sourceType = parsed
	}

	if strings.TrimSpace(text) == "" {
		return "", "", "", fmt.Errorf("%w: no text provided", models.ErrEmptyInput)
	}

	return text, sourceName, sourceType, nil
}
