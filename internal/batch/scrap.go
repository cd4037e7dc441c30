// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/eol-engine/pkg/types"
)

// scrapSeparator ends the header block of a Scrap_* file.
const scrapSeparator = "=================================================="

// ScrapFile is one saved scrape loaded from disk. A file that could not
// be read or parsed carries its error and is reported in the batch
// summary instead of aborting the run.
type ScrapFile struct {
	types.BatchFile
	LoadErr error
}

// LoadDir reads every Scrap_*.txt file in dir, in name order. Only a
// directory read failure is an error; per-file failures are recorded on
// the returned entries.
func LoadDir(dir string) ([]ScrapFile, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "Scrap_*.txt"))
	if err != nil {
		return nil, fmt.Errorf("listing scrap files in %s: %w", dir, err)
	}
	sort.Strings(matches)

	files := make([]ScrapFile, 0, len(matches))
	for _, path := range matches {
		name := filepath.Base(path)
		data, err := os.ReadFile(path)
		if err != nil {
			files = append(files, ScrapFile{
				BatchFile: types.BatchFile{Filename: name},
				LoadErr:   fmt.Errorf("reading %s: %w", name, err),
			})
			continue
		}
		files = append(files, ScrapFile{BatchFile: Parse(name, data)})
	}
	return files, nil
}

// Parse extracts the header fields (URL:, Model:) and the content that
// follows the separator line from a Scrap_* file. Missing header fields
// degrade to empty strings; a file without a separator is treated as
// all content.
func Parse(name string, data []byte) types.BatchFile {
	f := types.BatchFile{Filename: name}

	text := string(data)
	sep := strings.Index(text, scrapSeparator)
	header := text
	if sep >= 0 {
		header = text[:sep]
		f.Content = strings.TrimSpace(text[sep+len(scrapSeparator):])
	} else {
		f.Content = strings.TrimSpace(text)
	}

	for _, line := range strings.Split(header, "\n") {
		switch {
		case strings.HasPrefix(line, "URL: "):
			f.URL = strings.TrimSpace(strings.TrimPrefix(line, "URL: "))
		case strings.HasPrefix(line, "Model: "):
			f.Model = strings.TrimSpace(strings.TrimPrefix(line, "Model: "))
		}
	}
	return f
}
