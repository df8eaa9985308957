package docservice

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/halvdan/mimir/internal/docs"
)

// renderFile formats a single document as markdown with its title and
// description header.
func (s *Service) renderFile(doc *Document) string {
	lines := []string{
		fmt.Sprintf("# %s", doc.Title),
		fmt.Sprintf("*File: `%s`*", doc.Path),
	}
	if doc.Description != "" {
		lines = append(lines, fmt.Sprintf("*%s*", doc.Description))
	}
	lines = append(lines, "", strings.TrimSpace(doc.Body))
	return strings.Join(lines, "\n")
}

// renderDirectory formats a directory listing, inlining the content of
// every document directly in the directory.
func (s *Service) renderDirectory(dir, rel string) string {
	subdirs, files := docs.ListDirectory(dir)

	display := rel
	if display == "" {
		display = "/"
	}

	lines := []string{
		fmt.Sprintf("Directory contents of `%s`:", display),
		"",
	}

	if len(subdirs) > 0 {
		lines = append(lines, "**Subdirectories:**")
		for _, d := range subdirs {
			lines = append(lines, fmt.Sprintf("- `%s`", d))
		}
	} else {
		lines = append(lines, "No subdirectories.")
	}
	lines = append(lines, "")

	if len(files) > 0 {
		lines = append(lines, "**Files in this directory:**")
		for _, f := range files {
			lines = append(lines, fmt.Sprintf("- `%s`", f))
		}
	} else {
		lines = append(lines, "No files in this directory.")
	}
	lines = append(lines, "")

	if len(files) > 0 {
		lines = append(lines, "---", "", "**Contents of all files in this directory:**", "")
		for _, f := range files {
			doc := s.LoadDocument(path.Join(rel, f), filepath.Join(dir, f))
			lines = append(lines,
				fmt.Sprintf("## %s", doc.Title),
				fmt.Sprintf("*File: `%s`*", doc.Path),
				"",
				strings.TrimSpace(doc.Body),
				"",
				"---",
				"")
		}
	}

	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// renderNotFound formats the fallback block for a missing path.
func renderNotFound(docPath, nearest string, subdirs, files, suggestions []string) string {
	lines := []string{
		fmt.Sprintf("Path `%s` not found.", docPath),
		"",
	}

	if nearest != "" {
		lines = append(lines, fmt.Sprintf("Here are the available paths in `%s`:", nearest))
	} else {
		lines = append(lines, "Here are the available top-level paths:")
	}
	lines = append(lines, "")

	prefix := ""
	if nearest != "" {
		prefix = nearest + "/"
	}

	if len(subdirs) > 0 {
		lines = append(lines, "**Directories:**")
		for _, d := range subdirs {
			lines = append(lines, fmt.Sprintf("- `%s%s`", prefix, d))
		}
		lines = append(lines, "")
	}

	if len(files) > 0 {
		lines = append(lines, "**Files:**")
		for _, f := range files {
			lines = append(lines, fmt.Sprintf("- `%s%s`", prefix, f))
		}
		lines = append(lines, "")
	}

	if len(suggestions) > 0 {
		lines = append(lines, "---", "", "**Suggested paths based on your query:**")
		for _, p := range suggestions {
			lines = append(lines, fmt.Sprintf("- `%s`", p))
		}
	}

	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// renderTopLevel lists the top-level directories and files of the tree.
func renderTopLevel(root string) string {
	subdirs, files := docs.ListDirectory(root)

	lines := []string{"Available top-level paths:", ""}

	if len(subdirs) > 0 {
		lines = append(lines, "Directories:")
		for _, d := range subdirs {
			lines = append(lines, fmt.Sprintf("- %s", d))
		}
		lines = append(lines, "")
	}

	if len(files) > 0 {
		lines = append(lines, "Files:")
		for _, f := range files {
			lines = append(lines, fmt.Sprintf("- %s", f))
		}
	}

	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
