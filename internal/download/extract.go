package download

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExtractZip extracts zip members whose path starts with memberPrefix
// into destDir, flattening directory structure. The NSPL release buries
// its per-area CSVs under Data/multi_csv/. Returns the number of files
// extracted; zero if destDir already holds files.
func ExtractZip(zipPath, destDir, memberPrefix string) (int, error) {
	if entries, err := os.ReadDir(destDir); err == nil && len(entries) > 0 {
		return 0, nil
	}

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", zipPath, err)
	}
	defer zr.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", destDir, err)
	}

	extracted := 0
	for _, member := range zr.File {
		if member.FileInfo().IsDir() {
			continue
		}
		if memberPrefix != "" && !strings.HasPrefix(member.Name, memberPrefix) {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(member.Name), ".csv") {
			continue
		}
		if err := extractMember(member, destDir); err != nil {
			return extracted, err
		}
		extracted++
	}
	if extracted == 0 {
		return 0, fmt.Errorf("%s has no CSV members under %s", zipPath, memberPrefix)
	}
	return extracted, nil
}

func extractMember(member *zip.File, destDir string) error {
	src, err := member.Open()
	if err != nil {
		return fmt.Errorf("opening zip member %s: %w", member.Name, err)
	}
	defer src.Close()

	dest := filepath.Join(destDir, filepath.Base(member.Name))
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	_, err = io.Copy(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("extracting %s: %w", member.Name, err)
	}
	return nil
}
