// Package notes writes liked-video lists into Markdown daily notes.
package notes

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	internal "ytliked/internal/storage"
	"ytliked/storage"
)

// sectionHeading introduces the liked-videos block inside a daily note.
const sectionHeading = "## Liked Videos"

// DailyNotePath returns the path of the daily note for the given day,
// using the conventional YYYY-MM-DD.md file name.
func DailyNotePath(dir string, day time.Time) string {
	return filepath.Join(dir, day.Format("2006-01-02")+".md")
}

// AppendLikedVideos adds the given videos to the daily note for day,
// creating the note (and its directory) if it does not exist yet. The
// videos land under a "## Liked Videos" heading, one bullet per video.
// The heading is written once; when it already exists the bullets go
// into that section, not to the end of the file, so later sections stay
// intact. Videos already linked in the note are skipped, so repeated
// syncs do not duplicate bullets.
//
// The note is rewritten through a temp file so a crash mid-write cannot
// truncate it.
func AppendLikedVideos(dir string, day time.Time, videos []storage.LikedVideo) error {
	if len(videos) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("notes: create directory: %w", err)
	}

	path := DailyNotePath(dir, day)
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("notes: read %s: %w", path, err)
	}
	content := string(existing)

	var bullets []string
	for _, v := range videos {
		if strings.Contains(content, v.WatchURL()) {
			continue
		}
		bullets = append(bullets, fmt.Sprintf("- [%s](%s)", escapeTitle(v.Title), v.WatchURL()))
	}
	if len(bullets) == 0 {
		return nil
	}

	updated := insertBullets(content, bullets)
	if err := internal.WriteFileAtomic(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("notes: write %s: %w", path, err)
	}
	return nil
}

// insertBullets places the bullets inside the liked-videos section,
// creating the section at the end of the note when absent.
func insertBullets(content string, bullets []string) string {
	lines := strings.Split(content, "\n")

	headAt := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == sectionHeading {
			headAt = i
			break
		}
	}

	if headAt == -1 {
		var b strings.Builder
		b.WriteString(content)
		if content != "" && !strings.HasSuffix(content, "\n") {
			b.WriteString("\n")
		}
		if content != "" {
			b.WriteString("\n")
		}
		b.WriteString(sectionHeading + "\n")
		b.WriteString(strings.Join(bullets, "\n") + "\n")
		return b.String()
	}

	// The section runs until the next heading or end of file. New bullets
	// go after its last non-blank line.
	end := len(lines)
	for i := headAt + 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], "#") {
			end = i
			break
		}
	}
	insert := end
	for insert > headAt+1 && strings.TrimSpace(lines[insert-1]) == "" {
		insert--
	}

	merged := make([]string, 0, len(lines)+len(bullets))
	merged = append(merged, lines[:insert]...)
	merged = append(merged, bullets...)
	merged = append(merged, lines[insert:]...)

	out := strings.Join(merged, "\n")
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

// escapeTitle neutralizes the characters that would break a Markdown
// link label.
func escapeTitle(title string) string {
	r := strings.NewReplacer("[", "\\[", "]", "\\]", "\n", " ")
	return r.Replace(title)
}
