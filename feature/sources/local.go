package sources

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"library-manager/core/reconcile"

	"github.com/spf13/afero"
)

// LocalSourceName is the display name of the filesystem source.
const LocalSourceName = "Local source"

var episodeExtensions = map[string]struct{}{
	".zip": {}, ".cbz": {}, ".rar": {}, ".cbr": {}, ".7z": {}, ".epub": {},
	".mkv": {}, ".mp4": {}, ".webm": {},
}

var (
	labeledNumber  = regexp.MustCompile(`(?i)(?:^|[^a-z])(?:episode|chapter|ep|ch|e|c)[.\s_-]*(\d+(?:\.\d+)?)`)
	hashNumber     = regexp.MustCompile(`#\s*(\d+(?:\.\d+)?)`)
	trailingNumber = regexp.MustCompile(`(\d+(?:\.\d+)?)\D*$`)
	bracketTags    = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)
)

// LocalSource serves entries stored on a filesystem. Each entry is the
// directory {root}/{entry.URL}; its sub-directories and archive or video
// files are the episodes.
type LocalSource struct {
	id   int64
	fs   afero.Fs
	root string
}

// NewLocalSource creates a filesystem source rooted at root.
func NewLocalSource(id int64, fs afero.Fs, root string) *LocalSource {
	return &LocalSource{id: id, fs: fs, root: root}
}

func (s *LocalSource) ID() int64    { return s.id }
func (s *LocalSource) Name() string { return LocalSourceName }

// FetchEpisodeList lists the episodes in the entry's directory, highest number first.
func (s *LocalSource) FetchEpisodeList(ctx context.Context, entry reconcile.Entry) ([]reconcile.RemoteEpisode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entryDir := path.Join(s.root, path.Clean("/"+entry.URL))
	infos, err := afero.ReadDir(s.fs, entryDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", entryDir, err)
	}

	base := strings.Trim(entry.URL, "/")
	var out []reconcile.RemoteEpisode
	for _, info := range infos {
		name := info.Name()
		if strings.HasPrefix(name, ".") || isCoverFile(name) {
			continue
		}

		title := name
		if !info.IsDir() {
			ext := strings.ToLower(path.Ext(name))
			if _, ok := episodeExtensions[ext]; !ok {
				continue
			}
			title = strings.TrimSuffix(name, path.Ext(name))
		}

		out = append(out, reconcile.RemoteEpisode{
			URL:        base + "/" + name,
			Name:       title,
			Number:     ParseEpisodeNumber(title),
			DateUpload: info.ModTime().UnixMilli(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Number != out[j].Number {
			return out[i].Number > out[j].Number
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func isCoverFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.TrimSuffix(lower, path.Ext(lower)) == "cover"
}

// ParseEpisodeNumber recognizes an episode or chapter number in a file name.
// It returns -1 when no number is found.
func ParseEpisodeNumber(name string) float64 {
	name = bracketTags.ReplaceAllString(name, " ")
	for _, re := range []*regexp.Regexp{labeledNumber, hashNumber, trailingNumber} {
		if m := re.FindStringSubmatch(name); m != nil {
			if n, err := strconv.ParseFloat(m[1], 64); err == nil {
				return n
			}
		}
	}
	return -1
}
