package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	pkgLog "mail-calendar-automation/pkg/log"
)

// DefaultDir is where records are written when no directory is configured.
const DefaultDir = "generatedEvents"

const (
	slugMaxLen   = 30
	untitledSlug = "untitled-event"
	dateLayout   = "2006-01-02"
)

var (
	slugStrip = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpace = regexp.MustCompile(`\s+`)
	fileDate  = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// filePrefixes maps actions to file name prefixes.
var filePrefixes = map[Action]string{
	ActionCreated:              "created-",
	ActionSkipped:              "skipped-",
	ActionFailed:               "failed-",
	ActionEventDeleted:         "deleted-",
	ActionCancellationNotFound: "cancel-not-found-",
	ActionDeletionFailed:       "delete-failed-",
	ActionCancellationError:    "cancel-error-",
}

// FileStore writes one JSON file per record.
type FileStore struct {
	dir string
	now func() time.Time
	l   pkgLog.Logger
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string, l pkgLog.Logger) *FileStore {
	if dir == "" {
		dir = DefaultDir
	}
	if l == nil {
		l = pkgLog.NewNop()
	}
	return &FileStore{dir: dir, now: time.Now, l: l}
}

// Dir returns the directory records are written to.
func (s *FileStore) Dir() string {
	return s.dir
}

// Record writes r and returns the file name.
func (s *FileStore) Record(ctx context.Context, r Record) (string, error) {
	if !r.Action.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, r.Action)
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = s.now().UTC()
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create ledger directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode ledger record: %w", err)
	}

	name := fileName(r)
	if err := writeNew(filepath.Join(s.dir, name), data); err != nil {
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("failed to write ledger record: %w", err)
		}
		name = strings.TrimSuffix(name, ".json") + "-" + r.ID[:8] + ".json"
		if err := writeNew(filepath.Join(s.dir, name), data); err != nil {
			return "", fmt.Errorf("failed to write ledger record: %w", err)
		}
	}

	s.l.Infof(ctx, "ledger: %s recorded in %s", r.Action, name)
	return name, nil
}

// Stats counts records by action and by date from the file names.
func (s *FileStore) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByDate: map[string]int{}}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return stats, nil
		}
		return Stats{}, fmt.Errorf("failed to read ledger directory: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		stats.Total++
		if a, ok := actionOf(name); ok {
			stats.add(a)
		}
		if d := fileDate.FindString(name); d != "" {
			stats.ByDate[d]++
		}
	}
	return stats, nil
}

func actionOf(name string) (Action, bool) {
	for _, a := range Actions {
		if strings.HasPrefix(name, filePrefixes[a]) {
			return a, true
		}
	}
	return "", false
}

func fileName(r Record) string {
	date := r.Timestamp.UTC().Format(dateLayout)
	prefix := filePrefixes[r.Action]

	switch r.Action {
	case ActionCreated, ActionEventDeleted:
		title, id := "", "unknown"
		if r.Event != nil {
			title = r.Event.Title
			if r.Event.ID != "" {
				id = r.Event.ID
			}
		}
		return fmt.Sprintf("%s%s-%s-%s.json", prefix, date, Slug(title), id)
	case ActionDeletionFailed:
		title := ""
		if r.Event != nil {
			title = r.Event.Title
		}
		return fmt.Sprintf("%s%s-%s.json", prefix, date, Slug(title))
	case ActionCancellationError:
		return fmt.Sprintf("%s%s-%s.json", prefix, date, strconv.FormatInt(r.Timestamp.UnixMilli(), 10))
	default:
		title := ""
		if r.Descriptor != nil {
			title = r.Descriptor.Title
		}
		return fmt.Sprintf("%s%s-%s.json", prefix, date, Slug(title))
	}
}

// Slug turns a title into a file name fragment: lower case, accents folded,
// anything outside [a-z0-9 -] dropped, whitespace runs as "-", at most 30 bytes.
func Slug(title string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), strings.ToLower(title))
	if err != nil {
		folded = strings.ToLower(title)
	}

	s := slugStrip.ReplaceAllString(folded, "")
	s = slugSpace.ReplaceAllString(s, "-")
	if len(s) > slugMaxLen {
		s = s[:slugMaxLen]
	}
	if s == "" || strings.Trim(s, "-") == "" {
		return untitledSlug
	}
	return s
}

func writeNew(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
