package rankstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"starboard-backend/lib/scrapers/aoc"
	"starboard-backend/lib/timezone"

	"github.com/fernet/fernet-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("rankstore")

var ErrWrite = errors.New("failed to write snapshot")

const (
	filePrefix      = "aoc_rankings_"
	plainExt        = ".csv"
	encryptedExt    = ".csv.fernet"
	timestampFormat = "20060102150405"
)

// Store keeps leaderboard snapshots as timestamped flat files in one
// directory. Filenames sort lexicographically in chronological order
// so the newest snapshot is always the greatest name.
type Store struct {
	directory string
	key       *fernet.Key
}

type Options struct {
	Directory string
	// Optional base64 fernet key. When set, snapshots are written as
	// whole-file fernet tokens instead of plaintext csv.
	Key string
}

func NewStore(opts Options) (Store, error) {
	var key *fernet.Key
	if opts.Key != "" {
		k, err := fernet.DecodeKey(opts.Key)
		if err != nil {
			return Store{}, fmt.Errorf("invalid fernet key: %w", err)
		}
		key = k
	}
	return Store{
		directory: opts.Directory,
		key:       key,
	}, nil
}

// Save writes the dataset as a new snapshot and returns its path.
func (s Store) Save(ctx context.Context, ds aoc.Dataset) (string, error) {
	ctx, span := tracer.Start(ctx, "Save")
	defer span.End()

	err := os.MkdirAll(s.directory, 0755)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create snapshot directory")
		return "", fmt.Errorf("%w: %w", ErrWrite, err)
	}

	data, err := encodeCsv(ds)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to encode snapshot")
		return "", fmt.Errorf("%w: %w", ErrWrite, err)
	}

	ext := plainExt
	if s.key != nil {
		data, err = fernet.EncryptAndSign(data, s.key)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to encrypt snapshot")
			return "", fmt.Errorf("%w: %w", ErrWrite, err)
		}
		ext = encryptedExt
	}

	name := filePrefix + timezone.Now().Format(timestampFormat) + ext
	path := filepath.Join(s.directory, name)
	err = os.WriteFile(path, data, 0644)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write snapshot")
		return "", fmt.Errorf("%w: %w", ErrWrite, err)
	}

	span.SetAttributes(attribute.String("path", path))
	slog.DebugContext(ctx, "saved snapshot", "path", path, "rows", len(ds))
	return path, nil
}

// Latest loads the newest snapshot. Any read or decode failure is
// reported as absence, after a warn log.
func (s Store) Latest(ctx context.Context) (aoc.Dataset, time.Time, bool) {
	ctx, span := tracer.Start(ctx, "Latest")
	defer span.End()

	name := s.newestFile(ctx)
	if name == "" {
		return nil, time.Time{}, false
	}

	takenAt, err := time.ParseInLocation(
		timestampFormat,
		strings.TrimSuffix(strings.TrimSuffix(
			strings.TrimPrefix(name, filePrefix), ".fernet"), ".csv"),
		timezone.Location,
	)
	if err != nil {
		slog.WarnContext(ctx, "malformed snapshot filename", "name", name, "err", err)
		return nil, time.Time{}, false
	}

	data, err := os.ReadFile(filepath.Join(s.directory, name))
	if err != nil {
		slog.WarnContext(ctx, "failed to read snapshot", "name", name, "err", err)
		return nil, time.Time{}, false
	}

	if strings.HasSuffix(name, encryptedExt) {
		if s.key == nil {
			slog.WarnContext(ctx, "encrypted snapshot but no key configured", "name", name)
			return nil, time.Time{}, false
		}
		data = fernet.VerifyAndDecrypt(data, 0, []*fernet.Key{s.key})
		if data == nil {
			slog.WarnContext(ctx, "failed to decrypt snapshot", "name", name)
			return nil, time.Time{}, false
		}
	}

	ds, err := decodeCsv(data)
	if err != nil {
		slog.WarnContext(ctx, "failed to decode snapshot", "name", name, "err", err)
		return nil, time.Time{}, false
	}

	ds.Sort()
	span.SetAttributes(attribute.String("name", name), attribute.Int("rows", len(ds)))
	return ds, takenAt, true
}

// Prune deletes every snapshot file except keep (a path as returned
// by Save). Individual delete failures are logged and skipped.
func (s Store) Prune(ctx context.Context, keep string) {
	ctx, span := tracer.Start(ctx, "Prune")
	defer span.End()

	keepName := filepath.Base(keep)
	removed := 0
	for _, name := range s.snapshotFiles(ctx) {
		if name == keepName {
			continue
		}
		err := os.Remove(filepath.Join(s.directory, name))
		if err != nil {
			slog.WarnContext(ctx, "failed to remove old snapshot", "name", name, "err", err)
			continue
		}
		removed++
	}
	span.SetAttributes(attribute.Int("removed", removed))
}

// PruneOld deletes every snapshot except the newest one and reports
// the kept filename, empty when the directory has no snapshots.
func (s Store) PruneOld(ctx context.Context) string {
	newest := s.newestFile(ctx)
	if newest == "" {
		return ""
	}
	s.Prune(ctx, newest)
	return newest
}

func (s Store) snapshotFiles(ctx context.Context) []string {
	entries, err := os.ReadDir(s.directory)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.WarnContext(ctx, "failed to read snapshot directory", "dir", s.directory, "err", err)
		}
		return nil
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) {
			continue
		}
		if !strings.HasSuffix(name, plainExt) && !strings.HasSuffix(name, encryptedExt) {
			continue
		}
		names = append(names, name)
	}
	return names
}

func (s Store) newestFile(ctx context.Context) string {
	newest := ""
	for _, name := range s.snapshotFiles(ctx) {
		if name > newest {
			newest = name
		}
	}
	return newest
}
