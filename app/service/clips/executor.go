package clips

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sync"
	"twdl/app/apperr"
	"twdl/app/client/twitch"
	"twdl/pkg/config"
	"twdl/pkg/fsutil"

	"github.com/samber/do"
)

// StdoutName is the injector name of the writer that receives source URLs in link mode.
const StdoutName = "stdout"

type Mode int

const (
	// ModeLinkOnly prints the source URL without touching the disk
	ModeLinkOnly Mode = iota
	// ModeDownload writes <id>.mp4
	ModeDownload
	// ModeDownloadWithMetadata writes <id>.mp4 and <id>.json
	ModeDownloadWithMetadata
)

// ModeFromFlags maps the -L and -m flags. Link mode wins over metadata.
func ModeFromFlags(link, metadata bool) Mode {
	switch {
	case link:
		return ModeLinkOnly
	case metadata:
		return ModeDownloadWithMetadata
	default:
		return ModeDownload
	}
}

func (m Mode) String() string {
	switch m {
	case ModeLinkOnly:
		return "link"
	case ModeDownload:
		return "download"
	case ModeDownloadWithMetadata:
		return "download+metadata"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Executor turns clip records into artifacts. It is safe for concurrent use; every call only
// touches files named after its own clip.
type Executor struct {
	client *http.Client

	outMutex sync.Mutex
	out      io.Writer
}

func NewExecutor(di *do.Injector) (*Executor, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &Executor{
		client: &http.Client{Timeout: cfg.Download.Timeout},
		out:    do.MustInvokeNamed[io.Writer](di, StdoutName),
	}, nil
}

func MediaPath(outputDir, clipID string) string {
	return filepath.Join(outputDir, clipID+MediaExt)
}

func MetadataPath(outputDir, clipID string) string {
	return filepath.Join(outputDir, clipID+".json")
}

// Process derives the clip source URL and handles it according to mode. Failures are
// reported in the Result, never returned.
func (e *Executor) Process(ctx context.Context, clip *twitch.Clip, mode Mode, outputDir string) Result {
	res := Result{ClipID: clip.ID}

	if err := checkClipID(clip.ID); err != nil {
		res.Media, res.MediaErr = OutcomeFailed, err
		return res
	}

	sourceURL, err := DeriveSourceURL(clip.ThumbnailURL)
	if err != nil {
		res.Media, res.MediaErr = OutcomeFailed, err
	} else {
		res.SourceURL = sourceURL
		res.Media, res.MediaErr = e.handleMedia(ctx, clip.ID, sourceURL, mode, outputDir)
	}

	if mode == ModeDownloadWithMetadata {
		res.Metadata, res.MetadataErr = e.writeMetadata(clip, outputDir)
	}

	return res
}

// ProcessSource handles a clip whose source URL is already known. No metadata is written.
func (e *Executor) ProcessSource(ctx context.Context, clipID, sourceURL string, mode Mode, outputDir string) Result {
	res := Result{ClipID: clipID, SourceURL: sourceURL}

	if err := checkClipID(clipID); err != nil {
		res.Media, res.MediaErr = OutcomeFailed, err
		return res
	}

	if mode == ModeDownloadWithMetadata {
		mode = ModeDownload
	}

	res.Media, res.MediaErr = e.handleMedia(ctx, clipID, sourceURL, mode, outputDir)

	return res
}

func (e *Executor) handleMedia(ctx context.Context, clipID, sourceURL string, mode Mode, outputDir string) (Outcome, error) {
	if mode == ModeLinkOnly {
		if err := e.printLine(sourceURL); err != nil {
			return OutcomeFailed, err
		}
		return OutcomeSuccess, nil
	}

	if err := fsutil.EnsureDir(outputDir); err != nil {
		return OutcomeFailed, err
	}

	path := MediaPath(outputDir, clipID)

	exists, err := fsutil.Exists(path)
	if err != nil {
		return OutcomeFailed, err
	}
	if exists {
		return OutcomeSkipped, nil
	}

	err = fsutil.WriteFile(path, 0o644, func(w io.Writer) error {
		return e.downloadFile(ctx, sourceURL, w)
	})
	if err != nil {
		return OutcomeFailed, fmt.Errorf("could not download clip: %w", err)
	}

	return OutcomeSuccess, nil
}

func (e *Executor) downloadFile(ctx context.Context, url string, out io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: could not create request: %w", apperr.ErrAPI, err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: could not execute request: %w", apperr.ErrAPI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: download failed with status: %s", apperr.ErrAPI, resp.Status)
	}

	if _, err = io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("%w: could not copy file: %w", apperr.ErrIO, err)
	}

	return nil
}

func (e *Executor) writeMetadata(clip *twitch.Clip, outputDir string) (Outcome, error) {
	if err := fsutil.EnsureDir(outputDir); err != nil {
		return OutcomeFailed, err
	}

	path := MetadataPath(outputDir, clip.ID)

	exists, err := fsutil.Exists(path)
	if err != nil {
		return OutcomeFailed, err
	}
	if exists {
		return OutcomeSkipped, nil
	}

	data, err := json.MarshalIndent(clip, "", "  ")
	if err != nil {
		return OutcomeFailed, fmt.Errorf("%w: could not encode metadata: %w", apperr.ErrIO, err)
	}

	err = fsutil.WriteFile(path, 0o644, func(w io.Writer) error {
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("%w: could not write metadata: %w", apperr.ErrIO, err)
		}
		return nil
	})
	if err != nil {
		return OutcomeFailed, err
	}

	return OutcomeSuccess, nil
}

func (e *Executor) printLine(line string) error {
	e.outMutex.Lock()
	defer e.outMutex.Unlock()

	if _, err := fmt.Fprintln(e.out, line); err != nil {
		return fmt.Errorf("%w: could not print source url: %w", apperr.ErrIO, err)
	}

	return nil
}

func checkClipID(id string) error {
	if !slugPattern.MatchString(id) {
		return fmt.Errorf("%w: clip id %q is not usable as a file name", apperr.ErrDerivation, id)
	}

	return nil
}
