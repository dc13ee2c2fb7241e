package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/furnidraw/pkg/errors"
	fio "github.com/matzehuels/furnidraw/pkg/io"
	"github.com/matzehuels/furnidraw/pkg/observability"
	"github.com/matzehuels/furnidraw/pkg/storage"
)

// deliver persists one artifact. With a store the artifact is uploaded;
// an upload failure is logged and the artifact is written to the output
// directory instead. Without a store it is written to the output
// directory when one is set and otherwise only kept in memory.
func (r *Runner) deliver(ctx context.Context, art *Artifact, opts Options, logger *log.Logger) error {
	if r.Store != nil {
		start := time.Now()
		loc, err := r.Store.Put(ctx, storage.Object{
			Key:         storage.NewKey(art.Filename),
			Filename:    art.Filename,
			ContentType: art.ContentType,
			Data:        art.Data,
			Metadata:    map[string]string{"format": art.Format, "view": opts.View},
		})
		observability.Export().OnUploadComplete(ctx, loc.Backend, art.Size, time.Since(start), err)
		if err == nil {
			art.Location = &loc
			logger.Debug("uploaded artifact", "key", loc.Key, "backend", loc.Backend, "size", art.Size)
			return nil
		}
		logger.Warn("upload failed, saving locally", "file", art.Filename, "error", err)
		observability.Export().OnFallback(ctx, art.Filename, err)
		art.Fallback = true
	}

	if opts.OutputDir == "" && !art.Fallback {
		return nil
	}
	path, err := fio.WriteArtifact(opts.OutputDir, art.Filename, art.Data)
	if err != nil {
		return errors.Wrap(errors.ErrCodeUploadFailed, err, "save %s", art.Filename)
	}
	art.Path = path
	logger.Debug("wrote artifact", "path", path, "size", art.Size)
	return nil
}
