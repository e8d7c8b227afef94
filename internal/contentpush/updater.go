package contentpush

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/five82/statusbox/internal/cmsschema"
)

// isoLayout matches the millisecond UTC timestamps the site already uses.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// Target names the file an Updater writes.
type Target struct {
	Repo    string
	Path    string
	Branch  string
	Message string
}

// Updater writes a fresh revision of one content file.
type Updater struct {
	files  FileStore
	schema cmsschema.Schema
	target Target
	now    func() time.Time
	log    *zap.Logger
}

// NewUpdater builds an Updater. now and logger may be nil.
func NewUpdater(files FileStore, schema cmsschema.Schema, target Target, now func() time.Time, logger *zap.Logger) *Updater {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Updater{files: files, schema: schema, target: target, now: now, log: logger}
}

// RenderContent returns the markdown written on each update.
func RenderContent(at time.Time) string {
	return fmt.Sprintf("# Hello from the backend\n\nUpdated at %s", at.UTC().Format(isoLayout))
}

// Run reads the file's current sha and writes a new revision over it. Every
// call creates a new commit.
func (u *Updater) Run(ctx context.Context) (FileUpdateResult, error) {
	collection, ok := u.schema.CollectionFor(u.target.Path)
	if !ok {
		return FileUpdateResult{}, fmt.Errorf("path %s is not inside a declared collection", u.target.Path)
	}

	current, err := u.files.GetFile(ctx, u.target.Repo, u.target.Path, u.target.Branch)
	if err != nil {
		return FileUpdateResult{}, fmt.Errorf("read current revision: %w", err)
	}

	content := RenderContent(u.now())
	result, err := u.files.PutFile(ctx, u.target.Repo, u.target.Path, FileUpdate{
		Message: u.target.Message,
		Content: base64.StdEncoding.EncodeToString([]byte(content)),
		SHA:     current.SHA,
		Branch:  u.target.Branch,
	})
	if err != nil {
		return FileUpdateResult{}, fmt.Errorf("write new revision: %w", err)
	}

	u.log.Info("content updated",
		zap.String("repo", u.target.Repo),
		zap.String("path", u.target.Path),
		zap.String("collection", collection.Name),
		zap.String("branch", u.target.Branch),
		zap.String("previous_sha", current.SHA),
		zap.String("commit", result.Commit.SHA),
	)
	return result, nil
}
