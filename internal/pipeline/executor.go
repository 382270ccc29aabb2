package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/backmassage/spmcleanup/internal/config"
	"github.com/backmassage/spmcleanup/internal/confirm"
	"github.com/backmassage/spmcleanup/internal/logging"
	"github.com/backmassage/spmcleanup/internal/naming"
	"github.com/backmassage/spmcleanup/internal/scan"
	"github.com/backmassage/spmcleanup/internal/simulate"
)

// executor holds the mutable state of one disposition pass.
type executor struct {
	cfg     *config.Config
	log     *logging.Logger
	confirm confirm.Confirmer
	layout  *simulate.Layout
	keep    naming.KeepList

	firstDeletionConfirmed bool
	summary                Summary
}

// Execute applies the disposition policy to every subject record with raw
// data, in record order. In simulate modes layout must be non-nil; in delete
// mode it is ignored and the first deletion of the run is confirmed with c.
func Execute(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	c confirm.Confirmer,
	layout *simulate.Layout,
	records []scan.RawFileRecord,
) (Summary, error) {
	if cfg.Method.Simulated() && layout == nil {
		return Summary{}, fmt.Errorf("method %s needs a simulation layout", cfg.Method)
	}
	ex := &executor{
		cfg:     cfg,
		log:     log,
		confirm: c,
		layout:  layout,
		keep:    naming.NewKeepList(cfg.KeepPrefixes()...),
	}

	for _, rec := range records {
		if !rec.HasRawData() {
			continue
		}
		ex.summary.SubjectsEligible++
	}

	for _, rec := range records {
		if !rec.HasRawData() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return ex.summary, err
		}
		if err := ex.processSubject(ctx, rec); err != nil {
			return ex.summary, err
		}
		ex.summary.SubjectsProcessed++
	}
	return ex.summary, nil
}

// processSubject handles every file in one subject's working folder.
func (ex *executor) processSubject(ctx context.Context, rec scan.RawFileRecord) error {
	ex.log.Info("Subject %s (%d raw)", rec.SubjectID, len(rec.RawFilenames))

	var retainedDir, deletedDir string
	if ex.layout != nil && ex.cfg.Method.Simulated() {
		var err error
		retainedDir, deletedDir, err = ex.layout.SubjectDirs(rec.SubjectID)
		if err != nil {
			return err
		}
	}

	names, err := scan.Files(rec.Dir)
	if err != nil {
		return err
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(rec.Dir, name)
		decision := naming.Classify(name, rec.RawFilenames, ex.keep)
		ex.log.Debug(ex.cfg.Verbose, "  %s: %s", name, decision)

		switch decision {
		case naming.Dispose:
			err = ex.dispose(ctx, path, deletedDir)
		case naming.Retain:
			ex.summary.Retained++
			err = ex.retain(path, retainedDir)
		default:
			ex.summary.Unrelated++
			err = ex.retain(path, retainedDir)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// retain mirrors path into retainedDir in simulate modes. Delete mode
// leaves retained and unrelated files in place.
func (ex *executor) retain(path, retainedDir string) error {
	if retainedDir == "" {
		return nil
	}
	if err := ex.layout.Place(path, retainedDir); err != nil {
		return err
	}
	ex.log.Retain("SIMULATING RETENTION FOR %s", filepath.Base(path))
	return nil
}

// dispose deletes path, or mirrors it into deletedDir in simulate modes.
// In delete mode nothing is removed once ctx is cancelled, even when the
// operator has just confirmed.
func (ex *executor) dispose(ctx context.Context, path, deletedDir string) error {
	name := filepath.Base(path)
	var size int64
	if fi, err := os.Lstat(path); err == nil {
		size = fi.Size()
	}

	if deletedDir != "" {
		if err := ex.layout.Place(path, deletedDir); err != nil {
			return err
		}
		ex.log.Dispose("SIMULATING DELETION FOR %s", name)
	} else {
		if !ex.firstDeletionConfirmed {
			prompt := fmt.Sprintf("The first file to be deleted will be %s. Does this look right?", path)
			if err := confirm.Require(ctx, ex.confirm, "first deletion", prompt); err != nil {
				return err
			}
			ex.firstDeletionConfirmed = true
			ex.log.Info("Proceeding...")
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		ex.log.Dispose("DELETING %s", name)
	}

	ex.summary.Disposed++
	ex.summary.BytesDisposed += size
	return nil
}
