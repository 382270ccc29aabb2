package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/backmassage/spmcleanup/internal/check"
	"github.com/backmassage/spmcleanup/internal/config"
	"github.com/backmassage/spmcleanup/internal/confirm"
	"github.com/backmassage/spmcleanup/internal/display"
	"github.com/backmassage/spmcleanup/internal/logging"
	"github.com/backmassage/spmcleanup/internal/naming"
	"github.com/backmassage/spmcleanup/internal/scan"
	"github.com/backmassage/spmcleanup/internal/simulate"
)

// Run is the top-level entry point for one cleanup pass over the locations
// resolved by check.Preflight. It returns the summary gathered so far
// together with the error that stopped the run, if any. In simulate modes
// the simulation root is removed on the way out when nothing was mirrored
// into it.
func Run(ctx context.Context, cfg *config.Config, paths check.Paths, log *logging.Logger, c confirm.Confirmer) (sum Summary, err error) {
	layout, err := createLayout(cfg, paths)
	if err != nil {
		if errors.Is(err, simulate.ErrDirectoryExists) {
			log.Error("Simulation directory already exists. Delete it and its contents before proceeding.")
		}
		return sum, err
	}
	if layout != nil {
		defer func() {
			removed, rmErr := layout.RemoveIfEmpty()
			if rmErr != nil {
				log.Warn("Cannot clean up simulation directory: %v", rmErr)
				return
			}
			if removed {
				log.Debug(cfg.Verbose, "Removed empty simulation directory %s", layout.Root)
			}
		}()
	}

	keep := naming.NewKeepList(cfg.KeepPrefixes()...)
	logIntro(cfg, log, layout)
	if err := confirm.Require(ctx, c, "run settings", "Is all of this correct?"); err != nil {
		log.Info("Exiting.")
		return sum, err
	}
	logKeepList(log, keep)

	var exclude string
	if layout != nil {
		exclude = layout.Root
	}
	records, scanned, err := scanSubjects(ctx, cfg, log, c, exclude)
	sum.SubjectsScanned = scanned
	if err != nil {
		return sum, err
	}

	execSum, err := Execute(ctx, cfg, log, c, layout, records)
	execSum.SubjectsScanned = scanned
	sum = execSum
	if err != nil {
		if errors.Is(err, confirm.ErrUserAbort) {
			log.Info("Exiting.")
		}
		return sum, err
	}

	logSummary(cfg, log, &sum, layout)
	return sum, nil
}

// createLayout makes the simulation root for simulate modes; nil otherwise.
// The root resolved by Preflight is used when present.
func createLayout(cfg *config.Config, paths check.Paths) (*simulate.Layout, error) {
	if !cfg.Method.Simulated() {
		return nil, nil
	}
	root := paths.SimRoot
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if root, err = filepath.Abs(cfg.SimRoot(cwd)); err != nil {
			return nil, err
		}
	}
	placement := simulate.Link
	if cfg.Method == config.MethodSimCopy {
		placement = simulate.Copy
	}
	return simulate.Create(root, placement)
}

// scanSubjects builds a record for every subject folder and confirms the
// naming convention with the operator at the first subject that has raw
// data. Missing folders and subjects without preprocessed data are reported
// and skipped.
func scanSubjects(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	c confirm.Confirmer,
	exclude string,
) ([]scan.RawFileRecord, int, error) {
	subjects, err := scan.Subjects(cfg.InputDir, exclude)
	if err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}
	log.Info("Found %s", display.FormatCount(len(subjects), "subject folder"))

	scanner := scan.Scanner{Label: cfg.PreprocLabel, RelPath: cfg.RelPath}
	var records []scan.RawFileRecord
	confirmed := false

	for _, subject := range subjects {
		if err := ctx.Err(); err != nil {
			return records, len(subjects), err
		}

		rec, err := scanner.ScanSubject(cfg.InputDir, subject)
		switch {
		case errors.Is(err, scan.ErrPathNotFound):
			log.Warn("The specified path does not exist for %s. Cannot look for raw data.", subject)
			continue
		case errors.Is(err, scan.ErrNoPreprocessedData):
			log.Warn("No preprocessed data found for %s. Check the input directory and -rel_path.", subject)
			continue
		case err != nil:
			return records, len(subjects), err
		}

		if !rec.HasRawData() {
			log.Debug(cfg.Verbose, "%s: %s but no matching raw file",
				subject, display.FormatCount(rec.FinalFiles, "preprocessed file"))
		}
		records = append(records, rec)

		if confirmed || !rec.HasRawData() {
			continue
		}
		if err := confirm.Require(ctx, c, "naming convention", conventionPrompt(rec)); err != nil {
			if !errors.Is(err, confirm.ErrUserAbort) {
				return records, len(subjects), err
			}
			log.Error("Your data may not be conventionally structured for SPM output, or the preprocessing label is wrong. Not proceeding.")
			return records, len(subjects), err
		}
		confirmed = true
		log.Info("Proceeding...")
	}
	return records, len(subjects), nil
}

func conventionPrompt(rec scan.RawFileRecord) string {
	const tail = "If so, this logic will be applied to the other subjects."
	if len(rec.RawFilenames) == 1 {
		return fmt.Sprintf("The first subject identified (%s) has 1 raw file, in the form '%s'. Is this correct? %s",
			rec.SubjectID, rec.RawFilenames[0], tail)
	}
	return fmt.Sprintf("The first subject identified (%s) has %d raw files, one of which is in the form '%s'. Is this correct? %s",
		rec.SubjectID, len(rec.RawFilenames), rec.RawFilenames[0], tail)
}

// --- Logging helpers ---

func logIntro(cfg *config.Config, log *logging.Logger, layout *simulate.Layout) {
	log.Info("Targeting data in '%s'; it should contain one folder per subject.", cfg.InputDir)
	if cfg.RelPath != "" {
		log.Info("Final preprocessed data is expected as '%s/<SUBJECT ID>/%s/%s<RAW FILE NAME>'.",
			cfg.InputDir, cfg.RelPath, cfg.PreprocLabel)
	} else {
		log.Info("Final preprocessed data is expected as '%s/<SUBJECT ID>/%s<RAW FILE NAME>'.",
			cfg.InputDir, cfg.PreprocLabel)
	}

	switch cfg.Method {
	case config.MethodDelete:
		log.Warn("DELETION mode: every file marked for deletion will be deleted. Proceed with caution.")
	case config.MethodSimLink:
		log.Info("SIMULATION LINK mode: symbolic links show how the data would look after cleanup; nothing is deleted.")
	case config.MethodSimCopy:
		log.Info("SIMULATION COPY mode: copies show how the data would look after cleanup; nothing is deleted.")
	}
	if layout != nil {
		log.Info("Simulation output: %s", layout.Root)
	}
	log.Println()
}

func logKeepList(log *logging.Logger, keep naming.KeepList) {
	log.Info("Files containing a raw file name will be deleted (or marked deleted), except the raw file itself and files starting with:")
	for _, p := range keep.Prefixes() {
		log.Info("  - %s", p)
	}
	log.Println()
}

func logSummary(cfg *config.Config, log *logging.Logger, sum *Summary, layout *simulate.Layout) {
	log.Info("==============================")
	if sum.SubjectsEligible == 0 {
		log.Warn("No raw files were found, so no files were marked for deletion.")
		log.Warn("Check the input path structure, and set -rel_path if the data sits in a subfolder of each subject.")
		return
	}

	log.Info("Subjects: %d processed of %d scanned", sum.SubjectsProcessed, sum.SubjectsScanned)
	log.Info("Files: %d retained, %d unrelated, %d disposed", sum.Retained, sum.Unrelated, sum.Disposed)

	if cfg.Method == config.MethodDelete && !sum.AnyDisposed() {
		log.Warn("Raw files were identified, but no files were appropriate for deletion.")
		return
	}

	verb := "Deleted"
	if cfg.Method.Simulated() {
		verb = "Would delete"
	}
	log.Success("%s %s (%s)", verb,
		display.FormatCount(sum.Disposed, "file"), display.FormatBytes(sum.BytesDisposed))
	if layout != nil {
		log.Info("Review the simulation in %s", layout.Root)
	}
}
