package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/maksimkurb/hostconf/src/internal/errors"
	"github.com/maksimkurb/hostconf/src/internal/hashing"
	"github.com/maksimkurb/hostconf/src/internal/log"
	"github.com/maksimkurb/hostconf/src/internal/models"
	"github.com/maksimkurb/hostconf/src/internal/utils"
)

const (
	backupSuffix     = ".bak"
	backupTimeFormat = "20060102T150405.000000000Z"
	defaultFileMode  = 0644
)

var logger = log.Prefixed("writer")

// StagedFile is one staged document.
type StagedFile struct {
	// Label is the companion label (the zone name of a DNS zone file).
	Label      string
	LivePath   string
	StagedPath string
	Checksum   string
}

// Staged holds the staged files of a document, companions first.
type Staged struct {
	Files []StagedFile
}

// Primary returns the staged main configuration file.
func (s *Staged) Primary() StagedFile {
	return s.Files[len(s.Files)-1]
}

// Companions returns the staged companion files.
func (s *Staged) Companions() []StagedFile {
	return s.Files[:len(s.Files)-1]
}

// Backup describes a retained copy of a previous live file.
type Backup struct {
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"createdAt"`
	Size      int64     `json:"size"`
}

// Writer stages and commits configuration files.
type Writer struct {
	retention int
	now       func() time.Time
}

// New creates a Writer that keeps at least one and at most retention backups per file.
func New(retention int) *Writer {
	if retention < 1 {
		retention = 1
	}
	return &Writer{retention: retention, now: time.Now}
}

// Stage writes every file of doc to a temporary path beside its live path.
func (w *Writer) Stage(doc *models.GeneratedDocument) (*Staged, error) {
	staged := &Staged{}
	for _, file := range doc.Files() {
		tmpPath, err := writeTemp(file.Path, []byte(file.Content))
		if err != nil {
			w.Discard(staged)
			return nil, errors.NewIOError(fmt.Sprintf("failed to stage %s", file.Path), err)
		}
		staged.Files = append(staged.Files, StagedFile{
			Label:      file.Label,
			LivePath:   file.Path,
			StagedPath: tmpPath,
			Checksum:   file.Checksum,
		})
		logger.Debugf("Staged %s as %s", file.Path, tmpPath)
	}
	return staged, nil
}

func writeTemp(livePath string, content []byte) (string, error) {
	dir := filepath.Dir(livePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	mode := os.FileMode(defaultFileMode)
	var owner *syscall.Stat_t
	if info, err := os.Stat(livePath); err == nil {
		mode = info.Mode().Perm()
		owner, _ = info.Sys().(*syscall.Stat_t)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(livePath)+".staged-*")
	if err != nil {
		return "", err
	}
	tmpPath := f.Name()

	if err := writeAndSync(f, content, mode, owner); err != nil {
		utils.RemoveOrWarn(tmpPath)
		return "", err
	}
	return tmpPath, nil
}

// writeAndSync writes content and gives the file the mode and, when known,
// the owner of the live file it will replace.
func writeAndSync(f *os.File, content []byte, mode os.FileMode, owner *syscall.Stat_t) error {
	defer utils.CloseOrWarn(f)

	if _, err := f.Write(content); err != nil {
		return err
	}
	if owner != nil {
		if err := f.Chown(int(owner.Uid), int(owner.Gid)); err != nil {
			return fmt.Errorf("failed to preserve owner %d:%d: %w", owner.Uid, owner.Gid, err)
		}
	}
	if err := f.Chmod(mode); err != nil {
		return err
	}
	return f.Sync()
}

// promoted is a committed file and the backup of the version it replaced.
// An empty backup means the file did not exist before.
type promoted struct {
	livePath string
	backup   string
}

// Commit promotes staged files to their live paths, companions first.
// Either every file is promoted or, on failure, the files already promoted are
// restored to their previous versions. It returns the backup paths created
// for the replaced live files.
func (w *Writer) Commit(staged *Staged) ([]string, error) {
	var done []promoted
	for i, file := range staged.Files {
		backup, err := w.commitFile(file)
		if err != nil {
			w.Discard(&Staged{Files: staged.Files[i:]})
			w.restore(done)
			return nil, errors.NewIOError(fmt.Sprintf("failed to commit %s", file.LivePath), err)
		}
		done = append(done, promoted{livePath: file.LivePath, backup: backup})
	}

	var backups []string
	for _, p := range done {
		if err := w.prune(p.livePath); err != nil {
			logger.Warnf("Failed to prune backups of %s: %v", p.livePath, err)
		}
		if p.backup != "" {
			backups = append(backups, p.backup)
		}
	}
	return backups, nil
}

func (w *Writer) commitFile(file StagedFile) (string, error) {
	backup, err := w.backup(file.LivePath)
	if err != nil {
		return "", err
	}

	if err := os.Rename(file.StagedPath, file.LivePath); err != nil {
		if backup != "" {
			utils.RemoveOrWarn(backup)
		}
		return "", err
	}
	if err := syncDir(filepath.Dir(file.LivePath)); err != nil {
		logger.Warnf("Failed to sync directory of %s: %v", file.LivePath, err)
	}
	logger.Debugf("Committed %s", file.LivePath)
	return backup, nil
}

// restore undoes promotions in reverse order.
func (w *Writer) restore(done []promoted) {
	for i := len(done) - 1; i >= 0; i-- {
		p := done[i]
		if p.backup == "" {
			if utils.RemoveOrWarn(p.livePath) {
				logger.Warnf("Removed %s after a failed commit", p.livePath)
			}
			continue
		}
		if err := os.Rename(p.backup, p.livePath); err != nil {
			logger.Errorf("Failed to restore %s from %s: %v", p.livePath, p.backup, err)
			continue
		}
		if err := syncDir(filepath.Dir(p.livePath)); err != nil {
			logger.Warnf("Failed to sync directory of %s: %v", p.livePath, err)
		}
		logger.Warnf("Restored %s after a failed commit", p.livePath)
	}
}

// backup preserves the current live file, if any, and returns the backup path.
func (w *Writer) backup(livePath string) (string, error) {
	if _, err := os.Stat(livePath); os.IsNotExist(err) {
		return "", nil
	} else if err != nil {
		return "", err
	}

	backupPath := fmt.Sprintf("%s.%s%s", livePath, w.now().UTC().Format(backupTimeFormat), backupSuffix)
	if err := os.Link(livePath, backupPath); err == nil {
		return backupPath, nil
	}
	if err := copyFile(livePath, backupPath); err != nil {
		return "", err
	}
	return backupPath, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer utils.CloseOrWarn(in)

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer utils.CloseOrWarn(d)
	return d.Sync()
}

func (w *Writer) prune(livePath string) error {
	backups, err := w.Backups(livePath)
	if err != nil {
		return err
	}
	for _, b := range backups[min(len(backups), w.retention):] {
		if err := os.Remove(b.Path); err != nil && !os.IsNotExist(err) {
			return err
		}
		logger.Debugf("Removed old backup %s", b.Path)
	}
	return nil
}

// Discard removes staged files. Live files are never touched.
func (w *Writer) Discard(staged *Staged) {
	if staged == nil {
		return
	}
	for _, file := range staged.Files {
		utils.RemoveOrWarn(file.StagedPath)
	}
}

// Read returns the live content at path. A missing file yields (nil, false, nil).
func (w *Writer) Read(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewIOError(fmt.Sprintf("failed to read %s", path), err)
	}
	return data, true, nil
}

// Checksum returns the checksum of the live file at path without loading it
// into memory. A missing file yields ("", false, nil).
func (w *Writer) Checksum(path string) (string, bool, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.NewIOError(fmt.Sprintf("failed to read %s", path), err)
	}
	defer utils.CloseOrWarn(f)

	sum, err := hashing.ReaderChecksum(f)
	if err != nil {
		return "", false, errors.NewIOError(fmt.Sprintf("failed to read %s", path), err)
	}
	return sum, true, nil
}

// Backups lists the retained backups of livePath, newest first.
func (w *Writer) Backups(livePath string) ([]Backup, error) {
	dir := filepath.Dir(livePath)
	prefix := filepath.Base(livePath) + "."

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewIOError(fmt.Sprintf("failed to list backups of %s", livePath), err)
	}

	var backups []Backup
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, backupSuffix) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, prefix), backupSuffix)
		createdAt, err := time.Parse(backupTimeFormat, stamp)
		if err != nil {
			continue
		}
		var size int64
		if info, err := entry.Info(); err == nil {
			size = info.Size()
		}
		backups = append(backups, Backup{Path: filepath.Join(dir, name), CreatedAt: createdAt, Size: size})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}
