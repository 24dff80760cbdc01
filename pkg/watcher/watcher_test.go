package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const initialCSV = "Name,Type_1\nBulbasaur,Grass\n"

// harness runs the watch loop in the background and records what it does.
type harness struct {
	mode    Mode
	reloads chan struct{}
	errs    chan error
	done    chan error
}

func writeDataset(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// localFS pins the filesystem classification so the temp dir's real mount
// does not decide the mode.
func localFS(t *testing.T, fsType FilesystemType) {
	t.Helper()
	orig := detectFilesystemTypeFunc
	detectFilesystemTypeFunc = func(string) FilesystemType { return fsType }
	t.Cleanup(func() { detectFilesystemTypeFunc = orig })
}

func startWatch(t *testing.T, path string, reload func() error) *harness {
	t.Helper()
	h := &harness{
		reloads: make(chan struct{}, 16),
		errs:    make(chan error, 16),
		done:    make(chan error, 1),
	}
	if reload == nil {
		reload = func() error { return nil }
	}
	ready := make(chan Mode, 1)
	ctx, cancel := context.WithCancel(context.Background())
	s := settings{
		settle: 50 * time.Millisecond,
		poll:   20 * time.Millisecond,
		ready:  func(m Mode) { ready <- m },
	}
	go func() {
		h.done <- run(ctx, path,
			func() error {
				select {
				case h.reloads <- struct{}{}:
				default:
				}
				return reload()
			},
			func(err error) {
				select {
				case h.errs <- err:
				default:
				}
			},
			s,
		)
	}()
	select {
	case h.mode = <-ready:
	case err := <-h.done:
		t.Fatalf("run returned before watching: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not start")
	}
	t.Cleanup(func() {
		cancel()
		<-h.done
	})
	return h
}

func (h *harness) waitReload(t *testing.T) {
	t.Helper()
	select {
	case <-h.reloads:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload")
	}
}

func (h *harness) noReload(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case <-h.reloads:
		t.Fatal("unexpected extra reload")
	case <-time.After(d):
	}
}

func (h *harness) waitErr(t *testing.T) error {
	t.Helper()
	select {
	case err := <-h.errs:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for error")
	}
	return nil
}

func TestRunReloadsOnWrite(t *testing.T) {
	t.Setenv(ForcePollEnvVar, "")
	localFS(t, FSTypeLocal)
	path := filepath.Join(t.TempDir(), "pokemon.csv")
	writeDataset(t, path, initialCSV)

	h := startWatch(t, path, nil)
	if h.mode != ModeNotify {
		t.Fatalf("mode = %v, want fsnotify", h.mode)
	}
	writeDataset(t, path, initialCSV+"Charmander,Fire\n")
	h.waitReload(t)
}

func TestRunCoalescesBurst(t *testing.T) {
	t.Setenv(ForcePollEnvVar, "")
	localFS(t, FSTypeLocal)
	path := filepath.Join(t.TempDir(), "pokemon.csv")
	writeDataset(t, path, initialCSV)

	h := startWatch(t, path, nil)
	content := initialCSV
	for _, row := range []string{"Charmander,Fire\n", "Squirtle,Water\n", "Pikachu,Electric\n", "Abra,Psychic\n"} {
		content += row
		writeDataset(t, path, content)
	}
	h.waitReload(t)
	h.noReload(t, 200*time.Millisecond)
}

func TestRunSeesReplaceByRename(t *testing.T) {
	t.Setenv(ForcePollEnvVar, "")
	localFS(t, FSTypeLocal)
	dir := t.TempDir()
	path := filepath.Join(dir, "pokemon.csv")
	writeDataset(t, path, initialCSV)

	h := startWatch(t, path, nil)
	tmp := filepath.Join(dir, ".pokemon.csv.tmp")
	writeDataset(t, tmp, initialCSV+"Mew,Psychic\n")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
	h.waitReload(t)
}

func TestRunIgnoresSiblingFiles(t *testing.T) {
	t.Setenv(ForcePollEnvVar, "")
	localFS(t, FSTypeLocal)
	dir := t.TempDir()
	path := filepath.Join(dir, "pokemon.csv")
	writeDataset(t, path, initialCSV)

	h := startWatch(t, path, nil)
	writeDataset(t, filepath.Join(dir, "notes.txt"), "unrelated")
	h.noReload(t, 200*time.Millisecond)
}

func TestRunPollsWhenForced(t *testing.T) {
	t.Setenv(ForcePollEnvVar, "yes")
	localFS(t, FSTypeLocal)
	path := filepath.Join(t.TempDir(), "pokemon.csv")
	writeDataset(t, path, initialCSV)

	h := startWatch(t, path, nil)
	if h.mode != ModePoll {
		t.Fatalf("mode = %v, want polling", h.mode)
	}
	h.noReload(t, 100*time.Millisecond)
	writeDataset(t, path, initialCSV+"Charmander,Fire\n")
	h.waitReload(t)
}

func TestRunPollsOnRemoteFilesystem(t *testing.T) {
	t.Setenv(ForcePollEnvVar, "")
	for _, fsType := range []FilesystemType{FSTypeNFS, FSTypeSMB, FSTypeFUSE} {
		t.Run(fsType.String(), func(t *testing.T) {
			localFS(t, fsType)
			path := filepath.Join(t.TempDir(), "pokemon.csv")
			writeDataset(t, path, initialCSV)

			h := startWatch(t, path, nil)
			if h.mode != ModePoll {
				t.Fatalf("mode = %v, want polling on %s", h.mode, fsType)
			}
		})
	}
}

func TestRunReportsRemovalAndRecovers(t *testing.T) {
	t.Setenv(ForcePollEnvVar, "1")
	path := filepath.Join(t.TempDir(), "pokemon.csv")
	writeDataset(t, path, initialCSV)

	h := startWatch(t, path, nil)
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := h.waitErr(t); !errors.Is(err, ErrFileRemoved) {
		t.Fatalf("expected ErrFileRemoved, got %v", err)
	}

	writeDataset(t, path, initialCSV+"Mew,Psychic\n")
	h.waitReload(t)
}

func TestRunMissingFileAppears(t *testing.T) {
	t.Setenv(ForcePollEnvVar, "1")
	path := filepath.Join(t.TempDir(), "pokemon.csv")

	h := startWatch(t, path, nil)
	h.noReload(t, 100*time.Millisecond)
	select {
	case err := <-h.errs:
		t.Fatalf("a file that never existed should not be reported removed: %v", err)
	default:
	}
	writeDataset(t, path, initialCSV)
	h.waitReload(t)
}

func TestRunReloadErrorKeepsWatching(t *testing.T) {
	t.Setenv(ForcePollEnvVar, "1")
	path := filepath.Join(t.TempDir(), "pokemon.csv")
	writeDataset(t, path, initialCSV)

	errBadData := errors.New("bad data")
	calls := 0
	h := startWatch(t, path, func() error {
		calls++
		if calls == 1 {
			return errBadData
		}
		return nil
	})

	writeDataset(t, path, "garbage")
	h.waitReload(t)
	if err := h.waitErr(t); !errors.Is(err, errBadData) {
		t.Fatalf("expected reload error, got %v", err)
	}

	writeDataset(t, path, initialCSV+"Charmander,Fire\n")
	h.waitReload(t)
}

func TestRunReturnsOnCancel(t *testing.T) {
	t.Setenv(ForcePollEnvVar, "1")
	path := filepath.Join(t.TempDir(), "pokemon.csv")
	writeDataset(t, path, initialCSV)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, path, func() error { return nil }, nil)
	}()
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestModeString(t *testing.T) {
	if ModeNotify.String() != "fsnotify" || ModePoll.String() != "polling" {
		t.Errorf("mode strings = %q, %q", ModeNotify, ModePoll)
	}
}

func TestForcePollFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"1", true},
		{"true", true},
		{" YES ", true},
		{"on", true},
		{"0", false},
		{"no", false},
		{"maybe", false},
	}
	for _, tt := range tests {
		t.Setenv(ForcePollEnvVar, tt.value)
		if got := forcePollFromEnv(); got != tt.want {
			t.Errorf("%s=%q: got %v, want %v", ForcePollEnvVar, tt.value, got, tt.want)
		}
	}
}

func TestFileStampSame(t *testing.T) {
	now := time.Now()
	a := fileStamp{mtime: now, size: 10}
	if !a.same(fileStamp{mtime: now.UTC(), size: 10}) {
		t.Error("same instant in another location should match")
	}
	if a.same(fileStamp{mtime: now, size: 11}) || a.same(fileStamp{mtime: now.Add(time.Second), size: 10}) {
		t.Error("size or mtime change should differ")
	}
}

func TestFilesystemTypeString(t *testing.T) {
	tests := []struct {
		fsType FilesystemType
		want   string
	}{
		{FSTypeUnknown, "unknown"},
		{FSTypeLocal, "local"},
		{FSTypeNFS, "nfs"},
		{FSTypeSMB, "smb"},
		{FSTypeFUSE, "fuse"},
		{FilesystemType(99), "unknown"},
	}
	for _, tc := range tests {
		if got := tc.fsType.String(); got != tc.want {
			t.Errorf("FilesystemType(%d).String() = %q, want %q", tc.fsType, got, tc.want)
		}
	}
}

func TestIsRemoteFilesystem(t *testing.T) {
	for _, ft := range []FilesystemType{FSTypeNFS, FSTypeSMB, FSTypeFUSE} {
		if !isRemoteFilesystem(ft) {
			t.Errorf("%v should be remote", ft)
		}
	}
	for _, ft := range []FilesystemType{FSTypeUnknown, FSTypeLocal} {
		if isRemoteFilesystem(ft) {
			t.Errorf("%v should not be remote", ft)
		}
	}
}

func TestDetectFilesystemTypeEmptyPath(t *testing.T) {
	if got := DetectFilesystemType(""); got != FSTypeUnknown {
		t.Errorf("DetectFilesystemType(\"\") = %v, want unknown", got)
	}
}
