package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	session bool

	calls []string
	args  []string
}

func (f *fakeExec) record(name string, args ...string) {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args...)
}

func (f *fakeExec) hasSession() bool { return f.session }
func (f *fakeExec) Login(ctx context.Context) error {
	f.record("login")
	f.session = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.record("logout")
	f.session = false
	return nil
}
func (f *fakeExec) List(ctx context.Context) error { f.record("list"); return nil }
func (f *fakeExec) Show(ctx context.Context, title string) error {
	f.record("show", title)
	return nil
}
func (f *fakeExec) New(ctx context.Context) error { f.record("new"); return nil }
func (f *fakeExec) Edit(ctx context.Context, title string) error {
	f.record("edit", title)
	return nil
}
func (f *fakeExec) Rename(ctx context.Context, oldTitle, newTitle string) error {
	f.record("rename", oldTitle, newTitle)
	return nil
}
func (f *fakeExec) Remove(ctx context.Context, title string) error {
	f.record("rm", title)
	return nil
}
func (f *fakeExec) Flush(ctx context.Context) error    { f.record("flush"); return nil }
func (f *fakeExec) Rooms(ctx context.Context) error    { f.record("rooms"); return nil }
func (f *fakeExec) MakeRoom(ctx context.Context) error { f.record("mkroom"); return nil }
func (f *fakeExec) Join(ctx context.Context, roomID string) error {
	f.record("join", roomID)
	return nil
}
func (f *fakeExec) Use(ctx context.Context, target string) error {
	f.record("use", target)
	return nil
}
func (f *fakeExec) Upload(ctx context.Context, name, path string) error {
	f.record("upload", name, path)
	return nil
}
func (f *fakeExec) Download(ctx context.Context, name, path string) error {
	f.record("download", name, path)
	return nil
}
func (f *fakeExec) Files(ctx context.Context) error { f.record("files"); return nil }

func silencePrintln(t *testing.T) {
	t.Helper()
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"new",
		"list",
		"show todo",
		"edit todo",
		"rename todo done",
		"flush",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewScanner(input))

	wantOrder := []string{"login", "new", "list", "show", "edit", "rename", "flush"}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
}

func TestRunREPL_ArgumentsReachHandlers(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"show todo",
		"rename old new",
		"use personal",
		"upload pic.png /tmp/pic.png",
		"quit",
	}, "\n"))

	exec := &fakeExec{session: true}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(input))

	want := []string{"todo", "old", "new", "personal", "pic.png", "/tmp/pic.png"}
	if len(exec.args) != len(want) {
		t.Fatalf("args mismatch: got %v, want %v", exec.args, want)
	}
	for i := range want {
		if exec.args[i] != want[i] {
			t.Fatalf("args mismatch: got %v, want %v", exec.args, want)
		}
	}
}

func TestRunREPL_UsageLinesDoNotDispatch(t *testing.T) {
	silencePrintln(t)

	// Missing arguments should print usage, not call the handler.
	input := strings.NewReader("show\nrename only-one\nuse\nquit\n")
	exec := &fakeExec{session: true}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(input))

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

func TestRunREPL_ExitsOnEOF(t *testing.T) {
	silencePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("")))

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	silencePrintln(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("list\nlist\n")))

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
