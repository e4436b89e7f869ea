package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tasky/internal/cli"
	"tasky/internal/commands"
	"tasky/internal/config"
	"tasky/internal/credentials"
	"tasky/internal/exitcode"
	"tasky/internal/service"
	"tasky/internal/testutil"
)

const allLists = "0 Work\n" +
	"  0 [ ] Write report\n" +
	"    1 [ ] Collect numbers\n" +
	"  2 [ ] Book flights\n" +
	"1 Home (empty)\n"

func newFake() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddList("L1", "Work")
	svc.AddTask("L1", service.Task{ID: "A", Title: "Write report"})
	svc.AddTask("L1", service.Task{ID: "B", Title: "Collect numbers", Parent: "A"})
	svc.AddTask("L1", service.Task{ID: "C", Title: "Book flights"})
	svc.AddList("L2", "Home")
	return svc
}

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

// failingFactory fails the test if a service is requested.
func failingFactory(t *testing.T) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		t.Error("service should not be created")
		return nil, errors.New("unexpected")
	}
}

// run dispatches args with an empty config directory.
func run(t *testing.T, factory cli.ServiceFactory, input string, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	return runIn(t, t.TempDir(), factory, input, args...)
}

func runIn(t *testing.T, dir string, factory cli.ServiceFactory, input string, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	d := cli.NewDispatcher(commands.DefaultRegistry, factory)
	code = d.Run(context.Background(), append([]string{"--config", dir}, args...), strings.NewReader(input), &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	_, stderr, code := run(t, failingFactory(t), "", "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command \"unknowncmd\" for \"tasky\"\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	_, stderr, code := run(t, failingFactory(t), "", "list", "--bogus")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unknown flag: --bogus\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	stdout, stderr, code := run(t, failingFactory(t), "", "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	stdout, _, code := run(t, failingFactory(t), "", "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "tasky 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestDispatcher_List(t *testing.T) {
	stdout, stderr, code := run(t, testFactory(newFake()), "", "l")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if stdout != allLists {
		t.Errorf("expected %q, got %q", allLists, stdout)
	}
}

func TestDispatcher_ToggleFlushesAndPrints(t *testing.T) {
	svc := newFake()
	stdout, stderr, code := run(t, testFactory(svc), "", "toggle", "0")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	want := "Toggling task(s)...\n" +
		"0 Work\n" +
		"  0 [x] Write report\n" +
		"    1 [x] Collect numbers\n" +
		"  2 [ ] Book flights\n" +
		"1 Home (empty)\n"
	if stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}

	for _, id := range []string{"A", "B"} {
		if task, _ := svc.Task("L1", id); task.Status != service.StatusCompleted {
			t.Errorf("expected %s completed remotely, got %q", id, task.Status)
		}
	}
}

func TestDispatcher_SelectedListPrinted(t *testing.T) {
	stdout, stderr, code := run(t, testFactory(newFake()), "", "add", "--tasklist", "1", "Eggs")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	want := "Adding task...\n1 Home\n  0 [ ] Eggs\n"
	if stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}
}

func TestDispatcher_MovePrintsNewOrder(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList("L1", "Errands")
	svc.AddTask("L1", service.Task{ID: "A", Title: "Alpha"})
	svc.AddTask("L1", service.Task{ID: "B", Title: "Bravo"})
	svc.AddTask("L1", service.Task{ID: "C", Title: "Charlie"})

	stdout, stderr, code := run(t, testFactory(svc), "", "move", "--after", "0", "2")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	want := "Moving task...\n" +
		"0 Errands\n" +
		"  0 [ ] Alpha\n" +
		"  1 [ ] Charlie\n" +
		"  2 [ ] Bravo\n"
	if stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}
}

func TestDispatcher_Quiet(t *testing.T) {
	stdout, stderr, code := run(t, testFactory(newFake()), "", "--quiet", "remove", "2")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if stdout != "" {
		t.Errorf("expected no output, got %q", stdout)
	}
}

func TestDispatcher_EditOutOfRange(t *testing.T) {
	svc := newFake()
	_, stderr, code := run(t, testFactory(svc), "", "edit", "--title", "x", "9")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasPrefix(stderr, "error: ") {
		t.Errorf("expected error message, got %q", stderr)
	}
}

func TestDispatcher_AuthError(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, credentials.ErrNoToken
	}
	_, stderr, code := run(t, factory, "", "list")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: not logged in\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_LoadError(t *testing.T) {
	svc := newFake()
	svc.ListTaskListsErr = errors.New("connection refused")
	_, stderr, code := run(t, testFactory(svc), "", "list")

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.Contains(stderr, "connection refused") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_FlushError(t *testing.T) {
	svc := newFake()
	svc.UpdateTaskErr = errors.New("rate limited")
	_, stderr, code := run(t, testFactory(svc), "", "--quiet", "toggle", "2")

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.Contains(stderr, "rate limited") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.SettingsFile), []byte("backend: [oops"), 0600); err != nil {
		t.Fatal(err)
	}
	_, stderr, code := runIn(t, dir, failingFactory(t), "", "list")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr, "invalid YAML") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_DebugLogsRemoteCalls(t *testing.T) {
	_, stderr, code := run(t, testFactory(newFake()), "", "--debug", "list")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stderr, "[DEBUG] ListTaskLists") {
		t.Errorf("expected debug trace, got %q", stderr)
	}
}

func TestInteractive_ToggleThenQuit(t *testing.T) {
	svc := newFake()
	stdout, stderr, code := run(t, testFactory(svc), "toggle 2\nq\n")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if n := strings.Count(stdout, "0 Work\n"); n != 2 {
		t.Errorf("expected the lists printed twice, got %d times:\n%s", n, stdout)
	}
	if !strings.Contains(stdout, "  2 [x] Book flights\n") {
		t.Errorf("expected toggled task in second listing:\n%s", stdout)
	}
	if task, _ := svc.Task("L1", "C"); task.Status != service.StatusCompleted {
		t.Errorf("expected C flushed as completed, got %q", task.Status)
	}
}

func TestInteractive_QuotingAndEOF(t *testing.T) {
	svc := newFake()
	_, stderr, code := run(t, testFactory(svc), `add --note "aisle seat" "Book trains"`)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	found := false
	for _, task := range svc.Tasks("L1") {
		if task.Title == "Book trains" && task.Notes == "aisle seat" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected quoted title and note, got %+v", svc.Tasks("L1"))
	}
}

func TestInteractive_ErrorsDoNotEndLoop(t *testing.T) {
	svc := newFake()
	_, stderr, code := run(t, testFactory(svc), "bogus\nadd 'unterminated\ntoggle 9\nremove 0\nquit\n")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	for _, want := range []string{`unknown command "bogus"`, "invalid command line string", "index out of range"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("expected %q in stderr:\n%s", want, stderr)
		}
	}
	if _, ok := svc.Task("L1", "A"); ok {
		t.Error("expected A deleted after the loop")
	}
}

func TestInteractive_LineFlagsApplyToLineOnly(t *testing.T) {
	svc := newFake()
	_, stderr, code := run(t, testFactory(svc), "add --tasklist 1 Eggs\nadd Milk\nq\n")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if home := svc.Tasks("L2"); len(home) != 1 || home[0].Title != "Eggs" {
		t.Errorf("expected Eggs in Home, got %+v", home)
	}
	if len(svc.Tasks("L1")) != 4 {
		t.Errorf("expected Milk in Work, got %+v", svc.Tasks("L1"))
	}
}

func TestInteractive_DeletePromptReadsNextLine(t *testing.T) {
	svc := newFake()
	_, stderr, code := run(t, testFactory(svc), "delete\ny\nq\n")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if lists := svc.Lists(); len(lists) != 1 || lists[0].ID != "L2" {
		t.Errorf("expected only Home left, got %+v", lists)
	}
}

func TestLocalBackend_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.SettingsFile), []byte("backend: local\n"), 0600); err != nil {
		t.Fatal(err)
	}

	steps := [][]string{
		{"new", "Errands"},
		{"add", "--date", "05/01/2026", "Post letter"},
		{"toggle", "0"},
	}
	for _, args := range steps {
		if _, stderr, code := runIn(t, dir, cli.DefaultServiceFactory, "", append([]string{"--quiet"}, args...)...); code != exitcode.Success {
			t.Fatalf("%v: exit code %d (%s)", args, code, stderr)
		}
	}

	stdout, stderr, code := runIn(t, dir, cli.DefaultServiceFactory, "", "list")
	if code != exitcode.Success {
		t.Fatalf("list: exit code %d (%s)", code, stderr)
	}
	want := "0 Errands\n  0 [x] Post letter\n    Due Date: Fri, May 01, 2026\n"
	if stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}
	if _, err := os.Stat(filepath.Join(dir, config.DatabaseFile)); err != nil {
		t.Errorf("expected database in config dir: %v", err)
	}
}

func TestDefaultServiceFactory_NoOAuthClient(t *testing.T) {
	_, stderr, code := run(t, cli.DefaultServiceFactory, "", "list")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr, "oauth_client.json not found") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}
