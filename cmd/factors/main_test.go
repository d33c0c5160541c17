package main

import (
	"bytes"
	"context"
	stderrs "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	kit "factors/internal/platform/testkit"
)

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errb bytes.Buffer
	code = run(context.Background(), args, &out, &errb)
	return code, out.String(), errb.String()
}

func TestRun_PrintsPairs(t *testing.T) {
	p := kit.InputFile(t, "12", "7", "1", "100", "9", "-5")
	code, out, _ := runCLI(t, p)
	if code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}
	if out != "12=2*6\n100=2*50\n9=3*3\n" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestRun_UsageErrors(t *testing.T) {
	cases := [][]string{
		{},
		{"a.txt", "b.txt"},
	}
	for _, args := range cases {
		code, out, errOut := runCLI(t, args...)
		if code != 1 {
			t.Fatalf("args %v: exit = %d, want 1", args, code)
		}
		if out != "" {
			t.Fatalf("args %v: unexpected stdout %q", args, out)
		}
		kit.MustContain(t, errOut, "Usage: factors <file>")
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	code, _, errOut := runCLI(t, "-nope", "x.txt")
	if code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	kit.MustContain(t, errOut, "Usage: factors <file>")
}

func TestRun_Help(t *testing.T) {
	code, _, errOut := runCLI(t, "-h")
	if code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}
	kit.MustContain(t, errOut, "-workers")
	kit.MustContain(t, errOut, "Flags must come before <file>")
}

func TestRun_FlagsAfterFileAreArguments(t *testing.T) {
	p := kit.InputFile(t, "12")
	code, out, errOut := runCLI(t, p, "-mode", "scan")
	if code != 1 || out != "" {
		t.Fatalf("exit = %d stdout = %q", code, out)
	}
	kit.MustContain(t, errOut, "Usage: factors <file>")
}

func TestRun_DoubleDashEndsFlags(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "-numbers.txt")
	if err := os.WriteFile(p, []byte("12\n"), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	code, out, errOut := runCLI(t, "--", "-numbers.txt")
	if code != 0 {
		t.Fatalf("exit = %d stderr = %q", code, errOut)
	}
	if out != "12=2*6\n" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runCLI(t, "-version")
	if code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}
	kit.MustContain(t, out, "factors dev")
}

func TestRun_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.txt")
	code, out, errOut := runCLI(t, missing)
	if code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if out != "" {
		t.Fatalf("unexpected stdout %q", out)
	}
	if strings.TrimSpace(errOut) != "Error: can't open "+missing {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestRun_InvalidOption(t *testing.T) {
	p := kit.InputFile(t, "12")
	code, out, errOut := runCLI(t, "-workers", "0", p)
	if code != 1 || out != "" {
		t.Fatalf("exit = %d stdout = %q", code, out)
	}
	kit.MustContain(t, errOut, "-workers must be at least 1")
}

func TestRun_ScanModeLargerFirstParallel(t *testing.T) {
	p := kit.InputFile(t, "12 9", "", "7 100 x 15")
	code, out, _ := runCLI(t, "-mode", "scan", "-larger-first", "-workers", "4", "-batch", "2", p)
	if code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}
	if out != "12=6*2\n9=3*3\n100=50*2\n15=5*3\n" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestRun_EnvDefaults(t *testing.T) {
	t.Setenv("FACTORS_MODE", "scan")
	p := kit.InputFile(t, "4 6")
	code, out, _ := runCLI(t, p)
	if code != 0 || out != "4=2*2\n6=2*3\n" {
		t.Fatalf("exit = %d stdout = %q", code, out)
	}
}

func TestRun_MalformedLinesDoNotFail(t *testing.T) {
	p := kit.InputFile(t, "12", "twelve", "9")
	code, out, _ := runCLI(t, p)
	if code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}
	if out != "12=2*6\n9=3*3\n" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestRun_ReadFailure(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &openInput, func(string) (io.ReadCloser, error) {
		r := io.MultiReader(strings.NewReader("12\n"), iotest.ErrReader(stderrs.New("eio")))
		return io.NopCloser(r), nil
	})
	code, out, errOut := runCLI(t, "whatever.txt")
	if code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if out != "12=2*6\n" {
		t.Fatalf("stdout = %q", out)
	}
	kit.MustContain(t, errOut, "eio")
}
