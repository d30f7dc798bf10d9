package errors

import (
	"io"
	"strings"
	"testing"
)

func TestABCIInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"registered error": {
			err:      ErrUnauthorized,
			wantCode: ErrUnauthorized.code,
			wantLog:  "unauthorized",
		},
		"wrapped registered error": {
			err:      Wrap(Wrap(ErrNotFound, "jar"), "cannot tip"),
			wantCode: ErrNotFound.code,
			wantLog:  "cannot tip: jar: not found",
		},
		"nil": {
			wantCode: SuccessABCICode,
		},
		"nil registered error": {
			err:      (*Error)(nil),
			wantCode: SuccessABCICode,
		},
		"stdlib error is internal": {
			err:      io.EOF,
			wantCode: internalABCICode,
			wantLog:  internalABCILog,
		},
		"wrapped stdlib error is internal": {
			err:      Wrap(io.EOF, "cannot read block"),
			wantCode: internalABCICode,
			wantLog:  internalABCILog,
		},
		"stdlib error in debug mode": {
			err:      io.EOF,
			debug:    true,
			wantCode: internalABCICode,
			wantLog:  "EOF",
		},
		"panic message is hidden": {
			err:      Wrap(ErrPanic, "secret state"),
			wantCode: ErrPanic.code,
			wantLog:  "panic",
		},
		"custom coder": {
			err:      customErr{},
			wantCode: 999,
			wantLog:  "custom",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want %q log, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestABCIInfoDebugPanic(t *testing.T) {
	code, log := ABCIInfo(Wrap(ErrPanic, "secret state"), true)
	if code != ErrPanic.code {
		t.Fatalf("want panic code, got %d", code)
	}
	if !strings.HasPrefix(log, "secret state: panic") {
		t.Fatalf("want full message in debug mode, got %q", log)
	}
}

type customErr struct{}

func (customErr) ABCICode() uint32 { return 999 }

func (customErr) Error() string { return "custom" }
